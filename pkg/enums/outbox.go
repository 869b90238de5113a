package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAppointment    OutboxAggregateType = "appointment"
	AggregateTimeOff        OutboxAggregateType = "time_off"
	AggregateBlacklistEntry OutboxAggregateType = "blacklist_entry"
)

var aggregateTypeSet = map[OutboxAggregateType]struct{}{
	AggregateAppointment:    {},
	AggregateTimeOff:        {},
	AggregateBlacklistEntry: {},
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	_, ok := aggregateTypeSet[a]
	return ok
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	parsed := OutboxAggregateType(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid aggregate type %q", value)
	}
	return parsed, nil
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAppointmentCreated   OutboxEventType = "appointment_created"
	EventAppointmentCancelled OutboxEventType = "appointment_cancelled"
	EventAppointmentCompleted OutboxEventType = "appointment_completed"
	EventAppointmentNoShow    OutboxEventType = "appointment_no_show"
	EventTimeOffCreated       OutboxEventType = "time_off_created"
	EventCustomerBlacklisted  OutboxEventType = "customer_blacklisted"
)

var eventTypeSet = map[OutboxEventType]struct{}{
	EventAppointmentCreated:   {},
	EventAppointmentCancelled: {},
	EventAppointmentCompleted: {},
	EventAppointmentNoShow:    {},
	EventTimeOffCreated:       {},
	EventCustomerBlacklisted:  {},
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	_, ok := eventTypeSet[e]
	return ok
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	parsed := OutboxEventType(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid event type %q", value)
	}
	return parsed, nil
}
