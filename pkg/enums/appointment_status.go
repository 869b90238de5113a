package enums

import "fmt"

// AppointmentStatus maps to the appointment_status enum in Postgres.
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusConfirmed,
	AppointmentStatusCancelled,
	AppointmentStatusCompleted,
	AppointmentStatusNoShow,
}

// String implements fmt.Stringer.
func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (s AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the appointment lifecycle.
// Confirmed is the only non-terminal state; every transition out of it is
// final from the customer's perspective.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCancelled ||
		s == AppointmentStatusCompleted ||
		s == AppointmentStatusNoShow
}

// BlocksCalendar reports whether an appointment in this status occupies the
// provider's calendar for availability purposes. Completed intervals are in
// the past and no longer block, cancelled and no-show free the slot.
func (s AppointmentStatus) BlocksCalendar() bool {
	return s == AppointmentStatusConfirmed
}

// CountsTowardLimit reports whether the appointment consumes booking quota.
func (s AppointmentStatus) CountsTowardLimit() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusCompleted
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
