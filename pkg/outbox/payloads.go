package outbox

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentEventData is the data section for appointment lifecycle events.
type AppointmentEventData struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	StoreID       uuid.UUID `json:"storeId"`
	ProviderID    uuid.UUID `json:"providerId"`
	CustomerID    uuid.UUID `json:"customerId"`
	ServiceID     uuid.UUID `json:"serviceId"`
	Status        string    `json:"status"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	// Cascaded marks cancellations caused by provider time off rather than
	// an explicit actor request.
	Cascaded bool `json:"cascaded,omitempty"`
}

// TimeOffEventData is the data section for time-off creation events.
type TimeOffEventData struct {
	TimeOffID           uuid.UUID `json:"timeOffId"`
	ProviderID          uuid.UUID `json:"providerId"`
	StartsAt            time.Time `json:"startsAt"`
	EndsAt              time.Time `json:"endsAt"`
	CancelledCount      int       `json:"cancelledCount"`
	FailedCancellations int       `json:"failedCancellations,omitempty"`
}

// BlacklistEventData is the data section for customer blacklist events.
type BlacklistEventData struct {
	EntryID       uuid.UUID `json:"entryId"`
	CustomerID    uuid.UUID `json:"customerId"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	Reason        string    `json:"reason"`
}
