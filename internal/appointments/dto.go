package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// AppointmentDTO exposes one appointment in API responses.
type AppointmentDTO struct {
	ID          uuid.UUID               `json:"id"`
	StoreID     uuid.UUID               `json:"store_id"`
	ProviderID  uuid.UUID               `json:"provider_id"`
	CustomerID  uuid.UUID               `json:"customer_id"`
	ServiceID   uuid.UUID               `json:"service_id"`
	Status      enums.AppointmentStatus `json:"status"`
	StartsAt    time.Time               `json:"starts_at"`
	EndsAt      time.Time               `json:"ends_at"`
	Notes       *string                 `json:"notes,omitempty"`
	CancelledBy *uuid.UUID              `json:"cancelled_by,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// CreateAppointmentInput captures a booking request after auth extraction.
// CustomerID may differ from ActorID only when the actor is an admin booking
// on a customer's behalf.
type CreateAppointmentInput struct {
	ActorID    uuid.UUID
	ActorRole  enums.ActorRole
	CustomerID uuid.UUID
	ProviderID uuid.UUID
	StoreID    uuid.UUID
	ServiceID  uuid.UUID
	StartsAt   time.Time
	Notes      *string
}

// UpdateStatusInput captures a lifecycle transition request. Now is the
// instant the transition is judged against; a zero value falls back to the
// wall clock.
type UpdateStatusInput struct {
	ActorID       uuid.UUID
	ActorRole     enums.ActorRole
	AppointmentID uuid.UUID
	Status        enums.AppointmentStatus
	Now           time.Time
}

// ListPage is one page of appointments plus the cursor for the next one.
type ListPage struct {
	Items      []AppointmentDTO `json:"items"`
	NextCursor *string          `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted appointment into a DTO.
func FromModel(m *models.Appointment) *AppointmentDTO {
	if m == nil {
		return nil
	}
	return &AppointmentDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		ProviderID:  m.ProviderID,
		CustomerID:  m.CustomerID,
		ServiceID:   m.ServiceID,
		Status:      m.Status,
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		Notes:       m.Notes,
		CancelledBy: m.CancelledBy,
		CreatedAt:   m.CreatedAt,
	}
}
