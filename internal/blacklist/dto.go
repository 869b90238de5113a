package blacklist

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// EntryDTO exposes one blacklist row in API responses.
type EntryDTO struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Reason        string    `json:"reason"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromModel maps the persisted entry into a DTO.
func FromModel(m *models.BlacklistEntry) *EntryDTO {
	if m == nil {
		return nil
	}
	return &EntryDTO{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		AppointmentID: m.AppointmentID,
		Reason:        m.Reason,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
