package timeoff

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// TimeOffDTO exposes one time-off block in API responses.
type TimeOffDTO struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateTimeOffInput captures a time-off request after auth extraction.
type CreateTimeOffInput struct {
	ActorID    uuid.UUID
	ActorRole  enums.ActorRole
	ProviderID uuid.UUID
	StartsAt   time.Time
	EndsAt     time.Time
	Reason     *string
}

// CreateResult reports the created block plus the outcome of the cascade over
// the appointments it displaced.
type CreateResult struct {
	TimeOff             TimeOffDTO  `json:"time_off"`
	CancelledCount      int         `json:"cancelled_count"`
	FailedCancellations []uuid.UUID `json:"failed_cancellations,omitempty"`
}

// FromModel maps the persisted block into a DTO.
func FromModel(m *models.TimeOff) *TimeOffDTO {
	if m == nil {
		return nil
	}
	return &TimeOffDTO{
		ID:         m.ID,
		ProviderID: m.ProviderID,
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
	}
}
