package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// WeeklyHourDTO exposes one recurring working block in API responses.
type WeeklyHourDTO struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	StoreID    uuid.UUID `json:"store_id"`
	DayOfWeek  int       `json:"day_of_week"`
	StartsAt   int       `json:"starts_at"`
	EndsAt     int       `json:"ends_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateWeeklyHourInput captures a new working block for a provider.
type CreateWeeklyHourInput struct {
	ProviderID uuid.UUID
	StoreID    uuid.UUID
	DayOfWeek  int
	StartsAt   int
	EndsAt     int
}

// StoreHoursDTO exposes the opening window for one weekday.
type StoreHoursDTO struct {
	DayOfWeek int `json:"day_of_week"`
	OpensAt   int `json:"opens_at"`
	ClosesAt  int `json:"closes_at"`
}

// ReplaceStoreHoursInput is the full weekly schedule for a store. Days absent
// from the list are closed.
type ReplaceStoreHoursInput struct {
	StoreID uuid.UUID
	Days    []StoreHoursDTO
}

// FromWeeklyHourModel maps the persisted block into a DTO.
func FromWeeklyHourModel(m *models.WeeklyHour) *WeeklyHourDTO {
	if m == nil {
		return nil
	}
	return &WeeklyHourDTO{
		ID:         m.ID,
		ProviderID: m.ProviderID,
		StoreID:    m.StoreID,
		DayOfWeek:  m.DayOfWeek,
		StartsAt:   m.StartsAt,
		EndsAt:     m.EndsAt,
		CreatedAt:  m.CreatedAt,
	}
}

// FromStoreHoursModel maps the persisted row into a DTO.
func FromStoreHoursModel(m *models.StoreHours) *StoreHoursDTO {
	if m == nil {
		return nil
	}
	return &StoreHoursDTO{
		DayOfWeek: m.DayOfWeek,
		OpensAt:   m.OpensAt,
		ClosesAt:  m.ClosesAt,
	}
}
