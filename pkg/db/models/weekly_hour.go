package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyHour is one recurring working block for a provider on a weekday.
// StartsAt and EndsAt are minutes since midnight; a provider may hold
// several non-overlapping blocks on the same day (split shifts).
type WeeklyHour struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index:ix_weekly_hours_provider"`
	StoreID    uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	DayOfWeek  int       `gorm:"column:day_of_week;not null"`
	StartsAt   int       `gorm:"column:starts_at;not null"`
	EndsAt     int       `gorm:"column:ends_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
