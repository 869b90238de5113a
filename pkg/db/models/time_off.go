package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeOff blocks a provider's calendar between two instants. Intervals are
// half-open: [StartsAt, EndsAt).
type TimeOff struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;not null;index:ix_time_off_provider"`
	StartsAt   time.Time `gorm:"column:starts_at;not null"`
	EndsAt     time.Time `gorm:"column:ends_at;not null"`
	Reason     *string   `gorm:"column:reason"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeOff) TableName() string {
	return "time_off"
}
