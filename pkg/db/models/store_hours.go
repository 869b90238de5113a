package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreHours describes the opening window for a store on one weekday.
// OpensAt and ClosesAt are minutes since midnight. A day with no row is
// closed; availability for that day is all-unavailable.
type StoreHours struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_store_hours_store_day"`
	DayOfWeek int       `gorm:"column:day_of_week;not null;uniqueIndex:ux_store_hours_store_day"`
	OpensAt   int       `gorm:"column:opens_at;not null"`
	ClosesAt  int       `gorm:"column:closes_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreHours) TableName() string {
	return "store_hours"
}
