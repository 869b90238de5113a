package models

import "time"

// Setting is a single admin-tunable value. Booking limits live here under the
// keys booking_limit_per_week and booking_limit_per_month and are read fresh
// on every booking attempt.
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedBy *string   `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
