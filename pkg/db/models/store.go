package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store represents a physical barbershop location.
type Store struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Timezone  string         `gorm:"column:timezone;not null;default:'UTC'"`
	Phone     *string        `gorm:"column:phone"`
	Email     *string        `gorm:"column:email"`
	Address   *string        `gorm:"column:address"`
	Amenities pq.StringArray `gorm:"column:amenities;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
