package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a bookable offering (haircut, beard trim) with a fixed duration.
type Service struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index:ix_services_store"`
	ProviderID      uuid.UUID        `gorm:"column:provider_id;type:uuid;not null;index:ix_services_provider"`
	Name            string           `gorm:"column:name;not null"`
	Description     *string          `gorm:"column:description"`
	Category        string           `gorm:"column:category;not null;default:'general'"`
	DurationMinutes int              `gorm:"column:duration_minutes;not null"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountedPrice *decimal.Decimal `gorm:"column:discounted_price;type:numeric(10,2)"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}
