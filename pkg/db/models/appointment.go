package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// Appointment is a booked interval on a provider's calendar. The interval is
// half-open: [StartsAt, EndsAt). Only confirmed rows occupy the calendar.
type Appointment struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID               `gorm:"column:store_id;type:uuid;not null;index:ix_appointments_store"`
	ProviderID  uuid.UUID               `gorm:"column:provider_id;type:uuid;not null;index:ix_appointments_provider"`
	CustomerID  uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index:ix_appointments_customer"`
	ServiceID   uuid.UUID               `gorm:"column:service_id;type:uuid;not null"`
	Status      enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null;default:'confirmed'"`
	StartsAt    time.Time               `gorm:"column:starts_at;not null"`
	EndsAt      time.Time               `gorm:"column:ends_at;not null"`
	Notes       *string                 `gorm:"column:notes"`
	CancelledBy *uuid.UUID              `gorm:"column:cancelled_by;type:uuid"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
