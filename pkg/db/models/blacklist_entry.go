package models

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistEntry records a customer flagged after a no-show. Append-only; one
// row per customer and source appointment keeps repeat transitions from
// stacking.
type BlacklistEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:ux_blacklist_customer_appointment"`
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex:ux_blacklist_customer_appointment"`
	Reason        string    `gorm:"column:reason;not null;default:'no_show'"`
	Notes         *string   `gorm:"column:notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist_entries"
}
