package blacklist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles the append-only blacklist.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to blacklist operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a new entry. A duplicate (customer, appointment) pair is
// treated as already-written and ignored.
func (r *Repository) Append(ctx context.Context, entry *models.BlacklistEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(entry).Error
	if err != nil && dbpkg.IsUniqueViolation(err, "ux_blacklist_customer_appointment") {
		return nil
	}
	return err
}

// ExistsForAppointment reports whether an entry was already written for the
// customer and source appointment.
func (r *Repository) ExistsForAppointment(ctx context.Context, customerID, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlacklistEntry{}).
		Where("customer_id = ? AND appointment_id = ?", customerID, appointmentID).
		Count(&count).Error
	return count > 0, err
}

// ListByCustomer returns a customer's entries, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.BlacklistEntry, error) {
	var rows []models.BlacklistEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
