package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	"github.com/chairtime/chairtime-backend/pkg/pagination"
)

// Repository handles appointment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to appointment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new appointment row.
func (r *Repository) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(appt).Error
}

// FindByID loads an appointment by its UUID. Returns nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

// HasOverlap reports whether a confirmed or completed appointment of the
// provider intersects the half-open interval [startsAt, endsAt). Completed
// rows still block: a slot that was worked cannot be rebooked retroactively.
func (r *Repository) HasOverlap(ctx context.Context, providerID uuid.UUID, startsAt, endsAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("provider_id = ?", providerID).
		Where("status IN ?", []enums.AppointmentStatus{
			enums.AppointmentStatusConfirmed,
			enums.AppointmentStatusCompleted,
		}).
		Where("starts_at < ? AND ends_at > ?", endsAt, startsAt).
		Count(&count).Error
	return count > 0, err
}

// ListBlocking returns the provider's confirmed appointments intersecting
// the window, ordered by start.
func (r *Repository) ListBlocking(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, enums.AppointmentStatusConfirmed).
		Where("starts_at < ? AND ends_at > ?", to, from).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}

// CountInWindow counts the customer's quota-consuming appointments whose
// start time falls in the half-open window [from, to). Confirmed and
// completed rows count; cancellations and no-shows release quota.
func (r *Repository) CountInWindow(ctx context.Context, customerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("customer_id = ?", customerID).
		Where("status IN ?", []enums.AppointmentStatus{
			enums.AppointmentStatusConfirmed,
			enums.AppointmentStatusCompleted,
		}).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// ListConfirmedStartingWithin returns the provider's confirmed appointments
// whose start time falls in [from, to). Used by the time-off cascade: an
// appointment already underway when time off begins is left alone.
func (r *Repository) ListConfirmedStartingWithin(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ?", providerID, enums.AppointmentStatusConfirmed).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}

// TransitionStatus flips a confirmed appointment into a terminal status. The
// WHERE guard on the current status makes the update a compare-and-swap:
// zero rows affected means another transition won.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, to enums.AppointmentStatus, actorID *uuid.UUID) (bool, error) {
	updates := map[string]any{"status": to}
	if to == enums.AppointmentStatusCancelled {
		updates["cancelled_by"] = actorID
	}
	res := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, enums.AppointmentStatusConfirmed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByCustomer returns one cursor page of the customer's appointments in
// chronological order.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("starts_at ASC").
		Order("id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(starts_at > ?) OR (starts_at = ? AND id > ?)", cursor.StartsAt, cursor.StartsAt, cursor.ID)
	}

	var rows []models.Appointment
	err = q.Find(&rows).Error
	return rows, err
}

// ListByProvider returns the provider's appointments starting in [from, to),
// any status, in chronological order.
func (r *Repository) ListByProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}
