package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles store hours and provider weekly hours persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to schedule operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// StoreHoursFor loads the opening window for a store on one weekday. Returns
// nil when no row exists, which means the store is closed that day.
func (r *Repository) StoreHoursFor(ctx context.Context, storeID uuid.UUID, dayOfWeek int) (*models.StoreHours, error) {
	var row models.StoreHours
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND day_of_week = ?", storeID, dayOfWeek).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListStoreHours returns the store's full weekly schedule ordered by day.
func (r *Repository) ListStoreHours(ctx context.Context, storeID uuid.UUID) ([]models.StoreHours, error) {
	var rows []models.StoreHours
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("day_of_week ASC").
		Find(&rows).Error
	return rows, err
}

// ReplaceStoreHours swaps the store's entire weekly schedule in one
// transaction.
func (r *Repository) ReplaceStoreHours(ctx context.Context, storeID uuid.UUID, rows []models.StoreHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", storeID).Delete(&models.StoreHours{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].StoreID = storeID
			if rows[i].ID == uuid.Nil {
				rows[i].ID = uuid.New()
			}
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// WeeklyHoursFor returns a provider's working blocks at one store for one
// weekday ordered by start time. A shift the provider works at another store
// must not open them up here.
func (r *Repository) WeeklyHoursFor(ctx context.Context, storeID, providerID uuid.UUID, dayOfWeek int) ([]models.WeeklyHour, error) {
	var rows []models.WeeklyHour
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND provider_id = ? AND day_of_week = ?", storeID, providerID, dayOfWeek).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}

// WeeklyHoursForDay returns a provider's working blocks for one weekday
// across every store, ordered by start time.
func (r *Repository) WeeklyHoursForDay(ctx context.Context, providerID uuid.UUID, dayOfWeek int) ([]models.WeeklyHour, error) {
	var rows []models.WeeklyHour
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND day_of_week = ?", providerID, dayOfWeek).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}

// ListWeeklyHours returns all of a provider's working blocks.
func (r *Repository) ListWeeklyHours(ctx context.Context, providerID uuid.UUID) ([]models.WeeklyHour, error) {
	var rows []models.WeeklyHour
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("day_of_week ASC").
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateWeeklyHour persists a new working block.
func (r *Repository) CreateWeeklyHour(ctx context.Context, row *models.WeeklyHour) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteWeeklyHour removes a working block owned by the provider. Returns
// gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) DeleteWeeklyHour(ctx context.Context, providerID, hourID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", hourID, providerID).
		Delete(&models.WeeklyHour{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
