package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to settings operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the raw value for a key, or ("", false) when the key is unset.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// Upsert writes the value for a key, creating the row when missing.
func (r *Repository) Upsert(ctx context.Context, key, value string, updatedBy *string) error {
	var existing models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&models.Setting{
			Key:       key,
			Value:     value,
			UpdatedBy: updatedBy,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Setting{}).
		Where("key = ?", key).
		Updates(map[string]any{
			"value":      value,
			"updated_by": updatedBy,
		}).Error
}
