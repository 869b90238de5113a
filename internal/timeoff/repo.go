package timeoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles time-off persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to time-off operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new time-off block.
func (r *Repository) Create(ctx context.Context, block *models.TimeOff) error {
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(block).Error
}

// ListOverlapping returns the provider's time-off blocks intersecting the
// half-open window [from, to), ordered by start.
func (r *Repository) ListOverlapping(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]models.TimeOff, error) {
	var rows []models.TimeOff
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("starts_at < ? AND ends_at > ?", to, from).
		Order("starts_at ASC").
		Find(&rows).Error
	return rows, err
}
