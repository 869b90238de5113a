package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles service catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new service row.
func (r *Repository) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(svc).Error
}

// FindByID loads a service by its UUID. Returns nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &svc, nil
}

// ListByStore returns the store's offerings ordered by name.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Service, error) {
	var rows []models.Service
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}
