package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// FindByID loads a store by its UUID. Returns nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// List returns all stores ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	var rows []models.Store
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}
