package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
)

type catalogRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Service, error)
}

// Service exposes the bookable offering catalog.
type Service interface {
	Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]ServiceDTO, error)
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if input.ProviderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name required")
	}
	if input.DurationMinutes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be positive")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.DiscountedPrice != nil && input.DiscountedPrice.GreaterThan(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discounted price cannot exceed price")
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "general"
	}

	svc := &models.Service{
		StoreID:         input.StoreID,
		ProviderID:      input.ProviderID,
		Name:            name,
		Description:     input.Description,
		Category:        category,
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		DiscountedPrice: input.DiscountedPrice,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return FromModel(svc), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	return FromModel(svc), nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]ServiceDTO, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
