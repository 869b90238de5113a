package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// ServiceDTO exposes a bookable offering in API responses.
type ServiceDTO struct {
	ID              uuid.UUID        `json:"id"`
	StoreID         uuid.UUID        `json:"store_id"`
	ProviderID      uuid.UUID        `json:"provider_id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Category        string           `json:"category"`
	DurationMinutes int              `json:"duration_minutes"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CreateServiceInput holds creation-time data for a new offering.
type CreateServiceInput struct {
	StoreID         uuid.UUID
	ProviderID      uuid.UUID
	Name            string
	Description     *string
	Category        string
	DurationMinutes int
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
}

// FromModel maps the persisted service into a DTO.
func FromModel(m *models.Service) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:              m.ID,
		StoreID:         m.StoreID,
		ProviderID:      m.ProviderID,
		Name:            m.Name,
		Description:     m.Description,
		Category:        m.Category,
		DurationMinutes: m.DurationMinutes,
		Price:           m.Price,
		DiscountedPrice: m.DiscountedPrice,
		CreatedAt:       m.CreatedAt,
	}
}
