package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
)

// StoreDTO exposes store data in API responses.
type StoreDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Amenities []string  `json:"amenities,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStoreInput holds creation-time data for a new store.
type CreateStoreInput struct {
	Name      string
	Timezone  string
	Phone     *string
	Email     *string
	Address   *string
	Amenities []string
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:        m.ID,
		Name:      m.Name,
		Timezone:  m.Timezone,
		Phone:     m.Phone,
		Email:     m.Email,
		Address:   m.Address,
		Amenities: m.Amenities,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
