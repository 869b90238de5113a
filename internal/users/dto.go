package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/db/models"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// UserDTO exposes safe user data in API responses.
type UserDTO struct {
	ID        uuid.UUID       `json:"id"`
	Role      enums.ActorRole `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Phone     *string         `json:"phone,omitempty"`
	StoreID   *uuid.UUID      `json:"store_id,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:        m.ID,
		Role:      m.Role,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Phone:     m.Phone,
		StoreID:   m.StoreID,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}
