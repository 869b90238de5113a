package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// User covers every actor the engine knows about. Providers carry a home
// store; customers and admins leave StoreID nil.
type User struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Role      enums.ActorRole `gorm:"column:role;type:actor_role;not null"`
	FirstName string          `gorm:"column:first_name;not null"`
	LastName  string          `gorm:"column:last_name;not null"`
	Email     string          `gorm:"column:email;not null;uniqueIndex:ux_users_email"`
	Phone     *string         `gorm:"column:phone"`
	StoreID   *uuid.UUID      `gorm:"column:store_id;type:uuid"`
	Bio       *string         `gorm:"column:bio"`
	AvatarURL *string         `gorm:"column:avatar_url"`
	Active    bool            `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
