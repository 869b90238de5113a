package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/enums"
)

// Principal is the trusted identity extracted from an upstream-issued token.
// Identity and role are taken at face value; authorization beyond role
// branching happens upstream.
type Principal struct {
	UserID uuid.UUID
	Role   enums.ActorRole
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == enums.RoleAdmin
}

// AccessTokenClaims represents the typed JWT this service accepts.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into the request principal.
func (c *AccessTokenClaims) Principal() Principal {
	return Principal{UserID: c.UserID, Role: c.Role}
}
