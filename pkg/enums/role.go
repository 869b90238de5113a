package enums

import "fmt"

// ActorRole identifies the trusted principal kind attached to a request.
// Role validation happens upstream; this core only branches on it.
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleProvider ActorRole = "provider"
	RoleAdmin    ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	RoleCustomer,
	RoleProvider,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r ActorRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ActorRole.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
