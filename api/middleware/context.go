package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/pkg/auth"
	"github.com/chairtime/chairtime-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// PrincipalFromContext rebuilds the typed principal seeded by Auth. The
// boolean is false when the context carries no usable identity.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil || userID == uuid.Nil {
		return auth.Principal{}, false
	}
	role, err := enums.ParseActorRole(RoleFromContext(ctx))
	if err != nil {
		return auth.Principal{}, false
	}
	return auth.Principal{UserID: userID, Role: role}, true
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
