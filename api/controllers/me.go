package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/internal/users"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// UserSource loads user records for profile lookups.
type UserSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Me returns the authenticated user's profile.
func Me(source UserSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user source unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := source.FindByID(r.Context(), principal.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
			return
		}

		responses.WriteSuccess(w, users.FromModel(user))
	}
}
