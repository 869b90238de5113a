package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/timeoff"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

type timeOffCreateRequest struct {
	ProviderID string    `json:"provider_id,omitempty" validate:"omitempty,uuid"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required"`
	Reason     *string   `json:"reason,omitempty"`
}

// TimeOffCreate blocks out a window for a provider and cascades over the
// confirmed appointments it displaces. Admins may act for any provider via
// provider_id; providers always act for themselves.
func TimeOffCreate(svc timeoff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "time off service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload timeOffCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		providerID := principal.UserID
		if payload.ProviderID != "" {
			parsed, err := uuid.Parse(payload.ProviderID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
				return
			}
			providerID = parsed
		}

		result, err := svc.Create(r.Context(), timeoff.CreateTimeOffInput{
			ActorID:    principal.UserID,
			ActorRole:  principal.Role,
			ProviderID: providerID,
			StartsAt:   payload.StartsAt,
			EndsAt:     payload.EndsAt,
			Reason:     payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
