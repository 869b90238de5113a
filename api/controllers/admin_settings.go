package controllers

import (
	"net/http"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/settings"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// AdminBookingLimitsGet returns the configured per-week/per-month booking
// caps.
func AdminBookingLimitsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		limits, err := svc.BookingLimits(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, limits)
	}
}

type bookingLimitsUpdateRequest struct {
	PerWeek  *int `json:"per_week" validate:"required,min=1"`
	PerMonth *int `json:"per_month" validate:"required,min=1"`
}

// AdminBookingLimitsPut replaces the booking caps. Takes effect on the next
// booking; existing appointments are never re-evaluated.
func AdminBookingLimitsPut(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload bookingLimitsUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var updatedBy *string
		if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
			updatedBy = &userID
		}

		limits, err := svc.UpdateBookingLimits(r.Context(), settings.BookingLimits{
			PerWeek:  *payload.PerWeek,
			PerMonth: *payload.PerMonth,
		}, updatedBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, limits)
	}
}
