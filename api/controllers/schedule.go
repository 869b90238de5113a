package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// WeeklyHoursList returns a provider's recurring working blocks.
func WeeklyHoursList(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		providerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hours, err := svc.ListWeeklyHours(r.Context(), providerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": hours})
	}
}

type weeklyHourCreateRequest struct {
	StoreID   string `json:"store_id" validate:"required,uuid"`
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartsAt  *int   `json:"starts_at" validate:"required,min=0,max=1440"`
	EndsAt    *int   `json:"ends_at" validate:"required,min=0,max=1440"`
}

// WeeklyHoursAdd appends a working block to a provider's recurring schedule.
// Providers manage only their own schedule; admins manage anyone's.
func WeeklyHoursAdd(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		providerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !principal.IsAdmin() && (principal.Role != enums.RoleProvider || principal.UserID != providerID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another provider's schedule"))
			return
		}

		var payload weeklyHourCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := uuid.Parse(payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}

		hour, err := svc.AddWeeklyHour(r.Context(), schedule.CreateWeeklyHourInput{
			ProviderID: providerID,
			StoreID:    storeID,
			DayOfWeek:  *payload.DayOfWeek,
			StartsAt:   *payload.StartsAt,
			EndsAt:     *payload.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, hour)
	}
}

// WeeklyHoursRemove deletes one working block from a provider's schedule.
func WeeklyHoursRemove(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		providerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !principal.IsAdmin() && (principal.Role != enums.RoleProvider || principal.UserID != providerID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another provider's schedule"))
			return
		}

		hourID, err := validators.ParsePathUUID(chi.URLParam(r, "hourId"), "hourId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveWeeklyHour(r.Context(), providerID, hourID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
