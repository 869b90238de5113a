package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/internal/stores"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

type storeCreateRequest struct {
	Name      string   `json:"name" validate:"required,min=1"`
	Timezone  string   `json:"timezone" validate:"required"`
	Phone     *string  `json:"phone,omitempty"`
	Email     *string  `json:"email,omitempty" validate:"omitempty,email"`
	Address   *string  `json:"address,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
}

// AdminStoreCreate registers a new location.
func AdminStoreCreate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		var payload storeCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), stores.CreateStoreInput{
			Name:      strings.TrimSpace(payload.Name),
			Timezone:  strings.TrimSpace(payload.Timezone),
			Phone:     payload.Phone,
			Email:     payload.Email,
			Address:   payload.Address,
			Amenities: payload.Amenities,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

type storeHoursDay struct {
	DayOfWeek *int `json:"day_of_week" validate:"required,min=0,max=6"`
	OpensAt   *int `json:"opens_at" validate:"required,min=0,max=1440"`
	ClosesAt  *int `json:"closes_at" validate:"required,min=0,max=1440"`
}

type storeHoursReplaceRequest struct {
	Days []storeHoursDay `json:"days" validate:"required,dive"`
}

// AdminStoreHoursReplace swaps out a store's full weekly opening schedule.
// Days omitted from the payload become closed.
func AdminStoreHoursReplace(svc schedule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "schedule service unavailable"))
			return
		}

		storeID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload storeHoursReplaceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days := make([]schedule.StoreHoursDTO, 0, len(payload.Days))
		for _, day := range payload.Days {
			days = append(days, schedule.StoreHoursDTO{
				DayOfWeek: *day.DayOfWeek,
				OpensAt:   *day.OpensAt,
				ClosesAt:  *day.ClosesAt,
			})
		}

		hours, err := svc.ReplaceStoreHours(r.Context(), schedule.ReplaceStoreHoursInput{
			StoreID: storeID,
			Days:    days,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": hours})
	}
}
