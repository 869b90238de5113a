package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/appointments"
	"github.com/chairtime/chairtime-backend/pkg/enums"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/pagination"
)

type appointmentCreateRequest struct {
	ProviderID string    `json:"provider_id" validate:"required,uuid"`
	ServiceID  string    `json:"service_id" validate:"required,uuid"`
	StoreID    string    `json:"store_id" validate:"required,uuid"`
	CustomerID string    `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

// AppointmentCreate books a slot for the caller. Admins may book on another
// customer's behalf by supplying customer_id.
func AppointmentCreate(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointment service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload appointmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID := principal.UserID
		if payload.CustomerID != "" {
			parsed, err := uuid.Parse(payload.CustomerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}
			customerID = parsed
		}

		providerID, err := uuid.Parse(payload.ProviderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
			return
		}
		storeID, err := uuid.Parse(payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}
		serviceID, err := uuid.Parse(payload.ServiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid service id"))
			return
		}

		appt, err := svc.Create(r.Context(), appointments.CreateAppointmentInput{
			ActorID:    principal.UserID,
			ActorRole:  principal.Role,
			CustomerID: customerID,
			ProviderID: providerID,
			StoreID:    storeID,
			ServiceID:  serviceID,
			StartsAt:   payload.StartTime,
			Notes:      payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, appt)
	}
}

// AppointmentList pages through the caller's own appointments.
func AppointmentList(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointment service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForCustomer(r.Context(), principal.UserID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// ProviderAppointments returns a provider's calendar for an inclusive date
// range. Providers see their own calendar; admins see anyone's.
func ProviderAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointment service unavailable"))
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
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another provider's calendar"))
			return
		}

		startDate, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		endDate, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if endDate.Before(startDate) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not be before start_date"))
			return
		}

		items, err := svc.ListForProvider(r.Context(), providerID, startDate, endDate.AddDate(0, 0, 1))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

type appointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AppointmentUpdateStatus moves a confirmed appointment into a terminal
// state.
func AppointmentUpdateStatus(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointment service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		appointmentID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload appointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAppointmentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), appointments.UpdateStatusInput{
			ActorID:       principal.UserID,
			ActorRole:     principal.Role,
			AppointmentID: appointmentID,
			Status:        status,
			Now:           time.Now(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, appt)
	}
}
