package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/bookinglimits"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// BookingLimitStatus reports both quota windows for the caller. Admins may
// inspect any customer via the customer_id query parameter.
func BookingLimitStatus(svc bookinglimits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking limit service unavailable"))
			return
		}

		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		customerID := principal.UserID
		requested, err := validators.ParseOptionalQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if requested != uuid.Nil && requested != principal.UserID {
			if !principal.IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot inspect another customer's limits"))
				return
			}
			customerID = requested
		}

		status, err := svc.Status(r.Context(), customerID, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}
