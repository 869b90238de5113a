package controllers

import (
	"net/http"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/availability"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// AvailabilityList computes the bookable slot grid for a provider/service
// pair over a date range.
func AvailabilityList(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		storeID, err := validators.ParseQueryUUID(r, "store_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		serviceID, err := validators.ParseQueryUUID(r, "service_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		providerID, err := validators.ParseQueryUUID(r, "provider_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
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

		slots, err := svc.Compute(r.Context(), availability.Query{
			StoreID:    storeID,
			ServiceID:  serviceID,
			ProviderID: providerID,
			StartDate:  startDate,
			EndDate:    endDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"slots": slots})
	}
}
