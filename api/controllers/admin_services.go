package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/catalog"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

type serviceCreateRequest struct {
	StoreID         string           `json:"store_id" validate:"required,uuid"`
	ProviderID      string           `json:"provider_id" validate:"required,uuid"`
	Name            string           `json:"name" validate:"required,min=1"`
	Description     *string          `json:"description,omitempty"`
	Category        string           `json:"category,omitempty"`
	DurationMinutes int              `json:"duration_minutes" validate:"required,gt=0"`
	Price           decimal.Decimal  `json:"price" validate:"required"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
}

// AdminServiceCreate registers a bookable offering for a provider.
func AdminServiceCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload serviceCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := uuid.Parse(payload.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id"))
			return
		}
		providerID, err := uuid.Parse(payload.ProviderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid provider id"))
			return
		}

		offering, err := svc.Create(r.Context(), catalog.CreateServiceInput{
			StoreID:         storeID,
			ProviderID:      providerID,
			Name:            strings.TrimSpace(payload.Name),
			Description:     payload.Description,
			Category:        strings.TrimSpace(payload.Category),
			DurationMinutes: payload.DurationMinutes,
			Price:           payload.Price,
			DiscountedPrice: payload.DiscountedPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, offering)
	}
}
