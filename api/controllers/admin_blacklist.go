package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/responses"
	"github.com/chairtime/chairtime-backend/api/validators"
	"github.com/chairtime/chairtime-backend/internal/blacklist"
	"github.com/chairtime/chairtime-backend/pkg/db/models"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// BlacklistSource is the read surface this controller needs.
type BlacklistSource interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.BlacklistEntry, error)
}

// AdminBlacklistList returns a customer's no-show history.
func AdminBlacklistList(repo BlacklistSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blacklist repository unavailable"))
			return
		}

		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]blacklist.EntryDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *blacklist.FromModel(&rows[i]))
		}

		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}
