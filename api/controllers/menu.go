package controllers

import (
	"net/http"
	"strings"

	"github.com/kantinhub/kantin-backend/api/responses"
	"github.com/kantinhub/kantin-backend/api/validators"
	"github.com/kantinhub/kantin-backend/internal/catalog"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/logger"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

// Menu serves the public available-item listing with cursor pagination.
func Menu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		list, err := svc.Menu(r.Context(), pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
