package controllers

import (
	"net/http"

	"github.com/kantinhub/kantin-backend/api/responses"
	"github.com/kantinhub/kantin-backend/api/validators"
	"github.com/kantinhub/kantin-backend/internal/reports"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/logger"
)

// ReportsSales serves the pengurus/kasir sales dashboard aggregation.
func ReportsSales(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		_, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryDate(r, "startDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "endDate")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := reports.Query{DateFrom: from}
		if to != nil {
			end := to.AddDate(0, 0, 1)
			query.DateTo = &end
		}

		limit, err := validators.ParseQueryInt(r, "top", 0, 0, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.TopLimit = limit

		report, err := svc.Sales(r.Context(), role, query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
