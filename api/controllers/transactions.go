package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kantinhub/kantin-backend/api/responses"
	"github.com/kantinhub/kantin-backend/api/validators"
	"github.com/kantinhub/kantin-backend/internal/transactions"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/logger"
)

type orderLineRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
	Qty    int       `json:"qty" validate:"required,gt=0"`
}

type createTransactionRequest struct {
	Lines            []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
	CustomerName     *string            `json:"customer_name,omitempty" validate:"omitempty,min=1,max=120"`
	CustomerLocation *string            `json:"customer_location,omitempty" validate:"omitempty,min=1,max=200"`
	Notes            *string            `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type rejectTransactionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// TransactionCreate places a kasir or user order.
func TransactionCreate(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createTransactionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]transactions.LineInput, 0, len(body.Lines))
		for _, line := range body.Lines {
			lines = append(lines, transactions.LineInput{ItemID: line.ItemID, Qty: line.Qty})
		}

		trx, err := svc.Create(r.Context(), transactions.CreateInput{
			ActorID:          actorID,
			ActorRole:        role,
			Lines:            lines,
			CustomerName:     body.CustomerName,
			CustomerLocation: body.CustomerLocation,
			Notes:            body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, trx)
	}
}

// TransactionList returns role-scoped transactions with optional filters.
func TransactionList(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := buildTransactionFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trxs, err := svc.List(r.Context(), actorID, role, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trxs)
	}
}

// TransactionDetail returns one transaction if the actor may see it.
func TransactionDetail(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		trxID, err := parseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trx, err := svc.Get(r.Context(), trxID, actorID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trx)
	}
}

// TransactionApprove flips a pending transaction to approved and consumes
// its stock.
func TransactionApprove(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		_, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		trxID, err := parseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trx, err := svc.Approve(r.Context(), trxID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trx)
	}
}

// TransactionReject flips a pending transaction to rejected. The reason is
// optional and the body may be omitted entirely.
func TransactionReject(svc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transactions service unavailable"))
			return
		}

		_, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		trxID, err := parseUUIDParam(r, "transactionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectTransactionRequest
		if err := validators.DecodeJSONBodyAllowEmpty(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trx, err := svc.Reject(r.Context(), trxID, role, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trx)
	}
}

func buildTransactionFilters(r *http.Request) (transactions.ListFilters, error) {
	var filters transactions.ListFilters

	from, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return filters, err
	}
	if to != nil {
		// endDate is inclusive on the wire; the repo bound is exclusive.
		end := to.AddDate(0, 0, 1)
		filters.DateTo = &end
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid userId filter")
		}
		filters.UserID = &id
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseTransactionStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filters.Status = &status
	}

	return filters, nil
}
