package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kantinhub/kantin-backend/api/responses"
	"github.com/kantinhub/kantin-backend/api/validators"
	"github.com/kantinhub/kantin-backend/internal/catalog"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/logger"
)

type createItemRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=120"`
	PhotoURL  *string         `json:"photo_url,omitempty" validate:"omitempty,max=500"`
	StockQty  int             `json:"stock_qty" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Tags      []string        `json:"tags,omitempty" validate:"max=10,dive,min=1,max=40"`
}

type updateItemRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	PhotoURL  *string          `json:"photo_url,omitempty" validate:"omitempty,max=500"`
	StockQty  *int             `json:"stock_qty,omitempty" validate:"omitempty,gte=0"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Tags      []string         `json:"tags,omitempty" validate:"max=10,dive,min=1,max=40"`
}

type restockRequest struct {
	Qty int `json:"qty" validate:"required,gt=0"`
}

type listingDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// ItemCreate lets a mitra submit a new listing for approval.
func ItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), actorID, role, catalog.CreateItemInput{
			Name:      body.Name,
			PhotoURL:  body.PhotoURL,
			StockQty:  body.StockQty,
			UnitPrice: body.UnitPrice,
			Tags:      body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ItemUpdate edits an owned listing.
func ItemUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), actorID, role, itemID, catalog.UpdateItemInput{
			Name:      body.Name,
			PhotoURL:  body.PhotoURL,
			StockQty:  body.StockQty,
			UnitPrice: body.UnitPrice,
			Tags:      body.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemDelete removes a listing (owner, or pengurus for any item).
func ItemDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), actorID, role, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ItemRestock adds stock to an available owned item.
func ItemRestock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body restockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.RestockItem(r.Context(), actorID, role, itemID, body.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemDecision records the pengurus call on a pending listing.
func ItemDecision(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		_, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body listingDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.DecideListing(r.Context(), role, itemID, catalog.ListingDecision(body.Decision))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemList returns the mitra's own items, or every item for pengurus.
func ItemList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		actorID, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListItems(r.Context(), actorID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
