package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
)

// CreateItemInput captures the fields a mitra submits for a new listing.
type CreateItemInput struct {
	Name      string
	PhotoURL  *string
	StockQty  int
	UnitPrice decimal.Decimal
	Tags      []string
}

// UpdateItemInput carries the optional fields of an item update.
type UpdateItemInput struct {
	Name      *string
	PhotoURL  *string
	StockQty  *int
	UnitPrice *decimal.Decimal
	Tags      []string
}

// ListingDecision represents the pengurus call on a pending listing.
type ListingDecision string

const (
	ListingDecisionApprove ListingDecision = "approve"
	ListingDecisionReject  ListingDecision = "reject"
)

// MenuList wraps the paginated public menu plus the next page cursor.
type MenuList struct {
	Items      []models.Item `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
