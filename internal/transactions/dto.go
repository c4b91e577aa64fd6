package transactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/kantinhub/kantin-backend/pkg/enums"
)

// LineInput is one requested order line.
type LineInput struct {
	ItemID uuid.UUID
	Qty    int
}

// CreateInput captures an order submission from a kasir or an end user.
type CreateInput struct {
	ActorID          uuid.UUID
	ActorRole        enums.UserRole
	Lines            []LineInput
	CustomerName     *string
	CustomerLocation *string
	Notes            *string
}

// ListFilters describe the supported transaction list filters.
type ListFilters struct {
	DateFrom *time.Time
	DateTo   *time.Time
	UserID   *uuid.UUID
	Status   *enums.TransactionStatus
}

// ListQuery couples the caller-supplied filters with the role scoping the
// service computed for the actor.
type ListQuery struct {
	Filters ListFilters
	// ScopeUserID restricts the result to the actor's own rows when set.
	ScopeUserID *uuid.UUID
	// IncludePendingForScope widens a scoped query to also return every
	// pending transaction (the kasir work queue).
	IncludePendingForScope bool
}
