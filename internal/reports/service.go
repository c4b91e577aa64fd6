package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
)

const (
	defaultWindowDays = 30
	defaultTopLimit   = 5
	maxTopLimit       = 50
)

type repository interface {
	Totals(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error)
	Daily(ctx context.Context, from, to time.Time) ([]DailySales, error)
	TopItems(ctx context.Context, from, to time.Time, limit int) ([]TopItem, error)
}

// Service exposes the sales dashboard aggregation.
type Service interface {
	Sales(ctx context.Context, actorRole enums.UserRole, query Query) (*SalesReport, error)
}

type service struct {
	repo repository
}

// NewService builds the reports service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Sales(ctx context.Context, actorRole enums.UserRole, query Query) (*SalesReport, error) {
	switch actorRole {
	case enums.UserRolePengurus, enums.UserRoleKasir:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot view reports")
	}

	now := time.Now().UTC()
	to := now
	if query.DateTo != nil {
		to = *query.DateTo
	}
	from := to.AddDate(0, 0, -defaultWindowDays)
	if query.DateFrom != nil {
		from = *query.DateFrom
	}
	if !from.Before(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range is empty")
	}

	limit := query.TopLimit
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	orders, revenue, err := s.repo.Totals(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate totals")
	}
	daily, err := s.repo.Daily(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate daily sales")
	}
	top, err := s.repo.TopItems(ctx, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate top items")
	}

	if daily == nil {
		daily = []DailySales{}
	}
	if top == nil {
		top = []TopItem{}
	}
	return &SalesReport{
		DateFrom:     from,
		DateTo:       to,
		TotalOrders:  orders,
		TotalRevenue: revenue,
		Daily:        daily,
		TopItems:     top,
	}, nil
}
