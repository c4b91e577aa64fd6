package transactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/internal/catalog"
	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order workflow operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Transaction, error)
	Approve(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error)
	Reject(ctx context.Context, id uuid.UUID, actorRole enums.UserRole, reason string) (*models.Transaction, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, filters ListFilters) ([]models.Transaction, error)
	Get(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	tx      txRunner
}

// NewService builds the transaction workflow service.
func NewService(repo Repository, catalogRepo catalog.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, catalog: catalogRepo, tx: tx}, nil
}

// Create places an order. A kasir order completes immediately and consumes
// stock inside the same DB transaction; a user order is stored pending and
// touches no stock until a kasir approves it.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Transaction, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	switch input.ActorRole {
	case enums.UserRoleKasir, enums.UserRoleUser:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot place orders")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order line required")
	}
	for _, line := range input.Lines {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
		}
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}
	if input.ActorRole == enums.UserRoleUser {
		if strings.TrimSpace(deref(input.CustomerName)) == "" || strings.TrimSpace(deref(input.CustomerLocation)) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and location required")
		}
	}

	var created *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		details := make([]models.TransactionDetail, 0, len(input.Lines))
		total := decimal.Zero
		for _, line := range input.Lines {
			item, err := catalogRepo.FindByID(ctx, line.ItemID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
			}
			if item.Status != enums.ItemStatusAvailable {
				return pkgerrors.New(pkgerrors.CodeValidation, item.Name+" is not available").
					WithDetails(map[string]any{"item_id": item.ID, "status": item.Status})
			}
			if item.StockQty < line.Qty {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, item.Name+" has insufficient stock").
					WithDetails(map[string]any{
						"item_id":   item.ID,
						"item_name": item.Name,
						"available": item.StockQty,
						"requested": line.Qty,
					})
			}

			subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
			details = append(details, models.TransactionDetail{
				ItemID:    item.ID,
				Qty:       line.Qty,
				UnitPrice: item.UnitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		status := enums.TransactionStatusPending
		if input.ActorRole == enums.UserRoleKasir {
			status = enums.TransactionStatusCompleted
		}

		trx := &models.Transaction{
			UserID:           input.ActorID,
			TotalAmount:      total,
			Status:           status,
			CustomerName:     input.CustomerName,
			CustomerLocation: input.CustomerLocation,
			Notes:            input.Notes,
			Details:          details,
		}
		persisted, err := repo.Create(ctx, trx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}

		// Kasir orders consume stock immediately; the guarded decrement
		// aborts the whole unit when any line comes up short.
		if input.ActorRole == enums.UserRoleKasir {
			for _, detail := range persisted.Details {
				if err := catalogRepo.DecrementStock(ctx, detail.ItemID, detail.Qty); err != nil {
					return err
				}
			}
		}

		created = persisted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Approve flips a pending transaction to approved and consumes the reserved
// lines. The conditional status flip is the mutual exclusion point: when two
// kasir race, only the winner's decrements run and the loser sees
// INVALID_STATE.
func (s *service) Approve(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error) {
	if err := requireKasir(actorRole); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}

	var approved *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		flipped, err := repo.UpdateStatusIfPending(ctx, id, enums.TransactionStatusApproved, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction status")
		}
		if !flipped {
			return s.classifyFlipFailure(ctx, repo, id)
		}

		trx, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}

		for _, detail := range trx.Details {
			if err := catalogRepo.DecrementStock(ctx, detail.ItemID, detail.Qty); err != nil {
				return err
			}
		}

		approved = trx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject flips a pending transaction to rejected. The reason is optional;
// when present it is stored on the transaction. Stock is never touched.
func (s *service) Reject(ctx context.Context, id uuid.UUID, actorRole enums.UserRole, reason string) (*models.Transaction, error) {
	if err := requireKasir(actorRole); err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id required")
	}

	var rejected *models.Transaction
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var reasonPtr *string
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			reasonPtr = &trimmed
		}
		flipped, err := repo.UpdateStatusIfPending(ctx, id, enums.TransactionStatusRejected, reasonPtr)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction status")
		}
		if !flipped {
			return s.classifyFlipFailure(ctx, repo, id)
		}

		trx, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}
		rejected = trx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, filters ListFilters) ([]models.Transaction, error) {
	query := ListQuery{Filters: filters}
	switch actorRole {
	case enums.UserRolePengurus:
	case enums.UserRoleKasir:
		scope := actorID
		query.ScopeUserID = &scope
		query.IncludePendingForScope = true
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot list transactions")
	}

	trxs, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return trxs, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error) {
	trx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}

	switch actorRole {
	case enums.UserRolePengurus:
		return trx, nil
	case enums.UserRoleKasir:
		if trx.UserID == actorID || trx.Status == enums.TransactionStatusPending {
			return trx, nil
		}
	case enums.UserRoleUser:
		if trx.UserID == actorID {
			return trx, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "transaction not accessible")
}

// classifyFlipFailure distinguishes a missing row from one that has already
// left the pending state.
func (s *service) classifyFlipFailure(ctx context.Context, repo Repository, id uuid.UUID) error {
	trx, err := repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return pkgerrors.New(pkgerrors.CodeInvalidState, "transaction is no longer pending").
		WithDetails(map[string]any{"transaction_id": trx.ID, "status": trx.Status})
}

func requireKasir(actorRole enums.UserRole) error {
	if actorRole != enums.UserRoleKasir {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only kasir can decide transactions")
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
