package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

// Service defines the catalog operations exposed to controllers.
type Service interface {
	CreateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, input CreateItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error)
	DeleteItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error
	RestockItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, qty int) (*models.Item, error)
	DecideListing(ctx context.Context, actorRole enums.UserRole, itemID uuid.UUID, decision ListingDecision) (*models.Item, error)
	ListItems(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]models.Item, error)
	Menu(ctx context.Context, params pagination.Params) (*MenuList, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, input CreateItemInput) (*models.Item, error) {
	if actorRole != enums.UserRoleMitra {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only mitra can create listings")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.StockQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	item := &models.Item{
		Name:      name,
		PhotoURL:  input.PhotoURL,
		StockQty:  input.StockQty,
		UnitPrice: input.UnitPrice,
		Status:    enums.ItemStatusPendingApproval,
		Tags:      input.Tags,
		MitraID:   actorID,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	item, err := s.loadOwned(ctx, actorID, actorRole, itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		updates["name"] = name
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		updates["stock_qty"] = *input.StockQty
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		updates["unit_price"] = *input.UnitPrice
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := s.repo.Update(ctx, item.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	reloaded, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return reloaded, nil
}

func (s *service) DeleteItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error {
	if actorRole == enums.UserRolePengurus {
		if _, err := s.loadItem(ctx, itemID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}
		return nil
	}

	item, err := s.loadOwned(ctx, actorID, actorRole, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	return nil
}

func (s *service) RestockItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, qty int) (*models.Item, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be positive")
	}
	if _, err := s.loadOwned(ctx, actorID, actorRole, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.Restock(ctx, itemID, qty); err != nil {
		return nil, err
	}
	reloaded, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return reloaded, nil
}

func (s *service) DecideListing(ctx context.Context, actorRole enums.UserRole, itemID uuid.UUID, decision ListingDecision) (*models.Item, error) {
	if actorRole != enums.UserRolePengurus {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only pengurus can decide listings")
	}

	target, err := mapListingDecision(decision)
	if err != nil {
		return nil, err
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != enums.ItemStatusPendingApproval {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "listing has already been decided")
	}

	if err := s.repo.UpdateStatus(ctx, item.ID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update listing status")
	}
	item.Status = target
	return item, nil
}

func (s *service) ListItems(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]models.Item, error) {
	switch actorRole {
	case enums.UserRolePengurus:
		items, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
		}
		return items, nil
	case enums.UserRoleMitra:
		items, err := s.repo.ListByMitra(ctx, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
		}
		return items, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot list items")
	}
}

func (s *service) Menu(ctx context.Context, params pagination.Params) (*MenuList, error) {
	list, err := s.repo.ListAvailable(ctx, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}
	return list, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.loadItem(ctx, id)
}

func (s *service) loadItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) loadOwned(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) (*models.Item, error) {
	if actorRole != enums.UserRoleMitra {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only mitra can manage listings")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.MitraID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to mitra")
	}
	return item, nil
}

func mapListingDecision(decision ListingDecision) (enums.ItemStatus, error) {
	switch decision {
	case ListingDecisionApprove:
		return enums.ItemStatusAvailable, nil
	case ListingDecisionReject:
		return enums.ItemStatusRejected, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}
}
