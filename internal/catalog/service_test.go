package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

type stubCatalogRepo struct {
	items map[uuid.UUID]*models.Item
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{items: make(map[uuid.UUID]*models.Item)}
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return item, nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCatalogRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		item.Name = name
	}
	if qty, ok := updates["stock_qty"].(int); ok {
		item.StockQty = qty
	}
	if price, ok := updates["unit_price"].(decimal.Decimal); ok {
		item.UnitPrice = price
	}
	return nil
}

func (s *stubCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubCatalogRepo) ListByMitra(ctx context.Context, mitraID uuid.UUID) ([]models.Item, error) {
	var out []models.Item
	for _, item := range s.items {
		if item.MitraID == mitraID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) ListAll(ctx context.Context) ([]models.Item, error) {
	var out []models.Item
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *stubCatalogRepo) ListAvailable(ctx context.Context, params pagination.Params) (*MenuList, error) {
	var out []models.Item
	for _, item := range s.items {
		if item.Status == enums.ItemStatusAvailable {
			out = append(out, *item)
		}
	}
	return &MenuList{Items: out}, nil
}

func (s *stubCatalogRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	item, ok := s.items[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if item.StockQty < qty {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, item.Name+" has insufficient stock")
	}
	item.StockQty -= qty
	if item.StockQty == 0 {
		item.Status = enums.ItemStatusOutOfStock
	}
	return nil
}

func (s *stubCatalogRepo) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	item, ok := s.items[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if item.Status != enums.ItemStatusAvailable {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "only available items can be restocked")
	}
	item.StockQty += qty
	return nil
}

func (s *stubCatalogRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ItemStatus) error {
	item, ok := s.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	return nil
}

func newTestService(t *testing.T) (Service, *stubCatalogRepo) {
	t.Helper()
	repo := newStubCatalogRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateItemStartsPendingApproval(t *testing.T) {
	svc, repo := newTestService(t)
	mitraID := uuid.New()

	item, err := svc.CreateItem(context.Background(), mitraID, enums.UserRoleMitra, CreateItemInput{
		Name:      "Nasi Goreng",
		StockQty:  20,
		UnitPrice: decimal.NewFromInt(15000),
		Tags:      []string{"makanan"},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ItemStatusPendingApproval, item.Status)
	assert.Equal(t, mitraID, item.MitraID)
	assert.Len(t, repo.items, 1)
}

func TestCreateItemRejectsNonMitra(t *testing.T) {
	svc, _ := newTestService(t)

	for _, role := range []enums.UserRole{enums.UserRolePengurus, enums.UserRoleKasir, enums.UserRoleUser} {
		_, err := svc.CreateItem(context.Background(), uuid.New(), role, CreateItemInput{
			Name:      "Es Teh",
			UnitPrice: decimal.NewFromInt(5000),
		})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateItem(context.Background(), uuid.New(), enums.UserRoleMitra, CreateItemInput{
		Name:      "  ",
		UnitPrice: decimal.NewFromInt(5000),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateItem(context.Background(), uuid.New(), enums.UserRoleMitra, CreateItemInput{
		Name:      "Es Teh",
		UnitPrice: decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecideListing(t *testing.T) {
	svc, repo := newTestService(t)
	mitraID := uuid.New()

	pending, err := svc.CreateItem(context.Background(), mitraID, enums.UserRoleMitra, CreateItemInput{
		Name:      "Ayam Geprek",
		StockQty:  10,
		UnitPrice: decimal.NewFromInt(18000),
	})
	require.NoError(t, err)

	decided, err := svc.DecideListing(context.Background(), enums.UserRolePengurus, pending.ID, ListingDecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, enums.ItemStatusAvailable, decided.Status)
	assert.Equal(t, enums.ItemStatusAvailable, repo.items[pending.ID].Status)

	// Deciding twice is an invalid state transition.
	_, err = svc.DecideListing(context.Background(), enums.UserRolePengurus, pending.ID, ListingDecisionReject)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInvalidState, pkgerrors.As(err).Code())
}

func TestDecideListingForbiddenForNonPengurus(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.DecideListing(context.Background(), enums.UserRoleKasir, uuid.New(), ListingDecisionApprove)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestUpdateItemOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(context.Background(), owner, enums.UserRoleMitra, CreateItemInput{
		Name:      "Mie Ayam",
		StockQty:  5,
		UnitPrice: decimal.NewFromInt(12000),
	})
	require.NoError(t, err)

	newName := "Mie Ayam Spesial"
	_, err = svc.UpdateItem(context.Background(), uuid.New(), enums.UserRoleMitra, item.ID, UpdateItemInput{Name: &newName})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	updated, err := svc.UpdateItem(context.Background(), owner, enums.UserRoleMitra, item.ID, UpdateItemInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
}

func TestRestockItemValidation(t *testing.T) {
	svc, repo := newTestService(t)
	owner := uuid.New()

	item, err := svc.CreateItem(context.Background(), owner, enums.UserRoleMitra, CreateItemInput{
		Name:      "Es Teh Manis",
		StockQty:  2,
		UnitPrice: decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	repo.items[item.ID].Status = enums.ItemStatusAvailable

	_, err = svc.RestockItem(context.Background(), owner, enums.UserRoleMitra, item.ID, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	restocked, err := svc.RestockItem(context.Background(), owner, enums.UserRoleMitra, item.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, restocked.StockQty)
}

func TestListItemsScoping(t *testing.T) {
	svc, _ := newTestService(t)
	mitraA := uuid.New()
	mitraB := uuid.New()

	_, err := svc.CreateItem(context.Background(), mitraA, enums.UserRoleMitra, CreateItemInput{Name: "A", UnitPrice: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = svc.CreateItem(context.Background(), mitraB, enums.UserRoleMitra, CreateItemInput{Name: "B", UnitPrice: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	mine, err := svc.ListItems(context.Background(), mitraA, enums.UserRoleMitra)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListItems(context.Background(), uuid.New(), enums.UserRolePengurus)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListItems(context.Background(), uuid.New(), enums.UserRoleUser)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
