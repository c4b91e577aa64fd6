package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

func (r *repository) ListByMitra(ctx context.Context, mitraID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("mitra_id = ?", mitraID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListAvailable(ctx context.Context, params pagination.Params) (*MenuList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	qb := r.db.WithContext(ctx).
		Where("status = ?", enums.ItemStatusAvailable)

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var items []models.Item
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&items).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(items) > pageSize {
		items = items[:pageSize]
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &MenuList{Items: items, NextCursor: nextCursor}, nil
}

// DecrementStock applies the guarded conditional decrement. The WHERE clause
// rejects the write when stock is short, and the CASE flips the item to
// out_of_stock exactly when the decrement lands on zero. A concurrent order
// can never drive stock_qty negative because the check and the write are one
// statement.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE items
		SET stock_qty = stock_qty - ?,
			status = CASE WHEN stock_qty - ? = 0 THEN ? ELSE status END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_qty >= ?
	`, qty, qty, string(enums.ItemStatusOutOfStock), id, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Zero rows: either the item vanished or stock was short.
	item, err := r.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, item.Name+" has insufficient stock").
		WithDetails(map[string]any{
			"item_id":   item.ID,
			"item_name": item.Name,
			"available": item.StockQty,
			"requested": qty,
		})
}

// Restock adds stock to an available item. Out-of-stock and pending listings
// are not resurrected through this path.
func (r *repository) Restock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := r.db.WithContext(ctx).Exec(`
		UPDATE items
		SET stock_qty = stock_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, qty, id, string(enums.ItemStatusAvailable))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock item")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return pkgerrors.New(pkgerrors.CodeInvalidState, "only available items can be restocked")
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("status", status).Error
}
