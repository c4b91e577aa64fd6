package transactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transactions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create persists the transaction together with its details. gorm cascades
// the Details association, so header and lines land in one insert unit.
func (r *repository) Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Details.Item").
		Preload("User").
		Where("id = ?", id).
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Transaction, error) {
	qb := r.db.WithContext(ctx).
		Preload("Details.Item").
		Preload("User")

	filters := query.Filters
	if filters.DateFrom != nil {
		qb = qb.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		qb = qb.Where("created_at < ?", *filters.DateTo)
	}
	if filters.UserID != nil {
		qb = qb.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}

	if query.ScopeUserID != nil {
		if query.IncludePendingForScope {
			qb = qb.Where("(user_id = ? OR status = ?)", *query.ScopeUserID, enums.TransactionStatusPending)
		} else {
			qb = qb.Where("user_id = ?", *query.ScopeUserID)
		}
	}

	var trxs []models.Transaction
	if err := qb.Order("created_at DESC").Find(&trxs).Error; err != nil {
		return nil, err
	}
	return trxs, nil
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, rejectionReason *string) (bool, error) {
	updates := map[string]any{"status": status}
	if rejectionReason != nil {
		updates["rejection_reason"] = *rejectionReason
	}

	res := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, enums.TransactionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
