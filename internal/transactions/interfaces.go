package transactions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
)

// Repository defines persistence operations for the transaction ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, trx *models.Transaction) (*models.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, query ListQuery) ([]models.Transaction, error)
	// UpdateStatusIfPending flips the status only while the row is still
	// pending and reports whether the flip landed. Concurrent deciders race on
	// this update; exactly one of them observes true.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, rejectionReason *string) (bool, error)
}
