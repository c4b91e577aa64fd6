package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

// Repository defines persistence operations for the item catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByMitra(ctx context.Context, mitraID uuid.UUID) ([]models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	ListAvailable(ctx context.Context, params pagination.Params) (*MenuList, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	Restock(ctx context.Context, id uuid.UUID, qty int) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ItemStatus) error
}
