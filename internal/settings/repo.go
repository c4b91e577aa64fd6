package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
)

// settingsRowID pins the storefront configuration to a single row.
const settingsRowID = 1

// Repository exposes persistence for the single settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the settings row.
func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	var row models.Settings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", settingsRowID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the settings row.
func (r *Repository) Save(ctx context.Context, row *models.Settings) error {
	row.ID = settingsRowID
	return r.db.WithContext(ctx).Save(row).Error
}

// Update applies a partial column update to the settings row.
func (r *Repository) Update(ctx context.Context, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Settings{}).
		Where("id = ?", settingsRowID).
		Updates(updates).Error
}
