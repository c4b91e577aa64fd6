package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
)

// UpdateInput carries the editable storefront fields. Nil fields are left
// untouched.
type UpdateInput struct {
	CafeteriaName   *string `json:"cafeteria_name,omitempty" validate:"omitempty,min=1,max=120"`
	Tagline         *string `json:"tagline,omitempty" validate:"omitempty,max=200"`
	HeroTitle       *string `json:"hero_title,omitempty" validate:"omitempty,max=200"`
	HeroDescription *string `json:"hero_description,omitempty" validate:"omitempty,max=1000"`
	KasirWhatsapp   *string `json:"kasir_whatsapp,omitempty" validate:"omitempty,max=32"`
	LogoURL         *string `json:"logo_url,omitempty" validate:"omitempty,max=500"`
	FooterText      *string `json:"footer_text,omitempty" validate:"omitempty,max=500"`
	ContactInfo     *string `json:"contact_info,omitempty" validate:"omitempty,max=500"`
}

type repository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, row *models.Settings) error
	Update(ctx context.Context, updates map[string]any) error
}

// Service exposes the storefront configuration operations.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, actorRole enums.UserRole, input UpdateInput) (*models.Settings, error)
}

type service struct {
	repo repository
}

// NewService builds the settings service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the storefront settings, materializing the default row on
// first read so fresh installs render a usable storefront.
func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	row, err := s.repo.Get(ctx)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	defaults := defaultSettings()
	if err := s.repo.Save(ctx, defaults); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed settings")
	}
	return defaults, nil
}

func (s *service) Update(ctx context.Context, actorRole enums.UserRole, input UpdateInput) (*models.Settings, error) {
	switch actorRole {
	case enums.UserRolePengurus, enums.UserRoleKasir:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot edit settings")
	}

	updates := map[string]any{}
	if input.CafeteriaName != nil {
		name := strings.TrimSpace(*input.CafeteriaName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cafeteria name cannot be empty")
		}
		updates["cafeteria_name"] = name
	}
	if input.Tagline != nil {
		updates["tagline"] = strings.TrimSpace(*input.Tagline)
	}
	if input.HeroTitle != nil {
		updates["hero_title"] = strings.TrimSpace(*input.HeroTitle)
	}
	if input.HeroDescription != nil {
		updates["hero_description"] = strings.TrimSpace(*input.HeroDescription)
	}
	if input.KasirWhatsapp != nil {
		updates["kasir_whatsapp"] = strings.TrimSpace(*input.KasirWhatsapp)
	}
	if input.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*input.LogoURL)
	}
	if input.FooterText != nil {
		updates["footer_text"] = strings.TrimSpace(*input.FooterText)
	}
	if input.ContactInfo != nil {
		updates["contact_info"] = strings.TrimSpace(*input.ContactInfo)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings fields provided")
	}

	// Materialize the row first so a partial update on a fresh install has
	// something to land on.
	if _, err := s.Get(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update settings")
	}

	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload settings")
	}
	return row, nil
}

func defaultSettings() *models.Settings {
	return &models.Settings{
		CafeteriaName:   "KantinHub",
		Tagline:         "Kantin kampus dalam genggaman",
		HeroTitle:       "Pesan makan tanpa antre",
		HeroDescription: "Lihat menu hari ini dan pesan langsung dari mejamu.",
		FooterText:      "© KantinHub",
	}
}
