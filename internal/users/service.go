package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	pkgerrors "github.com/kantinhub/kantin-backend/pkg/errors"
	"github.com/kantinhub/kantin-backend/pkg/security"
)

// CreateAccountInput is the pengurus-facing account creation payload.
type CreateAccountInput struct {
	Email    string
	Name     string
	Password string
	Role     enums.UserRole
}

type repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// Service exposes pengurus account administration.
type Service interface {
	CreateAccount(ctx context.Context, actorRole enums.UserRole, input CreateAccountInput) (*UserDTO, error)
	ListAccounts(ctx context.Context, actorRole enums.UserRole) ([]UserDTO, error)
}

type service struct {
	repo        repository
	passwordCfg config.PasswordConfig
}

// NewService builds the account administration service.
func NewService(repo repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) CreateAccount(ctx context.Context, actorRole enums.UserRole, input CreateAccountInput) (*UserDTO, error) {
	if actorRole != enums.UserRolePengurus {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only pengurus can manage accounts")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
	}

	passwordHash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(input.Name),
		Role:         input.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) ListAccounts(ctx context.Context, actorRole enums.UserRole) ([]UserDTO, error) {
	if actorRole != enums.UserRolePengurus {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only pengurus can manage accounts")
	}

	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(accounts))
	for i := range accounts {
		out = append(out, *FromModel(&accounts[i]))
	}
	return out, nil
}
