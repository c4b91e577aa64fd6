package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kantinhub/kantin-backend/internal/auth"
	"github.com/kantinhub/kantin-backend/internal/catalog"
	"github.com/kantinhub/kantin-backend/internal/media"
	"github.com/kantinhub/kantin-backend/internal/reports"
	"github.com/kantinhub/kantin-backend/internal/settings"
	"github.com/kantinhub/kantin-backend/internal/transactions"
	"github.com/kantinhub/kantin-backend/internal/users"
	pkgauth "github.com/kantinhub/kantin-backend/pkg/auth"
	"github.com/kantinhub/kantin-backend/pkg/auth/session"
	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/db/models"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	"github.com/kantinhub/kantin-backend/pkg/logger"
	"github.com/kantinhub/kantin-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(ctx context.Context, accessToken string, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, input catalog.CreateItemInput) (*models.Item, error) {
	return &models.Item{}, nil
}

func (stubCatalogService) UpdateItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, input catalog.UpdateItemInput) (*models.Item, error) {
	return &models.Item{}, nil
}

func (stubCatalogService) DeleteItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID) error {
	return nil
}

func (stubCatalogService) RestockItem(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, itemID uuid.UUID, qty int) (*models.Item, error) {
	return &models.Item{}, nil
}

func (stubCatalogService) DecideListing(ctx context.Context, actorRole enums.UserRole, itemID uuid.UUID, decision catalog.ListingDecision) (*models.Item, error) {
	return &models.Item{}, nil
}

func (stubCatalogService) ListItems(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole) ([]models.Item, error) {
	return nil, nil
}

func (stubCatalogService) Menu(ctx context.Context, params pagination.Params) (*catalog.MenuList, error) {
	return &catalog.MenuList{}, nil
}

func (stubCatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return &models.Item{}, nil
}

type stubTransactionsService struct{}

func (stubTransactionsService) Create(ctx context.Context, input transactions.CreateInput) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (stubTransactionsService) Approve(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (stubTransactionsService) Reject(ctx context.Context, id uuid.UUID, actorRole enums.UserRole, reason string) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (stubTransactionsService) List(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, filters transactions.ListFilters) ([]models.Transaction, error) {
	return nil, nil
}

func (stubTransactionsService) Get(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole enums.UserRole) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

type stubSettingsService struct{}

func (stubSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return &models.Settings{}, nil
}

func (stubSettingsService) Update(ctx context.Context, actorRole enums.UserRole, input settings.UpdateInput) (*models.Settings, error) {
	return &models.Settings{}, nil
}

type stubMediaService struct{}

func (stubMediaService) UploadPhoto(ctx context.Context, actorRole enums.UserRole, input media.UploadInput) (*media.UploadResult, error) {
	return &media.UploadResult{}, nil
}

type stubReportsService struct{}

func (stubReportsService) Sales(ctx context.Context, actorRole enums.UserRole, query reports.Query) (*reports.SalesReport, error) {
	return &reports.SalesReport{}, nil
}

type stubUsersService struct{}

func (stubUsersService) CreateAccount(ctx context.Context, actorRole enums.UserRole, input users.CreateAccountInput) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

func (stubUsersService) ListAccounts(ctx context.Context, actorRole enums.UserRole) ([]users.UserDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Uploads: config.UploadsConfig{
			Dir:        "public/uploads",
			PublicBase: "/uploads",
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		SessionManager: stubSessionChecker{},

		AuthService:         stubAuthService{},
		CatalogService:      stubCatalogService{},
		TransactionsService: stubTransactionsService{},
		SettingsService:     stubSettingsService{},
		MediaService:        stubMediaService{},
		ReportsService:      stubReportsService{},
		UsersService:        stubUsersService{},
	})
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for transaction list got %d", resp.Code)
	}
}

func TestApproveRequiresKasirRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/transactions/" + uuid.NewString() + "/approve"

	missing := httptest.NewRequest(http.MethodPost, target, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when missing token got %d", resp.Code)
	}

	nonKasir := httptest.NewRequest(http.MethodPost, target, nil)
	nonKasir.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, nonKasir)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-kasir approve got %d", resp.Code)
	}

	kasir := httptest.NewRequest(http.MethodPost, target, nil)
	kasir.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleKasir))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, kasir)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for kasir approve got %d", resp.Code)
	}
}

func TestRejectAcceptsEmptyBody(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleKasir)
	target := "/api/v1/transactions/" + uuid.NewString() + "/reject"

	emptyObject := httptest.NewRequest(http.MethodPost, target, strings.NewReader("{}"))
	emptyObject.Header.Set("Content-Type", "application/json")
	emptyObject.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, emptyObject)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for reject with empty object got %d", resp.Code)
	}

	noBody := httptest.NewRequest(http.MethodPost, target, nil)
	noBody.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, noBody)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for reject without body got %d", resp.Code)
	}
}

func TestItemCreateRequiresMitraRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonMitra := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader("{}"))
	nonMitra.Header.Set("Content-Type", "application/json")
	nonMitra.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleKasir))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonMitra)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-mitra item create got %d", resp.Code)
	}
}

func TestUsersGroupRequiresPengurusRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleKasir))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-pengurus got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRolePengurus))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for pengurus got %d", resp.Code)
	}
}

func TestReportsRequirePengurusOrKasir(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user reports got %d", resp.Code)
	}

	kasir := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales", nil)
	kasir.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleKasir))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, kasir)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for kasir reports got %d", resp.Code)
	}
}

func TestMenuAndSettingsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	menu := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, menu)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public menu got %d", resp.Code)
	}

	settingsReq := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, settingsReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public settings got %d", resp.Code)
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
