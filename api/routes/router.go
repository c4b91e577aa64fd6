package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kantinhub/kantin-backend/api/controllers"
	"github.com/kantinhub/kantin-backend/api/middleware"
	"github.com/kantinhub/kantin-backend/internal/auth"
	"github.com/kantinhub/kantin-backend/internal/catalog"
	"github.com/kantinhub/kantin-backend/internal/media"
	"github.com/kantinhub/kantin-backend/internal/reports"
	"github.com/kantinhub/kantin-backend/internal/settings"
	"github.com/kantinhub/kantin-backend/internal/transactions"
	"github.com/kantinhub/kantin-backend/internal/users"
	"github.com/kantinhub/kantin-backend/pkg/auth/session"
	"github.com/kantinhub/kantin-backend/pkg/config"
	"github.com/kantinhub/kantin-backend/pkg/db"
	"github.com/kantinhub/kantin-backend/pkg/enums"
	"github.com/kantinhub/kantin-backend/pkg/logger"
	"github.com/kantinhub/kantin-backend/pkg/metrics"
	"github.com/kantinhub/kantin-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	AuthService         auth.Service
	CatalogService      catalog.Service
	TransactionsService transactions.Service
	SettingsService     settings.Service
	MediaService        media.Service
	ReportsService      reports.Service
	UsersService        users.Service
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// Uploaded photos are served as plain static files.
	uploadsPrefix := "/" + strings.Trim(cfg.Uploads.PublicBase, "/")
	r.Handle(uploadsPrefix+"/*", http.StripPrefix(uploadsPrefix+"/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	// Public storefront surface.
	r.Get("/api/v1/menu", controllers.Menu(deps.CatalogService, logg))
	r.Get("/api/v1/settings", controllers.SettingsGet(deps.SettingsService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.With(middleware.RequireAnyRole(logg, enums.UserRolePengurus.String(), enums.UserRoleKasir.String())).
			Put("/settings", controllers.SettingsUpdate(deps.SettingsService, logg))

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionCreate(deps.TransactionsService, logg))
			r.Get("/", controllers.TransactionList(deps.TransactionsService, logg))
			r.Get("/{transactionId}", controllers.TransactionDetail(deps.TransactionsService, logg))
			r.With(middleware.RequireRole(enums.UserRoleKasir.String(), logg)).
				Post("/{transactionId}/approve", controllers.TransactionApprove(deps.TransactionsService, logg))
			r.With(middleware.RequireRole(enums.UserRoleKasir.String(), logg)).
				Post("/{transactionId}/reject", controllers.TransactionReject(deps.TransactionsService, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(deps.CatalogService, logg))
			r.With(middleware.RequireRole(enums.UserRoleMitra.String(), logg)).
				Post("/", controllers.ItemCreate(deps.CatalogService, logg))
			r.Patch("/{itemId}", controllers.ItemUpdate(deps.CatalogService, logg))
			r.Delete("/{itemId}", controllers.ItemDelete(deps.CatalogService, logg))
			r.Post("/{itemId}/restock", controllers.ItemRestock(deps.CatalogService, logg))
			r.With(middleware.RequireRole(enums.UserRolePengurus.String(), logg)).
				Post("/{itemId}/decision", controllers.ItemDecision(deps.CatalogService, logg))
		})

		maxUploadBytes := int64(cfg.Uploads.MaxUploadMB) * 1024 * 1024
		r.With(middleware.RequireAnyRole(logg, enums.UserRoleMitra.String(), enums.UserRolePengurus.String())).
			Post("/media", controllers.MediaUpload(deps.MediaService, maxUploadBytes, logg))

		r.With(middleware.RequireAnyRole(logg, enums.UserRolePengurus.String(), enums.UserRoleKasir.String())).
			Get("/reports/sales", controllers.ReportsSales(deps.ReportsService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRolePengurus.String(), logg))
			r.Get("/", controllers.UserList(deps.UsersService, logg))
			r.Post("/", controllers.UserCreate(deps.UsersService, logg))
		})
	})

	return r
}
