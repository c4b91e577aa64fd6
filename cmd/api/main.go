package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/kantinhub/kantin-backend/api/routes"
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
	"github.com/kantinhub/kantin-backend/pkg/env"
	"github.com/kantinhub/kantin-backend/pkg/logger"
	"github.com/kantinhub/kantin-backend/pkg/metrics"
	"github.com/kantinhub/kantin-backend/pkg/migrate"
	"github.com/kantinhub/kantin-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	transactionsRepo := transactions.NewRepository(dbClient.DB())
	settingsRepo := settings.NewRepository(dbClient.DB())
	reportsRepo := reports.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	exitOnError(logg, "failed to create auth service", err)

	catalogService, err := catalog.NewService(catalogRepo)
	exitOnError(logg, "failed to create catalog service", err)

	transactionsService, err := transactions.NewService(transactionsRepo, catalogRepo, dbClient)
	exitOnError(logg, "failed to create transactions service", err)

	settingsService, err := settings.NewService(settingsRepo)
	exitOnError(logg, "failed to create settings service", err)

	diskStore, err := media.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.PublicBase)
	exitOnError(logg, "failed to prepare uploads directory", err)
	mediaService, err := media.NewService(diskStore, cfg.Uploads)
	exitOnError(logg, "failed to create media service", err)

	reportsService, err := reports.NewService(reportsRepo)
	exitOnError(logg, "failed to create reports service", err)

	usersService, err := users.NewService(userRepo, cfg.Password)
	exitOnError(logg, "failed to create users service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionManager: sessionManager,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		AuthService:         authService,
		CatalogService:      catalogService,
		TransactionsService: transactionsService,
		SettingsService:     settingsService,
		MediaService:        mediaService,
		ReportsService:      reportsService,
		UsersService:        usersService,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func exitOnError(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
