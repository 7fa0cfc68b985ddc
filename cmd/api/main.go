package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/catalog-backend/api/routes"
	"github.com/angelmondragon/catalog-backend/internal/auth"
	"github.com/angelmondragon/catalog-backend/internal/bulkload"
	"github.com/angelmondragon/catalog-backend/internal/interactions"
	products "github.com/angelmondragon/catalog-backend/internal/products"
	"github.com/angelmondragon/catalog-backend/internal/users"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/migrate"
	"github.com/angelmondragon/catalog-backend/pkg/redis"
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
		Environment: cfg.App.Env,
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	adminService, err := auth.NewAdminService(auth.AdminServiceParams{
		TxRunner:       dbClient,
		UserRepo:       userRepo,
		AdminConfig:    cfg.Admin,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}
	if _, err := adminService.EnsureAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to ensure admin user", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		TxRunner: dbClient,
		Repo:     products.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	interactionService, err := interactions.NewService(interactions.ServiceParams{
		TxRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create interaction service", err)
		os.Exit(1)
	}

	bulkLoadService, err := bulkload.NewService(bulkload.ServiceParams{
		Admins: adminService,
		Opener: bulkload.NewSourceOpener(cfg.BulkLoad.FetchTimeout),
		Sink:   dbClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bulk load service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sqlDB, err := dbClient.SQLDB(); err == nil {
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "catalog"))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithField(context.Background(), "addr", addr)
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:             cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			RateLimiter:        redisClient,
			Registry:           registry,
			AuthService:        authService,
			RegisterService:    registerService,
			ProductService:     productService,
			InteractionService: interactionService,
			BulkLoadService:    bulkLoadService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server stopped")
	}
}
