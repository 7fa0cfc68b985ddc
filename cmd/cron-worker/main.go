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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catalog-backend/internal/cron"
	"github.com/angelmondragon/catalog-backend/internal/interactions"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/db"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
	"github.com/angelmondragon/catalog-backend/pkg/migrate"
	"github.com/angelmondragon/catalog-backend/pkg/redis"
)

const lockName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	if sqlDB, err := dbClient.SQLDB(); err == nil {
		registry.MustRegister(collectors.NewDBStatsCollector(sqlDB, "catalog"))
	}

	batches, err := interactions.NewBatchExecutor(interactions.BatchExecutorParams{TxRunner: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create batch executor", err)
		os.Exit(1)
	}
	cleaner, err := interactions.NewCleaner(interactions.CleanerParams{
		Batches: batches,
		Logger:  logg,
		Metrics: metrics.NewCleanupMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create interaction cleaner", err)
		os.Exit(1)
	}
	cleanupJob, err := cron.NewInteractionCleanupJob(cron.InteractionCleanupJobParams{
		Logger:  logg,
		Cleaner: cleaner,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cleanup job", err)
		os.Exit(1)
	}

	schedule, err := cron.ParseDailySchedule(cfg.Cleanup.Schedule)
	if err != nil {
		logg.Error(context.Background(), "invalid cleanup schedule", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName, cfg.App.Env), cfg.Cleanup.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   cron.NewRegistry(cleanupJob),
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(registry),
		Schedule:   schedule,
		RunOnStart: cfg.Cleanup.RunOnStart,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"schedule":    schedule.String(),
	})

	metricsServer := &http.Server{
		Addr:              cfg.Cleanup.MetricsAddr,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.Cleanup.MetricsAddr != "" {
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logg.Error(ctx, "metrics server stopped unexpectedly", err)
			}
		}()
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	logg.Info(ctx, "cron worker shutting down gracefully")
}
