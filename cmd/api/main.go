// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the StreamVault account and session API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Wire the activity publisher (Kafka when brokers are configured).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/streamvault/internal/api"
	"github.com/taibuivan/streamvault/internal/platform/config"
	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/migration"
	pgstore "github.com/taibuivan/streamvault/internal/platform/postgres"
	redisstore "github.com/taibuivan/streamvault/internal/platform/redis"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/users/account"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/internal/users/auth"
)

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName))
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("kafka_enabled", cfg.KafkaEnabled()),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolOptions{
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		StatementTimeout: cfg.StatementTimeout,
		ApplicationName:  constants.AppName,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("postgres_pool_closing")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("redis_client_closing")
		if closeErr := rdb.Close(); closeErr != nil {
			log.Error("redis_close_failed", slog.Any("error", closeErr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(startupCtx, cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Activity Publisher ─────────────────────────────────────────────
	var publisher activity.Publisher = activity.NopPublisher{}
	if cfg.KafkaEnabled() {
		kafkaPublisher, err := activity.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaActivityTopic)
		must(log, err, "configure kafka publisher")
		defer func() {
			if closeErr := kafkaPublisher.Close(); closeErr != nil {
				log.Error("kafka_close_failed", slog.Any("error", closeErr))
			}
		}()
		publisher = kafkaPublisher
	}
	mirror := activity.NewMirror(publisher)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	hasher := sec.NewBcryptHasher(cfg.BcryptCost)

	authService := auth.NewService(
		auth.NewPostgresStore(pool),
		auth.NewVerificationTokenStore(rdb),
		auth.NewResetTokenStore(rdb),
		hasher,
		auth.WithLockoutPolicy(auth.LockoutPolicy{Threshold: cfg.LockoutThreshold, Duration: cfg.LockoutDuration}),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithMirror(mirror),
		auth.WithNotifier(auth.NewLogNotifier(log)),
	)

	accountService := account.NewService(account.NewPostgresStore(pool), authService, hasher,
		account.WithMirror(mirror),
	)

	activityService := activity.NewService(activity.NewRepository(pool))

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		Cache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	})

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, authService, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Activity:  activity.NewHandler(activityService),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_listen_failed", slog.Any("error", err))
	}

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only used during startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
