// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

// Command api is the entry point for the TaskPro HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Start the background job runner.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/khawarh/taskpro/internal/api"
	"github.com/khawarh/taskpro/internal/core/list"
	"github.com/khawarh/taskpro/internal/core/task"
	"github.com/khawarh/taskpro/internal/platform/config"
	"github.com/khawarh/taskpro/internal/platform/constants"
	"github.com/khawarh/taskpro/internal/platform/jobs"
	"github.com/khawarh/taskpro/internal/platform/migration"
	pgstore "github.com/khawarh/taskpro/internal/platform/postgres"
	redisstore "github.com/khawarh/taskpro/internal/platform/redis"
	"github.com/khawarh/taskpro/internal/platform/sec"
	"github.com/khawarh/taskpro/internal/users/auth"
	"github.com/khawarh/taskpro/internal/users/subuser"
)

// jobQueueSize bounds the cascade-delete backlog before enqueues are refused.
const jobQueueSize = 256

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "taskpro"))
	slog.SetDefault(log)

	log.Info("[TaskPro] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "taskpro"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for the process lifetime. Cancelled on shutdown so the
	// rate limiter cleanup and the job runner stop with the server.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service & Job Runner ─────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	runner := jobs.NewRunner(log, jobQueueSize)
	runner.Start(appCtx)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	taskRepository := task.NewPostgresRepository(pool)
	taskService := task.NewService(taskRepository, log)
	taskHandler := task.NewHandler(taskService)

	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	sessionCache := auth.NewSessionCache(rdb)
	authService := auth.NewService(userRepository, sessionRepository, sessionCache, jwtSvc, log)
	authHandler := auth.NewHandler(authService)

	// Recurring ledger cleanup. Expired sessions are invalid the moment they
	// expire; this only reclaims the storage they occupy.
	runner.Schedule(appCtx, auth.SessionPruneInterval, jobs.Job{
		Name: "prune_expired_sessions",
		Run:  sessionRepository.DeleteExpired,
	})

	subUserRepository := subuser.NewPostgresRepository(pool)
	subUserService := subuser.NewService(subUserRepository, taskRepository, runner, log)
	subUserHandler := subuser.NewHandler(subUserService)

	listRepository := list.NewPostgresRepository(pool)
	listService := list.NewService(listRepository, taskRepository, runner, log)
	listHandler := list.NewHandler(listService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		SubUser:   subUserHandler,
		List:      listHandler,
		Task:      taskHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
