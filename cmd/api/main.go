// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the storefront HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration (.env, then environment variables).
//  2. Initialize the structured logger.
//  3. Open the store backend: flat files, or PostgreSQL plus migrations.
//  4. Connect optional backends: Redis throttle, Kafka events, Cloudinary.
//  5. Run the one-time legacy product migration.
//  6. Wire HTTP handlers.
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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tastedees/internal/api"
	"github.com/taibuivan/tastedees/internal/core/cart"
	"github.com/taibuivan/tastedees/internal/core/media"
	"github.com/taibuivan/tastedees/internal/core/product"
	"github.com/taibuivan/tastedees/internal/platform/clock"
	"github.com/taibuivan/tastedees/internal/platform/config"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/events"
	"github.com/taibuivan/tastedees/internal/platform/migration"
	pgstore "github.com/taibuivan/tastedees/internal/platform/postgres"
	redisstore "github.com/taibuivan/tastedees/internal/platform/redis"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/internal/platform/session"
	"github.com/taibuivan/tastedees/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
	)
	if cfg.UsesDevelopmentSecret() {
		log.Warn("session_secret_missing_using_development_fallback")
	}

	// Root context for startup and background workers. Startup steps get a
	// 30s deadline so misconfiguration fails fast.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Store Backend ──────────────────────────────────────────────────
	var (
		users    auth.UserRepository
		products product.Repository
		marker   product.Marker
		checks   []api.Check
	)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, cfg.DBMaxConns, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		users = auth.NewPostgresUserRepository(pool)
		products = product.NewPostgresRepository(pool)
		marker = product.NewPostgresMarker(pool)
		checks = append(checks, api.Check{Name: "postgres", Run: pingPostgres(pool)})

	default:
		users = auth.NewFileUserRepository(cfg.UsersFile())
		products = product.NewFileRepository(cfg.ProductsFile())
		marker = product.NewFileMarker(cfg.MigrationMarkerFile())
	}

	// ── 4. Optional Backends ──────────────────────────────────────────────
	var throttle auth.Throttle = auth.NewMemoryThrottle(rootCtx, constants.LoginAttemptsPerWindow, constants.LoginAttemptWindow)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		throttle = auth.NewRedisThrottle(rdb, constants.LoginAttemptsPerWindow, constants.LoginAttemptWindow)
		checks = append(checks, api.Check{Name: "redis", Run: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaProductTopic)
		log.Info("product_events_enabled", slog.String("topic", cfg.KafkaProductTopic))
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			log.Error("event publisher close error", slog.Any("error", cerr))
		}
	}()

	var storage media.Storage = media.NewLocalStorage(cfg.UploadDir, cfg.UploadPublicPrefix)
	if cfg.CloudinaryURL != "" {
		cloud, err := media.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		must(log, err, "initialize cloudinary")
		storage = cloud
		log.Info("image_uploads_to_cloudinary", slog.String("folder", cfg.CloudinaryFolder))
	}

	// ── 5. Legacy Product Migration ───────────────────────────────────────
	legacy := product.NewLegacyList(cfg.LegacyTshirtsFile)
	_, err = product.NewMigrator(products, marker, legacy, log).MigrateIfEmpty(startupCtx)
	must(log, err, "migrate legacy products")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.SessionIssuer, constants.SessionTTL, clock.Real{})
	must(log, err, "initialize token service")

	cookies := session.NewCookieAdapter(constants.SessionCookieName, constants.SessionTTL, cfg.CookieSecure)

	authService, err := auth.NewService(users, tokens, clock.Real{})
	must(log, err, "initialize auth service")

	productService := product.NewService(products, publisher, clock.Real{})

	liveness, readiness := api.NewHealthHandlers(log, checks...)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, cookies, throttle),
		Products:  product.NewHandler(productService),
		Legacy:    product.NewLegacyHandler(legacy),
		Upload:    media.NewHandler(media.NewService(storage)),
		Cart:      cart.NewHandler(cart.NewQuoter(products)),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, cookies, tokens, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func pingPostgres(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return pgstore.Ping(ctx, pool)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
