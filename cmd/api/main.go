// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the e-paper HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the edition catalog and its metrics hook.
//  4. Connect to PostgreSQL and run migrations (optional archive).
//  5. Connect to Redis, or fall back to the in-memory preferences store.
//  6. Run the first scan.
//  7. Start the rescan schedule and the filesystem watcher.
//  8. Wire services, handlers and the HTTP server.
//  9. Serve until SIGINT/SIGTERM, then shut down gracefully.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/epaper/internal/api"
	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/core/viewer"
	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/metrics"
	"github.com/taibuivan/epaper/internal/platform/migration"
	pgstore "github.com/taibuivan/epaper/internal/platform/postgres"
	redisstore "github.com/taibuivan/epaper/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("editions_root", cfg.EditionsRoot),
	)

	epoch, err := cfg.Epoch()
	must(log, err, "parse epoch")

	// Root context for the process. Cancelled on shutdown to stop background loops.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	registry := metrics.New()
	health := api.HealthDependencies{
		CheckEditions: api.EditionsRootCheck(cfg.EditionsRoot),
	}

	// ── 3. Edition Catalog ────────────────────────────────────────────────
	scanner := edition.NewScanner(cfg.EditionsRoot, cfg.EditionPrefix, cfg.Extensions(), log)
	normalizer := edition.NewNormalizer(cfg.EditionsRoot, cfg.EditionPrefix, cfg.Publication,
		edition.NewCalendar(epoch, cfg.EditionOffset))
	catalog := edition.NewCatalog(scanner, normalizer, log)

	catalog.OnRefresh(func(ctx context.Context, snapshot *edition.Snapshot, stats edition.RefreshStats) {
		registry.ObserveScan(stats.Trigger, stats.Took, stats.Editions, stats.Pages, len(stats.Diagnostics))
	})

	// ── 4. PostgreSQL Archive (optional) ──────────────────────────────────
	if cfg.IsArchiveEnabled() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log, cfg.Debug), "run migrations")

		archive := edition.NewPostgresArchive(pool)
		catalog.OnRefresh(edition.ArchiveHook(archive, func(err error, editions int) {
			if err != nil {
				log.Error("edition_archive_reseed_failed", slog.Any("error", err))
				return
			}
			log.Info("edition_archive_reseeded", slog.Int("editions", editions))
		}))

		health.CheckDatabase = func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}
	}

	// ── 5. Preferences Store ──────────────────────────────────────────────
	var preferences viewer.PreferencesStore
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		preferences = viewer.NewRedisStore(rdb, cfg.PreferencesTTL)
		health.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Info("preferences_store_in_memory")
		preferences = viewer.NewMemoryStore(cfg.PreferencesTTL)
	}

	// ── 6. Initial Scan ───────────────────────────────────────────────────
	if _, err := catalog.Refresh(startupCtx, edition.TriggerStartup); err != nil {
		log.Warn("edition_initial_scan_failed", slog.Any("error", err))
	}

	// ── 7. Background Refresh ─────────────────────────────────────────────
	if cfg.RescanSchedule != "" {
		scheduler, err := edition.NewScheduler(catalog, cfg.RescanSchedule, log)
		must(log, err, "parse rescan schedule")
		scheduler.Start()
		defer scheduler.Stop(context.Background())
	}

	if cfg.WatchRoot {
		watcher := edition.NewWatcher(cfg.EditionsRoot, catalog, constants.WatchDebounce, log)
		if err := watcher.Start(rootCtx); err != nil {
			log.Warn("edition_watcher_unavailable", slog.Any("error", err))
		} else {
			defer watcher.Close()
		}
	}

	// ── 8. Domain Wiring & HTTP Server ───────────────────────────────────
	images := edition.NewImageResolver(cfg.EditionsRoot, scanner.Allowed)
	editionService := edition.NewService(catalog, images, log)
	viewerService := viewer.NewService(preferences, editionService, log)

	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Edition:   edition.NewHandler(editionService, registry),
		Viewer:    viewer.NewHandler(viewerService),
	}

	server := api.NewServer(rootCtx, cfg, log, registry, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		rootCancel()
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the process-wide JSON logger and installs it as the default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
