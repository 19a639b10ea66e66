// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed scans the editions root once and reseeds the PostgreSQL
// archive with the result, without starting the HTTP server.
//
// It reads the same environment as cmd/api. DATABASE_URL is required.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/migration"
	pgstore "github.com/taibuivan/epaper/internal/platform/postgres"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String(constants.FieldApp, "epaper-seed"))

	if err := run(log); err != nil {
		log.Error("seed_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.IsArchiveEnabled() {
		return errors.New("seed: DATABASE_URL is required")
	}

	epoch, err := cfg.Epoch()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ScanTimeout)
	defer cancel()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log, cfg.Debug); err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	scanner := edition.NewScanner(cfg.EditionsRoot, cfg.EditionPrefix, cfg.Extensions(), log)
	normalizer := edition.NewNormalizer(cfg.EditionsRoot, cfg.EditionPrefix, cfg.Publication,
		edition.NewCalendar(epoch, cfg.EditionOffset))

	entries, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	editions, diagnostics := normalizer.Normalize(entries)
	for _, diagnostic := range diagnostics {
		log.Warn("edition_folder_skipped",
			slog.String("folder", diagnostic.Folder),
			slog.String("reason", diagnostic.Reason),
		)
	}

	archive := edition.NewPostgresArchive(pool)
	if err := archive.Reseed(ctx, editions); err != nil {
		return err
	}

	count, err := archive.Count(ctx)
	if err != nil {
		return err
	}

	log.Info("seed_completed",
		slog.Int("editions", count),
		slog.Int("skipped", len(diagnostics)),
	)
	return nil
}
