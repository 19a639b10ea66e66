// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/database/schema"
	"github.com/taibuivan/epaper/internal/platform/dberr"
)

const resourceArchive = "Edition archive"

// # PostgreSQL Archive

// archiveRepository implements the [Archive] interface using pgx.
//
// Each snapshot is stored in three tables (edition, section and page) under
// the archive schema.
type archiveRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive constructs a PostgreSQL backed [Archive].
func NewPostgresArchive(pool *pgxpool.Pool) Archive {
	return &archiveRepository{pool: pool}
}

/*
Reseed wipes and repopulates the archive.

Description: Child tables are cleared before parents. Rows are queued into a
single batch per table and flushed inside the transaction, so readers see
either the previous archive or the new one.
*/
func (repository *archiveRepository) Reseed(ctx context.Context, editions []*Edition) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, resourceArchive, "reseed begin")
	}
	defer transaction.Rollback(ctx)

	// Wipe phase, children first
	for _, table := range []string{schema.ArchivePage.Table, schema.ArchiveSection.Table, schema.ArchiveEdition.Table} {
		if _, err := transaction.Exec(ctx, "DELETE FROM "+table); err != nil {
			return dberr.Wrap(err, resourceArchive, "clear "+table)
		}
	}

	scannedAt := time.Now().UTC()
	batch := &pgx.Batch{}
	editionQuery := insertStatement(schema.ArchiveEdition.Table, schema.ArchiveEdition.Columns())
	sectionQuery := insertStatement(schema.ArchiveSection.Table, schema.ArchiveSection.Columns())
	pageQuery := insertStatement(schema.ArchivePage.Table, schema.ArchivePage.Columns())

	for _, edition := range editions {
		date, err := time.Parse(config.DateLayout, edition.Date)
		if err != nil {
			return fmt.Errorf("edition: archive %s: %w", edition.ID, err)
		}

		batch.Queue(editionQuery,
			edition.ID, edition.EditionNumber, edition.Title, date, edition.Publication,
			edition.Folder, edition.CoverImage, edition.PageCount, scannedAt,
		)

		for _, section := range edition.Sections {
			batch.Queue(sectionQuery, section.ID, edition.ID, section.Name, section.DisplayName, section.Order)

			for _, page := range section.Pages {
				batch.Queue(pageQuery,
					page.ID, edition.ID, section.ID, page.PageNumber,
					page.FileName, page.ImageURL, page.Width, page.Height,
				)
			}
		}
	}

	// Batch dispatch; Close surfaces the first failed statement
	if batch.Len() > 0 {
		if err := transaction.SendBatch(ctx, batch).Close(); err != nil {
			return dberr.Wrap(err, resourceArchive, "reseed insert")
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, resourceArchive, "reseed commit")
	}

	return nil
}

// Count returns the number of archived editions.
func (repository *archiveRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.ArchiveEdition.Table)
	if err := repository.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, resourceArchive, "count editions")
	}
	return count, nil
}

// insertStatement builds "INSERT INTO table (a, b) VALUES ($1, $2)".
func insertStatement(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}
