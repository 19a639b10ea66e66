// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/migration"
	"github.com/taibuivan/epaper/internal/platform/postgres"
)

// TestPostgresArchive_Reseed runs against a live database named by
// EPAPER_TEST_DATABASE_URL. Its archive tables are overwritten.
func TestPostgresArchive_Reseed(t *testing.T) {
	dsn := os.Getenv("EPAPER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("EPAPER_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, migration.RunUp(dsn, "../../../data/migrations", discardLogger(), false))

	pool, err := postgres.NewPool(ctx, dsn, discardLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	archive := edition.NewPostgresArchive(pool)
	normalizer := stubNormalizer()

	editions, _ := normalizer.Normalize(threeEditions())
	require.NoError(t, archive.Reseed(ctx, editions))

	count, err := archive.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Last write wins: a smaller reseed fully replaces the previous one.
	require.NoError(t, archive.Reseed(ctx, editions[:1]))
	count, err = archive.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
