// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/viewer"
	redisclient "github.com/taibuivan/epaper/internal/platform/redis"
)

// TestRedisStore runs against a live server named by EPAPER_TEST_REDIS_URL.
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("EPAPER_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("EPAPER_TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redisclient.NewClient(ctx, redisURL, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := viewer.NewRedisStore(client, time.Minute)
	readerID := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { client.Del(ctx, "viewer:preferences:"+readerID) })

	_, found, err := store.Get(ctx, readerID)
	require.NoError(t, err)
	assert.False(t, found)

	saved := viewer.DefaultPreferences()
	saved.ViewMode = viewer.ViewModeScroll
	require.NoError(t, store.Put(ctx, readerID, saved))

	loaded, found, err := store.Get(ctx, readerID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, saved, loaded)

	ttl, err := client.TTL(ctx, "viewer:preferences:"+readerID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
