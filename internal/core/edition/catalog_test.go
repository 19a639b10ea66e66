// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/pkg/pagination"
)

// stubSource returns fixed entries, optionally blocking until released.
type stubSource struct {
	entries []edition.Entry
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (source *stubSource) Scan(ctx context.Context) ([]edition.Entry, error) {
	source.calls.Add(1)
	if source.started != nil {
		source.started <- struct{}{}
	}
	if source.release != nil {
		<-source.release
	}
	return source.entries, source.err
}

func stubNormalizer() *edition.Normalizer {
	return edition.NewNormalizer("/srv/editions", "Edition", "seva-goa", edition.NewCalendar(testEpoch, 1),
		edition.WithDimensionProbe(fixedProbe),
		edition.WithClock(testClock),
	)
}

func threeEditions() []edition.Entry {
	return []edition.Entry{
		{Folder: "Edition 01", Files: []string{"1.jpg"}},
		{Folder: "Edition 03", Files: []string{"1.jpg", "2.jpg"}},
		{Folder: "Edition 02", Files: []string{"1.jpg"}},
	}
}

func TestCatalog_EmptyBeforeRefresh(t *testing.T) {
	catalog := edition.NewCatalog(&stubSource{}, stubNormalizer(), discardLogger())

	_, err := catalog.Latest()
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	summaries, total := catalog.List(edition.Filter{}, pagination.Params{Limit: 10})
	assert.Empty(t, summaries)
	assert.Zero(t, total)
}

func TestCatalog_Lookups(t *testing.T) {
	catalog := edition.NewCatalog(&stubSource{entries: threeEditions()}, stubNormalizer(), discardLogger())

	stats, err := catalog.Refresh(context.Background(), edition.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Editions)
	assert.Equal(t, 4, stats.Pages)

	summaries, total := catalog.List(edition.Filter{}, pagination.Params{Limit: 2})
	assert.Equal(t, 3, total)
	require.Len(t, summaries, 2)
	assert.Equal(t, "edition-03", summaries[0].ID)
	assert.Equal(t, "edition-02", summaries[1].ID)

	summaries, _ = catalog.List(edition.Filter{}, pagination.Params{Limit: 2, Offset: 2})
	require.Len(t, summaries, 1)
	assert.Equal(t, "edition-01", summaries[0].ID)

	summaries, total = catalog.List(edition.Filter{Publication: "other"}, pagination.Params{Limit: 10})
	assert.Empty(t, summaries)
	assert.Zero(t, total)

	_, total = catalog.List(edition.Filter{Publication: "SEVA-GOA"}, pagination.Params{Limit: 10})
	assert.Equal(t, 3, total)

	latest, err := catalog.Latest()
	require.NoError(t, err)
	assert.Equal(t, "edition-03", latest.ID)

	byDate, err := catalog.GetByDate("2024-06-29")
	require.NoError(t, err)
	assert.Equal(t, 2, byDate.EditionNumber)

	byID, err := catalog.GetByID("edition-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-22", byID.Date)

	_, err = catalog.GetByDate("2024-06-23")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = catalog.GetByID("edition-09")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestCatalog_DateAndIDAgree(t *testing.T) {
	catalog := edition.NewCatalog(&stubSource{entries: threeEditions()}, stubNormalizer(), discardLogger())
	_, err := catalog.Refresh(context.Background(), edition.TriggerManual)
	require.NoError(t, err)

	for _, expected := range catalog.Snapshot().Editions() {
		byDate, err := catalog.GetByDate(expected.Date)
		require.NoError(t, err)
		assert.Same(t, expected, byDate)

		byID, err := catalog.GetByID(expected.ID)
		require.NoError(t, err)
		assert.Same(t, expected, byID)
	}
}

func TestCatalog_RefreshHooks(t *testing.T) {
	catalog := edition.NewCatalog(&stubSource{entries: threeEditions()}, stubNormalizer(), discardLogger())

	var seen edition.RefreshStats
	var snapshot *edition.Snapshot
	catalog.OnRefresh(func(ctx context.Context, s *edition.Snapshot, stats edition.RefreshStats) {
		snapshot = s
		seen = stats
	})

	_, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)

	assert.Equal(t, edition.TriggerStartup, seen.Trigger)
	assert.Equal(t, 3, seen.Editions)
	assert.Same(t, catalog.Snapshot(), snapshot)
}

func TestCatalog_FailedScanKeepsSnapshot(t *testing.T) {
	source := &stubSource{entries: threeEditions()}
	catalog := edition.NewCatalog(source, stubNormalizer(), discardLogger())

	_, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)
	before := catalog.Snapshot()

	source.err = errors.New("scan interrupted")
	_, err = catalog.Refresh(context.Background(), edition.TriggerSchedule)
	require.Error(t, err)

	assert.Same(t, before, catalog.Snapshot())
}

func TestCatalog_ConcurrentRefreshShareOneScan(t *testing.T) {
	source := &stubSource{
		entries: threeEditions(),
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	catalog := edition.NewCatalog(source, stubNormalizer(), discardLogger())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]edition.RefreshStats, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = catalog.Refresh(context.Background(), edition.TriggerWatch)
	}()
	<-source.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = catalog.Refresh(context.Background(), edition.TriggerManual)
		}(i)
	}

	// Give the waiters time to join the in-flight scan.
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
	for _, stats := range results {
		assert.Equal(t, 3, stats.Editions)
	}
}

func TestCatalog_ReadersDuringRefresh(t *testing.T) {
	catalog := edition.NewCatalog(&stubSource{entries: threeEditions()}, stubNormalizer(), discardLogger())
	_, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = catalog.Refresh(context.Background(), edition.TriggerManual)
		}()
		go func() {
			defer wg.Done()
			_, total := catalog.List(edition.Filter{}, pagination.Params{Limit: 10})
			assert.Equal(t, 3, total)
		}()
	}
	wg.Wait()
}

func TestCatalog_ListingSkipsMissingEditions(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "Edition 1", "1.png"), 2, 2)
	writePNG(t, filepath.Join(root, "Edition 1", "2.png"), 2, 2)
	writePNG(t, filepath.Join(root, "Edition 3", "1.png"), 2, 2)

	catalog, _ := newCatalog(t, root)
	_, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)

	summaries, total := catalog.List(edition.Filter{}, pagination.Params{Limit: 10})
	assert.Equal(t, 2, total)
	require.Len(t, summaries, 2)
	assert.Equal(t, 3, summaries[0].EditionNumber)
	assert.Equal(t, 1, summaries[0].PageCount)
	assert.Equal(t, 1, summaries[1].EditionNumber)
	assert.Equal(t, 2, summaries[1].PageCount)
}

func TestCatalog_MissingRootListsNothing(t *testing.T) {
	catalog, _ := newCatalog(t, filepath.Join(t.TempDir(), "absent"))

	stats, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)
	assert.Zero(t, stats.Editions)

	summaries, total := catalog.List(edition.Filter{}, pagination.Params{Limit: 10})
	assert.Empty(t, summaries)
	assert.Zero(t, total)
}
