// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/pkg/pagination"
)

// Refresh triggers, reported in logs and metrics.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
	TriggerManual   = "manual"
)

// resourceEdition names editions in NotFound errors.
const resourceEdition = "Edition"

// # Snapshot

// Snapshot is one immutable view of the catalog, built per scan.
type Snapshot struct {
	editions    []*Edition
	byID        map[string]*Edition
	byDate      map[string]*Edition
	diagnostics []Diagnostic
	builtAt     time.Time
}

// NewSnapshot indexes editions, which must already be sorted newest first.
func NewSnapshot(editions []*Edition, diagnostics []Diagnostic, builtAt time.Time) *Snapshot {
	snapshot := &Snapshot{
		editions:    editions,
		byID:        make(map[string]*Edition, len(editions)),
		byDate:      make(map[string]*Edition, len(editions)),
		diagnostics: diagnostics,
		builtAt:     builtAt,
	}
	for _, edition := range editions {
		snapshot.byID[edition.ID] = edition
		snapshot.byDate[edition.Date] = edition
	}
	return snapshot
}

// Editions returns every edition, newest first. Callers must not modify it.
func (snapshot *Snapshot) Editions() []*Edition { return snapshot.editions }

// Diagnostics returns the folders skipped while building the snapshot.
func (snapshot *Snapshot) Diagnostics() []Diagnostic { return snapshot.diagnostics }

// BuiltAt returns when the snapshot was built.
func (snapshot *Snapshot) BuiltAt() time.Time { return snapshot.builtAt }

// PageCount returns the number of pages across all editions.
func (snapshot *Snapshot) PageCount() int {
	total := 0
	for _, edition := range snapshot.editions {
		total += edition.PageCount
	}
	return total
}

// # Catalog

// RefreshStats summarises one completed refresh.
type RefreshStats struct {
	Trigger     string        `json:"trigger"`
	Editions    int           `json:"editions"`
	Pages       int           `json:"pages"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Took        time.Duration `json:"took_ns"`
	BuiltAt     time.Time     `json:"built_at"`
}

// RefreshHook observes every snapshot swapped into a [Catalog].
type RefreshHook func(ctx context.Context, snapshot *Snapshot, stats RefreshStats)

// Source lists raw edition folders. [*Scanner] is the production source.
type Source interface {
	Scan(ctx context.Context) ([]Entry, error)
}

/*
Catalog answers edition lookups from the current [Snapshot].

Readers load the snapshot pointer once per call and never observe a partially
built catalog. Concurrent [Catalog.Refresh] calls share a single scan.
*/
type Catalog struct {
	source     Source
	normalizer *Normalizer
	logger     *slog.Logger

	current atomic.Pointer[Snapshot]
	group   singleflight.Group

	hooksMu sync.RWMutex
	hooks   []RefreshHook
}

// NewCatalog constructs a [Catalog] holding an empty snapshot.
func NewCatalog(source Source, normalizer *Normalizer, logger *slog.Logger) *Catalog {
	catalog := &Catalog{source: source, normalizer: normalizer, logger: logger}
	catalog.current.Store(NewSnapshot(nil, nil, time.Time{}))
	return catalog
}

// OnRefresh registers a hook called after each successful refresh.
func (catalog *Catalog) OnRefresh(hook RefreshHook) {
	catalog.hooksMu.Lock()
	defer catalog.hooksMu.Unlock()
	catalog.hooks = append(catalog.hooks, hook)
}

// Snapshot returns the current snapshot.
func (catalog *Catalog) Snapshot() *Snapshot {
	return catalog.current.Load()
}

/*
Refresh rescans the root and swaps in a new snapshot.

Description: Calls arriving while a scan is running wait for it and receive
its result. The scan is detached from the caller's cancellation, so one
departing client cannot abort a refresh others are waiting on; it is bounded
by [constants.ScanTimeout] instead.

Returns:
  - RefreshStats: Counts for the snapshot now being served
  - error: Only when the scan was interrupted; the previous snapshot stays live
*/
func (catalog *Catalog) Refresh(ctx context.Context, trigger string) (RefreshStats, error) {
	result, err, _ := catalog.group.Do("refresh", func() (any, error) {
		scanCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ScanTimeout)
		defer cancel()
		return catalog.refresh(scanCtx, trigger)
	})
	if err != nil {
		return RefreshStats{}, err
	}
	return result.(RefreshStats), nil
}

func (catalog *Catalog) refresh(ctx context.Context, trigger string) (RefreshStats, error) {
	startTime := time.Now()

	entries, err := catalog.source.Scan(ctx)
	if err != nil {
		catalog.logger.Warn("edition_scan_aborted", slog.String("trigger", trigger), slog.Any("error", err))
		return RefreshStats{}, fmt.Errorf("edition: scan: %w", err)
	}

	editions, diagnostics := catalog.normalizer.Normalize(entries)
	snapshot := NewSnapshot(editions, diagnostics, time.Now().UTC())
	catalog.current.Store(snapshot)

	stats := RefreshStats{
		Trigger:     trigger,
		Editions:    len(editions),
		Pages:       snapshot.PageCount(),
		Diagnostics: diagnostics,
		Took:        time.Since(startTime),
		BuiltAt:     snapshot.BuiltAt(),
	}

	for _, diagnostic := range diagnostics {
		catalog.logger.Warn("edition_folder_skipped",
			slog.String("folder", diagnostic.Folder),
			slog.String("reason", diagnostic.Reason),
		)
	}

	catalog.logger.Info("edition_scan_completed",
		slog.String("trigger", trigger),
		slog.Int("editions", stats.Editions),
		slog.Int("pages", stats.Pages),
		slog.Int("skipped", len(diagnostics)),
		slog.Duration("took", stats.Took),
	)

	catalog.hooksMu.RLock()
	hooks := catalog.hooks
	catalog.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, snapshot, stats)
	}

	return stats, nil
}

// # Lookups

/*
List returns edition summaries newest first.

Parameters:
  - filter: Filter (Publication match, case-insensitive)
  - params: pagination.Params

Returns:
  - []Summary: The requested window
  - int: Total editions matching the filter
*/
func (catalog *Catalog) List(filter Filter, params pagination.Params) ([]Summary, int) {
	editions := catalog.Snapshot().Editions()

	matched := editions
	if filter.Publication != "" {
		matched = make([]*Edition, 0, len(editions))
		for _, edition := range editions {
			if strings.EqualFold(edition.Publication, filter.Publication) {
				matched = append(matched, edition)
			}
		}
	}

	start, end := params.Window(len(matched))
	summaries := make([]Summary, 0, end-start)
	for _, edition := range matched[start:end] {
		summaries = append(summaries, edition.Summary())
	}

	return summaries, len(matched)
}

// GetByDate returns the edition published on date (YYYY-MM-DD).
func (catalog *Catalog) GetByDate(date string) (*Edition, error) {
	if edition, ok := catalog.Snapshot().byDate[date]; ok {
		return edition, nil
	}
	return nil, apperr.NotFound(resourceEdition)
}

// GetByID returns the edition with the given id.
func (catalog *Catalog) GetByID(id string) (*Edition, error) {
	if edition, ok := catalog.Snapshot().byID[id]; ok {
		return edition, nil
	}
	return nil, apperr.NotFound(resourceEdition)
}

// Latest returns the newest edition.
func (catalog *Catalog) Latest() (*Edition, error) {
	editions := catalog.Snapshot().Editions()
	if len(editions) == 0 {
		return nil, apperr.NotFound(resourceEdition)
	}
	return editions[0], nil
}
