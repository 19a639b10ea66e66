// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/ctxutil"
	"github.com/taibuivan/epaper/internal/platform/validate"
)

// maxReaderIDLength bounds opaque client-generated reader ids such as UUIDs.
const maxReaderIDLength = 64

var readerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// EditionFinder resolves an edition reference. [*edition.Service] satisfies it.
type EditionFinder interface {
	GetEdition(ctx context.Context, ref string) (*edition.Edition, error)
}

// Bootstrap is everything a client needs to open a reading session.
type Bootstrap struct {
	EditionID        string      `json:"edition_id"`
	State            State       `json:"state"`
	Preferences      Preferences `json:"preferences"`
	MinZoom          float64     `json:"min_zoom"`
	MaxZoom          float64     `json:"max_zoom"`
	ZoomStep         float64     `json:"zoom_step"`
	Preload          []string    `json:"preload"`
	PreloadTimeoutMS int64       `json:"preload_timeout_ms"`
}

// # Service Layer

// Service manages reader preferences and session bootstrap.
type Service struct {
	store    PreferencesStore
	editions EditionFinder
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store PreferencesStore, editions EditionFinder, logger *slog.Logger) *Service {
	return &Service{store: store, editions: editions, logger: logger}
}

func validateReaderID(readerID string) error {
	validator := &validate.Validator{}
	if validator.Required(FieldReaderID, readerID).MaxLen(FieldReaderID, readerID, maxReaderIDLength).HasErrors() {
		return validator.Err()
	}
	validator.Custom(FieldReaderID, !readerIDPattern.MatchString(readerID), "Must contain only letters, digits, '-' or '_'")
	return validator.Err()
}

// # Preferences

// GetPreferences returns the saved preferences of a reader, or the defaults.
func (service *Service) GetPreferences(ctx context.Context, readerID string) (Preferences, error) {
	if err := validateReaderID(readerID); err != nil {
		return Preferences{}, err
	}

	preferences, found, err := service.store.Get(ctx, readerID)
	if err != nil {
		return Preferences{}, err
	}
	if !found {
		return DefaultPreferences(), nil
	}
	return preferences, nil
}

/*
UpdatePreferences merges patch into the reader's preferences and saves them.

Returns:
  - Preferences: The saved result
  - error: ValidationError for invalid values, or storage failures
*/
func (service *Service) UpdatePreferences(ctx context.Context, readerID string, patch PreferencesPatch) (Preferences, error) {
	current, err := service.GetPreferences(ctx, readerID)
	if err != nil {
		return Preferences{}, err
	}

	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return Preferences{}, err
	}

	if err := service.store.Put(ctx, readerID, updated); err != nil {
		return Preferences{}, err
	}

	ctxutil.Logger(ctx, service.logger).InfoContext(ctx, "viewer_preferences_updated",
		slog.String("reader_id", readerID),
		slog.String("theme", string(updated.Theme)),
		slog.String("view_mode", string(updated.ViewMode)),
	)

	return updated, nil
}

// # Session Bootstrap

/*
Bootstrap returns the opening state for reading ref.

Description: readerID is optional; without it the default preferences apply.
An edition with no pages starts ready since there is nothing to preload.
*/
func (service *Service) Bootstrap(ctx context.Context, ref, readerID string) (Bootstrap, error) {
	found, err := service.editions.GetEdition(ctx, ref)
	if err != nil {
		return Bootstrap{}, err
	}

	preferences := DefaultPreferences()
	if readerID != "" {
		if preferences, err = service.GetPreferences(ctx, readerID); err != nil {
			return Bootstrap{}, err
		}
	}

	state := NewState(found.PageCount, preferences.ShowThumbnails)
	if found.PageCount == 0 {
		state = state.WithPhase(PhaseReady)
	}

	urls := ImageURLs(found)
	preload := urls[:min(len(urls), constants.PreloadCount)]

	return Bootstrap{
		EditionID:        found.ID,
		State:            state,
		Preferences:      preferences,
		MinZoom:          constants.MinZoom,
		MaxZoom:          constants.MaxZoom,
		ZoomStep:         constants.ZoomStep,
		Preload:          preload,
		PreloadTimeoutMS: constants.PreloadTimeout.Milliseconds(),
	}, nil
}

// ImageURLs lists the page images of e in page order, for [Session.Open].
func ImageURLs(e *edition.Edition) []string {
	urls := make([]string, 0, len(e.Pages))
	for _, page := range e.Pages {
		urls = append(urls, page.ImageURL)
	}
	return urls
}
