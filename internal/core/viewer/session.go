// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/epaper/internal/platform/constants"
)

// Session drives a [Surface] for one reader.
//
// Commands request transitions from the surface; the surface's flip callback
// is the only writer of the current page. Locks are never held while calling
// into the surface, so a surface may report flips synchronously.
type Session struct {
	mu          sync.Mutex
	state       State
	preferences Preferences

	surface        Surface
	logger         *slog.Logger
	preloadCount   int
	preloadTimeout time.Duration
}

// SessionOption customizes a [Session].
type SessionOption func(*Session)

// WithPreload overrides how many images are preloaded and how long Open waits.
func WithPreload(count int, timeout time.Duration) SessionOption {
	return func(session *Session) {
		session.preloadCount = count
		session.preloadTimeout = timeout
	}
}

// NewSession constructs a [Session] bound to surface.
func NewSession(surface Surface, preferences Preferences, logger *slog.Logger, opts ...SessionOption) *Session {
	session := &Session{
		state:          NewState(0, preferences.ShowThumbnails),
		preferences:    preferences,
		surface:        surface,
		logger:         logger,
		preloadCount:   constants.PreloadCount,
		preloadTimeout: constants.PreloadTimeout,
	}
	for _, opt := range opts {
		opt(session)
	}
	surface.OnFlip(session.OnFlip)
	return session
}

// State returns a copy of the current state.
func (session *Session) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

// Preferences returns the reader's preferences.
func (session *Session) Preferences() Preferences {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.preferences
}

// UpdatePreferences replaces the preferences without touching navigation state.
func (session *Session) UpdatePreferences(preferences Preferences) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.preferences = preferences
}

/*
Open starts reading an edition.

Description: The session enters the loading phase, hands the pages to the
surface and preloads the first few images in parallel. It becomes ready once
they finish or the preload timeout passes, whichever comes first; preload
failures are logged and do not block reading. An edition with no pages is
ready at once.

Returns:
  - error: Only when the surface rejects the pages; the session is then in the error phase
*/
func (session *Session) Open(ctx context.Context, imageURLs []string, loader Loader) error {
	session.mu.Lock()
	session.state = NewState(len(imageURLs), session.preferences.ShowThumbnails)
	session.mu.Unlock()

	if err := session.surface.Load(imageURLs); err != nil {
		session.setPhase(PhaseError)
		return fmt.Errorf("viewer: load pages: %w", err)
	}

	if len(imageURLs) > 0 && loader != nil {
		session.preload(ctx, imageURLs[:min(len(imageURLs), session.preloadCount)], loader)
	}

	session.setPhase(PhaseReady)
	return nil
}

// preload fetches urls concurrently and returns when all finish or the
// timeout passes. Loads still running after the timeout see ctx cancelled.
func (session *Session) preload(ctx context.Context, urls []string, loader Loader) {
	preloadCtx, cancel := context.WithTimeout(ctx, session.preloadTimeout)
	defer cancel()

	var group errgroup.Group
	for _, url := range urls {
		group.Go(func() error {
			if err := loader.Preload(preloadCtx, url); err != nil {
				session.logger.Debug("viewer_preload_failed", slog.String("url", url), slog.Any("error", err))
			}
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-preloadCtx.Done():
		session.logger.Debug("viewer_preload_timed_out", slog.Int("images", len(urls)))
	}
}

// Reset returns to the no-edition state, keeping preferences.
func (session *Session) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state = NewState(0, session.preferences.ShowThumbnails)
}

func (session *Session) setPhase(phase Phase) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state = session.state.WithPhase(phase)
}

// # Surface Callback

// OnFlip records a completed flip reported by the surface.
// Indexes outside the edition are clamped.
func (session *Session) OnFlip(index int) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state = session.state.GoTo(index)
}

// # Navigation Requests

// Next asks the surface to turn forward. It is a no-op on the back cover.
func (session *Session) Next() {
	if session.State().AtEnd() {
		return
	}
	session.surface.FlipNext()
}

// Prev asks the surface to turn back. It is a no-op on the front cover.
func (session *Session) Prev() {
	if session.State().AtStart() {
		return
	}
	session.surface.FlipPrev()
}

// GoTo asks the surface to turn to index, clamped to the edition.
func (session *Session) GoTo(index int) {
	session.surface.TurnTo(session.State().GoTo(index).CurrentPageIndex)
}

// First asks the surface to turn to the front cover.
func (session *Session) First() { session.GoTo(0) }

// Last asks the surface to turn to the back cover.
func (session *Session) Last() { session.GoTo(session.State().LastIndex()) }

// # Local Transitions

func (session *Session) apply(transition func(State) State) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state = transition(session.state)
}

// ZoomIn enlarges the page by one step.
func (session *Session) ZoomIn() { session.apply(State.ZoomIn) }

// ZoomOut shrinks the page by one step.
func (session *Session) ZoomOut() { session.apply(State.ZoomOut) }

// ResetZoom restores the default zoom.
func (session *Session) ResetZoom() { session.apply(State.ResetZoom) }

// SetZoom sets the zoom factor, clamped.
func (session *Session) SetZoom(zoom float64) {
	session.apply(func(s State) State { return s.SetZoom(zoom) })
}

// ToggleThumbnails opens or closes the thumbnail strip.
func (session *Session) ToggleThumbnails() { session.apply(State.ToggleThumbnails) }

// # Keyboard

// HandleKey runs the command bound to key and reports whether one was bound.
func (session *Session) HandleKey(key string) bool {
	switch CommandForKey(key) {
	case CommandNext:
		session.Next()
	case CommandPrev:
		session.Prev()
	case CommandFirst:
		session.First()
	case CommandLast:
		session.Last()
	case CommandToggleThumbnails:
		session.ToggleThumbnails()
	case CommandCloseThumbnails:
		session.apply(func(s State) State { return s.SetShowThumbnails(false) })
	case CommandZoomIn:
		session.ZoomIn()
	case CommandZoomOut:
		session.ZoomOut()
	case CommandResetZoom:
		session.ResetZoom()
	default:
		return false
	}
	return true
}
