// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package viewer models a reading session of one edition.

A session tracks which page is showing, the zoom factor and whether the
thumbnail strip is open. The page-flip widget itself is external: it implements
[Surface], receives navigation requests and reports completed flips back.

Two kinds of state are kept apart:

  - [State]: transient, per session, replaced when another edition is opened.
  - [Preferences]: persisted per reader and kept across resets.

Every [State] transition is a total function. Out-of-range input is clamped,
never rejected.
*/
package viewer

import (
	"math"

	"github.com/taibuivan/epaper/internal/platform/constants"
)

// # Session Phase

// Phase is the bootstrap stage of a session.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// # Transient State

// State is the navigation state of one session.
//
// TotalPages counts the edition's pages plus the synthetic front and back
// cover slots, so CurrentPageIndex 0 is the front cover.
type State struct {
	CurrentPageIndex int     `json:"current_page_index"`
	TotalPages       int     `json:"total_pages"`
	Zoom             float64 `json:"zoom"`
	ShowThumbnails   bool    `json:"show_thumbnails"`
	Phase            Phase   `json:"phase"`
}

// NewState returns the opening state for an edition with pageCount pages.
func NewState(pageCount int, showThumbnails bool) State {
	return State{
		TotalPages:     max(pageCount, 0) + constants.CoverSlots,
		Zoom:           constants.DefaultZoom,
		ShowThumbnails: showThumbnails,
		Phase:          PhaseLoading,
	}
}

// LastIndex is the highest valid page index.
func (s State) LastIndex() int {
	return max(s.TotalPages-1, 0)
}

// AtStart reports whether the front cover is showing.
func (s State) AtStart() bool { return s.CurrentPageIndex == 0 }

// AtEnd reports whether the back cover is showing.
func (s State) AtEnd() bool { return s.CurrentPageIndex >= s.LastIndex() }

// # Navigation

// GoTo moves to index, clamped to [0, LastIndex].
func (s State) GoTo(index int) State {
	s.CurrentPageIndex = min(max(index, 0), s.LastIndex())
	return s
}

// Next advances one page, stopping at the back cover.
func (s State) Next() State { return s.GoTo(s.CurrentPageIndex + 1) }

// Prev goes back one page, stopping at the front cover.
func (s State) Prev() State { return s.GoTo(s.CurrentPageIndex - 1) }

// First moves to the front cover.
func (s State) First() State { return s.GoTo(0) }

// Last moves to the back cover.
func (s State) Last() State { return s.GoTo(s.LastIndex()) }

// # Zoom

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom]. NaN resets to
// the default zoom.
func (s State) SetZoom(zoom float64) State {
	if math.IsNaN(zoom) {
		zoom = constants.DefaultZoom
	}
	s.Zoom = min(max(zoom, constants.MinZoom), constants.MaxZoom)
	return s
}

// ZoomIn enlarges by one step.
func (s State) ZoomIn() State { return s.SetZoom(s.Zoom + constants.ZoomStep) }

// ZoomOut shrinks by one step.
func (s State) ZoomOut() State { return s.SetZoom(s.Zoom - constants.ZoomStep) }

// ResetZoom restores the default zoom.
func (s State) ResetZoom() State { return s.SetZoom(constants.DefaultZoom) }

// # Thumbnails

// ToggleThumbnails flips thumbnail strip visibility.
func (s State) ToggleThumbnails() State {
	s.ShowThumbnails = !s.ShowThumbnails
	return s
}

// SetShowThumbnails sets thumbnail strip visibility.
func (s State) SetShowThumbnails(show bool) State {
	s.ShowThumbnails = show
	return s
}

// # Phase

// WithPhase returns the state in the given phase.
func (s State) WithPhase(phase Phase) State {
	s.Phase = phase
	return s
}
