// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/validate"
)

// Theme is the colour scheme of the reader.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ViewMode is how pages are laid out.
type ViewMode string

const (
	ViewModeFlip   ViewMode = "flip"
	ViewModeSingle ViewMode = "single"
	ViewModeScroll ViewMode = "scroll"
)

// Flip duration bounds, in milliseconds.
const (
	MinFlipDuration = 200
	MaxFlipDuration = 5000
)

const (
	FieldTheme        = "theme"
	FieldFlipDuration = "flip_duration"
	FieldViewMode     = "view_mode"
	FieldReaderID     = "reader_id"
)

// Preferences is the persisted part of a reader's viewer settings.
type Preferences struct {
	Theme           Theme    `json:"theme"`
	AutoFlip        bool     `json:"auto_flip"`
	FlipDuration    int      `json:"flip_duration"` // milliseconds
	ShowPageNumbers bool     `json:"show_page_numbers"`
	ShowThumbnails  bool     `json:"show_thumbnails"` // initial thumbnail strip visibility
	ViewMode        ViewMode `json:"view_mode"`
}

// DefaultPreferences returns the settings of a reader who never saved any.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           ThemeSystem,
		AutoFlip:        false,
		FlipDuration:    constants.DefaultFlipDuration,
		ShowPageNumbers: true,
		ShowThumbnails:  false,
		ViewMode:        ViewModeFlip,
	}
}

// Validate rejects unknown enum values and out-of-range durations.
func (p Preferences) Validate() error {
	validator := &validate.Validator{}
	validator.OneOf(FieldTheme, string(p.Theme), string(ThemeLight), string(ThemeDark), string(ThemeSystem))
	validator.OneOf(FieldViewMode, string(p.ViewMode), string(ViewModeFlip), string(ViewModeSingle), string(ViewModeScroll))
	validator.Range(FieldFlipDuration, p.FlipDuration, MinFlipDuration, MaxFlipDuration)
	return validator.Err()
}

// PreferencesPatch is a partial update. Nil fields are left unchanged.
type PreferencesPatch struct {
	Theme           *Theme    `json:"theme"`
	AutoFlip        *bool     `json:"auto_flip"`
	FlipDuration    *int      `json:"flip_duration"`
	ShowPageNumbers *bool     `json:"show_page_numbers"`
	ShowThumbnails  *bool     `json:"show_thumbnails"`
	ViewMode        *ViewMode `json:"view_mode"`
}

// Apply returns p with every non-nil patch field applied.
func (patch PreferencesPatch) Apply(p Preferences) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.AutoFlip != nil {
		p.AutoFlip = *patch.AutoFlip
	}
	if patch.FlipDuration != nil {
		p.FlipDuration = *patch.FlipDuration
	}
	if patch.ShowPageNumbers != nil {
		p.ShowPageNumbers = *patch.ShowPageNumbers
	}
	if patch.ShowThumbnails != nil {
		p.ShowThumbnails = *patch.ShowThumbnails
	}
	if patch.ViewMode != nil {
		p.ViewMode = *patch.ViewMode
	}
	return p
}
