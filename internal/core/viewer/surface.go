// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import "context"

// Surface is the page-flip widget a [Session] drives.
//
// Navigation calls are requests. The surface animates the turn and then
// reports the resulting index through the callback registered with OnFlip;
// that report is the only thing that moves the session's current page.
type Surface interface {
	// Load replaces the pages on display. imageURLs excludes the cover slots.
	Load(imageURLs []string) error
	FlipNext()
	FlipPrev()
	TurnTo(index int)
	// OnFlip registers the callback invoked after every completed flip.
	OnFlip(callback func(index int))
}

// Loader fetches one image ahead of display.
type Loader interface {
	Preload(ctx context.Context, imageURL string) error
}
