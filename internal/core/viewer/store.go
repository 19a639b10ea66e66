// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import "context"

// # Preferences Data Access

// PreferencesStore persists [Preferences] per reader.
type PreferencesStore interface {

	/*
		Get returns the saved preferences of a reader.

		Returns:
		  - Preferences: Saved preferences when found
		  - bool: Whether anything was saved
		  - error: Storage failures
	*/
	Get(ctx context.Context, readerID string) (Preferences, bool, error)

	/*
		Put saves the preferences of a reader, replacing any previous value.

		Returns:
		  - error: Storage failures
	*/
	Put(ctx context.Context, readerID string, preferences Preferences) error
}
