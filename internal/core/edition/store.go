// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import "context"

// # Edition Archive

// Archive mirrors catalog snapshots into durable storage for reporting and
// for clients that query the database directly.
type Archive interface {

	/*
		Reseed replaces the archive contents with editions.

		Description: The previous rows are wiped and the new ones inserted in
		one transaction. Concurrent reseeds resolve as last write wins.

		Parameters:
		  - ctx: context.Context
		  - editions: []*Edition (Full editions with pages and sections)

		Returns:
		  - error: Storage failures
	*/
	Reseed(ctx context.Context, editions []*Edition) error

	/*
		Count returns the number of archived editions.

		Returns:
		  - int: Archived edition count
		  - error: Storage failures
	*/
	Count(ctx context.Context) (int, error)
}

// ArchiveHook returns a [RefreshHook] that reseeds archive after every refresh.
// Failures are logged by report and never affect the live catalog.
func ArchiveHook(archive Archive, report func(err error, editions int)) RefreshHook {
	return func(ctx context.Context, snapshot *Snapshot, stats RefreshStats) {
		err := archive.Reseed(ctx, snapshot.Editions())
		report(err, stats.Editions)
	}
}
