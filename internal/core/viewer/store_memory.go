// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// memoryStore keeps preferences in process memory. It is used when no Redis
// is configured; contents are lost on restart.
type memoryStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore constructs an in-process [PreferencesStore]. Entries expire
// after ttl and are purged every ttl/2, at least once a minute.
func NewMemoryStore(ttl time.Duration) PreferencesStore {
	cleanup := min(max(ttl/2, time.Second), time.Minute)
	return &memoryStore{cache: cache.New(ttl, cleanup), ttl: ttl}
}

func (store *memoryStore) Get(ctx context.Context, readerID string) (Preferences, bool, error) {
	value, found := store.cache.Get(readerID)
	if !found {
		return Preferences{}, false, nil
	}

	preferences, ok := value.(Preferences)
	if !ok {
		return Preferences{}, false, nil
	}
	return preferences, true, nil
}

func (store *memoryStore) Put(ctx context.Context, readerID string, preferences Preferences) error {
	store.cache.Set(readerID, preferences, store.ttl)
	return nil
}
