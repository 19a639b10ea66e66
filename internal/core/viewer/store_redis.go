// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/constants"
)

// redisStore keeps preferences as JSON strings under a per-reader key.
// Every write refreshes the key's expiry.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis backed [PreferencesStore].
func NewRedisStore(client *redis.Client, ttl time.Duration) PreferencesStore {
	return &redisStore{client: client, ttl: ttl}
}

func preferencesKey(readerID string) string {
	return constants.RedisPrefixPreferences + readerID
}

func (store *redisStore) Get(ctx context.Context, readerID string) (Preferences, bool, error) {
	payload, err := store.client.Get(ctx, preferencesKey(readerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Preferences{}, false, nil
		}
		return Preferences{}, false, apperr.StorageUnavailable(fmt.Errorf("redis: get preferences: %w", err))
	}

	var preferences Preferences
	if err := json.Unmarshal(payload, &preferences); err != nil {
		return Preferences{}, false, apperr.Internal(fmt.Errorf("redis: decode preferences: %w", err))
	}

	return preferences, true, nil
}

func (store *redisStore) Put(ctx context.Context, readerID string, preferences Preferences) error {
	payload, err := json.Marshal(preferences)
	if err != nil {
		return apperr.Internal(fmt.Errorf("redis: encode preferences: %w", err))
	}

	if err := store.client.Set(ctx, preferencesKey(readerID), payload, store.ttl).Err(); err != nil {
		return apperr.StorageUnavailable(fmt.Errorf("redis: put preferences: %w", err))
	}
	return nil
}
