// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the reader preference store.

Preferences are small JSON documents read once per viewer bootstrap and
written when a reader changes a setting, so the pool stays small. Pool and
timeout settings given as URL query parameters (for example
redis://host:6379/2?pool_size=20&read_timeout=1s) take precedence over the
defaults below.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults applied when the URL leaves a setting unset.
const (
	defaultPoolSize     = 8
	defaultMinIdleConns = 1
	defaultDialTimeout  = 3 * time.Second
	defaultIOTimeout    = 500 * time.Millisecond
	pingTimeout         = 2 * time.Second
)

// NewClient parses redisURL, verifies connectivity and returns the client.
func NewClient(ctx stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	applyDefaults(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

func applyDefaults(options *redis.Options) {
	if options.PoolSize == 0 {
		options.PoolSize = defaultPoolSize
	}
	if options.MinIdleConns == 0 {
		options.MinIdleConns = defaultMinIdleConns
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = defaultDialTimeout
	}
	if options.ReadTimeout == 0 {
		options.ReadTimeout = defaultIOTimeout
	}
	if options.WriteTimeout == 0 {
		options.WriteTimeout = defaultIOTimeout
	}
}

// Ping reports whether the server answers within a short deadline.
func Ping(ctx stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
