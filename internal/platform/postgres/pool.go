// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the connection pool behind the edition archive.
//
// The archive is written once per catalog refresh and read by reporting
// tools. The request path never waits on it, so the pool is small and every
// session gets the scan budget as its statement timeout.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/epaper/internal/platform/constants"
)

const (
	maxConns        = 4
	minConns        = 1
	maxConnLifetime = time.Hour
	maxConnIdleTime = 10 * time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// NewPool parses dsn, applies archive pool settings and verifies connectivity.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}
	configure(poolConfig)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

// configure sets the archive workload limits and session parameters.
func configure(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName
	params["statement_timeout"] = strconv.FormatInt(constants.ScanTimeout.Milliseconds(), 10)
}

// Ping reports whether the pool can reach the server within a short deadline.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
