// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/epaper/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The driver error (nil passes through).
//   - resource: Name used in NotFound messages, e.g. "Edition".
//   - action: Short verb phrase kept in the cause for logs, e.g. "reseed editions".
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	cause := fmt.Errorf("postgres: %s: %w", action, err)

	// Connection-level failures mean the archive is down, not that the query is wrong.
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperr.StorageUnavailable(cause)
	}

	return apperr.Internal(cause)
}
