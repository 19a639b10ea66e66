// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries per-request values (correlation id, request logger)
// through [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
)

// contextKey is unexported so no other package can collide with these keys.
type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation value, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger built by the logging middleware.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

/*
Logger returns the request-scoped logger when ctx carries one.

Services pass their own constructor logger as fallback so that events logged
on behalf of a request pick up its request id, method and path, while the same
code called from a background refresh still logs through the service logger.
A nil fallback means [slog.Default].
*/
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
