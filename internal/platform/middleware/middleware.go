// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: request id generation for log correlation.
  - Log: one structured line per request; probes log at debug level.
  - Guard: per-client rate limiting and CORS validation.
  - Safe: panic recovery.
  - Measure: Prometheus request counters and latency histograms.
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/ctxutil"
)

// maxRequestIDLength bounds client-supplied X-Request-ID values.
const maxRequestIDLength = 128

// probePaths are polled by orchestrators and scrapers every few seconds.
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// # Request Tracing

// RequestID attaches a correlation id to every request. A well-formed
// client id is kept; otherwise a UUID v7 is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if !validRequestID(requestID) {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// validRequestID accepts short ids made of visible ASCII characters, so a
// client cannot inject line breaks or huge values into log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// # Activity Logging

// statusRecorder captures the status code and body size written downstream.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (recorder *statusRecorder) WriteHeader(code int) {
	if recorder.wroteHeader {
		return
	}
	recorder.status = code
	recorder.wroteHeader = true
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *statusRecorder) Write(body []byte) (int, error) {
	if !recorder.wroteHeader {
		recorder.WriteHeader(http.StatusOK)
	}
	n, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += int64(n)
	return n, err
}

// Unwrap lets [http.ResponseController] and [http.ServeContent] reach the
// underlying writer.
func (recorder *statusRecorder) Unwrap() http.ResponseWriter {
	return recorder.ResponseWriter
}

// StructuredLogger logs one line per request and injects a request-scoped
// logger into the context for handlers and services.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.RequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			requestLogger.Log(ctx, logLevel(request.URL.Path, recorder.status), "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.Int64("bytes", recorder.bytes),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

func logLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case probePaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientTable holds one token bucket per client IP.
type clientTable struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

func (table *clientTable) allow(ip string, now time.Time) bool {
	table.mu.Lock()
	defer table.mu.Unlock()

	client, found := table.clients[ip]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(table.rps, table.burst)}
		table.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

func (table *clientTable) sweep(now time.Time) {
	table.mu.Lock()
	defer table.mu.Unlock()

	for ip, client := range table.clients {
		if now.Sub(client.lastSeen) > constants.RateLimitClientTTL {
			delete(table.clients, ip)
		}
	}
}

// RateLimit limits requests per client IP with a token bucket.
//
// Each call owns its own client table, so separate routers never share
// buckets. Idle clients are swept until ctx is cancelled.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	table := &clientTable{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				table.sweep(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !table.allow(RealIP(request), time.Now()) {
				writer.Header().Set("Retry-After", "1")
				writeError(writer, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery turns a handler panic into a logged JSON 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				ctxutil.Logger(request.Context(), logger).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(stack)),
				)
				writeError(writer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS allows any origin in development and only listed origins otherwise.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if cfg.IsDevelopment() || originAllowed(origin, cfg.AllowedOrigins()) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Range, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts the client IP, preferring proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// originAllowed reports whether origin is listed exactly or is a subdomain of
// a listed https origin.
func originAllowed(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if origin == candidate {
			return true
		}
		host, isHTTPS := strings.CutPrefix(candidate, "https://")
		if isHTTPS && strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, "."+host) {
			return true
		}
	}
	return false
}

// writeError writes the minimal JSON error body used before routing.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set(constants.HeaderContentType, "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
