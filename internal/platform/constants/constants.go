// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, viewer bounds, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Discovery: Scan and watch timing for the edition catalog.
  - Viewer: Zoom bounds and preload policy for reading sessions.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "epaper-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Page scans can be several megabytes, so this is longer than a JSON-only API needs.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	// A single page turn fetches the next spread plus thumbnails.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Discovery

const (
	// WatchDebounce collapses bursts of filesystem events (a folder copy
	// produces one event per file) into a single rescan.
	WatchDebounce = 2 * time.Second

	// ScanTimeout bounds a single refresh of the catalog.
	ScanTimeout = 2 * time.Minute

	// ImageCacheMaxAge is the Cache-Control max-age for served page images.
	ImageCacheMaxAge = 3600

	// DefaultSectionName is the machine key of the section holding every page.
	DefaultSectionName = "fullpaper"

	// DefaultSectionDisplayName is the label of [DefaultSectionName].
	DefaultSectionDisplayName = "Full Edition"
)

// # Viewer

const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
	DefaultZoom = 1.0

	// CoverSlots is the number of synthetic pages (front and back cover)
	// the page-flip surface adds around the edition's pages.
	CoverSlots = 2

	// PreloadCount is how many leading pages are fetched before a session is ready.
	PreloadCount = 5

	// PreloadTimeout is the point after which a session becomes ready even
	// if preloading has not finished.
	PreloadTimeout = 3 * time.Second

	// DefaultFlipDuration is the page-turn animation length in milliseconds.
	DefaultFlipDuration = 1200
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderCacheControl  = "Cache-Control"
	HeaderContentType   = "Content-Type"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixPreferences = "viewer:preferences:"
)
