// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (scanner, DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DateLayout is the canonical calendar date format used across the API.
const DateLayout = "2006-01-02"

// # Configuration Schema

// Config holds all runtime configuration for the e-paper API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Edition discovery
	EditionsRoot    string   `env:"EDITIONS_ROOT"    envDefault:"./public/editions"`
	EditionPrefix   string   `env:"EDITION_PREFIX"   envDefault:"Edition"`
	ImageExtensions []string `env:"IMAGE_EXTENSIONS" envDefault:"jpg,jpeg,png,webp" envSeparator:","`
	Publication     string   `env:"PUBLICATION"      envDefault:"seva-goa"`

	// Epoch/offset mapping: date = EpochDate + (editionNumber - EditionOffset) * 7 days.
	EpochDate     string `env:"EPOCH_DATE"     envDefault:"2024-06-22"`
	EditionOffset int    `env:"EDITION_OFFSET" envDefault:"1"`

	// Refresh policy. An empty schedule disables periodic rescans.
	RescanSchedule string `env:"RESCAN_SCHEDULE" envDefault:"@every 10m"`
	WatchRoot      bool   `env:"WATCH_ROOT"      envDefault:"true"`

	// Edition archive (PostgreSQL). Optional: the catalog works from disk alone.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Viewer preferences (Redis). Optional: falls back to an in-process store.
	RedisURL       string        `env:"REDIS_URL"`
	PreferencesTTL time.Duration `env:"PREFERENCES_TTL" envDefault:"720h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make edition discovery inconsistent.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Epoch(); err != nil {
		errs = append(errs, fmt.Errorf("config: EPOCH_DATE %q must be YYYY-MM-DD: %w", c.EpochDate, err))
	}

	if strings.TrimSpace(c.EditionPrefix) == "" {
		errs = append(errs, errors.New("config: EDITION_PREFIX must not be empty"))
	}

	if len(c.Extensions()) == 0 {
		errs = append(errs, errors.New("config: IMAGE_EXTENSIONS must list at least one extension"))
	}

	if strings.TrimSpace(c.EditionsRoot) == "" {
		errs = append(errs, errors.New("config: EDITIONS_ROOT must not be empty"))
	}

	return errors.Join(errs...)
}

// Epoch parses [Config.EpochDate] as a UTC calendar date.
func (c *Config) Epoch() (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(c.EpochDate), time.UTC)
}

// Extensions returns the normalized allow-list: lowercase, no leading dot, no blanks.
func (c *Config) Extensions() []string {
	out := make([]string, 0, len(c.ImageExtensions))
	for _, ext := range c.ImageExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsArchiveEnabled reports whether edition snapshots are mirrored to PostgreSQL.
func (c *Config) IsArchiveEnabled() bool {
	return c.DatabaseURL != ""
}
