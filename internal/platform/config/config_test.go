// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/platform/config"
)

/*
TestLoad_Defaults verifies the default discovery settings.
*/
func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "Edition", cfg.EditionPrefix)
	assert.Equal(t, []string{"jpg", "jpeg", "png", "webp"}, cfg.Extensions())
	assert.Equal(t, 1, cfg.EditionOffset)
	assert.False(t, cfg.IsArchiveEnabled())

	epoch, err := cfg.Epoch()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 22, 0, 0, 0, 0, time.UTC), epoch)
}

/*
TestLoad_FromEnvironment checks that overrides are honoured.
*/
func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("EPOCH_DATE", "2024-06-17")
	t.Setenv("EDITION_OFFSET", "0")
	t.Setenv("IMAGE_EXTENSIONS", ".JPG, png,,")
	t.Setenv("DATABASE_URL", "postgres://localhost/epaper")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.EditionOffset)
	assert.Equal(t, []string{"jpg", "png"}, cfg.Extensions())
	assert.True(t, cfg.IsArchiveEnabled())
}

/*
TestValidate_Failures covers settings rejected at startup.
*/
func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad_epoch", func(c *config.Config) { c.EpochDate = "22/06/2024" }},
		{"empty_prefix", func(c *config.Config) { c.EditionPrefix = "  " }},
		{"no_extensions", func(c *config.Config) { c.ImageExtensions = []string{" ", "."} }},
		{"empty_root", func(c *config.Config) { c.EditionsRoot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				EditionsRoot:    "./public/editions",
				EditionPrefix:   "Edition",
				ImageExtensions: []string{"jpg"},
				EpochDate:       "2024-06-22",
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
