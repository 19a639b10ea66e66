// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/api"
	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/core/viewer"
	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/metrics"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	root := t.TempDir()
	folder := filepath.Join(root, "Edition 1")
	require.NoError(t, os.Mkdir(folder, 0o755))
	file, err := os.Create(filepath.Join(folder, "1.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, image.NewRGBA(image.Rect(0, 0, 4, 6))))
	require.NoError(t, file.Close())

	cfg := &config.Config{
		ServerPort:      "0",
		Environment:     "development",
		EditionsRoot:    root,
		EditionPrefix:   "Edition",
		ImageExtensions: []string{"png"},
		Publication:     "seva-goa",
		EpochDate:       "2024-06-22",
		EditionOffset:   1,
	}
	epoch, err := cfg.Epoch()
	require.NoError(t, err)

	logger := discardLogger()
	scanner := edition.NewScanner(root, cfg.EditionPrefix, cfg.Extensions(), logger)
	normalizer := edition.NewNormalizer(root, cfg.EditionPrefix, cfg.Publication, edition.NewCalendar(epoch, cfg.EditionOffset))
	catalog := edition.NewCatalog(scanner, normalizer, logger)
	_, err = catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)

	editionService := edition.NewService(catalog, edition.NewImageResolver(root, scanner.Allowed), logger)
	viewerService := viewer.NewService(viewer.NewMemoryStore(time.Hour), editionService, logger)
	registry := metrics.New()

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{CheckEditions: api.EditionsRootCheck(root)}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, registry, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Edition:   edition.NewHandler(editionService, registry),
		Viewer:    viewer.NewHandler(viewerService),
	})
	return server.Handler()
}

func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK},
		{"readiness", http.MethodGet, "/ready", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"editions", http.MethodGet, "/api/v1/editions", http.StatusOK},
		{"by_date", http.MethodGet, "/api/v1/editions/2024-06-22", http.StatusOK},
		{"viewer", http.MethodGet, "/api/v1/editions/2024-06-22/viewer", http.StatusOK},
		{"page_image", http.MethodGet, "/api/v1/images/edition-1/1", http.StatusOK},
		{"preferences", http.MethodGet, "/api/v1/readers/reader-1/preferences", http.StatusOK},
		{"unknown", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

func TestServer_RecordsRequestMetrics(t *testing.T) {
	handler := newTestServer(t)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/editions/latest", nil))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `epaper_http_requests_total{method="GET",route="/api/v1/editions/latest",status="200"} 1`)
	assert.Contains(t, recorder.Body.String(), "epaper_catalog_editions")
}
