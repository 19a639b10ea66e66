// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/metrics"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	root := newFixtureRoot(t)
	catalog, scanner := newCatalog(t, root)

	_, err := catalog.Refresh(context.Background(), edition.TriggerStartup)
	require.NoError(t, err)

	service := edition.NewService(catalog, edition.NewImageResolver(root, scanner.Allowed), discardLogger())
	handler := edition.NewHandler(service, metrics.New())

	router := chi.NewRouter()
	router.Route("/api/v1", handler.RegisterRoutes)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

func decodeData(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func TestHandler_ListEditions(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/api/v1/editions?limit=1")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []edition.Summary `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "edition-02", body.Data[0].ID)
	assert.Equal(t, 2, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)

	recorder = doRequest(t, router, http.MethodGet, "/api/v1/editions?publication=Not_A_Slug")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_GetEdition(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		id     string
	}{
		{"latest", "/api/v1/editions/latest", http.StatusOK, "edition-02"},
		{"by_date", "/api/v1/editions/2024-06-22", http.StatusOK, "edition-01"},
		{"by_id", "/api/v1/editions/edition-02", http.StatusOK, "edition-02"},
		{"impossible_date", "/api/v1/editions/2024-02-30", http.StatusBadRequest, ""},
		{"malformed_id", "/api/v1/editions/Edition_01", http.StatusBadRequest, ""},
		{"unknown_date", "/api/v1/editions/2031-01-04", http.StatusNotFound, ""},
		{"unknown_id", "/api/v1/editions/edition-77", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, router, http.MethodGet, tt.target)
			require.Equal(t, tt.status, recorder.Code, recorder.Body.String())

			if tt.id != "" {
				var got edition.Edition
				decodeData(t, recorder, &got)
				assert.Equal(t, tt.id, got.ID)
				assert.Equal(t, got.PageCount, len(got.Pages))
				assert.NotContains(t, recorder.Body.String(), "file_name")
			}
		})
	}
}

func TestHandler_Sections(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/api/v1/editions/edition-02/sections")
	require.Equal(t, http.StatusOK, recorder.Code)

	var sections []edition.Section
	decodeData(t, recorder, &sections)
	require.Len(t, sections, 1)
	assert.Equal(t, "fullpaper", sections[0].Name)

	recorder = doRequest(t, router, http.MethodGet, "/api/v1/editions/edition-02/sections/fullpaper")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(t, router, http.MethodGet, "/api/v1/editions/edition-02/sections/sports")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_PageImage(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodGet, "/api/v1/images/edition-02/2")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", recorder.Header().Get("Cache-Control"))
	assert.NotZero(t, recorder.Body.Len())

	tests := []struct {
		target string
		status int
	}{
		{"/api/v1/images/edition-02/3", http.StatusNotFound},
		{"/api/v1/images/edition-02/0", http.StatusBadRequest},
		{"/api/v1/images/edition-02/two", http.StatusBadRequest},
		{"/api/v1/images/edition-09/1", http.StatusNotFound},
		{"/api/v1/images?path=/editions/Edition%2001/1.png", http.StatusOK},
		{"/api/v1/images?path=/editions/../secret.jpg", http.StatusForbidden},
		{"/api/v1/images", http.StatusBadRequest},
	}

	for _, tt := range tests {
		recorder := doRequest(t, router, http.MethodGet, tt.target)
		assert.Equal(t, tt.status, recorder.Code, tt.target)
	}
}

func TestHandler_Rescan(t *testing.T) {
	router := newTestRouter(t)

	recorder := doRequest(t, router, http.MethodPost, "/api/v1/editions/rescan")
	require.Equal(t, http.StatusOK, recorder.Code)

	var stats edition.RefreshStats
	decodeData(t, recorder, &stats)
	assert.Equal(t, edition.TriggerManual, stats.Trigger)
	assert.Equal(t, 2, stats.Editions)
	assert.Equal(t, 4, stats.Pages)
}
