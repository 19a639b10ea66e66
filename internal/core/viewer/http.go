// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/epaper/internal/platform/request"
	"github.com/taibuivan/epaper/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for reading sessions and preferences.
type Handler struct {
	service *Service
}

// NewHandler constructs a new viewer [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches viewer endpoints to the API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/editions/{ref}/viewer", handler.Bootstrap)
	api.Get("/readers/{readerID}/preferences", handler.GetPreferences)
	api.Put("/readers/{readerID}/preferences", handler.UpdatePreferences)
}

/*
GET /api/v1/editions/{ref}/viewer.

Description: Returns the opening viewer state for an edition.

Request:
  - ref: string (YYYY-MM-DD date or edition id)
  - reader: string (optional reader id whose preferences apply)

Response:
  - 200: Bootstrap: Initial state, zoom bounds and preload list
  - 400: ValidationError: Malformed ref or reader id
  - 404: NotFound: No such edition
*/
func (handler *Handler) Bootstrap(writer http.ResponseWriter, request *http.Request) {
	bootstrap, err := handler.service.Bootstrap(request.Context(),
		requestutil.Param(request, "ref"),
		request.URL.Query().Get("reader"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, bootstrap)
}

/*
GET /api/v1/readers/{readerID}/preferences.

Response:
  - 200: Preferences: Saved preferences or the defaults
  - 400: ValidationError: Malformed reader id
*/
func (handler *Handler) GetPreferences(writer http.ResponseWriter, request *http.Request) {
	preferences, err := handler.service.GetPreferences(request.Context(), requestutil.Param(request, "readerID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, preferences)
}

/*
PUT /api/v1/readers/{readerID}/preferences.

Description: Merges the supplied fields into the saved preferences.

Request:
  - body: PreferencesPatch

Response:
  - 200: Preferences: The saved result
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 503: StorageUnavailable: Preferences store unreachable
*/
func (handler *Handler) UpdatePreferences(writer http.ResponseWriter, request *http.Request) {
	var patch PreferencesPatch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.service.UpdatePreferences(request.Context(), requestutil.Param(request, "readerID"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, preferences)
}
