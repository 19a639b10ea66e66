// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/internal/platform/metrics"
	requestutil "github.com/taibuivan/epaper/internal/platform/request"
	"github.com/taibuivan/epaper/internal/platform/respond"
	"github.com/taibuivan/epaper/pkg/pagination"
)

// imageCacheControl is sent with every served page image.
var imageCacheControl = "public, max-age=" + strconv.Itoa(constants.ImageCacheMaxAge)

// # Handler Implementation

// Handler implements the HTTP layer for editions and page images.
type Handler struct {
	service *Service
	metrics *metrics.Registry
}

// NewHandler constructs a new edition [Handler]. registry may be nil.
func NewHandler(service *Service, registry *metrics.Registry) *Handler {
	return &Handler{service: service, metrics: registry}
}

// RegisterRoutes attaches edition and image endpoints to the API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/editions", handler.ListEditions)
	api.Get("/editions/latest", handler.LatestEdition)
	api.Post("/editions/rescan", handler.Rescan)
	api.Get("/editions/{ref}", handler.GetEdition)
	api.Get("/editions/{ref}/sections", handler.ListSections)
	api.Get("/editions/{ref}/sections/{section}", handler.GetSection)

	api.Get("/images", handler.LegacyImage)
	api.Get("/images/{editionID}/{pageNumber}", handler.PageImage)
}

// # Edition Retrieval

/*
GET /api/v1/editions.

Description: Returns edition summaries newest first.

Request:
  - limit: int
  - offset: int (wins over page)
  - page: int
  - publication: string

Response:
  - 200: []Summary: Paginated list with meta
  - 400: ValidationError: Malformed publication
*/
func (handler *Handler) ListEditions(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{Publication: request.URL.Query().Get(FieldPublication)}

	summaries, total, err := handler.service.ListEditions(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, summaries, pagination.NewMeta(params, total))
}

/*
GET /api/v1/editions/latest.

Response:
  - 200: Edition: The newest edition
  - 404: NotFound: No editions available
*/
func (handler *Handler) LatestEdition(writer http.ResponseWriter, request *http.Request) {
	edition, err := handler.service.LatestEdition(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, edition)
}

/*
GET /api/v1/editions/{ref}.

Request:
  - ref: string (YYYY-MM-DD date or edition id)

Response:
  - 200: Edition: Full edition with pages and sections
  - 400: ValidationError: Malformed date or id
  - 404: NotFound: No such edition
*/
func (handler *Handler) GetEdition(writer http.ResponseWriter, request *http.Request) {
	edition, err := handler.service.GetEdition(request.Context(), requestutil.Param(request, FieldRef))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, edition)
}

// ListSections handles GET /api/v1/editions/{ref}/sections.
func (handler *Handler) ListSections(writer http.ResponseWriter, request *http.Request) {
	sections, err := handler.service.ListSections(request.Context(), requestutil.Param(request, FieldRef))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sections)
}

// GetSection handles GET /api/v1/editions/{ref}/sections/{section}.
func (handler *Handler) GetSection(writer http.ResponseWriter, request *http.Request) {
	section, err := handler.service.GetSection(request.Context(),
		requestutil.Param(request, FieldRef),
		requestutil.Param(request, FieldSection),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, section)
}

/*
POST /api/v1/editions/rescan.

Description: Rescans the editions root and swaps in the new catalog. Concurrent
calls share one scan.

Response:
  - 200: RefreshStats: Counts and skipped folders
  - 503: StorageUnavailable: The scan was interrupted
*/
func (handler *Handler) Rescan(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Rescan(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// # Image Delivery

/*
GET /api/v1/images/{editionID}/{pageNumber}.

Response:
  - 200: image bytes with Content-Type and Cache-Control
  - 400: ValidationError: Malformed id or page number
  - 403: SecurityViolation: Path escapes the editions root
  - 404: NotFound: Unknown edition, page or file
*/
func (handler *Handler) PageImage(writer http.ResponseWriter, request *http.Request) {
	pageNumber, err := requestutil.IntParam(request, "pageNumber")
	if err != nil {
		handler.imageFailed(writer, request, err)
		return
	}

	image, err := handler.service.PageImage(request.Context(), requestutil.Param(request, "editionID"), pageNumber)
	if err != nil {
		handler.imageFailed(writer, request, err)
		return
	}

	handler.serveImage(writer, request, image)
}

/*
GET /api/v1/images?path=/editions/<folder>/<file>.

Response:
  - 200: image bytes
  - 400: ValidationError: Missing path
  - 403: SecurityViolation: Path escapes the editions root
  - 404: NotFound: No such file
*/
func (handler *Handler) LegacyImage(writer http.ResponseWriter, request *http.Request) {
	image, err := handler.service.LegacyImage(request.Context(), request.URL.Query().Get("path"))
	if err != nil {
		handler.imageFailed(writer, request, err)
		return
	}

	handler.serveImage(writer, request, image)
}

func (handler *Handler) serveImage(writer http.ResponseWriter, request *http.Request, image Image) {
	file, err := os.Open(image.Path)
	if err != nil {
		handler.imageFailed(writer, request, apperr.StorageUnavailable(err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		handler.imageFailed(writer, request, apperr.StorageUnavailable(err))
		return
	}

	writer.Header().Set(constants.HeaderContentType, image.ContentType)
	writer.Header().Set(constants.HeaderCacheControl, imageCacheControl)
	http.ServeContent(writer, request, filepath.Base(image.Path), info.ModTime(), file)

	handler.observeImage("served")
}

func (handler *Handler) imageFailed(writer http.ResponseWriter, request *http.Request, err error) {
	outcome := "error"
	if appError := apperr.As(err); appError != nil {
		switch appError.Code {
		case apperr.CodeNotFound:
			outcome = "not_found"
		case apperr.CodeSecurityViolation:
			outcome = "rejected"
		case apperr.CodeValidation:
			outcome = "invalid"
		}
	}
	handler.observeImage(outcome)
	respond.Error(writer, request, err)
}

func (handler *Handler) observeImage(outcome string) {
	if handler.metrics != nil {
		handler.metrics.ImagesServed.WithLabelValues(outcome).Inc()
	}
}
