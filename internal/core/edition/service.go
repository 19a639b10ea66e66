// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/taibuivan/epaper/internal/platform/apperr"
	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/ctxutil"
	"github.com/taibuivan/epaper/internal/platform/validate"
	"github.com/taibuivan/epaper/pkg/pagination"
)

const (
	FieldRef         = "ref"
	FieldDate        = "date"
	FieldID          = "id"
	FieldSection     = "section"
	FieldPageNumber  = "page_number"
	FieldPublication = "publication"
)

// dateShape matches references that are meant as dates, valid or not.
var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// # Service Layer

// Service answers edition queries for the HTTP layer.
type Service struct {
	catalog *Catalog
	images  *ImageResolver
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(catalog *Catalog, images *ImageResolver, logger *slog.Logger) *Service {
	return &Service{catalog: catalog, images: images, logger: logger}
}

// # Edition Queries

/*
ListEditions returns a page of edition summaries, newest first.

Parameters:
  - ctx: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Summary: Editions in the window
  - int: Total matching editions
  - error: Validation errors for a malformed publication
*/
func (service *Service) ListEditions(ctx context.Context, filter Filter, params pagination.Params) ([]Summary, int, error) {
	if filter.Publication != "" {
		validator := &validate.Validator{}
		validator.Slug(FieldPublication, filter.Publication)
		if err := validator.Err(); err != nil {
			return nil, 0, err
		}
	}

	summaries, total := service.catalog.List(filter, params)
	return summaries, total, nil
}

// LatestEdition returns the newest edition, or NotFound when none exist.
func (service *Service) LatestEdition(ctx context.Context) (*Edition, error) {
	return service.catalog.Latest()
}

/*
GetEdition resolves ref as a date or an id.

Description: A reference shaped like YYYY-MM-DD must be a real calendar date;
anything else must be a valid edition id. Malformed references are rejected
before lookup.

Returns:
  - *Edition: The full edition
  - error: ValidationError or NotFound
*/
func (service *Service) GetEdition(ctx context.Context, ref string) (*Edition, error) {
	validator := &validate.Validator{}

	if dateShape.MatchString(ref) {
		validator.Date(FieldDate, ref, config.DateLayout)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		return service.catalog.GetByDate(ref)
	}

	validator.Slug(FieldRef, ref)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return service.catalog.GetByID(ref)
}

// ListSections returns the sections of the referenced edition in order.
func (service *Service) ListSections(ctx context.Context, ref string) ([]*Section, error) {
	edition, err := service.GetEdition(ctx, ref)
	if err != nil {
		return nil, err
	}
	return edition.Sections, nil
}

// GetSection returns one named section of the referenced edition.
func (service *Service) GetSection(ctx context.Context, ref, name string) (*Section, error) {
	validator := &validate.Validator{}
	validator.Slug(FieldSection, name)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	edition, err := service.GetEdition(ctx, ref)
	if err != nil {
		return nil, err
	}

	section := edition.Section(name)
	if section == nil {
		return nil, apperr.NotFound("Section")
	}
	return section, nil
}

// # Images

/*
PageImage resolves the image behind an opaque page reference.

Returns:
  - Image: Confined path and MIME type
  - error: ValidationError, NotFound, SecurityViolation or StorageUnavailable
*/
func (service *Service) PageImage(ctx context.Context, editionID string, pageNumber int) (Image, error) {
	validator := &validate.Validator{}
	validator.Slug(FieldID, editionID)
	validator.Custom(FieldPageNumber, pageNumber < 1, "Must be a positive page number")
	if err := validator.Err(); err != nil {
		return Image{}, err
	}

	edition, err := service.catalog.GetByID(editionID)
	if err != nil {
		return Image{}, err
	}

	page := edition.Page(pageNumber)
	if page == nil {
		return Image{}, apperr.NotFound("Page")
	}

	return service.images.Resolve(edition.Folder, page.FileName)
}

// LegacyImage resolves a "/editions/<folder>/<file>" path.
func (service *Service) LegacyImage(ctx context.Context, path string) (Image, error) {
	return service.images.ResolveLegacy(path)
}

// # Maintenance

// Rescan refreshes the catalog on demand.
func (service *Service) Rescan(ctx context.Context) (RefreshStats, error) {
	stats, err := service.catalog.Refresh(ctx, TriggerManual)
	if err != nil {
		return RefreshStats{}, apperr.StorageUnavailable(err)
	}

	ctxutil.Logger(ctx, service.logger).InfoContext(ctx, "edition_rescan_requested",
		slog.Int("editions", stats.Editions),
		slog.Int("skipped", len(stats.Diagnostics)),
	)
	return stats, nil
}
