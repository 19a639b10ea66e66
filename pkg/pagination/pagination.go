// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Clients may page with either "limit"+"offset" or "limit"+"page". Both forms
// resolve to the same [Params], and the response metadata reports both so the
// archive view can render page links without recomputing offsets.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 30
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage caps the page number so the derived offset cannot overflow.
	MaxPage = 100_000
	// MaxOffset caps explicit offsets at the last reachable page window.
	MaxOffset = (MaxPage - 1) * MaxLimit
)

// Params holds the resolved window of a list request.
type Params struct {
	Limit  int
	Offset int
}

// Page returns the 1-indexed page number the window starts on.
func (p Params) Page() int {
	if p.Limit <= 0 {
		return DefaultPage
	}
	return p.Offset/p.Limit + 1
}

// Window clamps the params to a collection of size total and returns the
// half-open index range [start, end) to slice.
func (p Params) Window(total int) (start, end int) {
	start = min(max(p.Offset, 0), total)
	end = min(start+max(p.Limit, 0), total)
	return start, end
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates TotalPages from the total count and limit.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page(),
		Limit:      params.Limit,
		Offset:     params.Offset,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "limit", "offset" and "page" query parameters.
//
// # Clamping
//
// Invalid, negative, or excessive values fall back to [DefaultLimit] and a zero
// offset. Page and offset are capped at [MaxPage] and [MaxOffset]. An
// explicit offset wins over page.
func FromRequest(r *http.Request) Params {
	limit := parseIntParam(r, "limit", DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if r.URL.Query().Has("offset") {
		offset := parseIntParam(r, "offset", 0)
		return Params{Limit: limit, Offset: min(max(offset, 0), MaxOffset)}
	}

	page := parseIntParam(r, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}
	page = min(page, MaxPage)

	return Params{Limit: limit, Offset: (page - 1) * limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
