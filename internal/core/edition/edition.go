// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package edition discovers scanned newspaper editions on disk and serves them.

An edition is a folder named "<prefix> N" (for example "Edition 01") holding one
image per printed page. The package turns such folders into immutable
[Edition] values, keeps them in an atomically swapped [Snapshot], and exposes
them over HTTP.

Pipeline:

  - Scanner: lists qualifying folders and image files under the editions root.
  - Normalizer: parses edition numbers, maps them to calendar dates, numbers pages.
  - Catalog: builds a snapshot per scan and answers lookups by id and date.
  - Triggers: a cron schedule and a filesystem watcher call [Catalog.Refresh].

Discovery problems never fail a request. A missing root yields an empty catalog
and a logged warning; malformed folders are skipped with a [Diagnostic].
*/
package edition

import "time"

// # Domain Entities

// Edition is one dated issue of a publication.
//
// Editions are immutable once published in a [Snapshot]; a rescan builds new
// values rather than mutating these.
type Edition struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	EditionNumber int        `json:"edition_number"`
	Date          string     `json:"date"` // YYYY-MM-DD
	Publication   string     `json:"publication"`
	CoverImage    string     `json:"cover_image"`
	PageCount     int        `json:"page_count"`
	Pages         []*Page    `json:"pages"`
	Sections      []*Section `json:"sections"`
	CreatedAt     time.Time  `json:"created_at"`

	// Folder is the directory name under the editions root.
	Folder string `json:"-"`
}

// Page is a single scanned page of an [Edition].
type Page struct {
	ID           string    `json:"id"` // <edition-id>-page-<n>
	PageNumber   int       `json:"page_number"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Width        int       `json:"width"`  // 0 when the header could not be read
	Height       int       `json:"height"` // 0 when the header could not be read
	Articles     []Article `json:"articles"`

	// FileName is the image file inside the edition folder. Never sent to clients.
	FileName string `json:"-"`
}

// Article is a region of a page. No extraction is performed, so pages always
// carry an empty list.
type Article struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Section groups pages of an edition under a named heading.
type Section struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Order       int     `json:"order"`
	CoverImage  string  `json:"cover_image"`
	Pages       []*Page `json:"pages"`
}

// Summary is the listing view of an [Edition], without pages or sections.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	EditionNumber int       `json:"edition_number"`
	Date          string    `json:"date"`
	Publication   string    `json:"publication"`
	CoverImage    string    `json:"cover_image"`
	PageCount     int       `json:"page_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary returns the listing view of the edition.
func (e *Edition) Summary() Summary {
	return Summary{
		ID:            e.ID,
		Title:         e.Title,
		EditionNumber: e.EditionNumber,
		Date:          e.Date,
		Publication:   e.Publication,
		CoverImage:    e.CoverImage,
		PageCount:     e.PageCount,
		CreatedAt:     e.CreatedAt,
	}
}

// Page returns the page with the given 1-based number, or nil.
func (e *Edition) Page(number int) *Page {
	if number < 1 || number > len(e.Pages) {
		return nil
	}
	return e.Pages[number-1]
}

// Section returns the section with the given machine name, or nil.
func (e *Edition) Section(name string) *Section {
	for _, section := range e.Sections {
		if section.Name == name {
			return section
		}
	}
	return nil
}

// # Query Filters

// Filter narrows an edition listing.
type Filter struct {
	// Publication keeps only editions of the named publication when non-empty.
	Publication string
}

// # Diagnostics

// Diagnostic records why a folder was left out of the catalog.
type Diagnostic struct {
	Folder string `json:"folder"`
	Reason string `json:"reason"`
}
