// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/taibuivan/epaper/internal/platform/config"
	"github.com/taibuivan/epaper/internal/platform/constants"
	"github.com/taibuivan/epaper/pkg/slug"
)

// # Calendar

// daysPerEdition is the spacing between consecutive edition numbers.
const daysPerEdition = 7

// maxEditionWeeks bounds the week offset before date arithmetic; anything
// larger lands outside years 1 to 9999 regardless of the epoch.
const maxEditionWeeks = 600_000

// ErrDateOutOfRange is returned when an edition number maps outside years 1-9999.
var ErrDateOutOfRange = errors.New("edition: date out of range")

// Calendar maps edition numbers to publication dates:
//
//	date = Epoch + (number - Offset) * 7 days
type Calendar struct {
	Epoch  time.Time
	Offset int
}

// NewCalendar returns a [Calendar] anchored at the UTC midnight of epoch.
func NewCalendar(epoch time.Time, offset int) Calendar {
	year, month, day := epoch.Date()
	return Calendar{Epoch: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Offset: offset}
}

// DateFor returns the publication date of edition number.
func (calendar Calendar) DateFor(number int) (time.Time, error) {
	weeks := int64(number) - int64(calendar.Offset)
	if weeks > maxEditionWeeks || weeks < -maxEditionWeeks {
		return time.Time{}, fmt.Errorf("%w: edition %d", ErrDateOutOfRange, number)
	}

	date := calendar.Epoch.AddDate(0, 0, int(weeks)*daysPerEdition)
	if date.Year() < 1 || date.Year() > 9999 {
		return time.Time{}, fmt.Errorf("%w: edition %d", ErrDateOutOfRange, number)
	}

	return date, nil
}

// # Page Ordering

var digitsPattern = regexp.MustCompile(`\d+`)

// leadingNumber returns the first integer embedded in name, 0 when there is
// none, and [math.MaxInt] when the digits overflow.
func leadingNumber(name string) int {
	digits := digitsPattern.FindString(name)
	if digits == "" {
		return 0
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// SortPageFiles returns files in page order: ascending by the first embedded
// integer, then lexically by name. The input is not modified.
func SortPageFiles(files []string) []string {
	sorted := slices.Clone(files)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(leadingNumber(a), leadingNumber(b)),
			cmp.Compare(a, b),
		)
	})
	return sorted
}

// # Normalizer

// DimensionProbe reports the pixel size of the image at path, or zeros.
type DimensionProbe func(path string) (width, height int)

// Normalizer turns scanned folders into editions.
type Normalizer struct {
	root        string
	pattern     *regexp.Regexp
	calendar    Calendar
	publication string
	probe       DimensionProbe
	now         func() time.Time
}

// NormalizerOption customizes a [Normalizer].
type NormalizerOption func(*Normalizer)

// WithDimensionProbe replaces the image header probe.
func WithDimensionProbe(probe DimensionProbe) NormalizerOption {
	return func(normalizer *Normalizer) { normalizer.probe = probe }
}

// WithClock replaces the time source stamped on CreatedAt.
func WithClock(now func() time.Time) NormalizerOption {
	return func(normalizer *Normalizer) { normalizer.now = now }
}

// NewNormalizer constructs a [Normalizer] for folders under root.
func NewNormalizer(root, prefix, publication string, calendar Calendar, opts ...NormalizerOption) *Normalizer {
	normalizer := &Normalizer{
		root:        root,
		pattern:     folderPattern(prefix),
		calendar:    calendar,
		publication: publication,
		probe:       ProbeDimensions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(normalizer)
	}
	return normalizer
}

// ParseEditionNumber extracts the edition number from a folder name.
// It reports false when the name does not match or the number is not positive.
func (normalizer *Normalizer) ParseEditionNumber(folder string) (int, bool) {
	match := normalizer.pattern.FindStringSubmatch(folder)
	if match == nil {
		return 0, false
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

/*
Normalize builds editions from scanned entries.

Description: Folders are visited in lexical order. A folder is skipped, with a
[Diagnostic], when its number cannot be parsed, its date is out of range, or
an earlier folder already claimed the same edition number or id.

Returns:
  - []*Edition: Editions sorted newest first
  - []Diagnostic: One entry per skipped folder
*/
func (normalizer *Normalizer) Normalize(entries []Entry) ([]*Edition, []Diagnostic) {
	ordered := slices.Clone(entries)
	slices.SortFunc(ordered, func(a, b Entry) int { return cmp.Compare(a.Folder, b.Folder) })

	createdAt := normalizer.now().UTC()
	byNumber := make(map[int]string, len(ordered))
	byID := make(map[string]struct{}, len(ordered))

	var editions []*Edition
	var diagnostics []Diagnostic

	skip := func(folder, reason string) {
		diagnostics = append(diagnostics, Diagnostic{Folder: folder, Reason: reason})
	}

	for _, entry := range ordered {
		number, ok := normalizer.ParseEditionNumber(entry.Folder)
		if !ok {
			skip(entry.Folder, "no positive edition number")
			continue
		}

		if winner, taken := byNumber[number]; taken {
			skip(entry.Folder, fmt.Sprintf("edition %d already provided by %q", number, winner))
			continue
		}

		date, err := normalizer.calendar.DateFor(number)
		if err != nil {
			skip(entry.Folder, err.Error())
			continue
		}

		id := slug.From(entry.Folder)
		if _, taken := byID[id]; taken || id == "" {
			skip(entry.Folder, fmt.Sprintf("id %q is not unique", id))
			continue
		}

		byNumber[number] = entry.Folder
		byID[id] = struct{}{}
		editions = append(editions, normalizer.build(entry, id, number, date, createdAt))
	}

	slices.SortFunc(editions, func(a, b *Edition) int {
		return cmp.Or(cmp.Compare(b.Date, a.Date), cmp.Compare(b.EditionNumber, a.EditionNumber))
	})

	return editions, diagnostics
}

// build assembles one edition with its pages and default section.
func (normalizer *Normalizer) build(entry Entry, id string, number int, date, createdAt time.Time) *Edition {
	files := SortPageFiles(entry.Files)
	pages := make([]*Page, 0, len(files))

	for i, file := range files {
		pageNumber := i + 1
		width, height := normalizer.probe(filepath.Join(normalizer.root, entry.Folder, file))
		ref := ImageRef(id, pageNumber)

		pages = append(pages, &Page{
			ID:           fmt.Sprintf("%s-page-%d", id, pageNumber),
			PageNumber:   pageNumber,
			ImageURL:     ref,
			ThumbnailURL: ref,
			Width:        width,
			Height:       height,
			Articles:     []Article{},
			FileName:     file,
		})
	}

	var cover string
	if len(pages) > 0 {
		cover = pages[0].ImageURL
	}

	return &Edition{
		ID:            id,
		Title:         fmt.Sprintf("Edition %d", number),
		EditionNumber: number,
		Date:          date.Format(config.DateLayout),
		Publication:   normalizer.publication,
		CoverImage:    cover,
		PageCount:     len(pages),
		Pages:         pages,
		Sections: []*Section{{
			ID:          id + "-" + constants.DefaultSectionName,
			Name:        constants.DefaultSectionName,
			DisplayName: constants.DefaultSectionDisplayName,
			Order:       1,
			CoverImage:  cover,
			Pages:       pages,
		}},
		CreatedAt: createdAt,
		Folder:    entry.Folder,
	}
}
