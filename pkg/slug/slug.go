// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns folder names into stable, URL-safe edition identifiers.
//
// "Edition 01" becomes "edition-01", "Édición Especial 3" becomes
// "edicion-especial-3". Identifiers derived this way never need escaping in
// a URL path, which is why image references are built from them instead of from
// raw file names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated and accepted slugs.
const MaxLength = 128

var (
	// validSlug matches lowercase letters and digits in hyphen-separated groups.
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Accents are stripped after NFD decomposition, everything that is not an
// ASCII letter or digit becomes a hyphen, and runs of hyphens collapse.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, result)

	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}

	return result
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return len(s) <= MaxLength && validSlug.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
