// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/edition"
	"github.com/taibuivan/epaper/internal/platform/apperr"
)

func newResolverFixture(t *testing.T) (*edition.ImageResolver, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "editions")

	writePNG(t, filepath.Join(root, "Edition 01", "1.png"), 2, 2)
	writeFile(t, filepath.Join(root, "Edition 01", "notes.txt"), "text")
	writeFile(t, filepath.Join(base, "secret.jpg"), "outside the root")

	scanner := edition.NewScanner(root, "Edition", []string{"jpg", "png"}, discardLogger())
	return edition.NewImageResolver(root, scanner.Allowed), base
}

func TestImageResolver_Resolve(t *testing.T) {
	resolver, _ := newResolverFixture(t)

	image, err := resolver.Resolve("Edition 01", "1.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, "1.png", filepath.Base(image.Path))
}

func TestImageResolver_Rejections(t *testing.T) {
	resolver, _ := newResolverFixture(t)

	tests := []struct {
		name   string
		folder string
		file   string
		code   string
	}{
		{"parent_traversal", "Edition 01", "../../secret.jpg", apperr.CodeSecurityViolation},
		{"traversal_in_folder", "..", "secret.jpg", apperr.CodeSecurityViolation},
		{"absolute", "/etc", "passwd", apperr.CodeSecurityViolation},
		{"missing", "Edition 01", "9.png", apperr.CodeNotFound},
		{"not_an_image", "Edition 01", "notes.txt", apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.folder, tt.file)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestImageResolver_SymlinkEscape(t *testing.T) {
	resolver, base := newResolverFixture(t)

	link := filepath.Join(base, "editions", "Edition 01", "2.jpg")
	if err := os.Symlink(filepath.Join(base, "secret.jpg"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := resolver.Resolve("Edition 01", "2.jpg")
	assert.True(t, apperr.HasCode(err, apperr.CodeSecurityViolation), "got %v", err)
}

func TestImageResolver_ResolveLegacy(t *testing.T) {
	resolver, _ := newResolverFixture(t)

	image, err := resolver.ResolveLegacy("/editions/Edition 01/1.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)

	tests := []struct {
		path string
		code string
	}{
		{"", apperr.CodeValidation},
		{"/editions/../secret.jpg", apperr.CodeSecurityViolation},
		{"/public/secret.jpg", apperr.CodeSecurityViolation},
		{"/editions/Edition 01/../../secret.jpg", apperr.CodeSecurityViolation},
		{"/editions/Edition 01/missing.png", apperr.CodeNotFound},
	}

	for _, tt := range tests {
		_, err := resolver.ResolveLegacy(tt.path)
		assert.True(t, apperr.HasCode(err, tt.code), "%q: got %v", tt.path, err)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", edition.ContentType("a.JPG"))
	assert.Equal(t, "image/jpeg", edition.ContentType("a.jpeg"))
	assert.Equal(t, "image/png", edition.ContentType("a.png"))
	assert.Equal(t, "image/webp", edition.ContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", edition.ContentType("a.tiff"))
}

func TestImageRef(t *testing.T) {
	assert.Equal(t, "/api/v1/images/edition-01/3", edition.ImageRef("edition-01", 3))
}
