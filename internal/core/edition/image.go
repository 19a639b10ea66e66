// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"errors"
	"fmt"
	"image"
	// Registered decoders for dimension probing.
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/taibuivan/epaper/internal/platform/apperr"
)

// ImageRoute is the public path prefix of opaque page image references.
const ImageRoute = "/api/v1/images"

// legacyPrefix is the first path segment accepted by [ImageResolver.ResolveLegacy].
const legacyPrefix = "editions"

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// ImageRef returns the opaque URL of a page image. It never exposes the
// on-disk folder or file name.
func ImageRef(editionID string, pageNumber int) string {
	return fmt.Sprintf("%s/%s/%d", ImageRoute, editionID, pageNumber)
}

// ContentType returns the MIME type for name's extension.
func ContentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if contentType, ok := contentTypes[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// ProbeDimensions decodes only the image header at path. Unreadable or
// unsupported files report zero width and height.
func ProbeDimensions(path string) (int, int) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// # Image Resolution

// Image is a resolved page image on disk.
type Image struct {
	Path        string
	ContentType string
}

// ImageResolver confines image reads to the editions root.
type ImageResolver struct {
	root    string
	allowed func(name string) bool
}

// NewImageResolver constructs an [ImageResolver]. allowed filters file names
// by extension; the scanner's allow-list is the usual choice.
func NewImageResolver(root string, allowed func(name string) bool) *ImageResolver {
	return &ImageResolver{root: root, allowed: allowed}
}

/*
Resolve locates file inside folder under the root.

Description: The joined path must stay local to the root both lexically and
after symlinks are evaluated. A path that escapes is a security violation,
reported before any existence check.

Returns:
  - Image: Confined absolute path and MIME type
  - error: SecurityViolation, NotFound, ValidationError or StorageUnavailable
*/
func (resolver *ImageResolver) Resolve(folder, file string) (Image, error) {
	return resolver.resolve(filepath.Join(folder, file))
}

/*
ResolveLegacy resolves a "/editions/<folder>/<file>" path as used by older
clients. The leading "editions" segment maps to the root.
*/
func (resolver *ImageResolver) ResolveLegacy(raw string) (Image, error) {
	if strings.TrimSpace(raw) == "" {
		return Image{}, apperr.ValidationError("Image path is required")
	}

	cleaned := strings.TrimPrefix(filepath.ToSlash(raw), "/")
	rest, ok := strings.CutPrefix(cleaned, legacyPrefix+"/")
	if !ok {
		return Image{}, apperr.SecurityViolation("Invalid image path")
	}

	return resolver.resolve(filepath.FromSlash(rest))
}

func (resolver *ImageResolver) resolve(relative string) (Image, error) {
	if relative == "" || filepath.IsAbs(relative) || !filepath.IsLocal(relative) {
		return Image{}, apperr.SecurityViolation("Invalid image path")
	}

	rootReal, err := filepath.EvalSymlinks(resolver.root)
	if err != nil {
		return Image{}, apperr.StorageUnavailable(fmt.Errorf("edition: resolve root: %w", err))
	}
	rootReal, err = filepath.Abs(rootReal)
	if err != nil {
		return Image{}, apperr.StorageUnavailable(fmt.Errorf("edition: resolve root: %w", err))
	}

	target, err := filepath.EvalSymlinks(filepath.Join(rootReal, relative))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Image{}, apperr.NotFound("Image")
		}
		return Image{}, apperr.StorageUnavailable(fmt.Errorf("edition: resolve image: %w", err))
	}

	if !within(rootReal, target) {
		return Image{}, apperr.SecurityViolation("Invalid image path")
	}

	if !resolver.allowed(target) {
		return Image{}, apperr.ValidationError("Unsupported image type")
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Image{}, apperr.NotFound("Image")
		}
		return Image{}, apperr.StorageUnavailable(fmt.Errorf("edition: stat image: %w", err))
	}
	if !info.Mode().IsRegular() {
		return Image{}, apperr.NotFound("Image")
	}

	return Image{Path: target, ContentType: ContentType(target)}, nil
}

// within reports whether target is root or lies beneath it.
func within(root, target string) bool {
	relative, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return relative == "." || filepath.IsLocal(relative)
}
