// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition_test

import (
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/epaper/internal/core/edition"
)

var (
	testEpoch = time.Date(2024, time.June, 22, 0, 0, 0, 0, time.UTC)
	testClock = func() time.Time { return time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC) }
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writePNG writes a blank width x height PNG at path, creating parent folders.
func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	require.NoError(t, png.Encode(file, image.NewRGBA(image.Rect(0, 0, width, height))))
}

// writeFile writes arbitrary bytes at path, creating parent folders.
func writeFile(t *testing.T, path string, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// newFixtureRoot lays out two editions and some noise:
//
//	Edition 01/{1.png, 2.png, notes.txt}
//	Edition 02/{10.png, 2.png}
//	Edition 03/            (empty)
//	Misc/cover.png
func newFixtureRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writePNG(t, filepath.Join(root, "Edition 01", "1.png"), 4, 6)
	writePNG(t, filepath.Join(root, "Edition 01", "2.png"), 4, 6)
	writeFile(t, filepath.Join(root, "Edition 01", "notes.txt"), "not a page")
	writePNG(t, filepath.Join(root, "Edition 02", "10.png"), 8, 12)
	writePNG(t, filepath.Join(root, "Edition 02", "2.png"), 8, 12)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Edition 03"), 0o755))
	writePNG(t, filepath.Join(root, "Misc", "cover.png"), 1, 1)

	return root
}

// newCatalog builds a catalog over root with the default prefix and calendar.
func newCatalog(t *testing.T, root string) (*edition.Catalog, *edition.Scanner) {
	t.Helper()
	logger := discardLogger()
	scanner := edition.NewScanner(root, "Edition", []string{"jpg", "jpeg", "png", "webp"}, logger)
	normalizer := edition.NewNormalizer(root, "Edition", "seva-goa", edition.NewCalendar(testEpoch, 1), edition.WithClock(testClock))
	return edition.NewCatalog(scanner, normalizer, logger), scanner
}
