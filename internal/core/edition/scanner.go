// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Entry is one qualifying edition folder and the image files found inside it.
// Files are in directory order; the normalizer decides page order.
type Entry struct {
	Folder string
	Files  []string
}

// Scanner enumerates edition folders under a root directory.
type Scanner struct {
	root       string
	pattern    *regexp.Regexp
	extensions map[string]struct{}
	logger     *slog.Logger
}

// folderPattern matches "<prefix>" followed by optional spaces and digits at
// the start of a folder name, ignoring case. The digits are the first group.
func folderPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(strings.TrimSpace(prefix)) + `\s*(\d+)`)
}

// NewScanner constructs a [Scanner].
//
// Extensions are compared case-insensitively and may be given with or without
// a leading dot.
func NewScanner(root, prefix string, extensions []string, logger *slog.Logger) *Scanner {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}

	return &Scanner{
		root:       root,
		pattern:    folderPattern(prefix),
		extensions: allowed,
		logger:     logger,
	}
}

// Root returns the directory being scanned.
func (scanner *Scanner) Root() string {
	return scanner.root
}

// Allowed reports whether name carries an allow-listed image extension.
func (scanner *Scanner) Allowed(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := scanner.extensions[ext]
	return ok
}

/*
Scan lists every qualifying edition folder under the root.

Description: Only immediate subdirectories whose name matches the edition
prefix are considered, and only regular files with an allowed extension are
kept. Folders with no such files are left out.

An unreadable root is not an error: it produces an empty result and a single
warning. Unreadable folders are skipped the same way.

Returns:
  - []Entry: Unordered folder entries
  - error: Only the context error when ctx is cancelled mid-scan
*/
func (scanner *Scanner) Scan(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(scanner.root)
	if err != nil {
		scanner.logger.Warn("edition_root_unavailable",
			slog.String("root", scanner.root),
			slog.Any("error", err),
		)
		return nil, nil
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !scanner.pattern.MatchString(dirEntry.Name()) || !scanner.entryMode(scanner.root, dirEntry).IsDir() {
			continue
		}

		files, err := scanner.listImages(dirEntry.Name())
		if err != nil {
			scanner.logger.Warn("edition_folder_unreadable",
				slog.String("folder", dirEntry.Name()),
				slog.Any("error", err),
			)
			continue
		}

		if len(files) == 0 {
			continue
		}

		entries = append(entries, Entry{Folder: dirEntry.Name(), Files: files})
	}

	return entries, nil
}

// listImages returns the allow-listed regular files directly inside folder.
func (scanner *Scanner) listImages(folder string) ([]string, error) {
	dir := filepath.Join(scanner.root, folder)
	fileEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, fileEntry := range fileEntries {
		if !scanner.Allowed(fileEntry.Name()) || !scanner.entryMode(dir, fileEntry).IsRegular() {
			continue
		}
		files = append(files, fileEntry.Name())
	}

	return files, nil
}

// entryMode returns the type of entry inside dir, following symlinks whose
// target stays under the root. Links that dangle or escape the root report
// the link mode itself, so callers skip them.
func (scanner *Scanner) entryMode(dir string, entry fs.DirEntry) fs.FileMode {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type()
	}

	rootReal, err := filepath.EvalSymlinks(scanner.root)
	if err != nil {
		return entry.Type()
	}
	target, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
	if err != nil || !within(rootReal, target) {
		scanner.logger.Debug("edition_symlink_ignored", slog.String("path", filepath.Join(dir, entry.Name())))
		return entry.Type()
	}

	info, err := os.Stat(target)
	if err != nil {
		return entry.Type()
	}
	return info.Mode()
}
