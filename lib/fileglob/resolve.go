// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileglob expands glob patterns against a filesystem root
// into concrete file matches. Matching covers regular files only
// (never directories), includes dotfiles, and deduplicates exact-path
// matches within a single pattern. A pattern that matches nothing
// yields an empty result, not an error — the check engine decides how
// to report empty matches.
package fileglob

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileMatch is one concrete file bound to a pattern.
type FileMatch struct {
	// AbsolutePath is the resolved filesystem path.
	AbsolutePath string

	// RelativePath is the display path relative to the resolution
	// root. When the match is the root itself, this falls back to
	// the basename.
	RelativePath string
}

// Resolve expands pattern against root. Literal patterns (no glob
// metacharacters) are checked with a single stat; glob patterns walk
// the tree under root. Matches are returned in walk order, which is
// lexical and therefore deterministic.
func Resolve(pattern, root string) ([]FileMatch, error) {
	root = filepath.Clean(root)

	if !hasGlobMeta(pattern) {
		return resolveLiteral(pattern, root)
	}

	normalized := filepath.ToSlash(filepath.Clean(pattern))

	var matches []FileMatch
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(entryPath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped rather than failing the
			// pattern; files the process cannot see cannot be measured.
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(root, entryPath)
		if err != nil {
			return err
		}
		relative = filepath.ToSlash(relative)

		if !Match(normalized, relative) {
			return nil
		}

		absolute, err := filepath.Abs(entryPath)
		if err != nil {
			return err
		}
		if seen[absolute] {
			return nil
		}
		seen[absolute] = true

		matches = append(matches, FileMatch{
			AbsolutePath: absolute,
			RelativePath: relative,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	return matches, nil
}

// resolveLiteral handles patterns without glob metacharacters as
// plain paths, avoiding a tree walk.
func resolveLiteral(pattern, root string) ([]FileMatch, error) {
	candidate := pattern
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}

	info, err := os.Stat(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, nil
	}

	absolute, err := filepath.Abs(candidate)
	if err != nil {
		return nil, err
	}

	relative, err := filepath.Rel(root, absolute)
	if err != nil || strings.HasPrefix(relative, "..") {
		relative = filepath.Base(absolute)
	}
	relative = filepath.ToSlash(relative)
	if relative == "." {
		relative = filepath.Base(absolute)
	}

	return []FileMatch{{AbsolutePath: absolute, RelativePath: relative}}, nil
}

// hasGlobMeta reports whether the pattern contains glob
// metacharacters and needs a tree walk.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
