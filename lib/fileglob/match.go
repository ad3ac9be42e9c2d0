// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package fileglob

import (
	"path"
	"strings"
)

// Match checks whether a slash-separated relative file path matches a
// glob pattern:
//
//   - Exact match: "dist/app.js" matches only "dist/app.js"
//   - Single-segment wildcard: "dist/*.js" matches "dist/app.js" but
//     not "dist/vendor/app.js"
//   - Recursive wildcard: "dist/**" matches everything under dist/
//   - Universal: "**" matches any path
//   - Interior recursive: "dist/**/*.js" matches "dist/app.js" and
//     "dist/vendor/app.js"
//   - Character wildcards: "?" matches a single non-slash character
//
// The single-segment wildcard "*" does not match "/" — standard
// path.Match behavior, matching the gitignore convention. Dotfiles are
// matched like any other name. Malformed patterns (unmatched brackets)
// match nothing rather than propagating errors.
func Match(pattern, name string) bool {
	// Universal match.
	if pattern == "**" {
		return true
	}

	// No ** in the pattern — delegate to path.Match which handles
	// single-segment * and ? correctly (not matching /).
	if !strings.Contains(pattern, "**") {
		return matchSegments(pattern, name)
	}

	// Suffix: "dist/**" — match the prefix (with glob wildcards),
	// then anything after.
	if strings.HasSuffix(pattern, "/**") {
		prefix := pattern[:len(pattern)-3]
		// ** matches zero additional segments: entire path is the prefix.
		if matchSegments(prefix, name) {
			return true
		}
		// ** matches one or more additional segments.
		return hasMatchingPrefix(prefix, name)
	}

	// Prefix: "**/*.js" — match anything before, then the suffix.
	if strings.HasPrefix(pattern, "**/") {
		suffix := pattern[3:]
		if matchSegments(suffix, name) {
			return true
		}
		return hasMatchingSuffix(suffix, name)
	}

	// Interior: "dist/**/*.js" — split on the first /**, match prefix
	// and suffix independently.
	separatorIndex := strings.Index(pattern, "/**/")
	if separatorIndex >= 0 {
		prefix := pattern[:separatorIndex]
		suffix := pattern[separatorIndex+4:]

		// Zero-segment case: ** matches nothing, prefix and suffix
		// are adjacent. "dist/**/*.js" matches "dist/app.js".
		if matchSegments(prefix+"/"+suffix, name) {
			return true
		}

		// Multi-segment case: prefix matches the start, suffix matches
		// the end, with at least one segment between for ** to consume.
		prefixDepth := strings.Count(prefix, "/") + 1
		suffixDepth := strings.Count(suffix, "/") + 1
		segments := strings.Split(name, "/")

		if len(segments) < prefixDepth+1+suffixDepth {
			return false
		}

		if !matchSegments(prefix, strings.Join(segments[:prefixDepth], "/")) {
			return false
		}
		if !matchSegments(suffix, strings.Join(segments[len(segments)-suffixDepth:], "/")) {
			return false
		}
		return true
	}

	// Multiple ** separators or other complex patterns — not
	// supported. Match nothing.
	return false
}

// matchSegments matches a pattern against a path using path.Match
// semantics (wildcards * and ? do not cross / boundaries). Returns
// false for malformed patterns.
func matchSegments(pattern, name string) bool {
	matched, err := path.Match(pattern, name)
	return err == nil && matched
}

// hasMatchingPrefix reports whether the path starts with segments that
// match the given glob pattern, with at least one additional segment
// after the matched portion.
func hasMatchingPrefix(pattern, name string) bool {
	depth := strings.Count(pattern, "/") + 1
	segments := strings.SplitN(name, "/", depth+1)
	if len(segments) <= depth {
		return false
	}
	return matchSegments(pattern, strings.Join(segments[:depth], "/"))
}

// hasMatchingSuffix reports whether the path ends with segments that
// match the given glob pattern, with at least one additional segment
// before the matched portion.
func hasMatchingSuffix(pattern, name string) bool {
	depth := strings.Count(pattern, "/") + 1
	segments := strings.Split(name, "/")
	if len(segments) <= depth {
		return false
	}
	return matchSegments(pattern, strings.Join(segments[len(segments)-depth:], "/"))
}

// MatchAny checks whether a name matches any of the given glob
// patterns. Returns false if the patterns slice is empty.
func MatchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}
