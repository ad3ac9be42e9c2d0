// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package sizeconfig validates and normalizes raw size-budget
// configuration into the shape the check engine consumes. Raw
// configuration arrives either as a bare rule array or as an object
// with root/defaultCompression/files fields, from an inline flag, a
// config file, or a package.json field.
package sizeconfig

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/overweight-ci/overweight/lib/sizeunit"
	"github.com/overweight-ci/overweight/lib/tester"
)

// FileEntry is one raw budget entry as authored by the user.
type FileEntry struct {
	// Path is the glob or literal path the budget applies to.
	Path string `json:"path" yaml:"path"`

	// MaxSize is the budget: a string with a unit ("10 kB") or a
	// bare number of bytes. Any other type is a schema error.
	MaxSize any `json:"maxSize" yaml:"maxSize"`

	// Label overrides the report label. Defaults to Path.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Compression selects the tester. Defaults to the config-level
	// default, which itself defaults to "gzip".
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
}

// RawConfig is the object form of the configuration. The bare-array
// form is equivalent to a RawConfig with only Files set.
type RawConfig struct {
	// Root is the directory all patterns resolve against, relative
	// to the working directory when not absolute. Empty means the
	// working directory itself.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// DefaultCompression is the tester used by entries that do not
	// name one.
	DefaultCompression string `json:"defaultCompression,omitempty" yaml:"defaultCompression,omitempty"`

	// Files are the budget entries. At least one is required.
	Files []FileEntry `json:"files" yaml:"files"`

	// Source records where the configuration came from (a file path,
	// "inline", or "package.json#overweight"). Informational only.
	Source string `json:"-" yaml:"-"`
}

// Rule is one validated, normalized budget entry.
type Rule struct {
	// Pattern is the glob or literal path, verbatim from the entry.
	Pattern string

	// Label is the report label.
	Label string

	// TesterID is the resolved, lowercased tester id.
	TesterID string

	// MaxBytes is the parsed budget.
	MaxBytes int64

	// MaxFormatted is MaxBytes rendered for display ("10 kB").
	MaxFormatted string

	// MaxDisplay is the user's original budget string when one was
	// supplied, else MaxFormatted. Reports prefer it so the output
	// echoes what the user wrote.
	MaxDisplay string
}

// NormalizedConfig is the validated configuration the check engine
// consumes. Construct it with Normalize; a zero NormalizedConfig is
// not normalized and the engine rejects it.
type NormalizedConfig struct {
	// Root is the absolute directory all patterns resolve against.
	// It is not checked for existence — a missing root surfaces as
	// per-rule "no files matched" results.
	Root string

	// DefaultTesterID is the resolved config-level default tester.
	DefaultTesterID string

	// Rules are the budget entries in declaration order, which is
	// also report order.
	Rules []Rule

	// Source is the provenance tag carried over from the raw config.
	Source string

	normalized bool
}

// IsNormalized reports whether this config was produced by Normalize.
func (config *NormalizedConfig) IsNormalized() bool {
	return config != nil && config.normalized
}

// Normalize validates raw configuration and resolves it against the
// given working directory. All schema violations are configuration
// errors that identify the offending field.
func Normalize(raw RawConfig, workingDir string) (*NormalizedConfig, error) {
	if len(raw.Files) == 0 {
		return nil, fmt.Errorf("sizeconfig: configuration has no files entries")
	}

	root := workingDir
	if raw.Root != "" {
		if filepath.IsAbs(raw.Root) {
			root = raw.Root
		} else {
			root = filepath.Join(workingDir, raw.Root)
		}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sizeconfig: resolving root: %w", err)
	}

	defaultTester := raw.DefaultCompression
	if defaultTester == "" {
		defaultTester = tester.DefaultID
	}
	defaultTester = lowerIfKnown(defaultTester)

	rules := make([]Rule, 0, len(raw.Files))
	for i, entry := range raw.Files {
		rule, err := normalizeEntry(entry, i, defaultTester)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return &NormalizedConfig{
		Root:            root,
		DefaultTesterID: defaultTester,
		Rules:           rules,
		Source:          raw.Source,
		normalized:      true,
	}, nil
}

// normalizeEntry validates and converts a single raw entry.
func normalizeEntry(entry FileEntry, index int, defaultTester string) (Rule, error) {
	if entry.Path == "" {
		return Rule{}, fmt.Errorf("sizeconfig: files[%d].path is required", index)
	}
	if entry.MaxSize == nil {
		return Rule{}, fmt.Errorf("sizeconfig: files[%d].maxSize is required", index)
	}

	switch entry.MaxSize.(type) {
	case string, int, int32, int64, float32, float64:
	default:
		return Rule{}, fmt.Errorf("sizeconfig: files[%d].maxSize must be a string or number, got %T", index, entry.MaxSize)
	}

	maxBytes, err := sizeunit.ParseValue(entry.MaxSize)
	if err != nil {
		return Rule{}, fmt.Errorf("sizeconfig: files[%d].maxSize: %w", index, err)
	}
	if maxBytes < 0 {
		return Rule{}, fmt.Errorf("sizeconfig: files[%d].maxSize must not be negative (got %d bytes)", index, maxBytes)
	}

	label := entry.Label
	if label == "" {
		label = entry.Path
	}

	testerID := entry.Compression
	if testerID == "" {
		testerID = defaultTester
	}
	testerID = lowerIfKnown(testerID)

	maxFormatted := sizeunit.Format(maxBytes)
	maxDisplay := maxFormatted
	if s, ok := entry.MaxSize.(string); ok && s != "" {
		maxDisplay = s
	}

	return Rule{
		Pattern:      entry.Path,
		Label:        label,
		TesterID:     testerID,
		MaxBytes:     maxBytes,
		MaxFormatted: maxFormatted,
		MaxDisplay:   maxDisplay,
	}, nil
}

// lowerIfKnown lowercases a tester id only when the lowercase form is
// a built-in token, preserving case-sensitive custom ids.
func lowerIfKnown(id string) string {
	switch id {
	case "none", "gzip", "zstd", "brotli":
		return id
	}
	lowered := strings.ToLower(id)
	switch lowered {
	case "none", "gzip", "zstd", "brotli":
		return lowered
	}
	return id
}
