// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package baseline records measured sizes from a passing run in a
// canonical JSON file, so later runs can report deltas against it.
// The serialization is deterministic: entries sorted by file path,
// stable key order, two-space indent, trailing newline. Writing the
// same measurements twice produces byte-identical output, which is
// what makes reconciliation idempotence checks possible.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/sizeunit"
)

// Entry is one recorded measurement.
type Entry struct {
	// Label is the rule label the measurement came from.
	Label string `json:"label"`

	// File is the path relative to the config root. Entries are keyed
	// by this field.
	File string `json:"file"`

	// Tester is the tester id that produced the measurement.
	Tester string `json:"tester"`

	// Size is the human-rendered measured size.
	Size string `json:"size"`

	// SizeBytes is the measured size in bytes.
	SizeBytes int64 `json:"sizeBytes"`

	// Limit is the human-rendered budget.
	Limit string `json:"limit"`

	// LimitBytes is the budget in bytes.
	LimitBytes int64 `json:"limitBytes"`
}

// FromResults builds baseline entries from a report. Results that
// never measured a file (no-match results) are skipped: a baseline
// records what was observed, not what was missing.
func FromResults(results []check.Result) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, result := range results {
		if result.MeasuredBytes == nil {
			continue
		}
		entries = append(entries, Entry{
			Label:      result.Label,
			File:       result.FilePath,
			Tester:     result.TesterID,
			Size:       result.MeasuredDisplay,
			SizeBytes:  *result.MeasuredBytes,
			Limit:      result.MaxDisplay,
			LimitBytes: result.MaxBytes,
		})
	}
	return entries
}

// Marshal renders entries in the canonical form. The input slice is
// not modified.
func Marshal(entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("baseline: marshaling: %w", err)
	}
	return append(data, '\n'), nil
}

// Parse decodes a baseline file.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("baseline: parsing: %w", err)
	}
	return entries, nil
}

// Load reads a local baseline file. A missing or unparsable file
// returns nil entries and no error: a baseline is advisory, and the
// first run of a repository has none. I/O errors other than absence
// propagate.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("baseline: reading %s: %w", path, err)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, nil
	}
	return entries, nil
}

// Comparison pairs a current entry with its previous measurement.
type Comparison struct {
	Entry

	// PreviousBytes is the previous measurement, nil when the file was
	// not in the previous baseline.
	PreviousBytes *int64

	// DeltaBytes is current minus previous, zero when unmatched.
	DeltaBytes int64

	// DeltaDisplay is the rendered delta ("+1.02 kB"), or "N/A" when
	// the file has no previous measurement.
	DeltaDisplay string

	// Trend is "up", "down", or "flat", empty when unmatched.
	Trend string
}

// Merge compares current entries against a previous baseline, keyed
// by file path. Current order is preserved.
func Merge(current, previous []Entry) []Comparison {
	previousByFile := make(map[string]Entry, len(previous))
	for _, entry := range previous {
		previousByFile[entry.File] = entry
	}

	comparisons := make([]Comparison, 0, len(current))
	for _, entry := range current {
		comparison := Comparison{Entry: entry, DeltaDisplay: "N/A"}
		if previousEntry, ok := previousByFile[entry.File]; ok {
			previousBytes := previousEntry.SizeBytes
			comparison.PreviousBytes = &previousBytes
			comparison.DeltaBytes = entry.SizeBytes - previousBytes
			comparison.DeltaDisplay = sizeunit.FormatDiff(comparison.DeltaBytes)
			switch {
			case comparison.DeltaBytes > 0:
				comparison.Trend = "up"
			case comparison.DeltaBytes < 0:
				comparison.Trend = "down"
			default:
				comparison.Trend = "flat"
			}
		}
		comparisons = append(comparisons, comparison)
	}
	return comparisons
}
