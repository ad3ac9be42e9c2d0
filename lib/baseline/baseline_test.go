// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/overweight-ci/overweight/lib/check"
)

func sampleEntries() []Entry {
	return []Entry{
		{Label: "vendor", File: "dist/vendor.js", Tester: "gzip", Size: "2.5 kB", SizeBytes: 2500, Limit: "5 kB", LimitBytes: 5000},
		{Label: "app", File: "dist/app.js", Tester: "gzip", Size: "1 kB", SizeBytes: 1000, Limit: "2 kB", LimitBytes: 2000},
	}
}

func TestMarshal_Canonical(t *testing.T) {
	first, err := Marshal(sampleEntries())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// Entries are sorted by file path regardless of input order.
	appIndex := bytes.Index(first, []byte("dist/app.js"))
	vendorIndex := bytes.Index(first, []byte("dist/vendor.js"))
	if appIndex < 0 || vendorIndex < 0 || appIndex > vendorIndex {
		t.Errorf("entries not sorted by file:\n%s", first)
	}

	if !bytes.HasSuffix(first, []byte("\n")) {
		t.Error("canonical output must end with a newline")
	}

	// Serializing the parsed output again must be byte-identical.
	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := Marshal(parsed)
	if err != nil {
		t.Fatalf("Marshal round trip: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip not byte-identical:\n%s\nvs\n%s", first, second)
	}
}

func TestMarshal_DoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	if _, err := Marshal(entries); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if entries[0].File != "dist/vendor.js" {
		t.Error("Marshal reordered the caller's slice")
	}
}

func TestMarshal_KeyOrder(t *testing.T) {
	data, err := Marshal(sampleEntries()[:1])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	keys := []string{`"label"`, `"file"`, `"tester"`, `"size"`, `"sizeBytes"`, `"limit"`, `"limitBytes"`}
	last := -1
	for _, key := range keys {
		index := strings.Index(text, key)
		if index < 0 {
			t.Fatalf("key %s missing:\n%s", key, text)
		}
		if index < last {
			t.Errorf("key %s out of order:\n%s", key, text)
		}
		last = index
	}
}

func TestFromResults_SkipsUnmeasured(t *testing.T) {
	measured := int64(1000)
	entries := FromResults([]check.Result{
		{
			Label: "app", FilePath: "dist/app.js", TesterID: "gzip",
			MeasuredBytes: &measured, MeasuredDisplay: "1 kB",
			MaxBytes: 2000, MaxDisplay: "2 kB", Passed: true,
		},
		{
			Label: "missing", FilePath: "dist/*.wasm", TesterID: "gzip",
			MaxBytes: 2000, MaxDisplay: "2 kB", Error: check.NoMatchMessage,
		},
	})

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.File != "dist/app.js" || entry.SizeBytes != 1000 || entry.LimitBytes != 2000 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")

	// Missing file: nil, no error.
	entries, err := Load(path)
	if err != nil || entries != nil {
		t.Errorf("Load(missing) = %v, %v; want nil, nil", entries, err)
	}

	// Unparsable file: nil, no error.
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err = Load(path)
	if err != nil || entries != nil {
		t.Errorf("Load(garbage) = %v, %v; want nil, nil", entries, err)
	}

	// Valid file round trips.
	data, err := Marshal(sampleEntries())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestMerge(t *testing.T) {
	previous := []Entry{
		{File: "dist/app.js", SizeBytes: 1000},
		{File: "dist/vendor.js", SizeBytes: 2500},
		{File: "dist/gone.js", SizeBytes: 9000},
	}
	current := []Entry{
		{File: "dist/app.js", SizeBytes: 1100},
		{File: "dist/vendor.js", SizeBytes: 2500},
		{File: "dist/new.js", SizeBytes: 300},
	}

	comparisons := Merge(current, previous)
	if len(comparisons) != 3 {
		t.Fatalf("got %d comparisons, want 3", len(comparisons))
	}

	grew := comparisons[0]
	if grew.Trend != "up" || grew.DeltaBytes != 100 || grew.DeltaDisplay != "+100 B" {
		t.Errorf("grew = %+v", grew)
	}

	flat := comparisons[1]
	if flat.Trend != "flat" || flat.DeltaBytes != 0 {
		t.Errorf("flat = %+v", flat)
	}

	unmatched := comparisons[2]
	if unmatched.PreviousBytes != nil || unmatched.DeltaDisplay != "N/A" || unmatched.Trend != "" {
		t.Errorf("unmatched = %+v", unmatched)
	}
}
