// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package tester provides pluggable measurement strategies for the
// check engine. A tester maps a file's raw bytes to a measured size:
// the raw byte length, or the length after a compression encoding a
// web server would apply (gzip, brotli, zstd). Callers can register
// custom testers, including ones that shadow the built-in ids.
package tester

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultID is the tester used when a rule or configuration does not
// name one.
const DefaultID = "gzip"

// Tester measures the effective size of a byte buffer. Measure must
// be deterministic for a given buffer and must return a non-negative
// byte count; the check engine treats a violation as a programming
// defect and aborts the run.
type Tester interface {
	// ID is the token rules use to select this tester.
	ID() string

	// Label is the human-readable name used in reports.
	Label() string

	// Measure returns the measured size of data in bytes.
	Measure(data []byte) (int64, error)
}

// Registry is a lookup table of testers keyed by id.
type Registry struct {
	testers map[string]Tester
}

// NewRegistry returns a registry seeded with the built-in testers
// (none, gzip, zstd, brotli), overlaid with any caller-supplied
// custom testers. Custom testers may shadow built-in ids.
func NewRegistry(custom ...Tester) *Registry {
	registry := &Registry{testers: make(map[string]Tester)}
	for _, t := range builtins() {
		registry.Register(t)
	}
	for _, t := range custom {
		registry.Register(t)
	}
	return registry
}

// Register adds a tester to the registry, replacing any existing
// tester with the same id.
func (registry *Registry) Register(t Tester) {
	registry.testers[t.ID()] = t
}

// Get looks up a tester by id. An empty id resolves to DefaultID.
// The id is lowercased only when the lowercase form names a
// registered tester; otherwise it is looked up verbatim, so custom
// testers with case-sensitive ids keep working.
func (registry *Registry) Get(id string) (Tester, error) {
	if id == "" {
		id = DefaultID
	}
	if t, ok := registry.testers[strings.ToLower(id)]; ok {
		return t, nil
	}
	if t, ok := registry.testers[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("tester: unknown tester %q (available: %s)", id, strings.Join(registry.IDs(), ", "))
}

// IDs returns the registered tester ids in sorted order.
func (registry *Registry) IDs() []string {
	ids := make([]string, 0, len(registry.testers))
	for id := range registry.testers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Func adapts a measurement function into a Tester. This is the
// simplest way for callers to register custom testers.
type Func struct {
	// TesterID is the registry key.
	TesterID string

	// TesterLabel is the report display name. Defaults to TesterID.
	TesterLabel string

	// MeasureFunc performs the measurement.
	MeasureFunc func(data []byte) (int64, error)
}

func (f Func) ID() string { return f.TesterID }

func (f Func) Label() string {
	if f.TesterLabel != "" {
		return f.TesterLabel
	}
	return f.TesterID
}

func (f Func) Measure(data []byte) (int64, error) { return f.MeasureFunc(data) }
