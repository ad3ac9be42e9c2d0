// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package check runs size-budget rules against the filesystem and
// produces per-file results. It is the core engine: resolve each
// rule's pattern, measure every matched file with the rule's tester,
// and compare against the budget.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/overweight-ci/overweight/lib/fileglob"
	"github.com/overweight-ci/overweight/lib/sizeconfig"
	"github.com/overweight-ci/overweight/lib/sizeunit"
	"github.com/overweight-ci/overweight/lib/tester"
)

// NoMatchMessage is the error attached to the synthetic result emitted
// when a rule's pattern resolves to no files.
const NoMatchMessage = "No files matched this pattern"

// Result is the outcome for a single rule/file pair.
type Result struct {
	// Label is the rule label, from the configuration.
	Label string `json:"label"`

	// FilePath is the path of the checked file relative to the config
	// root. For a no-match result it is the pattern itself.
	FilePath string `json:"filePath"`

	// TesterID identifies the tester that measured the file.
	TesterID string `json:"compression"`

	// MeasuredBytes is the measured size. Nil when the file was never
	// measured (no-match results).
	MeasuredBytes *int64 `json:"size"`

	// MeasuredDisplay is MeasuredBytes rendered for humans, empty when
	// unmeasured.
	MeasuredDisplay string `json:"sizeFormatted,omitempty"`

	// MaxBytes is the budget in bytes.
	MaxBytes int64 `json:"maxSize"`

	// MaxDisplay is the budget rendered for humans, echoing the
	// configured string when one was given.
	MaxDisplay string `json:"maxSizeFormatted"`

	// DiffBytes is MeasuredBytes - MaxBytes. Nil when the file was
	// never measured.
	DiffBytes *int64 `json:"diff"`

	// Passed reports whether the file fit its budget. A file exactly
	// at the budget passes. Always false for error results.
	Passed bool `json:"passed"`

	// Error carries a per-result failure message, such as a pattern
	// that matched nothing or a file that could not be read.
	Error string `json:"error,omitempty"`
}

// Summary aggregates a report.
type Summary struct {
	// Files is the number of results that measured an actual file.
	Files int `json:"files"`

	// Failures counts results that did not pass, including error
	// results.
	Failures int `json:"failures"`

	// HasFailures is true when any result failed or errored. This is
	// the exit-status signal.
	HasFailures bool `json:"hasFailures"`

	// HasErrors is true when any result carries an error message.
	HasErrors bool `json:"hasErrors"`
}

// Report is the full outcome of a run.
type Report struct {
	Results []Result `json:"results"`
	Stats   Summary  `json:"stats"`
}

// Options configures a run.
type Options struct {
	// Registry supplies testers. Nil means the built-in registry.
	Registry *tester.Registry

	// Logger receives per-rule progress. Nil discards.
	Logger *slog.Logger
}

// RunChecks evaluates every rule in the configuration, in declaration
// order, with matched files in deterministic filesystem-walk order
// within each rule. It returns an error only for run-level problems: a
// non-normalized config, an unknown tester, an unreadable file, or a
// tester contract violation. Budget misses and empty patterns are
// recorded as failing results, not errors.
func RunChecks(ctx context.Context, config *sizeconfig.NormalizedConfig, opts Options) (*Report, error) {
	if !config.IsNormalized() {
		return nil, fmt.Errorf("check: configuration was not normalized")
	}

	registry := opts.Registry
	if registry == nil {
		registry = tester.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Resolve all testers up front so an unknown id aborts before any
	// measurement work.
	testers := make([]tester.Tester, len(config.Rules))
	for i, rule := range config.Rules {
		t, err := registry.Get(rule.TesterID)
		if err != nil {
			return nil, fmt.Errorf("check: rule %q: %w", rule.Label, err)
		}
		testers[i] = t
	}

	report := &Report{}
	for i, rule := range config.Rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := fileglob.Resolve(rule.Pattern, config.Root)
		if err != nil {
			return nil, fmt.Errorf("check: resolving %q: %w", rule.Pattern, err)
		}

		if len(matches) == 0 {
			logger.Warn("no files matched", "pattern", rule.Pattern, "label", rule.Label)
			report.Results = append(report.Results, Result{
				Label:      rule.Label,
				FilePath:   rule.Pattern,
				TesterID:   testers[i].ID(),
				MaxBytes:   rule.MaxBytes,
				MaxDisplay: rule.MaxDisplay,
				Error:      NoMatchMessage,
			})
			continue
		}

		for _, match := range matches {
			result, err := checkFile(rule, testers[i], match)
			if err != nil {
				return nil, err
			}
			logger.Info("checked file",
				"file", result.FilePath,
				"size", result.MeasuredDisplay,
				"max", result.MaxDisplay,
				"passed", result.Passed)
			report.Results = append(report.Results, result)
		}
	}

	for _, result := range report.Results {
		if result.MeasuredBytes != nil {
			report.Stats.Files++
		}
		if !result.Passed {
			report.Stats.Failures++
			report.Stats.HasFailures = true
		}
		if result.Error != "" {
			report.Stats.HasErrors = true
		}
	}
	return report, nil
}

// checkFile measures one file against one rule.
func checkFile(rule sizeconfig.Rule, t tester.Tester, match fileglob.FileMatch) (Result, error) {
	data, err := os.ReadFile(match.AbsolutePath)
	if err != nil {
		return Result{}, fmt.Errorf("check: reading %s: %w", match.RelativePath, err)
	}

	measured, err := t.Measure(data)
	if err != nil {
		return Result{}, fmt.Errorf("check: tester %q failed on %s: %w", t.ID(), match.RelativePath, err)
	}
	if measured < 0 {
		return Result{}, fmt.Errorf("check: tester %q returned negative size %d for %s", t.ID(), measured, match.RelativePath)
	}

	diff := measured - rule.MaxBytes
	return Result{
		Label:           rule.Label,
		FilePath:        match.RelativePath,
		TesterID:        t.ID(),
		MeasuredBytes:   &measured,
		MeasuredDisplay: sizeunit.Format(measured),
		MaxBytes:        rule.MaxBytes,
		MaxDisplay:      rule.MaxDisplay,
		DiffBytes:       &diff,
		Passed:          diff <= 0,
	}, nil
}
