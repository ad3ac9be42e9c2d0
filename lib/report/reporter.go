// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders check results for humans and machines. Four
// reporters are built in: "console" (the default, a styled table),
// "json" (the report marshaled to stdout), "json-file" (the same JSON
// written to a file), and "silent" (nothing; exit status only).
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/overweight-ci/overweight/lib/check"
)

// DefaultReportFile is where the json-file reporter writes when no
// path is given.
const DefaultReportFile = "overweight-report.json"

// Reporter renders a completed report.
type Reporter interface {
	// Report renders the report. It is called exactly once per run.
	Report(report *check.Report) error
}

// Options configures reporter construction.
type Options struct {
	// Out is the destination for console and json output. Defaults to
	// os.Stdout.
	Out io.Writer

	// FilePath is the json-file destination. Defaults to
	// DefaultReportFile.
	FilePath string

	// Color forces color on or off for the console reporter. Nil means
	// auto-detect: color when Out is a terminal and NO_COLOR is unset.
	Color *bool
}

// reporterNames maps each reporter name to its constructor.
var reporterNames = map[string]func(Options) Reporter{
	"console":   func(opts Options) Reporter { return newConsoleReporter(opts) },
	"json":      func(opts Options) Reporter { return &jsonReporter{out: opts.Out} },
	"json-file": func(opts Options) Reporter { return &jsonFileReporter{path: opts.FilePath} },
	"silent":    func(Options) Reporter { return silentReporter{} },
}

// New returns the named reporter. The empty name selects "console".
// An unknown name is an error listing every available reporter.
func New(name string, opts Options) (Reporter, error) {
	if name == "" {
		name = "console"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.FilePath == "" {
		opts.FilePath = DefaultReportFile
	}

	construct, ok := reporterNames[name]
	if !ok {
		names := make([]string, 0, len(reporterNames))
		for n := range reporterNames {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("report: unknown reporter %q (available: %s)", name, strings.Join(names, ", "))
	}
	return construct(opts), nil
}

// silentReporter renders nothing. Exit status is the only signal.
type silentReporter struct{}

func (silentReporter) Report(*check.Report) error { return nil }
