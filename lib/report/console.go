// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/sizeunit"
)

// consoleReporter renders an aligned table with pass/fail markers.
type consoleReporter struct {
	out   io.Writer
	color bool

	pass  lipgloss.Style
	fail  lipgloss.Style
	faint lipgloss.Style
}

func newConsoleReporter(opts Options) *consoleReporter {
	reporter := &consoleReporter{out: opts.Out}
	if opts.Color != nil {
		reporter.color = *opts.Color
	} else {
		reporter.color = detectColor(opts.Out)
	}
	if reporter.color {
		reporter.pass = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		reporter.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		reporter.faint = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	} else {
		reporter.pass = lipgloss.NewStyle()
		reporter.fail = lipgloss.NewStyle()
		reporter.faint = lipgloss.NewStyle()
	}
	return reporter
}

// detectColor enables color only for a real terminal with NO_COLOR
// unset.
func detectColor(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func (reporter *consoleReporter) Report(report *check.Report) error {
	writer := tabwriter.NewWriter(reporter.out, 2, 4, 2, ' ', 0)

	for _, result := range report.Results {
		marker := reporter.pass.Render("✓")
		if !result.Passed {
			marker = reporter.fail.Render("✗")
		}

		detail := ""
		switch {
		case result.Error != "":
			detail = reporter.fail.Render(result.Error)
		case result.Passed:
			detail = fmt.Sprintf("%s / %s %s",
				result.MeasuredDisplay,
				result.MaxDisplay,
				reporter.faint.Render("("+result.TesterID+")"))
		default:
			detail = fmt.Sprintf("%s / %s %s %s",
				result.MeasuredDisplay,
				result.MaxDisplay,
				reporter.fail.Render(sizeunit.FormatDiff(*result.DiffBytes)+" over"),
				reporter.faint.Render("("+result.TesterID+")"))
		}

		fmt.Fprintf(writer, "  %s\t%s\t%s\t%s\n", marker, result.Label, result.FilePath, detail)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	fmt.Fprintln(reporter.out)
	if report.Stats.HasFailures {
		fmt.Fprintf(reporter.out, "%s\n",
			reporter.fail.Render(fmt.Sprintf("%d of %d checks failed",
				report.Stats.Failures, len(report.Results))))
	} else {
		fmt.Fprintf(reporter.out, "%s\n",
			reporter.pass.Render(fmt.Sprintf("all %d checks passed", len(report.Results))))
	}
	return nil
}
