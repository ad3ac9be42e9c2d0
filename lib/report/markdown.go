// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/sizeunit"
)

// markdownConverter is initialized once and reused. The GFM extension
// is required for table support.
var (
	markdownConverter goldmark.Markdown
	markdownOnce      sync.Once
)

func getMarkdownConverter() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConverter = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownConverter
}

// MarkdownTable renders the report as a GitHub-flavored markdown
// table, one row per result.
func MarkdownTable(report *check.Report) string {
	var builder strings.Builder
	builder.WriteString("| Status | Label | File | Size | Budget |\n")
	builder.WriteString("| --- | --- | --- | --- | --- |\n")

	for _, result := range report.Results {
		status := "✅"
		if !result.Passed {
			status = "❌"
		}

		size := "—"
		switch {
		case result.Error != "":
			size = result.Error
		case result.Passed:
			size = result.MeasuredDisplay
		default:
			size = fmt.Sprintf("%s (%s over)",
				result.MeasuredDisplay, sizeunit.FormatDiff(*result.DiffBytes))
		}

		fmt.Fprintf(&builder, "| %s | %s | %s | %s | %s |\n",
			status,
			escapeTableCell(result.Label),
			escapeTableCell(result.FilePath),
			escapeTableCell(size),
			escapeTableCell(result.MaxDisplay))
	}
	return builder.String()
}

// RenderHTML converts markdown to HTML.
func RenderHTML(markdown string) (string, error) {
	var buffer strings.Builder
	if err := getMarkdownConverter().Convert([]byte(markdown), &buffer); err != nil {
		return "", fmt.Errorf("report: rendering markdown: %w", err)
	}
	return buffer.String(), nil
}

// escapeTableCell neutralizes characters that would break a markdown
// table row.
func escapeTableCell(cell string) string {
	cell = strings.ReplaceAll(cell, "|", "\\|")
	cell = strings.ReplaceAll(cell, "\n", " ")
	return cell
}
