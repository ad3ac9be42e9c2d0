// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/overweight-ci/overweight/lib/baseline"
	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/github"
	"github.com/overweight-ci/overweight/lib/report"
)

// commentMarker identifies the action's own comment on a pull
// request, so repeated runs edit one comment instead of stacking new
// ones.
const commentMarker = "<!-- overweight-report -->"

// composeComment builds the PR comment body: the results table, and a
// trend section when a previous baseline exists.
func composeComment(result *check.Report, comparisons []baseline.Comparison) string {
	var builder strings.Builder
	builder.WriteString(commentMarker)
	builder.WriteString("\n## Size report\n\n")
	builder.WriteString(report.MarkdownTable(result))

	if len(comparisons) > 0 {
		builder.WriteString("\n### Compared to baseline\n\n")
		builder.WriteString("| File | Size | Change | Trend |\n")
		builder.WriteString("| --- | --- | --- | --- |\n")
		for _, comparison := range comparisons {
			trend := comparison.Trend
			switch trend {
			case "up":
				trend = "📈"
			case "down":
				trend = "📉"
			case "flat":
				trend = "➖"
			default:
				trend = "N/A"
			}
			fmt.Fprintf(&builder, "| %s | %s | %s | %s |\n",
				comparison.File, comparison.Size, comparison.DeltaDisplay, trend)
		}
	}
	return builder.String()
}

// upsertComment creates or updates the size-report comment on the
// pull request. A 403 is downgraded to a warning: runs from forks
// cannot comment, and that must not fail the build.
func upsertComment(ctx context.Context, client *github.Client, logger *slog.Logger, owner, repo string, prNumber int, body string) error {
	comments, err := client.ListIssueComments(ctx, owner, repo, prNumber)
	if err != nil {
		if github.IsForbidden(err) {
			logger.Warn("cannot comment on pull request", "number", prNumber, "error", err)
			return nil
		}
		return err
	}

	for _, comment := range comments {
		if strings.Contains(comment.Body, commentMarker) {
			if _, err := client.UpdateIssueComment(ctx, owner, repo, comment.ID, body); err != nil {
				if github.IsForbidden(err) {
					logger.Warn("cannot update pull request comment", "number", prNumber, "error", err)
					return nil
				}
				return err
			}
			logger.Info("updated size report comment", "number", prNumber, "comment", comment.ID)
			return nil
		}
	}

	if _, err := client.CreateIssueComment(ctx, owner, repo, prNumber, body); err != nil {
		if github.IsForbidden(err) {
			logger.Warn("cannot comment on pull request", "number", prNumber, "error", err)
			return nil
		}
		return err
	}
	logger.Info("posted size report comment", "number", prNumber)
	return nil
}
