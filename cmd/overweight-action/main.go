// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// overweight-action is the GitHub Actions surface of the size
// checker. It runs the same check engine as the overweight CLI, then
// layers on the Actions plumbing: INPUT_* configuration, GITHUB_OUTPUT
// values (JSON report, HTML table, flags), a create-or-update size
// report comment on the triggering pull request, and baseline
// reconciliation against the hosting API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/overweight-ci/overweight/lib/baseline"
	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/github"
	"github.com/overweight-ci/overweight/lib/reconcile"
	"github.com/overweight-ci/overweight/lib/report"
	"github.com/overweight-ci/overweight/lib/sizeconfig"
	"github.com/overweight-ci/overweight/lib/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("overweight-action")
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	hasFailures, err := run(context.Background(), logger)
	if err != nil {
		logger.Error("action failed", "error", err)
		os.Exit(1)
	}
	if hasFailures {
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) (hasFailures bool, err error) {
	config, err := parseInputs(os.Getenv)
	if err != nil {
		return false, err
	}

	outputs, closeOutputs, err := openOutputs(config.OutputPath)
	if err != nil {
		return false, err
	}
	defer func() {
		if closeErr := closeOutputs(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Run the checks.
	raw, err := sizeconfig.Load(config.Workspace, config.ConfigPath)
	if err != nil {
		return false, err
	}
	normalized, err := sizeconfig.Normalize(raw, config.Workspace)
	if err != nil {
		return false, err
	}
	result, err := check.RunChecks(ctx, normalized, check.Options{Logger: logger})
	if err != nil {
		return false, err
	}

	// Machine-readable surfaces: the report file and the outputs.
	reportJSON, err := report.Marshal(result)
	if err != nil {
		return false, err
	}
	reportPath := config.ReportFile
	if !filepath.IsAbs(reportPath) {
		reportPath = filepath.Join(config.Workspace, reportPath)
	}
	if err := os.WriteFile(reportPath, reportJSON, 0o644); err != nil {
		return false, fmt.Errorf("writing report file: %w", err)
	}

	markdownTable := report.MarkdownTable(result)
	htmlTable, err := report.RenderHTML(markdownTable)
	if err != nil {
		return false, err
	}

	if err := outputs.Set("json", string(reportJSON)); err != nil {
		return false, err
	}
	if err := outputs.Set("html", htmlTable); err != nil {
		return false, err
	}
	if err := outputs.SetBool("has-failures", result.Stats.HasFailures); err != nil {
		return false, err
	}
	if err := outputs.Set("report-file", reportPath); err != nil {
		return false, err
	}

	// Baseline comparison against the locally checked-out snapshot.
	var comparisons []baseline.Comparison
	entries := baseline.FromResults(result.Results)
	if config.BaselinePath != "" {
		previous, err := baseline.Load(filepath.Join(config.Workspace, config.BaselinePath))
		if err != nil {
			return false, err
		}
		if previous != nil {
			comparisons = baseline.Merge(entries, previous)
		}
	}

	// API-backed surfaces need credentials; commenting quietly skips
	// without them, baseline updates treat their absence as fatal.
	var client *github.Client
	if config.Token != "" {
		client, err = github.NewClient(github.Config{Token: config.Token, Logger: logger})
		if err != nil {
			return false, err
		}
	}

	if config.CommentOnPR && config.EventPRNumber > 0 {
		if client == nil {
			logger.Warn("no token configured, skipping pull request comment")
		} else {
			body := composeComment(result, comparisons)
			if err := upsertComment(ctx, client, logger, config.Owner, config.Repo, config.EventPRNumber, body); err != nil {
				return false, err
			}
		}
	}

	outcome := &reconcile.Outcome{SkipReason: "baseline updates disabled"}
	if config.UpdateBaseline {
		if client == nil {
			return false, fmt.Errorf("update-baseline is enabled but no github token was provided")
		}
		reconciler, err := reconcile.New(reconcile.Options{
			Client:            client,
			BaselinePath:      config.BaselinePath,
			ProtectedPatterns: config.ProtectedBranches,
			BranchPrefix:      config.BranchPrefix,
			PRTitle:           config.PRTitle,
			PRBody:            config.PRBody,
			Logger:            logger,
		})
		if err != nil {
			return false, err
		}
		outcome, err = reconciler.Reconcile(ctx, reconcile.RunContext{
			Owner:         config.Owner,
			Repo:          config.Repo,
			Branch:        config.Branch,
			RunID:         config.RunID,
			EventPRNumber: config.EventPRNumber,
			EventBaseRef:  config.EventBaseRef,
		}, result.Stats, entries)
		if err != nil {
			return false, err
		}
	}

	if err := outputs.SetBool("baseline-updated", outcome.Updated); err != nil {
		return false, err
	}
	if outcome.PRNumber > 0 {
		if err := outputs.Set("baseline-pr-number", fmt.Sprintf("%d", outcome.PRNumber)); err != nil {
			return false, err
		}
		if err := outputs.Set("baseline-pr-url", outcome.PRURL); err != nil {
			return false, err
		}
	}

	return result.Stats.HasFailures, nil
}
