// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/overweight-ci/overweight/lib/report"
)

// inputs collects everything the action reads from its environment:
// the INPUT_* variables the Actions runner sets from `with:` blocks,
// and the GITHUB_* variables describing the run. Parsed once at
// startup so the rest of the code never touches the environment.
type inputs struct {
	Token             string
	ConfigPath        string
	ReportFile        string
	BaselinePath      string
	UpdateBaseline    bool
	ProtectedBranches []string
	BranchPrefix      string
	PRTitle           string
	PRBody            string
	CommentOnPR       bool

	Owner      string
	Repo       string
	Branch     string
	RunID      string
	Workspace  string
	OutputPath string

	EventPRNumber int
	EventBaseRef  string
}

// environ is the subset of os lookup the parser needs, injectable for
// tests.
type environ func(key string) string

func parseInputs(getenv environ) (*inputs, error) {
	parsed := &inputs{
		Token:        getenv("INPUT_GITHUB_TOKEN"),
		ConfigPath:   getenv("INPUT_CONFIG"),
		ReportFile:   getenv("INPUT_REPORT_FILE"),
		BaselinePath: getenv("INPUT_BASELINE_PATH"),
		BranchPrefix: getenv("INPUT_BRANCH_PREFIX"),
		PRTitle:      getenv("INPUT_PR_TITLE"),
		PRBody:       getenv("INPUT_PR_BODY"),
		RunID:        getenv("GITHUB_RUN_ID"),
		Workspace:    getenv("GITHUB_WORKSPACE"),
		OutputPath:   getenv("GITHUB_OUTPUT"),
	}

	parsed.UpdateBaseline = isTrue(getenv("INPUT_UPDATE_BASELINE"))
	// Commenting defaults on; an explicit "false" disables it.
	parsed.CommentOnPR = getenv("INPUT_COMMENT_ON_PR") == "" || isTrue(getenv("INPUT_COMMENT_ON_PR"))

	if protected := getenv("INPUT_PROTECTED_BRANCHES"); protected != "" {
		for _, pattern := range strings.Split(protected, ",") {
			if trimmed := strings.TrimSpace(pattern); trimmed != "" {
				parsed.ProtectedBranches = append(parsed.ProtectedBranches, trimmed)
			}
		}
	}

	repository := getenv("GITHUB_REPOSITORY")
	if repository != "" {
		owner, repo, found := strings.Cut(repository, "/")
		if !found {
			return nil, fmt.Errorf("GITHUB_REPOSITORY %q is not owner/repo", repository)
		}
		parsed.Owner = owner
		parsed.Repo = repo
	}

	// PR-triggered runs check out a merge ref; the head branch lives
	// in GITHUB_HEAD_REF. Push runs use GITHUB_REF_NAME.
	parsed.Branch = getenv("GITHUB_HEAD_REF")
	if parsed.Branch == "" {
		parsed.Branch = getenv("GITHUB_REF_NAME")
	}

	if parsed.Workspace == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		parsed.Workspace = workingDir
	}
	if parsed.ReportFile == "" {
		parsed.ReportFile = report.DefaultReportFile
	}
	if parsed.BaselinePath == "" && parsed.UpdateBaseline {
		// Default the baseline next to the report file.
		parsed.BaselinePath = filepath.Join(filepath.Dir(parsed.ReportFile), "overweight-baseline.json")
	}

	if eventPath := getenv("GITHUB_EVENT_PATH"); eventPath != "" {
		if err := parsed.readEvent(eventPath); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// readEvent extracts the pull request number and base ref from the
// triggering event payload. Non-PR events simply lack the field.
func (parsed *inputs) readEvent(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading event payload %s: %w", path, err)
	}

	var event struct {
		PullRequest struct {
			Number int `json:"number"`
			Base   struct {
				Ref string `json:"ref"`
			} `json:"base"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("parsing event payload %s: %w", path, err)
	}

	parsed.EventPRNumber = event.PullRequest.Number
	parsed.EventBaseRef = event.PullRequest.Base.Ref
	return nil
}

func isTrue(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}
