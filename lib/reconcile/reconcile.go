// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package reconcile persists an updated size baseline to a dedicated
// branch and pull request on the hosting side. It is a small
// sequential state machine: gate on run health and branch protection,
// check idempotence against the remote content, derive a
// deterministic update branch, ensure it exists, commit the canonical
// snapshot with an optimistic-concurrency SHA, and reuse or open a
// pull request. Re-running on unchanged output performs zero remote
// writes.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/overweight-ci/overweight/lib/baseline"
	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/clock"
	"github.com/overweight-ci/overweight/lib/fileglob"
	"github.com/overweight-ci/overweight/lib/github"
)

// DefaultProtectedPatterns are the branch patterns on which baseline
// updates are never attempted.
var DefaultProtectedPatterns = []string{"main", "master"}

// DefaultBranchPrefix namespaces the update branches this package
// creates.
const DefaultBranchPrefix = "overweight"

// DefaultBaseFallback is the base branch used when neither the
// triggering event nor the repository metadata yields one.
const DefaultBaseFallback = "main"

// RetryPolicy bounds the commit retry loop. The zero value is
// replaced by DefaultRetryPolicy.
type RetryPolicy struct {
	// MaxAttempts is the total number of commit attempts.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration

	// Multiplier scales the delay after each attempt.
	Multiplier int
}

// DefaultRetryPolicy retries the commit five times with exponential
// backoff starting at one second.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   time.Second,
	Multiplier:  2,
}

// Options configures a Reconciler.
type Options struct {
	// Client performs the hosting API calls. Required.
	Client *github.Client

	// BaselinePath is the repository-relative path of the baseline
	// file. Required.
	BaselinePath string

	// ProtectedPatterns are glob-style branch patterns that block
	// updates. Nil means DefaultProtectedPatterns.
	ProtectedPatterns []string

	// BranchPrefix namespaces update branches. Empty means
	// DefaultBranchPrefix.
	BranchPrefix string

	// PRTitle and PRBody are used when a new pull request is opened.
	PRTitle string
	PRBody  string

	// CommitMessage is the commit message for baseline writes.
	CommitMessage string

	// Retry bounds the commit retry loop. Zero value means
	// DefaultRetryPolicy.
	Retry RetryPolicy

	// Clock provides time operations for backoff. Defaults to
	// clock.Real(); tests inject clock.Fake() with a zero-delay
	// policy.
	Clock clock.Clock

	// Logger receives state machine progress. Nil discards.
	Logger *slog.Logger
}

// RunContext carries the per-run facts the state machine needs,
// passed explicitly instead of read from the process environment.
type RunContext struct {
	// Owner and Repo identify the repository.
	Owner string
	Repo  string

	// Branch is the branch the checked commit lives on.
	Branch string

	// RunID uniquely identifies this CI run. Used only as the
	// last-resort branch name component.
	RunID string

	// EventPRNumber is the pull request number from the triggering
	// event, zero when the run was not PR-triggered.
	EventPRNumber int

	// EventBaseRef is the PR base branch from the triggering event,
	// empty when unknown.
	EventBaseRef string
}

// Outcome reports what the state machine did.
type Outcome struct {
	// Updated is true when a baseline commit was made.
	Updated bool

	// Branch is the update branch name, set when an update happened.
	Branch string

	// PRNumber and PRURL identify the pull request carrying the
	// update, whether reused or created.
	PRNumber int
	PRURL    string

	// SkipReason explains why no update happened ("run has failures",
	// "protected branch", "baseline unchanged"). Empty when Updated.
	SkipReason string
}

// Reconciler drives the baseline update state machine.
type Reconciler struct {
	client        *github.Client
	baselinePath  string
	protected     []string
	branchPrefix  string
	prTitle       string
	prBody        string
	commitMessage string
	retry         RetryPolicy
	clock         clock.Clock
	logger        *slog.Logger
}

// New validates options and builds a Reconciler. A missing client is
// a fatal configuration error: when updates are requested there is no
// degraded mode.
func New(opts Options) (*Reconciler, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("reconcile: no API client configured (baseline updates require credentials)")
	}
	if opts.BaselinePath == "" {
		return nil, fmt.Errorf("reconcile: no baseline path configured")
	}

	protected := opts.ProtectedPatterns
	if protected == nil {
		protected = DefaultProtectedPatterns
	}
	branchPrefix := opts.BranchPrefix
	if branchPrefix == "" {
		branchPrefix = DefaultBranchPrefix
	}
	prTitle := opts.PRTitle
	if prTitle == "" {
		prTitle = "Update size baseline"
	}
	commitMessage := opts.CommitMessage
	if commitMessage == "" {
		commitMessage = "Update size baseline"
	}
	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		client:        opts.Client,
		baselinePath:  opts.BaselinePath,
		protected:     protected,
		branchPrefix:  branchPrefix,
		prTitle:       prTitle,
		prBody:        opts.PRBody,
		commitMessage: commitMessage,
		retry:         retry,
		clock:         clk,
		logger:        logger,
	}, nil
}

// Reconcile runs the state machine for one completed check run. The
// entries are the new snapshot computed from the run's results. A nil
// error with Outcome.Updated == false means the run was legitimately
// skipped; the reason is in SkipReason.
func (reconciler *Reconciler) Reconcile(ctx context.Context, run RunContext, summary check.Summary, entries []baseline.Entry) (*Outcome, error) {
	// A broken build must never become the new baseline.
	if summary.HasFailures {
		reconciler.logger.Info("skipping baseline update", "reason", "run has failures")
		return &Outcome{SkipReason: "run has failures"}, nil
	}

	if fileglob.MatchAny(reconciler.protected, run.Branch) {
		reconciler.logger.Info("skipping baseline update",
			"reason", "protected branch", "branch", run.Branch)
		return &Outcome{SkipReason: "protected branch"}, nil
	}

	content, err := baseline.Marshal(entries)
	if err != nil {
		return nil, err
	}

	baseBranch := reconciler.resolveBaseBranch(ctx, run)

	prNumber, err := reconciler.resolvePRNumber(ctx, run)
	if err != nil {
		return nil, err
	}

	updateBranch, err := reconciler.updateBranchName(ctx, run, prNumber)
	if err != nil {
		return nil, err
	}

	// Idempotence: if the canonical serialization matches what is
	// already stored, stop before touching any ref.
	branchExists, existingSHA, identical, err := reconciler.inspectRemote(ctx, run, updateBranch, baseBranch, content)
	if err != nil {
		return nil, err
	}
	if identical {
		reconciler.logger.Info("baseline unchanged, nothing to do", "path", reconciler.baselinePath)
		return &Outcome{SkipReason: "baseline unchanged"}, nil
	}

	if !branchExists {
		if err := reconciler.ensureBranch(ctx, run, updateBranch, baseBranch); err != nil {
			return nil, err
		}
	}

	if err := reconciler.commitWithRetry(ctx, run, updateBranch, baseBranch, existingSHA, content); err != nil {
		return nil, err
	}

	pullRequest, err := reconciler.reuseOrCreatePR(ctx, run, updateBranch, baseBranch)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Updated:  true,
		Branch:   updateBranch,
		PRNumber: pullRequest.Number,
		PRURL:    pullRequest.HTMLURL,
	}, nil
}

// resolveBaseBranch picks the branch updates should target: the
// triggering PR's base ref, else the repository's live default
// branch, else the hardcoded fallback. The live-query tier degrades
// to the fallback on API failure instead of aborting.
func (reconciler *Reconciler) resolveBaseBranch(ctx context.Context, run RunContext) string {
	if run.EventBaseRef != "" {
		reconciler.logger.Debug("base branch from event", "base", run.EventBaseRef)
		return run.EventBaseRef
	}

	repository, err := reconciler.client.GetRepository(ctx, run.Owner, run.Repo)
	if err == nil && repository.DefaultBranch != "" {
		reconciler.logger.Debug("base branch from repository metadata", "base", repository.DefaultBranch)
		return repository.DefaultBranch
	}
	if err != nil {
		reconciler.logger.Warn("could not query default branch, using fallback",
			"fallback", DefaultBaseFallback, "error", err)
	}
	return DefaultBaseFallback
}

// resolvePRNumber finds the pull request associated with the current
// branch: the triggering event's number when present, else the first
// open PR whose head is the branch.
func (reconciler *Reconciler) resolvePRNumber(ctx context.Context, run RunContext) (int, error) {
	if run.EventPRNumber > 0 {
		return run.EventPRNumber, nil
	}
	if run.Branch == "" {
		return 0, nil
	}

	pullRequests, err := reconciler.client.ListPullRequests(ctx, run.Owner, run.Repo, github.ListPullRequestsOptions{
		State: "open",
		Head:  github.HeadFilter(run.Owner, run.Branch),
	})
	if err != nil {
		return 0, err
	}
	if len(pullRequests) > 0 {
		return pullRequests[0].Number, nil
	}
	return 0, nil
}

// updateBranchName derives the deterministic update branch:
// {prefix}/pr-{number} when a PR is known, else {prefix}/{sanitized
// source branch}, else {prefix}/run-{id}. Determinism is what lets
// repeated pushes converge on one branch and one PR.
func (reconciler *Reconciler) updateBranchName(ctx context.Context, run RunContext, prNumber int) (string, error) {
	var suffix string
	switch {
	case prNumber > 0:
		suffix = fmt.Sprintf("pr-%d", prNumber)
	case run.Branch != "":
		suffix = sanitizeBranchName(run.Branch)
	default:
		suffix = "run-" + run.RunID
	}

	candidate := reconciler.branchPrefix + "/" + suffix
	collides, err := reconciler.refPrefixCollides(ctx, run, candidate)
	if err != nil {
		return "", err
	}
	if collides {
		// Git forbids a ref being both a file and a directory, so a
		// flattened name sidesteps the existing ref.
		flattened := strings.ReplaceAll(candidate, "/", "-")
		reconciler.logger.Warn("branch name collides with existing ref, flattening",
			"candidate", candidate, "flattened", flattened)
		return flattened, nil
	}
	return candidate, nil
}

// refPrefixCollides probes whether any strict prefix of the candidate
// branch path already exists as a ref.
func (reconciler *Reconciler) refPrefixCollides(ctx context.Context, run RunContext, candidate string) (bool, error) {
	segments := strings.Split(candidate, "/")
	prefix := ""
	for _, segment := range segments[:len(segments)-1] {
		if prefix != "" {
			prefix += "/"
		}
		prefix += segment

		_, err := reconciler.client.GetRef(ctx, run.Owner, run.Repo, "heads/"+prefix)
		if err == nil {
			return true, nil
		}
		if !github.IsNotFound(err) {
			return false, err
		}
	}
	return false, nil
}

// inspectRemote determines whether the update branch exists, the
// stored baseline's blob SHA, and whether the stored content is
// byte-identical to the new snapshot. The file is read from the
// update branch when it exists, else from the base branch.
func (reconciler *Reconciler) inspectRemote(ctx context.Context, run RunContext, updateBranch, baseBranch string, content []byte) (branchExists bool, sha string, identical bool, err error) {
	_, refErr := reconciler.client.GetRef(ctx, run.Owner, run.Repo, "heads/"+updateBranch)
	switch {
	case refErr == nil:
		branchExists = true
	case github.IsNotFound(refErr):
		branchExists = false
	default:
		return false, "", false, refErr
	}

	readRef := baseBranch
	if branchExists {
		readRef = updateBranch
	}

	contents, contentsErr := reconciler.client.GetContents(ctx, run.Owner, run.Repo, reconciler.baselinePath, readRef)
	if contentsErr != nil {
		if github.IsNotFound(contentsErr) {
			// No stored baseline yet: create-new-file semantics.
			return branchExists, "", false, nil
		}
		return false, "", false, contentsErr
	}

	stored, decodeErr := contents.Decode()
	if decodeErr != nil {
		return false, "", false, decodeErr
	}

	// The SHA is the optimistic-concurrency token for the commit. When
	// the update branch is about to be created from the base tip it
	// carries the same blob, so the base-side SHA is the right token
	// either way; the contents API rejects an overwrite without one.
	return branchExists, contents.SHA, string(stored) == string(content), nil
}

// ensureBranch creates the update branch from the base branch's tip.
func (reconciler *Reconciler) ensureBranch(ctx context.Context, run RunContext, updateBranch, baseBranch string) error {
	baseRef, err := reconciler.client.GetRef(ctx, run.Owner, run.Repo, "heads/"+baseBranch)
	if err != nil {
		return fmt.Errorf("reconcile: resolving base branch %s: %w", baseBranch, err)
	}

	_, err = reconciler.client.CreateRef(ctx, run.Owner, run.Repo, "refs/heads/"+updateBranch, baseRef.Object.SHA)
	if err != nil {
		// Another concurrent run may have just created it.
		if github.IsValidationFailed(err) {
			reconciler.logger.Debug("branch already exists", "branch", updateBranch)
			return nil
		}
		return fmt.Errorf("reconcile: creating branch %s: %w", updateBranch, err)
	}

	reconciler.logger.Info("created update branch", "branch", updateBranch, "base", baseBranch)
	return nil
}

// commitWithRetry writes the snapshot to the update branch. A 404 on
// the write is the eventual-consistency race right after branch
// creation: back off, re-ensure the branch, and retry up to the
// policy's budget.
func (reconciler *Reconciler) commitWithRetry(ctx context.Context, run RunContext, updateBranch, baseBranch, sha string, content []byte) error {
	delay := reconciler.retry.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= reconciler.retry.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-reconciler.clock.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= time.Duration(reconciler.retry.Multiplier)

			if err := reconciler.ensureBranch(ctx, run, updateBranch, baseBranch); err != nil {
				lastErr = err
				continue
			}
		}

		_, err := reconciler.client.PutContents(ctx, run.Owner, run.Repo, reconciler.baselinePath, github.PutContentsRequest{
			Message: reconciler.commitMessage,
			Content: content,
			Branch:  updateBranch,
			SHA:     sha,
		})
		if err == nil {
			reconciler.logger.Info("committed baseline",
				"path", reconciler.baselinePath, "branch", updateBranch)
			return nil
		}
		if !github.IsNotFound(err) {
			return err
		}

		reconciler.logger.Warn("baseline commit hit missing ref, retrying",
			"branch", updateBranch, "attempt", attempt, "error", err)
		lastErr = err
	}

	return fmt.Errorf("reconcile: committing baseline after %d attempts: %w",
		reconciler.retry.MaxAttempts, lastErr)
}

// reuseOrCreatePR finds an open pull request whose head is the update
// branch, or opens a new one targeting the base branch. When one
// exists the commit alone has already updated it.
func (reconciler *Reconciler) reuseOrCreatePR(ctx context.Context, run RunContext, updateBranch, baseBranch string) (*github.PullRequest, error) {
	existing, err := reconciler.client.ListPullRequests(ctx, run.Owner, run.Repo, github.ListPullRequestsOptions{
		State: "open",
		Head:  github.HeadFilter(run.Owner, updateBranch),
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		reconciler.logger.Info("reusing open pull request", "number", existing[0].Number)
		return &existing[0], nil
	}

	pullRequest, err := reconciler.client.CreatePullRequest(ctx, run.Owner, run.Repo, github.CreatePullRequestRequest{
		Title: reconciler.prTitle,
		Body:  reconciler.prBody,
		Head:  updateBranch,
		Base:  baseBranch,
	})
	if err != nil {
		return nil, err
	}
	reconciler.logger.Info("opened pull request", "number", pullRequest.Number, "url", pullRequest.HTMLURL)
	return pullRequest, nil
}

// sanitizeBranchName collapses runs of non-alphanumeric characters to
// single hyphens.
func sanitizeBranchName(name string) string {
	var builder strings.Builder
	lastHyphen := false
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			builder.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			builder.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(builder.String(), "-")
}
