// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ListPullRequestsOptions filters a pull request listing.
type ListPullRequestsOptions struct {
	// State filters by PR state: "open", "closed", or "all".
	// Defaults to "open".
	State string

	// Head filters by head branch in "owner:branch" form.
	Head string

	// Base filters by base branch name.
	Base string
}

func (options ListPullRequestsOptions) queryParams() string {
	values := url.Values{}
	if options.State != "" {
		values.Set("state", options.State)
	}
	if options.Head != "" {
		values.Set("head", options.Head)
	}
	if options.Base != "" {
		values.Set("base", options.Base)
	}
	return values.Encode()
}

// ListPullRequests lists pull requests matching the given filters.
func (client *Client) ListPullRequests(ctx context.Context, owner, repo string, options ListPullRequestsOptions) ([]PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	if query := options.queryParams(); query != "" {
		path += "?" + query
	}

	var pullRequests []PullRequest
	if err := client.get(ctx, path, &pullRequests); err != nil {
		return nil, fmt.Errorf("listing pull requests in %s/%s: %w", owner, repo, err)
	}
	return pullRequests, nil
}

// CreatePullRequestRequest contains the fields for opening a pull
// request.
type CreatePullRequestRequest struct {
	// Title is the PR title.
	Title string `json:"title"`

	// Body is the PR description in markdown.
	Body string `json:"body,omitempty"`

	// Head is the branch with the changes.
	Head string `json:"head"`

	// Base is the branch to merge into.
	Base string `json:"base"`

	// Draft opens the PR as a draft.
	Draft bool `json:"draft,omitempty"`
}

// CreatePullRequest opens a pull request.
func (client *Client) CreatePullRequest(ctx context.Context, owner, repo string, request CreatePullRequestRequest) (*PullRequest, error) {
	var pullRequest PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	if err := client.post(ctx, path, request, &pullRequest); err != nil {
		return nil, fmt.Errorf("creating pull request in %s/%s: %w", owner, repo, err)
	}
	return &pullRequest, nil
}

// HeadFilter formats a branch name as the "owner:branch" head filter
// the list endpoint expects.
func HeadFilter(owner, branch string) string {
	return strings.Join([]string{owner, branch}, ":")
}
