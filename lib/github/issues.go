// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
)

// ListIssueComments lists comments on an issue or pull request, oldest
// first. A single page of 100 covers any realistic PR discussion that
// contains a size-report comment; callers searching for a marker scan
// the returned slice.
func (client *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	var comments []Comment
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments?per_page=100", owner, repo, number)
	if err := client.get(ctx, path, &comments); err != nil {
		return nil, fmt.Errorf("listing comments on %s/%s#%d: %w", owner, repo, number, err)
	}
	return comments, nil
}

// CreateIssueComment posts a comment on an issue or pull request.
func (client *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	var comment Comment
	request := struct {
		Body string `json:"body"`
	}{Body: body}

	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	if err := client.post(ctx, path, request, &comment); err != nil {
		return nil, fmt.Errorf("commenting on %s/%s#%d: %w", owner, repo, number, err)
	}
	return &comment, nil
}

// UpdateIssueComment replaces the body of an existing comment.
func (client *Client) UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (*Comment, error) {
	var comment Comment
	request := struct {
		Body string `json:"body"`
	}{Body: body}

	path := fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
	if err := client.patch(ctx, path, request, &comment); err != nil {
		return nil, fmt.Errorf("updating comment %d in %s/%s: %w", commentID, owner, repo, err)
	}
	return &comment, nil
}
