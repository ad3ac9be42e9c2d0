// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
)

// GetRef fetches a git reference. The ref should be the full ref path
// without the "refs/" prefix (e.g., "heads/main"). Returns an error
// satisfying IsNotFound when the ref does not exist.
func (client *Client) GetRef(ctx context.Context, owner, repo, ref string) (*Ref, error) {
	var result Ref
	path := fmt.Sprintf("/repos/%s/%s/git/ref/%s", owner, repo, ref)
	if err := client.get(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("fetching ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return &result, nil
}

// CreateRef creates a git reference pointing at the given commit. The
// ref must be the full ref name including the "refs/" prefix (e.g.,
// "refs/heads/feature"). GitHub returns 422 when the ref already
// exists or the name collides with an existing ref prefix.
func (client *Client) CreateRef(ctx context.Context, owner, repo, ref, sha string) (*Ref, error) {
	var result Ref
	request := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{Ref: ref, SHA: sha}

	path := fmt.Sprintf("/repos/%s/%s/git/refs", owner, repo)
	if err := client.post(ctx, path, request, &result); err != nil {
		return nil, fmt.Errorf("creating ref %s in %s/%s: %w", ref, owner, repo, err)
	}
	return &result, nil
}
