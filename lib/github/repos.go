// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// GetRepository fetches repository metadata, including the default
// branch name.
func (client *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	var repository Repository
	path := fmt.Sprintf("/repos/%s/%s", owner, repo)
	if err := client.get(ctx, path, &repository); err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	return &repository, nil
}

// GetContents fetches a file from a repository at the given ref. The
// ref may be empty for the default branch. Returns an error satisfying
// IsNotFound when the file or ref does not exist.
func (client *Client) GetContents(ctx context.Context, owner, repo, filePath, ref string) (*Contents, error) {
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapeContentsPath(filePath))
	if ref != "" {
		path += "?ref=" + url.QueryEscape(ref)
	}

	var contents Contents
	if err := client.get(ctx, path, &contents); err != nil {
		return nil, fmt.Errorf("fetching %s from %s/%s: %w", filePath, owner, repo, err)
	}
	return &contents, nil
}

// Decode returns the raw file bytes from a contents response.
func (contents *Contents) Decode() ([]byte, error) {
	switch contents.Encoding {
	case "base64":
		// GitHub wraps base64 content with newlines.
		compact := strings.ReplaceAll(contents.Content, "\n", "")
		data, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("github: decoding contents of %s: %w", contents.Path, err)
		}
		return data, nil
	case "", "none":
		return []byte(contents.Content), nil
	default:
		return nil, fmt.Errorf("github: unsupported contents encoding %q for %s", contents.Encoding, contents.Path)
	}
}

// PutContentsRequest holds the fields for creating or updating a file
// via the contents API.
type PutContentsRequest struct {
	// Message is the commit message.
	Message string `json:"message"`

	// Content is the raw file content. It is base64-encoded on the
	// wire by PutContents.
	Content []byte `json:"-"`

	// Branch is the branch to commit to. Empty means the default
	// branch.
	Branch string `json:"branch,omitempty"`

	// SHA is the blob SHA of the file being replaced. Required when
	// updating an existing file; GitHub rejects a stale SHA with 409,
	// which is the optimistic-concurrency signal.
	SHA string `json:"sha,omitempty"`
}

// PutContents creates or updates a file in a repository.
func (client *Client) PutContents(ctx context.Context, owner, repo, filePath string, request PutContentsRequest) (*ContentsCommit, error) {
	wireRequest := struct {
		PutContentsRequest
		EncodedContent string `json:"content"`
	}{
		PutContentsRequest: request,
		EncodedContent:     base64.StdEncoding.EncodeToString(request.Content),
	}

	var result ContentsCommit
	path := fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, escapeContentsPath(filePath))
	if err := client.put(ctx, path, wireRequest, &result); err != nil {
		return nil, fmt.Errorf("writing %s in %s/%s: %w", filePath, owner, repo, err)
	}
	return &result, nil
}

// escapeContentsPath escapes each path segment while preserving the
// slashes the contents API expects.
func escapeContentsPath(filePath string) string {
	segments := strings.Split(filePath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
