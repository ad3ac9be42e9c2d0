// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/overweight-ci/overweight/lib/baseline"
	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/clock"
	"github.com/overweight-ci/overweight/lib/github"
)

func sampleCommentReport() *check.Report {
	passing := int64(90)
	failing := int64(150)
	under := int64(-10)
	over := int64(50)
	return &check.Report{
		Results: []check.Result{
			{
				Label:           "app bundle",
				FilePath:        "dist/app.js",
				TesterID:        "gzip",
				MeasuredBytes:   &passing,
				MeasuredDisplay: "90 B",
				MaxBytes:        100,
				MaxDisplay:      "100 B",
				DiffBytes:       &under,
				Passed:          true,
			},
			{
				Label:           "vendor bundle",
				FilePath:        "dist/vendor.js",
				TesterID:        "gzip",
				MeasuredBytes:   &failing,
				MeasuredDisplay: "150 B",
				MaxBytes:        100,
				MaxDisplay:      "100 B",
				DiffBytes:       &over,
			},
		},
		Stats: check.Summary{Files: 2, Failures: 1, HasFailures: true},
	}
}

func TestComposeComment(t *testing.T) {
	previous := int64(80)
	comparisons := []baseline.Comparison{
		{
			Entry:         baseline.Entry{File: "dist/app.js", Size: "90 B"},
			PreviousBytes: &previous,
			DeltaBytes:    10,
			DeltaDisplay:  "+10 B",
			Trend:         "up",
		},
		{
			Entry:        baseline.Entry{File: "dist/vendor.js", Size: "150 B"},
			DeltaDisplay: "N/A",
		},
	}

	body := composeComment(sampleCommentReport(), comparisons)

	if !strings.HasPrefix(body, commentMarker) {
		t.Errorf("comment does not start with the marker:\n%s", body)
	}
	for _, want := range []string{
		"## Size report",
		"dist/app.js",
		"dist/vendor.js",
		"### Compared to baseline",
		"+10 B",
		"📈",
		"N/A",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("comment missing %q:\n%s", want, body)
		}
	}
}

func TestComposeComment_NoBaselineSection(t *testing.T) {
	body := composeComment(sampleCommentReport(), nil)
	if strings.Contains(body, "Compared to baseline") {
		t.Errorf("comment has a baseline section with no comparisons:\n%s", body)
	}
}

func newCommentClient(t *testing.T, handler http.Handler) (*github.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	client, err := github.NewClient(github.Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestUpsertComment_CreatesWhenAbsent(t *testing.T) {
	var created string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "body": "unrelated comment"}]`)
	})
	mux.HandleFunc("POST /repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decoding comment body: %v", err)
		}
		created = request.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 2, "body": ""}`)
	})

	client, _ := newCommentClient(t, mux)
	logger := slog.New(slog.DiscardHandler)
	body := composeComment(sampleCommentReport(), nil)

	if err := upsertComment(context.Background(), client, logger, "o", "r", 7, body); err != nil {
		t.Fatalf("upsertComment: %v", err)
	}
	if !strings.Contains(created, commentMarker) {
		t.Errorf("created comment missing marker:\n%s", created)
	}
}

func TestUpsertComment_UpdatesExisting(t *testing.T) {
	var patched bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id": 12, "body": "%s\nold table"}]`, commentMarker)
	})
	mux.HandleFunc("PATCH /repos/o/r/issues/comments/12", func(w http.ResponseWriter, r *http.Request) {
		patched = true
		fmt.Fprint(w, `{"id": 12, "body": ""}`)
	})
	mux.HandleFunc("POST /repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		t.Error("created a new comment instead of updating the existing one")
	})

	client, _ := newCommentClient(t, mux)
	logger := slog.New(slog.DiscardHandler)

	if err := upsertComment(context.Background(), client, logger, "o", "r", 7, "new body"); err != nil {
		t.Fatalf("upsertComment: %v", err)
	}
	if !patched {
		t.Error("existing comment was not updated")
	}
}

func TestUpsertComment_ForbiddenIsNotFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/o/r/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "Resource not accessible by integration"}`)
	})

	client, _ := newCommentClient(t, mux)
	logger := slog.New(slog.DiscardHandler)

	// Fork PRs run with a read-only token. Failing to comment must not
	// fail the build.
	if err := upsertComment(context.Background(), client, logger, "o", "r", 7, "body"); err != nil {
		t.Fatalf("upsertComment: %v", err)
	}
}
