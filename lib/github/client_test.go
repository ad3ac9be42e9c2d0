// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/overweight-ci/overweight/lib/clock"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_HTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{
		BaseURL: "http://api.github.com",
		Token:   "test",
	})
	if err == nil {
		t.Fatal("expected error for HTTP URL")
	}
	if got := err.Error(); got != `github: API client requires HTTPS (got "http://api.github.com")` {
		t.Errorf("unexpected error: %s", got)
	}
}

func TestNewClient_NoToken(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://api.github.com"})
	if err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestClient_AuthAndVersionHeaders(t *testing.T) {
	var receivedAuth, receivedVersion string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth = request.Header.Get("Authorization")
		receivedVersion = request.Header.Get("X-GitHub-Api-Version")
		writer.Write([]byte(`{"name":"repo","default_branch":"main"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.GetRepository(context.Background(), "owner", "repo"); err != nil {
		t.Fatalf("GetRepository: %v", err)
	}

	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", receivedAuth)
	}
	if receivedVersion != githubAPIVersion {
		t.Errorf("X-GitHub-Api-Version = %q, want %q", receivedVersion, githubAPIVersion)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		writer.Write([]byte(`{"message":"Not Found","documentation_url":"https://docs.github.com"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetRef(context.Background(), "owner", "repo", "heads/missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsRateLimited(err) {
		t.Errorf("IsRateLimited(%v) = true, want false", err)
	}
}

func TestClient_RateLimitRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts++
		if attempts == 1 {
			writer.Header().Set("Retry-After", "1")
			writer.WriteHeader(http.StatusTooManyRequests)
			writer.Write([]byte(`{"message":"API rate limit exceeded"}`))
			return
		}
		writer.Write([]byte(`{"name":"repo","default_branch":"main"}`))
	}))
	defer server.Close()

	fakeClock := clock.Fake(time.Unix(1700000000, 0))
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      fakeClock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := client.GetRepository(context.Background(), "owner", "repo")
		done <- err
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(time.Second)

	if err := <-done; err != nil {
		t.Fatalf("GetRepository after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestClient_PreemptiveRateLimitWait(t *testing.T) {
	now := time.Unix(1700000000, 0)
	fakeClock := clock.Fake(now)

	requests := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++
		if requests == 1 {
			// Exhausted: remaining 0, resets in 30 seconds.
			writer.Header().Set("X-RateLimit-Remaining", "0")
			writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(30*time.Second).Unix(), 10))
		}
		writer.Write([]byte(`{"name":"repo","default_branch":"main"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      fakeClock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.GetRepository(context.Background(), "owner", "repo"); err != nil {
		t.Fatalf("first request: %v", err)
	}

	// The second request must block on the exhausted window until the
	// fake clock advances past the reset.
	done := make(chan error, 1)
	go func() {
		_, err := client.GetRepository(context.Background(), "owner", "repo")
		done <- err
	}()

	fakeClock.WaitForTimers(1)
	fakeClock.Advance(30 * time.Second)

	if err := <-done; err != nil {
		t.Fatalf("second request: %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
}
