// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package fileglob

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		// Exact.
		{"dist/app.js", "dist/app.js", true},
		{"dist/app.js", "dist/other.js", false},

		// Single-segment wildcard does not cross /.
		{"dist/*.js", "dist/app.js", true},
		{"dist/*.js", "dist/vendor/app.js", false},
		{"dist/*.js", "dist/app.css", false},
		{"*.js", "app.js", true},
		{"*.js", "dist/app.js", false},

		// Dotfiles match like any other name.
		{"dist/*", "dist/.hidden", true},
		{"*", ".env", true},

		// Universal.
		{"**", "anything/at/all.js", true},
		{"**", "top.js", true},

		// Recursive suffix.
		{"dist/**", "dist/app.js", true},
		{"dist/**", "dist/vendor/app.js", true},
		{"dist/**", "src/app.js", false},
		{"dist/**", "dist", true},

		// Recursive prefix.
		{"**/app.js", "app.js", true},
		{"**/app.js", "dist/app.js", true},
		{"**/app.js", "dist/vendor/app.js", true},
		{"**/app.js", "dist/other.js", false},

		// Interior recursive.
		{"dist/**/*.js", "dist/app.js", true},
		{"dist/**/*.js", "dist/vendor/app.js", true},
		{"dist/**/*.js", "dist/vendor/deep/app.js", true},
		{"dist/**/*.js", "src/app.js", false},
		{"dist/**/*.js", "dist/app.css", false},

		// Character wildcard.
		{"dist/app-?.js", "dist/app-1.js", true},
		{"dist/app-?.js", "dist/app-12.js", false},

		// Malformed pattern matches nothing.
		{"dist/[.js", "dist/a.js", false},
	}
	for _, test := range tests {
		t.Run(test.pattern+"/"+test.name, func(t *testing.T) {
			if got := Match(test.pattern, test.name); got != test.want {
				t.Errorf("Match(%q, %q) = %v, want %v", test.pattern, test.name, got, test.want)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	patterns := []string{"main", "master", "release/*"}
	if !MatchAny(patterns, "main") {
		t.Error("main should match")
	}
	if !MatchAny(patterns, "release/v2") {
		t.Error("release/v2 should match")
	}
	if MatchAny(patterns, "feature/x") {
		t.Error("feature/x should not match")
	}
	if MatchAny(nil, "main") {
		t.Error("empty pattern list should match nothing")
	}
}
