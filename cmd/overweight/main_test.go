// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"
)

func TestRun_VersionFlag(t *testing.T) {
	// --version must work in any position, not just as the first
	// argument.
	for _, args := range [][]string{
		{"--version"},
		{"--verbose", "--version"},
	} {
		if err := run(args); err != nil {
			t.Errorf("run(%v) = %v, want nil", args, err)
		}
	}
}

func TestRun_QuickCheckRequiresBothFlags(t *testing.T) {
	err := run([]string{"--pattern", "dist/*.js"})
	if err == nil {
		t.Fatal("expected an error for --pattern without --max-size")
	}
	if !strings.Contains(err.Error(), "--max-size") {
		t.Errorf("error %q does not name the missing flag", err)
	}
}
