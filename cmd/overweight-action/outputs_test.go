// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestOutputWriter_SimpleValue(t *testing.T) {
	var buffer bytes.Buffer
	outputs := &outputWriter{writer: &buffer}

	if err := outputs.Set("has-failures", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := buffer.String(); got != "has-failures=true\n" {
		t.Errorf("output = %q", got)
	}
}

func TestOutputWriter_MultilineUsesHeredoc(t *testing.T) {
	var buffer bytes.Buffer
	outputs := &outputWriter{writer: &buffer}

	value := "line one\nline two"
	if err := outputs.Set("json", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	pattern := regexp.MustCompile(`(?s)^json<<(ghadelimiter_[0-9a-f]{32})\nline one\nline two\n(ghadelimiter_[0-9a-f]{32})\n$`)
	matches := pattern.FindStringSubmatch(buffer.String())
	if matches == nil {
		t.Fatalf("output does not match heredoc form: %q", buffer.String())
	}
	if matches[1] != matches[2] {
		t.Errorf("opening and closing delimiters differ: %q vs %q", matches[1], matches[2])
	}
	if strings.Contains(value, matches[1]) {
		t.Error("delimiter collides with the value")
	}
}

func TestOutputWriter_SetBool(t *testing.T) {
	var buffer bytes.Buffer
	outputs := &outputWriter{writer: &buffer}

	if err := outputs.SetBool("baseline-updated", false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if got := buffer.String(); got != "baseline-updated=false\n" {
		t.Errorf("output = %q", got)
	}
}
