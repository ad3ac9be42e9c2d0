// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// outputWriter appends key/value pairs in the GITHUB_OUTPUT file
// format. Multiline values use the heredoc form with a random
// delimiter, as the runner requires.
type outputWriter struct {
	writer io.Writer
}

// openOutputs opens the GITHUB_OUTPUT file for appending. An empty
// path (running outside Actions) yields a writer that discards.
func openOutputs(path string) (*outputWriter, func() error, error) {
	if path == "" {
		return &outputWriter{writer: io.Discard}, func() error { return nil }, nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &outputWriter{writer: file}, file.Close, nil
}

// Set writes one output value.
func (outputs *outputWriter) Set(key, value string) error {
	if !strings.Contains(value, "\n") {
		_, err := fmt.Fprintf(outputs.writer, "%s=%s\n", key, value)
		return err
	}

	delimiter, err := heredocDelimiter(value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(outputs.writer, "%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter)
	return err
}

// SetBool writes a boolean output.
func (outputs *outputWriter) SetBool(key string, value bool) error {
	return outputs.Set(key, fmt.Sprintf("%t", value))
}

// heredocDelimiter picks a delimiter that cannot appear in the value.
// A random token suffices; collide and we try again.
func heredocDelimiter(value string) (string, error) {
	for range 10 {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("generating output delimiter: %w", err)
		}
		delimiter := "ghadelimiter_" + hex.EncodeToString(raw)
		if !strings.Contains(value, delimiter) {
			return delimiter, nil
		}
	}
	return "", fmt.Errorf("could not generate an output delimiter")
}
