// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/overweight-ci/overweight/lib/check"
)

// jsonReporter writes the report as indented JSON to a stream.
type jsonReporter struct {
	out io.Writer
}

func (reporter *jsonReporter) Report(report *check.Report) error {
	data, err := Marshal(report)
	if err != nil {
		return err
	}
	if _, err := reporter.out.Write(data); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// jsonFileReporter writes the same JSON to a file.
type jsonFileReporter struct {
	path string
}

func (reporter *jsonFileReporter) Report(report *check.Report) error {
	data, err := Marshal(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(reporter.path, data, 0o644); err != nil {
		return fmt.Errorf("report: writing %s: %w", reporter.path, err)
	}
	return nil
}

// Marshal renders a report as indented JSON with a trailing newline.
// The shape is {"results": [...], "stats": {...}} and is shared by the
// json reporter, the json-file reporter, and the action output.
func Marshal(report *check.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshaling: %w", err)
	}
	return append(data, '\n'), nil
}
