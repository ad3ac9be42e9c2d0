// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// overweight checks built artifacts against configured size budgets.
// It loads configuration (file, package manifest field, inline flags,
// or an inline JSON rule array), measures every matched file with the
// configured tester, and reports the results. The exit code is the CI
// signal: 0 when every check passes, 1 on any failure or error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/overweight-ci/overweight/lib/check"
	"github.com/overweight-ci/overweight/lib/report"
	"github.com/overweight-ci/overweight/lib/sizeconfig"
	"github.com/overweight-ci/overweight/lib/version"
)

func main() {
	err := run(os.Args[1:])
	if err == nil {
		return
	}
	if _, failed := err.(failuresError); !failed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

// failuresError signals a completed run with failing checks. The
// results were already reported, so main prints nothing extra.
type failuresError struct{}

func (failuresError) Error() string { return "size checks failed" }

func run(args []string) error {
	var (
		configPath  string
		root        string
		reporter    string
		reportFile  string
		pattern     string
		maxSize     string
		compression string
		rulesJSON   string
		verbose     bool
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("overweight", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a configuration file")
	flagSet.StringVar(&root, "root", "", "directory patterns resolve against (overrides the config's root)")
	flagSet.StringVar(&reporter, "reporter", "console", "output format: console, json, json-file, silent")
	flagSet.StringVar(&reportFile, "report-file", report.DefaultReportFile, "target path for the json-file reporter")
	flagSet.StringVar(&pattern, "pattern", "", "quick check: glob or path to measure (requires --max-size)")
	flagSet.StringVar(&maxSize, "max-size", "", "quick check: size budget, e.g. \"10 kB\"")
	flagSet.StringVar(&compression, "compression", "", "quick check: tester id (none, gzip, zstd, brotli)")
	flagSet.StringVar(&rulesJSON, "rules", "", "inline JSON rule array instead of a config file")
	flagSet.BoolVar(&verbose, "verbose", false, "log per-file progress to stderr")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		version.Print("overweight")
		return nil
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	raw, err := loadRawConfig(workingDir, configPath, pattern, maxSize, compression, rulesJSON)
	if err != nil {
		return err
	}
	if root != "" {
		raw.Root = root
	}

	config, err := sizeconfig.Normalize(raw, workingDir)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	result, err := check.RunChecks(context.Background(), config, check.Options{Logger: logger})
	if err != nil {
		return err
	}

	out, err := report.New(reporter, report.Options{FilePath: reportFile})
	if err != nil {
		return err
	}
	if err := out.Report(result); err != nil {
		return err
	}

	if result.Stats.HasFailures {
		return failuresError{}
	}
	return nil
}

// loadRawConfig picks the configuration source: the quick-check
// flags, an inline JSON rule array, or file discovery.
func loadRawConfig(workingDir, configPath, pattern, maxSize, compression, rulesJSON string) (sizeconfig.RawConfig, error) {
	if pattern != "" || maxSize != "" {
		if pattern == "" || maxSize == "" {
			return sizeconfig.RawConfig{}, fmt.Errorf("quick check requires both --pattern and --max-size")
		}
		return sizeconfig.RawConfig{
			Files: []sizeconfig.FileEntry{{
				Path:        pattern,
				MaxSize:     maxSize,
				Compression: compression,
			}},
			Source: "inline",
		}, nil
	}

	if rulesJSON != "" {
		return sizeconfig.ParseJSON([]byte(rulesJSON), "inline")
	}

	return sizeconfig.Load(workingDir, configPath)
}
