// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package sizeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// configFileNames are the discovered config file names, in precedence
// order.
var configFileNames = []string{
	"overweight.json",
	"overweight.config.json",
	"overweight.yaml",
}

// Load locates and parses raw configuration. An explicit path wins
// and fails loudly when the file is missing. Otherwise discovery
// tries, in order: the well-known config file names in workingDir,
// then the "overweight" field of package.json. When nothing is found
// the error names every attempted location.
func Load(workingDir, explicitPath string) (RawConfig, error) {
	if explicitPath != "" {
		path := explicitPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workingDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("sizeconfig: config file %s: %w", explicitPath, err)
		}
		return parseByExtension(data, explicitPath)
	}

	for _, name := range configFileNames {
		data, err := os.ReadFile(filepath.Join(workingDir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return RawConfig{}, fmt.Errorf("sizeconfig: reading %s: %w", name, err)
		}
		return parseByExtension(data, name)
	}

	if config, found, err := loadPackageManifest(workingDir); err != nil {
		return RawConfig{}, err
	} else if found {
		return config, nil
	}

	attempted := strings.Join(configFileNames, ", ")
	return RawConfig{}, fmt.Errorf(
		"sizeconfig: no configuration found (looked for %s and a package.json %q field)",
		attempted, "overweight")
}

// loadPackageManifest reads the "overweight" field from package.json
// in workingDir. A missing file or missing field is not an error.
func loadPackageManifest(workingDir string) (RawConfig, bool, error) {
	data, err := os.ReadFile(filepath.Join(workingDir, "package.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, fmt.Errorf("sizeconfig: reading package.json: %w", err)
	}

	var manifest struct {
		Overweight json.RawMessage `json:"overweight"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return RawConfig{}, false, fmt.Errorf("sizeconfig: parsing package.json: %w", err)
	}
	if len(manifest.Overweight) == 0 || string(manifest.Overweight) == "null" {
		return RawConfig{}, false, nil
	}

	config, err := ParseJSON(manifest.Overweight, "package.json#overweight")
	if err != nil {
		return RawConfig{}, false, err
	}
	return config, true, nil
}

// parseByExtension picks the parser from the file name suffix.
func parseByExtension(data []byte, source string) (RawConfig, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return ParseYAML(data, source)
	default:
		return ParseJSON(data, source)
	}
}
