// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

package sizeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ParseJSON parses raw JSON configuration in either the bare-array or
// object form. Comments and trailing commas are tolerated, so config
// files can be annotated.
func ParseJSON(data []byte, source string) (RawConfig, error) {
	plain := jsonc.ToJSON(data)
	trimmed := bytes.TrimSpace(plain)
	if len(trimmed) == 0 {
		return RawConfig{}, fmt.Errorf("sizeconfig: %s: empty configuration", source)
	}

	if trimmed[0] == '[' {
		var files []FileEntry
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return RawConfig{}, fmt.Errorf("sizeconfig: %s: %w", source, err)
		}
		return RawConfig{Files: files, Source: source}, nil
	}

	var config RawConfig
	if err := json.Unmarshal(trimmed, &config); err != nil {
		return RawConfig{}, fmt.Errorf("sizeconfig: %s: %w", source, err)
	}
	config.Source = source
	return config, nil
}

// ParseYAML parses YAML configuration in either the bare-sequence or
// mapping form.
func ParseYAML(data []byte, source string) (RawConfig, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return RawConfig{}, fmt.Errorf("sizeconfig: %s: %w", source, err)
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 {
		return RawConfig{}, fmt.Errorf("sizeconfig: %s: empty configuration", source)
	}

	rootNode := document.Content[0]
	if rootNode.Kind == yaml.SequenceNode {
		var files []FileEntry
		if err := rootNode.Decode(&files); err != nil {
			return RawConfig{}, fmt.Errorf("sizeconfig: %s: %w", source, err)
		}
		return RawConfig{Files: files, Source: source}, nil
	}

	var config RawConfig
	if err := rootNode.Decode(&config); err != nil {
		return RawConfig{}, fmt.Errorf("sizeconfig: %s: %w", source, err)
	}
	config.Source = source
	return config, nil
}
