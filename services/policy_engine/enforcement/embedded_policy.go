// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package enforcement embeds the prompt classification rules in the binary.
package enforcement

import (
	_ "embed"
)

// PromptPatterns holds the raw content of prompt_patterns.yaml.
//
// Usage:
//
//	err := yaml.Unmarshal(enforcement.PromptPatterns, &targetStruct)
//
//go:embed prompt_patterns.yaml
var PromptPatterns []byte
