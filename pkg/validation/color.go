// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides validators for untrusted colour input.
//
// Colours reach the DNA model from colour pickers, decoded patches, stored
// gallery specimens and, most importantly, from the output of an external
// language model. Every one of them passes through this package before it
// is committed to a record.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// hexColorPattern matches "#rgb" and "#rrggbb" in either case.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex colour.
//
// Valid colours:
//   - "#rgb" shorthand (expanded on normalisation)
//   - "#rrggbb"
//   - either letter case
//
// Named colours, alpha channels and missing "#" are rejected.
//
// Example:
//
//	if err := validation.ValidateHexColor(c); err != nil {
//	    return fmt.Errorf("petal colour: %w", err)
//	}
func ValidateHexColor(color string) error {
	if color == "" {
		return fmt.Errorf("colour cannot be empty")
	}
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid colour %q (must be #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateHexColors validates every colour and lists all invalid entries.
func ValidateHexColors(colors []string) error {
	var invalid []string
	for _, c := range colors {
		if err := ValidateHexColor(c); err != nil {
			invalid = append(invalid, c)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid colours: %q", invalid)
	}
	return nil
}

// NormalizeHexColor validates a colour and returns its canonical
// lowercase "#rrggbb" form.
//
//	c, err := validation.NormalizeHexColor(" #F08 ")
//	// c == "#ff0088"
func NormalizeHexColor(color string) (string, error) {
	trimmed := strings.TrimSpace(color)
	if err := ValidateHexColor(trimmed); err != nil {
		return "", err
	}
	if len(trimmed) == 4 {
		trimmed = string([]byte{'#',
			trimmed[1], trimmed[1],
			trimmed[2], trimmed[2],
			trimmed[3], trimmed[3],
		})
	}
	c, err := colorful.Hex(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid colour %q: %w", color, err)
	}
	return c.Hex(), nil
}

// IsHexColor reports whether color would pass ValidateHexColor.
func IsHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
