// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package policy_engine screens inspiration text before it leaves the
// machine for a hosted synthesis backend.
package policy_engine

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/LorneSvarc/FlowerGenTool/services/policy_engine/enforcement"
)

// PolicyEngine holds the compiled prompt classification rules.
type PolicyEngine struct {
	Classifiers []Classification
}

// NewPolicyEngine loads the rules embedded in the binary.
//
// Returns an error if the embedded YAML is malformed or contains an invalid
// regex.
func NewPolicyEngine() (*PolicyEngine, error) {
	return parse(enforcement.PromptPatterns)
}

func parse(data []byte) (*PolicyEngine, error) {
	var file classificationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal the prompt policy: %w", err)
	}
	if err := file.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile the prompt policy: %w", err)
	}
	return &PolicyEngine{Classifiers: file.Classifications}, nil
}

// Classify returns the name of the highest-priority classification that
// matches prompt, or "public".
func (e *PolicyEngine) Classify(prompt string) string {
	for _, c := range e.Classifiers {
		for _, p := range c.Patterns {
			if p.compiled.MatchString(prompt) {
				return c.Name
			}
		}
	}
	return "public"
}

// Scan returns every pattern that matches prompt, highest priority first.
func (e *PolicyEngine) Scan(prompt string) []Finding {
	var findings []Finding
	for _, c := range e.Classifiers {
		for _, p := range c.Patterns {
			if p.compiled.MatchString(prompt) {
				findings = append(findings, Finding{
					Classification: c.Name,
					PatternID:      p.ID,
					Description:    p.Description,
					Confidence:     p.Confidence,
				})
			}
		}
	}
	return findings
}

// Review decides whether prompt may be sent to a backend.
//
// # Outputs
//
//   - error: *BlockedError listing the high-confidence findings, or nil.
//     Lower-confidence findings are logged and allowed through.
func (e *PolicyEngine) Review(prompt string) error {
	if prompt == "" {
		return nil
	}
	var blocked []Finding
	for _, f := range e.Scan(prompt) {
		if f.Confidence == High {
			blocked = append(blocked, f)
			continue
		}
		slog.Warn("policy: prompt may contain personal data",
			"classification", f.Classification, "pattern", f.PatternID, "confidence", string(f.Confidence))
	}
	if len(blocked) > 0 {
		return &BlockedError{Findings: blocked}
	}
	return nil
}
