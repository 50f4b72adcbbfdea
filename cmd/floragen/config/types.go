// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LorneSvarc/FlowerGenTool/pkg/logging"
	"github.com/LorneSvarc/FlowerGenTool/services/garden"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

type FloragenConfig struct {
	// Synthesis: which LLM backend turns prompts into Flower DNA
	Synthesis SynthesisConfig `yaml:"synthesis"`

	// Garden: interaction constants for the TUI
	Garden GardenConfig `yaml:"garden"`

	// Gallery: where saved specimens live
	Gallery GalleryConfig `yaml:"gallery"`

	Logging LoggingConfig `yaml:"logging"`

	Metrics MetricsConfig `yaml:"metrics"`
}

type SynthesisConfig struct {
	// Backend is "gemini", "openai" or "ollama"
	Backend     string        `yaml:"backend"`
	Model       string        `yaml:"model,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	APIKeyEnv   string        `yaml:"api_key_env,omitempty"`
	SecretsFile string        `yaml:"secrets_file,omitempty"`
	Timeout     time.Duration `yaml:"timeout"`

	// ScreenPrompts refuses inspiration that looks like it holds
	// credentials or personal data before it is sent to a hosted backend.
	// Ollama runs locally and is never screened.
	ScreenPrompts bool `yaml:"screen_prompts"`
}

type GardenConfig struct {
	NudgeStep     float64       `yaml:"nudge_step"`
	PulseBoost    float64       `yaml:"pulse_boost"`
	PulseDuration time.Duration `yaml:"pulse_duration"`
}

type GalleryConfig struct {
	Dir string `yaml:"dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir,omitempty"`
}

type MetricsConfig struct {
	// Enabled writes the Prometheus registry to TextFile when a command ends,
	// for node_exporter's textfile collector.
	Enabled  bool   `yaml:"enabled"`
	TextFile string `yaml:"textfile,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() FloragenConfig {
	g := garden.DefaultConfig()
	return FloragenConfig{
		Synthesis: SynthesisConfig{
			Backend:       synth.BackendGemini,
			APIKeyEnv:     defaultKeyEnv(synth.BackendGemini),
			Timeout:       60 * time.Second,
			ScreenPrompts: true,
		},
		Garden: GardenConfig{
			NudgeStep:     g.NudgeStep,
			PulseBoost:    g.PulseBoost,
			PulseDuration: g.PulseDuration,
		},
		Gallery: GalleryConfig{Dir: "~/.floragen/gallery"},
		Logging: LoggingConfig{Level: "info", Dir: "~/.floragen/logs"},
		Metrics: MetricsConfig{TextFile: "~/.floragen/metrics.prom"},
	}
}

// defaultKeyEnv returns the conventional API key variable of a backend.
func defaultKeyEnv(backend string) string {
	switch backend {
	case synth.BackendGemini:
		return "GEMINI_API_KEY"
	case synth.BackendOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// Validate reports every invalid setting.
func (c FloragenConfig) Validate() error {
	var errs []error
	switch c.Synthesis.Backend {
	case synth.BackendGemini, synth.BackendOpenAI, synth.BackendOllama:
	default:
		errs = append(errs, fmt.Errorf("synthesis.backend %q: want gemini, openai or ollama", c.Synthesis.Backend))
	}
	if c.Synthesis.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("synthesis.timeout must be positive, got %s", c.Synthesis.Timeout))
	}
	if c.Garden.NudgeStep <= 0 {
		errs = append(errs, fmt.Errorf("garden.nudge_step must be positive, got %g", c.Garden.NudgeStep))
	}
	if c.Garden.PulseBoost < 0 {
		errs = append(errs, fmt.Errorf("garden.pulse_boost must not be negative, got %g", c.Garden.PulseBoost))
	}
	if c.Garden.PulseDuration <= 0 {
		errs = append(errs, fmt.Errorf("garden.pulse_duration must be positive, got %s", c.Garden.PulseDuration))
	}
	if strings.TrimSpace(c.Gallery.Dir) == "" {
		errs = append(errs, errors.New("gallery.dir is required"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Metrics.Enabled && c.Metrics.TextFile == "" {
		errs = append(errs, errors.New("metrics.textfile is required when metrics are enabled"))
	}
	return errors.Join(errs...)
}

// BackendConfig converts the synthesis section for synth.NewGenerator.
func (c FloragenConfig) BackendConfig() synth.BackendConfig {
	return synth.BackendConfig{
		Backend:     c.Synthesis.Backend,
		Model:       c.Synthesis.Model,
		BaseURL:     c.Synthesis.BaseURL,
		APIKeyEnv:   c.Synthesis.APIKeyEnv,
		SecretsFile: ExpandHome(c.Synthesis.SecretsFile),
	}
}

// GardenSettings converts the garden section, keeping the fixed scale range
// and pulse ceiling from garden.DefaultConfig.
func (c FloragenConfig) GardenSettings() garden.Config {
	g := garden.DefaultConfig()
	g.NudgeStep = c.Garden.NudgeStep
	g.PulseBoost = c.Garden.PulseBoost
	g.PulseDuration = c.Garden.PulseDuration
	return g
}
