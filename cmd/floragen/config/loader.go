// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvConfigPath = "FLORAGEN_CONFIG"
	EnvBackend    = "FLORAGEN_BACKEND"
	EnvModel      = "FLORAGEN_MODEL"
	EnvBaseURL    = "FLORAGEN_BASE_URL"
)

var (
	// Global is a singleton instance
	Global FloragenConfig
	once   sync.Once
)

// Load ensures the config is loaded into the Global variable
func Load() error {
	var err error
	once.Do(func() {
		var path string
		path, err = Path()
		if err != nil {
			return
		}
		Global, err = LoadFrom(path)
	})
	return err
}

// Path returns the config file location: $FLORAGEN_CONFIG, or
// ~/.floragen/floragen.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandHome(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".floragen", "floragen.yaml"), nil
}

// LoadFrom reads the config at path, creating it with defaults if it does
// not exist, then applies environment overrides and validates the result.
// Fields missing from the file keep their default values.
func LoadFrom(path string) (FloragenConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("config: first run, writing defaults", "path", path)
		if err := createDefault(path); err != nil {
			return FloragenConfig{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FloragenConfig{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FloragenConfig{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return FloragenConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *FloragenConfig) {
	if b := strings.ToLower(strings.TrimSpace(os.Getenv(EnvBackend))); b != "" {
		if b != cfg.Synthesis.Backend {
			// the key variable of the old backend is meaningless for the new one
			if cfg.Synthesis.APIKeyEnv == defaultKeyEnv(cfg.Synthesis.Backend) {
				cfg.Synthesis.APIKeyEnv = defaultKeyEnv(b)
			}
			cfg.Synthesis.Model = ""
		}
		cfg.Synthesis.Backend = b
	}
	if m := os.Getenv(EnvModel); m != "" {
		cfg.Synthesis.Model = m
	}
	if u := os.Getenv(EnvBaseURL); u != "" {
		cfg.Synthesis.BaseURL = u
	}
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
