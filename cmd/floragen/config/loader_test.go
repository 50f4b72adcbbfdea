// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBackend, EnvModel, EnvBaseURL, EnvConfigPath} {
		t.Setenv(k, "")
	}
}

// TestCreateDefault verifies default config creation.
func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".floragen", "floragen.yaml")

	require.NoError(t, createDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg FloragenConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Contains(t, string(data), "timeout: 1m0s", "durations are written human readable")
}

func TestLoadFrom_CreatesOnFirstRun(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "floragen.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "floragen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("synthesis:\n  backend: ollama\n  model: llama3\n  timeout: 90s\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Synthesis.Backend)
	assert.Equal(t, "llama3", cfg.Synthesis.Model)
	assert.Equal(t, 90*time.Second, cfg.Synthesis.Timeout)
	assert.Equal(t, DefaultConfig().Garden, cfg.Garden)
	assert.Equal(t, DefaultConfig().Gallery, cfg.Gallery)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "OpenAI")
	t.Setenv(EnvBaseURL, "http://localhost:1234/v1")
	path := filepath.Join(t.TempDir(), "floragen.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Synthesis.Backend)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Synthesis.APIKeyEnv, "default key variable follows the backend")
	assert.Equal(t, "http://localhost:1234/v1", cfg.Synthesis.BaseURL)

	t.Setenv(EnvModel, "gpt-4o-mini")
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.Synthesis.Model)
}

func TestLoadFrom_CustomKeyEnvSurvivesBackendOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "openai")
	path := filepath.Join(t.TempDir(), "floragen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("synthesis:\n  api_key_env: MY_KEY\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "MY_KEY", cfg.Synthesis.APIKeyEnv)
}

func TestLoadFrom_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "synthesis: [\n"},
		{"unknown backend", "synthesis:\n  backend: claude\n"},
		{"zero timeout", "synthesis:\n  timeout: 0s\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"metrics without file", "metrics:\n  enabled: true\n  textfile: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "floragen.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/garden.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/garden.yaml", p)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".floragen", "gallery"), ExpandHome("~/.floragen/gallery"))
	assert.Equal(t, "/var/lib/floragen", ExpandHome("/var/lib/floragen"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
