package synth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Backend names accepted by NewGenerator.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// BackendConfig selects and configures a Generator.
//
// # Fields
//
//   - Backend: gemini, openai or ollama.
//   - Model: backend model name; each backend has a default.
//   - BaseURL: endpoint override (Gemini REST endpoint, OpenAI-compatible
//     server, Ollama host).
//   - APIKeyEnv, SecretsFile: where the API key is read from, env first.
//     Unused by ollama.
type BackendConfig struct {
	Backend     string
	Model       string
	BaseURL     string
	APIKeyEnv   string
	SecretsFile string
	HTTPClient  *http.Client
}

// NewGenerator builds the Generator named by cfg.Backend.
func NewGenerator(ctx context.Context, cfg BackendConfig) (Generator, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendGemini, "":
		key, err := LoadSecret(cfg.APIKeyEnv, cfg.SecretsFile)
		if err != nil {
			return nil, fmt.Errorf("gemini backend: %w", err)
		}
		g, err := NewGeminiGenerator(ctx, GeminiConfig{APIKey: key, Model: cfg.Model, BaseURL: cfg.BaseURL, HTTPClient: cfg.HTTPClient})
		if err != nil {
			return nil, err
		}
		return g, nil
	case BackendOpenAI:
		key, err := LoadSecret(cfg.APIKeyEnv, cfg.SecretsFile)
		if err != nil {
			return nil, fmt.Errorf("openai backend: %w", err)
		}
		g, err := NewOpenAIGenerator(OpenAIConfig{APIKey: key, Model: cfg.Model, BaseURL: cfg.BaseURL, HTTPClient: cfg.HTTPClient})
		if err != nil {
			return nil, err
		}
		return g, nil
	case BackendOllama:
		g, err := NewOllamaGenerator(OllamaConfig{Model: cfg.Model, ServerURL: cfg.BaseURL})
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown synthesis backend %q (want gemini, openai or ollama)", cfg.Backend)
	}
}
