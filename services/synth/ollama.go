package synth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaModel = "llama3.1"

// OllamaConfig configures an OllamaGenerator.
type OllamaConfig struct {
	Model     string
	ServerURL string
}

// OllamaGenerator runs synthesis on a local Ollama server through
// langchaingo. Ollama's JSON mode guarantees syntax only, so the schema is
// also spelled out in the prompt; DecodeFlower enforces it.
type OllamaGenerator struct {
	llm   llms.Model
	model string
}

// NewOllamaGenerator creates the langchaingo model. No API key is needed.
func NewOllamaGenerator(cfg OllamaConfig) (*OllamaGenerator, error) {
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
		slog.Warn("Ollama model not set, using default", "model", cfg.Model)
	}
	opts := []ollama.Option{ollama.WithModel(cfg.Model), ollama.WithFormat("json")}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama: create client: %w", err)
	}
	slog.Info("Initializing Ollama generator", "model", cfg.Model, "server", cfg.ServerURL)
	return &OllamaGenerator{llm: llm, model: cfg.Model}, nil
}

// Name implements Generator.
func (g *OllamaGenerator) Name() string { return "ollama" }

// Model implements Generator.
func (g *OllamaGenerator) Model() string { return g.model }

// GenerateJSON implements Generator.
func (g *OllamaGenerator) GenerateJSON(ctx context.Context, prompt string, schema OutputSchema) (string, error) {
	full, err := schema.appendTo(prompt)
	if err != nil {
		return "", err
	}

	slog.Debug("Generating flower via Ollama", "model", g.model)
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, full, llms.WithTemperature(0.9))
	if err != nil {
		return "", fmt.Errorf("ollama: generate failed: %w", err)
	}
	return out, nil
}
