package synth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-3-flash-preview"

// GeminiConfig configures a GeminiGenerator.
type GeminiConfig struct {
	APIKey     *Secret
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGenerator runs synthesis on Google Gemini through langchaingo's
// googleai provider. The response is forced to JSON and the schema is
// spelled out in the prompt; DecodeFlower enforces it.
type GeminiGenerator struct {
	llm   llms.Model
	model string
}

// NewGeminiGenerator validates cfg and creates the googleai client. A
// BaseURL switches the client to REST against that endpoint.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == nil {
		return nil, fmt.Errorf("gemini: %w", ErrNoSecret)
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
		slog.Warn("gemini model not set, using default", "model", cfg.Model)
	}

	opts := []googleai.Option{googleai.WithDefaultModel(cfg.Model)}
	if err := cfg.APIKey.Reveal(func(key string) error {
		opts = append(opts, googleai.WithAPIKey(strings.Clone(key)))
		return nil
	}); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if cfg.BaseURL != "" {
		opts = append(opts, googleai.WithRest(), withEndpoint(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, googleai.WithHTTPClient(cfg.HTTPClient))
	}

	llm, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	slog.Info("Initializing Gemini generator", "model", cfg.Model, "key_source", cfg.APIKey.Source())
	return &GeminiGenerator{llm: llm, model: cfg.Model}, nil
}

func withEndpoint(url string) googleai.Option {
	return func(o *googleai.Options) {
		o.ClientOptions = append(o.ClientOptions, option.WithEndpoint(url))
	}
}

// Name implements Generator.
func (g *GeminiGenerator) Name() string { return "gemini" }

// Model implements Generator.
func (g *GeminiGenerator) Model() string { return g.model }

// GenerateJSON implements Generator.
func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string, schema OutputSchema) (string, error) {
	full, err := schema.appendTo(prompt)
	if err != nil {
		return "", err
	}

	slog.Debug("Generating flower via Gemini", "model", g.model)
	resp, err := g.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, full)},
		llms.WithJSONMode(),
		llms.WithTemperature(0.9),
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}
	choice := resp.Choices[0]
	slog.Debug("Received response from Gemini", "stop_reason", choice.StopReason)
	return choice.Content, nil
}
