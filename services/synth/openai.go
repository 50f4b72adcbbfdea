package synth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

const openAISystemPrompt = "You are a botanical designer for a generative 3D garden. Answer with the requested JSON object only."

// OpenAIConfig configures an OpenAIGenerator. BaseURL points it at any
// OpenAI-compatible endpoint (vLLM, LM Studio, a proxy).
type OpenAIConfig struct {
	APIKey     *Secret
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIGenerator uses chat completions with a strict JSON-schema response
// format.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator builds the go-openai client. The key leaves its
// enclave once, to configure the client.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
		slog.Warn("OpenAI model not set, using default", "model", cfg.Model)
	}
	var clientCfg openai.ClientConfig
	if err := cfg.APIKey.Reveal(func(key string) error {
		clientCfg = openai.DefaultConfig(strings.Clone(key))
		return nil
	}); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	slog.Info("Initializing OpenAI generator", "model", cfg.Model, "key_source", cfg.APIKey.Source())
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Name implements Generator.
func (g *OpenAIGenerator) Name() string { return "openai" }

// Model implements Generator.
func (g *OpenAIGenerator) Model() string { return g.model }

// GenerateJSON implements Generator.
func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, prompt string, schema OutputSchema) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        schema.Name,
				Description: schema.Description,
				Schema:      schema.openAIDefinition(),
				Strict:      true,
			},
		},
	}

	slog.Debug("Generating flower via OpenAI", "model", g.model)
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("openai: model refused: %s", choice.Message.Refusal)
	}
	slog.Debug("Received response from OpenAI", "finish_reason", choice.FinishReason)
	return choice.Message.Content, nil
}
