package embed

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider embeds text through an OpenAI-compatible embeddings
// endpoint. A custom base URL points it at local inference servers that
// speak the same API.
type openAIProvider struct {
	client     *openai.Client
	model      string
	dimensions int
}

// OpenAIConfig configures the OpenAI-compatible embedding provider.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // optional; default is the OpenAI API
	Model      string // e.g. "text-embedding-3-small"
	Dimensions int
}

// NewOpenAIProvider creates an embedding provider backed by an
// OpenAI-compatible API.
func NewOpenAIProvider(cfg OpenAIConfig) (Provider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding provider requires an API key or a base URL")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding provider requires a model name")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1536
	}

	return &openAIProvider{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: dims,
	}, nil
}

// Initialize verifies connectivity with a single probe embedding.
func (p *openAIProvider) Initialize(ctx context.Context) error {
	_, err := p.Embed(ctx, []string{"ping"}, EmbedModeQuery)
	if err != nil {
		return fmt.Errorf("embedding provider initialization failed: %w", err)
	}
	slog.Debug("embedding provider ready", "model", p.model, "dimensions", p.dimensions)
	return nil
}

// Embed requests vectors for all texts in one API call. Results come back
// in input order.
func (p *openAIProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("embeddings response index %d out of range", item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}

	return embeddings, nil
}

func (p *openAIProvider) Dimensions() int {
	return p.dimensions
}

func (p *openAIProvider) Close() error {
	return nil
}
