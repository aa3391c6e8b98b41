package embed

import "fmt"

// Config contains configuration for creating an embedding provider.
type Config struct {
	// Provider specifies which embedding provider to use ("openai", "mock").
	Provider string

	// Endpoint overrides the API base URL (for OpenAI-compatible local servers).
	Endpoint string

	// APIKey authenticates against the remote provider.
	APIKey string

	// Model is the embedding model name.
	Model string

	// Dimensions is the expected vector dimensionality.
	Dimensions int

	// CacheSize is the capacity of the in-memory embedding cache;
	// zero uses the default, negative disables caching.
	CacheSize int
}

// NewProvider creates an embedding provider based on the configuration.
// The provider is wrapped with an embedding cache unless caching is disabled.
func NewProvider(cfg Config) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch cfg.Provider {
	case "openai", "": // empty defaults to openai-compatible
		provider, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.Endpoint,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case "mock":
		provider = NewMockProvider()
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: openai, mock)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize < 0 {
		return provider, nil
	}
	return NewCachedProvider(provider, cfg.CacheSize)
}
