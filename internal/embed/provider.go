package embed

import "context"

// EmbedMode specifies the type of embedding to generate.
type EmbedMode string

const (
	// EmbedModeQuery generates embeddings optimized for search queries.
	EmbedModeQuery EmbedMode = "query"

	// EmbedModePassage generates embeddings optimized for document passages.
	// Code and doc unit representations are embedded in this mode.
	EmbedModePassage EmbedMode = "passage"
)

// Provider defines the interface for embedding text into vectors.
// Implementations must be deterministic for identical input and safe for
// concurrent use: the pipeline shares one provider across comparison workers.
type Provider interface {
	// Initialize prepares the provider and blocks until ready.
	// For remote providers this validates credentials and connectivity.
	// Must be called before Embed().
	Initialize(ctx context.Context) error

	// Embed converts a slice of text strings into their vector
	// representations, one vector per input text, in input order.
	Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error)

	// Dimensions returns the dimensionality of vectors this provider produces.
	Dimensions() int

	// Close releases any resources held by the provider.
	Close() error
}
