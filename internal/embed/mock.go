package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
)

// mockProvider generates deterministic embeddings by hashing input text.
// Identical inputs always produce identical vectors, which makes pipeline
// runs reproducible in tests and in offline mode.
type mockProvider struct {
	dimensions int
}

// NewMockProvider creates a deterministic hash-based embedding provider.
func NewMockProvider() Provider {
	return &mockProvider{
		dimensions: 384, // standard sentence-transformer dimension
	}
}

func (p *mockProvider) Initialize(ctx context.Context) error {
	return nil
}

// Embed generates mock embeddings from a SHA-256 of the input text.
func (p *mockProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	for i, text := range texts {
		hash := sha256.Sum256([]byte(text))

		embedding := make([]float32, p.dimensions)
		for j := 0; j < p.dimensions; j++ {
			offset := (j * 4) % len(hash)
			val := binary.BigEndian.Uint32(hash[offset : offset+4])
			// Normalize to [-1, 1] range
			embedding[j] = (float32(val)/float32(1<<32))*2.0 - 1.0
		}

		embeddings[i] = embedding
	}

	return embeddings, nil
}

func (p *mockProvider) Dimensions() int {
	return p.dimensions
}

func (p *mockProvider) Close() error {
	return nil
}
