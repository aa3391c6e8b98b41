package embed

import (
	"context"
	"fmt"

	"github.com/maypok86/otter"
)

// cachedProvider memoizes embeddings per input text. Providers are required
// to be deterministic for identical input, so repeated texts (shared doc
// sections, re-runs within a process) skip the network round trip.
type cachedProvider struct {
	inner Provider
	cache otter.Cache[string, []float32]
}

// NewCachedProvider wraps a provider with an in-memory embedding cache of
// the given capacity.
func NewCachedProvider(inner Provider, capacity int) (Provider, error) {
	if capacity <= 0 {
		capacity = 4096
	}

	cache, err := otter.MustBuilder[string, []float32](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("building embedding cache: %w", err)
	}

	return &cachedProvider{
		inner: inner,
		cache: cache,
	}, nil
}

func (p *cachedProvider) Initialize(ctx context.Context) error {
	return p.inner.Initialize(ctx)
}

// Embed serves cached vectors where possible and fetches only the misses.
func (p *cachedProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := p.cache.Get(cacheKey(mode, text)); ok {
			results[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fetched, err := p.inner.Embed(ctx, missTexts, mode)
	if err != nil {
		return nil, err
	}
	for j, vec := range fetched {
		results[missIdx[j]] = vec
		p.cache.Set(cacheKey(mode, missTexts[j]), vec)
	}

	return results, nil
}

func (p *cachedProvider) Dimensions() int {
	return p.inner.Dimensions()
}

func (p *cachedProvider) Close() error {
	p.cache.Close()
	return p.inner.Close()
}

func cacheKey(mode EmbedMode, text string) string {
	return string(mode) + "\x00" + text
}
