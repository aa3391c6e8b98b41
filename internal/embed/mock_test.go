package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Deterministic(t *testing.T) {
	t.Parallel()

	p := NewMockProvider()
	defer p.Close()
	ctx := context.Background()
	require.NoError(t, p.Initialize(ctx))

	first, err := p.Embed(ctx, []string{"calculate_total", "delete_user"}, EmbedModePassage)
	require.NoError(t, err)
	second, err := p.Embed(ctx, []string{"calculate_total", "delete_user"}, EmbedModePassage)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first, second, "identical input must embed identically")
	assert.Len(t, first[0], p.Dimensions())
	assert.NotEqual(t, first[0], first[1], "distinct texts must embed differently")
}

func TestMockProvider_SelfSimilarity(t *testing.T) {
	t.Parallel()

	p := NewMockProvider()
	defer p.Close()

	vecs, err := p.Embed(context.Background(), []string{"same text", "same text"}, EmbedModeQuery)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Cosine(vecs[0], vecs[1]), 1e-6)
}

// countingProvider wraps a provider and counts texts actually embedded.
type countingProvider struct {
	Provider
	embedded int
}

func (c *countingProvider) Embed(ctx context.Context, texts []string, mode EmbedMode) ([][]float32, error) {
	c.embedded += len(texts)
	return c.Provider.Embed(ctx, texts, mode)
}

func TestCachedProvider_AvoidsRepeatCalls(t *testing.T) {
	t.Parallel()

	counting := &countingProvider{Provider: NewMockProvider()}
	cached, err := NewCachedProvider(counting, 100)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.Embed(ctx, []string{"a", "b"}, EmbedModePassage)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.embedded)

	second, err := cached.Embed(ctx, []string{"a", "b", "c"}, EmbedModePassage)
	require.NoError(t, err)
	assert.Equal(t, 3, counting.embedded, "only the miss should reach the inner provider")
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, first[1], second[1])
}

func TestCachedProvider_ModeSeparatesKeys(t *testing.T) {
	t.Parallel()

	counting := &countingProvider{Provider: NewMockProvider()}
	cached, err := NewCachedProvider(counting, 100)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()
	_, err = cached.Embed(ctx, []string{"a"}, EmbedModePassage)
	require.NoError(t, err)
	_, err = cached.Embed(ctx, []string{"a"}, EmbedModeQuery)
	require.NoError(t, err)
	assert.Equal(t, 2, counting.embedded, "query and passage entries must not collide")
}
