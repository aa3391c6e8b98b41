package embed

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedWithProgress_PreservesOrderAcrossBatches(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider()
	texts := make([]string, 7)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	batched, err := EmbedWithProgress(context.Background(), provider, texts, EmbedModePassage, 3, nil)
	require.NoError(t, err)
	require.Len(t, batched, len(texts))

	direct, err := provider.Embed(context.Background(), texts, EmbedModePassage)
	require.NoError(t, err)
	assert.Equal(t, direct, batched, "batching must not reorder results")
}

func TestEmbedWithProgress_ReportsEveryBatch(t *testing.T) {
	t.Parallel()

	texts := []string{"a", "b", "c", "d", "e"}
	ch := make(chan BatchProgress, 10)

	_, err := EmbedWithProgress(context.Background(), NewMockProvider(), texts, EmbedModePassage, 2, ch)
	require.NoError(t, err)
	close(ch)

	var updates []BatchProgress
	for p := range ch {
		updates = append(updates, p)
	}
	require.Len(t, updates, 3)
	last := updates[len(updates)-1]
	assert.Equal(t, 3, last.TotalBatches)
	assert.Equal(t, 5, last.ProcessedTexts)
	assert.Equal(t, 5, last.TotalTexts)
}

func TestEmbedWithProgress_EmptyInput(t *testing.T) {
	t.Parallel()

	vecs, err := EmbedWithProgress(context.Background(), NewMockProvider(), nil, EmbedModePassage, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbedWithProgress_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EmbedWithProgress(ctx, NewMockProvider(), []string{"a"}, EmbedModePassage, 3, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
