package embed

import (
	"context"
	"fmt"
)

// BatchProgress reports embedding progress for real-time feedback.
type BatchProgress struct {
	BatchIndex      int // current batch number (1-indexed)
	TotalBatches    int // total number of batches
	ProcessedTexts  int // number of texts processed so far
	TotalTexts      int // total number of texts to process
}

// EmbedWithProgress embeds texts in batches, sending a progress update on
// progressCh after each batch completes. progressCh may be nil to disable
// progress reporting. Results preserve input order.
func EmbedWithProgress(
	ctx context.Context,
	provider Provider,
	texts []string,
	mode EmbedMode,
	batchSize int,
	progressCh chan<- BatchProgress,
) ([][]float32, error) {
	total := len(texts)
	if total == 0 {
		return [][]float32{}, nil
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	numBatches := (total + batchSize - 1) / batchSize
	results := make([][]float32, total)

	processed := 0
	for batchIdx := 0; batchIdx < numBatches; batchIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := batchIdx * batchSize
		end := start + batchSize
		if end > total {
			end = total
		}

		batch, err := provider.Embed(ctx, texts[start:end], mode)
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d/%d failed: %w", batchIdx+1, numBatches, err)
		}
		for i, vec := range batch {
			results[start+i] = vec
		}

		processed += end - start
		if progressCh != nil {
			progressCh <- BatchProgress{
				BatchIndex:     batchIdx + 1,
				TotalBatches:   numBatches,
				ProcessedTexts: processed,
				TotalTexts:     total,
			}
		}
	}

	return results, nil
}
