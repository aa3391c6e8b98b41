package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	t.Parallel()

	t.Run("identical vectors score 1", func(t *testing.T) {
		t.Parallel()
		v := []float32{0.5, -0.2, 0.8}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
	})

	t.Run("orthogonal vectors score 0.5", func(t *testing.T) {
		t.Parallel()
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.5, Cosine(a, b), 1e-6)
	})

	t.Run("opposite vectors score 0", func(t *testing.T) {
		t.Parallel()
		a := []float32{1, 0}
		b := []float32{-1, 0}
		assert.InDelta(t, 0.0, Cosine(a, b), 1e-6)
	})

	t.Run("zero vector scores 0", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	})

	t.Run("length mismatch scores 0", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, Cosine([]float32{1}, []float32{1, 1}))
	})
}
