package match

import "github.com/veritas-dev/veritas/internal/extract"

// Similarity method tags.
const (
	MethodEmbedding = "embedding"
	MethodFeature   = "feature"
	MethodBlended   = "blended"
	MethodNone      = "none"
)

// SimilarityScore is the derived, ephemeral score that produced a pairing.
type SimilarityScore struct {
	Score      float64 `json:"score"`      // 0-1
	Method     string  `json:"method"`     // embedding | feature | blended | none
	Confidence float64 `json:"confidence"` // 0-1 confidence in the score itself
}

// MatchedPair owns one CodeUnit and at most one DocUnit. A nil Doc means the
// code unit is undocumented. A DocUnit is referenced by at most one pair;
// the matcher enforces the one-to-one claim policy.
type MatchedPair struct {
	Code       extract.CodeUnit
	Doc        *extract.DocUnit
	Similarity SimilarityScore
}

// Weights blends the three similarity signals. They must sum to 1.
type Weights struct {
	Embedding float64
	Name      float64
	Feature   float64
}

// DefaultWeights returns the default signal blend.
func DefaultWeights() Weights {
	return Weights{Embedding: 0.5, Name: 0.3, Feature: 0.2}
}
