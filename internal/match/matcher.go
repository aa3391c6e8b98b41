package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/veritas-dev/veritas/internal/embed"
	"github.com/veritas-dev/veritas/internal/extract"
)

// MinMatchScore is the floor below which a code/doc pairing is treated as
// unrelated rather than matched.
const MinMatchScore = 0.15

// embedBatchSize bounds how many unit representations go into one
// embeddings request.
const embedBatchSize = 50

// Matcher pairs extracted code units with the documentation units that most
// plausibly describe them. Each documentation unit is claimed at most once.
type Matcher struct {
	provider embed.Provider
	weights  Weights
	floor    float64
}

// Option adjusts matcher construction.
type Option func(*Matcher)

// WithWeights overrides the blend weights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) { m.weights = w }
}

// WithFloor overrides the minimum blended score required to pair units.
func WithFloor(floor float64) Option {
	return func(m *Matcher) { m.floor = floor }
}

// NewMatcher builds a matcher around an embedding provider.
func NewMatcher(provider embed.Provider, opts ...Option) *Matcher {
	m := &Matcher{
		provider: provider,
		weights:  DefaultWeights(),
		floor:    MinMatchScore,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type candidate struct {
	codeIdx int
	docIdx  int
	score   SimilarityScore
}

// Match pairs every code unit with at most one documentation unit, greedily
// assigning the highest-scoring candidate pairs first. Every input code unit
// appears in the result exactly once; code with no viable candidate gets a
// nil Doc. Documentation units nothing claimed are returned separately.
func (m *Matcher) Match(ctx context.Context, codeUnits []extract.CodeUnit, docUnits []extract.DocUnit) ([]MatchedPair, []extract.DocUnit, error) {
	if len(codeUnits) == 0 {
		unclaimed := make([]extract.DocUnit, len(docUnits))
		copy(unclaimed, docUnits)
		return nil, unclaimed, nil
	}

	codeVecs, docVecs, err := m.embedAll(ctx, codeUnits, docUnits)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]candidate, 0, len(codeUnits)*len(docUnits))
	for ci, code := range codeUnits {
		for di, doc := range docUnits {
			score := m.score(codeVecs[ci], docVecs[di], code, doc)
			if score.Score < m.floor {
				continue
			}
			candidates = append(candidates, candidate{codeIdx: ci, docIdx: di, score: score})
		}
	}

	// Highest scores claim first. Ties break on input order so results are
	// deterministic for identical inputs.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score.Score > candidates[j].score.Score
	})

	matched := make(map[int]*MatchedPair, len(codeUnits))
	claimedDocs := make(map[int]bool, len(docUnits))
	for _, c := range candidates {
		if _, taken := matched[c.codeIdx]; taken {
			continue
		}
		if claimedDocs[c.docIdx] {
			continue
		}
		doc := docUnits[c.docIdx]
		matched[c.codeIdx] = &MatchedPair{
			Code:       codeUnits[c.codeIdx],
			Doc:        &doc,
			Similarity: c.score,
		}
		claimedDocs[c.docIdx] = true
	}

	pairs := make([]MatchedPair, 0, len(codeUnits))
	for ci, code := range codeUnits {
		if p, ok := matched[ci]; ok {
			pairs = append(pairs, *p)
			continue
		}
		pairs = append(pairs, MatchedPair{
			Code:       code,
			Doc:        nil,
			Similarity: SimilarityScore{Score: 0, Method: MethodNone, Confidence: 0},
		})
	}

	var unclaimed []extract.DocUnit
	for di, doc := range docUnits {
		if !claimedDocs[di] {
			unclaimed = append(unclaimed, doc)
		}
	}

	slog.Debug("matching complete",
		"code_units", len(codeUnits),
		"doc_units", len(docUnits),
		"matched", len(claimedDocs),
		"unclaimed_docs", len(unclaimed))

	return pairs, unclaimed, nil
}

// embedAll embeds the textual representations of all units in two batches.
func (m *Matcher) embedAll(ctx context.Context, codeUnits []extract.CodeUnit, docUnits []extract.DocUnit) ([][]float32, [][]float32, error) {
	codeTexts := make([]string, len(codeUnits))
	for i, u := range codeUnits {
		codeTexts[i] = CodeRepr(u)
	}
	docTexts := make([]string, len(docUnits))
	for i, u := range docUnits {
		docTexts[i] = DocRepr(u)
	}

	codeVecs, err := embed.EmbedWithProgress(ctx, m.provider, codeTexts, embed.EmbedModePassage, embedBatchSize, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding code units: %w", err)
	}
	docVecs, err := embed.EmbedWithProgress(ctx, m.provider, docTexts, embed.EmbedModePassage, embedBatchSize, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding doc units: %w", err)
	}
	return codeVecs, docVecs, nil
}

// score blends embedding, name, and feature similarity for one pair.
func (m *Matcher) score(codeVec, docVec []float32, code extract.CodeUnit, doc extract.DocUnit) SimilarityScore {
	embedSim := embed.Cosine(codeVec, docVec)
	nameSim := NameSimilarity(code.Name, doc.FunctionName)
	featSim := FeatureSimilarity(code, doc)

	blended := m.weights.Embedding*embedSim + m.weights.Name*nameSim + m.weights.Feature*featSim

	return SimilarityScore{
		Score:      blended,
		Method:     MethodBlended,
		Confidence: blended,
	}
}
