package compare

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritas-dev/veritas/internal/extract"
	"github.com/veritas-dev/veritas/internal/match"
)

// Test Plan for Comparator:
// - pairs without documentation short-circuit to confidence 0, no judge call
// - similarity at or above the high threshold scores round(sim*100), no judge
// - hybrid lane blends 0.4*embedding + 0.6*judge
// - judge-dominant lane blends 0.2*embedding + 0.8*judge
// - judge failure degrades the pair to the embedding formula
// - nil judge degrades every escalated pair
// - duplicate (type, location) issues merge; judge severity wins below the
//   judge threshold
// - judge calls honor the configured timeout

// stubJudge is a local test double; it lives here rather than importing the
// judge package to keep compare free of that dependency.
type stubJudge struct {
	result JudgeResult
	err    error
	calls  int
}

func (s *stubJudge) Judge(ctx context.Context, code extract.CodeUnit, doc extract.DocUnit) (JudgeResult, error) {
	s.calls++
	if s.err != nil {
		return JudgeResult{}, s.err
	}
	return s.result, nil
}

func pairWithScore(score float64) match.MatchedPair {
	doc := extract.DocUnit{
		FunctionName: "calculate_total",
		Parameters:   []extract.DocParameter{{Name: "price"}},
		FilePath:     "docs/api.md",
		Line:         3,
	}
	return match.MatchedPair{
		Code: extract.CodeUnit{
			Name:       "calculate_total",
			Parameters: []extract.Parameter{{Name: "price"}},
			FilePath:   "src/billing.py",
			Line:       12,
		},
		Doc:        &doc,
		Similarity: match.SimilarityScore{Score: score, Method: match.MethodBlended},
	}
}

func TestComparator_MissingDocShortCircuits(t *testing.T) {
	t.Parallel()

	j := &stubJudge{}
	c := NewComparator(j, DefaultConfig())

	pair := pairWithScore(0)
	pair.Doc = nil

	v := c.Compare(context.Background(), pair)
	assert.Zero(t, v.Confidence)
	assert.False(t, v.Degraded)
	require.Len(t, v.Issues, 1)
	assert.Equal(t, TypeMissingDocumentation, v.Issues[0].Type)
	assert.Equal(t, 0, j.calls, "no external calls for undocumented functions")
}

func TestComparator_HighLaneSkipsJudge(t *testing.T) {
	t.Parallel()

	j := &stubJudge{result: JudgeResult{Confidence: 10}}
	c := NewComparator(j, DefaultConfig())

	v := c.Compare(context.Background(), pairWithScore(1.0))
	assert.Equal(t, 0, j.calls, "exact matches must not spend a judge call")
	assert.Equal(t, MethodEmbedding, v.Method)
	assert.InDelta(t, 100.0, v.Confidence, 1e-9)
	assert.False(t, v.Degraded)
}

func TestComparator_HybridLaneBlends(t *testing.T) {
	t.Parallel()

	j := &stubJudge{result: JudgeResult{Confidence: 90}}
	c := NewComparator(j, DefaultConfig())

	v := c.Compare(context.Background(), pairWithScore(0.70))
	assert.Equal(t, 1, j.calls)
	assert.Equal(t, MethodHybrid, v.Method)
	// 0.4 * 70 + 0.6 * 90
	assert.InDelta(t, 82.0, v.Confidence, 1e-9)
}

func TestComparator_LowLaneJudgeDominates(t *testing.T) {
	t.Parallel()

	j := &stubJudge{result: JudgeResult{Confidence: 50}}
	c := NewComparator(j, DefaultConfig())

	v := c.Compare(context.Background(), pairWithScore(0.40))
	assert.Equal(t, 1, j.calls)
	assert.Equal(t, MethodJudge, v.Method)
	// 0.2 * 40 + 0.8 * 50
	assert.InDelta(t, 48.0, v.Confidence, 1e-9)
}

func TestComparator_JudgeFailureDegradesPair(t *testing.T) {
	t.Parallel()

	j := &stubJudge{err: errors.New("provider exploded")}
	c := NewComparator(j, DefaultConfig())

	v := c.Compare(context.Background(), pairWithScore(0.70))
	assert.True(t, v.Degraded)
	assert.Equal(t, MethodEmbedding, v.Method)
	assert.InDelta(t, 70.0, v.Confidence, 1e-9, "fallback is the embedding formula")
}

func TestComparator_NilJudgeDegrades(t *testing.T) {
	t.Parallel()

	c := NewComparator(nil, DefaultConfig())
	v := c.Compare(context.Background(), pairWithScore(0.50))
	assert.True(t, v.Degraded)
	assert.InDelta(t, 50.0, v.Confidence, 1e-9)
}

func TestComparator_MergeDeduplicatesIssues(t *testing.T) {
	t.Parallel()

	judgeIssue := Issue{
		Type:        TypeMissingDocumentation,
		Severity:    SeverityCritical,
		Description: "judge saw the same gap",
	}
	j := &stubJudge{result: JudgeResult{Confidence: 60, Issues: []Issue{judgeIssue}}}
	c := NewComparator(j, DefaultConfig())

	pair := pairWithScore(0.70)
	pair.Code.Parameters = append(pair.Code.Parameters, extract.Parameter{Name: "discount", Default: "0.0"})

	v := c.Compare(context.Background(), pair)
	count := 0
	for _, issue := range v.Issues {
		if issue.Type == TypeMissingDocumentation {
			count++
		}
	}
	assert.Equal(t, 1, count, "structural and judge copies of one issue merge")

	merged, ok := findIssue(v.Issues, TypeMissingDocumentation)
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, merged.Severity, "duplicates keep the more urgent severity")
}

func TestComparator_LowLaneJudgeSeverityWins(t *testing.T) {
	t.Parallel()

	judgeIssue := Issue{Type: TypeMissingDocumentation, Severity: SeverityHigh}
	j := &stubJudge{result: JudgeResult{Confidence: 30, Issues: []Issue{judgeIssue}}}
	c := NewComparator(j, DefaultConfig())

	pair := pairWithScore(0.30)
	pair.Code.Parameters = append(pair.Code.Parameters, extract.Parameter{Name: "discount", Default: "0.0"})

	v := c.Compare(context.Background(), pair)
	issue, ok := findIssue(v.Issues, TypeMissingDocumentation)
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, issue.Severity, "judge severity takes precedence below the judge threshold")
}

func TestComparator_TimeoutHonored(t *testing.T) {
	t.Parallel()

	slow := judgeFunc(func(ctx context.Context) (JudgeResult, error) {
		select {
		case <-ctx.Done():
			return JudgeResult{}, ctx.Err()
		case <-time.After(5 * time.Second):
			return JudgeResult{Confidence: 99}, nil
		}
	})
	cfg := DefaultConfig()
	cfg.JudgeTimeout = 10 * time.Millisecond
	c := NewComparator(slow, cfg)

	start := time.Now()
	v := c.Compare(context.Background(), pairWithScore(0.70))
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, v.Degraded)
}

type judgeFunc func(ctx context.Context) (JudgeResult, error)

func (f judgeFunc) Judge(ctx context.Context, _ extract.CodeUnit, _ extract.DocUnit) (JudgeResult, error) {
	return f(ctx)
}

func TestClampConfidence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ClampConfidence(-5))
	assert.Equal(t, 100.0, ClampConfidence(250))
	assert.Equal(t, 42.5, ClampConfidence(42.5))
}
