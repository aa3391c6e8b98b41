package judge

import (
	"context"

	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/extract"
)

// MockJudge is a deterministic in-process judge for tests and offline runs.
// The zero value agrees with the documentation at full confidence.
type MockJudge struct {
	// Confidence returned for every pair. Defaults to 100 when zero and
	// Result is unset.
	Confidence float64
	// Issues returned for every pair.
	Issues []compare.Issue
	// Err, when set, makes every call fail.
	Err error
	// Fn, when set, overrides all other fields.
	Fn func(ctx context.Context, code extract.CodeUnit, doc extract.DocUnit) (compare.JudgeResult, error)

	// Calls counts invocations. Not synchronized; set Fn for concurrent
	// tests that need counting.
	Calls int
}

func (m *MockJudge) Judge(ctx context.Context, code extract.CodeUnit, doc extract.DocUnit) (compare.JudgeResult, error) {
	m.Calls++
	if m.Fn != nil {
		return m.Fn(ctx, code, doc)
	}
	if m.Err != nil {
		return compare.JudgeResult{}, m.Err
	}
	confidence := m.Confidence
	if confidence == 0 && len(m.Issues) == 0 {
		confidence = 100
	}
	return compare.JudgeResult{Confidence: confidence, Issues: m.Issues}, nil
}
