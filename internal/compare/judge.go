package compare

import (
	"context"
	"errors"

	"github.com/veritas-dev/veritas/internal/extract"
)

// JudgeResult is what the external judge returns for one pair.
type JudgeResult struct {
	Confidence float64 // 0-100
	Issues     []Issue
}

// Judge evaluates whether a documentation claim still matches the code it
// describes. Implementations must be safe for concurrent use; the comparator
// fans out pairs across workers sharing one judge.
type Judge interface {
	Judge(ctx context.Context, code extract.CodeUnit, doc extract.DocUnit) (JudgeResult, error)
}

// ErrMalformedResponse signals that the judge provider answered but the
// response could not be parsed into a result. Callers treat it like any
// other judge failure and degrade the pair.
var ErrMalformedResponse = errors.New("malformed judge response")
