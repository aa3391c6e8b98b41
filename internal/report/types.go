package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/veritas-dev/veritas/internal/compare"
)

// Discrepancy is one reported inconsistency between code and documentation.
// Never mutated after synthesis.
type Discrepancy struct {
	Type        compare.DiscrepancyType `json:"type"`
	Severity    compare.Severity        `json:"severity"`
	Location    string                  `json:"location"`
	Description string                  `json:"description"`
	CodeSnippet string                  `json:"code_snippet,omitempty"`
	DocSnippet  string                  `json:"doc_snippet,omitempty"`
	Suggestion  string                  `json:"suggestion,omitempty"`
}

// Summary carries the aggregate trust numbers for one run.
type Summary struct {
	TrustScore     int `json:"trust_score"`
	TotalFunctions int `json:"total_functions"`
	VerifiedCount  int `json:"verified_count"`
	DegradedCount  int `json:"degraded_count"`
}

// Timing records where a run spent its wall clock, in milliseconds.
type Timing struct {
	ExtractMs int64 `json:"extract_ms"`
	MatchMs   int64 `json:"match_ms"`
	CompareMs int64 `json:"compare_ms"`
	TotalMs   int64 `json:"total_ms"`
}

// AnalysisResult is the single output of one analysis run.
type AnalysisResult struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Summary       Summary       `json:"summary"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Notes         []string      `json:"notes,omitempty"`
	Timing        Timing        `json:"timing"`
}

// NewRunID returns a fresh identifier for one analysis run.
func NewRunID() string {
	return uuid.NewString()
}
