package compare

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/veritas-dev/veritas/internal/match"
)

// Config carries the comparator's routing thresholds and judge timeout.
// Thresholds are per-run tunables, not process-wide constants.
type Config struct {
	// HighThreshold is the similarity at or above which the embedding
	// signal is trusted alone and no judge call is made.
	HighThreshold float64
	// JudgeThreshold is the similarity below HighThreshold at or above
	// which the judge and embedding signals are blended. Below it the
	// judge dominates.
	JudgeThreshold float64
	// JudgeTimeout bounds each individual judge call.
	JudgeTimeout time.Duration
}

// DefaultConfig returns the stock routing configuration.
func DefaultConfig() Config {
	return Config{
		HighThreshold:  0.85,
		JudgeThreshold: 0.60,
		JudgeTimeout:   10 * time.Second,
	}
}

// Comparator decides, per matched pair, whether blended similarity is
// trustworthy alone or must be escalated to the judge, and produces a
// verdict either way. A judge failure degrades the single pair instead of
// failing the run.
type Comparator struct {
	cfg   Config
	judge Judge
}

// NewComparator builds a comparator. The judge may be nil, in which case
// every pair that would escalate is scored by the embedding formula and
// marked degraded.
func NewComparator(judge Judge, cfg Config) *Comparator {
	if cfg.HighThreshold == 0 && cfg.JudgeThreshold == 0 {
		cfg = DefaultConfig()
	}
	if cfg.JudgeTimeout <= 0 {
		cfg.JudgeTimeout = DefaultConfig().JudgeTimeout
	}
	return &Comparator{cfg: cfg, judge: judge}
}

// Compare produces the verdict for one matched pair.
func (c *Comparator) Compare(ctx context.Context, pair match.MatchedPair) Verdict {
	if pair.Doc == nil {
		return Verdict{
			Confidence: 0,
			Issues: []Issue{{
				Type:        TypeMissingDocumentation,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("function %s has no matching documentation", pair.Code.Name),
				CodeSnippet: pair.Code.Signature(),
				Suggestion:  fmt.Sprintf("document %s", pair.Code.Name),
			}},
			Method: MethodEmbedding,
		}
	}

	sim := pair.Similarity.Score
	structural := StructuralDiff(pair.Code, *pair.Doc)

	if sim >= c.cfg.HighThreshold {
		return Verdict{
			Confidence: embeddingConfidence(sim),
			Issues:     structural,
			Method:     MethodEmbedding,
		}
	}

	result, err := c.callJudge(ctx, pair)
	if err != nil {
		slog.Warn("judge call failed, degrading pair",
			"function", pair.Code.Name,
			"location", pair.Code.Location(),
			"error", err)
		return Verdict{
			Confidence: embeddingConfidence(sim),
			Issues:     structural,
			Degraded:   true,
			Method:     MethodEmbedding,
		}
	}

	judgeDominant := sim < c.cfg.JudgeThreshold
	var confidence float64
	method := MethodHybrid
	if judgeDominant {
		confidence = 0.2*(sim*100) + 0.8*result.Confidence
		method = MethodJudge
	} else {
		confidence = 0.4*(sim*100) + 0.6*result.Confidence
	}

	return Verdict{
		Confidence: ClampConfidence(confidence),
		Issues:     mergeIssues(structural, result.Issues, judgeDominant),
		Method:     method,
	}
}

// callJudge runs the judge under the configured per-pair timeout.
func (c *Comparator) callJudge(ctx context.Context, pair match.MatchedPair) (JudgeResult, error) {
	if c.judge == nil {
		return JudgeResult{}, fmt.Errorf("no judge configured")
	}
	judgeCtx, cancel := context.WithTimeout(ctx, c.cfg.JudgeTimeout)
	defer cancel()
	return c.judge.Judge(judgeCtx, pair.Code, *pair.Doc)
}

// mergeIssues combines structural and judge findings, de-duplicating by
// (type, location). When both sources report the same issue, the structural
// copy survives; duplicates keep the more urgent severity, except in the
// judge-dominant lane where the judge's severity wins outright.
func mergeIssues(structural, fromJudge []Issue, judgeSeverityWins bool) []Issue {
	type key struct {
		t   DiscrepancyType
		loc string
	}

	merged := make([]Issue, len(structural))
	copy(merged, structural)
	seen := make(map[key]int, len(merged))
	for i, issue := range merged {
		seen[key{issue.Type, issue.Location}] = i
	}

	for _, issue := range fromJudge {
		k := key{issue.Type, issue.Location}
		if i, dup := seen[k]; dup {
			if issue.Severity != "" {
				if judgeSeverityWins {
					merged[i].Severity = issue.Severity
				} else {
					merged[i].Severity = MaxSeverity(merged[i].Severity, issue.Severity)
				}
			}
			continue
		}
		seen[k] = len(merged)
		merged = append(merged, issue)
	}
	return merged
}

func embeddingConfidence(sim float64) float64 {
	return ClampConfidence(math.Round(sim * 100))
}
