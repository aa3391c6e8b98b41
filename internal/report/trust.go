package report

import (
	"math"

	"github.com/veritas-dev/veritas/internal/compare"
)

// VerifiedThreshold is the confidence at or above which a function counts
// as verified.
const VerifiedThreshold = 80.0

// Aggregate reduces all verdicts into the run summary. The trust score is
// the unweighted rounded mean confidence so every function counts equally,
// keeping the score readable as "percentage of functions whose
// documentation can be trusted". An empty verdict list scores 0.
func Aggregate(verdicts []compare.Verdict) Summary {
	s := Summary{TotalFunctions: len(verdicts)}
	if len(verdicts) == 0 {
		return s
	}

	var sum float64
	for _, v := range verdicts {
		sum += v.Confidence
		if v.Confidence >= VerifiedThreshold {
			s.VerifiedCount++
		}
		if v.Degraded {
			s.DegradedCount++
		}
	}
	s.TrustScore = int(math.Round(sum / float64(len(verdicts))))
	return s
}
