package compare

// DiscrepancyType classifies what kind of mismatch an issue describes.
type DiscrepancyType string

const (
	TypeMissingDocumentation DiscrepancyType = "missing_documentation"
	TypeFunctionSignature    DiscrepancyType = "function_signature"
	TypeParameterType        DiscrepancyType = "parameter_type"
	TypeReturnType           DiscrepancyType = "return_type"
	TypeOutdatedExample      DiscrepancyType = "outdated_example"
	TypeDeprecatedUsage      DiscrepancyType = "deprecated_usage"
)

// Severity ranks how urgent a discrepancy is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for comparison. Unknown values rank lowest.
func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MaxSeverity returns the more urgent of two severities.
func MaxSeverity(a, b Severity) Severity {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}

// Issue is a single problem found while comparing one code/doc pair. The
// synthesizer later turns each issue into exactly one reported discrepancy.
type Issue struct {
	Type        DiscrepancyType
	Severity    Severity // empty when the producer supplied none
	Location    string   // file:line, may be empty when only the pair location applies
	Description string
	CodeSnippet string
	DocSnippet  string
	Suggestion  string
	DocSide     bool // anchor the report at the doc location instead of the code
}

// Verdict is the comparator's judgment of one matched pair.
type Verdict struct {
	Confidence float64 // 0-100
	Issues     []Issue
	Degraded   bool   // judge call failed, confidence came from the embedding formula
	Method     string // "embedding", "hybrid", or "judge"
}

// Verdict method tags, named for the dominant signal in each lane.
const (
	MethodEmbedding = "embedding"
	MethodHybrid    = "hybrid"
	MethodJudge     = "judge"
)

// ClampConfidence bounds a confidence value to [0, 100].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
