package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/veritas-dev/veritas/internal/compare"
	"github.com/veritas-dev/veritas/internal/extract"
	"github.com/veritas-dev/veritas/internal/match"
)

// Synthesize converts one pair's verdict into reported discrepancies. Each
// issue maps to exactly one discrepancy. Severity comes from the issue when
// its producer supplied one, else a per-type rule. Location anchors at the
// code unit except for pure doc-side issues.
func Synthesize(pair match.MatchedPair, verdict compare.Verdict) []Discrepancy {
	out := make([]Discrepancy, 0, len(verdict.Issues))
	for _, issue := range verdict.Issues {
		severity := issue.Severity
		if severity == "" {
			severity = defaultSeverity(issue.Type)
		}

		location := issue.Location
		if location == "" {
			if issue.DocSide && pair.Doc != nil {
				location = fmt.Sprintf("%s:%d", pair.Doc.FilePath, pair.Doc.Line)
			} else {
				location = pair.Code.Location()
			}
		}

		out = append(out, Discrepancy{
			Type:        issue.Type,
			Severity:    severity,
			Location:    location,
			Description: issue.Description,
			CodeSnippet: issue.CodeSnippet,
			DocSnippet:  issue.DocSnippet,
			Suggestion:  issue.Suggestion,
		})
	}
	return out
}

// SynthesizeUnclaimed reports documentation units no code unit claimed:
// they describe functions that no longer exist, or whose signatures drifted
// past recognition.
func SynthesizeUnclaimed(docs []extract.DocUnit) []Discrepancy {
	out := make([]Discrepancy, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Discrepancy{
			Type:        compare.TypeOutdatedExample,
			Severity:    compare.SeverityHigh,
			Location:    fmt.Sprintf("%s:%d", doc.FilePath, doc.Line),
			Description: fmt.Sprintf("documentation describes %s but no matching function was found in the code", doc.FunctionName),
			DocSnippet:  doc.FunctionName,
			Suggestion:  fmt.Sprintf("remove or update the documentation for %s", doc.FunctionName),
		})
	}
	return out
}

// defaultSeverity applies when neither the structural differ nor the judge
// rated an issue. Absent documentation stays medium, not critical, because
// absence is recoverable by generation, unlike an actively wrong claim.
func defaultSeverity(t compare.DiscrepancyType) compare.Severity {
	switch t {
	case compare.TypeMissingDocumentation:
		return compare.SeverityMedium
	case compare.TypeFunctionSignature:
		return compare.SeverityHigh
	case compare.TypeParameterType:
		return compare.SeverityMedium
	case compare.TypeReturnType:
		return compare.SeverityHigh
	case compare.TypeOutdatedExample:
		return compare.SeverityLow
	case compare.TypeDeprecatedUsage:
		return compare.SeverityMedium
	default:
		return compare.SeverityMedium
	}
}

// SortDiscrepancies orders by (file path, line number). The final sort is
// load-bearing: stable ordering lets callers diff reports across runs.
func SortDiscrepancies(ds []Discrepancy) {
	sort.SliceStable(ds, func(i, j int) bool {
		fi, li := splitLocation(ds[i].Location)
		fj, lj := splitLocation(ds[j].Location)
		if fi != fj {
			return fi < fj
		}
		return li < lj
	})
}

func splitLocation(loc string) (string, int) {
	idx := strings.LastIndex(loc, ":")
	if idx < 0 {
		return loc, 0
	}
	line, err := strconv.Atoi(loc[idx+1:])
	if err != nil {
		return loc, 0
	}
	return loc[:idx], line
}
