package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/veritas-dev/veritas/internal/compare"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, result *AnalysisResult) error {
	ew := &errWriter{w: w}

	ew.printf("## Documentation Trust Report\n\n")
	ew.printf("**Trust score: %d / 100** — %d of %d functions verified\n\n",
		result.Summary.TrustScore, result.Summary.VerifiedCount, result.Summary.TotalFunctions)
	if result.Summary.DegradedCount > 0 {
		ew.printf("> %d verdict(s) were degraded: the judge was unavailable and confidences fall back to embedding similarity.\n\n",
			result.Summary.DegradedCount)
	}
	for _, note := range result.Notes {
		ew.printf("> %s\n\n", note)
	}

	grouped := groupBySeverity(result.Discrepancies)
	total := len(result.Discrepancies)

	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	for _, sev := range severityOrder {
		ew.printf("| %s | %d |\n", capitalize(string(sev)), len(grouped[sev]))
	}
	ew.printf("| **Total** | **%d** |\n\n", total)

	if total == 0 {
		ew.printf("No discrepancies found. :white_check_mark:\n")
		return ew.err
	}

	for _, sev := range severityOrder {
		ds := grouped[sev]
		if len(ds) == 0 {
			continue
		}
		ew.printf("<details>\n<summary>%s %s (%d)</summary>\n\n",
			severityEmoji(sev), strings.ToUpper(string(sev)), len(ds))
		for _, d := range ds {
			ew.printf("### `%s` — %s\n\n", d.Location, d.Type)
			ew.printf("%s\n\n", d.Description)
			if d.CodeSnippet != "" {
				ew.printf("```\n%s\n```\n\n", d.CodeSnippet)
			}
			if d.DocSnippet != "" {
				ew.printf("> %s\n\n", strings.ReplaceAll(d.DocSnippet, "\n", "\n> "))
			}
			if d.Suggestion != "" {
				ew.printf("**Suggestion:** %s\n\n", d.Suggestion)
			}
			ew.printf("---\n\n")
		}
		ew.printf("</details>\n\n")
	}

	ew.printf("*Run %s completed in %dms*\n", result.RunID, result.Timing.TotalMs)
	return ew.err
}

var severityOrder = []compare.Severity{
	compare.SeverityCritical,
	compare.SeverityHigh,
	compare.SeverityMedium,
	compare.SeverityLow,
}

func groupBySeverity(ds []Discrepancy) map[compare.Severity][]Discrepancy {
	m := make(map[compare.Severity][]Discrepancy)
	for _, d := range ds {
		m[d.Severity] = append(m[d.Severity], d)
	}
	return m
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func severityEmoji(s compare.Severity) string {
	switch s {
	case compare.SeverityCritical:
		return ":no_entry:"
	case compare.SeverityHigh:
		return ":red_circle:"
	case compare.SeverityMedium:
		return ":orange_circle:"
	case compare.SeverityLow:
		return ":yellow_circle:"
	default:
		return ":white_circle:"
	}
}

// errWriter captures the first write error so every printf need not be
// checked individually.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
