package report

import (
	"io"
	"strings"

	"github.com/veritas-dev/veritas/internal/compare"
)

// TextWriter outputs a human-readable terminal report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, result *AnalysisResult) error {
	ew := &errWriter{w: w}

	ew.printf("Documentation Trust Report\n")
	ew.printf("%s\n", strings.Repeat("─", 60))
	ew.printf("Trust score:    %d / 100\n", result.Summary.TrustScore)
	ew.printf("Functions:      %d total, %d verified\n",
		result.Summary.TotalFunctions, result.Summary.VerifiedCount)
	if result.Summary.DegradedCount > 0 {
		ew.printf("Degraded:       %d verdict(s) scored without the judge\n",
			result.Summary.DegradedCount)
	}
	for _, note := range result.Notes {
		ew.printf("Note:           %s\n", note)
	}
	ew.printf("%s\n", strings.Repeat("─", 60))

	if len(result.Discrepancies) == 0 {
		ew.printf("\nNo discrepancies found.\n")
		return ew.err
	}

	grouped := groupBySeverity(result.Discrepancies)
	for _, sev := range severityOrder {
		ds := grouped[sev]
		if len(ds) == 0 {
			continue
		}
		ew.printf("\n%s %s\n", severityTag(sev), strings.ToUpper(string(sev)))
		ew.printf("%s\n", strings.Repeat("─", 40))
		for _, d := range ds {
			ew.printf("\n  %s  [%s]\n", d.Location, d.Type)
			for _, line := range wrapText(d.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if d.Suggestion != "" {
				ew.printf("  Suggestion:\n")
				for _, line := range wrapText(d.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Run %s completed in %dms\n", result.RunID, result.Timing.TotalMs)
	return ew.err
}

func severityTag(s compare.Severity) string {
	switch s {
	case compare.SeverityCritical:
		return "[!!!]"
	case compare.SeverityHigh:
		return "[!!]"
	case compare.SeverityMedium:
		return "[!]"
	case compare.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
