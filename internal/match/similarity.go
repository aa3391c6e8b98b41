package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veritas-dev/veritas/internal/extract"
)

var (
	camelBoundaryRe = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	camelLowerUpRe  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// normalizeName flattens camelCase and snake_case into space-separated
// lowercase words, so "calculateTotal" and "calculate_total" compare equal.
func normalizeName(name string) string {
	s := camelBoundaryRe.ReplaceAllString(name, "${1}_${2}")
	s = camelLowerUpRe.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}

// NameSimilarity scores how alike two function names are, in [0, 1].
// Exact and case-style-equivalent names score near 1; otherwise word overlap
// bands apply, falling back to a normalized edit distance.
func NameSimilarity(a, b string) float64 {
	aLower := strings.ToLower(a)
	bLower := strings.ToLower(b)
	if aLower == bLower {
		return 1.0
	}

	normA := normalizeName(a)
	normB := normalizeName(b)
	if normA == normB {
		return 0.95
	}

	wordsA := fieldsSet(normA)
	wordsB := fieldsSet(normB)
	if len(wordsA) > 0 && len(wordsB) > 0 {
		common := 0
		for w := range wordsA {
			if wordsB[w] {
				common++
			}
		}
		total := len(wordsA) + len(wordsB) - common
		if total > 0 {
			jaccard := float64(common) / float64(total)
			switch {
			case jaccard >= 0.7:
				return 0.85
			case jaccard >= 0.5:
				return 0.70
			case jaccard > 0.3:
				return 0.50
			}
		}
	}

	return levenshteinSimilarity(aLower, bLower)
}

func fieldsSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// levenshteinSimilarity is 1 - distance/maxLen, floored at 0.
func levenshteinSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	distances := make([]int, len(a)+1)
	for i := range distances {
		distances[i] = i
	}
	for i2 := 0; i2 < len(b); i2++ {
		next := make([]int, 0, len(a)+1)
		next = append(next, i2+1)
		for i1 := 0; i1 < len(a); i1++ {
			if a[i1] == b[i2] {
				next = append(next, distances[i1])
			} else {
				next = append(next, 1+min3(distances[i1], distances[i1+1], next[len(next)-1]))
			}
		}
		distances = next
	}

	maxLen := len(b)
	distance := distances[len(distances)-1]
	sim := 1 - float64(distance)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// FeatureSimilarity rewards structural overlap between a code signature and
// a doc claim: parameter count, return agreement, positional type matches,
// and keyword overlap between docstring and documented claims. Each
// component contributes its weight fully on agreement and half when only one
// side carries the signal.
func FeatureSimilarity(code extract.CodeUnit, doc extract.DocUnit) float64 {
	score := 0.0

	// Parameter count closeness (weight 0.3).
	nCode := len(code.Parameters)
	nDoc := len(doc.Parameters)
	if nCode > 0 || nDoc > 0 {
		maxN := nCode
		if nDoc > maxN {
			maxN = nDoc
		}
		diff := nCode - nDoc
		if diff < 0 {
			diff = -diff
		}
		score += 0.3 * (1 - float64(diff)/float64(maxN))
	}

	// Return agreement (weight 0.2).
	switch {
	case code.ReturnType != "" && doc.ReturnDescription != "":
		if typeMentioned(code.ReturnType, doc.ReturnDescription) {
			score += 0.2
		} else {
			score += 0.2 * 0.5
		}
	case code.ReturnType == "" && doc.ReturnDescription == "":
		score += 0.2
	default:
		score += 0.2 * 0.5
	}

	// Positional type hint matches (weight 0.3).
	if nCode > 0 && nDoc > 0 {
		maxN := nCode
		if nDoc > maxN {
			maxN = nDoc
		}
		minN := nCode
		if nDoc < minN {
			minN = nDoc
		}
		matches := 0
		for i := 0; i < minN; i++ {
			ct := code.Parameters[i].Type
			dt := doc.Parameters[i].TypeDescribed
			if ct != "" && dt != "" && strings.EqualFold(strings.TrimSpace(ct), strings.TrimSpace(dt)) {
				matches++
			}
		}
		score += 0.3 * float64(matches) / float64(maxN)
	} else {
		score += 0.3 * 0.5
	}

	// Keyword overlap between code docstring and doc claims (weight 0.2).
	docText := docClaimText(doc)
	if code.Docstring != "" && docText != "" {
		wordsA := fieldsSet(strings.ToLower(code.Docstring))
		wordsB := fieldsSet(strings.ToLower(docText))
		common := 0
		for w := range wordsA {
			if wordsB[w] {
				common++
			}
		}
		total := len(wordsA) + len(wordsB) - common
		if total > 0 {
			score += 0.2 * float64(common) / float64(total)
		} else {
			score += 0.2 * 0.5
		}
	} else {
		score += 0.2 * 0.5
	}

	return score
}

func typeMentioned(codeType, docDesc string) bool {
	return strings.Contains(strings.ToLower(docDesc), strings.ToLower(strings.TrimSpace(codeType)))
}

func docClaimText(doc extract.DocUnit) string {
	parts := make([]string, 0, len(doc.Parameters)+1)
	for _, p := range doc.Parameters {
		parts = append(parts, p.Name, p.TypeDescribed)
	}
	parts = append(parts, doc.ReturnDescription)
	return strings.Join(parts, " ")
}

// CodeRepr renders a code unit as the text fed to the embedding provider.
func CodeRepr(u extract.CodeUnit) string {
	return unitRepr(u.Name, func() []string {
		parts := make([]string, 0, len(u.Parameters))
		for _, p := range u.Parameters {
			desc := p.Name
			if p.Type != "" {
				desc += fmt.Sprintf(" (%s)", p.Type)
			}
			if p.Default != "" {
				desc += " default " + p.Default
			}
			parts = append(parts, desc)
		}
		return parts
	}(), u.ReturnType, u.Docstring)
}

// DocRepr renders a doc unit as the text fed to the embedding provider.
func DocRepr(u extract.DocUnit) string {
	parts := make([]string, 0, len(u.Parameters))
	for _, p := range u.Parameters {
		desc := p.Name
		if p.TypeDescribed != "" {
			desc += fmt.Sprintf(" (%s)", p.TypeDescribed)
		}
		if p.DefaultDescribed != "" {
			desc += " default " + p.DefaultDescribed
		}
		parts = append(parts, desc)
	}
	return unitRepr(u.FunctionName, parts, u.ReturnDescription, "")
}

// unitRepr is the shared textual representation: name, parameters, return,
// and a truncated purpose line.
func unitRepr(name string, params []string, returns, purpose string) string {
	sections := []string{"Function: " + name}

	if len(params) > 0 {
		sections = append(sections, "Parameters: "+strings.Join(params, ", "))
	} else {
		sections = append(sections, "Parameters: none")
	}

	if returns != "" {
		sections = append(sections, "Returns: "+returns)
	}

	if purpose != "" {
		summary := strings.ReplaceAll(purpose, "\n", " ")
		if len(summary) > 200 {
			summary = summary[:200]
		}
		sections = append(sections, "Purpose: "+summary)
	}

	return strings.Join(sections, ". ")
}
