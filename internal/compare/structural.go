package compare

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veritas-dev/veritas/internal/extract"
)

var deprecatedRe = regexp.MustCompile(`(?i)@deprecated\b|(?:^|\n)\s*deprecated[:\s]`)

// StructuralDiff compares a code signature against a documentation claim
// without any external calls. It finds parameter-set differences, type
// disagreements, return description problems, deprecation markers, and stale
// code examples. Every lane includes these issues; the judge only adds to
// them.
func StructuralDiff(code extract.CodeUnit, doc extract.DocUnit) []Issue {
	var issues []Issue

	docParams := make(map[string]extract.DocParameter, len(doc.Parameters))
	for _, p := range doc.Parameters {
		docParams[strings.ToLower(p.Name)] = p
	}
	codeParams := make(map[string]extract.Parameter, len(code.Parameters))
	for _, p := range code.Parameters {
		codeParams[strings.ToLower(p.Name)] = p
	}

	// Code parameters the documentation never mentions.
	for _, p := range code.Parameters {
		dp, documented := docParams[strings.ToLower(p.Name)]
		if !documented {
			severity := SeverityHigh
			kind := "required"
			if p.Default != "" {
				severity = SeverityMedium
				kind = "optional"
			}
			issues = append(issues, Issue{
				Type:        TypeMissingDocumentation,
				Severity:    severity,
				Description: fmt.Sprintf("%s parameter %q of %s is not documented", kind, p.Name, code.Name),
				CodeSnippet: code.Signature(),
				Suggestion:  fmt.Sprintf("document the %q parameter", p.Name),
			})
			continue
		}
		if p.Type != "" && dp.TypeDescribed != "" && !typesAgree(p.Type, dp.TypeDescribed) {
			issues = append(issues, Issue{
				Type:        TypeParameterType,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("parameter %q is %s in code but documented as %s", p.Name, p.Type, dp.TypeDescribed),
				CodeSnippet: code.Signature(),
				Suggestion:  fmt.Sprintf("update the documented type of %q to %s", p.Name, p.Type),
			})
		}
		if p.Default != "" && dp.DefaultDescribed != "" && !strings.EqualFold(strings.TrimSpace(p.Default), strings.TrimSpace(dp.DefaultDescribed)) {
			issues = append(issues, Issue{
				Type:        TypeParameterType,
				Severity:    SeverityMedium,
				Description: fmt.Sprintf("parameter %q defaults to %s but documentation says %s", p.Name, p.Default, dp.DefaultDescribed),
				CodeSnippet: code.Signature(),
				Suggestion:  fmt.Sprintf("correct the documented default of %q", p.Name),
			})
		}
	}

	// Documented parameters that no longer exist in code.
	for _, p := range doc.Parameters {
		if _, exists := codeParams[strings.ToLower(p.Name)]; !exists {
			issues = append(issues, Issue{
				Type:        TypeFunctionSignature,
				Severity:    SeverityHigh,
				Description: fmt.Sprintf("documentation describes parameter %q which %s does not accept", p.Name, code.Name),
				CodeSnippet: code.Signature(),
				DocSnippet:  fmt.Sprintf("parameter %q", p.Name),
				Suggestion:  fmt.Sprintf("remove %q from the documentation or restore it in code", p.Name),
				DocSide:     true,
			})
		}
	}

	// Return description presence and agreement.
	switch {
	case code.ReturnType != "" && doc.ReturnDescription == "":
		issues = append(issues, Issue{
			Type:        TypeReturnType,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("%s returns %s but the documentation describes no return value", code.Name, code.ReturnType),
			CodeSnippet: code.Signature(),
			Suggestion:  "document the return value",
		})
	case code.ReturnType != "" && doc.ReturnDescription != "" && !typesAgree(code.ReturnType, doc.ReturnDescription):
		issues = append(issues, Issue{
			Type:        TypeReturnType,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("%s returns %s but the documentation describes: %s", code.Name, code.ReturnType, truncate(doc.ReturnDescription, 120)),
			CodeSnippet: code.Signature(),
			DocSnippet:  truncate(doc.ReturnDescription, 120),
			Suggestion:  fmt.Sprintf("update the documented return to %s", code.ReturnType),
		})
	}

	// Docs still describing a function the code marks deprecated.
	if deprecatedRe.MatchString(code.Docstring) {
		issues = append(issues, Issue{
			Type:        TypeDeprecatedUsage,
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("%s is marked deprecated in code but still documented as current", code.Name),
			CodeSnippet: truncate(code.Docstring, 120),
			Suggestion:  fmt.Sprintf("mark %s deprecated in the documentation or point readers at its replacement", code.Name),
		})
	}

	// Code examples calling the function with the wrong number of arguments.
	for _, example := range doc.CodeExamples {
		if argc, called := exampleCallArity(example, code.Name); called && staleArity(argc, code) {
			issues = append(issues, Issue{
				Type:        TypeOutdatedExample,
				Severity:    SeverityLow,
				Description: fmt.Sprintf("code example calls %s with %d argument(s) but the signature takes %d", code.Name, argc, len(code.Parameters)),
				CodeSnippet: code.Signature(),
				DocSnippet:  truncate(example, 160),
				Suggestion:  "update the example to match the current signature",
				DocSide:     true,
			})
		}
	}

	return issues
}

// typesAgree is a loose containment check: the documented text is accepted
// when it mentions the code's type (docs frequently describe types in prose).
func typesAgree(codeType, described string) bool {
	ct := strings.ToLower(strings.TrimSpace(codeType))
	dt := strings.ToLower(strings.TrimSpace(described))
	if ct == dt {
		return true
	}
	return strings.Contains(dt, ct) || strings.Contains(ct, dt)
}

// exampleCallArity finds the first call of name in the example and counts
// its top-level arguments. Returns called=false when the example never
// invokes the function.
func exampleCallArity(example, name string) (argc int, called bool) {
	idx := strings.Index(example, name+"(")
	if idx < 0 {
		return 0, false
	}
	rest := example[idx+len(name)+1:]
	depth := 1
	args := 0
	seenContent := false
	for _, r := range rest {
		switch r {
		case '(', '[', '{':
			depth++
			seenContent = true
		case ')', ']', '}':
			depth--
			if depth == 0 {
				if seenContent {
					args++
				}
				return args, true
			}
		case ',':
			if depth == 1 {
				args++
				seenContent = false
			}
		default:
			if !isSpaceRune(r) {
				seenContent = true
			}
		}
	}
	return 0, false
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// staleArity flags arities outside [required, total] parameter counts.
func staleArity(argc int, code extract.CodeUnit) bool {
	total := len(code.Parameters)
	required := 0
	for _, p := range code.Parameters {
		if p.Default == "" {
			required++
		}
	}
	return argc < required || argc > total
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
