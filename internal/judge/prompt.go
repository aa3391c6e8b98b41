package judge

import (
	"fmt"
	"strings"

	"github.com/veritas-dev/veritas/internal/extract"
)

const systemPrompt = `You are a documentation accuracy reviewer. You compare a function's actual signature against what its documentation claims and report every inconsistency. Respond with JSON only.`

// buildPrompt renders one code/doc pair as the user message. The checklist
// keeps the model focused on verifiable claims rather than style.
func buildPrompt(code extract.CodeUnit, doc extract.DocUnit) string {
	var b strings.Builder

	b.WriteString("Compare this function's code against its documentation.\n\n")

	b.WriteString("CODE:\n")
	fmt.Fprintf(&b, "  Signature: %s\n", code.Signature())
	if code.ReturnType != "" {
		fmt.Fprintf(&b, "  Returns: %s\n", code.ReturnType)
	}
	if code.Docstring != "" {
		fmt.Fprintf(&b, "  Docstring: %s\n", firstN(code.Docstring, 500))
	}

	b.WriteString("\nDOCUMENTATION CLAIMS:\n")
	fmt.Fprintf(&b, "  Function: %s\n", doc.FunctionName)
	if len(doc.Parameters) > 0 {
		b.WriteString("  Parameters:\n")
		for _, p := range doc.Parameters {
			fmt.Fprintf(&b, "    - %s", p.Name)
			if p.TypeDescribed != "" {
				fmt.Fprintf(&b, " (%s)", p.TypeDescribed)
			}
			if p.DefaultDescribed != "" {
				fmt.Fprintf(&b, " default %s", p.DefaultDescribed)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  Parameters: none documented\n")
	}
	if doc.ReturnDescription != "" {
		fmt.Fprintf(&b, "  Returns: %s\n", firstN(doc.ReturnDescription, 300))
	}
	for i, example := range doc.CodeExamples {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&b, "  Example:\n%s\n", indent(firstN(example, 400), "    "))
	}

	b.WriteString(`
Check for:
1. Parameters present in code but missing from documentation (type "missing_documentation")
2. Parameters documented but absent from code (type "function_signature")
3. Parameter type or default-value disagreements (type "parameter_type")
4. Return value disagreements (type "return_type")
5. Examples that no longer match the signature (type "outdated_example")
6. Deprecated code still documented as current (type "deprecated_usage")

Respond with ONLY this JSON object, no prose:
{"confidence": <0-100, how well the documentation matches the code>, "issues": [{"type": "...", "severity": "low|medium|high|critical", "description": "...", "suggestion": "..."}]}
`)

	return b.String()
}

func firstN(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
