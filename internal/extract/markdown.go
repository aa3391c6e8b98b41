package extract

import (
	"context"
	"regexp"
	"strings"
)

// markdownExtractor extracts documented function claims from Markdown prose.
// Headings and inline code spans are treated as indicators of a function
// reference; Parameters/Returns subsections supply the claimed signature.
type markdownExtractor struct{}

// NewMarkdownExtractor creates a new Markdown doc extractor.
func NewMarkdownExtractor() DocExtractor {
	return &markdownExtractor{}
}

var (
	headingRe = regexp.MustCompile("^(#{1,6})\\s+(.+)$")
	// - `name` (float, default: 0.0): description
	paramTypedRe = regexp.MustCompile("[-*]\\s*`(\\w+)`\\s*\\(([^)]+)\\)")
	// - `name`: description
	paramBareRe = regexp.MustCompile("[-*]\\s*`(\\w+)`\\s*:")
	returnsRe   = regexp.MustCompile("[-*]\\s*`([^`]+)`\\s*:?\\s*(.*)")
	// `total(price, qty)` or `cart.total(price, qty)`
	inlineRefRe = regexp.MustCompile("`(?:[\\w.]+\\.)?(\\w+)\\(([^)]*)\\)`")
	// def f(a, b) / function f(a, b) / public int f(int a)
	blockSigRes = []*regexp.Regexp{
		regexp.MustCompile(`def\s+(\w+)\s*\(([^)]*)\)`),
		regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)`),
		regexp.MustCompile(`(?:public|private|protected|static|void|\w+)\s+(\w+)\s*\(([^)]*)\)\s*[{;]`),
	}
)

// sectionTitles are headings that never name a function.
var sectionTitles = map[string]bool{
	"parameters": true, "parameter": true, "returns": true, "return": true,
	"example": true, "examples": true, "description": true, "usage": true,
	"notes": true, "see also": true, "raises": true, "warnings": true,
	"arguments": true, "options": true, "installation": true, "overview": true,
}

// keywordNames are identifiers a signature pattern can match that are never
// function names.
var keywordNames = map[string]bool{
	"if": true, "while": true, "for": true, "switch": true, "return": true,
	"catch": true, "print": true, "log": true, "console": true, "example": true,
}

type mdSection struct {
	heading string
	line    int
	body    []string
	// fenced code blocks belonging to this section
	examples []string
}

// Extract parses Markdown and returns one DocUnit per documented function:
// function-like `##` headings with their Parameters/Returns subsections,
// plus inline `name(args)` references and signatures inside fenced code
// blocks not already covered by a heading.
func (e *markdownExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]DocUnit, error) {
	lines := strings.Split(string(source), "\n")

	units := []DocUnit{}
	byName := map[string]bool{}

	var current *mdSection
	var looseExamples []struct {
		text string
		line int
	}

	inBlock := false
	var blockLines []string
	blockStart := 0

	flush := func() {
		if current == nil {
			return
		}
		if unit, ok := e.sectionUnit(current, filePath); ok {
			units = append(units, unit)
			byName[strings.ToLower(unit.FunctionName)] = true
		}
		current = nil
	}

	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNum := i + 1

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inBlock {
				inBlock = true
				blockLines = nil
				blockStart = lineNum
			} else {
				inBlock = false
				text := strings.Join(blockLines, "\n")
				if current != nil {
					current.examples = append(current.examples, text)
				} else if strings.TrimSpace(text) != "" {
					looseExamples = append(looseExamples, struct {
						text string
						line int
					}{text, blockStart})
				}
			}
			continue
		}
		if inBlock {
			blockLines = append(blockLines, line)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			title := strings.TrimSpace(m[2])
			if level <= 2 {
				flush()
				if looksLikeFunctionName(title) {
					current = &mdSection{heading: title, line: lineNum}
				}
			} else if current != nil {
				current.body = append(current.body, line)
			}
			continue
		}

		if current != nil {
			current.body = append(current.body, line)
			continue
		}

		// Inline references outside any function section.
		for _, ref := range inlineRefRe.FindAllStringSubmatch(line, -1) {
			name := CleanFunctionName(ref[1])
			if name == "" || keywordNames[strings.ToLower(name)] || byName[strings.ToLower(name)] {
				continue
			}
			units = append(units, DocUnit{
				FunctionName: name,
				Parameters:   paramsFromArgList(ref[2]),
				FilePath:     filePath,
				Line:         lineNum,
			})
			byName[strings.ToLower(name)] = true
		}
	}
	flush()

	// Signatures inside code blocks that no heading claimed.
	for _, ex := range looseExamples {
		for _, unit := range e.blockUnits(ex.text, ex.line, filePath) {
			if byName[strings.ToLower(unit.FunctionName)] {
				continue
			}
			units = append(units, unit)
			byName[strings.ToLower(unit.FunctionName)] = true
		}
	}

	return units, nil
}

// sectionUnit builds a DocUnit from a function-name heading and its body.
func (e *markdownExtractor) sectionUnit(sec *mdSection, filePath string) (DocUnit, bool) {
	name := CleanFunctionName(sec.heading)
	if name == "" {
		return DocUnit{}, false
	}

	unit := DocUnit{
		FunctionName: name,
		Parameters:   []DocParameter{},
		CodeExamples: sec.examples,
		FilePath:     filePath,
		Line:         sec.line,
	}

	subsection := ""
	for _, line := range sec.body {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			title := strings.ToLower(strings.TrimSpace(m[2]))
			switch {
			case strings.HasPrefix(title, "parameter"), strings.HasPrefix(title, "argument"):
				subsection = "parameters"
			case strings.HasPrefix(title, "return"):
				subsection = "returns"
			default:
				subsection = ""
			}
			continue
		}

		switch subsection {
		case "parameters":
			if p, ok := parseDocParameter(line); ok && !hasDocParam(unit.Parameters, p.Name) {
				unit.Parameters = append(unit.Parameters, p)
			}
		case "returns":
			if unit.ReturnDescription == "" {
				if m := returnsRe.FindStringSubmatch(line); m != nil {
					unit.ReturnDescription = strings.TrimSpace(strings.TrimRight(m[1], ".,;"))
				} else if t := strings.TrimSpace(line); t != "" {
					unit.ReturnDescription = t
				}
			}
		}
	}

	return unit, true
}

// blockUnits scans a fenced code block for documented signatures.
func (e *markdownExtractor) blockUnits(code string, startLine int, filePath string) []DocUnit {
	units := []DocUnit{}
	seen := map[string]bool{}

	for _, re := range blockSigRes {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			name := m[1]
			if keywordNames[strings.ToLower(name)] || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			units = append(units, DocUnit{
				FunctionName: name,
				Parameters:   paramsFromArgList(m[2]),
				CodeExamples: []string{code},
				FilePath:     filePath,
				Line:         startLine,
			})
		}
	}

	return units
}

// parseDocParameter parses one bullet of a Parameters section.
func parseDocParameter(line string) (DocParameter, bool) {
	if m := paramTypedRe.FindStringSubmatch(line); m != nil {
		p := DocParameter{Name: m[1]}
		for _, part := range strings.Split(m[2], ",") {
			part = strings.TrimSpace(part)
			lower := strings.ToLower(part)
			switch {
			case strings.HasPrefix(lower, "default"):
				val := strings.TrimLeft(part[len("default"):], ":= ")
				p.DefaultDescribed = strings.Trim(val, "`")
			case lower == "optional" || lower == "required":
				// qualifier, not a type
			case p.TypeDescribed == "":
				p.TypeDescribed = part
			}
		}
		return p, true
	}
	if m := paramBareRe.FindStringSubmatch(line); m != nil {
		return DocParameter{Name: m[1]}, true
	}
	return DocParameter{}, false
}

// paramsFromArgList turns "price, qty" into named doc parameters.
func paramsFromArgList(argList string) []DocParameter {
	params := []DocParameter{}
	for _, arg := range strings.Split(argList, ",") {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		p := DocParameter{Name: arg}
		if eq := strings.Index(arg, "="); eq != -1 {
			p.Name = strings.TrimSpace(arg[:eq])
			p.DefaultDescribed = strings.TrimSpace(arg[eq+1:])
		}
		if colon := strings.Index(p.Name, ":"); colon != -1 {
			p.TypeDescribed = strings.TrimSpace(p.Name[colon+1:])
			p.Name = strings.TrimSpace(p.Name[:colon])
		}
		if p.Name != "" {
			params = append(params, p)
		}
	}
	return params
}

func hasDocParam(params []DocParameter, name string) bool {
	for _, p := range params {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// looksLikeFunctionName reports whether a heading plausibly names a function
// rather than a prose section.
func looksLikeFunctionName(text string) bool {
	text = strings.Trim(strings.TrimSpace(text), "`")
	text = strings.TrimSuffix(text, "()")
	if text == "" || sectionTitles[strings.ToLower(text)] {
		return false
	}
	if strings.ContainsAny(text, " \t") {
		return false
	}
	for i, r := range text {
		ok := r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	first := text[0]
	return first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')
}
