package extract

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// javaScriptExtractor extracts function signatures from JavaScript and
// TypeScript source. Both dialects share the TypeScript grammar, so one
// extractor serves the whole tag.
type javaScriptExtractor struct {
	*treeSitterExtractor
}

// NewJavaScriptExtractor creates a new JavaScript/TypeScript code extractor.
func NewJavaScriptExtractor() CodeExtractor {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &javaScriptExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, LangJavaScript),
	}
}

// Extract parses JS/TS source and returns one CodeUnit per function
// declaration, class method, or arrow function bound to a const/let/var.
func (e *javaScriptExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]CodeUnit, error) {
	tree, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	units := []CodeUnit{}
	add := func(unit CodeUnit, ok bool, n *sitter.Node) {
		if !ok {
			slog.Warn("skipping unparseable function declaration",
				"file", filePath, "line", nodeLine(n), "language", e.lang)
			return
		}
		units = append(units, unit)
	}

	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if err := ctx.Err(); err != nil {
			return false
		}
		switch n.Kind() {
		case "function_declaration", "generator_function_declaration":
			unit, ok := e.extractNamed(n, source, filePath)
			add(unit, ok, n)
		case "method_definition":
			unit, ok := e.extractNamed(n, source, filePath)
			if ok && unit.Name == "constructor" {
				return true
			}
			add(unit, ok, n)
		case "variable_declarator":
			if unit, ok := e.extractArrow(n, source, filePath); ok {
				units = append(units, unit)
			}
		}
		return true
	})

	return units, nil
}

// extractNamed handles declarations carrying their own name/parameters
// fields: function declarations and class methods.
func (e *javaScriptExtractor) extractNamed(node *sitter.Node, source []byte, filePath string) (CodeUnit, bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return CodeUnit{}, false
	}

	return CodeUnit{
		Name:       name,
		Parameters: e.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: cleanTypeAnnotation(nodeText(node.ChildByFieldName("return_type"), source)),
		Docstring:  leadingComment(node, source),
		FilePath:   filePath,
		Line:       nodeLine(node),
		Language:   LangJavaScript,
	}, true
}

// extractArrow handles `const fn = (a, b) => ...` bindings.
func (e *javaScriptExtractor) extractArrow(node *sitter.Node, source []byte, filePath string) (CodeUnit, bool) {
	valueNode := node.ChildByFieldName("value")
	if valueNode == nil || valueNode.Kind() != "arrow_function" {
		return CodeUnit{}, false
	}
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return CodeUnit{}, false
	}

	doc := ""
	if parent := node.Parent(); parent != nil {
		doc = leadingComment(parent, source)
	}

	return CodeUnit{
		Name:       name,
		Parameters: e.extractParameters(valueNode.ChildByFieldName("parameters"), source),
		ReturnType: cleanTypeAnnotation(nodeText(valueNode.ChildByFieldName("return_type"), source)),
		Docstring:  doc,
		FilePath:   filePath,
		Line:       nodeLine(node),
		Language:   LangJavaScript,
	}, true
}

func (e *javaScriptExtractor) extractParameters(paramsNode *sitter.Node, source []byte) []Parameter {
	params := []Parameter{}
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			params = append(params, Parameter{Name: nodeText(child, source)})
		case "required_parameter", "optional_parameter":
			p := Parameter{
				Name:    nodeText(child.ChildByFieldName("pattern"), source),
				Type:    cleanTypeAnnotation(nodeText(child.ChildByFieldName("type"), source)),
				Default: nodeText(child.ChildByFieldName("value"), source),
			}
			if p.Name != "" {
				params = append(params, p)
			}
		case "assignment_pattern":
			p := Parameter{
				Name:    nodeText(child.ChildByFieldName("left"), source),
				Default: nodeText(child.ChildByFieldName("right"), source),
			}
			if p.Name != "" {
				params = append(params, p)
			}
		case "rest_pattern":
			params = append(params, Parameter{Name: nodeText(child, source)})
		}
	}

	return params
}

// cleanTypeAnnotation strips the leading ": " a type_annotation node carries.
func cleanTypeAnnotation(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), ":"))
}

// leadingComment returns the comment immediately preceding a node, with
// JSDoc/line markers stripped. Used as the unit's docstring.
func leadingComment(node *sitter.Node, source []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}

	text := nodeText(prev, source)
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, "//")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
