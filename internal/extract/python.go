package extract

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonExtractor extracts function and method signatures from Python source
// using the tree-sitter grammar.
type pythonExtractor struct {
	*treeSitterExtractor
}

// NewPythonExtractor creates a new Python code extractor.
func NewPythonExtractor() CodeExtractor {
	lang := sitter.NewLanguage(python.Language())
	return &pythonExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, LangPython),
	}
}

// Extract parses Python source and returns one CodeUnit per function or
// method definition.
func (e *pythonExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]CodeUnit, error) {
	tree, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	units := []CodeUnit{}
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if err := ctx.Err(); err != nil {
			return false
		}
		if n.Kind() != "function_definition" {
			return true
		}
		unit, ok := e.extractFunction(n, source, filePath)
		if !ok {
			slog.Warn("skipping unparseable function definition",
				"file", filePath, "line", nodeLine(n), "language", e.lang)
			return true
		}
		units = append(units, unit)
		return true
	})

	return units, nil
}

func (e *pythonExtractor) extractFunction(node *sitter.Node, source []byte, filePath string) (CodeUnit, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return CodeUnit{}, false
	}
	name := nodeText(nameNode, source)
	if name == "" {
		return CodeUnit{}, false
	}

	unit := CodeUnit{
		Name:       name,
		Parameters: e.extractParameters(node, source),
		ReturnType: nodeText(node.ChildByFieldName("return_type"), source),
		Docstring:  e.extractDocstring(node, source),
		FilePath:   filePath,
		Line:       nodeLine(node),
		Language:   LangPython,
	}

	// self/cls receivers are an implementation detail, not a documentable
	// parameter.
	if isMethod(node) && len(unit.Parameters) > 0 {
		first := unit.Parameters[0].Name
		if first == "self" || first == "cls" {
			unit.Parameters = unit.Parameters[1:]
		}
	}

	return unit, true
}

func (e *pythonExtractor) extractParameters(node *sitter.Node, source []byte) []Parameter {
	params := []Parameter{}
	paramsNode := node.ChildByFieldName("parameters")
	if paramsNode == nil {
		return params
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		switch child.Kind() {
		case "identifier":
			params = append(params, Parameter{Name: nodeText(child, source)})
		case "typed_parameter":
			p := Parameter{Type: nodeText(child.ChildByFieldName("type"), source)}
			for j := 0; j < int(child.ChildCount()); j++ {
				if inner := child.Child(uint(j)); inner.Kind() == "identifier" {
					p.Name = nodeText(inner, source)
					break
				}
			}
			if p.Name != "" {
				params = append(params, p)
			}
		case "default_parameter":
			params = append(params, Parameter{
				Name:    nodeText(child.ChildByFieldName("name"), source),
				Default: nodeText(child.ChildByFieldName("value"), source),
			})
		case "typed_default_parameter":
			params = append(params, Parameter{
				Name:    nodeText(child.ChildByFieldName("name"), source),
				Type:    nodeText(child.ChildByFieldName("type"), source),
				Default: nodeText(child.ChildByFieldName("value"), source),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, Parameter{Name: nodeText(child, source)})
		}
	}

	return params
}

// extractDocstring returns the leading string literal of a function body, if
// any, with surrounding quotes stripped.
func (e *pythonExtractor) extractDocstring(node *sitter.Node, source []byte) string {
	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil || bodyNode.ChildCount() == 0 {
		return ""
	}

	first := bodyNode.Child(0)
	if first.Kind() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	strNode := first.Child(0)
	if strNode.Kind() != "string" {
		return ""
	}

	text := nodeText(strNode, source)
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) >= 2*len(quote) {
			return strings.TrimSpace(text[len(quote) : len(text)-len(quote)])
		}
	}
	return strings.TrimSpace(text)
}

// isMethod reports whether a function definition sits inside a class body.
func isMethod(node *sitter.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "class_definition", "class_declaration", "class_body":
			return true
		case "function_definition", "function_declaration":
			return false
		}
	}
	return false
}
