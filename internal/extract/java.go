package extract

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// javaExtractor extracts method signatures from Java source using the
// tree-sitter grammar.
type javaExtractor struct {
	*treeSitterExtractor
}

// NewJavaExtractor creates a new Java code extractor.
func NewJavaExtractor() CodeExtractor {
	lang := sitter.NewLanguage(java.Language())
	return &javaExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, LangJava),
	}
}

// Extract parses Java source and returns one CodeUnit per method
// declaration, including interface methods. Constructors are skipped.
func (e *javaExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]CodeUnit, error) {
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
		if n.Kind() != "method_declaration" {
			return true
		}
		unit, ok := e.extractMethod(n, source, filePath)
		if !ok {
			slog.Warn("skipping unparseable method declaration",
				"file", filePath, "line", nodeLine(n), "language", e.lang)
			return true
		}
		units = append(units, unit)
		return true
	})

	return units, nil
}

func (e *javaExtractor) extractMethod(node *sitter.Node, source []byte, filePath string) (CodeUnit, bool) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return CodeUnit{}, false
	}

	returnType := nodeText(node.ChildByFieldName("type"), source)
	if returnType == "void" {
		returnType = ""
	}

	return CodeUnit{
		Name:       name,
		Parameters: e.extractParameters(node.ChildByFieldName("parameters"), source),
		ReturnType: returnType,
		Docstring:  javadocComment(node, source),
		FilePath:   filePath,
		Line:       nodeLine(node),
		Language:   LangJava,
	}, true
}

func (e *javaExtractor) extractParameters(paramsNode *sitter.Node, source []byte) []Parameter {
	params := []Parameter{}
	if paramsNode == nil {
		return params
	}

	for _, child := range findChildrenByKind(paramsNode, "formal_parameter") {
		p := Parameter{
			Name: nodeText(child.ChildByFieldName("name"), source),
			Type: nodeText(child.ChildByFieldName("type"), source),
		}
		if p.Name != "" {
			params = append(params, p)
		}
	}
	for _, child := range findChildrenByKind(paramsNode, "spread_parameter") {
		params = append(params, Parameter{Name: nodeText(child, source)})
	}

	return params
}

// javadocComment returns the block comment immediately preceding a method,
// with comment markers stripped.
func javadocComment(node *sitter.Node, source []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil {
		return ""
	}
	kind := prev.Kind()
	if kind != "block_comment" && kind != "line_comment" && kind != "comment" {
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
