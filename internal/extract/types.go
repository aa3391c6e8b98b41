package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language identifies a supported source language. The set is closed:
// extractors dispatch on this tag rather than on open-ended plugins.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
	LangMarkdown   Language = "markdown"
	LangJSON       Language = "json"
)

// LanguageForPath maps a file path to its language tag.
// TypeScript shares the JavaScript tag (same grammar, same extraction).
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return LangPython, true
	case ".js", ".jsx", ".ts", ".tsx":
		return LangJavaScript, true
	case ".java":
		return LangJava, true
	case ".md", ".markdown":
		return LangMarkdown, true
	case ".json":
		return LangJSON, true
	default:
		return "", false
	}
}

// IsDocLanguage reports whether units of this language come from the
// documentation side of the code/doc boundary.
func IsDocLanguage(lang Language) bool {
	return lang == LangMarkdown || lang == LangJSON
}

// UnsupportedLanguageError is returned when a caller asks for extraction of a
// language no extractor handles. Callers must be able to distinguish "nothing
// found" from "cannot parse this language", so this is a typed error rather
// than an empty result.
type UnsupportedLanguageError struct {
	Path     string
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unsupported language %q for file %s", e.Language, e.Path)
	}
	return fmt.Sprintf("unsupported language %q", e.Language)
}

// Parameter is one positional parameter of a code function. Order within
// CodeUnit.Parameters is semantically significant and preserved.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default string `json:"default,omitempty"`
}

// CodeUnit is the canonical record of one documentable function or method
// extracted from source. Immutable after extraction.
type CodeUnit struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"return_type,omitempty"`
	Docstring  string      `json:"docstring,omitempty"`
	FilePath   string      `json:"file_path"`
	Line       int         `json:"line_number"`
	Language   Language    `json:"language"`
}

// Location returns the unit's file:line reference.
func (u CodeUnit) Location() string {
	return fmt.Sprintf("%s:%d", u.FilePath, u.Line)
}

// Signature renders the unit as a single-line signature for prompts and
// report snippets.
func (u CodeUnit) Signature() string {
	parts := make([]string, 0, len(u.Parameters))
	for _, p := range u.Parameters {
		s := p.Name
		if p.Type != "" {
			s += ": " + p.Type
		}
		if p.Default != "" {
			s += " = " + p.Default
		}
		parts = append(parts, s)
	}
	sig := u.Name + "(" + strings.Join(parts, ", ") + ")"
	if u.ReturnType != "" {
		sig += " -> " + u.ReturnType
	}
	return sig
}

// DocParameter is one parameter claim made by documentation.
type DocParameter struct {
	Name             string `json:"name"`
	TypeDescribed    string `json:"type_described,omitempty"`
	DefaultDescribed string `json:"default_described,omitempty"`
}

// DocUnit is the canonical record of one documented claim about a function,
// extracted from prose or structured docs. FunctionName is the name as
// written in the docs and may not exactly match any CodeUnit name.
// Immutable after extraction.
type DocUnit struct {
	FunctionName      string         `json:"function_name"`
	Parameters        []DocParameter `json:"parameters_mentioned"`
	ReturnDescription string         `json:"return_description,omitempty"`
	CodeExamples      []string       `json:"code_examples,omitempty"`
	FilePath          string         `json:"file_path"`
	Line              int            `json:"line_number"`
}

// Location returns the doc claim's file:line reference.
func (u DocUnit) Location() string {
	return fmt.Sprintf("%s:%d", u.FilePath, u.Line)
}

// CleanFunctionName normalizes a function reference as written in docs:
// surrounding backticks and a trailing call operator are dropped.
func CleanFunctionName(name string) string {
	name = strings.Trim(strings.TrimSpace(name), "`")
	name = strings.TrimSuffix(name, "()")
	// Qualified references ("module.func") keep only the final segment.
	if idx := strings.LastIndex(name, "."); idx != -1 && idx < len(name)-1 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
