package extract

import "context"

// CodeExtractor turns raw source text into canonical CodeUnit records.
// Extractors are fail-soft per unit: an element they cannot confidently parse
// is logged and skipped, never raised.
type CodeExtractor interface {
	Extract(ctx context.Context, filePath string, source []byte) ([]CodeUnit, error)
}

// DocExtractor turns raw documentation text into canonical DocUnit records.
type DocExtractor interface {
	Extract(ctx context.Context, filePath string, source []byte) ([]DocUnit, error)
}

// Registry dispatches extraction to one strategy per language tag.
type Registry struct {
	code map[Language]CodeExtractor
	docs map[Language]DocExtractor
}

// NewRegistry creates a registry with all supported language extractors.
func NewRegistry() *Registry {
	return &Registry{
		code: map[Language]CodeExtractor{
			LangPython:     NewPythonExtractor(),
			LangJavaScript: NewJavaScriptExtractor(),
			LangJava:       NewJavaExtractor(),
		},
		docs: map[Language]DocExtractor{
			LangMarkdown: NewMarkdownExtractor(),
			LangJSON:     NewJSONExtractor(),
		},
	}
}

// CodeExtractorFor returns the extractor for a code language, or an
// UnsupportedLanguageError when no strategy exists for the tag.
func (r *Registry) CodeExtractorFor(lang Language) (CodeExtractor, error) {
	ex, ok := r.code[lang]
	if !ok {
		return nil, &UnsupportedLanguageError{Language: string(lang)}
	}
	return ex, nil
}

// ExtractCode extracts code units from one file, routing by file extension.
func (r *Registry) ExtractCode(ctx context.Context, filePath string, source []byte) ([]CodeUnit, error) {
	lang, ok := LanguageForPath(filePath)
	if !ok || IsDocLanguage(lang) {
		return nil, &UnsupportedLanguageError{Path: filePath, Language: string(lang)}
	}
	ex, err := r.CodeExtractorFor(lang)
	if err != nil {
		if ue, ok := err.(*UnsupportedLanguageError); ok {
			ue.Path = filePath
		}
		return nil, err
	}
	return ex.Extract(ctx, filePath, source)
}

// ExtractDocs extracts doc units from one documentation file, routing by
// file extension.
func (r *Registry) ExtractDocs(ctx context.Context, filePath string, source []byte) ([]DocUnit, error) {
	lang, ok := LanguageForPath(filePath)
	if !ok || !IsDocLanguage(lang) {
		return nil, &UnsupportedLanguageError{Path: filePath, Language: string(lang)}
	}
	return r.docs[lang].Extract(ctx, filePath, source)
}
