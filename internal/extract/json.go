package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// jsonExtractor extracts documented API claims from JSON files: OpenAPI
// operation definitions, package.json scripts, and generic endpoint configs.
type jsonExtractor struct{}

// NewJSONExtractor creates a new JSON doc extractor.
func NewJSONExtractor() DocExtractor {
	return &jsonExtractor{}
}

// Extract parses a JSON document into DocUnits. Malformed JSON is fail-soft:
// the file is logged and skipped rather than failing the run.
func (e *jsonExtractor) Extract(ctx context.Context, filePath string, source []byte) ([]DocUnit, error) {
	var data map[string]any
	if err := json.Unmarshal(source, &data); err != nil {
		slog.Warn("skipping malformed JSON doc file", "file", filePath, "error", err)
		return []DocUnit{}, nil
	}

	switch {
	case isOpenAPI(data):
		return e.extractOpenAPI(data, filePath), nil
	case isPackageJSON(data):
		return e.extractPackageScripts(data, filePath), nil
	default:
		return e.extractGeneric(data, filePath, ""), nil
	}
}

func isOpenAPI(data map[string]any) bool {
	_, hasOpenAPI := data["openapi"]
	_, hasSwagger := data["swagger"]
	_, hasPaths := data["paths"]
	return hasOpenAPI || hasSwagger || hasPaths
}

func isPackageJSON(data map[string]any) bool {
	_, hasName := data["name"]
	_, hasScripts := data["scripts"]
	_, hasDeps := data["dependencies"]
	return hasName && (hasScripts || hasDeps)
}

func (e *jsonExtractor) extractOpenAPI(data map[string]any, filePath string) []DocUnit {
	units := []DocUnit{}

	paths, _ := data["paths"].(map[string]any)
	for path, rawMethods := range paths {
		methods, ok := rawMethods.(map[string]any)
		if !ok {
			continue
		}
		for method, rawOp := range methods {
			if strings.HasPrefix(method, "x-") {
				continue
			}
			op, ok := rawOp.(map[string]any)
			if !ok {
				continue
			}

			name, _ := op["operationId"].(string)
			if name == "" {
				name = fmt.Sprintf("%s %s", strings.ToUpper(method), path)
			}

			unit := DocUnit{
				FunctionName: CleanFunctionName(name),
				Parameters:   []DocParameter{},
				FilePath:     filePath,
			}

			if rawParams, ok := op["parameters"].([]any); ok {
				for _, rawParam := range rawParams {
					param, ok := rawParam.(map[string]any)
					if !ok {
						continue
					}
					p := DocParameter{}
					p.Name, _ = param["name"].(string)
					if schema, ok := param["schema"].(map[string]any); ok {
						p.TypeDescribed, _ = schema["type"].(string)
					}
					if p.TypeDescribed == "" {
						p.TypeDescribed, _ = param["in"].(string)
					}
					if p.Name != "" {
						unit.Parameters = append(unit.Parameters, p)
					}
				}
			}

			if responses, ok := op["responses"].(map[string]any); ok {
				if resp, ok := responses["200"].(map[string]any); ok {
					unit.ReturnDescription, _ = resp["description"].(string)
				}
			}

			units = append(units, unit)
		}
	}

	return units
}

func (e *jsonExtractor) extractPackageScripts(data map[string]any, filePath string) []DocUnit {
	units := []DocUnit{}

	scripts, _ := data["scripts"].(map[string]any)
	for name, command := range scripts {
		cmd, _ := command.(string)
		units = append(units, DocUnit{
			FunctionName: name,
			Parameters:   []DocParameter{},
			CodeExamples: []string{cmd},
			FilePath:     filePath,
		})
	}

	return units
}

// extractGeneric walks arbitrary JSON for endpoint-like definitions.
func (e *jsonExtractor) extractGeneric(data map[string]any, filePath, prefix string) []DocUnit {
	units := []DocUnit{}

	for key, value := range data {
		nested, ok := value.(map[string]any)
		if !ok {
			continue
		}

		_, hasURL := nested["url"]
		_, hasEndpoint := nested["endpoint"]
		_, hasMethod := nested["method"]
		if hasURL || hasEndpoint || hasMethod {
			desc, _ := nested["description"].(string)
			units = append(units, DocUnit{
				FunctionName:      key,
				Parameters:        []DocParameter{},
				ReturnDescription: desc,
				FilePath:          filePath,
			})
			continue
		}

		childPrefix := key
		if prefix != "" {
			childPrefix = prefix + "." + key
		}
		units = append(units, e.extractGeneric(nested, filePath, childPrefix)...)
	}

	return units
}
