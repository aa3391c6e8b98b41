package extract

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONExtractor_OpenAPI(t *testing.T) {
	t.Parallel()

	source := `{
  "openapi": "3.0.0",
  "paths": {
    "/users/{id}": {
      "delete": {
        "operationId": "deleteUser",
        "parameters": [
          {"name": "id", "in": "path", "schema": {"type": "string"}},
          {"name": "force", "in": "query"}
        ],
        "responses": {
          "200": {"description": "user removed"}
        }
      }
    }
  }
}`

	units, err := NewJSONExtractor().Extract(context.Background(), "openapi.json", []byte(source))
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, "deleteUser", unit.FunctionName)
	assert.Equal(t, "user removed", unit.ReturnDescription)
	require.Len(t, unit.Parameters, 2)
	assert.Equal(t, DocParameter{Name: "id", TypeDescribed: "string"}, unit.Parameters[0])
	assert.Equal(t, DocParameter{Name: "force", TypeDescribed: "query"}, unit.Parameters[1])
}

func TestJSONExtractor_PackageScripts(t *testing.T) {
	t.Parallel()

	source := `{
  "name": "demo",
  "scripts": {
    "build": "tsc -p .",
    "test": "vitest run"
  }
}`

	units, err := NewJSONExtractor().Extract(context.Background(), "package.json", []byte(source))
	require.NoError(t, err)
	require.Len(t, units, 2)

	sort.Slice(units, func(i, j int) bool { return units[i].FunctionName < units[j].FunctionName })
	assert.Equal(t, "build", units[0].FunctionName)
	assert.Equal(t, []string{"tsc -p ."}, units[0].CodeExamples)
	assert.Equal(t, "test", units[1].FunctionName)
}

func TestJSONExtractor_MalformedIsFailSoft(t *testing.T) {
	t.Parallel()

	units, err := NewJSONExtractor().Extract(context.Background(), "broken.json", []byte("{not json"))
	require.NoError(t, err, "malformed JSON skips the file, not the run")
	assert.Empty(t, units)
}

func TestJSONExtractor_GenericEndpoints(t *testing.T) {
	t.Parallel()

	source := `{
  "api": {
    "fetchUsers": {
      "url": "/users",
      "method": "GET",
      "description": "list of users"
    }
  }
}`

	units, err := NewJSONExtractor().Extract(context.Background(), "endpoints.json", []byte(source))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "fetchUsers", units[0].FunctionName)
	assert.Equal(t, "list of users", units[0].ReturnDescription)
}

func TestRegistry_RoutesByExtension(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	_, err := reg.ExtractCode(context.Background(), "main.rs", []byte("fn main() {}"))
	var unsupported *UnsupportedLanguageError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "main.rs", unsupported.Path)

	units, err := reg.ExtractCode(context.Background(), "app.py", []byte("def ping():\n    pass\n"))
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "ping", units[0].Name)

	docs, err := reg.ExtractDocs(context.Background(), "notes.md", []byte("Use `ping()` daily.\n"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ping", docs[0].FunctionName)
}

func TestLanguageForPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		lang Language
		ok   bool
	}{
		{"a/b/c.py", LangPython, true},
		{"x.ts", LangJavaScript, true},
		{"x.tsx", LangJavaScript, true},
		{"X.JAVA", LangJava, true},
		{"README.md", LangMarkdown, true},
		{"openapi.json", LangJSON, true},
		{"main.go", "", false},
	}
	for _, tc := range cases {
		lang, ok := LanguageForPath(tc.path)
		assert.Equal(t, tc.ok, ok, "path %q", tc.path)
		assert.Equal(t, tc.lang, lang, "path %q", tc.path)
	}
}
