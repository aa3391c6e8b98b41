package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileDiscovery_SplitsCodeAndDocs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/billing.py", "def f(): pass\n")
	writeFile(t, root, "src/app.ts", "export function g() {}\n")
	writeFile(t, root, "docs/api.md", "# API\n")
	writeFile(t, root, "README.md", "# Readme\n")
	writeFile(t, root, "assets/logo.png", "binary")

	fd, err := NewFileDiscovery(root,
		[]string{"**/*.py", "**/*.ts"},
		[]string{"**/*.md"},
		nil)
	require.NoError(t, err)

	codeFiles, docFiles, err := fd.DiscoverFiles()
	require.NoError(t, err)
	assert.Len(t, codeFiles, 2)
	assert.Len(t, docFiles, 2, "root-level README.md matches **/*.md")
}

func TestFileDiscovery_IgnorePatterns(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/app.py", "def f(): pass\n")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFile(t, root, "build/gen.py", "def g(): pass\n")

	fd, err := NewFileDiscovery(root,
		[]string{"**/*.py", "**/*.js"},
		nil,
		[]string{"node_modules/**", "build/**"})
	require.NoError(t, err)

	codeFiles, _, err := fd.DiscoverFiles()
	require.NoError(t, err)
	require.Len(t, codeFiles, 1)
	assert.Contains(t, codeFiles[0], "app.py")
}

func TestFileDiscovery_StateDirAlwaysIgnored(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".veritas/cache.py", "def f(): pass\n")
	writeFile(t, root, "main.py", "def g(): pass\n")

	fd, err := NewFileDiscovery(root, []string{"**/*.py"}, nil, nil)
	require.NoError(t, err)

	codeFiles, _, err := fd.DiscoverFiles()
	require.NoError(t, err)
	require.Len(t, codeFiles, 1)
	assert.Contains(t, codeFiles[0], "main.py")
}

func TestFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"}, nil, nil)
	assert.Error(t, err)
}

func TestReadRequest_RelativePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/billing.py", "def f(): pass\n")
	writeFile(t, root, "docs/api.md", "# API\n")

	fd, err := NewFileDiscovery(root, []string{"**/*.py"}, []string{"**/*.md"}, nil)
	require.NoError(t, err)

	req, err := fd.ReadRequest()
	require.NoError(t, err)

	require.Contains(t, req.CodeFiles, "src/billing.py", "paths are root-relative with forward slashes")
	assert.Equal(t, "def f(): pass\n", req.CodeFiles["src/billing.py"])
	require.Contains(t, req.DocFiles, "docs/api.md")
}
