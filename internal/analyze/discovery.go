package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery walks a repository root and splits files into code and
// documentation sets by glob pattern, honoring ignore rules.
type FileDiscovery struct {
	rootDir        string
	codePatterns   []compiledPattern
	docsPatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery compiles the pattern sets for one root.
func NewFileDiscovery(rootDir string, codePatterns, docsPatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	var err error
	if fd.codePatterns, err = compilePatterns(codePatterns); err != nil {
		return nil, fmt.Errorf("code patterns: %w", err)
	}
	if fd.docsPatterns, err = compilePatterns(docsPatterns); err != nil {
		return nil, fmt.Errorf("docs patterns: %w", err)
	}
	if fd.ignorePatterns, err = compilePatterns(ignorePatterns); err != nil {
		return nil, fmt.Errorf("ignore patterns: %w", err)
	}
	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", pattern, err)
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// DiscoverFiles walks the directory tree and returns code and doc files.
func (fd *FileDiscovery) DiscoverFiles() (codeFiles []string, docFiles []string, err error) {
	codeFiles = []string{}
	docFiles = []string{}

	err = filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if fd.shouldIgnore(relPath) {
			return nil
		}

		if fd.matchesAnyPattern(relPath, fd.codePatterns) {
			codeFiles = append(codeFiles, path)
			return nil
		}
		if fd.matchesAnyPattern(relPath, fd.docsPatterns) {
			docFiles = append(docFiles, path)
		}
		return nil
	})

	return codeFiles, docFiles, err
}

// ReadRequest discovers files under the root and loads their contents into
// an analysis request. Paths in the request are relative to the root.
func (fd *FileDiscovery) ReadRequest() (Request, error) {
	codeFiles, docFiles, err := fd.DiscoverFiles()
	if err != nil {
		return Request{}, fmt.Errorf("discovering files: %w", err)
	}

	req := Request{
		CodeFiles: make(map[string]string, len(codeFiles)),
		DocFiles:  make(map[string]string, len(docFiles)),
	}
	for _, path := range codeFiles {
		if err := readInto(req.CodeFiles, fd.rootDir, path); err != nil {
			return Request{}, err
		}
	}
	for _, path := range docFiles {
		if err := readInto(req.DocFiles, fd.rootDir, path); err != nil {
			return Request{}, err
		}
	}
	return req, nil
}

func readInto(dst map[string]string, root, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	dst[filepath.ToSlash(rel)] = string(data)
	return nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// The tool's own state directory is never analyzed.
	if strings.HasPrefix(relPath, ".veritas/") || relPath == ".veritas" {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// A bare directory name should also match its /** ignore form, so
	// "node_modules" matches the pattern "node_modules/**".
	return fd.matchesAnyPattern(relPath+"/**", fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Root-level files have no slash, so "**/*.md" would miss "README.md".
	// Retry those against the pattern with the **/ prefix removed.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}
