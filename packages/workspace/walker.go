// Package workspace finds the templates and components of an Angular project
package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoredDirs are never descended into
var IgnoredDirs = map[string]bool{
	".git":         true,
	".angular":     true,
	".nx":          true,
	"node_modules": true,
	"dist":         true,
	"coverage":     true,
	"tmp":          true,
	"out-tsc":      true,
}

// File kinds the linter understands
const (
	KindTemplate  = "template"
	KindComponent = "component"
)

// File is one lint target
type File struct {
	Path string
	Kind string
}

// KindOf classifies path by extension, or returns "" when ngthis does not lint it
func KindOf(path string) string {
	switch {
	case strings.HasSuffix(path, ".html"):
		return KindTemplate
	case strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".d.ts") && !strings.HasSuffix(path, ".spec.ts"):
		return KindComponent
	}
	return ""
}

// LoadGitignore compiles the .gitignore of root plus extra patterns. It
// returns nil when there is nothing to match.
func LoadGitignore(root string, patterns ...string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFileAndLines(gitignorePath, patterns...); err == nil {
			return gitignore
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

// Matcher decides whether a path is excluded from linting
type Matcher struct {
	root      string
	gitignore *ignore.GitIgnore
}

// NewMatcher builds the matcher for root. ignoreRoot is the directory the
// patterns are relative to and defaults to root.
func NewMatcher(root, ignoreRoot string, patterns []string) *Matcher {
	if ignoreRoot == "" {
		ignoreRoot = root
	}
	return &Matcher{root: ignoreRoot, gitignore: LoadGitignore(ignoreRoot, patterns...)}
}

// Ignored reports whether path is excluded
func (m *Matcher) Ignored(path string, isDir bool) bool {
	if IgnoredDirs[filepath.Base(path)] && isDir {
		return true
	}
	if m.gitignore == nil {
		return false
	}
	relPath, err := filepath.Rel(m.root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if isDir {
		relPath += "/"
	}
	return m.gitignore.MatchesPath(relPath)
}

// ScanFiles returns every lint target under root in lexical order. A root that
// is a file is returned as is.
func (m *Matcher) ScanFiles(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []File{{Path: root, Kind: KindOf(root)}}, nil
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if m.Ignored(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if kind := KindOf(path); kind != "" {
			files = append(files, File{Path: path, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
