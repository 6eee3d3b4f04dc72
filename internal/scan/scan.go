// Package scan finds source files under a directory by glob pattern.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Patterns used to detect TypeScript sources in an application.
var (
	TypeScriptSources  = []string{"**/*.ts", "**/*.tsx"}
	TypeScriptExcludes = []string{"**/node_modules", "**/node_modules/**", "**/*.d.ts"}
)

// Scanner walks a filesystem.
type Scanner struct {
	Fs afero.Fs
}

// New creates a scanner over fs.
func New(fs afero.Fs) *Scanner {
	return &Scanner{Fs: fs}
}

// Scan returns the files under root matching any include pattern and no
// exclude pattern. Paths are relative to root, slash separated and sorted.
// Directories matching an exclude pattern are not descended into. A missing
// root yields no files.
func (s *Scanner) Scan(root string, include, exclude []string) ([]string, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}

	if _, err := s.Fs.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	var files []string
	err := afero.Walk(s.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchAny(exclude, rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && matchAny(include, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Any reports whether at least one file under root matches.
func (s *Scanner) Any(root string, include, exclude []string) (string, bool, error) {
	files, err := s.Scan(root, include, exclude)
	if err != nil || len(files) == 0 {
		return "", false, err
	}
	return files[0], true, nil
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
