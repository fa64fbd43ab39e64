package sdist

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Directories and patterns never shipped in a source distribution.
var defaultExcludes = []string{
	".git",
	".hg",
	"__pycache__",
	".eggs",
	"*.egg-info",
	"*.pyc",
	".tox",
	".venv",
}

func collectFiles(sourceDir, distDir string, include, exclude []string) ([]string, error) {
	distRel := relativeTo(sourceDir, distDir)

	var files []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if excluded(rel, distRel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if excluded(rel, distRel, exclude) {
			return nil
		}
		if len(include) > 0 && !matchesAny(rel, include) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source dir: %w", err)
	}
	return files, nil
}

func excluded(rel, distRel string, exclude []string) bool {
	// The build output directory is never shipped inside itself.
	if distRel != "" && (rel == distRel || strings.HasPrefix(rel, distRel+string(filepath.Separator))) {
		return true
	}
	if matchesAny(rel, defaultExcludes) {
		return true
	}
	return matchesAny(rel, exclude)
}

func matchesAny(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.ToSlash(rel)); ok {
			return true
		}
		// A bare directory name excludes the whole subtree.
		if rel == pattern || strings.HasPrefix(filepath.ToSlash(rel), pattern+"/") {
			return true
		}
	}
	return false
}

func relativeTo(sourceDir, dir string) string {
	if dir == "" {
		return ""
	}
	rel, err := filepath.Rel(sourceDir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return rel
}
