package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanPath cleans a path, rejects parent-directory traversal and makes it absolute
func CleanPath(path string) (string, error) {
	cleaned := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return "", fmt.Errorf("invalid path: contains directory traversal")
		}
	}

	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		cleaned = abs
	}

	return cleaned, nil
}

// ResolveWithin joins a possibly relative path onto baseDir and ensures the
// result does not escape baseDir. Absolute paths are accepted as long as they
// lie inside baseDir.
func ResolveWithin(baseDir, path string) (string, error) {
	base, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(base, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside %s", path, base)
	}

	return candidate, nil
}
