package git

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// NormalizePaths converts caller-supplied paths into the deduplicated,
// slash-separated form used for history lookups. Relative paths are joined to
// root; every path is canonicalized and made relative to root. Paths that do
// not exist, cannot be resolved, or resolve outside root are dropped. The
// result is sorted.
func NormalizePaths(root string, paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	normalized := make([]string, 0, len(paths))

	for _, p := range paths {
		rel, ok := relativize(root, p)
		if !ok {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		normalized = append(normalized, rel)
	}

	sort.Strings(normalized)
	return normalized
}

func relativize(root, p string) (string, bool) {
	if p == "" {
		return "", false
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}

	return within(root, resolved)
}

// within returns the slash-separated path of target relative to root, or false
// when target is root itself or lies outside it
func within(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", false
	}

	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	return rel, true
}

// lookupKey maps a query path to a cache key. Absolute paths are made
// relative to root lexically first; when that lands outside root the path is
// canonicalized, so queries through a symlinked root still hit.
func lookupKey(root, p string) (string, bool) {
	if filepath.IsAbs(p) {
		if key, ok := within(root, filepath.Clean(p)); ok {
			return key, true
		}
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			return "", false
		}
		return within(root, resolved)
	}

	key := path.Clean(filepath.ToSlash(p))
	if key == "." || key == ".." || strings.HasPrefix(key, "../") {
		return "", false
	}
	return key, true
}
