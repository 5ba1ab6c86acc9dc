package documents

import (
	"regexp"
	"strings"
)

var (
	markdownLink  = regexp.MustCompile(`\]\(\s*<?([^)\s>]+)>?(?:\s+["'][^)]*["'])?\s*\)`)
	htmlAttribute = regexp.MustCompile(`(?i)\b(?:src|href)\s*=\s*["']([^"']+)["']`)
	asciidocMacro = regexp.MustCompile(`(?:image|link|include)::?([^\s\[]+)\[`)
)

// References lists the local relative targets linked from source, in order
// of first appearance. External URLs, anchors and absolute paths are
// dropped; query strings and fragments are cut off; leading ./ and ../
// segments are removed.
func References(source string, format Format) []string {
	var patterns []*regexp.Regexp
	switch format {
	case FormatAsciidoc:
		patterns = []*regexp.Regexp{asciidocMacro, htmlAttribute}
	default:
		patterns = []*regexp.Regexp{markdownLink, htmlAttribute}
	}

	seen := map[string]bool{}
	var refs []string
	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(source, -1) {
			ref, ok := normalizeReference(m[1])
			if !ok || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

func normalizeReference(raw string) (string, bool) {
	target := strings.TrimSpace(raw)
	if target == "" || strings.HasPrefix(target, "#") {
		return "", false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/") || schemePattern.MatchString(target) {
		return "", false
	}

	if i := strings.IndexAny(target, "#?"); i >= 0 {
		target = target[:i]
	}
	for {
		switch {
		case strings.HasPrefix(target, "./"):
			target = target[2:]
		case strings.HasPrefix(target, "../"):
			target = target[3:]
		default:
			target = strings.TrimSpace(target)
			return target, target != "" && target != "." && target != ".."
		}
	}
}
