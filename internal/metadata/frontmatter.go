// Package metadata reads author-declared dates and titles from document sources.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dossiers/pkg/models"
)

// Metadata holds what a document declares about itself
type Metadata struct {
	Title   string
	Created models.OptionalTimestamp
	Updated models.OptionalTimestamp
}

var (
	createdKeys = []string{"created", "created_at", "date"}
	updatedKeys = []string{"updated", "updated_at", "last_updated", "modified"}
)

var bareDashValue = regexp.MustCompile(`^(\s*[^:#]+:\s*)-\s*$`)

// Read extracts metadata from a markdown front-matter block or, failing
// that, from asciidoc `:attribute: value` header lines. Malformed metadata
// yields empty fields, never an error.
func Read(source string) Metadata {
	if fields, body, ok := splitFrontMatter(source); ok {
		meta := fromFields(fields)
		if meta.Title == "" {
			meta.Title = leadingTitle(body)
		}
		return meta
	}

	meta := fromFields(attributes(source))
	if meta.Title == "" {
		meta.Title = leadingTitle(source)
	}
	return meta
}

// splitFrontMatter returns the decoded `---` block and the text after it
func splitFrontMatter(source string) (map[string]interface{}, string, bool) {
	source = strings.TrimPrefix(source, "\ufeff")
	lines := strings.SplitAfter(source, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, "", false
	}

	consumed := len(lines[0])
	var block strings.Builder
	for _, line := range lines[1:] {
		consumed += len(line)
		if strings.TrimSpace(line) == "---" {
			return decodeFrontMatter(block.String()), source[consumed:], true
		}
		block.WriteString(line)
	}
	return nil, "", false
}

func decodeFrontMatter(block string) map[string]interface{} {
	fields := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(block), &fields); err == nil {
		return fields
	}

	// `key: -` is a common placeholder that YAML reads as a broken sequence
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if m := bareDashValue.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + `""`
		}
	}
	fields = map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &fields); err != nil {
		return nil
	}
	return fields
}

// attributes collects asciidoc header attributes of the form `:key: value`
func attributes(source string) map[string]interface{} {
	fields := map[string]interface{}{}
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ":") {
			continue
		}
		key, value, ok := strings.Cut(line[1:], ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}

func fromFields(fields map[string]interface{}) Metadata {
	var meta Metadata
	if fields == nil {
		return meta
	}

	lowered := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		lowered[strings.ToLower(k)] = v
	}

	if title, ok := lowered["title"].(string); ok {
		meta.Title = strings.TrimSpace(title)
	}
	meta.Created = firstDate(lowered, createdKeys)
	meta.Updated = firstDate(lowered, updatedKeys)
	return meta
}

func firstDate(fields map[string]interface{}, keys []string) models.OptionalTimestamp {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			if ts := dateValue(v); ts.Valid {
				return ts
			}
		}
	}
	return models.None
}

// dateValue accepts date strings, YAML timestamps and positive epoch milliseconds
func dateValue(v interface{}) models.OptionalTimestamp {
	switch val := v.(type) {
	case string:
		if ts, ok := ParseDate(val); ok {
			return models.Some(ts)
		}
	case time.Time:
		return models.Some(models.TimestampFromTime(val))
	case int:
		return positive(int64(val))
	case int64:
		return positive(val)
	case uint64:
		return positive(int64(val))
	case float64:
		return positive(int64(val))
	case fmt.Stringer:
		if ts, ok := ParseDate(val.String()); ok {
			return models.Some(ts)
		}
	}
	return models.None
}

func positive(ms int64) models.OptionalTimestamp {
	if ms <= 0 {
		return models.None
	}
	return models.Some(models.Timestamp(ms))
}

// leadingTitle returns the first heading if it is the first content line
func leadingTitle(body string) string {
	lines := strings.Split(body, "\n")
	inComment := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inComment:
			inComment = !strings.Contains(trimmed, "-->")
			continue
		case strings.HasPrefix(trimmed, "<!--"):
			inComment = !strings.Contains(trimmed, "-->")
			continue
		case trimmed == "", strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, ":"):
			continue
		case strings.HasPrefix(trimmed, "#"):
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		case strings.HasPrefix(trimmed, "="):
			return strings.TrimSpace(strings.TrimLeft(trimmed, "="))
		}

		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && strings.Trim(next, "=") == "" {
				return trimmed
			}
		}
		return ""
	}
	return ""
}
