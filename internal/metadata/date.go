package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"dossiers/pkg/models"
)

var (
	isoDatePattern = regexp.MustCompile(`^\(?(\d{4})-(\d{2})-(\d{2})\)?` + timeSuffix)
	numericPattern = regexp.MustCompile(`^(\d{1,4})[/. -](\d{1,2})[/. -](\d{1,4})` + timeSuffix)
	monthFirst     = regexp.MustCompile(`(?i)^([\p{L}.]+)\s+(\d{1,2}),?\s+(\d{4})` + timeSuffix)
	dayFirst       = regexp.MustCompile(`(?i)^(\d{1,2})\.?\s+([\p{L}.]+)\s+(\d{4})` + timeSuffix)
)

const timeSuffix = `(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`

// Zoned layouts tried after the numeric and named-month forms
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC822,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January, "januar": time.January,
	"february": time.February, "feb": time.February, "februar": time.February,
	"march": time.March, "mar": time.March, "marz": time.March, "maerz": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May, "mai": time.May,
	"june": time.June, "jun": time.June, "juni": time.June,
	"july": time.July, "jul": time.July, "juli": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October, "oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December, "dezember": time.December, "dez": time.December,
}

// ParseDate parses a human-written date into epoch milliseconds. Dates
// without a zone are taken as UTC. Ambiguous numeric dates such as 03/04/2024
// are read day first.
func ParseDate(value string) (models.Timestamp, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if ts, ok := parseNumeric(value); ok {
		return ts, true
	}
	if ts, ok := parseNamedMonth(value); ok {
		return ts, true
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.TimestampFromTime(t), true
		}
	}
	return 0, false
}

func parseNumeric(value string) (models.Timestamp, bool) {
	if m := isoDatePattern.FindStringSubmatch(value); m != nil {
		return build(atoi(m[1]), atoi(m[2]), atoi(m[3]), m[4:])
	}

	m := numericPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	first, second, third := m[1], m[2], m[3]

	switch {
	case len(first) == 4:
		return build(atoi(first), atoi(second), atoi(third), m[4:])
	case len(third) == 4:
		a, b := atoi(first), atoi(second)
		if a > 12 {
			return build(atoi(third), b, a, m[4:])
		}
		if b > 12 {
			return build(atoi(third), a, b, m[4:])
		}
		return build(atoi(third), b, a, m[4:])
	}
	return 0, false
}

func parseNamedMonth(value string) (models.Timestamp, bool) {
	if m := monthFirst.FindStringSubmatch(value); m != nil {
		month, ok := lookupMonth(m[1])
		if !ok {
			return 0, false
		}
		return build(atoi(m[3]), int(month), atoi(m[2]), m[4:])
	}
	if m := dayFirst.FindStringSubmatch(value); m != nil {
		month, ok := lookupMonth(m[2])
		if !ok {
			return 0, false
		}
		return build(atoi(m[3]), int(month), atoi(m[1]), m[4:])
	}
	return 0, false
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// lookupMonth matches English and German month names ignoring case, dots and diacritics
func lookupMonth(raw string) (time.Month, bool) {
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ReplaceAll(strings.ToLower(folded), ".", "")
	month, ok := months[folded]
	return month, ok
}

// build returns the UTC instant, rejecting out-of-range fields instead of normalizing them
func build(year, month, day int, clock []string) (models.Timestamp, bool) {
	var hour, minute, second int
	if len(clock) == 3 {
		hour, minute, second = atoi(clock[0]), atoi(clock[1]), atoi(clock[2])
	}
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return 0, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return 0, false
	}
	return models.TimestampFromTime(t), true
}

// atoi parses a regexp digit group; empty groups are zero
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
