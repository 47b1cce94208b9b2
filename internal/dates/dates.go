// Package dates resolves a single canonical date for an article from a
// cascade of sources of decreasing reliability: explicit frontmatter
// fields, heuristic content scanning, and finally the filename prefix.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/sgx-labs/clipvault/internal/note"
)

// Source identifies where a date came from.
type Source string

const (
	SourceFrontmatter Source = "frontmatter"
	SourceContent     Source = "content"
	SourceFilename    Source = "filename"
	SourceNone        Source = "none"
)

// Result is the outcome of a date resolution. Exactly one source wins.
type Result struct {
	Date     time.Time
	Found    bool
	Source   Source
	Original string
	Pattern  string
}

// Config controls date parsing and extraction.
type Config struct {
	// InputFormats are Go layout strings tried in order before falling
	// back to the flexible parser.
	InputFormats []string
	// OutputFormat is the layout for filename prefixes.
	OutputFormat string
	// PrefixPriority lists frontmatter field names tried in order.
	PrefixPriority []string
	// ExtractFromContent enables the content-scanning fallback.
	ExtractFromContent bool
	// ContentPatterns are regexes with named groups day, month, year.
	ContentPatterns []string
}

// DefaultConfig matches the shipped configuration defaults.
func DefaultConfig() Config {
	return Config{
		InputFormats: []string{
			"2006-01-02",
			"2006-01-02T15:04:05",
			"02/01/2006",
			"January 2, 2006",
			"2 January 2006",
			"2006/01/02",
		},
		OutputFormat:       "20060102",
		PrefixPriority:     []string{"published", "clipped", "created"},
		ExtractFromContent: true,
		ContentPatterns:    DefaultContentPatterns(),
	}
}

// DefaultContentPatterns returns the built-in content-scan patterns.
func DefaultContentPatterns() []string {
	return []string{
		`(?P<day>\d{1,2})(?:st|nd|rd|th)?\s+(?P<month>\w+)\s+(?P<year>\d{4})`,
		`(?P<month>\w+)\s+(?P<day>\d{1,2})(?:st|nd|rd|th)?,?\s+(?P<year>\d{4})`,
		`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})`,
	}
}

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// ParseDateString parses s against the explicit layouts first, then the
// flexible parser. Returns the zero time and false when nothing matches.
func ParseDateString(s string, layouts []string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t), true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return truncateToDay(t), true
	}
	return time.Time{}, false
}

// Resolve picks the date for a file's name prefix. Priority: frontmatter
// fields in configured order, then content scanning when enabled, then an
// existing YYYYMMDD filename prefix.
func Resolve(fields *note.Mapping, body, filename string, cfg Config) Result {
	for _, fieldName := range cfg.PrefixPriority {
		v, ok := fields.Get(fieldName)
		if !ok || v == nil {
			continue
		}
		s := note.Stringify(v)
		if s == "" {
			continue
		}
		if t, ok := ParseDateString(s, cfg.InputFormats); ok {
			return Result{Date: t, Found: true, Source: SourceFrontmatter, Original: s}
		}
	}

	if cfg.ExtractFromContent {
		if r := ExtractFromContent(body, cfg.ContentPatterns); r.Found {
			return r
		}
	}

	if r := ExtractFromFilename(filename); r.Found {
		return r
	}

	return Result{Source: SourceNone}
}

// ExtractFromContent scans body text with the given patterns. Each pattern
// must define named groups day, month, and year; month may be numeric or a
// name/abbreviation. A match that forms an impossible calendar date is
// rejected and scanning continues with the same pattern before falling
// through to the next one. Patterns that fail to compile are skipped.
func ExtractFromContent(content string, patterns []string) Result {
	if len(patterns) == 0 {
		patterns = DefaultContentPatterns()
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			continue
		}
		dayIdx := re.SubexpIndex("day")
		monthIdx := re.SubexpIndex("month")
		yearIdx := re.SubexpIndex("year")
		if dayIdx < 0 || monthIdx < 0 || yearIdx < 0 {
			continue
		}
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			year, err := strconv.Atoi(match[yearIdx])
			if err != nil {
				continue
			}
			day, err := strconv.Atoi(match[dayIdx])
			if err != nil {
				continue
			}
			month, ok := parseMonth(match[monthIdx])
			if !ok {
				continue
			}
			t, ok := makeDate(year, month, day)
			if !ok {
				continue
			}
			return Result{
				Date:     t,
				Found:    true,
				Source:   SourceContent,
				Original: match[0],
				Pattern:  pattern,
			}
		}
	}
	return Result{Source: SourceNone}
}

var filenamePrefix = regexp.MustCompile(`^(\d{8})-`)

// ExtractFromFilename parses an existing YYYYMMDD- prefix.
func ExtractFromFilename(filename string) Result {
	match := filenamePrefix.FindStringSubmatch(filename)
	if match == nil {
		return Result{Source: SourceNone}
	}
	t, err := time.Parse("20060102", match[1])
	if err != nil {
		return Result{Source: SourceNone}
	}
	return Result{Date: t, Found: true, Source: SourceFilename, Original: match[1]}
}

// HasPrefix reports whether filename starts with a YYYYMMDD- date prefix.
func HasPrefix(filename string) bool {
	return filenamePrefix.MatchString(filename)
}

// AddPrefix prepends the formatted date, replacing any existing prefix.
func AddPrefix(filename string, t time.Time, outputFormat string) string {
	if outputFormat == "" {
		outputFormat = "20060102"
	}
	if HasPrefix(filename) {
		filename = filename[9:]
	}
	return t.Format(outputFormat) + "-" + filename
}

func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	m, ok := monthNames[strings.ToLower(s)]
	return m, ok
}

// makeDate validates the calendar date; time.Date would silently
// normalize February 30th into March.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
