package dates

import (
	"testing"
	"time"

	"github.com/sgx-labs/clipvault/internal/note"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateString(t *testing.T) {
	layouts := DefaultConfig().InputFormats

	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"iso", "2024-01-15", day(2024, time.January, 15), true},
		{"iso datetime", "2024-01-15T10:30:00", day(2024, time.January, 15), true},
		{"slash dmy", "15/01/2024", day(2024, time.January, 15), true},
		{"long us", "January 15, 2024", day(2024, time.January, 15), true},
		{"long intl", "15 January 2024", day(2024, time.January, 15), true},
		{"fallback rfc", "Mon, 15 Jan 2024 10:30:00 GMT", day(2024, time.January, 15), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateString(tt.input, layouts)
			if ok != tt.ok {
				t.Fatalf("ParseDateString(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDateString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveFrontmatterPriority(t *testing.T) {
	fields := note.NewMapping()
	fields.Set("clipped", "2024-03-01")
	fields.Set("published", "2024-01-15")

	body := "Posted on 20 February 2024."

	r := Resolve(fields, body, "article.md", DefaultConfig())
	if !r.Found {
		t.Fatal("expected a date")
	}
	if r.Source != SourceFrontmatter {
		t.Fatalf("source = %q, want frontmatter", r.Source)
	}
	if !r.Date.Equal(day(2024, time.January, 15)) {
		t.Errorf("date = %v, want 2024-01-15 (published outranks clipped)", r.Date)
	}
}

func TestResolveFallsBackToContent(t *testing.T) {
	fields := note.NewMapping()
	fields.Set("title", "No dates here")

	r := Resolve(fields, "Published 15 January 2024 by someone.", "article.md", DefaultConfig())
	if r.Source != SourceContent {
		t.Fatalf("source = %q, want content", r.Source)
	}
	if !r.Date.Equal(day(2024, time.January, 15)) {
		t.Errorf("date = %v, want 2024-01-15", r.Date)
	}
}

func TestResolveFallsBackToFilename(t *testing.T) {
	fields := note.NewMapping()

	r := Resolve(fields, "no dates in the body", "20240115-article.md", DefaultConfig())
	if r.Source != SourceFilename {
		t.Fatalf("source = %q, want filename", r.Source)
	}
	if !r.Date.Equal(day(2024, time.January, 15)) {
		t.Errorf("date = %v, want 2024-01-15", r.Date)
	}
}

func TestResolveNothingFound(t *testing.T) {
	fields := note.NewMapping()

	r := Resolve(fields, "plain text", "article.md", DefaultConfig())
	if r.Found {
		t.Fatalf("expected no date, got %v from %s", r.Date, r.Source)
	}
	if r.Source != SourceNone {
		t.Errorf("source = %q, want none", r.Source)
	}
}

func TestExtractFromContentSkipsInvalidAndContinues(t *testing.T) {
	// The bogus 35th must not stop the scan; the valid date later in the
	// same text is found by the same pattern.
	content := "Written on 35th January 2024, revised 15 January 2024."

	r := ExtractFromContent(content, DefaultContentPatterns())
	if !r.Found {
		t.Fatal("expected a date")
	}
	if !r.Date.Equal(day(2024, time.January, 15)) {
		t.Errorf("date = %v, want 2024-01-15", r.Date)
	}
}

func TestExtractFromContentVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    time.Time
	}{
		{"ordinal", "3rd March 2023", day(2023, time.March, 3)},
		{"us style", "March 3, 2023", day(2023, time.March, 3)},
		{"iso", "updated 2023-03-03 10:00", day(2023, time.March, 3)},
		{"abbreviated month", "5 Sep 2022", day(2022, time.September, 5)},
		{"case insensitive", "5 SEPTEMBER 2022", day(2022, time.September, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ExtractFromContent(tt.content, nil)
			if !r.Found {
				t.Fatalf("no date found in %q", tt.content)
			}
			if !r.Date.Equal(tt.want) {
				t.Errorf("date = %v, want %v", r.Date, tt.want)
			}
		})
	}
}

func TestExtractFromContentCustomPattern(t *testing.T) {
	patterns := []string{`(?P<year>\d{4})\.(?P<month>\d{2})\.(?P<day>\d{2})`}

	r := ExtractFromContent("saved 2024.06.30", patterns)
	if !r.Found || !r.Date.Equal(day(2024, time.June, 30)) {
		t.Fatalf("got %+v, want 2024-06-30", r)
	}
	if r.Pattern != patterns[0] {
		t.Errorf("pattern = %q, want the custom pattern", r.Pattern)
	}
}

func TestExtractFromContentBadPatternSkipped(t *testing.T) {
	patterns := []string{`(unclosed`, `(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})`}

	r := ExtractFromContent("2024-01-15", patterns)
	if !r.Found {
		t.Fatal("valid pattern after a broken one should still match")
	}
}

func TestFilenamePrefix(t *testing.T) {
	if !HasPrefix("20240115-article.md") {
		t.Error("expected prefix detected")
	}
	if HasPrefix("article.md") {
		t.Error("unexpected prefix detected")
	}
	if HasPrefix("2024-article.md") {
		t.Error("short digit run must not count as a prefix")
	}

	got := AddPrefix("article.md", day(2024, time.January, 15), "20060102")
	if got != "20240115-article.md" {
		t.Errorf("AddPrefix = %q", got)
	}

	// Re-prefixing replaces the old date instead of stacking.
	got = AddPrefix("20230101-article.md", day(2024, time.January, 15), "20060102")
	if got != "20240115-article.md" {
		t.Errorf("AddPrefix over existing prefix = %q", got)
	}
}

func TestExtractFromFilenameInvalidDate(t *testing.T) {
	r := ExtractFromFilename("20241332-article.md")
	if r.Found {
		t.Fatalf("month 13 day 32 must not parse, got %v", r.Date)
	}
}
