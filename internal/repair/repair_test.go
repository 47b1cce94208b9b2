package repair

import (
	"strings"
	"testing"
)

func TestCollapseMultilineWikilinks(t *testing.T) {
	text := "title: \"Article with [[Broken\nWikilink]]\""
	fixed, fixes := CollapseMultilineWikilinks(text)
	if !strings.Contains(fixed, "[[Broken Wikilink]]") {
		t.Errorf("fixed = %q", fixed)
	}
	if len(fixes) != 1 || fixes[0].Kind != KindMultilineWikilink {
		t.Errorf("fixes = %+v", fixes)
	}

	// Single-line wikilinks are left for the next stage.
	text = "title: \"[[Valid Link]]\""
	fixed, fixes = CollapseMultilineWikilinks(text)
	if fixed != text || len(fixes) != 0 {
		t.Errorf("valid wikilink changed: %q, %d fixes", fixed, len(fixes))
	}
}

func TestStripWikilinks(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantFixes int
	}{
		{"simple", "author: [[John Doe]]", "author: John Doe", 1},
		{"alias wins", "author: [[John Doe Page|John Doe]]", "author: John Doe", 1},
		{"list items", "tags:\n  - [[Python]]\n  - [[Programming]]", "tags:\n  - Python\n  - Programming", 2},
		{"untouched", "author: John Doe\ntitle: Some Title", "author: John Doe\ntitle: Some Title", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, fixes := StripWikilinks(tt.in)
			if fixed != tt.want {
				t.Errorf("got %q, want %q", fixed, tt.want)
			}
			if len(fixes) != tt.wantFixes {
				t.Errorf("got %d fixes, want %d", len(fixes), tt.wantFixes)
			}
		})
	}
}

func TestCloseUnclosedQuotes(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantFixes int
	}{
		{"url field", `source: "https://example.com`, `source: "https://example.com"`, 1},
		{"list item", `  - "John Doe`, `  - "John Doe"`, 1},
		{"already closed", `source: "https://example.com"`, `source: "https://example.com"`, 0},
		{"comment preserved", `source: "https://example.com #comment`, `source: "https://example.com" #comment`, 1},
		{"closed with comment", `source: "https://example.com" #comment`, `source: "https://example.com" #comment`, 0},
		{"unquoted value untouched", `source: https://example.com`, `source: https://example.com`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, fixes := CloseUnclosedQuotes(tt.in)
			if fixed != tt.want {
				t.Errorf("got %q, want %q", fixed, tt.want)
			}
			if len(fixes) != tt.wantFixes {
				t.Errorf("got %d fixes, want %d", len(fixes), tt.wantFixes)
			}
		})
	}
}

func TestQuoteUnquotedColons(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		wantFixes int
	}{
		{"subtitle colon", "title: Chapter 1: Introduction", `title: "Chapter 1: Introduction"`, 1},
		{"already double quoted", `title: "Chapter 1: Introduction"`, `title: "Chapter 1: Introduction"`, 0},
		{"already single quoted", `title: 'Chapter 1: Introduction'`, `title: 'Chapter 1: Introduction'`, 0},
		{"no colon in value", "title: Simple Title", "title: Simple Title", 0},
		{"bare url", "source: https://example.com/a", `source: "https://example.com/a"`, 1},
		{"embedded quotes escaped", `title: He said "no": really`, `title: "He said \"no\": really"`, 1},
		{"indent preserved", "  note: a: b", `  note: "a: b"`, 1},
		{"comment preserved", "title: a: b #note", `title: "a: b" #note`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixed, fixes := QuoteUnquotedColons(tt.in)
			if fixed != tt.want {
				t.Errorf("got %q, want %q", fixed, tt.want)
			}
			if len(fixes) != tt.wantFixes {
				t.Errorf("got %d fixes, want %d", len(fixes), tt.wantFixes)
			}
		})
	}
}

func TestRepairStageOrder(t *testing.T) {
	// A multi-line wikilink must be collapsed first so the single-line
	// stripper can match it.
	raw := "author: [[John\nDoe]]"
	result := Repair(raw)
	if result.Frontmatter != "author: John Doe" {
		t.Errorf("frontmatter = %q", result.Frontmatter)
	}
	kinds := make(map[Kind]int)
	for _, f := range result.Fixes {
		kinds[f.Kind]++
	}
	if kinds[KindMultilineWikilink] != 1 || kinds[KindWikilink] != 1 {
		t.Errorf("kinds = %v", kinds)
	}
	if !result.Valid {
		t.Errorf("result should be valid YAML: %v", result.Err)
	}
}

func TestRepairValidInputUntouched(t *testing.T) {
	raw := "title: \"Valid Title\"\nauthor: \"Valid Author\"\n"
	result := Repair(raw)
	if len(result.Fixes) != 0 {
		t.Errorf("unexpected fixes: %+v", result.Fixes)
	}
	if !result.Valid {
		t.Errorf("valid input reported invalid: %v", result.Err)
	}
}

func TestRepairReportsRemainingInvalid(t *testing.T) {
	// Tab indentation is invalid YAML and none of the stages touch it.
	result := Repair("title:\n\tnested: bad")
	if result.Valid {
		t.Error("expected invalid result")
	}
	if result.Err == nil {
		t.Error("expected parse error")
	}
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		"author: [[John\nDoe]]\ntitle: x: y\nsource: \"https://e.com #c",
		"title: Chapter 1: Introduction\ntags:\n  - [[Go]]",
		"source: \"https://example.com\npublished: 2024-01-15",
		"title: a: b #note",
	}
	for _, in := range inputs {
		first := Repair(in)
		second := Repair(first.Frontmatter)
		if len(second.Fixes) != 0 {
			t.Errorf("second pass on %q produced fixes: %+v\nfirst output: %q",
				in, second.Fixes, first.Frontmatter)
		}
		if second.Frontmatter != first.Frontmatter {
			t.Errorf("repair not stable for %q: %q vs %q", in, first.Frontmatter, second.Frontmatter)
		}
	}
}
