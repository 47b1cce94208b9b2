package sanitize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilenameConfig controls filename sanitization.
type FilenameConfig struct {
	// Replacements are literal substitutions applied before Unicode
	// normalization, e.g. " " -> "-".
	Replacements map[string]string
	// UnicodeNormalize is one of "NFC", "NFD", "NFKC", "NFKD", or "" to
	// skip normalization. Decomposing forms let accent marks be stripped.
	UnicodeNormalize string
	Lowercase        bool
	MaxLength        int
	CollapseDashes   bool
}

// DefaultFilenameConfig mirrors the shipped configuration defaults, with
// NFD normalization so accented letters reduce to their base characters.
func DefaultFilenameConfig() FilenameConfig {
	return FilenameConfig{
		Replacements: map[string]string{
			" ":  "-",
			"_":  "-",
			"'":  "",
			`"`:  "",
			":":  "-",
			"/":  "-",
			"\\": "-",
			"|":  "-",
			"?":  "",
			"*":  "",
			"<":  "",
			">":  "",
		},
		UnicodeNormalize: "NFD",
		MaxLength:        100,
		CollapseDashes:   true,
	}
}

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9.\-]`)
	repeatedDashes = regexp.MustCompile(`-+`)
	stripMarks     = runes.Remove(runes.In(unicode.Mn))
)

// SanitizeFilename produces a filesystem-safe name: only A-Za-z0-9, dash,
// and dot survive; accented letters lose their accents; everything else
// becomes a dash. The extension is preserved through dash-trimming and
// max-length truncation.
func SanitizeFilename(name string, cfg FilenameConfig) string {
	result := name

	// Apply literal replacements in sorted key order so the outcome does
	// not depend on map iteration.
	if len(cfg.Replacements) > 0 {
		keys := make([]string, 0, len(cfg.Replacements))
		for k := range cfg.Replacements {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			result = strings.ReplaceAll(result, k, cfg.Replacements[k])
		}
	}

	if form, ok := normForm(cfg.UnicodeNormalize); ok {
		result, _, _ = transform.String(form, result)
	}
	result, _, _ = transform.String(stripMarks, result)

	result = unsafeChars.ReplaceAllString(result, "-")

	if cfg.CollapseDashes {
		result = repeatedDashes.ReplaceAllString(result, "-")
	}

	// Trim dashes around the stem, leaving the extension alone.
	if i := strings.LastIndex(result, "."); i >= 0 {
		result = strings.Trim(result[:i], "-") + result[i:]
	} else {
		result = strings.Trim(result, "-")
	}

	if cfg.Lowercase {
		result = strings.ToLower(result)
	}

	if cfg.MaxLength > 0 && len(result) > cfg.MaxLength {
		result = truncate(result, cfg.MaxLength)
	}

	return result
}

func normForm(name string) (norm.Form, bool) {
	switch name {
	case "NFC":
		return norm.NFC, true
	case "NFD":
		return norm.NFD, true
	case "NFKC":
		return norm.NFKC, true
	case "NFKD":
		return norm.NFKD, true
	}
	return 0, false
}

// truncate shortens name to max bytes, keeping the extension when there is
// room for at least one stem character.
func truncate(name string, max int) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name[:max]
	}
	ext := name[i+1:]
	available := max - len(ext) - 1
	if available <= 0 {
		return name[:max]
	}
	stem := name[:i]
	if len(stem) > available {
		stem = stem[:available]
	}
	return stem + "." + ext
}
