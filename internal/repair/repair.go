// Package repair heuristically fixes common frontmatter breakages left
// behind by web clippers: wikilink syntax inside field values, strings
// broken across lines, unclosed quotes, and unquoted values containing
// colons. It does not aim for full YAML-spec coverage.
package repair

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind labels a category of repair.
type Kind string

const (
	KindWikilink          Kind = "wikilink"
	KindMultilineWikilink Kind = "multiline_wikilink"
	KindUnclosedQuote     Kind = "unclosed_quote"
	KindUnquotedColon     Kind = "unquoted_colon"
)

// Fix describes a single repair that was applied.
type Fix struct {
	Kind        Kind
	Description string
	Field       string
}

// Stage is one pass of the repair pipeline. Stages are pure text
// transformations and can be tested in isolation.
type Stage struct {
	Name  string
	Apply func(text string) (string, []Fix)
}

// Stages returns the repair passes in execution order. The order matters:
// multi-line wikilinks must be collapsed before the single-line wikilink
// pattern can match them, and quotes must be closed before the colon pass
// decides whether a value is already quoted.
func Stages() []Stage {
	return []Stage{
		{Name: "multiline_wikilinks", Apply: CollapseMultilineWikilinks},
		{Name: "wikilinks", Apply: StripWikilinks},
		{Name: "unclosed_quotes", Apply: CloseUnclosedQuotes},
		{Name: "unquoted_colons", Apply: QuoteUnquotedColons},
	}
}

// Result is the outcome of running the full pipeline over a raw header.
type Result struct {
	Frontmatter string
	Fixes       []Fix
	Valid       bool
	Err         error
}

// Repair runs every stage over the raw frontmatter text (without ---
// delimiters) and checks that the result parses as YAML. Running Repair on
// its own output yields no further fixes.
func Repair(raw string) Result {
	text := raw
	var fixes []Fix
	for _, stage := range Stages() {
		var stageFixes []Fix
		text, stageFixes = stage.Apply(text)
		fixes = append(fixes, stageFixes...)
	}

	result := Result{Frontmatter: text, Fixes: fixes, Valid: true}
	var probe any
	if err := yaml.Unmarshal([]byte(text), &probe); err != nil {
		result.Valid = false
		result.Err = err
	}
	return result
}

var multilineWikilink = regexp.MustCompile(`\[\[([^\]]*?)\n([^\]]*?)\]\]`)

// CollapseMultilineWikilinks rewrites [[text\nmore]] to [[text more]],
// collapsing any internal whitespace runs to single spaces.
func CollapseMultilineWikilinks(text string) (string, []Fix) {
	var fixes []Fix
	fixed := multilineWikilink.ReplaceAllStringFunc(text, func(match string) string {
		groups := multilineWikilink.FindStringSubmatch(match)
		linkText := strings.Join(strings.Fields(groups[1]+" "+groups[2]), " ")
		fixes = append(fixes, Fix{
			Kind:        KindMultilineWikilink,
			Description: fmt.Sprintf("Fixed multi-line wikilink: [[%s]]", linkText),
		})
		return "[[" + linkText + "]]"
	})
	return fixed, fixes
}

var wikilink = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// StripWikilinks rewrites [[Page]] to Page and [[Page|Alias]] to Alias.
func StripWikilinks(text string) (string, []Fix) {
	var fixes []Fix
	fixed := wikilink.ReplaceAllStringFunc(text, func(match string) string {
		groups := wikilink.FindStringSubmatch(match)
		replacement := strings.TrimSpace(groups[1])
		if groups[2] != "" {
			replacement = strings.TrimSpace(groups[2])
		}
		fixes = append(fixes, Fix{
			Kind:        KindWikilink,
			Description: fmt.Sprintf("Stripped wikilink syntax: %s -> %s", match, replacement),
		})
		return replacement
	})
	return fixed, fixes
}

var (
	quotedKeyValue = regexp.MustCompile(`^(\s*\S+:\s+)"(.*)$`)
	quotedListItem = regexp.MustCompile(`^(\s*-\s+)"(.*)$`)
)

// CloseUnclosedQuotes inserts the missing closing quote on lines of the
// form `key: "value` or `- "value`. A trailing ` #comment` suffix stays
// outside the quotes, preserved verbatim.
func CloseUnclosedQuotes(text string) (string, []Fix) {
	var fixes []Fix
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimRight(line, " \t")

		groups := quotedKeyValue.FindStringSubmatch(stripped)
		if groups == nil {
			groups = quotedListItem.FindStringSubmatch(stripped)
		}
		if groups == nil {
			continue
		}

		body, comment := splitComment(groups[2])
		if endsWithUnescapedQuote(body) {
			continue
		}

		lines[i] = groups[1] + `"` + body + `"` + comment
		fixes = append(fixes, Fix{
			Kind:        KindUnclosedQuote,
			Description: fmt.Sprintf("Closed unclosed quote in: %q", stripped),
		})
	}
	return strings.Join(lines, "\n"), fixes
}

var keyValueLine = regexp.MustCompile(`^(\s*)([^\s:][^:]*):\s+(\S.*)$`)

// QuoteUnquotedColons wraps values containing a colon in double quotes so
// YAML does not read them as nested mappings. Already-quoted values and
// trailing comments are left alone; embedded double quotes are escaped.
func QuoteUnquotedColons(text string) (string, []Fix) {
	var fixes []Fix
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		groups := keyValueLine.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if groups == nil {
			continue
		}
		indent, key, value := groups[1], groups[2], strings.TrimSpace(groups[3])
		if !strings.Contains(value, ":") {
			continue
		}
		// Quoting is judged on the value with any trailing comment
		// stripped, otherwise a previously fixed `key: "a: b" #c` line
		// would be quoted again on the next pass.
		body, comment := splitComment(value)
		body = strings.TrimRight(body, " \t")
		if isFullyQuoted(body) {
			continue
		}
		escaped := strings.ReplaceAll(body, `"`, `\"`)
		lines[i] = fmt.Sprintf(`%s%s: "%s"%s`, indent, key, escaped, comment)
		fixes = append(fixes, Fix{
			Kind:        KindUnquotedColon,
			Description: fmt.Sprintf("Quoted value with colon in field: %s", key),
			Field:       key,
		})
	}
	return strings.Join(lines, "\n"), fixes
}

// splitComment separates a trailing ` #comment` suffix from a value.
func splitComment(value string) (body, comment string) {
	if i := strings.Index(value, " #"); i >= 0 {
		return value[:i], value[i:]
	}
	return value, ""
}

func endsWithUnescapedQuote(s string) bool {
	return strings.HasSuffix(s, `"`) && !strings.HasSuffix(s, `\"`)
}

func isFullyQuoted(value string) bool {
	if len(value) < 2 {
		return false
	}
	return (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
		(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`))
}
