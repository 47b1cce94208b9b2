// Package note parses and serializes the YAML frontmatter block of a
// markdown article, keeping field order stable across a rewrite.
package note

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the transient in-memory form of a markdown file during
// processing: the raw header text between the --- delimiters, the parsed
// field mapping, and the body.
type Document struct {
	Raw       string
	Fields    *Mapping
	Body      string
	HasHeader bool
}

// ParseError reports frontmatter that is present but not usable YAML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid frontmatter: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// The closing delimiter is a line of three or more dashes, optionally
// followed by trailing whitespace.
var closeDelimiter = regexp.MustCompile(`^-{3,}\s*$`)

// Split separates text into the raw frontmatter (without delimiters) and
// the body. hasHeader is false when the text does not start with a ---
// line, in which case body is the whole input.
func Split(text string) (raw, body string, hasHeader bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(first, " \t") != "---" {
		return "", text, false
	}

	var headerLines []string
	remaining := rest
	for remaining != "" {
		line, tail, _ := strings.Cut(remaining, "\n")
		if closeDelimiter.MatchString(line) {
			return strings.Join(headerLines, "\n"), tail, true
		}
		headerLines = append(headerLines, line)
		remaining = tail
	}
	// Never closed: treat the whole input as body.
	return "", text, false
}

// Parse splits text and parses the frontmatter mapping. Files without a
// header return a Document with an empty mapping and HasHeader false.
// A header that is not valid YAML, or whose top level is not a mapping,
// returns a *ParseError.
func Parse(text string) (Document, error) {
	raw, body, hasHeader := Split(text)
	doc := Document{Raw: raw, Body: body, HasHeader: hasHeader}
	if !hasHeader {
		doc.Fields = NewMapping()
		return doc, nil
	}
	fields, err := ParseMapping(raw)
	if err != nil {
		return doc, err
	}
	doc.Fields = fields
	return doc, nil
}

// Serialize rebuilds the file content from fields and body. An empty
// mapping produces the body alone.
func Serialize(fields *Mapping, body string) (string, error) {
	if fields == nil || fields.Len() == 0 {
		return body, nil
	}
	out, err := yaml.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("serialize frontmatter: %w", err)
	}
	return "---\n" + string(out) + "---\n" + body, nil
}
