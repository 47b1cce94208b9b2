package note

import (
	"fmt"
	"time"
)

// FieldAliases lists the accepted frontmatter key names for each semantic
// field, in priority order. The zero value is unusable; use
// DefaultFieldAliases or the configured set.
type FieldAliases struct {
	SourceURL     []string
	Title         []string
	PublishedDate []string
	ClippedDate   []string
	Author        []string
	Description   []string
}

// DefaultFieldAliases matches the shipped configuration defaults.
func DefaultFieldAliases() FieldAliases {
	return FieldAliases{
		SourceURL:     []string{"source", "url", "link", "original_url", "clip_url"},
		Title:         []string{"title", "name"},
		PublishedDate: []string{"published", "date", "publish_date"},
		ClippedDate:   []string{"clipped", "saved", "created", "added"},
		Author:        []string{"author", "by", "writer", "creator"},
		Description:   []string{"description", "summary", "excerpt", "abstract"},
	}
}

// Extract returns the value of the first alias present in fields.
func Extract(fields *Mapping, aliases []string) (any, bool) {
	for _, name := range aliases {
		if v, ok := fields.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// ExtractString is Extract with string conversion: datetime values format
// as YYYY-MM-DD, everything else through %v. Absent fields return "".
func ExtractString(fields *Mapping, aliases []string) string {
	v, ok := Extract(fields, aliases)
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Stringify converts a frontmatter scalar to its string form.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// GetSourceURL returns the article's source URL, or "".
func (a FieldAliases) GetSourceURL(fields *Mapping) string {
	return ExtractString(fields, a.SourceURL)
}

// GetTitle returns the article title, or "".
func (a FieldAliases) GetTitle(fields *Mapping) string {
	return ExtractString(fields, a.Title)
}

// GetAuthor returns the author, or "".
func (a FieldAliases) GetAuthor(fields *Mapping) string {
	return ExtractString(fields, a.Author)
}

// GetDescription returns the description, or "".
func (a FieldAliases) GetDescription(fields *Mapping) string {
	return ExtractString(fields, a.Description)
}

// GetPublishedDate returns the published date as a string, or "".
func (a FieldAliases) GetPublishedDate(fields *Mapping) string {
	return ExtractString(fields, a.PublishedDate)
}

// FindSourceKey returns the first source-URL alias actually present in
// fields, so a cleaned URL can be written back to the same key.
func (a FieldAliases) FindSourceKey(fields *Mapping) (string, bool) {
	for _, name := range a.SourceURL {
		if fields.Has(name) {
			return name, true
		}
	}
	return "", false
}

// ExtractFromMap is Extract over a plain map, for callers that read
// frontmatter through the frontmatter library rather than the ordered
// parser.
func ExtractFromMap(fields map[string]any, aliases []string) string {
	for _, name := range aliases {
		if v, ok := fields[name]; ok && v != nil {
			return Stringify(v)
		}
	}
	return ""
}
