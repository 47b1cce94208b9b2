package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/dates"
	"github.com/sgx-labs/clipvault/internal/vault"
)

func writeNote(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileFullPipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Broken Article.md")
	writeNote(t, path, `---
source: https://example.com/a?utm_source=news
title: My Article: A Subtitle
---
Published 15 January 2024 by someone.
`)

	result := File(path, DefaultConfig(), Options{})
	if result.Err != nil {
		t.Fatalf("File: %v", result.Err)
	}
	if !result.Repaired {
		t.Error("unquoted colon not repaired")
	}
	if !result.URLCleaned || result.SourceURL != "https://example.com/a" {
		t.Errorf("url not cleaned: %+v", result)
	}
	if !result.DatePrefixAdded || result.DateSource != dates.SourceContent {
		t.Errorf("date prefix: %+v", result)
	}
	if result.ContentHash == "" {
		t.Error("missing content hash")
	}

	wantPath := filepath.Join(dir, "20240115-Broken-Article.md")
	if result.NewPath != wantPath {
		t.Fatalf("new path = %q, want %q", result.NewPath, wantPath)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original path still exists after rename")
	}

	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, `source: "https://example.com/a"`) &&
		!strings.Contains(content, "source: https://example.com/a\n") {
		t.Errorf("cleaned URL not written back:\n%s", content)
	}
	if !strings.Contains(content, "My Article: A Subtitle") {
		t.Errorf("title lost:\n%s", content)
	}
	if !strings.Contains(content, "Published 15 January 2024") {
		t.Errorf("body lost:\n%s", content)
	}
}

func TestFileSecondPassIsNoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Messy Name.md")
	writeNote(t, path, `---
source: https://example.com/a?fbclid=x
title: Topic: Detail
published: 2024-01-15
---
body
`)

	first := File(path, DefaultConfig(), Options{})
	if first.Err != nil {
		t.Fatalf("first pass: %v", first.Err)
	}

	second := File(first.NewPath, DefaultConfig(), Options{})
	if second.Err != nil {
		t.Fatalf("second pass: %v", second.Err)
	}
	if second.Repaired || second.URLCleaned || second.Renamed || second.DatePrefixAdded {
		t.Errorf("second pass changed something: %+v", second)
	}
	if second.NewPath != first.NewPath {
		t.Errorf("second pass wants another rename: %q", second.NewPath)
	}
}

func TestFileDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Untitled Note.md")
	original := "---\nsource: https://example.com/a?utm_source=x\n---\nbody\n"
	writeNote(t, path, original)

	result := File(path, DefaultConfig(), Options{DryRun: true})
	if result.Err != nil {
		t.Fatalf("File: %v", result.Err)
	}
	if !result.URLCleaned {
		t.Error("dry run must still report planned changes")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("dry run touched the file: %v", err)
	}
	if string(data) != original {
		t.Error("dry run modified content")
	}
}

func TestFileWithoutFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain note.md")
	writeNote(t, path, "Just text, published 15 January 2024.\n")

	result := File(path, DefaultConfig(), Options{})
	if result.Err != nil {
		t.Fatalf("File: %v", result.Err)
	}
	if result.NewPath != filepath.Join(dir, "20240115-plain-note.md") {
		t.Errorf("new path = %q", result.NewPath)
	}

	data, err := os.ReadFile(result.NewPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(data), "---") {
		t.Error("frontmatter header invented for a plain file")
	}
}

func TestFileRenameCollisionGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, filepath.Join(dir, "20240115-note.md"), "existing\n")
	path := filepath.Join(dir, "note?.md")
	writeNote(t, path, "---\npublished: 2024-01-15\n---\nbody\n")

	result := File(path, DefaultConfig(), Options{})
	if result.Err != nil {
		t.Fatalf("File: %v", result.Err)
	}
	if result.NewPath != filepath.Join(dir, "20240115-note-1.md") {
		t.Fatalf("new path = %q", result.NewPath)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "20240115-note.md"))
	if string(data) != "existing\n" {
		t.Error("existing note clobbered")
	}
}

func TestFilesAggregatesAndRecordsCache(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, filepath.Join(dir, "a.md"),
		"---\nsource: https://example.com/a?utm_source=x\ntitle: A\n---\nbody a\n")
	writeNote(t, filepath.Join(dir, "Tech", "b.md"),
		"---\nsource: https://example.com/b\ntitle: B\n---\nbody b\n")

	paths, err := vault.Discover(dir, vault.DefaultFilter(), false)
	if err != nil {
		t.Fatal(err)
	}

	c := cache.New(filepath.Join(dir, ".clipvault", "cache.json"), nil)
	stats := Files(dir, paths, DefaultConfig(), c, Options{NoDatePrefix: true})

	if stats.Scanned != 2 {
		t.Fatalf("scanned = %d", stats.Scanned)
	}
	if stats.URLsCleaned != 1 {
		t.Errorf("urls cleaned = %d, want 1", stats.URLsCleaned)
	}
	if len(stats.Errors) != 0 {
		t.Errorf("errors = %+v", stats.Errors)
	}

	e, ok := c.Get("https://example.com/b")
	if !ok {
		t.Fatal("b not cached")
	}
	if e.Folder != "Tech" || e.Filename != "b.md" || e.Title != "B" {
		t.Errorf("entry = %+v", e)
	}
	if e.ContentHash == "" {
		t.Error("content hash not tracked")
	}

	e, ok = c.Get("https://example.com/a")
	if !ok {
		t.Fatal("a not cached")
	}
	if e.Folder != "" {
		t.Errorf("root file folder = %q, want empty", e.Folder)
	}
}

func TestFilesBatchSurvivesBadFile(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, filepath.Join(dir, "bad.md"), "---\n[1, 2, 3]\n---\nbody\n")
	writeNote(t, filepath.Join(dir, "good.md"),
		"---\nsource: https://example.com/good?utm_source=x\n---\nbody\n")

	paths, err := vault.Discover(dir, vault.DefaultFilter(), false)
	if err != nil {
		t.Fatal(err)
	}
	stats := Files(dir, paths, DefaultConfig(), nil, Options{NoDatePrefix: true})

	if len(stats.Errors) != 1 {
		t.Fatalf("errors = %+v", stats.Errors)
	}
	if stats.Errors[0].Path != filepath.Join(dir, "bad.md") {
		t.Errorf("wrong error path: %+v", stats.Errors[0])
	}
	if stats.URLsCleaned != 1 {
		t.Errorf("good file not processed: %+v", stats)
	}
}

func TestScanDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, filepath.Join(dir, "a.md"),
		"---\nsource: https://example.com/x?utm_source=a\n---\nshared body\n")
	writeNote(t, filepath.Join(dir, "Tech", "b.md"),
		"---\nsource: https://example.com/x\n---\nshared body\n")
	writeNote(t, filepath.Join(dir, "20240101-c.md"),
		"---\nsource: https://example.com/unique\n---\nown body\n")
	writeNote(t, filepath.Join(dir, "Tech", "20240202-c.md"),
		"---\ntitle: no url\n---\nanother body\n")

	report, err := ScanDuplicates(dir, vault.DefaultFilter(), DefaultConfig())
	if err != nil {
		t.Fatalf("ScanDuplicates: %v", err)
	}

	if len(report.ByURL) != 1 || report.ByURL[0].Key != "https://example.com/x" {
		t.Fatalf("by url = %+v", report.ByURL)
	}
	if len(report.ByURL[0].Files) != 2 {
		t.Errorf("by url files = %v", report.ByURL[0].Files)
	}

	if len(report.ByHash) != 1 {
		t.Fatalf("by hash = %+v", report.ByHash)
	}

	// Same stem "c" once date prefixes are stripped.
	if len(report.ByFilename) != 1 || report.ByFilename[0].Key != "c" {
		t.Fatalf("by filename = %+v", report.ByFilename)
	}

	md := FormatDuplicatesMarkdown(report, dir)
	if !strings.Contains(md, "## By URL (1 groups)") {
		t.Errorf("markdown:\n%s", md)
	}
	if strings.Contains(md, dir) {
		t.Error("markdown should use relative paths")
	}

	out, err := FormatDuplicatesJSON(report, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"by_url"`) {
		t.Errorf("json:\n%s", out)
	}
}

func TestGroupResultsIncludesCachedCopy(t *testing.T) {
	c := cache.New("", nil)
	c.Add("https://example.com/x", "old-copy.md", "X", "Archive", "")

	results := []FileResult{{
		Path:      "/vault/new-copy.md",
		NewPath:   "/vault/new-copy.md",
		SourceURL: "https://example.com/x",
	}}
	groups := groupResults(results, c)
	if len(groups) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Files) != 2 {
		t.Fatalf("files = %v", groups[0].Files)
	}
}
