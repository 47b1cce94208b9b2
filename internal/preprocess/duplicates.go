package preprocess

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/sgx-labs/clipvault/internal/dates"
	"github.com/sgx-labs/clipvault/internal/fingerprint"
	"github.com/sgx-labs/clipvault/internal/note"
	"github.com/sgx-labs/clipvault/internal/sanitize"
	"github.com/sgx-labs/clipvault/internal/vault"
)

// Group is a set of files sharing one duplicate key.
type Group struct {
	Key   string   `json:"key"`
	Files []string `json:"files"`
}

// DuplicateReport holds duplicate groups per detection strategy.
type DuplicateReport struct {
	ByURL      []Group `json:"by_url"`
	ByHash     []Group `json:"by_hash"`
	ByFilename []Group `json:"by_filename"`
}

// Empty reports whether no duplicates were found at all.
func (r DuplicateReport) Empty() bool {
	return len(r.ByURL) == 0 && len(r.ByHash) == 0 && len(r.ByFilename) == 0
}

// ScanDuplicates walks the vault and groups files three ways: by cleaned
// source URL, by content fingerprint, and by filename with the date
// prefix stripped. Unreadable or unparsable files are skipped in the
// frontmatter-based scans.
func ScanDuplicates(root string, filter vault.Filter, cfg Config) (DuplicateReport, error) {
	paths, err := vault.Discover(root, filter, false)
	if err != nil {
		return DuplicateReport{}, err
	}

	byURL := map[string][]string{}
	byHash := map[string][]string{}
	byName := map[string][]string{}

	for _, path := range paths {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if dates.HasPrefix(stem) {
			stem = stem[9:]
		}
		name := strings.ToLower(stem)
		byName[name] = append(byName[name], path)

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var fields map[string]any
		body, err := frontmatter.Parse(strings.NewReader(string(data)), &fields)
		if err != nil {
			continue
		}
		hash := fingerprint.Hash(string(body), 0)
		byHash[hash] = append(byHash[hash], path)

		if url := note.ExtractFromMap(fields, cfg.Aliases.SourceURL); url != "" {
			cleaned := sanitize.CleanURL(url, cfg.RemoveParams)
			byURL[cleaned] = append(byURL[cleaned], path)
		}
	}

	report := DuplicateReport{
		ByURL:      collectGroups(byURL, func(k string) string { return k }),
		ByHash:     collectGroups(byHash, func(k string) string { return k[:12] }),
		ByFilename: collectGroups(byName, func(k string) string { return k }),
	}
	return report, nil
}

func collectGroups(m map[string][]string, keyFn func(string) string) []Group {
	keys := make([]string, 0, len(m))
	for k, files := range m {
		if len(files) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var groups []Group
	for _, k := range keys {
		files := append([]string(nil), m[k]...)
		sort.Strings(files)
		groups = append(groups, Group{Key: keyFn(k), Files: files})
	}
	return groups
}

// FormatDuplicatesMarkdown renders the report with paths relative to root.
func FormatDuplicatesMarkdown(report DuplicateReport, root string) string {
	var b strings.Builder
	b.WriteString("# Duplicate Articles\n\n")

	section := func(title string, groups []Group) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s (%d groups)\n\n", title, len(groups))
		for i, group := range groups {
			fmt.Fprintf(&b, "%d. %s\n", i+1, group.Key)
			for _, f := range group.Files {
				fmt.Fprintf(&b, "   - %s\n", relativeTo(root, f))
			}
			b.WriteString("\n")
		}
	}
	section("By URL", report.ByURL)
	section("By Content Hash", report.ByHash)
	section("By Similar Filename", report.ByFilename)

	if report.Empty() {
		b.WriteString("No duplicates found.\n")
	}
	return b.String()
}

// FormatDuplicatesJSON renders the report as indented JSON with paths
// relative to root.
func FormatDuplicatesJSON(report DuplicateReport, root string) (string, error) {
	rel := DuplicateReport{
		ByURL:      relativeGroups(report.ByURL, root),
		ByHash:     relativeGroups(report.ByHash, root),
		ByFilename: relativeGroups(report.ByFilename, root),
	}
	data, err := json.MarshalIndent(rel, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode duplicates: %w", err)
	}
	return string(data), nil
}

func relativeGroups(groups []Group, root string) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		files := make([]string, 0, len(g.Files))
		for _, f := range g.Files {
			files = append(files, relativeTo(root, f))
		}
		out = append(out, Group{Key: g.Key, Files: files})
	}
	return out
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
