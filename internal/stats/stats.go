// Package stats counts articles per top-level vault folder and flags
// folders outside the configured size thresholds.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/sgx-labs/clipvault/internal/vault"
)

// RootBucket labels articles sitting directly under the vault root.
const RootBucket = "(root)"

// Thresholds flag folders with too few or too many articles. Zero
// disables a bound.
type Thresholds struct {
	WarnBelow int
	WarnAbove int
}

// FolderStats is the article count for one folder.
type FolderStats struct {
	Name    string `json:"name" yaml:"name"`
	Count   int    `json:"count" yaml:"count"`
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Stats is the vault-wide summary.
type Stats struct {
	TotalArticles int           `json:"total_articles" yaml:"total_articles"`
	TotalFolders  int           `json:"total_folders" yaml:"total_folders"`
	Folders       []FolderStats `json:"folders" yaml:"folders"`
	Warnings      []string      `json:"warnings" yaml:"warnings"`
}

// Collect counts markdown articles one level deep per folder, sorted by
// count descending then name. includeSpecial disables the folder
// exclude patterns; hidden folders stay skipped.
func Collect(root string, filter vault.Filter, thresholds Thresholds, includeSpecial bool) (Stats, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Stats{}, fmt.Errorf("read vault: %w", err)
	}

	counts := map[string]int{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if isArticle(name, filter) {
				counts[RootBucket]++
			}
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !includeSpecial && filter.ShouldExcludeFolder(name) {
			continue
		}
		count, err := countArticles(filepath.Join(root, name), filter)
		if err != nil {
			return Stats{}, err
		}
		if count > 0 {
			counts[name] = count
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	stats := Stats{Warnings: []string{}}
	for _, name := range names {
		count := counts[name]
		warning := ""
		if thresholds.WarnBelow > 0 && count < thresholds.WarnBelow {
			warning = fmt.Sprintf("below threshold (%d)", thresholds.WarnBelow)
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s has only %d articles", name, count))
		} else if thresholds.WarnAbove > 0 && count > thresholds.WarnAbove {
			warning = fmt.Sprintf("above threshold (%d)", thresholds.WarnAbove)
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("%s has %d articles", name, count))
		}
		stats.Folders = append(stats.Folders, FolderStats{Name: name, Count: count, Warning: warning})
		stats.TotalArticles += count
	}
	stats.TotalFolders = len(stats.Folders)
	return stats, nil
}

func countArticles(dir string, filter vault.Filter) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read folder %s: %w", dir, err)
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && isArticle(entry.Name(), filter) {
			count++
		}
	}
	return count, nil
}

func isArticle(name string, filter vault.Filter) bool {
	return strings.EqualFold(filepath.Ext(name), ".md") && !filter.ShouldIgnoreFile(name)
}

// RenderTable renders the stats as a rounded-border table.
func RenderTable(stats Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Count", "Folder", "Warning"})
	for _, folder := range stats.Folders {
		tw.AppendRow(table.Row{folder.Count, folder.Name + "/", folder.Warning})
	}
	tw.AppendFooter(table.Row{stats.TotalArticles, fmt.Sprintf("%d folders", stats.TotalFolders), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
	})
	return tw.Render()
}

// RenderJSON renders the stats as indented JSON.
func RenderJSON(stats Stats) (string, error) {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	return string(data), nil
}

// RenderYAML renders the stats as YAML.
func RenderYAML(stats Stats) (string, error) {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}
	return string(data), nil
}
