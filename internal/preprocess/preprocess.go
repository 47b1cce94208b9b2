// Package preprocess runs the per-file normalization pipeline over a
// vault: frontmatter repair, URL cleaning, content fingerprinting, date
// prefixing, and filename sanitization, followed by duplicate grouping.
package preprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/dates"
	"github.com/sgx-labs/clipvault/internal/fingerprint"
	"github.com/sgx-labs/clipvault/internal/note"
	"github.com/sgx-labs/clipvault/internal/repair"
	"github.com/sgx-labs/clipvault/internal/sanitize"
	"github.com/sgx-labs/clipvault/internal/vault"
)

// Config carries the per-concern settings the pipeline needs.
type Config struct {
	Aliases          note.FieldAliases
	Dates            dates.Config
	Filename         sanitize.FilenameConfig
	RemoveParams     []string
	HashLength       int
	TrackURLs        bool
	TrackContentHash bool
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Aliases:          note.DefaultFieldAliases(),
		Dates:            dates.DefaultConfig(),
		Filename:         sanitize.DefaultFilenameConfig(),
		RemoveParams:     sanitize.DefaultRemoveParams(),
		HashLength:       fingerprint.DefaultLength,
		TrackURLs:        true,
		TrackContentHash: true,
	}
}

// Options toggles individual pipeline stages.
type Options struct {
	DryRun           bool
	NoURLClean       bool
	NoFilenameClean  bool
	NoDatePrefix     bool
	NoFrontmatterFix bool
	NoDedupe         bool
}

// FileResult records what happened to one file.
type FileResult struct {
	Path            string
	NewPath         string
	Repaired        bool
	RepairKinds     []repair.Kind
	URLCleaned      bool
	Renamed         bool
	DatePrefixAdded bool
	DateSource      dates.Source
	ContentHash     string
	SourceURL       string
	Err             error
}

// FileError pairs a path with the reason it failed.
type FileError struct {
	Path   string
	Reason string
}

// Stats summarizes a pipeline run.
type Stats struct {
	Scanned             int
	FrontmatterFixed    int
	FixCounts           map[repair.Kind]int
	URLsCleaned         int
	FilenamesRenamed    int
	DatePrefixesAdded   int
	DateFromFrontmatter int
	DateFromContent     int
	DuplicatesFound     int
	DuplicateGroups     []Group
	Errors              []FileError
}

// File runs the pipeline on one markdown file. The file is rewritten and
// renamed only when a stage changed something and DryRun is off. The
// frontmatter write and the rename are independent steps; if the rename
// fails the rewritten content stays in place and the error is reported.
func File(path string, cfg Config, opts Options) FileResult {
	result := FileResult{Path: path, NewPath: path, DateSource: dates.SourceNone}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("read file: %w", err)
		return result
	}
	raw, body, hasHeader := note.Split(string(data))

	modified := false
	fields, parseErr := note.ParseMapping(raw)

	if hasHeader && !opts.NoFrontmatterFix {
		repaired := repair.Repair(raw)
		if len(repaired.Fixes) > 0 {
			if fixed, err := note.ParseMapping(repaired.Frontmatter); err == nil {
				// Quoting a value that YAML already read correctly is
				// cosmetic; it only counts as a repair when it changes
				// the parse or rescues an unparsable header.
				if parseErr != nil || !fields.Equal(fixed) {
					result.Repaired = true
					for _, fix := range repaired.Fixes {
						result.RepairKinds = append(result.RepairKinds, fix.Kind)
					}
					modified = true
				}
				fields = fixed
				parseErr = nil
			}
		}
	}
	if parseErr != nil {
		result.Err = fmt.Errorf("parse frontmatter: %w", parseErr)
		return result
	}

	if url := cfg.Aliases.GetSourceURL(fields); url != "" {
		result.SourceURL = url
		if !opts.NoURLClean {
			cleaned := sanitize.CleanURL(url, cfg.RemoveParams)
			if cleaned != url {
				if key, ok := cfg.Aliases.FindSourceKey(fields); ok {
					fields.Set(key, cleaned)
				}
				result.URLCleaned = true
				result.SourceURL = cleaned
				modified = true
			}
		}
	}

	result.ContentHash = fingerprint.Hash(body, cfg.HashLength)

	filename := filepath.Base(path)
	newFilename := filename

	if !opts.NoDatePrefix && !dates.HasPrefix(filename) {
		if r := dates.Resolve(fields, body, filename, cfg.Dates); r.Found {
			newFilename = dates.AddPrefix(filename, r.Date, cfg.Dates.OutputFormat)
			result.DatePrefixAdded = true
			result.DateSource = r.Source
			modified = true
		}
	}

	if !opts.NoFilenameClean {
		sanitized := sanitize.SanitizeFilename(newFilename, cfg.Filename)
		if sanitized != newFilename {
			newFilename = sanitized
			result.Renamed = true
			modified = true
		}
	}

	if newFilename != filename {
		result.NewPath = filepath.Join(filepath.Dir(path), newFilename)
	}

	if opts.DryRun || !modified {
		return result
	}

	if hasHeader || fields.Len() > 0 {
		serialized, err := note.Serialize(fields, body)
		if err != nil {
			result.Err = fmt.Errorf("serialize frontmatter: %w", err)
			return result
		}
		if err := os.WriteFile(path, []byte(serialized), 0o644); err != nil {
			result.Err = fmt.Errorf("write file: %w", err)
			return result
		}
	}
	if result.NewPath != path {
		// A clash with an existing note gets a numeric suffix rather
		// than clobbering it.
		target := vault.UniquePath(filepath.Dir(path), newFilename)
		if target != result.NewPath {
			result.NewPath = target
		}
		if err := os.Rename(path, result.NewPath); err != nil {
			result.NewPath = path
			result.Err = fmt.Errorf("rename file: %w", err)
			return result
		}
	}
	return result
}

// Files runs the pipeline over paths and aggregates results. One bad
// file never aborts the batch. When c is non-nil, files with a source
// URL are recorded in the cache (the caller saves it); root anchors the
// folder recorded for each file.
func Files(root string, paths []string, cfg Config, c *cache.Cache, opts Options) Stats {
	stats := Stats{Scanned: len(paths), FixCounts: map[repair.Kind]int{}}
	var results []FileResult

	for _, path := range paths {
		result := File(path, cfg, opts)
		results = append(results, result)

		if result.Err != nil {
			stats.Errors = append(stats.Errors, FileError{Path: path, Reason: result.Err.Error()})
			continue
		}
		if result.Repaired {
			stats.FrontmatterFixed++
			for _, kind := range result.RepairKinds {
				stats.FixCounts[kind]++
			}
		}
		if result.URLCleaned {
			stats.URLsCleaned++
		}
		if result.Renamed {
			stats.FilenamesRenamed++
		}
		if result.DatePrefixAdded {
			stats.DatePrefixesAdded++
			switch result.DateSource {
			case dates.SourceFrontmatter:
				stats.DateFromFrontmatter++
			case dates.SourceContent:
				stats.DateFromContent++
			}
		}

		if c != nil && !opts.DryRun && result.SourceURL != "" && cfg.TrackURLs {
			hash := ""
			if cfg.TrackContentHash {
				hash = result.ContentHash
			}
			title := titleFor(result, cfg)
			folder := folderFor(root, result.NewPath)
			c.Add(result.SourceURL, filepath.Base(result.NewPath), title, folder, hash)
		}
	}

	if !opts.NoDedupe {
		stats.DuplicateGroups = groupResults(results, c)
		for _, group := range stats.DuplicateGroups {
			stats.DuplicatesFound += len(group.Files)
		}
	}
	return stats
}

// Directory discovers markdown files under root and runs Files on them.
func Directory(root string, filter vault.Filter, cfg Config, c *cache.Cache, opts Options) (Stats, error) {
	paths, err := vault.Discover(root, filter, false)
	if err != nil {
		return Stats{}, err
	}
	return Files(root, paths, cfg, c, opts), nil
}

// groupResults buckets successful results by cleaned source URL. When a
// cache is available, an active cached file for the same URL that is not
// already in the bucket joins the group.
func groupResults(results []FileResult, c *cache.Cache) []Group {
	byURL := map[string][]string{}
	var order []string
	for _, r := range results {
		if r.Err != nil || r.SourceURL == "" {
			continue
		}
		if _, seen := byURL[r.SourceURL]; !seen {
			order = append(order, r.SourceURL)
		}
		byURL[r.SourceURL] = append(byURL[r.SourceURL], r.NewPath)
	}

	var groups []Group
	for _, url := range order {
		files := byURL[url]
		if c != nil && c.HasActiveURL(url) {
			if entry, ok := c.Get(url); ok {
				cached := entry.Filename
				if entry.Folder != "" {
					cached = filepath.Join(entry.Folder, entry.Filename)
				}
				if !containsFile(files, cached) {
					files = append(files, cached)
				}
			}
		}
		if len(files) > 1 {
			groups = append(groups, Group{Key: url, Files: files})
		}
	}
	return groups
}

func containsFile(files []string, name string) bool {
	for _, f := range files {
		if f == name || filepath.Base(f) == filepath.Base(name) {
			return true
		}
	}
	return false
}

func titleFor(result FileResult, cfg Config) string {
	data, err := os.ReadFile(result.NewPath)
	if err != nil {
		return ""
	}
	doc, err := note.Parse(string(data))
	if err != nil {
		return ""
	}
	return cfg.Aliases.GetTitle(doc.Fields)
}

// folderFor returns the folder of path relative to root, or empty for
// files at the vault top level or outside it.
func folderFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return ""
	}
	return dir
}
