// Package vault walks a notes directory and selects the markdown files
// the rest of the pipeline operates on.
package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Filter decides which folders and files a walk visits.
type Filter struct {
	// ExcludePatterns are path.Match patterns applied to folder names.
	ExcludePatterns []string
	// IgnoreFiles are exact filenames skipped everywhere in the vault.
	IgnoreFiles []string
}

// DefaultFilter skips special folders and common non-article files.
func DefaultFilter() Filter {
	return Filter{
		ExcludePatterns: []string{"0-*", ".*", "_*"},
		IgnoreFiles:     []string{"README.md", "CLAUDE.md"},
	}
}

// ShouldIgnoreFile reports whether name is skipped. Hidden files are
// always skipped.
func (f Filter) ShouldIgnoreFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range f.IgnoreFiles {
		if name == ignored {
			return true
		}
	}
	return false
}

// ShouldExcludeFolder reports whether a folder name matches an exclude
// pattern. Malformed patterns never match.
func (f Filter) ShouldExcludeFolder(name string) bool {
	for _, pattern := range f.ExcludePatterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Discover returns the absolute paths of all markdown files under root
// that pass the filter, sorted. includeSpecial disables the folder
// exclude patterns, which the stats command uses to show the whole
// vault; hidden directories stay skipped either way.
func Discover(root string, filter Filter, includeSpecial bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !includeSpecial && filter.ShouldExcludeFolder(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		if filter.ShouldIgnoreFile(name) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// UniquePath returns dir/filename, suffixing the stem with -1, -2, and
// so on until the path does not exist.
func UniquePath(dir, filename string) string {
	target := filepath.Join(dir, filename)
	if _, err := os.Stat(target); err != nil {
		return target
	}
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// Folders returns the names of the top-level folders under root that
// pass the filter, sorted. These are the categorization targets.
func Folders(root string, filter Filter) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	var folders []string
	for _, p := range entries {
		name := filepath.Base(p)
		if strings.HasPrefix(name, ".") || filter.ShouldExcludeFolder(name) {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			folders = append(folders, name)
		}
	}
	sort.Strings(folders)
	return folders, nil
}
