// Package cache tracks clipped articles by normalized source URL so that
// re-clipping a page is detected even after the note was renamed, moved,
// or deleted. Entries are soft-deleted: a removed article keeps its record
// so its URL still answers "have I seen this before".
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sgx-labs/clipvault/internal/sanitize"
)

// FormatVersion is written to new cache files.
const FormatVersion = 1

// Entry is one tracked article. All dates are strings so the on-disk
// format stays stable and diff-friendly.
type Entry struct {
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Folder      string `json:"folder,omitempty"`
	FirstSeen   string `json:"first_seen"`
	LastSeen    string `json:"last_seen"`
	Removed     bool   `json:"removed"`
	RemovedAt   string `json:"removed_at,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Active reports whether the entry refers to a file believed to exist.
func (e *Entry) Active() bool { return !e.Removed }

// CorruptError reports a cache file that exists but cannot be decoded.
// The file is left untouched; recovery is an explicit reset.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("cache file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Cache is a URL-keyed article index. Keys are normalized URLs; every
// public method normalizes its url argument, so callers may pass raw URLs.
type Cache struct {
	Version int               `json:"version"`
	Updated string            `json:"updated"`
	Entries map[string]*Entry `json:"entries"`

	path      string
	normalize func(string) string
}

// New returns an empty cache bound to path. normalize may be nil, in
// which case the default URL cleaning rules apply.
func New(path string, normalize func(string) string) *Cache {
	if normalize == nil {
		normalize = func(u string) string { return sanitize.CleanURL(u, nil) }
	}
	return &Cache{
		Version:   FormatVersion,
		Entries:   map[string]*Entry{},
		path:      path,
		normalize: normalize,
	}
}

// Load reads the cache at path. A missing file yields an empty cache
// bound to path. A file that exists but does not decode yields a
// *CorruptError.
func Load(path string, normalize func(string) string) (*Cache, error) {
	c := New(path, normalize)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if c.Entries == nil {
		c.Entries = map[string]*Entry{}
	}
	return c, nil
}

// Path returns the file the cache loads from and saves to.
func (c *Cache) Path() string { return c.path }

// Add records url and returns its entry, creating or updating it as
// needed. An entry that was previously removed is reactivated.
// contentHash only overwrites the stored hash when non-empty.
func (c *Cache) Add(url, filename, title, folder, contentHash string) *Entry {
	key := c.normalize(url)
	now := today()
	e, ok := c.Entries[key]
	if !ok {
		e = &Entry{FirstSeen: now}
		c.Entries[key] = e
	}
	e.Filename = filename
	e.Title = title
	e.Folder = folder
	e.LastSeen = now
	e.Removed = false
	e.RemovedAt = ""
	if contentHash != "" {
		e.ContentHash = contentHash
	}
	return e
}

// Get returns the entry for url, removed or not.
func (c *Cache) Get(url string) (*Entry, bool) {
	e, ok := c.Entries[c.normalize(url)]
	return e, ok
}

// HasURL reports whether url was ever recorded.
func (c *Cache) HasURL(url string) bool {
	_, ok := c.Entries[c.normalize(url)]
	return ok
}

// HasActiveURL reports whether url refers to a file believed to exist.
func (c *Cache) HasActiveURL(url string) bool {
	e, ok := c.Entries[c.normalize(url)]
	return ok && e.Active()
}

// UpdateLocation records a rename or move. Empty filename or folder
// arguments leave the stored value untouched. Returns false when the URL
// is unknown.
func (c *Cache) UpdateLocation(url, filename, folder string) bool {
	e, ok := c.Entries[c.normalize(url)]
	if !ok {
		return false
	}
	if filename != "" {
		e.Filename = filename
	}
	if folder != "" {
		e.Folder = folder
	}
	e.LastSeen = today()
	return true
}

// MarkRemoved soft-deletes the entry for url.
func (c *Cache) MarkRemoved(url string) bool {
	e, ok := c.Entries[c.normalize(url)]
	if !ok {
		return false
	}
	e.Removed = true
	e.RemovedAt = time.Now().UTC().Format(time.RFC3339)
	return true
}

// Remove hard-deletes the entry for url.
func (c *Cache) Remove(url string) bool {
	key := c.normalize(url)
	if _, ok := c.Entries[key]; !ok {
		return false
	}
	delete(c.Entries, key)
	return true
}

// FindByFilename returns the URL and entry of the first active entry with
// the given filename, scanning in key order for determinism.
func (c *Cache) FindByFilename(filename string) (string, *Entry, bool) {
	for _, key := range c.sortedKeys() {
		e := c.Entries[key]
		if e.Active() && e.Filename == filename {
			return key, e, true
		}
	}
	return "", nil, false
}

// FindByHash returns the URLs of all active entries with the given
// content hash, sorted.
func (c *Cache) FindByHash(contentHash string) []string {
	if contentHash == "" {
		return nil
	}
	var urls []string
	for key, e := range c.Entries {
		if e.Active() && e.ContentHash == contentHash {
			urls = append(urls, key)
		}
	}
	sort.Strings(urls)
	return urls
}

// Clean soft-removes entries whose filename is absent from existing and
// returns how many were marked.
func (c *Cache) Clean(existing map[string]bool) int {
	stamp := time.Now().UTC().Format(time.RFC3339)
	marked := 0
	for _, e := range c.Entries {
		if e.Active() && !existing[e.Filename] {
			e.Removed = true
			e.RemovedAt = stamp
			marked++
		}
	}
	return marked
}

// ActiveCount returns how many entries are not removed.
func (c *Cache) ActiveCount() int {
	n := 0
	for _, e := range c.Entries {
		if e.Active() {
			n++
		}
	}
	return n
}

// Save writes the cache atomically: a temp file in the same directory is
// renamed over the target, so readers never observe a partial file.
func (c *Cache) Save() error {
	c.Version = FormatVersion
	c.Updated = time.Now().UTC().Format(time.RFC3339)

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func (c *Cache) sortedKeys() []string {
	keys := make([]string, 0, len(c.Entries))
	for key := range c.Entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func today() string {
	return time.Now().Format("2006-01-02")
}
