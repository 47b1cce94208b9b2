// Package watcher monitors a vault for file changes and runs the
// preprocessing pipeline on modified markdown files.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/preprocess"
	"github.com/sgx-labs/clipvault/internal/vault"
)

const debounceDelay = 2 * time.Second

// Watch blocks, preprocessing markdown files under root as they change.
// Writes are debounced so editors that save in bursts trigger one pass.
// Deletions soft-remove the file's cache entry.
func Watch(root string, filter vault.Filter, cfg preprocess.Config, c *cache.Cache, opts preprocess.Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dirs := walkDirs(root, filter)
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", d, err)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d directories in %s\n", len(dirs), root)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop.\n\n")

	// Debounce: collect changed files over a window before processing.
	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
	)

	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(paths) == 0 {
			return
		}

		fmt.Fprintf(os.Stderr, "  Processing %d changed file(s)...\n", len(paths))
		stats := preprocess.Files(root, paths, cfg, c, opts)
		for _, fe := range stats.Errors {
			fmt.Fprintf(os.Stderr, "  [ERROR] %s: %s\n", relativePath(fe.Path, root), fe.Reason)
		}
		if c != nil {
			if err := c.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "  [ERROR] save cache: %v\n", err)
			}
		}
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(event.Name)
			if !strings.HasSuffix(event.Name, ".md") || filter.ShouldIgnoreFile(name) {
				// But follow new directories.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if !strings.HasPrefix(name, ".") && !filter.ShouldExcludeFolder(name) {
							if err := w.Add(event.Name); err != nil {
								fmt.Fprintf(os.Stderr, "  [WARN] Could not watch %s: %v\n", event.Name, err)
							}
						}
					}
				}
				continue
			}

			// Rename events refer to the old path; the entry is re-added
			// when the new path's Create event arrives.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				dropFromCache(c, event.Name, root)
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				mu.Lock()
				pending[event.Name] = true
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, flush)
				mu.Unlock()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "  [WARN] Watch error: %v\n", err)
		}
	}
}

func dropFromCache(c *cache.Cache, absPath, root string) {
	if c == nil {
		return
	}
	if url, _, ok := c.FindByFilename(filepath.Base(absPath)); ok {
		c.MarkRemoved(url)
		if err := c.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "  [ERROR] save cache: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "  Removed from cache: %s\n", relativePath(absPath, root))
	}
}

func walkDirs(root string, filter vault.Filter) []string {
	var dirs []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || filter.ShouldExcludeFolder(name)) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func relativePath(filePath, root string) string {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return filePath
	}
	return filepath.ToSlash(rel)
}
