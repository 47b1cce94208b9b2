package mover

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/note"
)

// UpdateCache records executed moves in the article cache. Trashed files
// are soft-removed by filename lookup; moved files have their folder
// updated via the source URL in their frontmatter. Files that still sit
// at their original path are assumed failed and skipped.
func UpdateCache(c *cache.Cache, instructions []Instruction, sourceDir string, urlAliases []string) {
	if urlAliases == nil {
		urlAliases = note.DefaultFieldAliases().SourceURL
	}
	for _, in := range instructions {
		if in.Trash {
			if _, err := os.Stat(filepath.Join(sourceDir, in.Filename)); err == nil {
				continue
			}
			if url, _, ok := c.FindByFilename(in.Filename); ok {
				c.MarkRemoved(url)
			}
			continue
		}

		dest := filepath.Join(sourceDir, in.Category, in.Filename)
		data, err := os.ReadFile(dest)
		if err != nil {
			continue
		}
		var fields map[string]any
		if _, err := frontmatter.Parse(strings.NewReader(string(data)), &fields); err != nil {
			continue
		}
		if url := note.ExtractFromMap(fields, urlAliases); url != "" {
			c.UpdateLocation(url, "", in.Category)
		}
	}
}
