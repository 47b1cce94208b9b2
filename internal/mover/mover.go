// Package mover executes categorization files: plain-text lists mapping
// article filenames to destination folders, as produced by a manual or
// LLM-assisted triage pass over the vault inbox.
package mover

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TrashCategory trashes a file instead of filing it.
const TrashCategory = "TRASH"

// Instruction is one parsed line of a categorization file.
type Instruction struct {
	Index      int
	Category   string
	Filename   string
	LineNumber int
	Trash      bool
}

// Result is the outcome of one instruction.
type Result struct {
	Filename      string
	Source        string
	Destination   string
	Success       bool
	Error         string
	Trashed       bool
	FolderCreated bool
}

// Stats summarizes a batch of moves.
type Stats struct {
	Total          int
	Moved          int
	Trashed        int
	FoldersCreated []string
	Errors         []MoveError
}

// MoveError pairs a filename with the reason its move failed.
type MoveError struct {
	Filename string
	Reason   string
}

// Supported line formats:
//
//	1. Tech - 20240115-article.md
//	Tech - article.md  # optional comment
//	TRASH - duplicate.md
var instructionLine = regexp.MustCompile(`^\s*(?:(\d+)\.\s+)?([A-Za-z0-9_-]+)\s*-\s*(\S+\.md)\s*(?:#.*)?$`)

// ParseCategorizationFile parses content into instructions. Blank lines
// and lines starting with # are skipped; lines that do not match the
// format are silently ignored.
func ParseCategorizationFile(content string) []Instruction {
	var instructions []Instruction
	for lineNum, line := range strings.Split(content, "\n") {
		lineNum++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		match := instructionLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		index := lineNum
		if match[1] != "" {
			index, _ = strconv.Atoi(match[1])
		}
		category := match[2]
		instructions = append(instructions, Instruction{
			Index:      index,
			Category:   category,
			Filename:   match[3],
			LineNumber: lineNum,
			Trash:      strings.EqualFold(category, TrashCategory),
		})
	}
	return instructions
}

// Categories returns the unique non-trash category names, sorted.
func Categories(instructions []Instruction) []string {
	seen := map[string]bool{}
	for _, in := range instructions {
		if !in.Trash {
			seen[in.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// FindSuspiciousCategories maps each new category name to the closest
// existing folder within maxDistance edits. Exact matches are not
// suspicious. Ties go to the lexicographically smallest folder, which
// keeps the report deterministic.
func FindSuspiciousCategories(newCategories, existingFolders []string, maxDistance int) map[string]string {
	existing := map[string]bool{}
	for _, f := range existingFolders {
		existing[f] = true
	}
	sorted := append([]string(nil), existingFolders...)
	sort.Strings(sorted)

	suspicious := map[string]string{}
	for _, category := range newCategories {
		if existing[category] {
			continue
		}
		bestDist := maxDistance + 1
		best := ""
		for _, folder := range sorted {
			if dist := levenshtein.ComputeDistance(category, folder); dist < bestDist {
				bestDist = dist
				best = folder
			}
		}
		if best != "" {
			suspicious[category] = best
		}
	}
	return suspicious
}

// Trasher disposes of a file flagged for removal.
type Trasher interface {
	Trash(path string) error
}

// deleteTrasher removes files outright. The vault cache still remembers
// the article, so nothing is lost that the pipeline relied on.
type deleteTrasher struct{}

func (deleteTrasher) Trash(path string) error { return os.Remove(path) }

// DefaultTrasher returns the standard file disposer.
func DefaultTrasher() Trasher { return deleteTrasher{} }

// Options controls a batch execution.
type Options struct {
	DryRun        bool
	CreateFolders bool
	Trasher       Trasher
}

// Execute runs one instruction against sourceDir.
func Execute(in Instruction, sourceDir string, opts Options) Result {
	result := Result{
		Filename: in.Filename,
		Source:   filepath.Join(sourceDir, in.Filename),
	}
	if _, err := os.Stat(result.Source); err != nil {
		result.Error = "file not found"
		return result
	}

	if in.Trash {
		trasher := opts.Trasher
		if trasher == nil {
			trasher = DefaultTrasher()
		}
		if err := trasher.Trash(result.Source); err != nil {
			result.Error = fmt.Sprintf("trash failed: %v", err)
			return result
		}
		result.Success = true
		result.Trashed = true
		return result
	}

	destFolder := filepath.Join(sourceDir, in.Category)
	if info, err := os.Stat(destFolder); err != nil {
		if !opts.CreateFolders {
			result.Error = fmt.Sprintf("folder does not exist: %s", in.Category)
			return result
		}
		if err := os.MkdirAll(destFolder, 0o755); err != nil {
			result.Error = fmt.Sprintf("create folder failed: %v", err)
			return result
		}
		result.FolderCreated = true
	} else if !info.IsDir() {
		result.Error = fmt.Sprintf("destination is not a directory: %s", in.Category)
		return result
	}

	result.Destination = filepath.Join(destFolder, in.Filename)
	if _, err := os.Stat(result.Destination); err == nil {
		result.Error = "destination file already exists"
		return result
	}
	if err := os.Rename(result.Source, result.Destination); err != nil {
		result.Error = fmt.Sprintf("move failed: %v", err)
		return result
	}
	result.Success = true
	return result
}

// ExecuteAll runs every instruction and aggregates the outcome. In dry
// run mode it validates each instruction without touching the
// filesystem, tracking folders a real run would have created.
func ExecuteAll(instructions []Instruction, sourceDir string, opts Options) Stats {
	stats := Stats{Total: len(instructions)}
	created := map[string]bool{}

	for _, in := range instructions {
		if opts.DryRun {
			source := filepath.Join(sourceDir, in.Filename)
			if _, err := os.Stat(source); err != nil {
				stats.Errors = append(stats.Errors, MoveError{in.Filename, "file not found"})
				continue
			}
			if in.Trash {
				stats.Trashed++
				continue
			}
			destFolder := filepath.Join(sourceDir, in.Category)
			info, err := os.Stat(destFolder)
			if err != nil && !created[in.Category] {
				if !opts.CreateFolders {
					stats.Errors = append(stats.Errors, MoveError{in.Filename, fmt.Sprintf("folder does not exist: %s", in.Category)})
					continue
				}
				created[in.Category] = true
				stats.FoldersCreated = append(stats.FoldersCreated, in.Category)
			} else if err == nil && !info.IsDir() {
				stats.Errors = append(stats.Errors, MoveError{in.Filename, fmt.Sprintf("destination is not a directory: %s", in.Category)})
				continue
			}
			if _, err := os.Stat(filepath.Join(destFolder, in.Filename)); err == nil {
				stats.Errors = append(stats.Errors, MoveError{in.Filename, "destination file already exists"})
				continue
			}
			stats.Moved++
			continue
		}

		result := Execute(in, sourceDir, opts)
		if !result.Success {
			stats.Errors = append(stats.Errors, MoveError{in.Filename, result.Error})
			continue
		}
		if result.Trashed {
			stats.Trashed++
			continue
		}
		stats.Moved++
		if result.FolderCreated && !created[in.Category] {
			created[in.Category] = true
			stats.FoldersCreated = append(stats.FoldersCreated, in.Category)
		}
	}
	return stats
}
