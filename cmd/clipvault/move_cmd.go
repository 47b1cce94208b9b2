package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/cli"
	"github.com/sgx-labs/clipvault/internal/mover"
	"github.com/sgx-labs/clipvault/internal/vault"
)

func moveCmd() *cobra.Command {
	var (
		dryRun        bool
		force         bool
		noCreate      bool
		noCacheUpdate bool
	)
	cmd := &cobra.Command{
		Use:   "move [categorization-file]",
		Short: "File articles into folders per a categorization list",
		Long: `Reads a plain-text categorization file and moves each listed article
from the vault root into its category folder. Lines look like:

  1. Tech - 20240115-some-article.md
  Life-Tips - another-article.md
  TRASH - duplicate.md

Category names that look like typos of existing folders (within two
edits) abort the run unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(args[0], dryRun, force, noCreate, noCacheUpdate)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate moves without touching any file")
	cmd.Flags().BoolVar(&force, "force", false, "Proceed even when category names look like typos")
	cmd.Flags().BoolVar(&noCreate, "no-create-folders", false, "Fail moves into folders that do not exist")
	cmd.Flags().BoolVar(&noCacheUpdate, "no-cache-update", false, "Skip updating the article cache after moves")
	return cmd
}

func runMove(listPath string, dryRun, force, noCreate, noCacheUpdate bool) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(listPath)
	if err != nil {
		return fmt.Errorf("read categorization file: %w", err)
	}

	instructions := mover.ParseCategorizationFile(string(content))
	if len(instructions) == 0 {
		fmt.Println("No instructions found.")
		return nil
	}

	folders, err := vault.Folders(root, cfg.Filter())
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}

	suspicious := mover.FindSuspiciousCategories(mover.Categories(instructions), folders, 2)
	if len(suspicious) > 0 && !force {
		fmt.Printf("%sPossible category typos:%s\n", cli.Yellow, cli.Reset)
		names := make([]string, 0, len(suspicious))
		for name := range suspicious {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %q is close to existing folder %q\n", name, suspicious[name])
		}
		if !confirm("Proceed anyway?") {
			return fmt.Errorf("aborted")
		}
	}

	opts := mover.Options{
		DryRun:        dryRun,
		CreateFolders: !noCreate,
	}
	stats := mover.ExecuteAll(instructions, root, opts)

	if dryRun {
		fmt.Printf("\nDry run: %d would move, %d would be trashed", stats.Moved, stats.Trashed)
	} else {
		fmt.Printf("\nMoved %d, trashed %d", stats.Moved, stats.Trashed)
	}
	if len(stats.FoldersCreated) > 0 {
		fmt.Printf(", created folders: %s", strings.Join(stats.FoldersCreated, ", "))
	}
	fmt.Println()

	for _, me := range stats.Errors {
		fmt.Printf("  %s✗%s %s: %s\n", cli.Red, cli.Reset, me.Filename, me.Reason)
	}

	if !dryRun && !noCacheUpdate {
		c, err := openCache(cfg, root)
		if err != nil {
			return err
		}
		mover.UpdateCache(c, instructions, root, cfg.Frontmatter.SourceURL)
		if err := c.Save(); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
	}

	if len(stats.Errors) > 0 {
		return fmt.Errorf("%d move(s) failed", len(stats.Errors))
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
