package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/cli"
	"github.com/sgx-labs/clipvault/internal/preprocess"
	"github.com/sgx-labs/clipvault/internal/repair"
)

func preprocessCmd() *cobra.Command {
	var opts preprocess.Options
	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Normalize every article in the vault",
		Long: `Runs the full normalization pipeline over the vault:

  1. Repair malformed frontmatter (wikilinks, unclosed quotes, bare colons)
  2. Strip tracking parameters from source URLs
  3. Add a YYYYMMDD- date prefix to filenames
  4. Sanitize filenames (unicode, separators, length)
  5. Record every article in the URL cache
  6. Report duplicate articles

Running it twice in a row changes nothing the second time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(opts)
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without touching any file")
	cmd.Flags().BoolVar(&opts.NoURLClean, "no-url-clean", false, "Skip URL tracking-parameter removal")
	cmd.Flags().BoolVar(&opts.NoFilenameClean, "no-filename-clean", false, "Skip filename sanitization")
	cmd.Flags().BoolVar(&opts.NoDatePrefix, "no-date-prefix", false, "Skip date prefixing")
	cmd.Flags().BoolVar(&opts.NoFrontmatterFix, "no-frontmatter-fix", false, "Skip frontmatter repair")
	cmd.Flags().BoolVar(&opts.NoDedupe, "no-dedupe", false, "Skip duplicate detection")
	return cmd
}

func runPreprocess(opts preprocess.Options) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}
	c, err := openCache(cfg, root)
	if err != nil {
		return err
	}

	if opts.DryRun {
		cli.Header("Preprocess (dry run)")
	} else {
		cli.Header("Preprocess")
	}
	fmt.Printf("\n  Vault: %s\n\n", cli.ShortenHome(root))

	stats, err := preprocess.Directory(root, cfg.Filter(), cfg.Pipeline(), c, opts)
	if err != nil {
		return err
	}

	fmt.Printf("  Scanned:            %s articles\n", cli.FormatNumber(stats.Scanned))
	fmt.Printf("  Frontmatter fixed:  %d\n", stats.FrontmatterFixed)
	for _, kind := range sortedKinds(stats.FixCounts) {
		fmt.Printf("    %-18s%d\n", string(kind)+":", stats.FixCounts[kind])
	}
	fmt.Printf("  URLs cleaned:       %d\n", stats.URLsCleaned)
	fmt.Printf("  Files renamed:      %d\n", stats.FilenamesRenamed)
	fmt.Printf("  Dates prefixed:     %d", stats.DatePrefixesAdded)
	if stats.DatePrefixesAdded > 0 {
		fmt.Printf(" (%d from frontmatter, %d from content)",
			stats.DateFromFrontmatter, stats.DateFromContent)
	}
	fmt.Println()

	if !opts.NoDedupe {
		fmt.Printf("  Duplicate groups:   %d\n", len(stats.DuplicateGroups))
		for _, g := range stats.DuplicateGroups {
			fmt.Printf("    %s%s%s\n", cli.Yellow, g.Key, cli.Reset)
			for _, f := range g.Files {
				fmt.Printf("      %s\n", f)
			}
		}
	}

	if len(stats.Errors) > 0 {
		fmt.Printf("\n  %s%d file(s) failed:%s\n", cli.Red, len(stats.Errors), cli.Reset)
		for _, fe := range stats.Errors {
			fmt.Printf("    %s: %s\n", fe.Path, fe.Reason)
		}
	}

	if !opts.DryRun {
		if err := c.Save(); err != nil {
			return fmt.Errorf("save cache: %w", err)
		}
		fmt.Printf("\n  Cache: %d active entries\n", c.ActiveCount())
	}

	cli.Footer()
	if len(stats.Errors) > 0 {
		return fmt.Errorf("%d file(s) failed", len(stats.Errors))
	}
	return nil
}

func sortedKinds(m map[repair.Kind]int) []repair.Kind {
	keys := make([]repair.Kind, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
