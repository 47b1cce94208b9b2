package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/cli"
	"github.com/sgx-labs/clipvault/internal/vault"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the article URL cache",
	}

	var jsonOut bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheShow(jsonOut)
		},
	}
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.AddCommand(showCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Soft-remove entries whose file is gone from the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClean()
		},
	})

	var hard bool
	removeCmd := &cobra.Command{
		Use:   "remove [url]",
		Short: "Remove the entry for a URL",
		Long:  "Soft-removes the entry so the URL is still recognized if re-clipped. With --hard the entry is deleted outright and the URL is treated as never seen.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheRemove(args[0], hard)
		},
	}
	removeCmd.Flags().BoolVar(&hard, "hard", false, "Delete the entry instead of soft-removing it")
	cmd.AddCommand(removeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Back up the cache file and start fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheReset()
		},
	})

	return cmd
}

func runCacheShow(jsonOut bool) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}
	c, err := openCache(cfg, root)
	if err != nil {
		return err
	}

	if jsonOut {
		data, _ := json.MarshalIndent(c, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("\nCache: %s\n", cli.ShortenHome(cfg.CachePath(root)))
	fmt.Printf("  %s active, %d removed\n\n",
		cli.FormatNumber(c.ActiveCount()), len(c.Entries)-c.ActiveCount())

	for _, url := range sortedURLs(c.Entries) {
		e := c.Entries[url]
		status := ""
		if e.Removed {
			status = fmt.Sprintf(" %s(removed %s)%s", cli.Dim, e.RemovedAt, cli.Reset)
		}
		location := e.Filename
		if e.Folder != "" {
			location = filepath.Join(e.Folder, e.Filename)
		}
		fmt.Printf("  %s\n    %s%s\n", url, location, status)
	}
	fmt.Println()
	return nil
}

func runCacheClean() error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}
	c, err := openCache(cfg, root)
	if err != nil {
		return err
	}

	files, err := vault.Discover(root, cfg.Filter(), true)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(files))
	for _, f := range files {
		existing[filepath.Base(f)] = true
	}

	marked := c.Clean(existing)
	if err := c.Save(); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	fmt.Printf("Marked %d entries as removed.\n", marked)
	return nil
}

func runCacheRemove(url string, hard bool) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}
	c, err := openCache(cfg, root)
	if err != nil {
		return err
	}

	var ok bool
	if hard {
		ok = c.Remove(url)
	} else {
		ok = c.MarkRemoved(url)
	}
	if !ok {
		return fmt.Errorf("no cache entry for %s", url)
	}
	if err := c.Save(); err != nil {
		return fmt.Errorf("save cache: %w", err)
	}
	if hard {
		fmt.Printf("Deleted %s\n", url)
	} else {
		fmt.Printf("Removed %s\n", url)
	}
	return nil
}

func runCacheReset() error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}

	cachePath := cfg.CachePath(root)
	if data, err := os.ReadFile(cachePath); err == nil {
		bakPath := cachePath + ".bak"
		if err := os.WriteFile(bakPath, data, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Printf("Backup saved to %s\n", cli.ShortenHome(bakPath))
		if err := os.Remove(cachePath); err != nil {
			return fmt.Errorf("remove cache: %w", err)
		}
	} else {
		fmt.Println("No cache file to reset.")
		return nil
	}

	fmt.Println("Cache reset. The next preprocess run rebuilds it.")
	return nil
}

func sortedURLs(entries map[string]*cache.Entry) []string {
	urls := make([]string, 0, len(entries))
	for url := range entries {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}
