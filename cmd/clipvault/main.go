// Package main is the entrypoint for the clipvault CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipvault",
		Short: "Keep a web clipping vault tidy",
		Long:  "clipvault — frontmatter repair, URL and filename normalization, duplicate detection, and categorized moves for markdown clipping vaults.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(preprocessCmd())
	root.AddCommand(duplicatesCmd())
	root.AddCommand(moveCmd())
	root.AddCommand(cacheCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(vaultCmd())
	root.AddCommand(configSubCmd())

	root.PersistentFlags().StringVar(&config.VaultOverride, "vault", "", "Vault name or path (overrides auto-detect)")
	root.PersistentFlags().StringVar(&config.ConfigOverride, "config", "", "Path to config.toml (overrides discovery)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clipvault version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("clipvault %s\n", Version)
			return nil
		},
	}
}

// ---------- error helpers ----------

type userFacingError struct {
	message string
	hint    string
}

func (e *userFacingError) Error() string {
	return fmt.Sprintf("%s\n  Hint: %s", e.message, e.hint)
}

func userError(message, hint string) error {
	return &userFacingError{message: message, hint: hint}
}
