package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/cli"
	"github.com/sgx-labs/clipvault/internal/config"
	"github.com/sgx-labs/clipvault/internal/vault"
)

func initCmd() *cobra.Command {
	var (
		name       string
		setDefault bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Set up a vault for clipvault",
		Long:  "Writes a commented .clipvault/config.toml into the vault and registers the vault so other commands find it without flags.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(path, name, setDefault)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Register the vault under this alias (defaults to the directory name)")
	cmd.Flags().BoolVar(&setDefault, "default", false, "Make this vault the default")
	return cmd
}

func runInit(path, name string, setDefault bool) error {
	root, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	cli.Banner(Version)

	configPath := config.ConfigFilePath(root)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("  Config already exists: %s\n", cli.ShortenHome(configPath))
	} else {
		if err := config.GenerateConfig(root); err != nil {
			return err
		}
		fmt.Printf("  Wrote %s\n", cli.ShortenHome(configPath))
	}

	if name == "" {
		name = filepath.Base(root)
	}
	reg := config.LoadRegistry()
	reg.Register(name, root, setDefault)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	fmt.Printf("  Registered vault %q at %s\n", name, cli.ShortenHome(root))
	if reg.Default == name {
		fmt.Println("  Set as default vault.")
	}

	config.VaultOverride = root
	files, err := vault.Discover(root, config.DefaultConfig().Filter(), false)
	if err == nil {
		fmt.Printf("\n  Found %s markdown articles.\n", cli.FormatNumber(len(files)))
	}

	cli.Section("Next steps")
	cli.Box([]string{
		"clipvault preprocess --dry-run",
		"clipvault preprocess",
		"clipvault stats",
	})
	cli.Footer()
	return nil
}
