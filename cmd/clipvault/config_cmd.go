package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/config"
)

func configSubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage clipvault configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print path to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, root, err := loadVaultConfig()
			if err != nil {
				return err
			}
			fmt.Println(config.ConfigFilePath(root))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, root, err := loadVaultConfig()
			if err != nil {
				return err
			}
			configPath := config.ConfigFilePath(root)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Println("No config file found. Generating default...")
				if err := config.GenerateConfig(root); err != nil {
					return err
				}
			}
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = "vi"
			}
			fmt.Printf("Opening %s in %s...\n", configPath, editor)
			return runEditor(editor, configPath)
		},
	})

	return cmd
}

func runEditor(editor, path string) error {
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
