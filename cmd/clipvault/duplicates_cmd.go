package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/preprocess"
)

func duplicatesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Find duplicate articles by URL, content hash, and filename",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDuplicates(format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or json")
	return cmd
}

func runDuplicates(format string) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}

	report, err := preprocess.ScanDuplicates(root, cfg.Filter(), cfg.Pipeline())
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		fmt.Println(preprocess.FormatDuplicatesMarkdown(report, root))
	case "json":
		out, err := preprocess.FormatDuplicatesJSON(report, root)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		return fmt.Errorf("unknown format %q (use markdown or json)", format)
	}
	return nil
}
