package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/stats"
)

func statsCmd() *cobra.Command {
	var (
		format         string
		includeSpecial bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-folder article counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(format, includeSpecial)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, or yaml")
	cmd.Flags().BoolVar(&includeSpecial, "include-special", false, "Count excluded folders too")
	return cmd
}

func runStats(format string, includeSpecial bool) error {
	cfg, root, err := loadVaultConfig()
	if err != nil {
		return err
	}

	s, err := stats.Collect(root, cfg.Filter(), cfg.Thresholds(), includeSpecial)
	if err != nil {
		return err
	}

	switch format {
	case "table":
		fmt.Println(stats.RenderTable(s))
	case "json":
		out, err := stats.RenderJSON(s)
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "yaml":
		out, err := stats.RenderYAML(s)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		return fmt.Errorf("unknown format %q (use table, json, or yaml)", format)
	}
	return nil
}
