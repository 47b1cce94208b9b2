package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/cli"
	"github.com/sgx-labs/clipvault/internal/config"
	"github.com/sgx-labs/clipvault/internal/doctor"
)

func doctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check system health: config, vault, cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func runDoctor(jsonOut bool) error {
	report := doctor.Run(config.ConfigOverride)

	if jsonOut {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		if !report.OK() {
			return fmt.Errorf("%d check(s) failed", report.Failed)
		}
		return nil
	}

	fmt.Printf("\n%sclipvault Health Check%s\n\n", cli.Bold, cli.Reset)
	for _, check := range report.Checks {
		if check.Status == "pass" {
			if check.Message != "" {
				fmt.Printf("  %s✓%s %s (%s)\n", cli.Green, cli.Reset, check.Name, check.Message)
			} else {
				fmt.Printf("  %s✓%s %s\n", cli.Green, cli.Reset, check.Name)
			}
			continue
		}
		fmt.Printf("  %s✗%s %s: %s\n", cli.Red, cli.Reset, check.Name, check.Message)
		if check.Hint != "" {
			fmt.Printf("    → %s\n", check.Hint)
		}
	}
	fmt.Printf("\n  %d passed, %d failed\n\n", report.Passed, report.Failed)

	if !report.OK() {
		return fmt.Errorf("%d check(s) failed", report.Failed)
	}
	return nil
}
