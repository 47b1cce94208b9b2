package main

import (
	"github.com/spf13/cobra"

	"github.com/sgx-labs/clipvault/internal/preprocess"
	"github.com/sgx-labs/clipvault/internal/watcher"
)

func watchCmd() *cobra.Command {
	var opts preprocess.Options
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the vault and preprocess changed articles",
		Long:  "Monitor the vault filesystem for markdown changes. Modified or created articles run through the normalization pipeline with a 2-second debounce; deleted articles are soft-removed from the cache.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadVaultConfig()
			if err != nil {
				return err
			}
			c, err := openCache(cfg, root)
			if err != nil {
				return err
			}
			return watcher.Watch(root, cfg.Filter(), cfg.Pipeline(), c, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.NoURLClean, "no-url-clean", false, "Skip URL tracking-parameter removal")
	cmd.Flags().BoolVar(&opts.NoFilenameClean, "no-filename-clean", false, "Skip filename sanitization")
	cmd.Flags().BoolVar(&opts.NoDatePrefix, "no-date-prefix", false, "Skip date prefixing")
	cmd.Flags().BoolVar(&opts.NoFrontmatterFix, "no-frontmatter-fix", false, "Skip frontmatter repair")
	return cmd
}
