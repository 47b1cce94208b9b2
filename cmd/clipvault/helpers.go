package main

import (
	"errors"
	"fmt"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/config"
	"github.com/sgx-labs/clipvault/internal/sanitize"
)

// loadVaultConfig resolves the effective config and the vault root.
func loadVaultConfig() (*config.Config, string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}
	root := config.VaultRoot(cfg)
	if root == "" {
		return nil, "", config.ErrNoVault
	}
	return cfg, root, nil
}

// openCache loads the article cache for a vault, translating a corrupt
// cache file into an actionable message.
func openCache(cfg *config.Config, root string) (*cache.Cache, error) {
	removeParams := cfg.URLCleaning.RemoveParams
	normalize := func(u string) string {
		return sanitize.CleanURL(u, removeParams)
	}

	c, err := cache.Load(cfg.CachePath(root), normalize)
	if err != nil {
		var corrupt *cache.CorruptError
		if errors.As(err, &corrupt) {
			return nil, userError(
				fmt.Sprintf("Cache file is corrupt: %s", corrupt.Path),
				"run 'clipvault cache reset' to back it up and start fresh")
		}
		return nil, err
	}
	return c, nil
}
