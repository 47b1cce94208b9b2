// Package doctor runs environment health checks for the CLI.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sgx-labs/clipvault/internal/cache"
	"github.com/sgx-labs/clipvault/internal/config"
	"github.com/sgx-labs/clipvault/internal/vault"
)

// Check is one health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "fail"
	Message string `json:"message,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Report is the complete set of checks.
type Report struct {
	Checks []Check `json:"checks"`
	Passed int     `json:"passed"`
	Failed int     `json:"failed"`
}

// OK reports whether every check passed.
func (r Report) OK() bool { return r.Failed == 0 }

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
	if c.Status == "pass" {
		r.Passed++
	} else {
		r.Failed++
	}
}

func pass(name, message string) Check {
	return Check{Name: name, Status: "pass", Message: message}
}

func fail(name, message, hint string) Check {
	return Check{Name: name, Status: "fail", Message: message, Hint: hint}
}

// Run executes the health checks in order: config parses, vault root
// resolves and exists, cache loads (or is absent), cache directory is
// writable, and the vault actually contains markdown files. Later checks
// still run when earlier ones fail, so one report shows everything wrong.
func Run(configPath string) Report {
	var report Report

	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		report.add(fail("config", err.Error(), "fix the TOML syntax or remove the file"))
		cfg = config.DefaultConfig()
	} else if configPath != "" {
		report.add(pass("config", configPath))
	} else {
		report.add(pass("config", "built-in defaults"))
	}

	root := config.VaultRoot(cfg)
	if root == "" {
		report.add(fail("vault", "no vault root configured",
			"run 'clipvault init' or set CLIPVAULT_VAULT"))
		return report
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		report.add(fail("vault", fmt.Sprintf("vault root %s is not a directory", root),
			"check the configured vault root"))
		return report
	}
	report.add(pass("vault", root))

	cachePath := cfg.CachePath(root)
	if _, err := cache.Load(cachePath, nil); err != nil {
		report.add(fail("cache", err.Error(), "run 'clipvault cache reset'"))
	} else {
		report.add(pass("cache", cachePath))
	}

	cacheDir := filepath.Dir(cachePath)
	if err := checkWritable(cacheDir); err != nil {
		report.add(fail("cache dir", err.Error(), "check directory permissions"))
	} else {
		report.add(pass("cache dir", cacheDir+" is writable"))
	}

	files, err := vault.Discover(root, cfg.Filter(), false)
	switch {
	case err != nil:
		report.add(fail("articles", err.Error(), ""))
	case len(files) == 0:
		report.add(fail("articles", "no markdown files found",
			"check exclude_patterns, or clip something first"))
	default:
		report.add(pass("articles", fmt.Sprintf("%d markdown files", len(files))))
	}

	return report
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".clipvault_write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}
