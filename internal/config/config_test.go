package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cache.Path != filepath.Join(".clipvault", "cache.json") {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
	if cfg.Cache.HashLength != 16 {
		t.Errorf("hash length = %d", cfg.Cache.HashLength)
	}
	if cfg.Folders.WarnBelow != 10 || cfg.Folders.WarnAbove != 45 {
		t.Errorf("thresholds = %+v", cfg.Folders)
	}
	if cfg.Frontmatter.SourceURL[0] != "source" {
		t.Errorf("source aliases = %v", cfg.Frontmatter.SourceURL)
	}
	if !cfg.Dates.ExtractFromContent {
		t.Error("content extraction disabled by default")
	}
}

func TestLoadConfigFromOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[vault]
root = "/srv/articles"
exclude_patterns = ["archive-*"]

[url_cleaning]
remove_params = ["utm_source"]

[folders]
warn_below = 3

[cache]
hash_length = 8
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Vault.Root != "/srv/articles" {
		t.Errorf("root = %q", cfg.Vault.Root)
	}
	if len(cfg.Vault.ExcludePatterns) != 1 || cfg.Vault.ExcludePatterns[0] != "archive-*" {
		t.Errorf("exclude patterns = %v", cfg.Vault.ExcludePatterns)
	}
	if len(cfg.URLCleaning.RemoveParams) != 1 {
		t.Errorf("remove params = %v", cfg.URLCleaning.RemoveParams)
	}
	if cfg.Folders.WarnBelow != 3 {
		t.Errorf("warn below = %d", cfg.Folders.WarnBelow)
	}
	if cfg.Cache.HashLength != 8 {
		t.Errorf("hash length = %d", cfg.Cache.HashLength)
	}
	// Untouched sections keep their defaults.
	if cfg.Folders.WarnAbove != 45 {
		t.Errorf("warn above = %d", cfg.Folders.WarnAbove)
	}
	if len(cfg.Frontmatter.Title) == 0 {
		t.Error("frontmatter defaults lost")
	}
}

func TestLoadConfigFromMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Cache.HashLength != 16 {
		t.Errorf("hash length = %d", cfg.Cache.HashLength)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[vault]\nroot = \"/from/file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLIPVAULT_VAULT", "/from/env")

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Vault.Root != "/from/env" {
		t.Errorf("root = %q, want env value", cfg.Vault.Root)
	}
}

func TestCachePathResolution(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.CachePath("/vault")
	if got != filepath.Join("/vault", ".clipvault", "cache.json") {
		t.Errorf("relative cache path = %q", got)
	}

	cfg.Cache.Path = "/absolute/cache.json"
	if cfg.CachePath("/vault") != "/absolute/cache.json" {
		t.Error("absolute cache path re-anchored")
	}
}

func TestGenerateConfigRoundTrips(t *testing.T) {
	root := t.TempDir()
	if err := GenerateConfig(root); err != nil {
		t.Fatalf("GenerateConfig: %v", err)
	}

	path := ConfigFilePath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[cache]") {
		t.Errorf("starter config:\n%s", data)
	}

	// The generated file must parse cleanly.
	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}
	if cfg.Vault.Root != root {
		t.Errorf("root = %q, want %q", cfg.Vault.Root, root)
	}
}

func TestRegistry(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	reg := LoadRegistry()
	if len(reg.Vaults) != 0 {
		t.Fatalf("fresh registry not empty: %+v", reg)
	}

	reg.Register("work", "/srv/work-vault", false)
	if reg.Default != "work" {
		t.Errorf("first registration should become default, got %q", reg.Default)
	}
	reg.Register("home", "/srv/home-vault", true)
	if reg.Default != "home" {
		t.Errorf("default = %q", reg.Default)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := LoadRegistry()
	if loaded.Resolve("work") != "/srv/work-vault" {
		t.Errorf("resolve work = %q", loaded.Resolve("work"))
	}
	if loaded.Default != "home" {
		t.Errorf("default = %q", loaded.Default)
	}
	if loaded.Resolve("missing") != "" {
		t.Error("unknown alias resolved")
	}
}
