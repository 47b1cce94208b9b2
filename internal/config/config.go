// Package config provides configuration for the clipvault binary.
// Loads from: CLI flags > env vars > .clipvault/config.toml > built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sgx-labs/clipvault/internal/dates"
	"github.com/sgx-labs/clipvault/internal/fingerprint"
	"github.com/sgx-labs/clipvault/internal/note"
	"github.com/sgx-labs/clipvault/internal/preprocess"
	"github.com/sgx-labs/clipvault/internal/sanitize"
	"github.com/sgx-labs/clipvault/internal/stats"
	"github.com/sgx-labs/clipvault/internal/vault"
)

// Config holds all clipvault configuration, loaded from TOML + env + flags.
type Config struct {
	Vault       VaultConfig       `toml:"vault"`
	Frontmatter FrontmatterConfig `toml:"frontmatter"`
	Dates       DatesConfig       `toml:"dates"`
	URLCleaning URLCleaningConfig `toml:"url_cleaning"`
	Filenames   FilenamesConfig   `toml:"filenames"`
	Folders     FoldersConfig     `toml:"folders"`
	Cache       CacheConfig       `toml:"cache"`
}

// VaultConfig holds vault location and discovery settings.
type VaultConfig struct {
	Root            string   `toml:"root"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	IgnoreFiles     []string `toml:"ignore_files"`
}

// FrontmatterConfig lists the accepted field names per concept, tried in
// order.
type FrontmatterConfig struct {
	SourceURL     []string `toml:"source_url"`
	Title         []string `toml:"title"`
	PublishedDate []string `toml:"published_date"`
	ClippedDate   []string `toml:"clipped_date"`
	Author        []string `toml:"author"`
	Description   []string `toml:"description"`
}

// DatesConfig holds date parsing and prefixing settings.
type DatesConfig struct {
	InputFormats       []string `toml:"input_formats"`
	OutputFormat       string   `toml:"output_format"`
	PrefixPriority     []string `toml:"prefix_priority"`
	ExtractFromContent bool     `toml:"extract_from_content"`
	ContentPatterns    []string `toml:"content_patterns"`
}

// URLCleaningConfig holds URL normalization settings.
type URLCleaningConfig struct {
	RemoveParams []string `toml:"remove_params"`
}

// FilenamesConfig holds filename sanitization settings.
type FilenamesConfig struct {
	Replacements     map[string]string `toml:"replacements"`
	UnicodeNormalize string            `toml:"unicode_normalize"`
	Lowercase        bool              `toml:"lowercase"`
	MaxLength        int               `toml:"max_length"`
	CollapseDashes   bool              `toml:"collapse_dashes"`
}

// FoldersConfig holds folder statistics thresholds. Zero disables a bound.
type FoldersConfig struct {
	WarnBelow int `toml:"warn_below"`
	WarnAbove int `toml:"warn_above"`
}

// CacheConfig holds article cache settings.
type CacheConfig struct {
	Path             string `toml:"path"`
	HashLength       int    `toml:"hash_length"`
	TrackURLs        bool   `toml:"track_urls"`
	TrackContentHash bool   `toml:"track_content_hash"`
}

// DefaultConfig returns a Config with all built-in defaults.
func DefaultConfig() *Config {
	filter := vault.DefaultFilter()
	aliases := note.DefaultFieldAliases()
	dc := dates.DefaultConfig()
	fc := sanitize.DefaultFilenameConfig()
	return &Config{
		Vault: VaultConfig{
			ExcludePatterns: filter.ExcludePatterns,
			IgnoreFiles:     filter.IgnoreFiles,
		},
		Frontmatter: FrontmatterConfig{
			SourceURL:     aliases.SourceURL,
			Title:         aliases.Title,
			PublishedDate: aliases.PublishedDate,
			ClippedDate:   aliases.ClippedDate,
			Author:        aliases.Author,
			Description:   aliases.Description,
		},
		Dates: DatesConfig{
			InputFormats:       dc.InputFormats,
			OutputFormat:       dc.OutputFormat,
			PrefixPriority:     dc.PrefixPriority,
			ExtractFromContent: dc.ExtractFromContent,
			ContentPatterns:    dc.ContentPatterns,
		},
		URLCleaning: URLCleaningConfig{
			RemoveParams: sanitize.DefaultRemoveParams(),
		},
		Filenames: FilenamesConfig{
			Replacements:     fc.Replacements,
			UnicodeNormalize: fc.UnicodeNormalize,
			Lowercase:        fc.Lowercase,
			MaxLength:        fc.MaxLength,
			CollapseDashes:   fc.CollapseDashes,
		},
		Folders: FoldersConfig{
			WarnBelow: 10,
			WarnAbove: 45,
		},
		Cache: CacheConfig{
			Path:             filepath.Join(".clipvault", "cache.json"),
			HashLength:       fingerprint.DefaultLength,
			TrackURLs:        true,
			TrackContentHash: true,
		},
	}
}

// VaultOverride is set by the --vault global flag.
var VaultOverride string

// ConfigOverride is set by the --config global flag.
var ConfigOverride string

// ErrNoVault is returned when no vault root can be resolved.
var ErrNoVault = fmt.Errorf("no vault found — run 'clipvault init' or set CLIPVAULT_VAULT")

// LoadConfig merges all configuration sources: defaults < TOML file < env
// vars. The --vault flag is handled separately by VaultRoot.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(findConfigFile())
}

// LoadConfigFrom loads configuration from a specific file path, merging
// with defaults and env vars. An empty or missing path keeps the defaults.
func LoadConfigFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			meta, err := toml.DecodeFile(configPath, cfg)
			if err != nil {
				return nil, fmt.Errorf("parse config %s: %w", configPath, err)
			}
			warnUnknownKeys(meta, configPath)
		}
	}

	if v := os.Getenv("CLIPVAULT_VAULT"); v != "" {
		cfg.Vault.Root = v
	}
	if v := os.Getenv("CLIPVAULT_CACHE"); v != "" {
		cfg.Cache.Path = v
	}

	return cfg, nil
}

// findConfigFile looks for .clipvault/config.toml in the vault root, then
// the CWD, then $XDG_CONFIG_HOME/clipvault. The --config flag wins.
func findConfigFile() string {
	if ConfigOverride != "" {
		return ConfigOverride
	}
	if vr := resolveVaultForConfig(); vr != "" {
		p := filepath.Join(vr, ".clipvault", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, ".clipvault", "config.toml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	p := filepath.Join(userConfigDir(), "config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// resolveVaultForConfig resolves the vault root for config-file lookup
// without consulting the config file itself.
func resolveVaultForConfig() string {
	if VaultOverride != "" {
		reg := LoadRegistry()
		if resolved := reg.Resolve(VaultOverride); resolved != "" {
			return resolved
		}
		return VaultOverride
	}
	if v := os.Getenv("CLIPVAULT_VAULT"); v != "" {
		return v
	}
	return ""
}

// userConfigDir returns the clipvault directory under XDG config.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "clipvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "clipvault")
}

// configSuggestions maps common wrong keys to the correct TOML key name.
var configSuggestions = map[string]string{
	"exclude_folders": "exclude_patterns",
	"excludes":        "exclude_patterns",
	"ignore":          "ignore_files",
	"ignored_files":   "ignore_files",
	"source":          "source_url",
	"url":             "source_url",
	"strip_params":    "remove_params",
	"tracking_params": "remove_params",
	"date_formats":    "input_formats",
	"hash_len":        "hash_length",
	"min_articles":    "warn_below",
	"max_articles":    "warn_above",
}

// warnUnknownKeys prints warnings for unrecognized config keys.
func warnUnknownKeys(meta toml.MetaData, configPath string) {
	undecoded := meta.Undecoded()
	if len(undecoded) == 0 {
		return
	}
	fname := filepath.Base(configPath)
	for _, key := range undecoded {
		keyStr := key.String()
		lastPart := key[len(key)-1]
		if suggestion, ok := configSuggestions[lastPart]; ok {
			fmt.Fprintf(os.Stderr, "clipvault: WARNING: unknown key %q in %s — did you mean %q?\n",
				keyStr, fname, suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "clipvault: WARNING: unknown key %q in %s (will be ignored)\n",
				keyStr, fname)
		}
	}
}

// VaultMarkers are dotfiles/directories that indicate a vault root.
// Checked in priority order: clipvault's own marker first, then common
// note tools.
var VaultMarkers = []string{".clipvault", ".obsidian", ".logseq", ".foam"}

// VaultRoot resolves the vault root directory: --vault flag (alias or
// path) > CLIPVAULT_VAULT > config file > marker auto-detection in the
// CWD > registry default. Empty means no vault could be found.
func VaultRoot(cfg *Config) string {
	if VaultOverride != "" {
		reg := LoadRegistry()
		if resolved := reg.Resolve(VaultOverride); resolved != "" {
			return resolved
		}
		return VaultOverride
	}
	if v := os.Getenv("CLIPVAULT_VAULT"); v != "" {
		return v
	}
	if cfg != nil && cfg.Vault.Root != "" {
		return cfg.Vault.Root
	}
	if cwd, err := os.Getwd(); err == nil {
		for _, marker := range VaultMarkers {
			if _, err := os.Stat(filepath.Join(cwd, marker)); err == nil {
				return cwd
			}
		}
	}
	reg := LoadRegistry()
	if reg.Default != "" {
		if p, ok := reg.Vaults[reg.Default]; ok {
			return p
		}
	}
	return ""
}

// CachePath resolves the cache file location. Relative paths anchor at
// the vault root.
func (c *Config) CachePath(vaultRoot string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(vaultRoot, c.Cache.Path)
}

// Filter returns the discovery filter for this configuration.
func (c *Config) Filter() vault.Filter {
	return vault.Filter{
		ExcludePatterns: c.Vault.ExcludePatterns,
		IgnoreFiles:     c.Vault.IgnoreFiles,
	}
}

// Aliases returns the frontmatter field aliases for this configuration.
func (c *Config) Aliases() note.FieldAliases {
	return note.FieldAliases{
		SourceURL:     c.Frontmatter.SourceURL,
		Title:         c.Frontmatter.Title,
		PublishedDate: c.Frontmatter.PublishedDate,
		ClippedDate:   c.Frontmatter.ClippedDate,
		Author:        c.Frontmatter.Author,
		Description:   c.Frontmatter.Description,
	}
}

// DateResolver returns the date resolution settings.
func (c *Config) DateResolver() dates.Config {
	return dates.Config{
		InputFormats:       c.Dates.InputFormats,
		OutputFormat:       c.Dates.OutputFormat,
		PrefixPriority:     c.Dates.PrefixPriority,
		ExtractFromContent: c.Dates.ExtractFromContent,
		ContentPatterns:    c.Dates.ContentPatterns,
	}
}

// FilenameRules returns the filename sanitization settings.
func (c *Config) FilenameRules() sanitize.FilenameConfig {
	return sanitize.FilenameConfig{
		Replacements:     c.Filenames.Replacements,
		UnicodeNormalize: c.Filenames.UnicodeNormalize,
		Lowercase:        c.Filenames.Lowercase,
		MaxLength:        c.Filenames.MaxLength,
		CollapseDashes:   c.Filenames.CollapseDashes,
	}
}

// Pipeline returns the preprocessing pipeline settings.
func (c *Config) Pipeline() preprocess.Config {
	return preprocess.Config{
		Aliases:          c.Aliases(),
		Dates:            c.DateResolver(),
		Filename:         c.FilenameRules(),
		RemoveParams:     c.URLCleaning.RemoveParams,
		HashLength:       c.Cache.HashLength,
		TrackURLs:        c.Cache.TrackURLs,
		TrackContentHash: c.Cache.TrackContentHash,
	}
}

// Thresholds returns the folder statistics thresholds.
func (c *Config) Thresholds() stats.Thresholds {
	return stats.Thresholds{
		WarnBelow: c.Folders.WarnBelow,
		WarnAbove: c.Folders.WarnAbove,
	}
}

// ConfigFilePath returns where the config file lives for a vault root.
func ConfigFilePath(vaultRoot string) string {
	return filepath.Join(vaultRoot, ".clipvault", "config.toml")
}

// GenerateConfig writes a commented starter .clipvault/config.toml.
func GenerateConfig(vaultRoot string) error {
	configPath := ConfigFilePath(vaultRoot)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(configPath, []byte(starterTOML(vaultRoot)), 0o600)
}

func starterTOML(vaultRoot string) string {
	var b strings.Builder
	b.WriteString("# clipvault configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Priority: CLI flags > environment variables > this file > built-in defaults\n")
	b.WriteString("# Environment variables: CLIPVAULT_VAULT, CLIPVAULT_CACHE\n\n")

	b.WriteString("[vault]\n")
	if vaultRoot != "" {
		fmt.Fprintf(&b, "root = %q\n", vaultRoot)
	} else {
		b.WriteString("# root = \"/path/to/your/articles\"  # auto-detected if unset\n")
	}
	b.WriteString("# exclude_patterns = [\"0-*\", \".*\", \"_*\"]\n")
	b.WriteString("# ignore_files = [\"README.md\", \"CLAUDE.md\"]\n\n")

	b.WriteString("[frontmatter]\n")
	b.WriteString("# source_url = [\"source\", \"url\", \"link\", \"original_url\", \"clip_url\"]\n")
	b.WriteString("# published_date = [\"published\", \"date\", \"publish_date\"]\n\n")

	b.WriteString("[dates]\n")
	b.WriteString("output_format = \"20060102\"\n")
	b.WriteString("extract_from_content = true\n")
	b.WriteString("# prefix_priority = [\"published\", \"clipped\", \"created\"]\n\n")

	b.WriteString("[url_cleaning]\n")
	b.WriteString("# remove_params = [\"utm_source\", \"utm_medium\", \"fbclid\", \"gclid\", \"ref\", \"source\"]\n\n")

	b.WriteString("[filenames]\n")
	b.WriteString("unicode_normalize = \"NFD\"\n")
	b.WriteString("lowercase = false\n")
	b.WriteString("max_length = 100\n\n")

	b.WriteString("[folders]\n")
	b.WriteString("warn_below = 10\n")
	b.WriteString("warn_above = 45\n\n")

	b.WriteString("[cache]\n")
	b.WriteString("path = \".clipvault/cache.json\"\n")
	b.WriteString("hash_length = 16\n")
	b.WriteString("track_urls = true\n")
	b.WriteString("track_content_hash = true\n")

	return b.String()
}
