package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Registry holds registered vault roots by alias so `--vault work` can
// stand in for a full path.
type Registry struct {
	Vaults  map[string]string `json:"vaults"`
	Default string            `json:"default"`
}

// RegistryPath returns the path to the vault registry file.
func RegistryPath() string {
	return filepath.Join(userConfigDir(), "vaults.json")
}

// LoadRegistry loads the registry, returning an empty one on any error.
func LoadRegistry() *Registry {
	data, err := os.ReadFile(RegistryPath())
	if err != nil {
		return &Registry{Vaults: make(map[string]string)}
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return &Registry{Vaults: make(map[string]string)}
	}
	if reg.Vaults == nil {
		reg.Vaults = make(map[string]string)
	}
	return &reg
}

// Save writes the registry to disk. A lockfile guards against concurrent
// clipvault processes clobbering each other's registration.
func (r *Registry) Save() error {
	path := RegistryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	unlock, err := acquireFileLock(path + ".lock")
	if err != nil {
		// Best effort when the lock cannot be held.
		return os.WriteFile(path, data, 0o600)
	}
	defer unlock()
	return os.WriteFile(path, data, 0o600)
}

// Register records alias -> root and optionally makes it the default.
func (r *Registry) Register(alias, root string, makeDefault bool) {
	r.Vaults[alias] = root
	if makeDefault || r.Default == "" {
		r.Default = alias
	}
}

// Resolve maps a vault alias to its root. Returns empty when the alias is
// unknown; a value that is itself an existing directory passes through.
func (r *Registry) Resolve(alias string) string {
	if p, ok := r.Vaults[alias]; ok {
		return p
	}
	if info, err := os.Stat(alias); err == nil && info.IsDir() {
		return alias
	}
	return ""
}

// acquireFileLock creates a lockfile using O_EXCL for atomic creation.
// Stale locks older than 10 seconds are broken.
func acquireFileLock(lockPath string) (func(), error) {
	const maxRetries = 20
	const retryDelay = 50 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		if info, statErr := os.Stat(lockPath); statErr == nil {
			if time.Since(info.ModTime()) > 10*time.Second {
				os.Remove(lockPath)
				continue
			}
		}
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("could not acquire lock on %s", lockPath)
}
