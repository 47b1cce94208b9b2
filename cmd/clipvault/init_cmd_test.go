package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sgx-labs/clipvault/internal/config"
)

func TestRunInit_WritesConfigAndRegisters(t *testing.T) {
	root := setupCommandTestVault(t)

	var runErr error
	_ = captureCommandStdout(t, func() {
		runErr = runInit(root, "clips", true)
	})
	if runErr != nil {
		t.Fatalf("runInit: %v", runErr)
	}

	if _, err := os.Stat(filepath.Join(root, ".clipvault", "config.toml")); err != nil {
		t.Fatalf("expected starter config: %v", err)
	}

	reg := config.LoadRegistry()
	if reg.Vaults["clips"] != root {
		t.Fatalf("expected vault registered at %s, got %q", root, reg.Vaults["clips"])
	}
	if reg.Default != "clips" {
		t.Fatalf("expected clips as default vault, got %q", reg.Default)
	}
}

func TestRunInit_NotADirectory(t *testing.T) {
	setupCommandTestVault(t)
	if err := runInit("/definitely/nonexistent/path", "", false); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
