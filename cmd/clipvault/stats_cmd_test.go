package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunStats_Table(t *testing.T) {
	root := setupCommandTestVault(t)
	writeCommandTestArticle(t, root, "Tech", "a.md")
	writeCommandTestArticle(t, root, "Tech", "b.md")
	writeCommandTestArticle(t, root, "loose.md")

	var runErr error
	out := captureCommandStdout(t, func() {
		runErr = runStats("table", false)
	})
	if runErr != nil {
		t.Fatalf("runStats: %v", runErr)
	}
	if !strings.Contains(out, "Tech") || !strings.Contains(out, "(root)") {
		t.Fatalf("expected folder rows in table, got: %s", out)
	}
}

func TestRunStats_JSON(t *testing.T) {
	root := setupCommandTestVault(t)
	writeCommandTestArticle(t, root, "Tech", "a.md")

	var runErr error
	out := captureCommandStdout(t, func() {
		runErr = runStats("json", false)
	})
	if runErr != nil {
		t.Fatalf("runStats: %v", runErr)
	}

	var payload struct {
		TotalArticles int `json:"total_articles"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("expected valid JSON, got: %v (%q)", err, out)
	}
	if payload.TotalArticles != 1 {
		t.Fatalf("total_articles = %d, want 1", payload.TotalArticles)
	}
}

func TestRunStats_UnknownFormat(t *testing.T) {
	setupCommandTestVault(t)
	if err := runStats("csv", false); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
