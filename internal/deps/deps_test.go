package deps

import (
	"os"
	"path/filepath"
	"testing"

	"lameta/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %s", results[2].Detail)
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	if got := len(Requirements(&cfg)); got != 1 {
		t.Fatalf("expected only rsync without a validator binary, got %d", got)
	}
	cfg.Validator.Binary = "collector-validate"
	reqs := Requirements(&cfg)
	if len(reqs) != 2 || reqs[1].Command != "collector-validate" {
		t.Fatalf("unexpected requirements: %+v", reqs)
	}
	for _, r := range reqs {
		if !r.Optional {
			t.Fatalf("%s should be optional", r.Name)
		}
	}
}

func TestAvailable(t *testing.T) {
	if Available("") {
		t.Fatal("blank command should not be available")
	}
	if Available("clearly-not-present-binary") {
		t.Fatal("missing command should not be available")
	}
}
