package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"lameta/internal/config"
)

// ConfigOption adjusts the configuration built by NewConfig.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns defaults rooted in a fresh temp directory, with JSON debug
// logging so failures leave a readable lameta.log behind.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithMetricsTextfile writes export metrics to name inside the temp root.
func WithMetricsTextfile(name string) ConfigOption {
	return func(_ testing.TB, base string, cfg *config.Config) {
		cfg.Export.MetricsTextfile = filepath.Join(base, name)
	}
}

// WithExcludePatterns sets export.exclude_patterns.
func WithExcludePatterns(patterns ...string) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Export.ExcludePatterns = patterns
	}
}

// WithStubbedValidator installs a shell script as the external validator.
// The script prints stdout and exits with code.
func WithStubbedValidator(stdout string, code int) ConfigOption {
	return func(t testing.TB, base string, cfg *config.Config) {
		t.Helper()
		binDir := filepath.Join(base, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			t.Fatalf("mkdir bin dir: %v", err)
		}
		var script strings.Builder
		script.WriteString("#!/bin/sh\ncat <<'JSON'\n")
		script.WriteString(stdout)
		script.WriteString("\nJSON\nexit ")
		script.WriteString(strconv.Itoa(code))
		script.WriteString("\n")

		target := filepath.Join(binDir, "crate-validator")
		if err := os.WriteFile(target, []byte(script.String()), 0o755); err != nil {
			t.Fatalf("write validator stub: %v", err)
		}
		cfg.Validator.Binary = target
	}
}
