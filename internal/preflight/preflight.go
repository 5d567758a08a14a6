package preflight

import (
	"context"
	"os"
	"path/filepath"

	"lameta/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	// A missing metrics directory is created on first write.
	if cfg.Export.MetricsTextfile != "" {
		dir := filepath.Dir(cfg.Export.MetricsTextfile)
		if _, err := os.Stat(dir); err == nil {
			results = append(results, CheckDirectoryAccess("Metrics directory", dir))
		}
	}
	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
