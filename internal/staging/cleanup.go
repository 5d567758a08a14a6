package staging

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"lameta/internal/logging"
)

// DefaultPatterns match the temp files written by fileutil.WriteFileAtomic.
var DefaultPatterns = []string{"**/.*.tmp-*"}

// CleanResult contains the outcome of a cleanup operation.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// FileInfo describes one partial file found in a destination.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// CleanPartials removes partial files under destDir that match patterns (or
// DefaultPatterns when none are given) and are older than maxAge. A maxAge of
// zero removes every match.
func CleanPartials(ctx context.Context, destDir string, maxAge time.Duration, logger *slog.Logger, patterns ...string) CleanResult {
	result := CleanResult{}

	found, err := ListPartials(destDir, patterns...)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: destDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, info := range found {
		if ctx.Err() != nil {
			break
		}
		if maxAge > 0 && !info.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: info.Path, Error: err})
			if logger != nil {
				logger.Warn("failed to remove partial export file",
					logging.String("path", info.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "partial_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check destination permissions"),
					logging.String(logging.FieldImpact, "stale temp file left in export"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, info.Path)
		if logger != nil {
			logger.Info("removed partial export file",
				logging.String("path", info.Path),
				logging.Duration("age", time.Since(info.ModTime)),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}
	return result
}

// ListPartials returns the files under destDir matching patterns, sorted by
// path. A missing or blank destDir yields no files.
func ListPartials(destDir string, patterns ...string) ([]FileInfo, error) {
	destDir = strings.TrimSpace(destDir)
	if destDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(destDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	var found []FileInfo
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(destDir, path)
		if relErr != nil {
			return nil
		}
		if !matchesAny(filepath.ToSlash(rel), patterns) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		found = append(found, FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
