package rocrate

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"lameta/internal/copymanager"
	"lameta/internal/fileutil"
	"lameta/internal/services"
	"lameta/internal/warnings"
)

// Copier copies one file into the export package.
type Copier interface {
	Copy(ctx context.Context, source, destination string, onProgress copymanager.ProgressFunc) copymanager.Result
}

// WriteStats summarises a WriteCrate run.
type WriteStats struct {
	Copied  int
	Skipped int
	Failed  int
	Bytes   int64
}

// DiskPath maps a file entity @id to its path under dir.
func DiskPath(dir, id string) (string, error) {
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", fmt.Errorf("decode @id %q: %w", id, err)
	}
	return filepath.Join(dir, filepath.FromSlash(decoded)), nil
}

// WriteCrate writes ro-crate-metadata.json into dir and copies every file
// the crate references to the path implied by its @id. Files that already
// exist with the same size and modification time are skipped. Copy failures
// are reported to collector; only cancellation stops the run.
func WriteCrate(ctx context.Context, c *Crate, dir string, copier Copier, collector *warnings.Collector) (WriteStats, error) {
	var stats WriteStats
	if collector == nil {
		collector = warnings.New(nil)
	}
	data, err := c.Encode()
	if err != nil {
		return stats, services.Wrap(services.ErrValidation, "rocrate", "encode", "Cannot serialize crate", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, MetadataFileName), data, 0o644); err != nil {
		return stats, services.Wrap(services.ErrTransient, "rocrate", "write metadata", "Cannot write "+MetadataFileName, err)
	}

	for _, src := range c.Sources() {
		if err := ctx.Err(); err != nil {
			return stats, services.Wrap(services.ErrCancelled, "rocrate", "copy files", "Export cancelled", err)
		}
		dst, err := DiskPath(dir, src.ID)
		if err != nil {
			collector.Add(err.Error())
			stats.Failed++
			continue
		}
		if fileutil.SameFile(src.Path, dst) {
			stats.Skipped++
			continue
		}
		res := copier.Copy(ctx, src.Path, dst, nil)
		switch {
		case res.Success:
			stats.Copied++
			stats.Bytes += res.Bytes
		case res.Kind == copymanager.KindCancelled:
			return stats, services.Wrap(services.ErrCancelled, "rocrate", "copy files", res.Error, nil)
		default:
			stats.Failed++
			collector.Add(res.Error)
		}
	}
	return stats, nil
}
