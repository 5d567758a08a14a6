package imdi

import (
	"context"
	"os"
	"path/filepath"

	"lameta/internal/copymanager"
	"lameta/internal/exportstrings"
	"lameta/internal/fileutil"
	"lameta/internal/logging"
	"lameta/internal/project"
	"lameta/internal/services"
)

// Copier copies one file into the bundle.
type Copier interface {
	Copy(ctx context.Context, source, destination string, onProgress copymanager.ProgressFunc) copymanager.Result
}

// BundleStats summarises a WriteBundle run.
type BundleStats struct {
	Documents int
	Copied    int
	Skipped   int
	Failed    int
	Bytes     int64
}

// WriteBundle writes the IMDI bundle for p under dir:
//
//	dir/<project>.imdi
//	dir/<project>/<session>.imdi
//	dir/<project>/<session>/<files>
//
// In OPEX mode every metadata file sits inside the folder it describes,
// including the corpus file in dir/<project>/. A nil copier writes the
// metadata only.
func WriteBundle(ctx context.Context, p *project.Project, dir string, copier Copier, opts Options) (BundleStats, error) {
	var stats BundleStats
	g := NewGenerator(p, opts)
	ext := g.opts.Mode.Extension()
	secondLevel := p.Name
	base := filepath.Join(dir, secondLevel)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return stats, services.Wrap(services.ErrTransient, "imdi", "prepare bundle", "Cannot create "+base, err)
	}

	var links []string
	folder := func(name string, files []project.File, doc *Node) error {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrCancelled, "imdi", "write bundle", "Export cancelled", err)
		}
		fileName := ResourceName(name + ext)
		metaDir := base
		if g.opts.Mode == ModeOPEX {
			metaDir = filepath.Join(base, name)
		}
		if err := writeDocument(filepath.Join(metaDir, fileName), doc); err != nil {
			return err
		}
		stats.Documents++
		links = append(links, secondLevel+"/"+fileName)
		if copier == nil {
			return nil
		}
		return g.copyFiles(ctx, files, filepath.Join(base, name), copier, &stats)
	}

	bundles := []struct {
		bundle exportstrings.Bundle
		files  []project.File
	}{
		{exportstrings.OtherDocuments, p.OtherDocuments},
		{exportstrings.DescriptionDocuments, p.DescriptionDocuments},
		{exportstrings.ConsentDocuments, p.ConsentFiles()},
	}
	for _, b := range bundles {
		if len(b.files) == 0 {
			continue
		}
		name := string(b.bundle)
		if err := folder(name, b.files, g.PseudoSession(name, b.files)); err != nil {
			return stats, err
		}
	}
	for _, s := range p.Sessions {
		if err := folder(filepath.Base(s.Dir), s.Files, g.Session(s)); err != nil {
			return stats, err
		}
	}

	corpusDir := dir
	if g.opts.Mode == ModeOPEX {
		corpusDir = base
	}
	if err := writeDocument(filepath.Join(corpusDir, p.Name+ext), g.Corpus(links)); err != nil {
		return stats, err
	}
	stats.Documents++
	g.logger.Info("imdi bundle written",
		logging.String("dir", dir),
		logging.String("mode", g.opts.Mode.String()),
		logging.Int("documents", stats.Documents),
		logging.Int("copied", stats.Copied),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
	)
	return stats, nil
}

func writeDocument(path string, doc *Node) error {
	data, err := doc.Encode()
	if err != nil {
		return services.Wrap(services.ErrValidation, "imdi", "encode", "Cannot serialize "+filepath.Base(path), err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "imdi", "write document", "Cannot write "+path, err)
	}
	return nil
}

func (g *Generator) copyFiles(ctx context.Context, files []project.File, dir string, copier Copier, stats *BundleStats) error {
	for _, f := range files {
		if !IncludeFile(f.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrCancelled, "imdi", "copy files", "Export cancelled", err)
		}
		dst := filepath.Join(dir, ResourceName(f.Name))
		if fileutil.SameFile(f.Path, dst) {
			stats.Skipped++
			continue
		}
		res := copier.Copy(ctx, f.Path, dst, nil)
		switch {
		case res.Success:
			stats.Copied++
			stats.Bytes += res.Bytes
		case res.Kind == copymanager.KindCancelled:
			return services.Wrap(services.ErrCancelled, "imdi", "copy files", res.Error, nil)
		default:
			stats.Failed++
			g.warnings.Add(res.Error)
		}
	}
	return nil
}
