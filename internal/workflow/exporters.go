package workflow

import (
	"context"
	"path/filepath"

	"lameta/internal/csvexport"
	"lameta/internal/imdi"
	"lameta/internal/rocrate"
	"lameta/internal/services"
	"lameta/internal/textutil"
	"lameta/internal/validator"
)

var crateEntityKinds = []struct{ typ, kind string }{
	{"RepositoryObject", "session"},
	{"Person", "person"},
	{"File", "file"},
	{"Language", "language"},
}

func exportROCrate(ctx context.Context, m *Manager, j *job) error {
	crate, err := rocrate.Build(j.project, rocrate.Options{Logger: j.logger, Warnings: j.warnings})
	if err != nil {
		return services.Wrap(services.ErrValidation, "rocrate", "build", "Cannot build crate", err)
	}
	counts := crate.CountByType()
	for _, k := range crateEntityKinds {
		j.countEntities(k.kind, counts[k.typ])
	}

	stats, err := rocrate.WriteCrate(ctx, crate, j.dest, m.copier, j.warnings)
	j.countCopies(stats.Copied, stats.Skipped, stats.Failed, stats.Bytes)
	if err != nil {
		return err
	}
	j.summary.Documents = 1
	j.summary.Outputs = append(j.summary.Outputs, filepath.Join(j.dest, rocrate.MetadataFileName))

	opts := validator.OptionsFromConfig(m.cfg, j.logger)
	opts.Runner = m.runner
	result := validator.Validate(ctx, j.dest, opts)
	j.summary.Validation = &result
	return nil
}

func exportIMDI(ctx context.Context, m *Manager, j *job) error {
	mode := imdi.ModeIMDI
	if m.cfg.Export.IMDIOpex {
		mode = imdi.ModeOPEX
	}
	stats, err := imdi.WriteBundle(ctx, j.project, j.dest, m.copier, imdi.Options{
		Mode:       mode,
		Originator: m.cfg.Export.Originator,
		Now:        m.now,
		Logger:     j.logger,
		Warnings:   j.warnings,
	})
	j.summary.Documents = stats.Documents
	j.countCopies(stats.Copied, stats.Skipped, stats.Failed, stats.Bytes)
	if err != nil {
		return err
	}
	j.countEntities("session", len(j.project.Sessions))
	j.countEntities("person", len(j.project.People))
	j.countEntities("document", stats.Documents)
	corpus := filepath.Join(j.dest, j.project.Name+mode.Extension())
	if mode == imdi.ModeOPEX {
		corpus = filepath.Join(j.dest, j.project.Name, j.project.Name+mode.Extension())
	}
	j.summary.Outputs = append(j.summary.Outputs, corpus)
	return nil
}

func exportCSV(ctx context.Context, m *Manager, j *job) error {
	path := filepath.Join(j.dest, m.outputName(j, "CSV", ".zip"))
	if err := csvexport.WriteZip(ctx, j.project, path, m.now()); err != nil {
		return err
	}
	j.countEntities("session", len(j.project.Sessions))
	j.countEntities("person", len(j.project.People))
	j.summary.Documents = 1
	j.summary.Outputs = append(j.summary.Outputs, path)
	return nil
}

func exportParadisec(ctx context.Context, m *Manager, j *job) error {
	path := filepath.Join(j.dest, m.outputName(j, "Paradisec", ".csv"))
	if err := csvexport.WriteParadisec(ctx, j.project, path); err != nil {
		return err
	}
	j.countEntities("session", len(j.project.Sessions))
	j.summary.Documents = 1
	j.summary.Outputs = append(j.summary.Outputs, path)
	return nil
}

// outputName builds "<title> - lameta <label> Export - <date><ext>".
func (m *Manager) outputName(j *job, label, ext string) string {
	title := textutil.SanitizeFileName(j.project.Title())
	if title == "" {
		title = j.project.Name
	}
	return title + " - lameta " + label + " Export - " + m.now().Format("2006-01-02") + ext
}
