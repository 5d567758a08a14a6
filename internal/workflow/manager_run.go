package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lameta/internal/config"
	"lameta/internal/exportlock"
	"lameta/internal/history"
	"lameta/internal/logging"
	"lameta/internal/metrics"
	"lameta/internal/project"
	"lameta/internal/services"
	"lameta/internal/staging"
	"lameta/internal/warnings"
)

// Run performs one export. The returned Summary is filled in even when err
// is non-nil so callers can report partial progress.
func (m *Manager) Run(ctx context.Context, req Request) (Summary, error) {
	id := uuid.NewString()
	ctx = services.WithExportID(ctx, id)
	ctx = services.WithFormat(ctx, string(req.Format))
	logger := logging.WithContext(ctx, m.logger)

	summary := Summary{
		ID:          id,
		Format:      req.Format,
		Project:     filepath.Base(strings.TrimSpace(req.ProjectDir)),
		Destination: req.Destination,
		StartedAt:   m.now().UTC(),
		Warnings:    []string{},
	}
	run := metrics.NewRun(string(req.Format))
	collector := warnings.New(logger)

	logger.Info("export started",
		logging.String(logging.FieldEventType, "export_start"),
		logging.String("project", req.ProjectDir),
		logging.String("destination", req.Destination),
	)

	export, ok := m.exporters[req.Format]
	if !ok {
		err := services.Wrap(services.ErrConfiguration, "export", "select format",
			fmt.Sprintf("Unknown export format %q", req.Format), nil)
		return m.finish(ctx, &summary, run, collector, err)
	}

	dest, err := config.ExpandPath(strings.TrimSpace(req.Destination))
	if err != nil || dest == "" {
		err = services.Wrap(services.ErrConfiguration, "export", "resolve destination", "Invalid destination", err)
		return m.finish(ctx, &summary, run, collector, err)
	}
	summary.Destination = dest

	if m.store != nil {
		if _, err := m.store.Start(ctx, history.Run{
			ID:          id,
			Kind:        string(req.Format),
			Project:     summary.Project,
			Destination: dest,
			StartedAt:   summary.StartedAt,
		}); err != nil {
			logging.WarnWithContext(logger, "failed to record export start", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions"),
				logging.String(logging.FieldImpact, "export will not appear in history"),
			)
		}
	}

	lock, err := exportlock.Acquire(ctx, dest, time.Duration(m.cfg.Export.LockTimeoutSeconds)*time.Second)
	if err != nil {
		return m.finish(ctx, &summary, run, collector, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(logger, "failed to release export lock", "export_lock_release_failed",
				logging.Error(err),
				logging.String("lock", lock.Path()),
				logging.String(logging.FieldErrorHint, "delete the lock file by hand"),
			)
		}
	}()

	staging.CleanPartials(ctx, dest, 0, logger)

	p, err := project.Load(ctx, req.ProjectDir, project.Options{
		ExcludePatterns: m.cfg.Export.ExcludePatterns,
		Logger:          logger,
	})
	if err != nil {
		return m.finish(ctx, &summary, run, collector, err)
	}
	summary.Project = p.Name
	for _, problem := range p.Problems {
		collector.Add(problem)
	}

	j := &job{
		project:  p,
		dest:     dest,
		logger:   logger,
		warnings: collector,
		metrics:  run,
		summary:  &summary,
	}
	err = export(ctx, m, j)
	return m.finish(ctx, &summary, run, collector, err)
}

func (m *Manager) finish(ctx context.Context, summary *Summary, run *metrics.Run, collector *warnings.Collector, exportErr error) (Summary, error) {
	logger := logging.WithContext(ctx, m.logger)
	if exportErr != nil && errors.Is(exportErr, context.Canceled) && !errors.Is(exportErr, services.ErrCancelled) {
		exportErr = services.Wrap(services.ErrCancelled, "export", "", "Export cancelled", exportErr)
	}

	summary.Duration = m.now().UTC().Sub(summary.StartedAt)
	summary.Warnings = collector.Warnings()
	summary.Status = services.FailureStatus(exportErr)
	if exportErr == nil && summary.ValidationErrors() > 0 {
		summary.Status = services.StatusInvalid
	}
	if exportErr != nil {
		summary.Error = exportErr.Error()
	}

	if summary.Validation != nil {
		run.AddValidation("error", len(summary.Validation.Errors))
		run.AddValidation("warning", len(summary.Validation.Warnings))
		run.AddValidation("info", len(summary.Validation.Info))
	}
	run.ObserveDuration(summary.Status, summary.Duration)
	if err := run.WriteTextfile(m.cfg.Export.MetricsTextfile); err != nil {
		logging.WarnWithContext(logger, "failed to write export metrics", "metrics_write_failed",
			logging.Error(err),
			logging.String("path", m.cfg.Export.MetricsTextfile),
			logging.String(logging.FieldErrorHint, "check export.metrics_textfile"),
			logging.String(logging.FieldImpact, "metrics for this run are missing"),
		)
	}

	m.recordOutcome(ctx, summary, exportErr)
	m.notify(ctx, summary)

	if exportErr != nil {
		m.logFailure(ctx, summary, exportErr)
		return *summary, exportErr
	}
	logger.Info("export completed",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.String("status", summary.Status),
		logging.String("destination", summary.Destination),
		logging.Int("copied", summary.Copied),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("warnings", len(summary.Warnings)),
		logging.Int("validation_errors", summary.ValidationErrors()),
		logging.Duration("duration", summary.Duration),
	)
	return *summary, nil
}

func (m *Manager) recordOutcome(ctx context.Context, summary *Summary, exportErr error) {
	if m.store == nil {
		return
	}
	errorsCount := summary.ValidationErrors() + summary.Failed
	if exportErr != nil {
		errorsCount++
	}
	err := m.store.Finish(context.WithoutCancel(ctx), summary.ID, history.Outcome{
		Status:   summary.Status,
		Errors:   errorsCount,
		Warnings: len(summary.Warnings),
		Files:    summary.Copied + summary.Skipped,
		Bytes:    summary.Bytes,
		Message:  summary.Error,
	})
	if err != nil && !errors.Is(err, history.ErrUnknownRun) {
		logging.WarnWithContext(logging.WithContext(ctx, m.logger), "failed to record export outcome", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
		)
	}
}
