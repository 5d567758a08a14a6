package workflow

import (
	"context"
	"log/slog"
	"time"

	"lameta/internal/config"
	"lameta/internal/copymanager"
	"lameta/internal/history"
	"lameta/internal/logging"
	"lameta/internal/notifications"
	"lameta/internal/validator"
)

// Copier copies one file into an export destination.
type Copier interface {
	Copy(ctx context.Context, source, destination string, onProgress copymanager.ProgressFunc) copymanager.Result
}

type canceller interface {
	CancelAll() int
}

type exportFunc func(ctx context.Context, m *Manager, j *job) error

// Manager runs exports.
type Manager struct {
	cfg       *config.Config
	store     *history.Store
	copier    Copier
	runner    validator.Runner
	notifier  notifications.Service
	logger    *slog.Logger
	now       func() time.Time
	exporters map[Format]exportFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistory records every run in store.
func WithHistory(store *history.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithCopier replaces the copy manager built from config.
func WithCopier(copier Copier) Option {
	return func(m *Manager) {
		if copier != nil {
			m.copier = copier
		}
	}
}

// WithValidatorRunner injects the process runner used for the external
// validator (primarily for tests).
func WithValidatorRunner(runner validator.Runner) Option {
	return func(m *Manager) { m.runner = runner }
}

// WithNotifier replaces the ntfy service built from config.
func WithNotifier(notifier notifications.Service) Option {
	return func(m *Manager) {
		if notifier != nil {
			m.notifier = notifier
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock fixes the time source used for run timestamps, IMDI dates and
// CSV file names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a manager for cfg.
func NewManager(cfg *config.Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: logging.NewNop(),
		now:    time.Now,
		exporters: map[Format]exportFunc{
			FormatROCrate:   exportROCrate,
			FormatIMDI:      exportIMDI,
			FormatCSV:       exportCSV,
			FormatParadisec: exportParadisec,
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "export")
	if m.copier == nil {
		m.copier = copymanager.NewFromConfig(cfg, m.logger)
	}
	if m.notifier == nil {
		m.notifier = notifications.NewService(cfg)
	}
	return m
}

// CancelCopies interrupts every copy in flight and reports how many were
// cancelled. Callers cancel the Run context as well; this only hurries the
// external copy processes along.
func (m *Manager) CancelCopies() int {
	if c, ok := m.copier.(canceller); ok {
		return c.CancelAll()
	}
	return 0
}
