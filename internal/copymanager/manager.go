package copymanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"lameta/internal/config"
	"lameta/internal/deps"
	"lameta/internal/fileutil"
	"lameta/internal/logging"
	"lameta/internal/services"
)

// ProgressFunc receives the completed percentage of one copy.
type ProgressFunc func(percent int)

type job struct {
	id          string
	source      string
	destination string
	process     Process
	cancelled   bool
	exitedClean bool
}

// Manager owns the copy job registry.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job

	exec      Executor
	rsync     string
	threshold int64
	grace     time.Duration
	logger    *slog.Logger

	remove func(string) error
	sleep  func(time.Duration)
}

// Option configures a Manager.
type Option func(*Manager)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(m *Manager) {
		if exec != nil {
			m.exec = exec
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithThreshold overrides the size at which rsync takes over.
func WithThreshold(bytes int64) Option {
	return func(m *Manager) {
		m.threshold = bytes
	}
}

// WithRsync sets the rsync binary. An empty value disables external copies.
func WithRsync(binary string) Option {
	return func(m *Manager) {
		m.rsync = binary
	}
}

// WithGrace sets how long CancelAll waits between interrupting processes
// and removing their partial output.
func WithGrace(d time.Duration) Option {
	return func(m *Manager) {
		m.grace = d
	}
}

// New constructs a Manager with defaults.
func New(opts ...Option) *Manager {
	m := &Manager{
		jobs:      make(map[string]*job),
		exec:      commandExecutor{},
		rsync:     "rsync",
		threshold: 10 * 1024 * 1024,
		grace:     100 * time.Millisecond,
		logger:    logging.NewNop(),
		remove:    os.RemoveAll,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "copymanager")
	return m
}

// NewFromConfig builds a Manager from the [copy] section. When the rsync
// binary cannot be found every copy runs in process.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Manager {
	rsync := cfg.Copy.RsyncBinary
	if !deps.Available(rsync) {
		rsync = ""
	}
	base := []Option{
		WithLogger(logger),
		WithRsync(rsync),
		WithThreshold(cfg.Copy.FallbackThresholdBytes),
		WithGrace(time.Duration(cfg.Copy.CancelGraceMillis) * time.Millisecond),
	}
	return New(append(base, opts...)...)
}

// Copy copies source to destination, creating parent directories.
func (m *Manager) Copy(ctx context.Context, source, destination string, onProgress ProgressFunc) Result {
	info, err := os.Stat(source)
	if err != nil {
		return failed(destination, KindIO, "Cannot access source file: "+err.Error())
	}
	if info.IsDir() {
		return failed(destination, KindIO, "Cannot access source file: "+source+" is a directory")
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return failed(destination, KindIO, fmt.Sprintf("Cannot create destination folder: %v", err))
	}

	j := m.register(source, destination)
	defer m.unregister(j.id)
	ctx = services.WithJobID(ctx, j.id)
	logger := logging.WithContext(ctx, m.logger)

	logger.Debug("copy started",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.String("size", humanize.IBytes(uint64(info.Size()))),
	)

	var result Result
	if m.rsync == "" || info.Size() < m.threshold {
		result = m.copyInProcess(ctx, j, info.Size(), onProgress)
	} else {
		result = m.copyExternal(ctx, j, info.Size(), onProgress)
	}

	if result.Success {
		logger.Debug("copy finished", logging.String("destination", destination))
	} else {
		logger.Warn("copy failed",
			logging.String("destination", destination),
			logging.String("kind", result.Kind.String()),
			logging.String("reason", result.Error),
			logging.String(logging.FieldEventType, "copy_failed"),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the destination"),
			logging.String(logging.FieldImpact, "file missing from export package"),
		)
	}
	return result
}

func (m *Manager) copyInProcess(ctx context.Context, j *job, size int64, onProgress ProgressFunc) Result {
	if ctx.Err() != nil || m.isCancelled(j.id) {
		return cancelled(j.destination)
	}
	lastPercent := -1
	err := fileutil.CopyPreservingModTime(j.source, j.destination, func(written, total int64) {
		if onProgress == nil || total <= 0 {
			return
		}
		if p := int(written * 100 / total); p != lastPercent {
			lastPercent = p
			onProgress(p)
		}
	})

	m.mu.Lock()
	if err == nil {
		j.exitedClean = true
	}
	wasCancelled := j.cancelled
	m.mu.Unlock()

	switch {
	case wasCancelled || ctx.Err() != nil:
		return cancelled(j.destination)
	case err != nil:
		return failed(j.destination, KindIO, fmt.Sprintf("Copy of %s failed: %v", filepath.Base(j.source), err))
	}
	if onProgress != nil && lastPercent != 100 {
		onProgress(100)
	}
	return succeeded(j.destination, size)
}

var percentPattern = regexp.MustCompile(`(\d{1,3})%`)

// ParseProgress extracts the percentage from an rsync progress line.
func ParseProgress(line string) (int, bool) {
	match := percentPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil || value > 100 {
		return 0, false
	}
	return value, true
}

func (m *Manager) copyExternal(ctx context.Context, j *job, size int64, onProgress ProgressFunc) Result {
	if ctx.Err() != nil || m.isCancelled(j.id) {
		return cancelled(j.destination)
	}
	args := []string{"-t", "--progress", j.source, j.destination}
	proc, err := m.exec.Start(ctx, m.rsync, args, func(line string) {
		if onProgress == nil {
			return
		}
		if percent, ok := ParseProgress(line); ok {
			onProgress(percent)
		}
	})
	if err != nil {
		return failed(j.destination, KindIO, fmt.Sprintf("Copy of %s could not start: %v", filepath.Base(j.source), err))
	}

	m.mu.Lock()
	j.process = proc
	alreadyCancelled := j.cancelled
	m.mu.Unlock()
	if alreadyCancelled {
		_ = proc.Interrupt()
	}

	waitErr := proc.Wait()

	m.mu.Lock()
	if waitErr == nil {
		j.exitedClean = true
	}
	wasCancelled := j.cancelled
	m.mu.Unlock()

	if wasCancelled || errors.Is(ctx.Err(), context.Canceled) {
		return cancelled(j.destination)
	}
	if waitErr != nil {
		var coded interface{ ExitCode() int }
		if errors.As(waitErr, &coded) && coded.ExitCode() > 0 {
			return failed(j.destination, KindExitCode,
				fmt.Sprintf("Copy of %s exited with code %d", filepath.Base(j.source), coded.ExitCode()))
		}
		return failed(j.destination, KindIO, fmt.Sprintf("Copy of %s failed: %v", filepath.Base(j.source), waitErr))
	}
	return succeeded(j.destination, size)
}

// CancelAll cancels every registered job. All jobs are marked cancelled
// before any process is signalled; after the grace period the destinations
// of jobs that did not exit cleanly are removed and the registry is cleared.
func (m *Manager) CancelAll() int {
	m.mu.Lock()
	snapshot := make([]*job, 0, len(m.jobs))
	for _, j := range m.jobs {
		j.cancelled = true
		snapshot = append(snapshot, j)
	}
	m.mu.Unlock()
	if len(snapshot) == 0 {
		return 0
	}
	sort.Slice(snapshot, func(a, b int) bool { return snapshot[a].destination < snapshot[b].destination })

	for _, j := range snapshot {
		m.mu.Lock()
		proc := j.process
		m.mu.Unlock()
		if proc == nil {
			continue
		}
		if err := proc.Interrupt(); err != nil {
			m.logger.Debug("interrupt copy process failed", logging.String(logging.FieldJobID, j.id), logging.Error(err))
		}
	}

	if m.grace > 0 {
		m.sleep(m.grace)
	}

	for _, j := range snapshot {
		m.mu.Lock()
		keep := j.exitedClean
		m.mu.Unlock()
		if keep {
			continue
		}
		if err := m.remove(j.destination); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(m.logger, "failed to remove partial copy", "copy_cleanup_failed",
				logging.String("destination", j.destination),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the partial file by hand"),
			)
		}
	}

	m.mu.Lock()
	for _, j := range snapshot {
		delete(m.jobs, j.id)
	}
	m.mu.Unlock()

	m.logger.Info("copies cancelled", logging.Int("jobs", len(snapshot)))
	return len(snapshot)
}

// Active returns the number of registered jobs.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *Manager) register(source, destination string) *job {
	j := &job{id: uuid.NewString(), source: source, destination: destination}
	m.mu.Lock()
	m.jobs[j.id] = j
	m.mu.Unlock()
	return j
}

func (m *Manager) unregister(id string) {
	m.mu.Lock()
	delete(m.jobs, id)
	m.mu.Unlock()
}

func (m *Manager) isCancelled(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	return ok && j.cancelled
}
