// Package exportlock keeps two exports from writing into the same
// destination at once.
package exportlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"lameta/internal/services"
)

// FileName is the lock file created in every export destination.
const FileName = ".lameta-export.lock"

const retryDelay = 100 * time.Millisecond

// Lock is a held destination lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for dir, creating dir when needed. A zero timeout
// fails immediately when another export holds the lock.
func Acquire(ctx context.Context, dir string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "lock", "create destination", err)
	}
	path := filepath.Join(dir, FileName)
	fl := flock.New(path)

	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = fl.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = fl.TryLockContext(lockCtx, retryDelay)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			ok, err = false, nil
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrCancelled, "export", "lock", "wait for destination", ctx.Err())
		}
		return nil, services.Wrap(services.ErrTransient, "export", "lock", "acquire", err)
	}
	if !ok {
		return nil, services.Wrap(
			services.ErrValidation,
			"export",
			"lock",
			fmt.Sprintf("another export is writing to %s", dir),
			nil,
		)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release export lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove export lock: %w", err)
	}
	return nil
}
