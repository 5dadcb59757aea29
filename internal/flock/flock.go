package flock

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/mrz1836/webprobe/internal/errors"
)

// DefaultName is the marker file locked inside a shared directory.
const DefaultName = ".webprobe.lock"

const retryInterval = 25 * time.Millisecond

// Lock is a held exclusive lock.
type Lock struct {
	f *os.File
}

// TryAcquire takes the lock on path without waiting, creating the file when
// it does not exist. A lock held elsewhere returns errors.ErrReportDirLocked.
func TryAcquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path is constructed internally
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", errors.ErrReportDirLocked, path)
	}
	return &Lock{f: f}, nil
}

// Acquire retries TryAcquire until the lock is free or ctx is done.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		l, err := TryAcquire(path)
		if err == nil || !stderrors.Is(err, errors.ErrReportDirLocked) {
			return l, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", err, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Release drops the lock. The marker file is left in place.
func (l *Lock) Release() error {
	return stderrors.Join(unlock(l.f.Fd()), l.f.Close())
}
