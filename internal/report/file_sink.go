package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/flock"
)

const (
	reportDirPerm  os.FileMode = 0o750
	reportFilePerm os.FileMode = 0o600
)

// FileSink writes reports into a local directory.
type FileSink struct {
	dir string
	mu  sync.Mutex
}

// NewFileSink creates a FileSink writing into dir. The directory is created
// on first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Write stores the artifact and returns its path. When a file with the
// artifact's name already exists a numeric suffix is added, so every call
// produces a new file. The directory lock is held from picking the name
// until the file is in place, so processes sharing dir never collide.
func (s *FileSink) Write(ctx context.Context, a Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, reportDirPerm); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", probeerrors.ErrReportWrite, s.dir, err)
	}

	lock, err := flock.Acquire(ctx, filepath.Join(s.dir, flock.DefaultName))
	if err != nil {
		return "", fmt.Errorf("%w: %w", probeerrors.ErrReportWrite, err)
	}
	defer func() { _ = lock.Release() }()

	path, err := s.uniquePath(a.Name)
	if err != nil {
		return "", err
	}
	if err := atomicWrite(path, a.Data); err != nil {
		return "", fmt.Errorf("%w: %w", probeerrors.ErrReportWrite, err)
	}
	return path, nil
}

func (s *FileSink) uniquePath(name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	path := filepath.Join(s.dir, name)
	for n := 1; ; n++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: stat %s: %w", probeerrors.ErrReportWrite, path, err)
		}
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%d%s", base, n, ext))
	}
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, reportFilePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync before rename so a crash never leaves a truncated report.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
