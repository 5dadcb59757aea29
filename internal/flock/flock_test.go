//go:build unix

package flock_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/flock"
)

func TestTryAcquire(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), flock.DefaultName)

	first, err := flock.TryAcquire(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = flock.TryAcquire(path)
	require.ErrorIs(t, err, probeerrors.ErrReportDirLocked)

	require.NoError(t, first.Release())

	again, err := flock.TryAcquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestAcquire_WaitsForRelease(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), flock.DefaultName)
	held, err := flock.TryAcquire(path)
	require.NoError(t, err)

	go func() {
		time.Sleep(60 * time.Millisecond)
		_ = held.Release()
	}()

	l, err := flock.Acquire(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestAcquire_GivesUpWhenContextEnds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), flock.DefaultName)
	held, err := flock.TryAcquire(path)
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = flock.Acquire(ctx, path)
	require.ErrorIs(t, err, probeerrors.ErrReportDirLocked)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTryAcquire_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := flock.TryAcquire(filepath.Join(t.TempDir(), "missing", flock.DefaultName))
	require.Error(t, err)
	assert.NotErrorIs(t, err, probeerrors.ErrReportDirLocked)
}
