package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrBrowserUnavailable", probeerrors.ErrBrowserUnavailable, "browser unavailable"},
		{"ErrNavigationTimeout", probeerrors.ErrNavigationTimeout, "navigation timeout"},
		{"ErrTargetUnreachable", probeerrors.ErrTargetUnreachable, "target unreachable"},
		{"ErrElementNotFound", probeerrors.ErrElementNotFound, "element not found"},
		{"ErrUnexpectedFailure", probeerrors.ErrUnexpectedFailure, "unexpected failure"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := []error{
		probeerrors.ErrBrowserUnavailable,
		probeerrors.ErrNavigationTimeout,
		probeerrors.ErrTargetUnreachable,
		probeerrors.ErrElementNotFound,
		probeerrors.ErrUnexpectedFailure,
		probeerrors.ErrReportWrite,
		probeerrors.ErrReportUpload,
	}

	for i, err1 := range all {
		for j, err2 := range all {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, err1, err2, "%v should not match %v", err1, err2)
		}
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, probeerrors.Wrap(nil, "context"))
		assert.NoError(t, probeerrors.Wrapf(nil, "context %d", 1))
	})

	t.Run("preserves chain", func(t *testing.T) {
		err := probeerrors.Wrap(probeerrors.ErrNavigationTimeout, "wait for body")
		require.Error(t, err)
		assert.Equal(t, "wait for body: navigation timeout", err.Error())
		assert.ErrorIs(t, err, probeerrors.ErrNavigationTimeout)
	})

	t.Run("formats message", func(t *testing.T) {
		err := probeerrors.Wrapf(probeerrors.ErrTargetUnreachable, "navigate to %s", "http://x")
		assert.Equal(t, "navigate to http://x: target unreachable", err.Error())
		assert.ErrorIs(t, err, probeerrors.ErrTargetUnreachable)
	})
}

func TestIsNavigationFailure(t *testing.T) {
	assert.True(t, probeerrors.IsNavigationFailure(probeerrors.ErrNavigationTimeout))
	assert.True(t, probeerrors.IsNavigationFailure(fmt.Errorf("x: %w", probeerrors.ErrTargetUnreachable)))
	assert.False(t, probeerrors.IsNavigationFailure(probeerrors.ErrElementNotFound))
	assert.False(t, probeerrors.IsNavigationFailure(stderrors.New("boom")))
}

func TestExitCode2Error(t *testing.T) {
	inner := probeerrors.ErrInvalidArgument
	err := probeerrors.NewExitCode2Error(inner)

	assert.True(t, probeerrors.IsExitCode2Error(err))
	assert.True(t, probeerrors.IsExitCode2Error(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, probeerrors.IsExitCode2Error(inner))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, inner.Error(), err.Error())
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, probeerrors.UserMessage(nil))

	wrapped := probeerrors.Wrap(probeerrors.ErrBrowserUnavailable, "acquire")
	assert.Contains(t, probeerrors.UserMessage(wrapped), "headless browser")

	plain := stderrors.New("something odd")
	assert.Equal(t, "something odd", probeerrors.UserMessage(plain))
}

func TestActionable(t *testing.T) {
	msg, action := probeerrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)

	msg, action = probeerrors.Actionable(probeerrors.ErrTargetUnreachable)
	assert.NotEmpty(t, msg)
	assert.Contains(t, action, "target.base_url")

	msg, action = probeerrors.Actionable(probeerrors.ErrReportNotFound)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)
}

func TestUserMessage_PrefersLockOverWrite(t *testing.T) {
	err := fmt.Errorf("%w: %w", probeerrors.ErrReportWrite, probeerrors.ErrReportDirLocked)
	assert.Contains(t, probeerrors.UserMessage(err), "locked")
}
