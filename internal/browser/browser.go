// Package browser owns the headless browser used by a monitoring cycle.
//
// A cycle acquires exactly one Session, runs every check through it, and
// releases it on every exit path. The Driver interface is the capability the
// checks need: navigate, wait for an element, find elements, read text.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// Element is a rendered DOM element.
type Element interface {
	// Text returns the element's rendered text.
	Text() (string, error)
}

// Driver drives a single browser tab.
type Driver interface {
	// Navigate loads url in the tab.
	// Fails with ErrTargetUnreachable when the target cannot be reached.
	Navigate(ctx context.Context, url string) error

	// WaitForPresence waits up to timeout for selector to match.
	// Fails with ErrNavigationTimeout when it never does.
	WaitForPresence(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// FindElements returns every element matching selector without waiting.
	// Fails with ErrElementNotFound when the page cannot be queried.
	FindElements(ctx context.Context, selector string) ([]Element, error)

	// Close shuts the browser down.
	Close() error
}

// Launcher starts a browser and returns a Driver for it.
// Launch may return a non-nil Driver together with an error when startup
// failed half-way; the Manager closes it in that case.
type Launcher interface {
	Launch(ctx context.Context) (Driver, error)
}

// Manager hands out browser sessions.
type Manager struct {
	launcher Launcher
	logger   zerolog.Logger
}

// NewManager creates a Manager that launches browsers with launcher.
func NewManager(launcher Launcher, logger zerolog.Logger) *Manager {
	return &Manager{
		launcher: launcher,
		logger:   logger.With().Str("component", "browser").Logger(),
	}
}

// Acquire launches a browser. Every error wraps ErrBrowserUnavailable.
// A failed launch never leaves a browser process behind.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.logger.Debug().Msg("starting browser")

	driver, err := m.launcher.Launch(ctx)
	if err != nil {
		if driver != nil {
			_ = driver.Close()
		}
		m.logger.Error().Err(err).Msg("browser could not be started")
		if errors.Is(err, probeerrors.ErrBrowserUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", probeerrors.ErrBrowserUnavailable, err)
	}
	if driver == nil {
		return nil, fmt.Errorf("launcher returned no driver: %w", probeerrors.ErrBrowserUnavailable)
	}

	m.logger.Info().Msg("browser started")
	return &Session{driver: driver, logger: m.logger}, nil
}

// WithSession acquires a session, runs fn with it, and releases it however
// fn exits, panics included. Acquisition errors are returned without calling fn.
func WithSession(ctx context.Context, m *Manager, fn func(*Session) error) error {
	session, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer session.Release()

	return fn(session)
}

// Session is one acquired browser. It is used by a single goroutine; only
// Release may be called more than once.
type Session struct {
	driver      Driver
	logger      zerolog.Logger
	releaseOnce sync.Once
	released    bool
	mu          sync.Mutex
}

// Release closes the browser. It is idempotent and safe on a nil Session.
func (s *Session) Release() {
	if s == nil {
		return
	}
	s.releaseOnce.Do(func() {
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()

		if s.driver == nil {
			return
		}
		if err := s.driver.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("browser did not close cleanly")
			return
		}
		s.logger.Info().Msg("browser closed")
	})
}

// Released reports whether Release has run.
func (s *Session) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Navigate implements Driver.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.Released() {
		return probeerrors.ErrSessionReleased
	}
	return s.driver.Navigate(ctx, url)
}

// WaitForPresence implements Driver.
func (s *Session) WaitForPresence(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	if s.Released() {
		return nil, probeerrors.ErrSessionReleased
	}
	return s.driver.WaitForPresence(ctx, selector, timeout)
}

// FindElements implements Driver.
func (s *Session) FindElements(ctx context.Context, selector string) ([]Element, error) {
	if s.Released() {
		return nil, probeerrors.ErrSessionReleased
	}
	return s.driver.FindElements(ctx, selector)
}

// Close releases the session so a Session can stand in for a Driver.
func (s *Session) Close() error {
	s.Release()
	return nil
}

var _ Driver = (*Session)(nil)
