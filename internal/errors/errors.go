// Package errors provides the error taxonomy for webprobe.
//
// Sentinel errors categorize failures so callers can branch with errors.Is().
// Check-level sentinels are always recovered inside the check runner and
// converted into outcomes; only ErrBrowserUnavailable aborts a cycle.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
package errors

import "errors"

// Monitoring engine errors.
var (
	// ErrBrowserUnavailable indicates no browser session could be acquired.
	// It is fatal to a cycle: no checks run without a browser.
	ErrBrowserUnavailable = errors.New("browser unavailable")

	// ErrNavigationTimeout indicates the page root element did not appear
	// within the check timeout.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrTargetUnreachable indicates the browser could not reach the target
	// at all (connection refused, DNS failure, and similar network errors).
	ErrTargetUnreachable = errors.New("target unreachable")

	// ErrElementNotFound indicates an expected DOM element could not be located.
	ErrElementNotFound = errors.New("element not found")

	// ErrUnexpectedFailure is the catch-all for anything else that went wrong
	// inside a check, including recovered panics.
	ErrUnexpectedFailure = errors.New("unexpected failure")

	// ErrSessionReleased indicates a driver call on a session that was already released.
	ErrSessionReleased = errors.New("browser session released")

	// ErrMonitorStarted indicates Run was called on a monitor that already ran.
	ErrMonitorStarted = errors.New("monitor already started")
)

// Configuration errors.
var (
	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidTarget indicates an invalid target configuration value.
	ErrConfigInvalidTarget = errors.New("invalid target configuration")

	// ErrConfigInvalidProbe indicates an invalid probe timing configuration value.
	ErrConfigInvalidProbe = errors.New("invalid probe configuration")

	// ErrConfigInvalidBrowser indicates an invalid browser configuration value.
	ErrConfigInvalidBrowser = errors.New("invalid browser configuration")

	// ErrConfigInvalidReport indicates an invalid report configuration value.
	ErrConfigInvalidReport = errors.New("invalid report configuration")
)

// Report errors.
var (
	// ErrReportWrite indicates the report artifact could not be written locally.
	ErrReportWrite = errors.New("report write failed")

	// ErrReportUpload indicates the report artifact could not be uploaded.
	ErrReportUpload = errors.New("report upload failed")

	// ErrReportNotFound indicates a stored report file does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrReportDirLocked indicates another process holds the report directory lock.
	ErrReportDirLocked = errors.New("report directory locked")

	// ErrNoReportSinks indicates report generation was requested with no sink configured.
	ErrNoReportSinks = errors.New("no report sinks configured")
)

// CLI errors.
var (
	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConflictingFlags indicates that mutually exclusive flags were specified.
	ErrConflictingFlags = errors.New("conflicting flags specified")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// IsNavigationFailure reports whether err means the page never became ready:
// either the wait timed out or the target could not be reached.
func IsNavigationFailure(err error) bool {
	return errors.Is(err, ErrNavigationTimeout) || errors.Is(err, ErrTargetUnreachable)
}
