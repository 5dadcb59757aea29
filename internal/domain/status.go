// Package domain provides the shared data model of the webprobe monitoring engine.
package domain

import "strings"

// Status is the categorical result of a single check.
type Status string

// Check statuses. Every CheckOutcome carries exactly one of these.
const (
	// StatusOK means the flow worked. A slow page can still be OK.
	StatusOK Status = "OK"

	// StatusWarning means the page rendered but its content looked wrong
	// (empty catalog, unhealthy health endpoint).
	StatusWarning Status = "WARNING"

	// StatusError means the check failed for a reason other than the target being down.
	StatusError Status = "ERROR"

	// StatusDown means the target did not respond at all.
	StatusDown Status = "DOWN"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsFailure reports whether the status counts as an error (ERROR or DOWN).
func (s Status) IsFailure() bool {
	return s == StatusError || s == StatusDown
}

// Level is the severity of an alert.
type Level string

// Alert levels, ordered INFO < WARNING < ERROR < CRITICAL.
const (
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// String implements fmt.Stringer.
func (l Level) String() string {
	return string(l)
}

// Severity returns a rank usable for ordering levels. Unknown levels rank lowest.
func (l Level) Severity() int {
	switch l {
	case LevelInfo:
		return 1
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	case LevelCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether l is as severe as other or more.
func (l Level) AtLeast(other Level) bool {
	return l.Severity() >= other.Severity()
}

// ParseLevel converts a case-insensitive name to a Level.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelInfo:
		return LevelInfo, true
	case LevelWarning:
		return LevelWarning, true
	case LevelError:
		return LevelError, true
	case LevelCritical:
		return LevelCritical, true
	default:
		return "", false
	}
}
