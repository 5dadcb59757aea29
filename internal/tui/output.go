package tui

import (
	"io"
	"time"

	"github.com/mrz1836/webprobe/internal/domain"
)

// Output is where commands and the monitoring engine send operator-facing
// lines. TTYOutput styles them; JSONOutput emits one JSON object per line.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error message.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error

	// MonitorStarted announces a continuous run.
	MonitorStarted(target string, duration, interval time.Duration)
	// CycleStarted announces cycle number n.
	CycleStarted(n int, at time.Time)
	// CheckFinished prints the status line of one check.
	CheckFinished(o domain.CheckOutcome)
	// AlertRaised prints an alert as it is recorded.
	AlertRaised(a domain.Alert)
	// CycleFinished prints the cycle summary.
	CycleFinished(r *domain.CycleResult, meanLoad float64)
	// Waiting announces the pause before the next cycle.
	Waiting(d time.Duration)
	// ReportSaved announces where a report was written.
	ReportSaved(location string)
}

// NewOutput creates the appropriate output based on format.
func NewOutput(w io.Writer, format string) Output {
	if format == "json" {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// Discard is an Output that prints nothing.
func Discard() Output {
	return NewJSONOutput(io.Discard)
}
