package domain

import (
	"maps"
	"time"

	"github.com/mrz1836/webprobe/internal/constants"
)

// CheckOutcome is the structured result of one check. It is never mutated
// after the check returns it.
type CheckOutcome struct {
	Check     CheckName      `json:"check" yaml:"check"`
	Status    Status         `json:"status" yaml:"status"`
	LoadTime  *float64       `json:"load_time_seconds,omitempty" yaml:"load_time_seconds,omitempty"`
	Detail    map[string]any `json:"detail,omitempty" yaml:"detail,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// HasLoadTime reports whether a timing was captured.
func (o CheckOutcome) HasLoadTime() bool {
	return o.LoadTime != nil
}

// LoadSeconds returns the captured load time, or 0 when none was captured.
func (o CheckOutcome) LoadSeconds() float64 {
	if o.LoadTime == nil {
		return 0
	}
	return *o.LoadTime
}

// Outcome is the tagged result a check builds before it is stamped into a
// CheckOutcome. Construct it with OK, Warning, Failed or Down.
type Outcome struct {
	status   Status
	detail   map[string]any
	reason   string
	err      error
	loadTime *float64
}

// OK is a successful check carrying check-specific detail.
func OK(detail map[string]any) Outcome {
	return Outcome{status: StatusOK, detail: detail}
}

// Warning is a check that reached the page but found something off.
func Warning(detail map[string]any, reason string) Outcome {
	return Outcome{status: StatusWarning, detail: detail, reason: reason}
}

// Failed is a check that broke. err is the cause.
func Failed(err error) Outcome {
	return Outcome{status: StatusError, err: err}
}

// Down is a check whose target did not respond. err is the cause.
func Down(err error) Outcome {
	return Outcome{status: StatusDown, err: err}
}

// WithLoadTime attaches the measured load time.
func (o Outcome) WithLoadTime(d time.Duration) Outcome {
	secs := d.Seconds()
	o.loadTime = &secs
	return o
}

// WithDetail attaches a single detail entry, copying the existing map.
func (o Outcome) WithDetail(key string, value any) Outcome {
	detail := make(map[string]any, len(o.detail)+1)
	maps.Copy(detail, o.detail)
	detail[key] = value
	o.detail = detail
	return o
}

// Status returns the tagged status.
func (o Outcome) Status() Status {
	return o.status
}

// Err returns the failure cause for Failed and Down outcomes.
func (o Outcome) Err() error {
	return o.err
}

// Reason returns the warning reason for Warning outcomes.
func (o Outcome) Reason() string {
	return o.reason
}

// Seal stamps the outcome with the check name and time and returns the
// immutable CheckOutcome.
func (o Outcome) Seal(check CheckName, at time.Time) CheckOutcome {
	out := CheckOutcome{
		Check:     check,
		Status:    o.status,
		Timestamp: at,
	}
	if o.loadTime != nil {
		secs := *o.loadTime
		out.LoadTime = &secs
	}
	if len(o.detail) > 0 || o.reason != "" {
		out.Detail = make(map[string]any, len(o.detail)+1)
		maps.Copy(out.Detail, o.detail)
	}
	if o.reason != "" {
		out.Detail[constants.DetailMessage] = o.reason
	}
	if o.err != nil {
		out.Error = o.err.Error()
	}
	return out
}
