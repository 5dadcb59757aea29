package domain

import "time"

// CycleHealth classifies a whole cycle for the operator summary.
type CycleHealth string

// Cycle health values.
const (
	CycleOK       CycleHealth = "OK"
	CycleWarning  CycleHealth = "WARNING"
	CycleCritical CycleHealth = "CRITICAL"
)

// CycleResult is one full pass through the checks. It is created when the
// cycle starts and sealed when the last check finishes.
type CycleResult struct {
	ID         string         `json:"id" yaml:"id"`
	Number     int            `json:"number" yaml:"number"`
	StartTime  time.Time      `json:"start_time" yaml:"start_time"`
	EndTime    time.Time      `json:"end_time" yaml:"end_time"`
	Outcomes   []CheckOutcome `json:"outcomes" yaml:"outcomes"`
	AlertCount int            `json:"alert_count" yaml:"alert_count"`
}

// StatusCounts tallies outcomes per status bucket.
type StatusCounts struct {
	OK      int
	Warning int
	Failed  int
}

// Counts tallies the cycle's outcomes. DOWN counts as failed.
func (r *CycleResult) Counts() StatusCounts {
	var c StatusCounts
	for _, o := range r.Outcomes {
		switch {
		case o.Status == StatusOK:
			c.OK++
		case o.Status == StatusWarning:
			c.Warning++
		case o.Status.IsFailure():
			c.Failed++
		}
	}
	return c
}

// Health is CRITICAL when any check failed, WARNING when any warned, else OK.
func (r *CycleResult) Health() CycleHealth {
	c := r.Counts()
	switch {
	case c.Failed > 0:
		return CycleCritical
	case c.Warning > 0:
		return CycleWarning
	default:
		return CycleOK
	}
}

// Duration is how long the cycle took.
func (r *CycleResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}
