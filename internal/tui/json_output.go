package tui

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// JSONOutput writes one JSON object per line, for log shippers and scripts.
type JSONOutput struct {
	mu      sync.Mutex
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w, encoder: json.NewEncoder(w)}
}

// jsonEvent is the line format. Type says which fields are set.
type jsonEvent struct {
	Type       string               `json:"type"`
	Message    string               `json:"message,omitempty"`
	Suggestion string               `json:"suggestion,omitempty"`
	Cycle      int                  `json:"cycle,omitempty"`
	Time       *time.Time           `json:"time,omitempty"`
	Target     string               `json:"target,omitempty"`
	Duration   string               `json:"duration,omitempty"`
	Interval   string               `json:"interval,omitempty"`
	Outcome    *domain.CheckOutcome `json:"outcome,omitempty"`
	Alert      *domain.Alert        `json:"alert,omitempty"`
	Result     *domain.CycleResult  `json:"result,omitempty"`
	Health     string               `json:"health,omitempty"`
	MeanLoad   *float64             `json:"mean_load_seconds,omitempty"`
	Location   string               `json:"location,omitempty"`
}

func (o *JSONOutput) emit(e jsonEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(e)
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	o.emit(jsonEvent{Type: "success", Message: msg})
}

// Error outputs {"type":"error","message":...,"suggestion":...}.
func (o *JSONOutput) Error(err error) {
	_, action := probeerrors.Actionable(err)
	o.emit(jsonEvent{Type: "error", Message: err.Error(), Suggestion: action})
}

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	o.emit(jsonEvent{Type: "warning", Message: msg})
}

// Info outputs {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	o.emit(jsonEvent{Type: "info", Message: msg})
}

// JSON outputs v as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MonitorStarted implements Output.
func (o *JSONOutput) MonitorStarted(target string, duration, interval time.Duration) {
	o.emit(jsonEvent{Type: "monitor_started", Target: target, Duration: duration.String(), Interval: interval.String()})
}

// CycleStarted implements Output.
func (o *JSONOutput) CycleStarted(n int, at time.Time) {
	o.emit(jsonEvent{Type: "cycle_started", Cycle: n, Time: &at})
}

// CheckFinished implements Output.
func (o *JSONOutput) CheckFinished(c domain.CheckOutcome) {
	o.emit(jsonEvent{Type: "check", Outcome: &c})
}

// AlertRaised implements Output.
func (o *JSONOutput) AlertRaised(a domain.Alert) {
	o.emit(jsonEvent{Type: "alert", Alert: &a})
}

// CycleFinished implements Output.
func (o *JSONOutput) CycleFinished(r *domain.CycleResult, meanLoad float64) {
	o.emit(jsonEvent{Type: "cycle_finished", Cycle: r.Number, Result: r, Health: string(r.Health()), MeanLoad: &meanLoad})
}

// Waiting implements Output.
func (o *JSONOutput) Waiting(d time.Duration) {
	o.emit(jsonEvent{Type: "waiting", Duration: d.String()})
}

// ReportSaved implements Output.
func (o *JSONOutput) ReportSaved(location string) {
	o.emit(jsonEvent{Type: "report_saved", Location: location})
}

var _ Output = (*JSONOutput)(nil)
