package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
)

// TTYOutput provides styled terminal output using Lip Gloss.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
	box    *BoxStyle
}

// NewTTYOutput creates a new TTYOutput. It respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		box:    NewBoxStyle(),
	}
}

// Success outputs a success message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	o.println(o.styles.Success.Render("✓ " + msg))
}

// Error outputs an error with a ✗ icon, followed by a suggested action when
// one is known for the error.
func (o *TTYOutput) Error(err error) {
	o.println(o.styles.Error.Render("✗ " + err.Error()))
	if _, action := probeerrors.Actionable(err); action != "" {
		o.println(o.styles.Dim.Render("  ▸ Try: " + action))
	}
}

// Warning outputs a warning message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	o.println(o.styles.Warning.Render("⚠ " + msg))
}

// Info outputs an informational message.
func (o *TTYOutput) Info(msg string) {
	o.println(o.styles.Info.Render("ℹ " + msg))
}

// JSON outputs an arbitrary value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MonitorStarted prints the run banner.
func (o *TTYOutput) MonitorStarted(target string, duration, interval time.Duration) {
	content := fmt.Sprintf("Target:   %s\nDuration: %s\nInterval: %s\nPress Ctrl+C to stop", target, duration, interval)
	o.println(o.styles.Header.Render(o.box.Render("CONTINUOUS MONITORING", content)))
}

// CycleStarted prints the cycle header.
func (o *TTYOutput) CycleStarted(n int, at time.Time) {
	o.println("")
	o.println(o.styles.Header.Render(fmt.Sprintf("━━━ CYCLE #%d ━━━ %s", n, at.Format(time.DateTime))))
}

// CheckFinished prints one check's status line.
func (o *TTYOutput) CheckFinished(c domain.CheckOutcome) {
	style := lipgloss.NewStyle().Foreground(StatusColor(c.Status))
	line := fmt.Sprintf("%s %s %s",
		StatusIcon(c.Status),
		padRight(c.Check.Title(), 14),
		padRight(string(c.Status), 8),
	)

	var extra []string
	if c.HasLoadTime() {
		extra = append(extra, fmt.Sprintf("%.2fs", c.LoadSeconds()))
	}
	if n, ok := c.Detail[constants.DetailItemsFound]; ok {
		extra = append(extra, fmt.Sprintf("%v products", n))
	}
	if msg, ok := c.Detail[constants.DetailMessage]; ok {
		extra = append(extra, fmt.Sprint(msg))
	}
	if c.Error != "" {
		extra = append(extra, c.Error)
	}

	o.println(style.Render(line) + " " + o.styles.Dim.Render(strings.Join(extra, " · ")))
}

// AlertRaised prints an alert line.
func (o *TTYOutput) AlertRaised(a domain.Alert) {
	style := lipgloss.NewStyle().Foreground(LevelColor(a.Level)).Bold(a.Level == domain.LevelCritical)
	o.println(style.Render(fmt.Sprintf("  ▸ [%s] %s: %s", a.Level, a.Metric, a.Message)))
}

// CycleFinished prints the cycle summary box.
func (o *TTYOutput) CycleFinished(r *domain.CycleResult, meanLoad float64) {
	counts := r.Counts()
	health := r.Health()

	var b strings.Builder
	fmt.Fprintf(&b, "Checks run:      %d\n", len(r.Outcomes))
	fmt.Fprintf(&b, "  OK:            %d\n", counts.OK)
	fmt.Fprintf(&b, "  WARNING:       %d\n", counts.Warning)
	fmt.Fprintf(&b, "  ERROR:         %d\n", counts.Failed)
	fmt.Fprintf(&b, "Mean load time:  %.2fs\n", meanLoad)
	fmt.Fprintf(&b, "Alerts (cycle):  %d\n", r.AlertCount)
	fmt.Fprintf(&b, "Overall:         %s", lipgloss.NewStyle().Foreground(HealthColor(health)).Bold(true).Render(string(health)))

	o.println(o.box.Render(fmt.Sprintf("CYCLE #%d SUMMARY (%s)", r.Number, r.Duration().Round(time.Millisecond)), b.String()))
}

// Waiting prints the pause before the next cycle.
func (o *TTYOutput) Waiting(d time.Duration) {
	o.println(o.styles.Dim.Render(fmt.Sprintf("Next cycle in %s", d.Round(time.Second))))
}

// ReportSaved prints where a report was written.
func (o *TTYOutput) ReportSaved(location string) {
	o.Success("Report saved: " + location)
}

func (o *TTYOutput) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

var _ Output = (*TTYOutput)(nil)
