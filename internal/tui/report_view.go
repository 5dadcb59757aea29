package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/webprobe/internal/report"
)

// RenderReport formats a stored report for the terminal.
func RenderReport(r *report.Report) string {
	CheckNoColor()
	box := NewBoxStyle()
	styles := NewOutputStyles()

	var b strings.Builder
	fmt.Fprintf(&b, "Run:             %s\n", r.RunID)
	if r.Target != "" {
		fmt.Fprintf(&b, "Target:          %s\n", r.Target)
	}
	fmt.Fprintf(&b, "Generated:       %s\n", r.GeneratedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "Cycles:          %d\n", r.Summary.TotalCycles)
	fmt.Fprintf(&b, "Pages monitored: %d\n", r.Summary.PagesMonitored)
	fmt.Fprintf(&b, "Errors:          %d\n", r.Summary.ErrorsDetected)
	fmt.Fprintf(&b, "Alerts:          %d\n", r.Summary.TotalAlerts)
	fmt.Fprintf(&b, "Load time:       mean %s · min %s · max %s",
		r.Performance.MeanLoadTime, r.Performance.MinLoadTime, r.Performance.MaxLoadTime)

	sections := []string{box.Render("MONITORING REPORT", b.String())}

	if len(r.RecentResults) > 0 {
		lines := make([]string, 0, len(r.RecentResults))
		for _, c := range r.RecentResults {
			counts := c.Counts()
			health := c.Health()
			lines = append(lines, fmt.Sprintf("#%-4d %s  %s  ok %d · warn %d · err %d · alerts %d",
				c.Number,
				c.StartTime.Format(time.TimeOnly),
				lipgloss.NewStyle().Foreground(HealthColor(health)).Render(padRight(string(health), 8)),
				counts.OK, counts.Warning, counts.Failed, c.AlertCount))
		}
		sections = append(sections, box.Render("RECENT CYCLES", strings.Join(lines, "\n")))
	}

	if len(r.RecentAlerts) > 0 {
		lines := make([]string, 0, len(r.RecentAlerts))
		for _, a := range r.RecentAlerts {
			level := lipgloss.NewStyle().Foreground(LevelColor(a.Level)).Render(padRight(string(a.Level), 8))
			lines = append(lines, fmt.Sprintf("%s %s %s", a.Timestamp.Format(time.TimeOnly), level, a.Message))
		}
		sections = append(sections, box.Render("RECENT ALERTS", strings.Join(lines, "\n")))
	} else {
		sections = append(sections, styles.Success.Render("✓ No alerts recorded"))
	}

	return strings.Join(sections, "\n")
}
