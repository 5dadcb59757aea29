package monitor_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/webprobe/internal/alert"
	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/browser/browsertest"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/cycle"
	"github.com/mrz1836/webprobe/internal/domain"
	"github.com/mrz1836/webprobe/internal/metrics"
	"github.com/mrz1836/webprobe/internal/monitor"
	"github.com/mrz1836/webprobe/internal/probe"
	"github.com/mrz1836/webprobe/internal/report"
	"github.com/mrz1836/webprobe/internal/tui"
)

// TestContinuousRun wires the whole engine against a scripted shop: two
// minutes at a one-minute interval runs two cycles and writes one report.
func TestContinuousRun(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC))
	driver := browsertest.NewDriver(clk)
	driver.SetAll(browsertest.Page{LoadDelay: 900 * time.Millisecond},
		constants.PathHome, constants.PathCart)
	driver.SetPage(constants.PathProducts, browsertest.Page{LoadDelay: time.Second, Products: 4})
	driver.SetPage(constants.PathCheckout, browsertest.Page{LoadDelay: 6 * time.Second})
	driver.SetPage(constants.PathHealth, browsertest.Page{Body: `{"status":"healthy"}`})

	out := tui.Discard()
	alerts := alert.NewLog(clk, zerolog.Nop())
	agg := metrics.NewAggregator()
	runner := probe.NewRunner(probe.Options{
		BaseURL:       "http://shop.test",
		PageTimeout:   constants.DefaultPageTimeout,
		SlowThreshold: constants.DefaultSlowThreshold,
	}, probe.Deps{Clock: clk, Alerts: alerts, Metrics: agg, Reporter: out, Logger: zerolog.Nop()})
	sched := cycle.NewScheduler(cycle.Options{CheckPacing: constants.DefaultCheckPacing}, cycle.Deps{
		Browser: browser.NewManager(&browsertest.Launcher{Driver: driver}, zerolog.Nop()),
		Runner:  runner,
		Clock:   clk,
		Alerts:  alerts,
		Metrics: agg,
		Output:  out,
		Logger:  zerolog.Nop(),
	})
	dir := t.TempDir()
	reports := report.NewGenerator(report.Options{RunID: "scenario"}, report.Deps{
		Clock:   clk,
		Alerts:  alerts,
		Metrics: agg,
		Cycles:  sched,
		Sinks:   []report.Sink{report.NewFileSink(dir)},
		Logger:  zerolog.Nop(),
	})
	m := monitor.New(monitor.Options{Target: "http://shop.test", Interval: time.Minute}, monitor.Deps{
		Cycles:  sched,
		Reports: reports,
		Clock:   clk,
		Output:  out,
		Logger:  zerolog.Nop(),
	})

	res, err := m.Run(context.Background(), 2*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, monitor.StateCompleted, res.State)
	assert.Equal(t, 2, sched.Count())
	require.Len(t, res.Locations, 1)

	stored, err := report.Load(res.Locations[0])
	require.NoError(t, err)
	assert.Equal(t, report.Summary{TotalCycles: 2, PagesMonitored: 10, ErrorsDetected: 0, TotalAlerts: 2}, stored.Summary)
	assert.Equal(t, "6.00s", stored.Performance.MaxLoadTime)
	assert.Equal(t, "0.90s", stored.Performance.MinLoadTime)
	require.Len(t, stored.RecentResults, 2)
	for _, r := range stored.RecentResults {
		assert.Equal(t, 1, r.AlertCount, "slow checkout warns every cycle")
		assert.Equal(t, domain.CycleOK, cycle.Classify(r), "a slow page is still OK")
	}

	entries, err := filepath.Glob(filepath.Join(dir, "webprobe_report_*"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
