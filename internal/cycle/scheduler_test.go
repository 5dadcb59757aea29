package cycle

import (
	"context"
	"errors"
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
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/metrics"
	"github.com/mrz1836/webprobe/internal/probe"
)

type recordingOutput struct {
	events   []string
	finished []*domain.CycleResult
	means    []float64
	errs     []error
}

func (r *recordingOutput) CheckFinished(o domain.CheckOutcome) {
	r.events = append(r.events, "check:"+string(o.Check))
}
func (r *recordingOutput) AlertRaised(a domain.Alert) { r.events = append(r.events, "alert:"+a.Metric) }
func (r *recordingOutput) CycleStarted(n int, _ time.Time) {
	r.events = append(r.events, "start")
}

func (r *recordingOutput) CycleFinished(res *domain.CycleResult, mean float64) {
	r.events = append(r.events, "finish")
	r.finished = append(r.finished, res)
	r.means = append(r.means, mean)
}
func (r *recordingOutput) Error(err error) { r.errs = append(r.errs, err) }

type cycleObserver struct{ seen []*domain.CycleResult }

func (c *cycleObserver) CycleCompleted(r *domain.CycleResult) { c.seen = append(c.seen, r) }

type fixture struct {
	clock    *clock.Manual
	driver   *browsertest.Driver
	launcher *browsertest.Launcher
	alerts   *alert.Log
	metrics  *metrics.Aggregator
	out      *recordingOutput
	observer *cycleObserver
	sched    *Scheduler
}

var start = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewManual(start)
	f := &fixture{
		clock:    clk,
		driver:   browsertest.NewDriver(clk),
		alerts:   alert.NewLog(clk, zerolog.Nop()),
		metrics:  metrics.NewAggregator(),
		out:      &recordingOutput{},
		observer: &cycleObserver{},
	}
	f.launcher = &browsertest.Launcher{Driver: f.driver}
	runner := probe.NewRunner(probe.Options{
		BaseURL:       "http://shop.test",
		PageTimeout:   constants.DefaultPageTimeout,
		SlowThreshold: constants.DefaultSlowThreshold,
	}, probe.Deps{
		Clock:    clk,
		Alerts:   f.alerts,
		Metrics:  f.metrics,
		Reporter: f.out,
		Logger:   zerolog.Nop(),
	})
	f.sched = NewScheduler(Options{CheckPacing: constants.DefaultCheckPacing}, Deps{
		Browser:   browser.NewManager(f.launcher, zerolog.Nop()),
		Runner:    runner,
		Clock:     clk,
		Alerts:    f.alerts,
		Metrics:   f.metrics,
		Output:    f.out,
		Observers: []Observer{f.observer},
		Logger:    zerolog.Nop(),
	})
	return f
}

func (f *fixture) healthy() {
	f.driver.SetAll(browsertest.Page{LoadDelay: time.Second}, constants.PathHome, constants.PathCart, constants.PathCheckout)
	f.driver.SetPage(constants.PathProducts, browsertest.Page{LoadDelay: time.Second, Products: 3})
	f.driver.SetPage(constants.PathHealth, browsertest.Page{Body: "healthy"})
}

func TestRunCycle_RunsChecksInOrder(t *testing.T) {
	f := newFixture(t)
	f.healthy()

	r, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)
	require.NotNil(t, r)

	checks := make([]domain.CheckName, len(r.Outcomes))
	for i, o := range r.Outcomes {
		checks[i] = o.Check
	}
	assert.Equal(t, domain.CheckOrder(), checks)
	assert.Equal(t, 1, r.Number)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, domain.CycleOK, Classify(r))
	assert.Zero(t, r.AlertCount)
}

func TestRunCycle_PacingBetweenChecksOnly(t *testing.T) {
	f := newFixture(t)
	f.healthy()

	r, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second, time.Second}, f.clock.Sleeps())
	// four 1s page loads, four 1s pauses, instant health
	assert.Equal(t, 8*time.Second, r.Duration())
	assert.Equal(t, start, r.StartTime)
}

func TestRunCycle_ReleasesBrowser(t *testing.T) {
	f := newFixture(t)
	f.driver.SetAll(browsertest.Unreachable(), constants.PathHome, constants.PathProducts,
		constants.PathCart, constants.PathCheckout, constants.PathHealth)

	_, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.launcher.Launches())
	assert.Equal(t, 1, f.driver.Closes())
}

func TestRunCycle_SealsAlertCountAndHistory(t *testing.T) {
	f := newFixture(t)
	f.driver.SetAll(browsertest.Unreachable(), constants.PathHome, constants.PathProducts,
		constants.PathCart, constants.PathCheckout, constants.PathHealth)

	first, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)
	second, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, first.AlertCount)
	assert.Equal(t, 5, second.AlertCount, "alert count is per cycle")
	assert.Equal(t, 10, f.alerts.Len())
	assert.Equal(t, domain.CycleCritical, Classify(second))
	assert.Equal(t, 2, second.Number)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, 2, f.sched.Count())
	assert.Equal(t, []*domain.CycleResult{first, second}, f.sched.History())
	assert.Equal(t, []*domain.CycleResult{second}, f.sched.Recent(1))
	assert.Equal(t, []*domain.CycleResult{first, second}, f.observer.seen)

	snap := f.metrics.Snapshot()
	require.NotNil(t, snap.LastRun)
	assert.Equal(t, second.EndTime, *snap.LastRun)
	assert.Equal(t, 10, snap.ErrorCount)
}

func TestRunCycle_SummaryAfterChecks(t *testing.T) {
	f := newFixture(t)
	f.healthy()
	f.driver.SetPage(constants.PathProducts, browsertest.Page{})

	r, err := f.sched.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start",
		"check:availability",
		"check:search",
		"alert:productos",
		"check:cart",
		"check:checkout",
		"check:health",
		"finish",
	}, f.out.events)
	assert.Equal(t, domain.CycleWarning, Classify(r))
	require.Len(t, f.out.means, 1)
	assert.InDelta(t, 0.75, f.out.means[0], 1e-9, "search on an empty catalog loads instantly")
}

func TestRunCycle_BrowserUnavailable(t *testing.T) {
	f := newFixture(t)
	f.launcher.Err = errors.New("chrome not found")

	r, err := f.sched.RunCycle(context.Background())

	assert.Nil(t, r)
	require.Error(t, err)
	require.ErrorIs(t, err, probeerrors.ErrBrowserUnavailable)
	assert.Zero(t, f.sched.Count())
	assert.Empty(t, f.driver.Visits())
	assert.Nil(t, f.metrics.Snapshot().LastRun)
	require.Len(t, f.out.errs, 1)
	assert.Empty(t, f.out.finished)
}

func TestRunCycle_CanceledBetweenChecks(t *testing.T) {
	f := newFixture(t)
	f.healthy()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := f.sched.RunCycle(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, r)
	assert.Len(t, r.Outcomes, 1)
	assert.Equal(t, 1, f.driver.Closes())
	assert.Equal(t, 1, f.sched.Count())
}

func TestRecent_Bounds(t *testing.T) {
	f := newFixture(t)
	f.healthy()
	for range 7 {
		_, err := f.sched.RunCycle(context.Background())
		require.NoError(t, err)
	}

	tests := []struct {
		n     int
		first int
		count int
	}{
		{0, 1, 7},
		{5, 3, 5},
		{10, 1, 7},
	}
	for _, tt := range tests {
		got := f.sched.Recent(tt.n)
		require.Len(t, got, tt.count)
		assert.Equal(t, tt.first, got[0].Number)
		assert.Equal(t, 7, got[len(got)-1].Number)
	}
}
