// Package monitor repeats monitoring cycles until a deadline or an interrupt
// and always finishes with a report.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/report"
)

// State is where a Monitor is in its lifecycle.
type State string

// Monitor states. A Monitor moves Idle → Running → Stopped or Completed once.
const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateStopped   State = "STOPPED"
	StateCompleted State = "COMPLETED"
)

// finalReportTimeout bounds the final report when the run was hard-stopped.
const finalReportTimeout = 30 * time.Second

// CycleRunner runs one monitoring cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*domain.CycleResult, error)
}

// ReportGenerator builds and stores the run report.
type ReportGenerator interface {
	Generate(ctx context.Context) (*report.Report, []string, error)
}

// Output receives the operator-facing lines of a run.
type Output interface {
	MonitorStarted(target string, duration, interval time.Duration)
	Waiting(d time.Duration)
	ReportSaved(location string)
	Warning(msg string)
	Error(err error)
}

// Options holds run settings.
type Options struct {
	// Target is shown in the start banner.
	Target string

	// Interval is the pause between cycles.
	Interval time.Duration
}

// Deps are the collaborators a Monitor drives.
type Deps struct {
	Cycles  CycleRunner
	Reports ReportGenerator
	Clock   clock.Clock
	Output  Output

	// Interrupt closes when the operator asks to stop. Nil never interrupts.
	Interrupt <-chan struct{}

	Logger zerolog.Logger
}

// Result describes how a run ended.
type Result struct {
	State     State
	Cycles    int
	Report    *report.Report
	Locations []string
}

// Monitor runs cycles on a schedule.
type Monitor struct {
	opts      Options
	cycles    CycleRunner
	reports   ReportGenerator
	clock     clock.Clock
	out       Output
	interrupt <-chan struct{}
	logger    zerolog.Logger

	mu    sync.Mutex
	state State
}

// New creates an idle Monitor.
func New(opts Options, deps Deps) *Monitor {
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Monitor{
		opts:      opts,
		cycles:    deps.Cycles,
		reports:   deps.Reports,
		clock:     clk,
		out:       deps.Output,
		interrupt: deps.Interrupt,
		logger:    deps.Logger.With().Str("component", "monitor").Logger(),
		state:     StateIdle,
	}
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return fmt.Errorf("%w: state is %s", probeerrors.ErrMonitorStarted, m.state)
	}
	m.state = StateRunning
	return nil
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Run repeats cycles until duration has elapsed or the run is interrupted,
// then generates the final report.
//
// After each cycle the monitor waits for the interval, cut short at the
// deadline. An interrupt or a canceled ctx is honored between cycles and
// during the wait; a cycle already running always finishes so its browser is
// released. The returned error is the report error, if any.
func (m *Monitor) Run(ctx context.Context, duration time.Duration) (*Result, error) {
	if err := m.start(); err != nil {
		return nil, err
	}

	deadline := m.clock.Now().Add(duration)
	m.logger.Info().
		Str("target", m.opts.Target).
		Dur("duration", duration).
		Dur("interval", m.opts.Interval).
		Time("deadline", deadline).
		Msg("monitoring started")
	if m.out != nil {
		m.out.MonitorStarted(m.opts.Target, duration, m.opts.Interval)
	}

	cycles := 0
	final := StateCompleted
	for m.clock.Now().Before(deadline) {
		if m.stopRequested(ctx) {
			final = StateStopped
			break
		}

		m.runCycle(ctx)
		cycles++

		remaining := deadline.Sub(m.clock.Now())
		if remaining <= 0 {
			break
		}
		if m.stopRequested(ctx) {
			final = StateStopped
			break
		}

		wait := min(m.opts.Interval, remaining)
		if m.out != nil {
			m.out.Waiting(wait)
		}
		if err := m.sleep(ctx, wait); err != nil {
			final = StateStopped
			break
		}
	}

	m.setState(final)
	m.logger.Info().Str("state", string(final)).Int("cycles", cycles).Msg("monitoring finished")
	if final == StateStopped && m.out != nil {
		m.out.Warning("Monitoring stopped by operator")
	}

	return m.finalize(ctx, final, cycles)
}

// RunOnce runs a single cycle and reports on it.
func (m *Monitor) RunOnce(ctx context.Context) (*Result, error) {
	if err := m.start(); err != nil {
		return nil, err
	}

	m.runCycle(ctx)
	m.setState(StateCompleted)
	return m.finalize(ctx, StateCompleted, 1)
}

// runCycle runs one cycle on a context that the interrupt cannot cancel.
// A skipped cycle (no browser) is logged and the run carries on.
func (m *Monitor) runCycle(ctx context.Context) {
	if _, err := m.cycles.RunCycle(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error().Err(err).Msg("cycle did not complete")
	}
}

// finalize generates the final report.
func (m *Monitor) finalize(ctx context.Context, state State, cycles int) (*Result, error) {
	res := &Result{State: state, Cycles: cycles}

	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalReportTimeout)
	defer cancel()

	r, locations, err := m.reports.Generate(reportCtx)
	res.Report = r
	res.Locations = locations
	if m.out != nil {
		for _, loc := range locations {
			m.out.ReportSaved(loc)
		}
	}
	if err != nil {
		m.logger.Error().Err(err).Msg("final report failed")
		return res, probeerrors.Wrap(err, "generate final report")
	}
	return res, nil
}

// stopRequested reports whether the operator interrupted or ctx ended.
func (m *Monitor) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-m.interrupt:
		return true
	default:
		return false
	}
}

// sleep waits for d, returning early with an error on interrupt or when ctx
// ends.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) error {
	sleepCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if m.interrupt != nil {
		go func() {
			select {
			case <-m.interrupt:
				cancel()
			case <-sleepCtx.Done():
			}
		}()
	}
	return m.clock.Sleep(sleepCtx, d)
}
