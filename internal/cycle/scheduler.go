// Package cycle runs one monitoring cycle: acquire a browser, run the five
// checks in order with a pause between them, release the browser and print
// the cycle summary.
package cycle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/alert"
	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/domain"
	"github.com/mrz1836/webprobe/internal/metrics"
	"github.com/mrz1836/webprobe/internal/probe"
)

// Output receives the operator-facing lines of a cycle.
type Output interface {
	probe.Reporter
	CycleStarted(n int, at time.Time)
	CycleFinished(r *domain.CycleResult, meanLoad float64)
	Error(err error)
}

// Observer is told about every sealed cycle.
type Observer interface {
	CycleCompleted(r *domain.CycleResult)
}

// Options holds cycle settings.
type Options struct {
	// CheckPacing is the pause between consecutive checks.
	CheckPacing time.Duration
}

// Deps are the collaborators a Scheduler drives.
type Deps struct {
	Browser   *browser.Manager
	Runner    *probe.Runner
	Clock     clock.Clock
	Alerts    *alert.Log
	Metrics   *metrics.Aggregator
	Output    Output
	Observers []Observer
	Logger    zerolog.Logger
}

// Scheduler runs cycles and keeps the history of the current run.
type Scheduler struct {
	opts      Options
	browser   *browser.Manager
	runner    *probe.Runner
	clock     clock.Clock
	alerts    *alert.Log
	metrics   *metrics.Aggregator
	out       Output
	observers []Observer
	logger    zerolog.Logger

	mu      sync.Mutex
	number  int
	history []*domain.CycleResult
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts Options, deps Deps) *Scheduler {
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Scheduler{
		opts:      opts,
		browser:   deps.Browser,
		runner:    deps.Runner,
		clock:     clk,
		alerts:    deps.Alerts,
		metrics:   deps.Metrics,
		out:       deps.Output,
		observers: deps.Observers,
		logger:    deps.Logger.With().Str("component", "cycle").Logger(),
	}
}

// RunCycle runs the five checks through one browser session.
//
// When no browser can be acquired the cycle is skipped: RunCycle returns a
// nil result and an error wrapping ErrBrowserUnavailable. When ctx ends
// between checks the remaining checks are skipped and the partial result is
// sealed and returned together with ctx's error.
func (s *Scheduler) RunCycle(ctx context.Context) (*domain.CycleResult, error) {
	s.mu.Lock()
	s.number++
	n := s.number
	s.mu.Unlock()

	result := &domain.CycleResult{
		ID:        uuid.NewString(),
		Number:    n,
		StartTime: s.clock.Now(),
		Outcomes:  make([]domain.CheckOutcome, 0, len(domain.CheckOrder())),
	}
	mark := s.alerts.Len()
	log := s.logger.With().Int("cycle", n).Str("cycle_id", result.ID).Logger()

	log.Info().Msg("cycle started")
	if s.out != nil {
		s.out.CycleStarted(n, result.StartTime)
	}

	acquired := false
	err := browser.WithSession(ctx, s.browser, func(sess *browser.Session) error {
		acquired = true
		for i, check := range domain.CheckOrder() {
			if i > 0 {
				if err := s.clock.Sleep(ctx, s.opts.CheckPacing); err != nil {
					return err
				}
			}
			result.Outcomes = append(result.Outcomes, s.runner.Run(ctx, sess, check))
		}
		return nil
	})
	if !acquired {
		log.Error().Err(err).Msg("cycle skipped, no browser")
		if s.out != nil {
			s.out.Error(err)
		}
		return nil, err
	}

	s.seal(result, mark)
	if err != nil {
		log.Warn().Err(err).Int("checks_run", len(result.Outcomes)).Msg("cycle cut short")
		return result, err
	}
	return result, nil
}

// seal stamps the end time and alert count, records the result and prints
// the summary.
func (s *Scheduler) seal(result *domain.CycleResult, mark int) {
	result.EndTime = s.clock.Now()
	result.AlertCount = len(s.alerts.Since(mark))

	s.mu.Lock()
	s.history = append(s.history, result)
	s.mu.Unlock()

	s.metrics.MarkRun(result.EndTime)
	for _, o := range s.observers {
		o.CycleCompleted(result)
	}

	counts := result.Counts()
	s.logger.Info().
		Int("cycle", result.Number).
		Str("health", string(Classify(result))).
		Int("ok", counts.OK).
		Int("warning", counts.Warning).
		Int("failed", counts.Failed).
		Int("alerts", result.AlertCount).
		Dur("duration", result.Duration()).
		Msg("cycle finished")

	if s.out != nil {
		s.out.CycleFinished(result, s.metrics.MeanLoadTime())
	}
}

// Classify is CRITICAL when any check ended ERROR or DOWN, WARNING when any
// warned, else OK.
func Classify(r *domain.CycleResult) domain.CycleHealth {
	return r.Health()
}

// Count returns how many cycles completed.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// History returns every completed cycle, oldest first.
func (s *Scheduler) History() []*domain.CycleResult {
	return s.Recent(0)
}

// Recent returns up to n of the latest cycles, oldest first. n <= 0 returns
// all of them.
func (s *Scheduler) Recent(n int) []*domain.CycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if n > 0 && len(s.history) > n {
		start = len(s.history) - n
	}
	out := make([]*domain.CycleResult, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}
