// Package probe runs the scripted checks against the monitored shop.
//
// Every check returns a CheckOutcome and never panics or errors past its
// boundary. Side effects on the alert log and the metrics aggregator are
// applied in one place, after the check has decided its outcome, so the
// counting rules hold for every check alike.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/alert"
	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/metrics"
)

// Reporter receives operator-facing status lines.
type Reporter interface {
	CheckFinished(o domain.CheckOutcome)
	AlertRaised(a domain.Alert)
}

// OutcomeObserver is told about every sealed outcome.
type OutcomeObserver interface {
	OutcomeRecorded(o domain.CheckOutcome)
}

// Options holds the check settings.
type Options struct {
	// BaseURL is prefixed to every check path.
	BaseURL string

	// PageTimeout bounds navigation and the wait for the page body.
	PageTimeout time.Duration

	// SlowThreshold is the load time above which a slow-page alert is raised.
	SlowThreshold time.Duration
}

// Deps are the collaborators a Runner writes to.
type Deps struct {
	Clock     clock.Clock
	Alerts    *alert.Log
	Metrics   *metrics.Aggregator
	Reporter  Reporter
	Observers []OutcomeObserver
	Logger    zerolog.Logger
}

// Runner executes individual checks.
type Runner struct {
	opts      Options
	clock     clock.Clock
	alerts    *alert.Log
	metrics   *metrics.Aggregator
	reporter  Reporter
	observers []OutcomeObserver
	logger    zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options, deps Deps) *Runner {
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Runner{
		opts:      opts,
		clock:     clk,
		alerts:    deps.Alerts,
		metrics:   deps.Metrics,
		reporter:  deps.Reporter,
		observers: deps.Observers,
		logger:    deps.Logger.With().Str("component", "probe").Logger(),
	}
}

// pendingAlert is an alert a check wants raised once its outcome is final.
type pendingAlert struct {
	level   domain.Level
	metric  string
	value   float64
	message string
}

// checkRun collects what a single check decided.
type checkRun struct {
	alerts []pendingAlert
}

func (c *checkRun) alert(level domain.Level, metric string, value float64, format string, args ...any) {
	c.alerts = append(c.alerts, pendingAlert{
		level:   level,
		metric:  metric,
		value:   value,
		message: fmt.Sprintf(format, args...),
	})
}

type checkFunc func(ctx context.Context, d browser.Driver, run *checkRun) domain.Outcome

// Run executes one check through d and applies its side effects.
func (r *Runner) Run(ctx context.Context, d browser.Driver, check domain.CheckName) domain.CheckOutcome {
	spec, ok := checks[check]
	if !ok {
		run := &checkRun{}
		err := fmt.Errorf("unknown check %q: %w", check, probeerrors.ErrUnexpectedFailure)
		run.alert(domain.LevelError, string(check), 0, "%s", err)
		return r.finish(check, domain.Failed(err), run)
	}

	r.logger.Debug().Str("check", string(check)).Msg("running check")
	outcome, run := r.guard(ctx, d, spec)
	return r.finish(check, outcome, run)
}

// guard runs the check and turns a panic into an ERROR outcome with the
// check's failure alert. Alerts queued before the panic are dropped.
func (r *Runner) guard(ctx context.Context, d browser.Driver, spec checkSpec) (outcome domain.Outcome, run *checkRun) {
	run = &checkRun{}
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: %v", probeerrors.ErrUnexpectedFailure, p)
			r.logger.Error().Interface("panic", p).Str("check", string(spec.name)).Msg("check panicked")
			run = &checkRun{}
			outcome = spec.fail(run, err)
		}
	}()
	return spec.fn(r, ctx, d, run), run
}

// finish seals the outcome, then applies the metric and alert side effects
// and prints the status lines.
func (r *Runner) finish(check domain.CheckName, outcome domain.Outcome, run *checkRun) domain.CheckOutcome {
	sealed := outcome.Seal(check, r.clock.Now())

	if sealed.HasLoadTime() {
		r.metrics.RecordLoadTime(sealed.LoadSeconds())
	}
	if sealed.Status.IsFailure() {
		r.metrics.IncErrors()
	} else {
		r.metrics.IncPagesMonitored()
	}

	r.logger.Info().
		Str("check", string(check)).
		Str("status", string(sealed.Status)).
		Float64("load_time", sealed.LoadSeconds()).
		Str("error", sealed.Error).
		Msg("check finished")

	if r.reporter != nil {
		r.reporter.CheckFinished(sealed)
	}
	for _, o := range r.observers {
		o.OutcomeRecorded(sealed)
	}

	for _, p := range run.alerts {
		a := r.alerts.Record(p.level, p.message, p.metric, p.value)
		if r.reporter != nil {
			r.reporter.AlertRaised(a)
		}
	}

	return sealed
}

// load navigates to path and waits for the page body. The returned duration
// runs from the start of navigation to body presence.
func (r *Runner) load(ctx context.Context, d browser.Driver, path string) (browser.Element, time.Duration, error) {
	start := r.clock.Now()

	navCtx, cancel := context.WithTimeout(ctx, r.opts.PageTimeout)
	defer cancel()

	if err := d.Navigate(navCtx, r.url(path)); err != nil {
		return nil, 0, err
	}

	body, err := d.WaitForPresence(ctx, bodySelector, r.opts.PageTimeout)
	if err != nil {
		return nil, 0, err
	}
	return body, r.clock.Now().Sub(start), nil
}

func (r *Runner) slow(elapsed time.Duration) bool {
	return elapsed > r.opts.SlowThreshold
}
