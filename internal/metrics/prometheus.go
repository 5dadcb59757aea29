package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/domain"
)

// Exporter bundles the Prometheus collectors fed by a run. It observes the
// Aggregator, the alert log, the check runner and the cycle scheduler.
type Exporter struct {
	LoadTimeSec    prometheus.Histogram
	PagesMonitored prometheus.Counter
	CheckErrors    prometheus.Counter
	LastRun        prometheus.Gauge
	CheckOutcomes  *prometheus.CounterVec
	Alerts         *prometheus.CounterVec
	Cycles         *prometheus.CounterVec
	CycleDuration  prometheus.Histogram

	registry *prometheus.Registry
}

// NewExporter creates the collectors and registers them with registry.
func NewExporter(registry *prometheus.Registry) *Exporter {
	e := &Exporter{
		LoadTimeSec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webprobe_page_load_seconds",
			Help:    "Page load time measured by the checks, in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10},
		}),
		PagesMonitored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webprobe_pages_monitored_total",
			Help: "Total number of pages that rendered without a failed check.",
		}),
		CheckErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webprobe_check_errors_total",
			Help: "Total number of checks that ended in ERROR or DOWN.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "webprobe_last_run_timestamp_seconds",
			Help: "Unix time the last monitoring cycle finished.",
		}),
		CheckOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webprobe_check_outcomes_total",
			Help: "Total number of check outcomes by check and status.",
		}, []string{"check", "status"}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webprobe_alerts_total",
			Help: "Total number of alerts raised by level and metric.",
		}, []string{"level", "metric"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webprobe_cycles_total",
			Help: "Total number of completed cycles by overall health.",
		}, []string{"health"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "webprobe_cycle_duration_seconds",
			Help:    "Wall time of a monitoring cycle, in seconds.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		registry: registry,
	}

	registry.MustRegister(
		e.LoadTimeSec,
		e.PagesMonitored,
		e.CheckErrors,
		e.LastRun,
		e.CheckOutcomes,
		e.Alerts,
		e.Cycles,
		e.CycleDuration,
	)

	return e
}

// LoadTimeRecorded implements Observer.
func (e *Exporter) LoadTimeRecorded(seconds float64) {
	e.LoadTimeSec.Observe(seconds)
}

// PageMonitored implements Observer.
func (e *Exporter) PageMonitored() {
	e.PagesMonitored.Inc()
}

// ErrorCounted implements Observer.
func (e *Exporter) ErrorCounted() {
	e.CheckErrors.Inc()
}

// RunMarked implements Observer.
func (e *Exporter) RunMarked(at time.Time) {
	e.LastRun.Set(float64(at.UnixNano()) / float64(time.Second))
}

// AlertRecorded counts an alert.
func (e *Exporter) AlertRecorded(a domain.Alert) {
	e.Alerts.WithLabelValues(string(a.Level), a.Metric).Inc()
}

// OutcomeRecorded counts a check outcome.
func (e *Exporter) OutcomeRecorded(o domain.CheckOutcome) {
	e.CheckOutcomes.WithLabelValues(string(o.Check), string(o.Status)).Inc()
}

// CycleCompleted counts a sealed cycle.
func (e *Exporter) CycleCompleted(r *domain.CycleResult) {
	e.Cycles.WithLabelValues(string(r.Health())).Inc()
	e.CycleDuration.Observe(r.Duration().Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (e *Exporter) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("serving prometheus metrics")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

var _ Observer = (*Exporter)(nil)
