package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/alert"
	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/config"
	"github.com/mrz1836/webprobe/internal/cycle"
	"github.com/mrz1836/webprobe/internal/metrics"
	"github.com/mrz1836/webprobe/internal/monitor"
	"github.com/mrz1836/webprobe/internal/probe"
	"github.com/mrz1836/webprobe/internal/report"
	"github.com/mrz1836/webprobe/internal/tui"
)

// engineDeps are the parts of the engine a command (or a test) supplies.
type engineDeps struct {
	Launcher  browser.Launcher
	Clock     clock.Clock
	Output    tui.Output
	Interrupt <-chan struct{}
	Logger    zerolog.Logger

	// Registry receives the Prometheus collectors. When nil a registry is
	// only created if metrics.listen_addr is set.
	Registry *prometheus.Registry
}

// engine is one fully wired monitoring run.
type engine struct {
	monitor   *monitor.Monitor
	scheduler *cycle.Scheduler
	reports   *report.Generator
	alerts    *alert.Log
	metrics   *metrics.Aggregator
	exporter  *metrics.Exporter
}

// buildEngine wires the monitoring engine for cfg. Every collaborator is
// owned by the returned engine; nothing is shared between runs.
func buildEngine(ctx context.Context, cfg *config.Config, deps engineDeps) (*engine, error) {
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	out := deps.Output
	if out == nil {
		out = tui.Discard()
	}
	logger := deps.Logger

	registry := deps.Registry
	if registry == nil && cfg.Metrics.ListenAddr != "" {
		registry = prometheus.NewRegistry()
	}

	var (
		exporter        *metrics.Exporter
		metricObservers []metrics.Observer
		alertObservers  []alert.Observer
		outcomeObs      []probe.OutcomeObserver
		cycleObs        []cycle.Observer
	)
	if registry != nil {
		exporter = metrics.NewExporter(registry)
		metricObservers = append(metricObservers, exporter)
		alertObservers = append(alertObservers, exporter)
		outcomeObs = append(outcomeObs, exporter)
		cycleObs = append(cycleObs, exporter)
	}

	alerts := alert.NewLog(clk, logger, alertObservers...)
	agg := metrics.NewAggregator(metricObservers...)

	runner := probe.NewRunner(probe.Options{
		BaseURL:       cfg.Target.BaseURL,
		PageTimeout:   cfg.Probe.PageTimeout,
		SlowThreshold: cfg.Probe.SlowThreshold,
	}, probe.Deps{
		Clock:     clk,
		Alerts:    alerts,
		Metrics:   agg,
		Reporter:  out,
		Observers: outcomeObs,
		Logger:    logger,
	})

	sched := cycle.NewScheduler(cycle.Options{CheckPacing: cfg.Probe.CheckPacing}, cycle.Deps{
		Browser:   browser.NewManager(deps.Launcher, logger),
		Runner:    runner,
		Clock:     clk,
		Alerts:    alerts,
		Metrics:   agg,
		Output:    out,
		Observers: cycleObs,
		Logger:    logger,
	})

	sinks := []report.Sink{report.NewFileSink(cfg.Report.Dir)}
	if cfg.Report.S3.Enabled {
		s3Sink, err := report.NewS3Sink(ctx, cfg.Report.S3, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3Sink)
	}

	reports := report.NewGenerator(report.Options{
		Target:       cfg.Target.BaseURL,
		Format:       cfg.Report.Format,
		RecentAlerts: cfg.Report.RecentAlerts,
		RecentCycles: cfg.Report.RecentCycles,
	}, report.Deps{
		Clock:   clk,
		Alerts:  alerts,
		Metrics: agg,
		Cycles:  sched,
		Sinks:   sinks,
		Logger:  logger,
	})

	mon := monitor.New(monitor.Options{
		Target:   cfg.Target.BaseURL,
		Interval: cfg.Probe.Interval,
	}, monitor.Deps{
		Cycles:    sched,
		Reports:   reports,
		Clock:     clk,
		Output:    out,
		Interrupt: deps.Interrupt,
		Logger:    logger.With().Str("run_id", reports.RunID()).Logger(),
	})

	return &engine{
		monitor:   mon,
		scheduler: sched,
		reports:   reports,
		alerts:    alerts,
		metrics:   agg,
		exporter:  exporter,
	}, nil
}
