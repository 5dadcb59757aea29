package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/webprobe/internal/browser"
	"github.com/mrz1836/webprobe/internal/config"
	"github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/monitor"
	"github.com/mrz1836/webprobe/internal/signal"
	"github.com/mrz1836/webprobe/internal/tui"
)

// RunFlags holds flags specific to the run command.
type RunFlags struct {
	// Once runs a single cycle and writes a report.
	Once bool
	// Duration is how long a continuous run lasts.
	Duration time.Duration
	// Interval is the pause between cycles.
	Interval time.Duration
	// SlowThreshold is the load time above which a slow-page alert is raised.
	SlowThreshold time.Duration
	// URL overrides target.base_url.
	URL string
	// ReportDir overrides report.dir.
	ReportDir string
	// ReportFormat overrides report.format.
	ReportFormat string
	// MetricsAddr overrides metrics.listen_addr.
	MetricsAddr string
}

// AddRunCommand adds the run command to the root command.
func AddRunCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newRunCmd(global, &RunFlags{}))
}

func newRunCmd(global *GlobalFlags, flags *RunFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor the target shop",
		Long: `Run the five checks (availability, search, cart, checkout, health)
against the target shop and write a report.

Without flags the run is continuous for probe.duration (default 60m), one
cycle every probe.interval (default 60s). Ctrl+C stops after the current
cycle and still writes the final report.

Examples:
  webprobe run --once
  webprobe run --duration 30m --interval 2m
  webprobe run --url http://shop.internal:8080 --report-format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.Once && cmd.Flags().Changed("duration") {
				return errors.NewExitCode2Error(
					fmt.Errorf("%w: --once and --duration", errors.ErrConflictingFlags))
			}
			return runMonitor(cmd.Context(), cmd.OutOrStdout(), global, flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.Once, "once", false, "run a single cycle and exit")
	f.DurationVar(&flags.Duration, "duration", 0, "how long to monitor (default from config, 60m)")
	f.DurationVar(&flags.Interval, "interval", 0, "pause between cycles (default from config, 60s)")
	f.DurationVar(&flags.SlowThreshold, "slow-threshold", 0, "load time that raises a slow-page alert (default 5s)")
	f.StringVar(&flags.URL, "url", "", "base URL of the shop to monitor")
	f.StringVar(&flags.ReportDir, "report-dir", "", "directory reports are written to")
	f.StringVar(&flags.ReportFormat, "report-format", "", "report format (json|yaml)")
	f.StringVar(&flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

// overrides converts the run flags into a partial config.
func (f *RunFlags) overrides() *config.Config {
	return &config.Config{
		Target: config.TargetConfig{BaseURL: f.URL},
		Probe: config.ProbeConfig{
			Duration:      f.Duration,
			Interval:      f.Interval,
			SlowThreshold: f.SlowThreshold,
		},
		Report: config.ReportConfig{
			Dir:    f.ReportDir,
			Format: f.ReportFormat,
		},
		Metrics: config.MetricsConfig{ListenAddr: f.MetricsAddr},
	}
}

func runMonitor(ctx context.Context, w io.Writer, global *GlobalFlags, flags *RunFlags) error {
	out := tui.NewOutput(w, global.Output)

	cfg, err := config.LoadWithOverrides(ctx, flags.overrides())
	if err != nil {
		out.Error(err)
		return errors.NewExitCode2Error(err)
	}

	sig := signal.NewHandler(ctx)
	defer sig.Stop()

	eng, err := buildEngine(sig.Context(), cfg, engineDeps{
		Launcher: browser.NewRodLauncher(browser.Options{
			Headless:     cfg.Browser.Headless,
			WindowWidth:  cfg.Browser.WindowWidth,
			WindowHeight: cfg.Browser.WindowHeight,
			Candidates:   cfg.Browser.Candidates,
		}),
		Output:    out,
		Interrupt: sig.Interrupted(),
		Logger:    GetLogger(),
	})
	if err != nil {
		out.Error(err)
		return err
	}

	return executeRun(sig.Context(), eng, cfg, flags.Once, out)
}

// executeRun runs the engine, serving metrics alongside when configured.
func executeRun(ctx context.Context, eng *engine, cfg *config.Config, once bool, out tui.Output) error {
	logger := GetLogger()

	serveCtx, stopServing := context.WithCancel(ctx)
	var eg errgroup.Group
	if eng.exporter != nil && cfg.Metrics.ListenAddr != "" {
		eg.Go(func() error {
			return eng.exporter.Serve(serveCtx, cfg.Metrics.ListenAddr, logger)
		})
	}

	var (
		res    *monitor.Result
		runErr error
	)
	if once {
		res, runErr = eng.monitor.RunOnce(ctx)
	} else {
		res, runErr = eng.monitor.Run(ctx, cfg.Probe.Duration)
	}

	stopServing()
	if err := eg.Wait(); err != nil {
		logger.Warn().Err(err).Msg("metrics endpoint stopped with an error")
	}

	if runErr != nil {
		out.Error(runErr)
		return runErr
	}

	out.Success(fmt.Sprintf("Monitoring %s after %d cycle(s)", stateVerb(res.State), res.Cycles))
	return nil
}

func stateVerb(s monitor.State) string {
	if s == monitor.StateStopped {
		return "stopped"
	}
	return "completed"
}
