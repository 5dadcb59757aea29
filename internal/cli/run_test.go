package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/webprobe/internal/browser/browsertest"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/config"
	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/report"
	"github.com/mrz1836/webprobe/internal/tui"
)

// healthyShop scripts a shop where every check passes.
func healthyShop(clk *clock.Manual) *browsertest.Driver {
	driver := browsertest.NewDriver(clk)
	driver.SetAll(browsertest.Page{LoadDelay: 800 * time.Millisecond},
		constants.PathHome, constants.PathCart, constants.PathCheckout)
	driver.SetPage(constants.PathProducts, browsertest.Page{LoadDelay: time.Second, Products: 3})
	driver.SetPage(constants.PathHealth, browsertest.Page{Body: `{"status":"healthy"}`})
	return driver
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Target.BaseURL = "http://shop.test"
	cfg.Report.Dir = t.TempDir()
	return cfg
}

func TestRunCmd_OnceAndDurationConflict(t *testing.T) {
	t.Setenv("WEBPROBE_HOME", t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"run", "--once", "--duration", "5m"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRunCmd_RejectsArguments(t *testing.T) {
	t.Setenv("WEBPROBE_HOME", t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"run", "http://shop.test"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRunFlags_Overrides(t *testing.T) {
	t.Parallel()

	flags := &RunFlags{
		Duration:     10 * time.Minute,
		Interval:     30 * time.Second,
		URL:          "http://shop.test",
		ReportFormat: "yaml",
		MetricsAddr:  ":9464",
	}
	o := flags.overrides()

	assert.Equal(t, "http://shop.test", o.Target.BaseURL)
	assert.Equal(t, 10*time.Minute, o.Probe.Duration)
	assert.Equal(t, 30*time.Second, o.Probe.Interval)
	assert.Zero(t, o.Probe.SlowThreshold)
	assert.Equal(t, "yaml", o.Report.Format)
	assert.Empty(t, o.Report.Dir)
	assert.Equal(t, ":9464", o.Metrics.ListenAddr)
}

func TestExecuteRun_Once(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	clk := clock.NewManual(time.Date(2026, 10, 17, 14, 3, 9, 0, time.UTC))
	registry := prometheus.NewRegistry()
	var buf bytes.Buffer
	out := tui.NewOutput(&buf, OutputJSON)

	eng, err := buildEngine(context.Background(), cfg, engineDeps{
		Launcher: &browsertest.Launcher{Driver: healthyShop(clk)},
		Clock:    clk,
		Output:   out,
		Logger:   zerolog.Nop(),
		Registry: registry,
	})
	require.NoError(t, err)
	require.NotNil(t, eng.exporter)

	require.NoError(t, executeRun(context.Background(), eng, cfg, true, out))

	assert.Equal(t, 1, eng.scheduler.Count())
	assert.Zero(t, eng.alerts.Len())
	assert.Contains(t, buf.String(), "Monitoring completed after 1 cycle(s)")

	entries, err := filepath.Glob(filepath.Join(cfg.Report.Dir, "webprobe_report_*"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(entries[0]), "webprobe_report_20261017_1403"), filepath.Base(entries[0]))
	assert.True(t, strings.HasSuffix(filepath.Base(entries[0]), ".json"), filepath.Base(entries[0]))

	families, err := registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "webprobe_cycles_total")
	assert.Contains(t, names, "webprobe_page_load_seconds")
}

func TestExecuteRun_Continuous(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Probe.Duration = 2 * time.Minute
	cfg.Probe.Interval = time.Minute
	cfg.Report.Format = constants.ReportFormatYAML
	clk := clock.NewManual(time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	out := tui.NewOutput(&buf, OutputJSON)

	eng, err := buildEngine(context.Background(), cfg, engineDeps{
		Launcher: &browsertest.Launcher{Driver: healthyShop(clk)},
		Clock:    clk,
		Output:   out,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	assert.Nil(t, eng.exporter, "no registry and no listen address")

	require.NoError(t, executeRun(context.Background(), eng, cfg, false, out))
	assert.Equal(t, 2, eng.scheduler.Count())
	assert.Contains(t, buf.String(), "Monitoring completed after 2 cycle(s)")

	entries, err := filepath.Glob(filepath.Join(cfg.Report.Dir, "webprobe_report_*"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := report.Load(entries[0])
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Summary.PagesMonitored)
	assert.Equal(t, "http://shop.test", stored.Target)
}

func TestBuildEngine_S3RequiresBucket(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Report.S3.Enabled = true

	_, err := buildEngine(context.Background(), cfg, engineDeps{
		Launcher: &browsertest.Launcher{Driver: healthyShop(clock.NewManual(time.Now()))},
		Logger:   zerolog.Nop(),
	})
	require.Error(t, err)
}

func TestStateVerb(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stopped", stateVerb("STOPPED"))
	assert.Equal(t, "completed", stateVerb("COMPLETED"))
}
