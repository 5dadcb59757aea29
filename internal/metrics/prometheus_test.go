package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/webprobe/internal/domain"
)

func TestExporter_MirrorsAggregator(t *testing.T) {
	t.Parallel()

	exp := NewExporter(prometheus.NewRegistry())
	a := NewAggregator(exp)

	a.IncPagesMonitored()
	a.IncErrors()
	a.IncErrors()
	a.RecordLoadTime(1.2)
	a.MarkRun(time.Unix(1700000000, 0))

	assert.InDelta(t, 1.0, testutil.ToFloat64(exp.PagesMonitored), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(exp.CheckErrors), 1e-9)
	assert.InDelta(t, 1700000000.0, testutil.ToFloat64(exp.LastRun), 1e-3)
	assert.Equal(t, 1, testutil.CollectAndCount(exp.LoadTimeSec))
}

func TestExporter_DomainEvents(t *testing.T) {
	t.Parallel()

	exp := NewExporter(prometheus.NewRegistry())

	exp.AlertRecorded(domain.Alert{Level: domain.LevelCritical, Metric: "disponibilidad"})
	exp.OutcomeRecorded(domain.CheckOutcome{Check: domain.CheckCart, Status: domain.StatusError})
	start := time.Unix(1700000000, 0)
	exp.CycleCompleted(&domain.CycleResult{
		StartTime: start,
		EndTime:   start.Add(8 * time.Second),
		Outcomes:  []domain.CheckOutcome{{Status: domain.StatusWarning}},
	})

	assert.InDelta(t, 1.0, testutil.ToFloat64(exp.Alerts.WithLabelValues("CRITICAL", "disponibilidad")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(exp.CheckOutcomes.WithLabelValues("cart", "ERROR")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(exp.Cycles.WithLabelValues("WARNING")), 1e-9)
}

func TestExporter_Handler(t *testing.T) {
	t.Parallel()

	exp := NewExporter(prometheus.NewRegistry())
	exp.PageMonitored()

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL) //nolint:noctx // test server
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "webprobe_pages_monitored_total 1")
}
