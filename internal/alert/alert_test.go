package alert

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/domain"
)

type recordingObserver struct {
	seen []domain.Alert
}

func (r *recordingObserver) AlertRecorded(a domain.Alert) {
	r.seen = append(r.seen, a)
}

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestLog_Record(t *testing.T) {
	clk := clock.NewManual(start)
	obs := &recordingObserver{}
	var buf bytes.Buffer
	log := NewLog(clk, zerolog.New(&buf), obs)

	a := log.Record(domain.LevelCritical, "site is down", "disponibilidad", 0)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.LevelCritical, a.Level)
	assert.Equal(t, "site is down", a.Message)
	assert.Equal(t, "disponibilidad", a.Metric)
	assert.Equal(t, start, a.Timestamp)
	assert.Equal(t, 1, log.Len())
	require.Len(t, obs.seen, 1)
	assert.Equal(t, a, obs.seen[0])

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"metric":"disponibilidad"`)
	assert.Contains(t, out, "site is down")
}

func TestLog_LogLevels(t *testing.T) {
	tests := []struct {
		level domain.Level
		want  string
	}{
		{domain.LevelInfo, `"level":"info"`},
		{domain.LevelWarning, `"level":"warn"`},
		{domain.LevelError, `"level":"error"`},
		{domain.LevelCritical, `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLog(clock.NewManual(start), zerolog.New(&buf))
			log.Record(tt.level, "msg", "m", 1)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLog_NoDeduplication(t *testing.T) {
	log := NewLog(clock.NewManual(start), zerolog.Nop())

	first := log.Record(domain.LevelError, "cart broken", "funcionalidad_carrito", 0)
	second := log.Record(domain.LevelError, "cart broken", "funcionalidad_carrito", 0)

	assert.Equal(t, 2, log.Len())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestLog_RecentAndSince(t *testing.T) {
	clk := clock.NewManual(start)
	log := NewLog(clk, zerolog.Nop())

	assert.Empty(t, log.Recent(10))
	assert.Empty(t, log.All())

	for i := 0; i < 12; i++ {
		clk.Advance(time.Second)
		log.Record(domain.LevelWarning, "slow", "tiempo_carga", float64(i))
	}

	recent := log.Recent(10)
	require.Len(t, recent, 10)
	assert.InDelta(t, 2.0, recent[0].Value, 0.001, "oldest of the last ten")
	assert.InDelta(t, 11.0, recent[9].Value, 0.001)
	assert.True(t, recent[0].Timestamp.Before(recent[9].Timestamp))

	assert.Len(t, log.Recent(50), 12)
	assert.Empty(t, log.Recent(0))

	mark := log.Len()
	log.Record(domain.LevelError, "new", "health", 0)
	since := log.Since(mark)
	require.Len(t, since, 1)
	assert.Equal(t, "new", since[0].Message)
	assert.Empty(t, log.Since(log.Len()))
	assert.Len(t, log.Since(-3), 13)
}

func TestLog_AllReturnsCopy(t *testing.T) {
	log := NewLog(clock.NewManual(start), zerolog.Nop())
	log.Record(domain.LevelInfo, "one", "m", 0)

	all := log.All()
	all[0].Message = "mutated"

	assert.Equal(t, "one", log.All()[0].Message)
}
