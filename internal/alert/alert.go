// Package alert records the alerts raised while monitoring.
//
// The log is append-only for the whole run. Nothing is deduplicated or
// suppressed: a check that keeps failing raises one alert per cycle.
package alert

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/domain"
)

// Observer is told about every recorded alert.
type Observer interface {
	AlertRecorded(a domain.Alert)
}

// Log is the append-only alert log of a run.
type Log struct {
	mu        sync.RWMutex
	alerts    []domain.Alert
	clock     clock.Clock
	logger    zerolog.Logger
	observers []Observer
}

// NewLog creates an empty Log.
func NewLog(clk clock.Clock, logger zerolog.Logger, observers ...Observer) *Log {
	return &Log{
		clock:     clk,
		logger:    logger.With().Str("component", "alert").Logger(),
		observers: observers,
	}
}

// Record appends a new alert stamped with the current time and returns it.
func (l *Log) Record(level domain.Level, message, metric string, value float64) domain.Alert {
	a := domain.Alert{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Metric:    metric,
		Value:     value,
		Timestamp: l.clock.Now(),
	}

	l.mu.Lock()
	l.alerts = append(l.alerts, a)
	l.mu.Unlock()

	l.event(level).
		Str("alert_id", a.ID).
		Str("level", string(level)).
		Str("metric", metric).
		Float64("value", value).
		Msg(message)

	for _, o := range l.observers {
		o.AlertRecorded(a)
	}
	return a
}

func (l *Log) event(level domain.Level) *zerolog.Event {
	switch level {
	case domain.LevelCritical, domain.LevelError:
		return l.logger.Error()
	case domain.LevelWarning:
		return l.logger.Warn()
	default:
		return l.logger.Info()
	}
}

// Len returns how many alerts have been recorded.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.alerts)
}

// All returns a copy of every alert in recording order.
func (l *Log) All() []domain.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.alerts)
}

// Recent returns the last n alerts in recording order.
func (l *Log) Recent(n int) []domain.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return []domain.Alert{}
	}
	if n > len(l.alerts) {
		n = len(l.alerts)
	}
	return clone(l.alerts[len(l.alerts)-n:])
}

// Since returns the alerts recorded after the log had mark entries.
// Pair it with Len to collect the alerts of one cycle.
func (l *Log) Since(mark int) []domain.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if mark < 0 {
		mark = 0
	}
	if mark >= len(l.alerts) {
		return []domain.Alert{}
	}
	return clone(l.alerts[mark:])
}

func clone(in []domain.Alert) []domain.Alert {
	out := make([]domain.Alert, len(in))
	copy(out, in)
	return out
}
