// Package metrics accumulates run-wide metrics and exports them to Prometheus.
//
// The Aggregator is owned by one run and passed to whoever mutates it; there
// is no package-level state. Counters only ever grow and the load-time
// sequence is kept in full for the whole run.
package metrics

import (
	"sync"
	"time"
)

// Observer mirrors every Aggregator mutation, typically into Prometheus.
type Observer interface {
	LoadTimeRecorded(seconds float64)
	PageMonitored()
	ErrorCounted()
	RunMarked(at time.Time)
}

// Snapshot is a point-in-time copy of the aggregated metrics.
type Snapshot struct {
	LoadTimes      []float64
	ErrorCount     int
	PagesMonitored int
	LastRun        *time.Time
}

// Stats summarizes the load-time sequence. Every field is zero when no
// sample was recorded.
type Stats struct {
	Samples int
	Mean    float64
	Min     float64
	Max     float64
}

// Aggregator holds the metrics of one run.
type Aggregator struct {
	mu             sync.RWMutex
	loadTimes      []float64
	errorCount     int
	pagesMonitored int
	lastRun        *time.Time
	observers      []Observer
}

// NewAggregator creates an empty Aggregator.
func NewAggregator(observers ...Observer) *Aggregator {
	return &Aggregator{observers: observers}
}

// RecordLoadTime appends a load-time sample in seconds.
func (a *Aggregator) RecordLoadTime(seconds float64) {
	a.mu.Lock()
	a.loadTimes = append(a.loadTimes, seconds)
	a.mu.Unlock()

	for _, o := range a.observers {
		o.LoadTimeRecorded(seconds)
	}
}

// IncPagesMonitored counts a page that rendered without failing.
func (a *Aggregator) IncPagesMonitored() {
	a.mu.Lock()
	a.pagesMonitored++
	a.mu.Unlock()

	for _, o := range a.observers {
		o.PageMonitored()
	}
}

// IncErrors counts a failed check.
func (a *Aggregator) IncErrors() {
	a.mu.Lock()
	a.errorCount++
	a.mu.Unlock()

	for _, o := range a.observers {
		o.ErrorCounted()
	}
}

// MarkRun records when the last cycle finished.
func (a *Aggregator) MarkRun(at time.Time) {
	a.mu.Lock()
	a.lastRun = &at
	a.mu.Unlock()

	for _, o := range a.observers {
		o.RunMarked(at)
	}
}

// Snapshot returns a copy of the current metrics.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Snapshot{
		LoadTimes:      make([]float64, len(a.loadTimes)),
		ErrorCount:     a.errorCount,
		PagesMonitored: a.pagesMonitored,
	}
	copy(s.LoadTimes, a.loadTimes)
	if a.lastRun != nil {
		last := *a.lastRun
		s.LastRun = &last
	}
	return s
}

// Stats computes mean, min and max over every sample recorded so far.
func (a *Aggregator) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return computeStats(a.loadTimes)
}

// MeanLoadTime is Stats().Mean.
func (a *Aggregator) MeanLoadTime() float64 {
	return a.Stats().Mean
}

func computeStats(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	st := Stats{Samples: len(samples), Min: samples[0], Max: samples[0]}
	var sum float64
	for _, v := range samples {
		sum += v
		st.Min = min(st.Min, v)
		st.Max = max(st.Max, v)
	}
	st.Mean = sum / float64(len(samples))
	return st
}
