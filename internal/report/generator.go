package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/webprobe/internal/alert"
	"github.com/mrz1836/webprobe/internal/clock"
	"github.com/mrz1836/webprobe/internal/constants"
	"github.com/mrz1836/webprobe/internal/domain"
	probeerrors "github.com/mrz1836/webprobe/internal/errors"
	"github.com/mrz1836/webprobe/internal/metrics"
)

// Artifact is one encoded report ready to be stored.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Sink stores report artifacts and returns where each one went.
type Sink interface {
	Write(ctx context.Context, a Artifact) (location string, err error)
}

// History exposes the cycles completed so far.
type History interface {
	Count() int
	Recent(n int) []*domain.CycleResult
}

// Options holds report settings.
type Options struct {
	// RunID identifies the run; a fresh uuid is used when empty.
	RunID string

	// Target is the monitored base URL, recorded for reference.
	Target string

	// Format is json or yaml.
	Format string

	RecentAlerts int
	RecentCycles int
}

// Deps are the sources a Generator snapshots and the sinks it writes to.
type Deps struct {
	Clock   clock.Clock
	Alerts  *alert.Log
	Metrics *metrics.Aggregator
	Cycles  History
	Sinks   []Sink
	Logger  zerolog.Logger
}

// Generator builds and stores reports.
type Generator struct {
	opts    Options
	clock   clock.Clock
	alerts  *alert.Log
	metrics *metrics.Aggregator
	cycles  History
	sinks   []Sink
	logger  zerolog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(opts Options, deps Deps) *Generator {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Format == "" {
		opts.Format = constants.ReportFormatJSON
	}
	if opts.RecentAlerts <= 0 {
		opts.RecentAlerts = constants.DefaultRecentAlerts
	}
	if opts.RecentCycles <= 0 {
		opts.RecentCycles = constants.DefaultRecentCycles
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Generator{
		opts:    opts,
		clock:   clk,
		alerts:  deps.Alerts,
		metrics: deps.Metrics,
		cycles:  deps.Cycles,
		sinks:   deps.Sinks,
		logger:  deps.Logger.With().Str("component", "report").Logger(),
	}
}

// RunID returns the identifier stamped on every report of this run.
func (g *Generator) RunID() string {
	return g.opts.RunID
}

// Build takes the snapshot without storing it. Building twice with no
// activity in between yields the same report apart from GeneratedAt.
func (g *Generator) Build() *Report {
	snap := g.metrics.Snapshot()
	stats := g.metrics.Stats()

	r := &Report{
		GeneratedAt: g.clock.Now(),
		RunID:       g.opts.RunID,
		Target:      g.opts.Target,
		Summary: Summary{
			PagesMonitored: snap.PagesMonitored,
			ErrorsDetected: snap.ErrorCount,
			TotalAlerts:    g.alerts.Len(),
		},
		Performance: Performance{
			MeanLoadTime: FormatSeconds(stats.Mean),
			MinLoadTime:  FormatSeconds(stats.Min),
			MaxLoadTime:  FormatSeconds(stats.Max),
		},
		RecentAlerts:  g.alerts.Recent(g.opts.RecentAlerts),
		RecentResults: []*domain.CycleResult{},
	}
	if r.RecentAlerts == nil {
		r.RecentAlerts = []domain.Alert{}
	}
	if g.cycles != nil {
		r.Summary.TotalCycles = g.cycles.Count()
		r.RecentResults = append(r.RecentResults, g.cycles.Recent(g.opts.RecentCycles)...)
	}
	return r
}

// Generate builds a report and writes it to every sink in parallel. It
// returns the locations that were written; a failing sink does not stop the
// others.
func (g *Generator) Generate(ctx context.Context) (*Report, []string, error) {
	if len(g.sinks) == 0 {
		return nil, nil, probeerrors.ErrNoReportSinks
	}

	r := g.Build()
	data, err := Encode(r, g.opts.Format)
	if err != nil {
		return nil, nil, err
	}
	artifact := Artifact{
		Name:        Filename(r.GeneratedAt, g.opts.Format),
		ContentType: ContentType(g.opts.Format),
		Data:        data,
	}

	start := time.Now()
	written := make([]string, len(g.sinks))
	var eg errgroup.Group
	for i, sink := range g.sinks {
		eg.Go(func() error {
			loc, err := sink.Write(ctx, artifact)
			if err != nil {
				g.logger.Error().Err(err).Str("artifact", artifact.Name).Msg("report sink failed")
				return err
			}
			written[i] = loc
			return nil
		})
	}
	err = eg.Wait()

	locations := make([]string, 0, len(written))
	for _, loc := range written {
		if loc != "" {
			locations = append(locations, loc)
		}
	}

	g.logger.Info().
		Str("run_id", r.RunID).
		Int("cycles", r.Summary.TotalCycles).
		Strs("locations", locations).
		Dur("elapsed", time.Since(start)).
		Msg("report generated")

	return r, locations, err
}
