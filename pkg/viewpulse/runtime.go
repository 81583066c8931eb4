package viewpulse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghalamif/ViewPulse/internal/adapters/csvfile"
	"github.com/ghalamif/ViewPulse/internal/adapters/observability"
	"github.com/ghalamif/ViewPulse/internal/adapters/postgres"
	"github.com/ghalamif/ViewPulse/internal/adapters/table"
	"github.com/ghalamif/ViewPulse/internal/adapters/youtube"
	"github.com/ghalamif/ViewPulse/internal/app/config"
	"github.com/ghalamif/ViewPulse/internal/app/milestone"
	"github.com/ghalamif/ViewPulse/internal/app/pipeline"
)

// ErrNoSource is returned when a compute pass has nothing to read from.
var ErrNoSource = errors.New("viewpulse: no row source")

// ErrNoSink is returned when a compute pass has nowhere to write the report.
var ErrNoSink = errors.New("viewpulse: no report sink")

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	source        RowSource
	sink          ReportSink
	collector     Collector
	watchlist     Watchlist
	store         StatsStore
	observability Observability
	progress      Progress
	clock         func() time.Time
}

// WithSource reads the compute pass from src instead of the configured source.
func WithSource(src RowSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.source = src
	}
}

// WithSink sends the report to s instead of the configured report target.
func WithSink(s ReportSink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithCollector replaces the YouTube Data API collector.
func WithCollector(col Collector) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.collector = col
	}
}

// WithWatchlist replaces the CSV watchlist.
func WithWatchlist(wl Watchlist) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.watchlist = wl
	}
}

// WithStore appends collected rows to st instead of the configured source.
func WithStore(st StatsStore) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = st
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithProgress follows report assembly with p.
func WithProgress(p Progress) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.progress = p
	}
}

// WithClock sets the instant source used to stamp collection runs.
func WithClock(now func() time.Time) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = now
	}
}

// Runtime wires the configured adapters around the compute and collect
// passes. Adapters are opened on first use, so a runtime that only computes
// never needs an API key and one that only collects never opens the report.
type Runtime struct {
	cfg       *Config
	overrides runtimeOverrides
	obs       Observability
	registry  *prometheus.Registry
	assembler *milestone.Assembler
	now       func() time.Time

	dbOnce sync.Once
	db     *sql.DB
	dbErr  error
}

// NewRuntime validates the milestone settings and prepares the default
// observability stack (zerolog plus a private Prometheus registry).
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	asm, err := cfg.Milestones.Assembler()
	if err != nil {
		return nil, fmt.Errorf("milestones: %w", err)
	}

	rt := &Runtime{
		cfg:       cfg,
		overrides: overrides,
		assembler: asm,
		now:       overrides.clock,
	}
	if rt.now == nil {
		rt.now = time.Now
	}

	rt.obs = overrides.observability
	if rt.obs == nil {
		rt.registry = prometheus.NewRegistry()
		logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
		rt.obs = observability.NewPromObs(rt.registry, logger)
	}
	return rt, nil
}

// Config returns the configuration the runtime was built with.
func (r *Runtime) Config() *Config { return r.cfg }

// Milestones lists the report milestones in column order.
func (r *Runtime) Milestones() []MilestoneName { return r.assembler.Names() }

// Compute runs one compute pass: read every row, assemble the report and
// write it to the sink.
func (r *Runtime) Compute(ctx context.Context) (*ComputeResult, error) {
	src, err := r.rowSource(ctx)
	if err != nil {
		return nil, err
	}
	sink, err := r.reportSink(ctx)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.RunComputePass(ctx, src, sink, r.assembler, pipeline.ComputeOptions{
		Workers:  r.cfg.Compute.Workers,
		Progress: r.overrides.progress,
	}, r.obs)
	r.flushMetrics()
	return res, err
}

// Collect runs one collection pass: fetch statistics for every watched video
// and append them to the stats store.
func (r *Runtime) Collect(ctx context.Context) (*CollectResult, error) {
	wl := r.overrides.watchlist
	if wl == nil {
		wl = csvfile.NewWatchlist(r.cfg.Collector.Watchlist)
	}

	col := r.overrides.collector
	if col == nil {
		loc, err := r.cfg.Milestones.Location()
		if err != nil {
			return nil, err
		}
		col, err = youtube.NewCollector(r.cfg.Collector, loc)
		if err != nil {
			return nil, err
		}
	}

	store, err := r.statsStore(ctx)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.RunCollectPass(ctx, wl, col, store, r.now(), r.obs)
	r.flushMetrics()
	return res, err
}

// Close releases the database connection, if one was opened.
func (r *Runtime) Close() error {
	var errs []error
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) rowSource(ctx context.Context) (RowSource, error) {
	if r.overrides.source != nil {
		return r.overrides.source, nil
	}
	switch r.cfg.Source.Kind {
	case config.KindCSV, "":
		if r.cfg.Source.Path == "" {
			return nil, fmt.Errorf("%w: source.path is empty", ErrNoSource)
		}
		return csvfile.NewSource(r.cfg.Source.Path, r.cfg.Source.Columns), nil
	case config.KindPostgres:
		db, err := r.database(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewStatsTable(db, r.cfg.Postgres.StatsTable, r.cfg.Postgres.BatchSize)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrNoSource, r.cfg.Source.Kind)
	}
}

func (r *Runtime) reportSink(ctx context.Context) (ReportSink, error) {
	if r.overrides.sink != nil {
		return r.overrides.sink, nil
	}
	switch r.cfg.Report.Kind {
	case config.KindCSV, "":
		if r.cfg.Report.Path == "" {
			return nil, fmt.Errorf("%w: report.path is empty", ErrNoSink)
		}
		if r.cfg.Report.Path == "-" {
			return csvfile.NewReportWriter(os.Stdout), nil
		}
		return csvfile.NewReportFile(r.cfg.Report.Path), nil
	case config.KindTable:
		return table.NewSink(os.Stdout), nil
	case config.KindPostgres:
		db, err := r.database(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewReportTable(db, r.cfg.Postgres.ReportTable, r.cfg.Postgres.BatchSize)
	default:
		return nil, fmt.Errorf("%w: unknown report kind %q", ErrNoSink, r.cfg.Report.Kind)
	}
}

func (r *Runtime) statsStore(ctx context.Context) (StatsStore, error) {
	if r.overrides.store != nil {
		return r.overrides.store, nil
	}
	switch r.cfg.Source.Kind {
	case config.KindPostgres:
		db, err := r.database(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewStatsTable(db, r.cfg.Postgres.StatsTable, r.cfg.Postgres.BatchSize)
	default:
		return csvfile.NewStatsLog(r.cfg.Source.Path)
	}
}

// database opens the shared connection and creates the tables once.
func (r *Runtime) database(ctx context.Context) (*sql.DB, error) {
	r.dbOnce.Do(func() {
		r.db, r.dbErr = postgres.Open(r.cfg.Postgres.ConnString)
		if r.dbErr != nil {
			return
		}
		r.dbErr = postgres.EnsureSchema(ctx, r.db, r.cfg.Postgres.StatsTable, r.cfg.Postgres.ReportTable)
	})
	return r.db, r.dbErr
}

func (r *Runtime) flushMetrics() {
	if r.registry == nil || r.cfg.Metrics.Textfile == "" {
		return
	}
	if err := observability.WriteTextfile(r.cfg.Metrics.Textfile, r.registry); err != nil {
		r.obs.LogError("metrics_textfile_failed", err, Field{Key: "path", Value: r.cfg.Metrics.Textfile})
	}
}
