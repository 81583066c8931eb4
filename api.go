package viewpulse

import (
	"time"

	base "github.com/ghalamif/ViewPulse/pkg/viewpulse"
)

// Re-exported errors for convenience.
var (
	ErrNoSource          = base.ErrNoSource
	ErrNoSink            = base.ErrNoSink
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/ghalamif/ViewPulse directly.
type (
	Config           = base.Config
	MilestonesConfig = base.MilestonesConfig
	SourceConfig     = base.SourceConfig
	ReportConfig     = base.ReportConfig
	PostgresConfig   = base.PostgresConfig
	CollectorConfig  = base.CollectorConfig
	ComputeConfig    = base.ComputeConfig
	MetricsConfig    = base.MetricsConfig
	LoggingConfig    = base.LoggingConfig
	Columns          = base.Columns
	Offset           = base.Offset
	SelectionPolicy  = base.SelectionPolicy
	SelectionMode    = base.SelectionMode
	Flow             = base.Flow
	FlowOption       = base.FlowOption
	Runtime          = base.Runtime
	RuntimeOption    = base.RuntimeOption
	RawRow           = base.RawRow
	StatsRow         = base.StatsRow
	WatchItem        = base.WatchItem
	MilestoneName    = base.MilestoneName
	ReportRow        = base.ReportRow
	MilestoneCell    = base.MilestoneCell
	Result           = base.Result
	Report           = base.Report
	ReportBatchSink  = base.ReportBatchSink
	RowSource        = base.RowSource
	ReportSink       = base.ReportSink
	Collector        = base.Collector
	Watchlist        = base.Watchlist
	StatsStore       = base.StatsStore
	Observability    = base.Observability
	Field            = base.Field
	Progress         = base.Progress
	ComputeResult    = base.ComputeResult
	CollectResult    = base.CollectResult
)

const (
	ModeBracketing = base.ModeBracketing
	ModeTolerance  = base.ModeTolerance
	ModeFirstAfter = base.ModeFirstAfter
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithSource(src RowSource) RuntimeOption {
	return base.WithSource(src)
}

func WithSink(s ReportSink) RuntimeOption {
	return base.WithSink(s)
}

func WithCollector(col Collector) RuntimeOption {
	return base.WithCollector(col)
}

func WithWatchlist(wl Watchlist) RuntimeOption {
	return base.WithWatchlist(wl)
}

func WithStore(st StatsStore) RuntimeOption {
	return base.WithStore(st)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithProgress(p Progress) RuntimeOption {
	return base.WithProgress(p)
}

func WithClock(now func() time.Time) RuntimeOption {
	return base.WithClock(now)
}

// Sink adapters.
func NewCallbackSink(name string, fn ReportBatchSink) ReportSink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (ReportSink, <-chan Report, func()) {
	return base.NewChannelSink(name, buffer)
}

// Header returns the CSV report header for names.
func Header(names []MilestoneName) []string {
	return base.Header(names)
}
