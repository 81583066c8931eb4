package viewpulse

import (
	"github.com/ghalamif/ViewPulse/internal/app/pipeline"
	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

type (
	// RawRow is one source record, kept as text until the series builder parses it.
	RawRow = domain.RawRow
	// StatsRow is what a collection run records for one video.
	StatsRow = domain.StatsRow
	// WatchItem is a tracked video id and its label.
	WatchItem = domain.WatchItem
	// MilestoneName identifies a report milestone (24h, 7d, ..., eod).
	MilestoneName = domain.MilestoneName
	// ReportRow is the assembled output for one video.
	ReportRow = domain.ReportRow
	// MilestoneCell is one milestone reading of a ReportRow.
	MilestoneCell = domain.MilestoneCell
	// Result is a milestone reading or its absence.
	Result = domain.Result

	// RowSource streams raw rows into a compute pass.
	RowSource = ports.RowSource
	// ReportSink receives the finished report.
	ReportSink = ports.ReportSink
	// Collector fetches current statistics for watched videos.
	Collector = ports.Collector
	// Watchlist lists the videos to collect.
	Watchlist = ports.Watchlist
	// StatsStore persists collected rows.
	StatsStore = ports.StatsStore
	// Observability emits metrics and structured logs about passes.
	Observability = ports.Observability
	// Field is a structured log field used by Observability implementations.
	Field = ports.Field
	// Progress follows report assembly.
	Progress = ports.Progress

	// ComputeResult summarises a compute pass.
	ComputeResult = pipeline.ComputeResult
	// CollectResult summarises a collection run.
	CollectResult = pipeline.CollectResult
)

// ReportBatchSink is invoked once per compute pass with the milestone column
// order and the finished rows.
type ReportBatchSink func(names []MilestoneName, rows []ReportRow) error

// Header returns the CSV report header for names.
func Header(names []MilestoneName) []string {
	return domain.Header(names)
}
