package ports

// Metric names understood by Observability implementations.
const (
	MetricRowsIngested     = "viewpulse_rows_ingested_total"
	MetricRowsSkipped      = "viewpulse_rows_skipped_total"
	MetricSnapshots        = "viewpulse_snapshots_total"
	MetricFieldsUnparsable = "viewpulse_fields_unparsable_total"
	MetricRowsCollected    = "viewpulse_rows_collected_total"
	MetricCollectErrors    = "viewpulse_collect_errors_total"
	MetricEntities         = "viewpulse_entities"
	MetricComputeLatency   = "viewpulse_compute_duration_seconds"
	MetricCollectLatency   = "viewpulse_collect_duration_seconds"
)

// Progress is advanced once per assembled report row. Advance may be called
// from several goroutines.
type Progress interface {
	Start(total int)
	Advance()
	Finish()
}
