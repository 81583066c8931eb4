package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ghalamif/ViewPulse/internal/app/milestone"
	"github.com/ghalamif/ViewPulse/internal/app/series"
	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

type ComputeOptions struct {
	Workers  int
	Progress ports.Progress
}

// ComputeResult summarises one compute pass.
type ComputeResult struct {
	PassID     string
	RowsRead   int
	Skipped    int
	Unparsable int
	Snapshots  int
	Names      []domain.MilestoneName
	Report     []domain.ReportRow
	Duration   time.Duration
}

// RunComputePass reads every row of src, builds the per-video series,
// assembles one report row per video and hands the report to sink. Rows are
// written in the order their video ids first appear in src.
func RunComputePass(ctx context.Context, src ports.RowSource, sink ports.ReportSink, asm *milestone.Assembler, opts ComputeOptions, obs ports.Observability) (*ComputeResult, error) {
	start := time.Now()
	res := &ComputeResult{PassID: uuid.NewString(), Names: asm.Names()}
	pass := ports.Field{Key: "pass_id", Value: res.PassID}

	obs.LogInfo("compute_pass_started", pass,
		ports.Field{Key: "source", Value: src.Name()},
		ports.Field{Key: "sink", Value: sink.Name()},
	)

	b := series.NewBuilder()
	err := src.Rows(ctx, func(row domain.RawRow) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.RowsRead++
		out := b.Ingest(row)
		if out.Skipped {
			res.Skipped++
			obs.RecordSkipped(row, "empty_video_id")
			return nil
		}
		if out.SnapshotAdded {
			res.Snapshots++
		}
		res.Unparsable += unparsable(row, out)
		return nil
	})
	if err != nil {
		obs.LogError("compute_source_failed", err, pass)
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	obs.IncCounter(ports.MetricRowsIngested, float64(res.RowsRead))
	obs.IncCounter(ports.MetricSnapshots, float64(res.Snapshots))
	obs.IncCounter(ports.MetricFieldsUnparsable, float64(res.Unparsable))

	entities := b.Finalize()
	obs.SetGauge(ports.MetricEntities, float64(len(entities)))

	var done func(domain.ReportRow)
	if opts.Progress != nil {
		opts.Progress.Start(len(entities))
		defer opts.Progress.Finish()
		done = func(domain.ReportRow) { opts.Progress.Advance() }
	}
	rows, err := asm.AssembleAll(ctx, entities, opts.Workers, done)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		for _, c := range r.Milestones {
			obs.RecordMilestone(c.Name, c.Result.Present)
		}
	}
	res.Report = rows

	if err := sink.WriteReport(ctx, res.Names, rows); err != nil {
		obs.LogError("report_write_failed", err, pass, ports.Field{Key: "sink", Value: sink.Name()})
		return nil, fmt.Errorf("write %s: %w", sink.Name(), err)
	}

	res.Duration = time.Since(start)
	obs.ObserveLatency(ports.MetricComputeLatency, res.Duration.Seconds())
	obs.LogInfo("compute_pass_finished", pass,
		ports.Field{Key: "rows", Value: res.RowsRead},
		ports.Field{Key: "skipped", Value: res.Skipped},
		ports.Field{Key: "entities", Value: len(rows)},
		ports.Field{Key: "duration", Value: res.Duration.String()},
	)
	return res, nil
}

// unparsable counts fields that were present but could not be read.
func unparsable(row domain.RawRow, out series.Outcome) int {
	n := 0
	if out.MissingRunAt && strings.TrimSpace(row.RunAt) != "" {
		n++
	}
	if out.MissingValue && strings.TrimSpace(row.Value) != "" {
		n++
	}
	if out.BadPublishedAt {
		n++
	}
	return n
}
