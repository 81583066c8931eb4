package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

const reportColumns = 7

// ReportTable upserts one row per (video, milestone), so recomputing a report
// overwrites the previous values in place.
type ReportTable struct {
	db        *sql.DB
	tableName string
	batchSize int
}

func NewReportTable(db *sql.DB, table string, batchSize int) (*ReportTable, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkBatch(batchSize); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &ReportTable{db: db, tableName: table, batchSize: batchSize}, nil
}

func (t *ReportTable) Name() string { return "postgres:" + t.tableName }

type reportCell struct {
	row  *domain.ReportRow
	cell domain.MilestoneCell
}

func (t *ReportTable) WriteReport(ctx context.Context, _ []domain.MilestoneName, rows []domain.ReportRow) error {
	var cells []reportCell
	for i := range rows {
		for _, c := range rows[i].Milestones {
			cells = append(cells, reportCell{row: &rows[i], cell: c})
		}
	}
	if len(cells) == 0 {
		return nil
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	for start := 0; start < len(cells); start += t.batchSize {
		end := min(start+t.batchSize, len(cells))
		if err := t.upsert(ctx, tx, cells[start:end]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

func (t *ReportTable) upsert(ctx context.Context, tx *sql.Tx, cells []reportCell) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (video_id, milestone, label, published_at, published_date, views, snapshot_at) VALUES ")

	args := make([]any, 0, len(cells)*reportColumns)
	for i, c := range cells {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(placeholders(len(args), reportColumns))

		var views any
		if c.cell.Result.Present {
			views = c.cell.Result.Value
		}
		args = append(args,
			c.row.EntityID,
			string(c.cell.Name),
			c.row.Label,
			nullTime(c.row.PublishedAt, c.row.HasPublished),
			nullString(c.row.PublishedDate),
			views,
			nullTime(c.cell.Result.At, c.cell.Result.Present),
		)
	}
	b.WriteString(" ON CONFLICT (video_id, milestone) DO UPDATE SET" +
		" label = EXCLUDED.label," +
		" published_at = EXCLUDED.published_at," +
		" published_date = EXCLUDED.published_date," +
		" views = EXCLUDED.views," +
		" snapshot_at = EXCLUDED.snapshot_at")

	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

var _ ports.ReportSink = (*ReportTable)(nil)
