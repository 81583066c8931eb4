package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ghalamif/ViewPulse/internal/app/series"
	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

const statsColumns = 11

// StatsTable stores collected rows and replays them as a series source.
type StatsTable struct {
	db        *sql.DB
	tableName string
	batchSize int
}

func NewStatsTable(db *sql.DB, table string, batchSize int) (*StatsTable, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkBatch(batchSize); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &StatsTable{db: db, tableName: table, batchSize: batchSize}, nil
}

func (t *StatsTable) Name() string { return "postgres:" + t.tableName }

// Append inserts every row, duplicates included.
func (t *StatsTable) Append(ctx context.Context, rows []domain.StatsRow) error {
	for start := 0; start < len(rows); start += t.batchSize {
		end := min(start+t.batchSize, len(rows))
		if err := t.insert(ctx, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (t *StatsTable) insert(ctx context.Context, rows []domain.StatsRow) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (run_id, run_at, run_date, video_id, channel_id, title, published_at, view_count, like_count, comment_count, label) VALUES ")

	args := make([]any, 0, len(rows)*statsColumns)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(placeholders(len(args), statsColumns))
		args = append(args,
			r.RunID,
			r.RunAt.UTC(),
			nullString(r.RunDate),
			r.VideoID,
			r.ChannelID,
			r.Title,
			nullInstant(r.PublishedAt),
			nullCount(r.ViewCount),
			nullCount(r.LikeCount),
			nullCount(r.CommentCount),
			r.Label,
		)
	}

	if _, err := t.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert stats: %w", err)
	}
	return nil
}

// Rows replays stored rows ordered by run instant, then insertion order.
func (t *StatsTable) Rows(ctx context.Context, fn func(domain.RawRow) error) error {
	q := "SELECT video_id, label, published_at, run_at, view_count FROM " + t.tableName + " ORDER BY run_at, id"
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			label     sql.NullString
			published sql.NullTime
			runAt     sql.NullTime
			views     sql.NullInt64
		)
		if err := rows.Scan(&id, &label, &published, &runAt, &views); err != nil {
			return err
		}
		raw := domain.RawRow{EntityID: id, Label: label.String}
		if published.Valid {
			raw.PublishedAt = domain.FormatInstant(published.Time)
		}
		if runAt.Valid {
			raw.RunAt = domain.FormatInstant(runAt.Time)
		}
		if views.Valid {
			raw.Value = fmt.Sprint(views.Int64)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

func placeholders(offset, n int) string {
	var b strings.Builder
	b.WriteString("(")
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "$%d", offset+i)
	}
	b.WriteString(")")
	return b.String()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInstant(s string) any {
	t, ok := series.ParseInstant(s)
	if !ok {
		return nil
	}
	return t
}

func nullCount(s string) any {
	v, ok := series.ParseValue(s)
	if !ok {
		return nil
	}
	return v
}

func nullTime(t time.Time, valid bool) any {
	if !valid {
		return nil
	}
	return t.UTC()
}

var (
	_ ports.StatsStore = (*StatsTable)(nil)
	_ ports.RowSource  = (*StatsTable)(nil)
)
