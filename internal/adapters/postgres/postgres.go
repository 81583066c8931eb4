// Package postgres mirrors the statistics log and the milestone report in
// PostgreSQL (or TimescaleDB) tables.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
)

// maxParams is the bind parameter limit of a single Postgres statement.
const maxParams = 65535

// MaxBatchSize is the largest batch whose multi-row insert stays within
// maxParams for every table written here.
const MaxBatchSize = maxParams / statsColumns

func checkBatch(n int) error {
	if n > MaxBatchSize {
		return fmt.Errorf("batch size %d exceeds %d", n, MaxBatchSize)
	}
	return nil
}

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func checkTable(name string) error {
	if !tableNameRE.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// Open connects through lib/pq with a small pool; a pass is a short batch job.
func Open(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// EnsureSchema creates the stats and report tables when missing. Stats rows
// are keyed by insertion; repeated (video_id, run_at) pairs are all kept.
func EnsureSchema(ctx context.Context, db *sql.DB, statsTable, reportTable string) error {
	if err := checkTable(statsTable); err != nil {
		return err
	}
	if err := checkTable(reportTable); err != nil {
		return err
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT NOT NULL DEFAULT '',
	run_at        TIMESTAMPTZ NOT NULL,
	run_date      DATE,
	video_id      TEXT NOT NULL,
	channel_id    TEXT NOT NULL DEFAULT '',
	title         TEXT NOT NULL DEFAULT '',
	published_at  TIMESTAMPTZ,
	view_count    BIGINT,
	like_count    BIGINT,
	comment_count BIGINT,
	label         TEXT NOT NULL DEFAULT ''
)`, statsTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	video_id       TEXT NOT NULL,
	milestone      TEXT NOT NULL,
	label          TEXT NOT NULL DEFAULT '',
	published_at   TIMESTAMPTZ,
	published_date DATE,
	views          BIGINT,
	snapshot_at    TIMESTAMPTZ,
	PRIMARY KEY (video_id, milestone)
)`, reportTable),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
