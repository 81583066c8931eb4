package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestStatsTableAppend(t *testing.T) {
	db, mock := newMock(t)
	store, err := NewStatsTable(db, "daily_stats", 0)
	if err != nil {
		t.Fatalf("new stats table: %v", err)
	}

	runAt := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	rows := []domain.StatsRow{{
		RunID:       "r1",
		RunDate:     "2024-01-16",
		RunAt:       runAt,
		VideoID:     "abc",
		ChannelID:   "ch",
		Title:       "t",
		PublishedAt: "2024-01-15T16:50:00Z",
		ViewCount:   "1200",
		LikeCount:   "",
		Label:       "mv",
	}}

	expected := regexp.QuoteMeta("INSERT INTO daily_stats (run_id, run_at, run_date, video_id, channel_id, title, published_at, view_count, like_count, comment_count, label) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)") + "$"
	mock.ExpectExec(expected).
		WithArgs("r1", runAt, "2024-01-16", "abc", "ch", "t",
			time.Date(2024, 1, 15, 16, 50, 0, 0, time.UTC), int64(1200), nil, nil, "mv").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Append(context.Background(), rows); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsTableAppendBatches(t *testing.T) {
	db, mock := newMock(t)
	store, _ := NewStatsTable(db, "daily_stats", 2)

	rows := make([]domain.StatsRow, 3)
	for i := range rows {
		rows[i] = domain.StatsRow{VideoID: "v", RunAt: time.Unix(int64(i), 0)}
	}

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11),($12,")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)") + "$").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Append(context.Background(), rows); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsTableKeepsDuplicateSnapshots(t *testing.T) {
	db, mock := newMock(t)
	store, _ := NewStatsTable(db, "daily_stats", 10)

	runAt := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	row := domain.StatsRow{RunID: "r1", RunAt: runAt, VideoID: "abc", ViewCount: "10", Label: "mv"}

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11),($12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)")+"$").
		WithArgs("r1", runAt, nil, "abc", "", "", nil, int64(10), nil, nil, "mv",
			"r1", runAt, nil, "abc", "", "", nil, int64(10), nil, nil, "mv").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := store.Append(context.Background(), []domain.StatsRow{row, row}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBatchSizeLimit(t *testing.T) {
	db, _ := newMock(t)
	if _, err := NewStatsTable(db, "daily_stats", MaxBatchSize); err != nil {
		t.Fatalf("max batch size rejected: %v", err)
	}
	if _, err := NewStatsTable(db, "daily_stats", MaxBatchSize+1); err == nil {
		t.Fatal("expected stats batch above the parameter limit to be rejected")
	}
	if _, err := NewReportTable(db, "milestones", MaxBatchSize+1); err == nil {
		t.Fatal("expected report batch above the parameter limit to be rejected")
	}
}

func TestStatsTableAppendNoRows(t *testing.T) {
	db, mock := newMock(t)
	store, _ := NewStatsTable(db, "daily_stats", 10)
	if err := store.Append(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error for empty batch, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatsTableRows(t *testing.T) {
	db, mock := newMock(t)
	store, _ := NewStatsTable(db, "daily_stats", 10)

	pub := time.Date(2024, 1, 15, 16, 50, 0, 0, time.UTC)
	run := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT video_id, label, published_at, run_at, view_count FROM daily_stats ORDER BY run_at, id")).
		WillReturnRows(sqlmock.NewRows([]string{"video_id", "label", "published_at", "run_at", "view_count"}).
			AddRow("abc", "mv", pub, run, int64(1200)).
			AddRow("def", nil, nil, run, nil))

	var got []domain.RawRow
	err := store.Rows(context.Background(), func(r domain.RawRow) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := []domain.RawRow{
		{EntityID: "abc", Label: "mv", PublishedAt: "2024-01-15T16:50:00Z", RunAt: "2024-01-16T01:00:00Z", Value: "1200"},
		{EntityID: "def", RunAt: "2024-01-16T01:00:00Z"},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportTableUpsert(t *testing.T) {
	db, mock := newMock(t)
	sink, err := NewReportTable(db, "milestones", 0)
	if err != nil {
		t.Fatalf("new report table: %v", err)
	}

	pub := time.Date(2024, 1, 15, 16, 50, 0, 0, time.UTC)
	at := time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC)
	rows := []domain.ReportRow{
		{
			EntityID: "abc", Label: "mv", PublishedAt: pub, HasPublished: true, PublishedDate: "2024-01-15",
			Milestones: []domain.MilestoneCell{
				{Name: domain.Milestone24h, Result: domain.Result{Present: true, Value: 4000, At: at}},
				{Name: domain.MilestoneEOD},
			},
		},
		{EntityID: "def", Milestones: []domain.MilestoneCell{{Name: domain.Milestone24h}, {Name: domain.MilestoneEOD}}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO milestones (video_id, milestone, label, published_at, published_date, views, snapshot_at) VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14),($15,$16,$17,$18,$19,$20,$21),($22,$23,$24,$25,$26,$27,$28) ON CONFLICT (video_id, milestone) DO UPDATE SET")).
		WithArgs(
			"abc", "24h", "mv", pub, "2024-01-15", int64(4000), at,
			"abc", "eod", "mv", pub, "2024-01-15", nil, nil,
			"def", "24h", "", nil, nil, nil, nil,
			"def", "eod", "", nil, nil, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	if err := sink.WriteReport(context.Background(), nil, rows); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportTableRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	sink, _ := NewReportTable(db, "milestones", 1)

	rows := []domain.ReportRow{{EntityID: "a", Milestones: []domain.MilestoneCell{{Name: "24h"}, {Name: "7d"}}}}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO milestones").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO milestones").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if err := sink.WriteReport(context.Background(), nil, rows); err == nil {
		t.Fatal("expected error from failing upsert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS daily_stats ( id BIGSERIAL PRIMARY KEY,")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS analytics.milestones (")).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := EnsureSchema(context.Background(), db, "daily_stats", "analytics.milestones"); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTableNameValidation(t *testing.T) {
	for _, bad := range []string{"", "stats; DROP TABLE x", "1stats", "a.b.c", "stats-table"} {
		if _, err := NewStatsTable(nil, bad, 0); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
		if _, err := NewReportTable(nil, bad, 0); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestNames(t *testing.T) {
	db, _ := newMock(t)
	store, _ := NewStatsTable(db, "daily_stats", 0)
	sink, _ := NewReportTable(db, "milestones", 0)
	if store.Name() != "postgres:daily_stats" || sink.Name() != "postgres:milestones" {
		t.Fatalf("unexpected names %s %s", store.Name(), sink.Name())
	}
}
