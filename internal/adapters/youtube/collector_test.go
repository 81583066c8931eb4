package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

func TestCollectorFillsRowsAndKeepsMissingIDs(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[{"id":"abc","snippet":{"channelId":"ch1","title":"Song","publishedAt":"2024-01-15T16:50:00Z"},"statistics":{"viewCount":"1200","likeCount":"30","commentCount":"4"}}]}`)
	}))
	defer srv.Close()

	loc := time.FixedZone("ICT", 7*3600)
	c, err := NewCollectorWithKey(Config{Endpoint: srv.URL}, "secret", loc)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	runAt := time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	rows, err := c.Collect(context.Background(), []domain.WatchItem{
		{VideoID: "abc", Label: "mv"},
		{VideoID: "gone", Label: "deleted"},
	}, runAt)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if !strings.Contains(gotQuery, "key=secret") || !strings.Contains(gotQuery, "id=abc%2Cgone") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.ViewCount != "1200" || first.Title != "Song" || first.ChannelID != "ch1" || first.Label != "mv" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.RunDate != "2024-01-16" {
		t.Fatalf("run date should be the Bangkok civil date, got %s", first.RunDate)
	}
	missing := rows[1]
	if missing.VideoID != "gone" || missing.Label != "deleted" || missing.ViewCount != "" || !missing.RunAt.Equal(runAt) {
		t.Fatalf("unexpected blank row %+v", missing)
	}
}

func TestCollectorBatches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if n := len(strings.Split(r.URL.Query().Get("id"), ",")); n > 2 {
			t.Errorf("batch too large: %d", n)
		}
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	c, err := NewCollectorWithKey(Config{Endpoint: srv.URL, BatchSize: 2}, "k", time.UTC)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	items := []domain.WatchItem{{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}, {VideoID: "d"}, {VideoID: "e"}}
	rows, err := c.Collect(context.Background(), items, time.Now())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 requests, got %d", calls.Load())
	}
	if len(rows) != len(items) {
		t.Fatalf("expected %d rows, got %d", len(items), len(rows))
	}
}

func TestCollectorAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	}))
	defer srv.Close()

	c, _ := NewCollectorWithKey(Config{Endpoint: srv.URL}, "k", time.UTC)
	_, err := c.Collect(context.Background(), []domain.WatchItem{{VideoID: "a"}}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "quotaExceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestCollectorMissingKey(t *testing.T) {
	t.Setenv("VP_TEST_KEY", "")
	_, err := NewCollector(Config{APIKeyEnv: "VP_TEST_KEY"}, time.UTC)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{BatchSize: 500}
	cfg.ApplyDefaults()
	if cfg.Endpoint != DefaultEndpoint || cfg.APIKeyEnv != DefaultAPIKeyEnv {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.BatchSize != MaxBatch || cfg.Timeout != 30*time.Second {
		t.Fatalf("unexpected limits %+v", cfg)
	}
}
