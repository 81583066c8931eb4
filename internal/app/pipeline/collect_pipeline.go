package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// CollectResult summarises one collection run.
type CollectResult struct {
	RunID    string
	RunAt    time.Time
	Rows     []domain.StatsRow
	Missing  int
	Duration time.Duration
}

// RunCollectPass fetches the current statistics of every watched video and
// appends one row per video to store, all stamped with runAt.
func RunCollectPass(ctx context.Context, wl ports.Watchlist, col ports.Collector, store ports.StatsStore, runAt time.Time, obs ports.Observability) (*CollectResult, error) {
	start := time.Now()
	res := &CollectResult{RunID: uuid.NewString(), RunAt: runAt.UTC()}
	run := ports.Field{Key: "run_id", Value: res.RunID}

	items, err := wl.Items(ctx)
	if err != nil {
		obs.IncCounter(ports.MetricCollectErrors, 1)
		obs.LogError("watchlist_read_failed", err, run)
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	if len(items) == 0 {
		obs.LogInfo("watchlist_empty", run)
		return res, nil
	}

	rows, err := col.Collect(ctx, items, res.RunAt)
	if err != nil {
		obs.IncCounter(ports.MetricCollectErrors, 1)
		obs.LogError("collect_failed", err, run, ports.Field{Key: "collector", Value: col.Name()})
		return nil, fmt.Errorf("collect %s: %w", col.Name(), err)
	}
	for i := range rows {
		rows[i].RunID = res.RunID
		if rows[i].ViewCount == "" {
			res.Missing++
		}
	}

	if err := store.Append(ctx, rows); err != nil {
		obs.IncCounter(ports.MetricCollectErrors, 1)
		obs.LogCritical("stats_append_failed", err, run, ports.Field{Key: "store", Value: store.Name()})
		return nil, fmt.Errorf("append %s: %w", store.Name(), err)
	}
	res.Rows = rows

	res.Duration = time.Since(start)
	obs.IncCounter(ports.MetricRowsCollected, float64(len(rows)))
	obs.ObserveLatency(ports.MetricCollectLatency, res.Duration.Seconds())
	obs.LogInfo("collect_pass_finished", run,
		ports.Field{Key: "rows", Value: len(rows)},
		ports.Field{Key: "missing", Value: res.Missing},
		ports.Field{Key: "store", Value: store.Name()},
	)
	return res, nil
}
