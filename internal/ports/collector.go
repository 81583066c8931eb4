package ports

import (
	"context"
	"time"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

// Collector fetches the current statistics of the watched videos. Every
// returned row carries runAt so a single run shares one instant.
type Collector interface {
	Collect(ctx context.Context, items []domain.WatchItem, runAt time.Time) ([]domain.StatsRow, error)
	Name() string
}

// Watchlist lists the videos a collection run tracks.
type Watchlist interface {
	Items(ctx context.Context) ([]domain.WatchItem, error)
}
