package ports

import (
	"context"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

// StatsStore persists collected rows. Implementations only ever append.
type StatsStore interface {
	Append(ctx context.Context, rows []domain.StatsRow) error
	Name() string
}

// RowSource replays the raw series rows in their stored order.
type RowSource interface {
	Rows(ctx context.Context, fn func(domain.RawRow) error) error
	Name() string
}
