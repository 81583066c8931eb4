package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// Watchlist reads a video_id,label CSV.
type Watchlist struct {
	path string
}

func NewWatchlist(path string) *Watchlist { return &Watchlist{path: path} }

func (w *Watchlist) Items(ctx context.Context) ([]domain.WatchItem, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist: %w", err)
	}
	defer f.Close()

	cr := newReader(f)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist header: %w", err)
	}
	pos := headerPositions(header)
	idCol, labelCol := lookup(pos, "video_id"), lookup(pos, "label")
	if idCol < 0 {
		return nil, fmt.Errorf("watchlist %s: column %q not found", w.path, "video_id")
	}

	var items []domain.WatchItem
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read watchlist: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSpace(cell(rec, idCol))
		if id == "" {
			continue
		}
		items = append(items, domain.WatchItem{VideoID: id, Label: strings.TrimSpace(cell(rec, labelCol))})
	}
}

var _ ports.Watchlist = (*Watchlist)(nil)
