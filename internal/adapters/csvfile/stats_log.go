package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// DefaultStatsHeader is the column set written to a new statistics log.
var DefaultStatsHeader = []string{
	"run_id", "run_date_local", "run_datetime_utc",
	"video_id", "channel_id", "title", "published_at",
	"view_count", "like_count", "comment_count", "label",
}

// StatsLog is an append-only statistics CSV. Appends follow whatever header
// the file already has; a trailing record with an unterminated quote is cut
// off on open.
type StatsLog struct {
	mu     sync.Mutex
	path   string
	header []string
	rows   int64
}

func NewStatsLog(path string) (*StatsLog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	l := &StatsLog{path: path}
	if err := l.bootstrap(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *StatsLog) bootstrap() error {
	data, err := os.ReadFile(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var (
		header []string
		good   int64
	)
	cr := newReader(bytes.NewReader(data))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Only a record that runs to end of file is torn; anything
			// earlier is a malformed log.
			if _, next := cr.Read(); !errors.Is(next, io.EOF) {
				return fmt.Errorf("stats log scan: %w", err)
			}
			if err := os.Truncate(l.path, good); err != nil {
				return fmt.Errorf("stats log truncate: %w", err)
			}
			data = data[:good]
			break
		}
		good = cr.InputOffset()
		if header == nil {
			header = rec
			continue
		}
		l.rows++
	}

	if header == nil {
		return l.writeHeader()
	}
	if data[len(data)-1] != '\n' {
		if err := l.terminate(); err != nil {
			return fmt.Errorf("stats log terminate: %w", err)
		}
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	l.header = header
	return nil
}

// terminate ends a final record that was written without a newline.
func (l *StatsLog) terminate() error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte{'\n'}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *StatsLog) writeHeader() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(DefaultStatsHeader); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	l.header = append([]string(nil), DefaultStatsHeader...)
	return f.Close()
}

func (l *StatsLog) Name() string { return "csv:" + l.path }

// Len is the number of data rows in the log.
func (l *StatsLog) Len() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

func (l *StatsLog) Append(ctx context.Context, rows []domain.StatsRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rec := make([]string, len(l.header))
	for _, r := range rows {
		for i, col := range l.header {
			rec[i] = statsField(r, col)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	l.rows += int64(len(rows))
	return nil
}

// Rows replays the log with the default column names.
func (l *StatsLog) Rows(ctx context.Context, fn func(domain.RawRow) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return NewSource(l.path, DefaultColumns()).Rows(ctx, fn)
}

func statsField(r domain.StatsRow, col string) string {
	switch col {
	case "run_id":
		return r.RunID
	case "run_date_local", "run_date_bkk":
		return r.RunDate
	case "run_datetime_utc":
		if r.RunAt.IsZero() {
			return ""
		}
		return r.RunAt.UTC().Format(time.RFC3339Nano)
	case "video_id":
		return r.VideoID
	case "channel_id":
		return r.ChannelID
	case "title":
		return r.Title
	case "published_at":
		return r.PublishedAt
	case "view_count":
		return r.ViewCount
	case "like_count":
		return r.LikeCount
	case "comment_count":
		return r.CommentCount
	case "label":
		return r.Label
	default:
		return ""
	}
}

var (
	_ ports.StatsStore = (*StatsLog)(nil)
	_ ports.RowSource  = (*StatsLog)(nil)
)
