// Package csvfile reads and writes the UTF-8 CSV files ViewPulse keeps on
// disk: the statistics log, the watchlist and the milestone report.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// Columns names the CSV header cells the series source reads.
type Columns struct {
	EntityID    string `yaml:"entity_id"`
	Label       string `yaml:"label"`
	PublishedAt string `yaml:"published_at"`
	RunAt       string `yaml:"run_at"`
	Value       string `yaml:"value"`
}

func DefaultColumns() Columns {
	return Columns{
		EntityID:    "video_id",
		Label:       "label",
		PublishedAt: "published_at",
		RunAt:       "run_datetime_utc",
		Value:       "view_count",
	}
}

func (c *Columns) ApplyDefaults() {
	d := DefaultColumns()
	if c.EntityID == "" {
		c.EntityID = d.EntityID
	}
	if c.Label == "" {
		c.Label = d.Label
	}
	if c.PublishedAt == "" {
		c.PublishedAt = d.PublishedAt
	}
	if c.RunAt == "" {
		c.RunAt = d.RunAt
	}
	if c.Value == "" {
		c.Value = d.Value
	}
}

// Source replays a statistics CSV as raw rows.
type Source struct {
	path string
	cols Columns
}

func NewSource(path string, cols Columns) *Source {
	cols.ApplyDefaults()
	return &Source{path: path, cols: cols}
}

func (s *Source) Name() string { return "csv:" + s.path }

func (s *Source) Rows(ctx context.Context, fn func(domain.RawRow) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open series: %w", err)
	}
	defer f.Close()
	return readRows(ctx, f, s.cols, fn)
}

type columnIndex struct {
	entity, label, published, run, value int
}

func (ix columnIndex) row(rec []string) domain.RawRow {
	return domain.RawRow{
		EntityID:    cell(rec, ix.entity),
		Label:       cell(rec, ix.label),
		PublishedAt: cell(rec, ix.published),
		RunAt:       cell(rec, ix.run),
		Value:       cell(rec, ix.value),
	}
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func readRows(ctx context.Context, r io.Reader, cols Columns, fn func(domain.RawRow) error) error {
	cr := newReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	pos := headerPositions(header)

	ix := columnIndex{
		entity:    lookup(pos, cols.EntityID),
		label:     lookup(pos, cols.Label),
		published: lookup(pos, cols.PublishedAt),
		run:       lookup(pos, cols.RunAt),
		value:     lookup(pos, cols.Value),
	}
	if ix.entity < 0 {
		return fmt.Errorf("column %q not found in header", cols.EntityID)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ix.row(rec)); err != nil {
			return err
		}
	}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

func headerPositions(header []string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	return pos
}

func lookup(pos map[string]int, name string) int {
	if i, ok := pos[name]; ok {
		return i
	}
	return -1
}

var _ ports.RowSource = (*Source)(nil)
