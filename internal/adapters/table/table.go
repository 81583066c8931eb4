// Package table renders milestone reports and target lists as terminal tables.
package table

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// Absent is printed in place of a milestone without a snapshot.
const Absent = "-"

// Render writes header and rows as a borderless, left-aligned table.
func Render(w io.Writer, header []string, rows [][]string) error {
	t := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// Sink prints a compact report: publish date and the view count per milestone.
type Sink struct {
	w io.Writer
}

func NewSink(w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{w: w}
}

func (s *Sink) Name() string { return "table" }

func (s *Sink) WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	header := []string{"video_id", "label", "published"}
	for _, n := range names {
		header = append(header, string(n))
	}

	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := []string{r.EntityID, r.Label, r.PublishedDate}
		if line[2] == "" {
			line[2] = Absent
		}
		byName := make(map[domain.MilestoneName]domain.Result, len(r.Milestones))
		for _, c := range r.Milestones {
			byName[c.Name] = c.Result
		}
		for _, n := range names {
			res, ok := byName[n]
			if !ok || !res.Present {
				line = append(line, Absent)
				continue
			}
			line = append(line, strconv.FormatInt(res.Value, 10))
		}
		body = append(body, line)
	}
	return Render(s.w, header, body)
}

// TargetRows lays out computed target instants for display, one per line,
// in UTC and in the reference zone.
func TargetRows(targets []domain.Target, loc *time.Location) [][]string {
	out := make([][]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, []string{
			string(t.Name),
			domain.FormatInstant(t.At),
			t.At.In(loc).Format(time.DateTime + " MST"),
		})
	}
	return out
}

var _ ports.ReportSink = (*Sink)(nil)
