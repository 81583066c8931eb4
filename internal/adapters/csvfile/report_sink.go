package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// ReportFile writes the milestone report to path, replacing it atomically.
type ReportFile struct {
	path string
}

func NewReportFile(path string) *ReportFile { return &ReportFile{path: path} }

func (r *ReportFile) Name() string { return "csv:" + r.path }

func (r *ReportFile) WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteReport(ctx, tmp, names, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

// ReportWriter streams the report as CSV to an arbitrary writer (stdout).
type ReportWriter struct {
	w io.Writer
}

func NewReportWriter(w io.Writer) *ReportWriter { return &ReportWriter{w: w} }

func (r *ReportWriter) Name() string { return "csv:stream" }

func (r *ReportWriter) WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error {
	return WriteReport(ctx, r.w, names, rows)
}

// WriteReport renders header and rows as CSV.
func WriteReport(ctx context.Context, w io.Writer, names []domain.MilestoneName, rows []domain.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.Header(names)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	_ ports.ReportSink = (*ReportFile)(nil)
	_ ports.ReportSink = (*ReportWriter)(nil)
)
