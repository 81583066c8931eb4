package ports

import (
	"context"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

// ReportSink receives the assembled report of a compute pass, one row per
// entity in ingestion order.
type ReportSink interface {
	WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error
	Name() string
}
