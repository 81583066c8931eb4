package domain

import (
	"strconv"
	"time"
)

// MilestoneCell is one rendered milestone of a report row.
type MilestoneCell struct {
	Name   MilestoneName
	Result Result
}

// ReportRow is the per-entity output of a compute pass.
type ReportRow struct {
	EntityID      string
	Label         string
	PublishedAt   time.Time
	HasPublished  bool
	PublishedDate string
	Milestones    []MilestoneCell
}

// Header returns the fixed column set for the given milestone names.
func Header(names []MilestoneName) []string {
	out := make([]string, 0, 4+2*len(names))
	out = append(out, "video_id", "label", "published_at_utc", "published_date_local")
	for _, n := range names {
		out = append(out, "views_"+string(n), "snapshot_"+string(n)+"_utc")
	}
	return out
}

// Record renders the row as text columns matching Header. Absent milestones
// and an unknown publish instant render as empty strings.
func (r ReportRow) Record() []string {
	out := make([]string, 0, 4+2*len(r.Milestones))
	pub := ""
	if r.HasPublished {
		pub = FormatInstant(r.PublishedAt)
	}
	out = append(out, r.EntityID, r.Label, pub, r.PublishedDate)
	for _, m := range r.Milestones {
		if m.Result.Absent() {
			out = append(out, "", "")
			continue
		}
		out = append(out, strconv.FormatInt(m.Result.Value, 10), FormatInstant(m.Result.At))
	}
	return out
}

// FormatInstant renders an absolute instant as UTC RFC 3339.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
