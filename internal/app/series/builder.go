// Package series groups raw statistics rows into per-video snapshot series.
package series

import (
	"slices"
	"strings"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

// Outcome describes what Ingest did with a row.
type Outcome struct {
	Skipped        bool // empty entity id
	NewEntity      bool
	SnapshotAdded  bool
	MissingRunAt   bool
	MissingValue   bool
	BadPublishedAt bool
	PublishedMoved bool
}

// Builder owns the entity state accumulated over one pass of rows.
type Builder struct {
	byID  map[string]*domain.Entity
	order []string
}

func NewBuilder() *Builder {
	return &Builder{byID: make(map[string]*domain.Entity)}
}

// Ingest folds one raw row into the entity it references. Malformed fields
// never fail the row; they only withhold the information they carry.
func (b *Builder) Ingest(row domain.RawRow) Outcome {
	var out Outcome

	id := strings.TrimSpace(row.EntityID)
	if id == "" {
		out.Skipped = true
		return out
	}

	e, ok := b.byID[id]
	if !ok {
		e = &domain.Entity{ID: id}
		b.byID[id] = e
		b.order = append(b.order, id)
		out.NewEntity = true
	}

	if row.Label != "" {
		e.Label = row.Label
	}

	if strings.TrimSpace(row.PublishedAt) != "" {
		pub, ok := ParseInstant(row.PublishedAt)
		switch {
		case !ok:
			out.BadPublishedAt = true
		case !e.HasPublished || pub.Before(e.PublishedAt):
			out.PublishedMoved = e.HasPublished
			e.PublishedAt = pub
			e.HasPublished = true
		}
	}

	at, okAt := ParseInstant(row.RunAt)
	v, okVal := ParseValue(row.Value)
	out.MissingRunAt = !okAt
	out.MissingValue = !okVal
	if okAt && okVal {
		e.Snapshots = append(e.Snapshots, domain.Snapshot{At: at, Value: v})
		out.SnapshotAdded = true
	}
	return out
}

// Len returns the number of distinct entities seen so far.
func (b *Builder) Len() int { return len(b.order) }

// Finalize stable-sorts every series by instant and returns the entities in
// the order their ids were first ingested. The builder must not be used
// afterwards.
func (b *Builder) Finalize() []*domain.Entity {
	out := make([]*domain.Entity, 0, len(b.order))
	for _, id := range b.order {
		e := b.byID[id]
		slices.SortStableFunc(e.Snapshots, func(a, c domain.Snapshot) int {
			return a.At.Compare(c.At)
		})
		out = append(out, e)
	}
	return out
}
