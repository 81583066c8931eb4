package domain

import "time"

// Entity is one tracked video together with its accumulated snapshot series.
type Entity struct {
	ID    string
	Label string

	// PublishedAt is only meaningful when HasPublished is true.
	PublishedAt  time.Time
	HasPublished bool

	Snapshots []Snapshot
}

// MilestoneName identifies a milestone column ("24h", "7d", "eod", ...).
type MilestoneName string

const (
	Milestone24h MilestoneName = "24h"
	Milestone7d  MilestoneName = "7d"
	Milestone15d MilestoneName = "15d"
	Milestone30d MilestoneName = "30d"
	Milestone90d MilestoneName = "90d"
	MilestoneEOD MilestoneName = "eod"
)

// Target is the absolute instant a milestone refers to for one entity.
type Target struct {
	Name MilestoneName
	At   time.Time
}

// Result is the outcome of picking a snapshot for a target. The zero value
// means the milestone is absent.
type Result struct {
	Present bool
	Value   int64
	At      time.Time
}

// Absent reports whether no qualifying snapshot was found.
func (r Result) Absent() bool { return !r.Present }
