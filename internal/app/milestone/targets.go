// Package milestone derives per-video milestone readings from a finalized
// snapshot series.
package milestone

import (
	"fmt"
	"time"
	_ "time/tzdata" // the reference zone must resolve on hosts without a zoneinfo database

	"github.com/ghalamif/ViewPulse/internal/domain"
)

const DefaultTimezone = "Asia/Bangkok"

// Offset is a fixed-duration milestone measured from the publish instant.
type Offset struct {
	Name  domain.MilestoneName `yaml:"name"`
	Days  int                  `yaml:"days"`
	Hours int                  `yaml:"hours"`
}

// Duration is the absolute distance from publication. Days are exact 24h
// multiples; no civil-calendar or DST adjustment is applied.
func (o Offset) Duration() time.Duration {
	return time.Duration(o.Days)*24*time.Hour + time.Duration(o.Hours)*time.Hour
}

// DefaultOffsets are the 24h, 7d, 15d, 30d and 90d milestones.
func DefaultOffsets() []Offset {
	return []Offset{
		{Name: domain.Milestone24h, Days: 1},
		{Name: domain.Milestone7d, Days: 7},
		{Name: domain.Milestone15d, Days: 15},
		{Name: domain.Milestone30d, Days: 30},
		{Name: domain.Milestone90d, Days: 90},
	}
}

// Calculator turns a publish instant into milestone targets.
type Calculator struct {
	loc      *time.Location
	offsets  []Offset
	endOfDay bool
}

func NewCalculator(loc *time.Location, offsets []Offset, endOfDay bool) (*Calculator, error) {
	if loc == nil {
		return nil, fmt.Errorf("reference location is required")
	}
	seen := make(map[domain.MilestoneName]struct{}, len(offsets)+1)
	for _, o := range offsets {
		if o.Name == "" {
			return nil, fmt.Errorf("milestone offset without a name")
		}
		if o.Duration() <= 0 {
			return nil, fmt.Errorf("milestone %s: offset must be positive", o.Name)
		}
		if _, dup := seen[o.Name]; dup {
			return nil, fmt.Errorf("milestone %s defined twice", o.Name)
		}
		seen[o.Name] = struct{}{}
	}
	if _, dup := seen[domain.MilestoneEOD]; dup && endOfDay {
		return nil, fmt.Errorf("milestone %s is reserved for the end of the publish day", domain.MilestoneEOD)
	}
	return &Calculator{loc: loc, offsets: append([]Offset(nil), offsets...), endOfDay: endOfDay}, nil
}

// Location is the reference zone used for civil dates.
func (c *Calculator) Location() *time.Location { return c.loc }

// Names lists the milestones in report column order.
func (c *Calculator) Names() []domain.MilestoneName {
	out := make([]domain.MilestoneName, 0, len(c.offsets)+1)
	for _, o := range c.offsets {
		out = append(out, o.Name)
	}
	if c.endOfDay {
		out = append(out, domain.MilestoneEOD)
	}
	return out
}

// Targets returns the absolute target instants for publish, in Names order.
func (c *Calculator) Targets(publish time.Time) []domain.Target {
	pub := publish.UTC()
	out := make([]domain.Target, 0, len(c.offsets)+1)
	for _, o := range c.offsets {
		out = append(out, domain.Target{Name: o.Name, At: pub.Add(o.Duration())})
	}
	if c.endOfDay {
		out = append(out, domain.Target{Name: domain.MilestoneEOD, At: EndOfDay(publish, c.loc)})
	}
	return out
}

// EndOfDay returns the first instant of the civil day following publish's
// civil day in loc, in UTC. The zone's offset rules for that date apply.
func EndOfDay(publish time.Time, loc *time.Location) time.Time {
	y, m, d := publish.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc).UTC()
}

// CivilDate formats publish's calendar date in loc as YYYY-MM-DD.
func CivilDate(publish time.Time, loc *time.Location) string {
	return publish.In(loc).Format(time.DateOnly)
}
