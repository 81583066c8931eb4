package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestEndOfDayBangkok(t *testing.T) {
	bkk := mustZone(t, "Asia/Bangkok")
	pub := time.Date(2024, 1, 15, 23, 50, 0, 0, time.FixedZone("ICT", 7*3600))

	got := EndOfDay(pub, bkk)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	early := time.Date(2024, 1, 15, 0, 10, 0, 0, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, got, EndOfDay(early, bkk))

	// 17:30Z on the 15th is already the 16th in Bangkok.
	late := time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 16, 17, 0, 0, 0, time.UTC), EndOfDay(late, bkk))
}

func TestEndOfDayFollowsZoneRulesAcrossDST(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// Publish day is the last day on EST; next midnight is still -05:00.
	pub := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	assert.Equal(t, time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC), EndOfDay(pub, ny))

	// Publish day is the switch day; next midnight is on EDT (-04:00).
	pub = time.Date(2024, 3, 10, 12, 0, 0, 0, ny)
	assert.Equal(t, time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC), EndOfDay(pub, ny))

	// Fall back: day after 2024-11-03 starts at -05:00.
	pub = time.Date(2024, 11, 3, 9, 0, 0, 0, ny)
	assert.Equal(t, time.Date(2024, 11, 4, 5, 0, 0, 0, time.UTC), EndOfDay(pub, ny))
}

func TestCalculatorTargets(t *testing.T) {
	bkk := mustZone(t, "Asia/Bangkok")
	calc, err := NewCalculator(bkk, DefaultOffsets(), true)
	require.NoError(t, err)

	pub := time.Date(2024, 1, 15, 16, 50, 0, 0, time.UTC)
	targets := calc.Targets(pub)

	want := []domain.Target{
		{Name: domain.Milestone24h, At: pub.Add(24 * time.Hour)},
		{Name: domain.Milestone7d, At: pub.Add(7 * 24 * time.Hour)},
		{Name: domain.Milestone15d, At: pub.Add(15 * 24 * time.Hour)},
		{Name: domain.Milestone30d, At: pub.Add(30 * 24 * time.Hour)},
		{Name: domain.Milestone90d, At: pub.Add(90 * 24 * time.Hour)},
		{Name: domain.MilestoneEOD, At: time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, want, targets)
	assert.Equal(t, []domain.MilestoneName{"24h", "7d", "15d", "30d", "90d", "eod"}, calc.Names())
}

func TestCalculatorOffsetsIgnoreDST(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	calc, err := NewCalculator(ny, []Offset{{Name: "7d", Days: 7}}, false)
	require.NoError(t, err)

	pub := time.Date(2024, 3, 8, 12, 0, 0, 0, ny)
	targets := calc.Targets(pub)
	require.Len(t, targets, 1)
	assert.Equal(t, 168*time.Hour, targets[0].At.Sub(pub))
}

func TestNewCalculatorRejectsBadOffsets(t *testing.T) {
	bkk := mustZone(t, "Asia/Bangkok")

	_, err := NewCalculator(nil, DefaultOffsets(), true)
	assert.Error(t, err)

	_, err = NewCalculator(bkk, []Offset{{Name: "1d", Days: 1}, {Name: "1d", Hours: 24}}, true)
	assert.Error(t, err)

	_, err = NewCalculator(bkk, []Offset{{Name: "now"}}, true)
	assert.Error(t, err)

	_, err = NewCalculator(bkk, []Offset{{Days: 1}}, true)
	assert.Error(t, err)

	_, err = NewCalculator(bkk, []Offset{{Name: domain.MilestoneEOD, Days: 1}}, true)
	assert.Error(t, err)

	_, err = NewCalculator(bkk, []Offset{{Name: "36h", Days: 1, Hours: 12}}, false)
	assert.NoError(t, err)
}

func TestCivilDate(t *testing.T) {
	bkk := mustZone(t, "Asia/Bangkok")
	assert.Equal(t, "2024-01-16", CivilDate(time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), bkk))
	assert.Equal(t, "2024-01-15", CivilDate(time.Date(2024, 1, 15, 16, 59, 59, 0, time.UTC), bkk))
}
