package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

var (
	bracketing = ports.SelectionPolicy{Mode: ports.ModeBracketing}
	firstAfter = ports.SelectionPolicy{Mode: ports.ModeFirstAfter}
)

func tolerance(d time.Duration) ports.SelectionPolicy {
	return ports.SelectionPolicy{Mode: ports.ModeTolerance, Tolerance: d}
}

func snaps(base time.Time, offsets ...time.Duration) []domain.Snapshot {
	out := make([]domain.Snapshot, len(offsets))
	for i, o := range offsets {
		out[i] = domain.Snapshot{At: base.Add(o), Value: int64(100 + i)}
	}
	return out
}

func TestPickBracketingReturnsMinimalOvershoot(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	series := snaps(target, -26*time.Hour, -2*time.Hour, time.Hour, 3*time.Hour, 25*time.Hour)

	got := Pick(series, target, bracketing)
	require.True(t, got.Present)
	assert.Equal(t, target.Add(time.Hour), got.At)
	assert.Equal(t, int64(102), got.Value)
}

func TestPickBracketingNoSnapshotBetweenTargetAndResult(t *testing.T) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	series := snaps(base, 0, 5*time.Hour, 5*time.Hour, 29*time.Hour, 30*time.Hour, 54*time.Hour, 80*time.Hour)

	for h := 1; h <= 80; h++ {
		target := base.Add(time.Duration(h) * time.Hour)
		got := Pick(series, target, bracketing)
		require.True(t, got.Present, "target +%dh", h)
		assert.False(t, got.At.Before(target))
		for _, s := range series {
			inGap := !s.At.Before(target) && s.At.Before(got.At)
			assert.False(t, inGap, "snapshot %s lies in [%s, %s)", s.At, target, got.At)
		}
	}
}

func TestPickBracketingAllBeforeIsAbsent(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	series := snaps(target, -48*time.Hour, -24*time.Hour, -time.Second)

	for _, p := range []ports.SelectionPolicy{bracketing, firstAfter, tolerance(12 * time.Hour)} {
		assert.False(t, Pick(series, target, p).Present, p.Mode)
	}
}

func TestPickBracketingAllAfterIsAbsent(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	series := snaps(target, time.Hour, 2*time.Hour)

	assert.False(t, Pick(series, target, bracketing).Present)

	got := Pick(series, target, firstAfter)
	require.True(t, got.Present)
	assert.Equal(t, target.Add(time.Hour), got.At)
}

func TestPickExactTie(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	alone := snaps(target, 0)
	assert.False(t, Pick(alone, target, bracketing).Present)
	assert.True(t, Pick(alone, target, tolerance(0)).Present)
	assert.True(t, Pick(alone, target, firstAfter).Present)

	withHistory := snaps(target, -time.Hour, 0, time.Hour)
	got := Pick(withHistory, target, bracketing)
	require.True(t, got.Present)
	assert.Equal(t, target, got.At)
	assert.Equal(t, int64(101), got.Value)
}

func TestPickToleranceWindow(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	series := snaps(target, 11*time.Hour)

	got := Pick(series, target, tolerance(12*time.Hour))
	require.True(t, got.Present)
	assert.Equal(t, target.Add(11*time.Hour), got.At)

	assert.False(t, Pick(series, target, tolerance(10*time.Hour)).Present)
	assert.True(t, Pick(series, target, tolerance(11*time.Hour)).Present)
}

func TestPickEmptySeries(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range []ports.SelectionPolicy{bracketing, firstAfter, tolerance(time.Hour)} {
		assert.Equal(t, domain.Result{}, Pick(nil, target, p))
	}
}

func TestPickDuplicateInstantsIsDeterministic(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	at := target.Add(2 * time.Hour)
	series := []domain.Snapshot{
		{At: target.Add(-time.Hour), Value: 1},
		{At: at, Value: 7},
		{At: at, Value: 8},
	}

	first := Pick(series, target, bracketing)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Pick(series, target, bracketing))
	}
	assert.Equal(t, int64(7), first.Value)
}

func TestScans(t *testing.T) {
	target := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	series := snaps(target, -2*time.Hour, -time.Hour, 0, time.Hour)

	assert.Equal(t, 2, FirstAtOrAfter(series, target))
	assert.Equal(t, 1, LastBefore(series, target))
	assert.Equal(t, -1, FirstAtOrAfter(series, target.Add(2*time.Hour)))
	assert.Equal(t, -1, LastBefore(series, target.Add(-2*time.Hour)))
}
