package milestone

import (
	"time"

	"github.com/ghalamif/ViewPulse/internal/domain"
	"github.com/ghalamif/ViewPulse/internal/ports"
)

// FirstAtOrAfter returns the index of the earliest snapshot at or after
// target in a sorted series, or -1.
func FirstAtOrAfter(series []domain.Snapshot, target time.Time) int {
	for i, s := range series {
		if !s.At.Before(target) {
			return i
		}
	}
	return -1
}

// LastBefore returns the index of the latest snapshot strictly before
// target in a sorted series, or -1.
func LastBefore(series []domain.Snapshot, target time.Time) int {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].At.Before(target) {
			return i
		}
	}
	return -1
}

// Pick selects the snapshot representing target under policy. The series
// must be sorted by instant. An unknown mode behaves like bracketing.
func Pick(series []domain.Snapshot, target time.Time, policy ports.SelectionPolicy) domain.Result {
	if len(series) == 0 {
		return domain.Result{}
	}

	after := FirstAtOrAfter(series, target)
	if after < 0 {
		return domain.Result{}
	}
	hit := series[after]

	switch policy.Mode {
	case ports.ModeFirstAfter:
	case ports.ModeTolerance:
		if hit.At.Sub(target) > policy.Tolerance {
			return domain.Result{}
		}
	default:
		if LastBefore(series, target) < 0 {
			return domain.Result{}
		}
	}
	return domain.Result{Present: true, Value: hit.Value, At: hit.At}
}
