package ports

import (
	"fmt"
	"time"
)

// SelectionMode names how a milestone snapshot is validated against its target.
type SelectionMode string

const (
	// ModeBracketing needs a snapshot strictly before the target and one at
	// or after it; the earliest at-or-after snapshot is reported.
	ModeBracketing SelectionMode = "bracketing"
	// ModeTolerance accepts the earliest at-or-after snapshot when it lags the
	// target by at most Tolerance.
	ModeTolerance SelectionMode = "tolerance"
	// ModeFirstAfter accepts the earliest at-or-after snapshot unconditionally.
	ModeFirstAfter SelectionMode = "first_after"
)

const DefaultTolerance = 12 * time.Hour

type SelectionPolicy struct {
	Mode      SelectionMode `yaml:"policy"`
	Tolerance time.Duration `yaml:"tolerance"`
}

func (p SelectionPolicy) Validate() error {
	switch p.Mode {
	case ModeBracketing, ModeFirstAfter:
		return nil
	case ModeTolerance:
		if p.Tolerance < 0 {
			return fmt.Errorf("tolerance must be >= 0, got %s", p.Tolerance)
		}
		return nil
	default:
		return fmt.Errorf("unknown selection policy %q", p.Mode)
	}
}
