// Package targeting validates player choices that were already resolved by
// the interaction layer.
package targeting

import (
	"errors"
	"fmt"
)

var (
	// ErrTargetCount is returned when too few or too many players were chosen.
	ErrTargetCount = errors.New("wrong number of targets")
	// ErrIllegalTarget is returned when a chosen player does not qualify.
	ErrIllegalTarget = errors.New("illegal target")
)

// TargetRequirement defines which players an ability may choose.
type TargetRequirement struct {
	// MinTargets is the minimum number of players required
	MinTargets int
	// MaxTargets is the maximum number of players allowed
	MaxTargets int
	// NotSelf forbids choosing the acting player
	NotSelf bool
	// AliveOnly forbids choosing dead players
	AliveOnly bool
	// Distinct forbids choosing the same player twice
	Distinct bool
	// Description is a human-readable description of the requirement
	Description string
}

// Exactly requires n distinct players.
func Exactly(n int, description string) TargetRequirement {
	return TargetRequirement{MinTargets: n, MaxTargets: n, Distinct: true, Description: description}
}

// TargetSelection is the chooser's resolved selection.
type TargetSelection struct {
	Chooser     string
	Targets     []string
	Requirement TargetRequirement
}

// IsComplete checks if the selection count meets the requirement.
func (ts *TargetSelection) IsComplete() bool {
	if ts == nil {
		return false
	}
	count := len(ts.Targets)
	return count >= ts.Requirement.MinTargets && count <= ts.Requirement.MaxTargets
}

// Validate checks the selection count and distinctness.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if !ts.IsComplete() {
		if count < ts.Requirement.MinTargets {
			return fmt.Errorf("%w: need at least %d, got %d", ErrTargetCount, ts.Requirement.MinTargets, count)
		}
		return fmt.Errorf("%w: need at most %d, got %d", ErrTargetCount, ts.Requirement.MaxTargets, count)
	}
	if ts.Requirement.Distinct {
		seen := make(map[string]struct{}, count)
		for _, id := range ts.Targets {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s chosen twice", ErrIllegalTarget, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}
