package targeting

import (
	"fmt"
)

// TargetPlayerInfo provides information about a player for target validation.
type TargetPlayerInfo struct {
	PlayerID string
	Name     string
	Dead     bool
}

// TargetGameStateAccessor provides the game state needed for validation.
type TargetGameStateAccessor interface {
	// FindPlayerForTarget finds player info by ID
	FindPlayerForTarget(playerID string) (TargetPlayerInfo, bool)
}

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor) *TargetValidator {
	return &TargetValidator{gameState: gameState}
}

// Validate checks the selection shape and every chosen player.
func (tv *TargetValidator) Validate(selection *TargetSelection) error {
	if err := selection.Validate(); err != nil {
		return err
	}
	req := selection.Requirement
	for _, id := range selection.Targets {
		info, ok := tv.gameState.FindPlayerForTarget(id)
		if !ok {
			return fmt.Errorf("%w: %s is not seated", ErrIllegalTarget, id)
		}
		if req.NotSelf && id == selection.Chooser {
			return fmt.Errorf("%w: %s may not choose themself", ErrIllegalTarget, info.Name)
		}
		if req.AliveOnly && info.Dead {
			return fmt.Errorf("%w: %s is dead", ErrIllegalTarget, info.Name)
		}
	}
	return nil
}
