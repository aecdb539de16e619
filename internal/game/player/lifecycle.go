package player

import (
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/cascade"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/counters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"go.uber.org/zap"
)

// ExecutionOutcome is the result of an execution.
type ExecutionOutcome int

const (
	AlreadyDead ExecutionOutcome = iota
	Survived
	Died
)

func (o ExecutionOutcome) String() string {
	switch o {
	case AlreadyDead:
		return "ALREADY_DEAD"
	case Survived:
		return "SURVIVED"
	case Died:
		return "DIED"
	default:
		return "UNKNOWN"
	}
}

// Report renders the public announcement for an execution of name.
func (o ExecutionOutcome) Report(name string) string {
	text := name + " has been executed, "
	switch o {
	case AlreadyDead:
		return text + "but is already dead."
	case Survived:
		return text + "but does not die."
	default:
		return text + "and dies."
	}
}

// Morning resets the day-scoped fields and runs the start-of-day hook of
// every effect on the player.
func (p *Player) Morning(sw effects.Switch, inactive bool) {
	p.isInactive = inactive
	p.counters.Set(counters.NominationsToday, 0)
	p.hasBeenNominated = false
	p.hasSpoken = inactive
	p.hasSkipped = inactive
	effects.MorningCleanup(sw, p.stack)
}

// SpendDeadVote takes a dead-vote token if voting costs the player one. It
// reports false when a token was needed but none was left.
func (p *Player) SpendDeadVote(ops *counters.CounterOperations) bool {
	if !p.NeedsDeadVoteToken() {
		return true
	}
	if ops == nil {
		return p.counters.Remove(counters.DeadVote, 1)
	}
	return ops.Remove(string(p.id), p.counters, counters.DeadVote, 1)
}

// Revive removes every effect directly causing dead or used_ability, leaving
// unrelated effects in place, then tells the player's dependents they may
// function again. It returns the public announcement.
func (p *Player) Revive(ctrl *cascade.Controller) string {
	removed := p.stack.RemoveDirect(status.Dead, status.UsedAbility)
	p.logger.Info("player revived", zap.Int("effects_removed", len(removed)))
	ctrl.NotifyStartsFunctioning(p.id)
	return fmt.Sprintf("%s has come back to life.", p.name)
}

// Execute kills the player unless already dead or safe. The death effect is
// appended directly; it does not go through the cascade controller, so the
// player's dependents are not notified.
func (p *Player) Execute() ExecutionOutcome {
	var outcome ExecutionOutcome
	switch {
	case p.Ghost(false):
		outcome = AlreadyDead
	case p.IsStatus(status.Safe, false):
		outcome = Survived
	default:
		p.stack.New(effects.KindDead, p.id).Attach()
		outcome = Died
	}
	p.executions++
	p.lastExecution = outcome
	p.logger.Info("player executed", zap.Stringer("outcome", outcome))
	return outcome
}

// Executions counts the player's executions, whatever their outcome. An
// ability that executes someone can be detected by comparing counts.
func (p *Player) Executions() int { return p.executions }

// LastExecution returns the outcome of the most recent execution.
func (p *Player) LastExecution() ExecutionOutcome { return p.lastExecution }

// ChangeCharacter deletes every effect the player sources anywhere in the
// town, assigns character and attaches its default effects.
func (p *Player) ChangeCharacter(ctrl *cascade.Controller, character *characters.Character) {
	for _, e := range ctrl.SourcedBy(p.id) {
		ctrl.Delete(e)
	}
	previous := p.character.Name
	p.character = character
	for _, kind := range character.DefaultEffects() {
		ctrl.TurnOn(p.stack.New(kind, p.id), nil)
	}
	p.logger.Info("character changed",
		zap.String("from", previous),
		zap.String("to", character.Name))
}
