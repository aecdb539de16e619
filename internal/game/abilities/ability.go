// Package abilities builds the effects that character abilities create. Each
// ability expresses its duration and its dependency on its source through
// effect hooks, so the cascade controller keeps it correct as the source
// dies, malfunctions or recovers.
package abilities

import (
	"errors"
	"fmt"
	"sort"

	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/targeting"
)

var (
	// ErrNoAbility is returned for characters without an active ability.
	ErrNoAbility = errors.New("character has no active ability")
	// ErrBadPick is returned when the storyteller's pick is not one of the allowed players.
	ErrBadPick = errors.New("storyteller pick is not allowed")
)

// Use is one resolved activation: the acting player, the already-chosen
// targets and, where the ability leaves a choice to the storyteller, the
// storyteller's pick.
type Use struct {
	Actor   *player.Player
	Targets []*player.Player
	Pick    effects.PlayerID
}

// Selection converts the use into a targeting selection.
func (u Use) Selection(req targeting.TargetRequirement) *targeting.TargetSelection {
	ids := make([]string, len(u.Targets))
	for i, t := range u.Targets {
		ids[i] = string(t.ID())
	}
	return &targeting.TargetSelection{Chooser: string(u.Actor.ID()), Targets: ids, Requirement: req}
}

// Ability is an active character ability.
type Ability interface {
	// Name returns the character the ability belongs to.
	Name() string
	// Requirement describes the players the ability must be given.
	Requirement() targeting.TargetRequirement
	// Apply creates and turns on the ability's effects. Targets have already
	// been validated against Requirement.
	Apply(sw effects.Switch, use Use) ([]*effects.Effect, error)
}

var registry = map[string]Ability{}

func register(a Ability) {
	registry[a.Name()] = a
}

// For returns the active ability of a character.
func For(character string) (Ability, error) {
	if a, ok := registry[character]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAbility, character)
}

// Names returns every character with an active ability, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// deleteSelf removes the effect.
func deleteSelf(sw effects.Switch, e *effects.Effect) { sw.Delete(e) }

// suspend switches the effect off while keeping it on the stack.
func suspend(sw effects.Switch, e *effects.Effect) { sw.Disable(e) }

// resume switches a suspended effect back on.
func resume(sw effects.Switch, e *effects.Effect) { sw.Enable(e) }

// sourced starts an effect that depends on its source: gone when the source
// dies, off while the source malfunctions, back on when it recovers.
func sourced(name string, actor *player.Player) *effects.Builder {
	b := effects.NewBuilder(name).
		From(actor.ID()).
		OnSourceDeath(deleteSelf).
		OnSourceDrunkPoisoned(suspend).
		OnSourceStartsFunctioning(resume)
	if !actor.Functioning(false) {
		b.Disabled()
	}
	return b
}

// turnOn attaches a new effect through the switch.
func turnOn(sw effects.Switch, e *effects.Effect) *effects.Effect {
	return sw.TurnOn(e, func() { e.Attach() })
}
