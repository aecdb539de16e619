package abilities

import (
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"github.com/clocktower/grimoire-go/internal/game/targeting"
)

func init() {
	register(poisoner{})
	register(monk{})
	register(innkeeper{})
	register(sailor{})
}

// poisoner: each night, choose a player: they are poisoned tonight and
// tomorrow day.
type poisoner struct{}

func (poisoner) Name() string { return "Poisoner" }

func (poisoner) Requirement() targeting.TargetRequirement {
	return targeting.Exactly(1, "choose a player to poison")
}

func (poisoner) Apply(sw effects.Switch, use Use) ([]*effects.Effect, error) {
	target := use.Targets[0]
	e := sourced("Poisoned by the Poisoner", use.Actor).
		Causes(status.Poisoned).
		OnEvening(deleteSelf).
		On(target.Stack())
	return []*effects.Effect{turnOn(sw, e)}, nil
}

// monk: each night*, choose a player (not yourself): they are safe from the
// Demon tonight.
type monk struct{}

func (monk) Name() string { return "Monk" }

func (monk) Requirement() targeting.TargetRequirement {
	req := targeting.Exactly(1, "choose a player (not yourself) to protect")
	req.NotSelf = true
	return req
}

func (monk) Apply(sw effects.Switch, use Use) ([]*effects.Effect, error) {
	e := sourced("Protected by the Monk", use.Actor).
		Causes(status.SafeFromDemon).
		OnMorning(deleteSelf).
		On(use.Targets[0].Stack())
	return []*effects.Effect{turnOn(sw, e)}, nil
}

// innkeeper: each night*, choose 2 players: they can't die tonight, but 1 is
// drunk until dusk. The storyteller picks the drunk one.
type innkeeper struct{}

func (innkeeper) Name() string { return "Innkeeper" }

func (innkeeper) Requirement() targeting.TargetRequirement {
	return targeting.Exactly(2, "choose 2 players to protect")
}

func (innkeeper) Apply(sw effects.Switch, use Use) ([]*effects.Effect, error) {
	drunkIdx := -1
	for i, t := range use.Targets {
		if t.ID() == use.Pick {
			drunkIdx = i
		}
	}
	if drunkIdx < 0 {
		return nil, fmt.Errorf("%w: innkeeper drunk must be one of the targets", ErrBadPick)
	}

	var out []*effects.Effect
	for _, t := range use.Targets {
		safe := sourced("Protected by the Innkeeper", use.Actor).
			Causes(status.Safe).
			OnMorning(deleteSelf).
			On(t.Stack())
		out = append(out, turnOn(sw, safe))
	}
	drunk := sourced("Drunk from the Innkeeper", use.Actor).
		Causes(status.Drunk).
		OnEvening(deleteSelf).
		On(use.Targets[drunkIdx].Stack())
	return append(out, turnOn(sw, drunk)), nil
}

// sailor: each night, choose an alive player: either you or they are drunk
// until dusk. The storyteller picks which.
type sailor struct{}

func (sailor) Name() string { return "Sailor" }

func (sailor) Requirement() targeting.TargetRequirement {
	req := targeting.Exactly(1, "choose an alive player")
	req.AliveOnly = true
	return req
}

func (sailor) Apply(sw effects.Switch, use Use) ([]*effects.Effect, error) {
	target := use.Targets[0]
	drunk := target
	switch use.Pick {
	case target.ID():
	case use.Actor.ID():
		drunk = use.Actor
	default:
		return nil, fmt.Errorf("%w: sailor drunk must be the sailor or the target", ErrBadPick)
	}
	// The sailor's own drinking does not depend on the sailor functioning.
	e := effects.NewBuilder("Drunk from the Sailor").
		From(use.Actor.ID()).
		Causes(status.Drunk).
		OnEvening(deleteSelf).
		On(drunk.Stack())
	return []*effects.Effect{turnOn(sw, e)}, nil
}
