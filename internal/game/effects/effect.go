package effects

import (
	"github.com/clocktower/grimoire-go/internal/game/status"
)

// PlayerID identifies a seated player (or storyteller).
type PlayerID string

// Storyteller is the source of effects caused by the storyteller or the game
// itself rather than by any player.
const Storyteller PlayerID = ""

// Predicate computes a claim dynamically. Returning false is an explicit
// denial and suppresses composed fallback for that status.
type Predicate func(e *Effect) bool

// Always is the predicate of a static claim.
func Always(*Effect) bool { return true }

// Never is the predicate of a static denial.
func Never(*Effect) bool { return false }

// Switch toggles effects while propagating cascade hooks. It is implemented
// by the cascade controller and handed to every hook so that an effect can
// turn itself (or others) on and off.
type Switch interface {
	TurnOn(e *Effect, enable func()) *Effect
	TurnOff(e *Effect, disable func())
	Enable(e *Effect) *Effect
	Disable(e *Effect)
	Delete(e *Effect)
}

// Hooks are the optional lifecycle callbacks of an effect. Nil hooks are no-ops.
type Hooks struct {
	MorningCleanup             func(sw Switch, e *Effect)
	EveningCleanup             func(sw Switch, e *Effect)
	SourceDrunkPoisonedCleanup func(sw Switch, e *Effect)
	SourceDeathCleanup         func(sw Switch, e *Effect)
	SourceStartsFunctioning    func(sw Switch, e *Effect)
	Nomination                 func(e *Effect, nominee, nominator PlayerID) bool
}

// Effect is one cause of one or more statuses on one player. An effect is
// bound to the stack it was created on and can only ever sit in that stack.
type Effect struct {
	id        string
	kind      Kind
	name      string
	appears   bool
	enabled   bool
	source    PlayerID
	stack     *Stack
	direct    map[status.Status]Predicate
	registers map[status.Status]Predicate
	hooks     Hooks
}

// ID returns the unique identifier.
func (e *Effect) ID() string { return e.id }

// Kind returns the catalog variant, or KindCustom for ability effects.
func (e *Effect) Kind() Kind { return e.kind }

// Name returns the display label.
func (e *Effect) Name() string { return e.name }

// Appears reports whether the effect is shown in the grimoire by default.
func (e *Effect) Appears() bool { return e.appears }

// Enabled reports whether the effect currently contributes to any query.
func (e *Effect) Enabled() bool { return e.enabled }

// SetEnabled flips the raw flag. It performs no cascade; use it only inside
// an enabler or disabler passed to a Switch.
func (e *Effect) SetEnabled(enabled bool) { e.enabled = enabled }

// Affected returns the player whose stack owns the effect.
func (e *Effect) Affected() PlayerID { return e.stack.owner }

// Source returns the player who caused the effect, or Storyteller.
func (e *Effect) Source() PlayerID { return e.source }

// StorytellerCaused reports whether no player sourced the effect.
func (e *Effect) StorytellerCaused() bool { return e.source == Storyteller }

// Stack returns the owning stack.
func (e *Effect) Stack() *Stack { return e.stack }

// Attach appends the effect to its owning stack. Attaching twice is a no-op.
func (e *Effect) Attach() {
	if e.Attached() {
		return
	}
	e.stack.effects = append(e.stack.effects, e)
}

// Detach removes the effect from its owning stack and reports whether it was
// present. Detaching an absent effect is a no-op.
func (e *Effect) Detach() bool {
	for i, other := range e.stack.effects {
		if other == e {
			e.stack.effects = append(e.stack.effects[:i], e.stack.effects[i+1:]...)
			return true
		}
	}
	return false
}

// Attached reports whether the effect currently sits in its stack.
func (e *Effect) Attached() bool {
	return e.stack.Contains(e)
}

// Claim returns the effect's own answer about s, ignoring the enabled flag
// and composed fallback.
func (e *Effect) Claim(s status.Status) status.Claim {
	pred, ok := e.direct[s]
	if !ok {
		return status.ClaimUnspecified
	}
	return status.ClaimOf(pred(e))
}

// Status reports whether the effect causes s. Disabled effects cause nothing.
// Composed kinds that are not claimed directly fall back to their parts.
func (e *Effect) Status(s status.Status) bool {
	status.MustValid(s)
	if !e.enabled {
		return false
	}
	return e.stack.resolve(e, s)
}

// RegistersStatus reports whether the effect makes its player register as s.
// There is no composed fallback for registration.
func (e *Effect) RegistersStatus(s status.Status) bool {
	status.MustValid(s)
	if !e.enabled {
		return false
	}
	pred, ok := e.registers[s]
	return ok && pred(e)
}

// DirectlyCauses reports whether the enabled effect claims s itself, without
// consulting fallbacks.
func (e *Effect) DirectlyCauses(s status.Status) bool {
	return e.enabled && e.Claim(s) == status.ClaimTrue
}

// MorningCleanup runs the start-of-day hook.
func (e *Effect) MorningCleanup(sw Switch) {
	if e.hooks.MorningCleanup != nil {
		e.hooks.MorningCleanup(sw, e)
	}
}

// EveningCleanup runs the end-of-day hook.
func (e *Effect) EveningCleanup(sw Switch) {
	if e.hooks.EveningCleanup != nil {
		e.hooks.EveningCleanup(sw, e)
	}
}

// SourceDrunkPoisonedCleanup runs when the source stops functioning but lives.
func (e *Effect) SourceDrunkPoisonedCleanup(sw Switch) {
	if e.hooks.SourceDrunkPoisonedCleanup != nil {
		e.hooks.SourceDrunkPoisonedCleanup(sw, e)
	}
}

// SourceDeathCleanup runs when the source dies.
func (e *Effect) SourceDeathCleanup(sw Switch) {
	if e.hooks.SourceDeathCleanup != nil {
		e.hooks.SourceDeathCleanup(sw, e)
	}
}

// SourceStartsFunctioning runs when a non-functioning source recovers.
func (e *Effect) SourceStartsFunctioning(sw Switch) {
	if e.hooks.SourceStartsFunctioning != nil {
		e.hooks.SourceStartsFunctioning(sw, e)
	}
}

// Nomination lets the effect veto a nomination of its player. The default is
// to allow it.
func (e *Effect) Nomination(nominee, nominator PlayerID) bool {
	if e.hooks.Nomination == nil {
		return true
	}
	return e.hooks.Nomination(e, nominee, nominator)
}
