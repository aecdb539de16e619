package effects

import (
	"github.com/clocktower/grimoire-go/internal/game/status"
	"github.com/google/uuid"
)

// Builder provides a fluent API for the effects abilities create.
//
//	e := effects.NewBuilder("Poisoner").
//		From(poisoner).
//		Causes(status.Poisoned).
//		OnSourceDeath(deleteSelf).
//		On(target.Stack())
type Builder struct {
	kind      Kind
	name      string
	appears   bool
	disabled  bool
	source    PlayerID
	direct    map[status.Status]Predicate
	registers map[status.Status]Predicate
	hooks     Hooks
}

// NewBuilder starts a visible, enabled, storyteller-sourced custom effect.
func NewBuilder(name string) *Builder {
	return &Builder{
		kind:      KindCustom,
		name:      name,
		appears:   true,
		source:    Storyteller,
		direct:    make(map[status.Status]Predicate),
		registers: make(map[status.Status]Predicate),
	}
}

// From sets the source player.
func (b *Builder) From(source PlayerID) *Builder {
	b.source = source
	return b
}

// Causes adds static claims.
func (b *Builder) Causes(statuses ...status.Status) *Builder {
	for _, s := range statuses {
		status.MustValid(s)
		b.direct[s] = Always
	}
	return b
}

// CausesWhen adds a dynamic claim.
func (b *Builder) CausesWhen(s status.Status, pred Predicate) *Builder {
	status.MustValid(s)
	b.direct[s] = pred
	return b
}

// Denies adds an explicit false claim, which blocks composed fallback for s.
func (b *Builder) Denies(s status.Status) *Builder {
	status.MustValid(s)
	b.direct[s] = Never
	return b
}

// RegistersAs adds static registration claims.
func (b *Builder) RegistersAs(statuses ...status.Status) *Builder {
	for _, s := range statuses {
		status.MustValid(s)
		b.registers[s] = Always
	}
	return b
}

// RegistersAsWhen adds a dynamic registration claim.
func (b *Builder) RegistersAsWhen(s status.Status, pred Predicate) *Builder {
	status.MustValid(s)
	b.registers[s] = pred
	return b
}

// Hidden keeps the effect out of the default grimoire view.
func (b *Builder) Hidden() *Builder {
	b.appears = false
	return b
}

// Disabled creates the effect switched off.
func (b *Builder) Disabled() *Builder {
	b.disabled = true
	return b
}

// OnMorning sets the start-of-day hook.
func (b *Builder) OnMorning(fn func(sw Switch, e *Effect)) *Builder {
	b.hooks.MorningCleanup = fn
	return b
}

// OnEvening sets the end-of-day hook.
func (b *Builder) OnEvening(fn func(sw Switch, e *Effect)) *Builder {
	b.hooks.EveningCleanup = fn
	return b
}

// OnSourceDrunkPoisoned sets the hook run when the source stops functioning.
func (b *Builder) OnSourceDrunkPoisoned(fn func(sw Switch, e *Effect)) *Builder {
	b.hooks.SourceDrunkPoisonedCleanup = fn
	return b
}

// OnSourceDeath sets the hook run when the source dies.
func (b *Builder) OnSourceDeath(fn func(sw Switch, e *Effect)) *Builder {
	b.hooks.SourceDeathCleanup = fn
	return b
}

// OnSourceStartsFunctioning sets the hook run when the source recovers.
func (b *Builder) OnSourceStartsFunctioning(fn func(sw Switch, e *Effect)) *Builder {
	b.hooks.SourceStartsFunctioning = fn
	return b
}

// OnNomination sets the nomination veto hook.
func (b *Builder) OnNomination(fn func(e *Effect, nominee, nominator PlayerID) bool) *Builder {
	b.hooks.Nomination = fn
	return b
}

// On creates the effect bound to stack s. The effect starts detached.
func (b *Builder) On(s *Stack) *Effect {
	e := &Effect{
		id:        uuid.NewString(),
		kind:      b.kind,
		name:      b.name,
		appears:   b.appears,
		enabled:   !b.disabled,
		source:    b.source,
		stack:     s,
		direct:    make(map[status.Status]Predicate, len(b.direct)),
		registers: make(map[status.Status]Predicate, len(b.registers)),
		hooks:     b.hooks,
	}
	for k, v := range b.direct {
		e.direct[k] = v
	}
	for k, v := range b.registers {
		e.registers[k] = v
	}
	return e
}
