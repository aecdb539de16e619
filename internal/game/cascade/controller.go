// Package cascade toggles effects and propagates the resulting life and
// functioning changes to every effect the affected player sources.
package cascade

import (
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how deeply hook-driven cascades may nest.
const DefaultMaxDepth = 16

// Roster exposes every stack in the game. The source relation is computed by
// scanning it, never cached.
type Roster interface {
	Stacks() []*effects.Stack
}

// Stacks is a fixed Roster.
type Stacks []*effects.Stack

// Stacks implements Roster.
func (s Stacks) Stacks() []*effects.Stack { return s }

// Hook names a source-relation hook.
type Hook int

const (
	HookSourceDeath Hook = iota
	HookSourceDrunkPoisoned
	HookSourceStartsFunctioning
)

var hookNames = map[Hook]string{
	HookSourceDeath:             "source_death_cleanup",
	HookSourceDrunkPoisoned:     "source_drunk_poisoned_cleanup",
	HookSourceStartsFunctioning: "source_starts_functioning",
}

func (h Hook) String() string {
	if name, ok := hookNames[h]; ok {
		return name
	}
	return "unknown"
}

var hookEvents = map[Hook]rules.EventType{
	HookSourceDeath:             rules.EventSourceDied,
	HookSourceDrunkPoisoned:     rules.EventSourceStoppedFunctioning,
	HookSourceStartsFunctioning: rules.EventSourceStartsFunctioning,
}

type firing struct {
	effect *effects.Effect
	hook   Hook
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxDepth overrides the nesting cap. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(c *Controller) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithEventBus publishes cascade events on bus.
func WithEventBus(bus *rules.EventBus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// Controller is the only sanctioned way to switch effects on and off.
// Within one top-level cascade each (effect, hook) pair fires at most once.
type Controller struct {
	roster   Roster
	bus      *rules.EventBus
	logger   *zap.Logger
	maxDepth int
	depth    int
	fired    map[firing]struct{}
}

var _ effects.Switch = (*Controller)(nil)

// New creates a controller over roster.
func New(roster Roster, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		roster:   roster,
		logger:   logger,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SourcedBy returns every attached effect, across all stacks, whose source is p.
func (c *Controller) SourcedBy(p effects.PlayerID) []*effects.Effect {
	var out []*effects.Effect
	for _, s := range c.roster.Stacks() {
		out = append(out, s.SourcedBy(p)...)
	}
	return out
}

// TurnOn runs enable and, if the affected player stopped functioning because
// of it, fires the death or drunk/poisoned hook on the player's dependents.
// A nil enable attaches and enables the effect.
func (c *Controller) TurnOn(e *effects.Effect, enable func()) *effects.Effect {
	if enable == nil {
		enable = func() {
			e.SetEnabled(true)
			e.Attach()
		}
	}
	stack := e.Stack()
	wasFunctioning := stack.Functioning(false)
	wasDead := stack.Ghost(false)

	enable()
	c.logger.Debug("effect turned on",
		zap.String("effect_id", e.ID()),
		zap.String("effect", e.Name()),
		zap.String("player_id", string(e.Affected())))
	c.publish(rules.EventEffectEnabled, e)

	if wasFunctioning && !stack.Functioning(false) {
		if !wasDead && stack.Ghost(false) {
			c.propagate(e.Affected(), HookSourceDeath, e)
		} else {
			c.propagate(e.Affected(), HookSourceDrunkPoisoned, e)
		}
	}
	return e
}

// TurnOff runs disable and, if the affected player resumed functioning
// because of it, fires the starts-functioning hook on the player's dependents.
func (c *Controller) TurnOff(e *effects.Effect, disable func()) {
	stack := e.Stack()
	wasFunctioning := stack.Functioning(false)

	disable()
	c.logger.Debug("effect turned off",
		zap.String("effect_id", e.ID()),
		zap.String("effect", e.Name()),
		zap.String("player_id", string(e.Affected())))
	c.publish(rules.EventEffectDisabled, e)

	if !wasFunctioning && stack.Functioning(false) {
		c.propagate(e.Affected(), HookSourceStartsFunctioning, nil)
	}
}

// Enable flips a disabled effect back on. Enabling an enabled effect is a
// no-op.
func (c *Controller) Enable(e *effects.Effect) *effects.Effect {
	if e.Enabled() {
		return e
	}
	return c.TurnOn(e, func() { e.SetEnabled(true) })
}

// Disable switches the effect off but leaves it in its stack.
func (c *Controller) Disable(e *effects.Effect) {
	c.TurnOff(e, func() { e.SetEnabled(false) })
}

// Delete removes the effect from its stack. Deleting an absent effect only
// re-checks the player's functioning.
func (c *Controller) Delete(e *effects.Effect) {
	c.TurnOff(e, func() { e.Detach() })
}

// NotifyStartsFunctioning fires the starts-functioning hook on every effect p
// sources, regardless of any state change.
func (c *Controller) NotifyStartsFunctioning(p effects.PlayerID) {
	c.propagate(p, HookSourceStartsFunctioning, nil)
}

func (c *Controller) propagate(source effects.PlayerID, hook Hook, exclude *effects.Effect) {
	if c.depth == 0 {
		c.fired = make(map[firing]struct{})
		defer func() { c.fired = nil }()
	}
	if c.depth >= c.maxDepth {
		c.logger.Error("cascade depth exceeded",
			zap.String("player_id", string(source)),
			zap.String("hook", hook.String()),
			zap.Int("depth", c.depth))
		return
	}
	c.depth++
	defer func() { c.depth-- }()

	c.bus.Publish(rules.NewEvent(hookEvents[hook], string(source), string(source), ""))

	for _, dep := range c.SourcedBy(source) {
		if dep == exclude || !dep.Attached() {
			continue
		}
		key := firing{effect: dep, hook: hook}
		if _, done := c.fired[key]; done {
			c.logger.Debug("hook already fired in this cascade",
				zap.String("effect_id", dep.ID()),
				zap.String("hook", hook.String()))
			continue
		}
		c.fired[key] = struct{}{}

		switch hook {
		case HookSourceDeath:
			dep.SourceDeathCleanup(c)
		case HookSourceDrunkPoisoned:
			dep.SourceDrunkPoisonedCleanup(c)
		case HookSourceStartsFunctioning:
			dep.SourceStartsFunctioning(c)
		}
	}
}

func (c *Controller) publish(t rules.EventType, e *effects.Effect) {
	if c.bus == nil {
		return
	}
	evt := rules.NewEvent(t, string(e.Affected()), string(e.Source()), "")
	evt.Data = e.Name()
	evt.Metadata["effect_id"] = e.ID()
	evt.Metadata["kind"] = string(e.Kind())
	c.bus.Publish(evt)
}
