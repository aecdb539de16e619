package effects

import (
	"testing"

	"github.com/clocktower/grimoire-go/internal/game/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func attach(s *Stack, kind Kind, source PlayerID) *Effect {
	e := s.New(kind, source)
	e.Attach()
	return e
}

func TestStack_PoisonedAndSafeFromDemonScenario(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	attach(stack, KindPoisoned, "q")
	attach(stack, KindSafeFromDemon, "r")

	assert.True(t, stack.IsStatus(status.Poisoned, false))
	assert.True(t, stack.IsStatus(status.NotFunctioning, false))
	assert.True(t, stack.IsStatus(status.SafeFromDemon, false))
	assert.False(t, stack.IsStatus(status.Safe, false))
	assert.False(t, stack.Functioning(false))
	assert.False(t, stack.Ghost(false))
}

func TestStack_ExclusiveSearchTieBreak(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	attach(stack, KindEvil, Storyteller)
	attach(stack, KindGood, Storyteller)

	got, ok := stack.ExclusiveSearch(status.Alignments, false)
	require.True(t, ok)
	assert.Equal(t, status.Good, got)

	_, ok = stack.ExclusiveSearch(status.CharacterTypes, false)
	assert.False(t, ok)
}

func TestStack_RegistersIncludesTrueStatus(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	attach(stack, KindTownsfolk, Storyteller)
	attach(stack, KindRegistersMinion, "p")

	assert.True(t, stack.IsStatus(status.Minion, true))
	assert.False(t, stack.IsStatus(status.Minion, false))
	assert.True(t, stack.IsStatus(status.Townsfolk, true))

	got, ok := stack.ExclusiveSearch(status.CharacterTypes, true)
	require.True(t, ok)
	assert.Equal(t, status.Townsfolk, got)
}

func TestStack_SourcedByAndVisible(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	poison := attach(stack, KindPoisoned, "q")
	attach(stack, KindGood, Storyteller)
	off := attach(stack, KindSafe, "q")
	off.SetEnabled(false)

	assert.Equal(t, []*Effect{poison, off}, stack.SourcedBy("q"))
	assert.Equal(t, []*Effect{poison}, stack.Visible())

	found, ok := stack.Find(poison.ID())
	require.True(t, ok)
	assert.Same(t, poison, found)
}

func TestStack_RemoveDirect(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	poison := attach(stack, KindPoisoned, "q")
	dead := attach(stack, KindDead, "p")
	used := attach(stack, KindUsedAbility, "p")

	removed := stack.RemoveDirect(status.Dead, status.UsedAbility)

	assert.ElementsMatch(t, []*Effect{dead, used}, removed)
	assert.Equal(t, []*Effect{poison}, stack.Effects())
	assert.False(t, dead.Attached())
}

func TestStack_RemoveDirectSeesWholeStack(t *testing.T) {
	stack := NewStack("p", zap.NewNop())
	dead := attach(stack, KindDead, "p")
	poison := attach(stack, KindPoisoned, "q")
	// Dead only while the other death is still on the stack.
	follower := NewBuilder("Follower").
		CausesWhen(status.Dead, func(e *Effect) bool { return e.Stack().Contains(dead) }).
		On(stack)
	follower.Attach()

	removed := stack.RemoveDirect(status.Dead)

	assert.Equal(t, []*Effect{dead, follower}, removed)
	assert.Equal(t, []*Effect{poison}, stack.Effects())
}

func TestStack_CycleReturnsFamilyDefault(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stack := NewStack("p", zap.New(core))

	var loop *Effect
	loop = NewBuilder("Mirror").
		CausesWhen(status.Drunk, func(e *Effect) bool { return e.Stack().IsStatus(status.NotFunctioning, false) }).
		CausesWhen(status.Safe, func(e *Effect) bool { return e.Stack().IsStatus(status.SafeFromDemon, false) }).
		On(stack)
	loop.Attach()

	assert.True(t, stack.IsStatus(status.NotFunctioning, false))
	assert.False(t, stack.IsStatus(status.SafeFromDemon, false))

	require.NotZero(t, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "status resolution cut short", entry.Message)
	assert.Equal(t, "p", entry.ContextMap()["player_id"])
	assert.Equal(t, loop.ID(), entry.ContextMap()["effect_id"])
}

func TestStack_DepthCap(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stack := NewStack("p", zap.New(core))
	stack.SetResolutionLimit(1)

	attach(stack, KindPoisoned, "q")

	// not_functioning needs a second level to reach poisoned.
	assert.True(t, stack.IsStatus(status.NotFunctioning, false))
	assert.Equal(t, 1, logs.FilterMessage("status resolution cut short").Len())

	stack.SetResolutionLimit(0)
	assert.False(t, stack.IsStatus(status.SafeFromDemon, false))
	assert.Equal(t, 1, logs.Len())
}

func TestCleanupDispatch(t *testing.T) {
	a := NewStack("a", zap.NewNop())
	b := NewStack("b", zap.NewNop())
	sw := &detachSwitch{}

	var calls []string
	expireB := NewBuilder("one night").OnMorning(func(sw Switch, e *Effect) {
		calls = append(calls, "b")
		sw.Delete(e)
	}).On(b)
	expireB.Attach()

	first := NewBuilder("killer").OnMorning(func(sw Switch, e *Effect) {
		calls = append(calls, "a")
		sw.Delete(expireB)
	}).On(a)
	first.Attach()

	evening := 0
	NewBuilder("dusk").OnEvening(func(Switch, *Effect) { evening++ }).On(a).Attach()

	MorningCleanup(sw, a, nil, b)
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, 0, b.Len())

	EveningCleanup(sw, a, b)
	assert.Equal(t, 1, evening)
}

type detachSwitch struct{}

func (detachSwitch) TurnOn(e *Effect, enable func()) *Effect { enable(); return e }
func (detachSwitch) TurnOff(e *Effect, disable func())      { disable() }
func (detachSwitch) Enable(e *Effect) *Effect               { e.SetEnabled(true); return e }
func (detachSwitch) Disable(e *Effect)                      { e.SetEnabled(false) }
func (detachSwitch) Delete(e *Effect)                       { e.Detach() }
