package abilities

import (
	"testing"

	"github.com/clocktower/grimoire-go/internal/game/cascade"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	seating *player.Seating
	ctrl    *cascade.Controller
	byName  map[string]*player.Player
}

func newFixture(t *testing.T, seats ...string) *fixture {
	t.Helper()
	cat, err := characters.Default()
	require.NoError(t, err)
	f := &fixture{seating: player.NewSeating(), byName: map[string]*player.Player{}}
	f.ctrl = cascade.New(f.seating, zap.NewNop())
	for i := 0; i < len(seats); i += 2 {
		c, err := cat.Lookup(seats[i+1])
		require.NoError(t, err)
		p := player.New(effects.PlayerID(seats[i]), seats[i], 0, c, player.Options{})
		require.NoError(t, f.seating.Add(p))
		Install(f.ctrl, f.seating, p, nil)
		f.byName[seats[i]] = p
	}
	return f
}

func (f *fixture) use(t *testing.T, character string, actor string, pick string, targets ...string) []*effects.Effect {
	t.Helper()
	a, err := For(character)
	require.NoError(t, err)
	u := Use{Actor: f.byName[actor], Pick: effects.PlayerID(pick)}
	for _, name := range targets {
		u.Targets = append(u.Targets, f.byName[name])
	}
	out, err := a.Apply(f.ctrl, u)
	require.NoError(t, err)
	return out
}

func TestPoisonerLifecycle(t *testing.T) {
	f := newFixture(t, "pat", "Poisoner", "eve", "Empath")
	pat, eve := f.byName["pat"], f.byName["eve"]

	poison := f.use(t, "Poisoner", "pat", "", "eve")[0]
	assert.False(t, eve.Functioning(false))

	// The poisoner getting drunk suspends the poison; sobering up resumes it.
	drunk := f.ctrl.TurnOn(pat.Stack().New(effects.KindDrunk, effects.Storyteller), nil)
	assert.True(t, eve.Functioning(false))
	assert.True(t, poison.Attached())
	f.ctrl.Delete(drunk)
	assert.False(t, eve.Functioning(false))

	// Dusk ends the poison.
	effects.EveningCleanup(f.ctrl, f.seating.Stacks()...)
	assert.False(t, poison.Attached())
	assert.True(t, eve.Functioning(false))
}

func TestPoisonerDeathEndsPoison(t *testing.T) {
	f := newFixture(t, "pat", "Poisoner", "eve", "Empath")
	poison := f.use(t, "Poisoner", "pat", "", "eve")[0]

	f.ctrl.TurnOn(f.byName["pat"].Stack().New(effects.KindDead, effects.Storyteller), nil)
	assert.False(t, poison.Attached())
}

func TestImpairedPoisonerCreatesSuspendedPoison(t *testing.T) {
	f := newFixture(t, "pat", "Poisoner", "eve", "Empath")
	f.ctrl.TurnOn(f.byName["pat"].Stack().New(effects.KindPoisoned, effects.Storyteller), nil)

	poison := f.use(t, "Poisoner", "pat", "", "eve")[0]
	assert.True(t, poison.Attached())
	assert.False(t, poison.Enabled())
	assert.True(t, f.byName["eve"].Functioning(false))
}

func TestMonkProtectsUntilMorning(t *testing.T) {
	f := newFixture(t, "mo", "Monk", "eve", "Empath")
	eve := f.byName["eve"]

	f.use(t, "Monk", "mo", "", "eve")
	assert.True(t, eve.IsStatus(status.SafeFromDemon, false))
	assert.False(t, eve.IsStatus(status.Safe, false))

	eve.Morning(f.ctrl, false)
	assert.False(t, eve.IsStatus(status.SafeFromDemon, false))

	a, _ := For("Monk")
	assert.True(t, a.Requirement().NotSelf)
}

func TestInnkeeper(t *testing.T) {
	f := newFixture(t, "inn", "Innkeeper", "a", "Chef", "b", "Empath")
	a, b := f.byName["a"], f.byName["b"]

	out := f.use(t, "Innkeeper", "inn", "b", "a", "b")
	require.Len(t, out, 3)
	assert.True(t, a.IsStatus(status.Safe, false))
	assert.True(t, b.IsStatus(status.Safe, false))
	assert.True(t, b.IsStatus(status.Drunk, false))
	assert.True(t, a.Functioning(false))

	innkeeper, _ := For("Innkeeper")
	_, err := innkeeper.Apply(f.ctrl, Use{Actor: f.byName["inn"], Targets: []*player.Player{a, b}, Pick: "inn"})
	assert.ErrorIs(t, err, ErrBadPick)
}

func TestSailor(t *testing.T) {
	f := newFixture(t, "sal", "Sailor", "eve", "Empath")
	sal := f.byName["sal"]

	// Functioning sailors can't die.
	assert.True(t, sal.IsStatus(status.Safe, false))
	assert.Equal(t, player.Survived, sal.Execute())

	drunk := f.use(t, "Sailor", "sal", "sal", "eve")[0]
	assert.False(t, sal.IsStatus(status.Safe, false))
	assert.True(t, f.byName["eve"].Functioning(false))

	f.ctrl.Delete(drunk)
	assert.True(t, sal.IsStatus(status.Safe, false))

	sailor, _ := For("Sailor")
	_, err := sailor.Apply(f.ctrl, Use{Actor: sal, Targets: []*player.Player{f.byName["eve"]}, Pick: "nobody"})
	assert.ErrorIs(t, err, ErrBadPick)
}

func TestVirgin(t *testing.T) {
	f := newFixture(t, "vi", "Virgin", "chef", "Chef", "imp", "Imp")
	vi, chef := f.byName["vi"], f.byName["chef"]

	assert.False(t, vi.AllowsNomination(chef.ID()))
	assert.True(t, chef.Ghost(false))
	assert.True(t, vi.IsStatus(status.UsedAbility, false))

	// Only the first nomination counts.
	assert.True(t, vi.AllowsNomination(f.byName["imp"].ID()))
}

func TestVirginNominatedByNonTownsfolk(t *testing.T) {
	f := newFixture(t, "vi", "Virgin", "imp", "Imp", "chef", "Chef")
	vi := f.byName["vi"]

	assert.True(t, vi.AllowsNomination("imp"))
	assert.False(t, f.byName["imp"].Ghost(false))
	assert.True(t, vi.AllowsNomination("chef"))
	assert.False(t, f.byName["chef"].Ghost(false))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"Innkeeper", "Monk", "Poisoner", "Sailor"}, Names())
	_, err := For("Chef")
	assert.ErrorIs(t, err, ErrNoAbility)
}
