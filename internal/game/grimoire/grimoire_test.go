package grimoire

import (
	"testing"

	"github.com/clocktower/grimoire-go/internal/game/cascade"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func seat(t *testing.T, seats ...string) (*player.Seating, *cascade.Controller) {
	t.Helper()
	cat, err := characters.Default()
	require.NoError(t, err)
	seating := player.NewSeating()
	for i := 0; i < len(seats); i += 2 {
		c, err := cat.Lookup(seats[i+1])
		require.NoError(t, err)
		require.NoError(t, seating.Add(player.New(effects.PlayerID(seats[i]), seats[i], 0, c, player.Options{})))
	}
	return seating, cascade.New(seating, zap.NewNop())
}

func TestCapture(t *testing.T) {
	seating, ctrl := seat(t, "alice", "Empath", "bob", "Poisoner")
	alice, _ := seating.Get("alice")
	ctrl.TurnOn(alice.Stack().New(effects.KindPoisoned, "bob"), nil)

	clock := rules.NewClock()
	_, err := clock.StartDay()
	require.NoError(t, err)

	snap := Capture("g1", clock, seating.Players(), nil)
	assert.Equal(t, "g1", snap.GameID)
	assert.Equal(t, "DAY", snap.Phase)
	assert.Equal(t, 1, snap.Day)
	require.Len(t, snap.Players, 2)
	assert.Equal(t, 2, snap.Alive())

	a, ok := snap.Player("alice")
	require.True(t, ok)
	assert.Equal(t, "Empath", a.Character)
	assert.Equal(t, "good", a.Alignment)
	assert.Equal(t, "townsfolk", a.Type)
	assert.True(t, a.IsGood())
	assert.False(t, a.Functioning)
	assert.Equal(t, 1, a.DeadVotes)

	visible := a.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Poisoned", visible[0].Kind)
	assert.Equal(t, "bob", visible[0].Source)

	_, ok = snap.Player("carol")
	assert.False(t, ok)
}

func TestChecksum_IgnoresEffectIDsAndTime(t *testing.T) {
	build := func() *Snapshot {
		seating, _ := seat(t, "alice", "Empath", "bob", "Imp")
		return Capture("g1", rules.NewClock(), seating.Players(), nil)
	}
	first, second := build(), build()
	require.NotEqual(t, first.Players[0].Effects[0].ID, second.Players[0].Effects[0].ID)

	c1, err := first.ComputeChecksum()
	require.NoError(t, err)
	c2, err := second.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, c1.Hash, c2.Hash)
	assert.Len(t, c1.Hash, 64)

	ok, err := second.VerifyChecksum(c1)
	require.NoError(t, err)
	assert.True(t, ok)

	second.Players[1].Dead = true
	ok, err = second.VerifyChecksum(c1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChecksum_SeatingOrderMatters(t *testing.T) {
	s1, _ := seat(t, "alice", "Empath", "bob", "Imp")
	s2, _ := seat(t, "bob", "Imp", "alice", "Empath")

	c1, err := Capture("g", rules.NewClock(), s1.Players(), nil).ComputeChecksum()
	require.NoError(t, err)
	c2, err := Capture("g", rules.NewClock(), s2.Players(), nil).ComputeChecksum()
	require.NoError(t, err)
	assert.NotEqual(t, c1.Hash, c2.Hash)
}

func TestChecksum_SeparatorsInNames(t *testing.T) {
	build := func(id, name string) *Snapshot {
		seating, _ := seat(t, "alice", "Empath")
		snap := Capture("g", rules.NewClock(), seating.Players(), nil)
		snap.Players[0].ID = id
		snap.Players[0].Name = name
		return snap
	}

	c1, err := build("a|b", "c").ComputeChecksum()
	require.NoError(t, err)
	c2, err := build("a", "b|c").ComputeChecksum()
	require.NoError(t, err)
	assert.NotEqual(t, c1.Hash, c2.Hash)
	assert.Equal(t, ChecksumVersion, c1.Version)
}

func TestSerializeRoundtrip(t *testing.T) {
	seating, _ := seat(t, "alice", "Recluse")
	snap := Capture("g1", rules.NewClock(), seating.Players(), nil)

	data, err := snap.Serialize()
	require.NoError(t, err)
	decoded, err := Deserialize(data)
	require.NoError(t, err)

	want, err := snap.ComputeChecksum()
	require.NoError(t, err)
	ok, err := decoded.VerifyChecksum(want)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, snap.Timestamp.Equal(decoded.Timestamp))

	assert.NoError(t, snap.ValidateRoundtrip())

	_, err = Deserialize([]byte("not gob"))
	assert.Error(t, err)
}

func TestHistory_SaveLoad(t *testing.T) {
	seating, _ := seat(t, "alice", "Empath")
	clock := rules.NewClock()
	h := NewHistory("g1")
	assert.Nil(t, h.Latest())

	h.Record(Capture("g1", clock, seating.Players(), nil))
	_, err := clock.StartDay()
	require.NoError(t, err)
	h.Record(Capture("g1", clock, seating.Players(), nil))
	require.Equal(t, 2, h.Size())
	assert.Nil(t, h.At(5))

	core, logs := observer.New(zap.InfoLevel)
	dir := t.TempDir()
	path, err := h.SaveToFile(dir, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, Filename(dir, "g1"), path)
	assert.Equal(t, 1, logs.FilterMessage("saved grimoire history").Len())

	loaded, err := LoadHistoryFromFile(dir, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", loaded.GameID)
	require.Equal(t, 2, loaded.Size())
	assert.Equal(t, "NIGHT", loaded.At(0).Phase)
	assert.Equal(t, "DAY", loaded.Latest().Phase)
	assert.Equal(t, 1, loaded.Latest().Day)

	_, err = LoadHistoryFromFile(dir, "missing")
	assert.Error(t, err)
}
