package effects

import (
	"testing"

	"github.com/clocktower/grimoire-go/internal/game/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEffect_DisabledClaimsNothing(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())

	for _, kind := range Kinds() {
		e := stack.New(kind, "src")
		e.SetEnabled(false)
		for _, s := range status.All() {
			assert.False(t, e.Status(s), "%s/%s", kind, s)
			assert.False(t, e.RegistersStatus(s), "%s/%s", kind, s)
		}
	}
}

func TestEffect_NotFunctioningFallsBack(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())

	for _, kind := range Kinds() {
		e := stack.New(kind, "src")
		if e.Claim(status.NotFunctioning) == status.ClaimUnspecified {
			want := e.Status(status.Poisoned) || e.Status(status.Drunk) || e.Status(status.Dead)
			assert.Equal(t, want, e.Status(status.NotFunctioning), "%s", kind)
		}
		if e.Claim(status.SafeFromDemon) == status.ClaimUnspecified {
			assert.Equal(t, e.Status(status.Safe), e.Status(status.SafeFromDemon), "%s", kind)
		}
	}
}

func TestEffect_DirectClaimOverridesFallback(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())

	sober := NewBuilder("Sober poison").Causes(status.Poisoned).Denies(status.NotFunctioning).On(stack)
	assert.True(t, sober.Status(status.Poisoned))
	assert.False(t, sober.Status(status.NotFunctioning))

	shielded := NewBuilder("Demon ward").Causes(status.SafeFromDemon).On(stack)
	assert.True(t, shielded.Status(status.SafeFromDemon))
	assert.False(t, shielded.Status(status.Safe))
}

func TestEffect_ClaimIsTriState(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	e := NewBuilder("mixed").Causes(status.Drunk).Denies(status.Dead).On(stack)

	assert.Equal(t, status.ClaimTrue, e.Claim(status.Drunk))
	assert.Equal(t, status.ClaimFalse, e.Claim(status.Dead))
	assert.Equal(t, status.ClaimUnspecified, e.Claim(status.Safe))
}

func TestEffect_RegistersHasNoFallback(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	e := NewBuilder("Spy").RegistersAs(status.Safe, status.Poisoned).On(stack)

	assert.True(t, e.RegistersStatus(status.Safe))
	assert.False(t, e.RegistersStatus(status.SafeFromDemon))
	assert.False(t, e.RegistersStatus(status.NotFunctioning))
	assert.False(t, e.Status(status.Safe))
}

func TestEffect_DynamicPredicate(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	drunk := false
	e := NewBuilder("Sometimes drunk").
		CausesWhen(status.Drunk, func(*Effect) bool { return drunk }).
		On(stack)

	assert.False(t, e.Status(status.NotFunctioning))
	drunk = true
	assert.True(t, e.Status(status.NotFunctioning))
}

func TestEffect_InvalidStatusPanics(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	e := stack.New(KindPoisoned, "src")

	assert.Panics(t, func() { e.Status(status.Status("haunted")) })
	assert.Panics(t, func() { e.RegistersStatus(status.Status("haunted")) })
	assert.Panics(t, func() { NewBuilder("bad").Causes(status.Status("haunted")) })
}

func TestEffect_AttachDetach(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	e := stack.New(KindDead, "src")

	require.False(t, e.Attached())
	e.Attach()
	e.Attach()
	assert.Equal(t, 1, stack.Len())
	assert.Equal(t, PlayerID("p1"), e.Affected())
	assert.Equal(t, PlayerID("src"), e.Source())

	assert.True(t, e.Detach())
	assert.False(t, e.Detach())
	assert.Equal(t, 0, stack.Len())
}

func TestEffect_NominationDefaultsToAllow(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())
	plain := stack.New(KindSafe, Storyteller)
	assert.True(t, plain.Nomination("p1", "p2"))
	assert.True(t, plain.StorytellerCaused())

	veto := NewBuilder("Veto").OnNomination(func(_ *Effect, _, nominator PlayerID) bool {
		return nominator != "p2"
	}).On(stack)
	assert.False(t, veto.Nomination("p1", "p2"))
	assert.True(t, veto.Nomination("p1", "p3"))
}

func TestCatalog(t *testing.T) {
	stack := NewStack("p1", zap.NewNop())

	tests := []struct {
		kind      Kind
		name      string
		appears   bool
		causes    status.Status
		registers status.Status
	}{
		{KindSafeFromDemon, "Safe From Demon", true, status.SafeFromDemon, ""},
		{KindUsedAbility, "Used Ability", true, status.UsedAbility, ""},
		{KindNoDeadVoteNeeded, "Infinite Dead Votes", true, status.CanDeadVoteWithoutToken, ""},
		{KindEvil, "Evil", false, status.Evil, ""},
		{KindTraveler, "Traveler", false, status.Traveler, ""},
		{KindRegistersOutsider, "Registers as an Outsider", true, "", status.Outsider},
		{KindRegistersDemon, "Registers as a Demon", true, "", status.Demon},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := stack.New(tt.kind, "src")
			assert.Equal(t, tt.kind, e.Kind())
			assert.Equal(t, tt.name, e.Name())
			assert.Equal(t, tt.appears, e.Appears())
			assert.NotEmpty(t, e.ID())
			if tt.causes != "" {
				assert.True(t, e.Status(tt.causes))
			}
			if tt.registers != "" {
				assert.True(t, e.RegistersStatus(tt.registers))
				assert.False(t, e.Status(tt.registers))
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" safefromdemon ")
	require.NoError(t, err)
	assert.Equal(t, KindSafeFromDemon, k)

	_, err = ParseKind("Custom")
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.Len(t, Kinds(), 21)
	assert.Panics(t, func() { NewStack("p1", nil).New(KindCustom, "") })
}
