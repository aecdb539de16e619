package effects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clocktower/grimoire-go/internal/game/status"
)

// Kind names an effect variant.
type Kind string

const (
	KindCustom Kind = "Custom"

	KindDrunk            Kind = "Drunk"
	KindPoisoned         Kind = "Poisoned"
	KindDead             Kind = "Dead"
	KindSafe             Kind = "Safe"
	KindSafeFromDemon    Kind = "SafeFromDemon"
	KindUsedAbility      Kind = "UsedAbility"
	KindNoDeadVoteNeeded Kind = "NoDeadVoteNeeded"

	KindGood        Kind = "Good"
	KindEvil        Kind = "Evil"
	KindTownsfolk   Kind = "Townsfolk"
	KindOutsider    Kind = "Outsider"
	KindMinion      Kind = "Minion"
	KindDemon       Kind = "Demon"
	KindTraveler    Kind = "Traveler"
	KindStoryteller Kind = "Storyteller"

	KindRegistersGood      Kind = "RegistersGood"
	KindRegistersEvil      Kind = "RegistersEvil"
	KindRegistersTownsfolk Kind = "RegistersTownsfolk"
	KindRegistersOutsider  Kind = "RegistersOutsider"
	KindRegistersMinion    Kind = "RegistersMinion"
	KindRegistersDemon     Kind = "RegistersDemon"
)

// ErrUnknownKind is returned by ParseKind for names outside the catalog.
var ErrUnknownKind = errors.New("unknown effect kind")

type template struct {
	name      string
	hidden    bool
	causes    []status.Status
	registers []status.Status
}

var kindOrder = []Kind{
	KindDrunk,
	KindPoisoned,
	KindDead,
	KindSafe,
	KindSafeFromDemon,
	KindUsedAbility,
	KindNoDeadVoteNeeded,
	KindGood,
	KindEvil,
	KindTownsfolk,
	KindOutsider,
	KindMinion,
	KindDemon,
	KindTraveler,
	KindStoryteller,
	KindRegistersGood,
	KindRegistersEvil,
	KindRegistersTownsfolk,
	KindRegistersOutsider,
	KindRegistersMinion,
	KindRegistersDemon,
}

var catalog = map[Kind]template{
	KindDrunk:            {name: "Drunk", causes: []status.Status{status.Drunk}},
	KindPoisoned:         {name: "Poisoned", causes: []status.Status{status.Poisoned}},
	KindDead:             {name: "Dead", causes: []status.Status{status.Dead}},
	KindSafe:             {name: "Safe", causes: []status.Status{status.Safe}},
	KindSafeFromDemon:    {name: "Safe From Demon", causes: []status.Status{status.SafeFromDemon}},
	KindUsedAbility:      {name: "Used Ability", causes: []status.Status{status.UsedAbility}},
	KindNoDeadVoteNeeded: {name: "Infinite Dead Votes", causes: []status.Status{status.CanDeadVoteWithoutToken}},

	KindGood:        {name: "Good", hidden: true, causes: []status.Status{status.Good}},
	KindEvil:        {name: "Evil", hidden: true, causes: []status.Status{status.Evil}},
	KindTownsfolk:   {name: "Townsfolk", hidden: true, causes: []status.Status{status.Townsfolk}},
	KindOutsider:    {name: "Outsider", hidden: true, causes: []status.Status{status.Outsider}},
	KindMinion:      {name: "Minion", hidden: true, causes: []status.Status{status.Minion}},
	KindDemon:       {name: "Demon", hidden: true, causes: []status.Status{status.Demon}},
	KindTraveler:    {name: "Traveler", hidden: true, causes: []status.Status{status.Traveler}},
	KindStoryteller: {name: "Storyteller", hidden: true, causes: []status.Status{status.Storyteller}},

	KindRegistersGood:      {name: "Registers as Good", registers: []status.Status{status.Good}},
	KindRegistersEvil:      {name: "Registers as Evil", registers: []status.Status{status.Evil}},
	KindRegistersTownsfolk: {name: "Registers as a Townsfolk", registers: []status.Status{status.Townsfolk}},
	KindRegistersOutsider:  {name: "Registers as an Outsider", registers: []status.Status{status.Outsider}},
	KindRegistersMinion:    {name: "Registers as a Minion", registers: []status.Status{status.Minion}},
	KindRegistersDemon:     {name: "Registers as a Demon", registers: []status.Status{status.Demon}},
}

// Kinds returns every catalog variant in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kindOrder...)
}

// Valid reports whether k is a catalog variant.
func (k Kind) Valid() bool {
	_, ok := catalog[k]
	return ok
}

// DisplayName returns the grimoire label of a catalog variant.
func (k Kind) DisplayName() string {
	if t, ok := catalog[k]; ok {
		return t.name
	}
	return string(k)
}

// ParseKind resolves a variant name case-insensitively.
func ParseKind(name string) (Kind, error) {
	trimmed := strings.TrimSpace(name)
	for _, k := range kindOrder {
		if strings.EqualFold(string(k), trimmed) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New creates a detached catalog effect on s. The effect is not in the stack
// until it is attached, usually through a Switch.
func (s *Stack) New(kind Kind, source PlayerID) *Effect {
	t, ok := catalog[kind]
	if !ok {
		panic(fmt.Sprintf("effects: unknown effect kind %q", string(kind)))
	}
	b := NewBuilder(t.name).From(source).Causes(t.causes...).RegistersAs(t.registers...)
	b.kind = kind
	if t.hidden {
		b.Hidden()
	}
	return b.On(s)
}
