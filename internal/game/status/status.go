package status

import (
	"errors"
	"fmt"
	"strings"
)

// Status is a boolean-valued tag derived from a player's effects.
type Status string

const (
	Poisoned                Status = "poisoned"
	Drunk                   Status = "drunk"
	Dead                    Status = "dead"
	NotFunctioning          Status = "not_functioning"
	Safe                    Status = "safe"
	SafeFromDemon           Status = "safe_from_demon"
	Thiefed                 Status = "thiefed"
	Bureaucrated            Status = "bureaucrated"
	UsedAbility             Status = "used_ability"
	CanDeadVoteWithoutToken Status = "can_dead_vote_without_token"
	CanNominateWhileDead    Status = "can_nominate_while_dead"
	CanNominateTwice        Status = "can_nominate_twice"
	CanVoteTwice            Status = "can_vote_twice"
	Good                    Status = "good"
	Evil                    Status = "evil"
	Townsfolk               Status = "townsfolk"
	Outsider                Status = "outsider"
	Minion                  Status = "minion"
	Demon                   Status = "demon"
	Traveler                Status = "traveler"
	Storyteller             Status = "storyteller"
)

// ErrUnknownStatus is returned by Parse for names outside the catalog.
var ErrUnknownStatus = errors.New("unknown status")

var all = []Status{
	Poisoned,
	Drunk,
	Dead,
	NotFunctioning,
	Safe,
	SafeFromDemon,
	Thiefed,
	Bureaucrated,
	UsedAbility,
	CanDeadVoteWithoutToken,
	CanNominateWhileDead,
	CanNominateTwice,
	CanVoteTwice,
	Good,
	Evil,
	Townsfolk,
	Outsider,
	Minion,
	Demon,
	Traveler,
	Storyteller,
}

// Alignments is the candidate order used for alignment searches.
var Alignments = []Status{Good, Evil}

// CharacterTypes is the candidate order used for character type searches.
var CharacterTypes = []Status{Townsfolk, Outsider, Minion, Demon, Traveler, Storyteller}

// fallbacks lists the composed kinds. A composed kind that an effect does not
// claim directly is true iff any of its fallback kinds is true.
var fallbacks = map[Status][]Status{
	NotFunctioning: {Poisoned, Drunk, Dead},
	SafeFromDemon:  {Safe},
}

// All returns every status kind in catalog order.
func All() []Status {
	return append([]Status(nil), all...)
}

// Valid reports whether s belongs to the catalog.
func (s Status) Valid() bool {
	_, ok := families[s]
	return ok
}

// MustValid panics if s is not a catalog status. Asking the engine about an
// unknown status is a programming error.
func MustValid(s Status) {
	if !s.Valid() {
		panic(fmt.Sprintf("status: invalid status kind %q", string(s)))
	}
}

// Composed reports whether s falls back to other statuses.
func (s Status) Composed() bool {
	_, ok := fallbacks[s]
	return ok
}

// Fallback returns the kinds s is composed of, or nil.
func Fallback(s Status) []Status {
	return fallbacks[s]
}

func (s Status) String() string {
	return string(s)
}

// Parse converts a user-supplied name into a Status. Matching ignores case
// and surrounding whitespace; dashes and spaces are treated as underscores.
func Parse(name string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	s := Status(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}
	return s, nil
}

// Claim is an effect's answer about one status kind.
type Claim int

const (
	// ClaimUnspecified means the effect says nothing; composed kinds fall back.
	ClaimUnspecified Claim = iota
	// ClaimTrue means the effect causes the status.
	ClaimTrue
	// ClaimFalse means the effect explicitly denies the status, suppressing fallback.
	ClaimFalse
)

// ClaimOf turns a predicate result into a claim.
func ClaimOf(b bool) Claim {
	if b {
		return ClaimTrue
	}
	return ClaimFalse
}

func (c Claim) String() string {
	switch c {
	case ClaimTrue:
		return "TRUE"
	case ClaimFalse:
		return "FALSE"
	default:
		return "UNSPECIFIED"
	}
}
