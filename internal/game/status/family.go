package status

// Family groups statuses that share a default when resolution is cut short.
type Family int

const (
	FamilyImpairment Family = iota
	FamilyProtection
	FamilyVoting
	FamilyPermission
	FamilyAlignment
	FamilyCharacterType
	FamilyAbility
)

var familyNames = map[Family]string{
	FamilyImpairment:    "IMPAIRMENT",
	FamilyProtection:    "PROTECTION",
	FamilyVoting:        "VOTING",
	FamilyPermission:    "PERMISSION",
	FamilyAlignment:     "ALIGNMENT",
	FamilyCharacterType: "CHARACTER_TYPE",
	FamilyAbility:       "ABILITY",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

var families = map[Status]Family{
	Poisoned:                FamilyImpairment,
	Drunk:                   FamilyImpairment,
	NotFunctioning:          FamilyImpairment,
	Dead:                    FamilyImpairment,
	Safe:                    FamilyProtection,
	SafeFromDemon:           FamilyProtection,
	Thiefed:                 FamilyVoting,
	Bureaucrated:            FamilyVoting,
	CanDeadVoteWithoutToken: FamilyPermission,
	CanNominateWhileDead:    FamilyPermission,
	CanNominateTwice:        FamilyPermission,
	CanVoteTwice:            FamilyPermission,
	UsedAbility:             FamilyAbility,
	Good:                    FamilyAlignment,
	Evil:                    FamilyAlignment,
	Townsfolk:               FamilyCharacterType,
	Outsider:                FamilyCharacterType,
	Minion:                  FamilyCharacterType,
	Demon:                   FamilyCharacterType,
	Traveler:                FamilyCharacterType,
	Storyteller:             FamilyCharacterType,
}

// FamilyOf returns the family of s. It panics for statuses outside the catalog.
func FamilyOf(s Status) Family {
	MustValid(s)
	return families[s]
}

// OverflowDefault is the answer used when resolving s hits the cycle guard.
//
// Impairments default to true, except Dead: an undecidable death never kills
// anyone. Every other family defaults to false.
func OverflowDefault(s Status) bool {
	if s == Dead {
		return false
	}
	return FamilyOf(s) == FamilyImpairment
}
