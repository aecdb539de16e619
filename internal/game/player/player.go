// Package player derives per-player facts from the effect stack and runs the
// player-level orchestration of revival, execution and character changes.
package player

import (
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/counters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"go.uber.org/zap"
)

// DefaultDeadVotes is the number of dead-vote tokens a player starts with.
const DefaultDeadVotes = 1

// Player is one seat in the town.
type Player struct {
	id        effects.PlayerID
	name      string
	position  int
	character *characters.Character
	stack     *effects.Stack
	counters  *counters.Counters
	logger    *zap.Logger

	hasBeenNominated bool
	hasSpoken        bool
	hasSkipped       bool
	isInactive       bool

	executions    int
	lastExecution ExecutionOutcome
}

// Options tunes a new Player. A zero DeadVotes means DefaultDeadVotes and a
// negative one means no tokens.
type Options struct {
	Logger             *zap.Logger
	DeadVotes          int
	MaxResolutionDepth int
}

// New creates a player at position holding character, with the character's
// default effects already on the stack. The effects are sourced by the player.
func New(id effects.PlayerID, name string, position int, character *characters.Character, opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("player_id", string(id)))

	stack := effects.NewStack(id, logger)
	stack.SetResolutionLimit(opts.MaxResolutionDepth)

	cs := counters.NewCounters()
	deadVotes := opts.DeadVotes
	switch {
	case deadVotes == 0:
		deadVotes = DefaultDeadVotes
	case deadVotes < 0:
		deadVotes = 0
	}
	cs.Set(counters.DeadVote, deadVotes)
	cs.Set(counters.NominationsToday, 0)

	p := &Player{
		id:        id,
		name:      name,
		position:  position,
		character: character,
		stack:     stack,
		counters:  cs,
		logger:    logger,
	}
	for _, kind := range character.DefaultEffects() {
		stack.New(kind, id).Attach()
	}
	return p
}

// ID returns the player identifier.
func (p *Player) ID() effects.PlayerID { return p.id }

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// Position returns the seat index.
func (p *Player) Position() int { return p.position }

// Character returns the assigned character.
func (p *Player) Character() *characters.Character { return p.character }

// Stack returns the player's effect stack.
func (p *Player) Stack() *effects.Stack { return p.stack }

// Counters returns the player's token counters.
func (p *Player) Counters() *counters.Counters { return p.counters }

// Epithet returns "Name, the Character".
func (p *Player) Epithet() string {
	return fmt.Sprintf("%s, the %s", p.name, p.character.Name)
}

// FormattedEpithet inserts text before the character name.
func (p *Player) FormattedEpithet(text string) string {
	if text == "" {
		return p.Epithet()
	}
	return fmt.Sprintf("%s, the %s %s", p.name, text, p.character.Name)
}

// IsStatus reports whether any effect gives the player s.
func (p *Player) IsStatus(s status.Status, registers bool) bool {
	return p.stack.IsStatus(s, registers)
}

// ExclusiveStatusSearch returns the first candidate the player has.
func (p *Player) ExclusiveStatusSearch(candidates []status.Status, registers bool) (status.Status, bool) {
	return p.stack.ExclusiveSearch(candidates, registers)
}

// Ghost reports whether the player is (or registers as) dead.
func (p *Player) Ghost(registers bool) bool { return p.stack.Ghost(registers) }

// Functioning reports whether the player's ability works.
func (p *Player) Functioning(registers bool) bool { return p.stack.Functioning(registers) }

// Alignment returns good or evil, good winning when both hold.
func (p *Player) Alignment(registers bool) (status.Status, bool) {
	return p.stack.ExclusiveSearch(status.Alignments, registers)
}

// CharacterType returns the first character type the player has.
func (p *Player) CharacterType(registers bool) (status.Status, bool) {
	return p.stack.ExclusiveSearch(status.CharacterTypes, registers)
}

// IsStoryteller reports whether the seat belongs to a storyteller.
func (p *Player) IsStoryteller() bool {
	return p.IsStatus(status.Storyteller, false)
}
