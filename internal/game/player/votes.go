package player

import (
	"github.com/clocktower/grimoire-go/internal/game/counters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/status"
)

// DeadVotes returns the number of dead-vote tokens held.
func (p *Player) DeadVotes() int { return p.counters.Get(counters.DeadVote) }

// NominationsToday returns how many nominations the player made today.
func (p *Player) NominationsToday() int { return p.counters.Get(counters.NominationsToday) }

// HasBeenNominated reports whether the player was nominated today.
func (p *Player) HasBeenNominated() bool { return p.hasBeenNominated }

// HasSpoken reports whether the player has spoken today.
func (p *Player) HasSpoken() bool { return p.hasSpoken }

// HasSkipped reports whether the player has skipped today.
func (p *Player) HasSkipped() bool { return p.hasSkipped }

// IsInactive reports whether the player was marked inactive this morning.
func (p *Player) IsInactive() bool { return p.isInactive }

// MarkSpoken records that the player spoke today.
func (p *Player) MarkSpoken() { p.hasSpoken = true }

// MarkSkipped records that the player skipped today.
func (p *Player) MarkSkipped() { p.hasSkipped = true }

// CanVote reports whether the player may vote. Travelers always may.
func (p *Player) CanVote(isTraveler bool) bool {
	if isTraveler {
		return true
	}
	return !p.Ghost(true) ||
		p.DeadVotes() > 0 ||
		p.IsStatus(status.CanDeadVoteWithoutToken, false)
}

// VoteValue returns the signed weight of the player's vote: thief negates,
// then bureaucrat triples the running value.
func (p *Player) VoteValue(isTraveler bool) int {
	if isTraveler {
		return 1
	}
	value := 1
	if p.IsStatus(status.Thiefed, false) {
		value *= -1
	}
	if p.IsStatus(status.Bureaucrated, false) {
		value *= -3
	}
	return value
}

// NeedsDeadVoteToken reports whether a vote by the player costs a token.
func (p *Player) NeedsDeadVoteToken() bool {
	return p.Ghost(true) && !p.IsStatus(status.CanDeadVoteWithoutToken, false)
}

// CanNominate reports whether the player may nominate now.
func (p *Player) CanNominate() bool {
	alive := !p.Ghost(true) || p.IsStatus(status.CanNominateWhileDead, false)
	n := p.NominationsToday()
	quota := n == 0 || (n == 1 && p.IsStatus(status.CanNominateTwice, false))
	return alive && quota
}

// CanBeNominated reports whether the player may be nominated by nominator.
// The nominator is not consulted yet; vetoes go through AllowsNomination.
func (p *Player) CanBeNominated(nominator effects.PlayerID) bool {
	return !p.hasBeenNominated
}

// RecordNomination counts a nomination the player made.
func (p *Player) RecordNomination() {
	p.counters.Add(counters.NominationsToday, 1)
}

// MarkNominated records that the player was nominated today.
func (p *Player) MarkNominated() {
	p.hasBeenNominated = true
}

// AllowsNomination asks every enabled effect on the player whether a
// nomination of them by nominator may proceed.
func (p *Player) AllowsNomination(nominator effects.PlayerID) bool {
	for _, e := range p.stack.Effects() {
		if e.Enabled() && !e.Nomination(p.id, nominator) {
			return false
		}
	}
	return true
}
