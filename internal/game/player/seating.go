package player

import (
	"errors"
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/effects"
)

var (
	// ErrUnknownPlayer is returned when an ID is not seated.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrDuplicatePlayer is returned when an ID is seated twice.
	ErrDuplicatePlayer = errors.New("player already seated")
)

// Seating is the ordered, read-only seating list of a game.
type Seating struct {
	order []*Player
	byID  map[effects.PlayerID]*Player
}

// NewSeating creates an empty seating list.
func NewSeating() *Seating {
	return &Seating{byID: make(map[effects.PlayerID]*Player)}
}

// Add seats p at the end of the order.
func (s *Seating) Add(p *Player) error {
	if _, ok := s.byID[p.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.id)
	}
	p.position = len(s.order)
	s.order = append(s.order, p)
	s.byID[p.id] = p
	return nil
}

// Get returns the seated player with id.
func (s *Seating) Get(id effects.PlayerID) (*Player, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
}

// Players returns the seating order.
func (s *Seating) Players() []*Player {
	out := make([]*Player, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of seated players.
func (s *Seating) Len() int { return len(s.order) }

// Stacks returns every seated player's stack in seating order.
func (s *Seating) Stacks() []*effects.Stack {
	out := make([]*effects.Stack, len(s.order))
	for i, p := range s.order {
		out[i] = p.stack
	}
	return out
}

// Neighbors returns p's nearest upward and downward neighbors satisfying
// cond, skipping p. A nil cond accepts everyone. Either result may be nil.
func (s *Seating) Neighbors(p *Player, cond func(*Player) bool) (up, down *Player) {
	if cond == nil {
		cond = func(*Player) bool { return true }
	}
	n := len(s.order)
	for i := 1; i < n && up == nil; i++ {
		if candidate := s.order[(p.position-i+n)%n]; cond(candidate) {
			up = candidate
		}
	}
	for i := 1; i < n && down == nil; i++ {
		if candidate := s.order[(p.position+i)%n]; cond(candidate) {
			down = candidate
		}
	}
	return up, down
}

// Alive is a Neighbors condition selecting living players.
func Alive(p *Player) bool { return !p.Ghost(false) }
