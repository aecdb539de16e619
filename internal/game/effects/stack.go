package effects

import (
	"github.com/clocktower/grimoire-go/internal/game/status"
	"go.uber.org/zap"
)

// DefaultMaxResolutionDepth bounds nested composed-status resolution.
const DefaultMaxResolutionDepth = 32

type resolution struct {
	effect *Effect
	status status.Status
}

// Stack is the ordered collection of effects owned by one player.
// It is not safe for concurrent use; callers serialize access per game.
type Stack struct {
	owner    PlayerID
	effects  []*Effect
	logger   *zap.Logger
	maxDepth int
	inFlight map[resolution]struct{}
	depth    int
}

// NewStack creates an empty stack for owner.
func NewStack(owner PlayerID, logger *zap.Logger) *Stack {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stack{
		owner:    owner,
		logger:   logger,
		maxDepth: DefaultMaxResolutionDepth,
		inFlight: make(map[resolution]struct{}),
	}
}

// SetResolutionLimit overrides the nesting cap for composed resolution.
// Values below 1 restore the default.
func (s *Stack) SetResolutionLimit(depth int) {
	if depth < 1 {
		depth = DefaultMaxResolutionDepth
	}
	s.maxDepth = depth
}

// Owner returns the player owning the stack.
func (s *Stack) Owner() PlayerID { return s.owner }

// Effects returns a copy of the effects in stack order.
func (s *Stack) Effects() []*Effect {
	out := make([]*Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// Len returns the number of attached effects.
func (s *Stack) Len() int { return len(s.effects) }

// Contains reports whether e is attached to the stack.
func (s *Stack) Contains(e *Effect) bool {
	for _, other := range s.effects {
		if other == e {
			return true
		}
	}
	return false
}

// Find returns the attached effect with the given ID.
func (s *Stack) Find(id string) (*Effect, bool) {
	for _, e := range s.effects {
		if e.id == id {
			return e, true
		}
	}
	return nil, false
}

// IsStatus ORs st across every effect of the stack. A registers query also
// counts effects that truly cause st, since a player registers as what they are.
func (s *Stack) IsStatus(st status.Status, registers bool) bool {
	status.MustValid(st)
	for _, e := range s.effects {
		if e.Status(st) {
			return true
		}
		if registers && e.RegistersStatus(st) {
			return true
		}
	}
	return false
}

// ExclusiveSearch returns the first candidate that holds for the stack. The
// candidate order is the tie-break when several hold.
func (s *Stack) ExclusiveSearch(candidates []status.Status, registers bool) (status.Status, bool) {
	for _, c := range candidates {
		if s.IsStatus(c, registers) {
			return c, true
		}
	}
	return "", false
}

// Ghost reports whether the owner is dead.
func (s *Stack) Ghost(registers bool) bool {
	return s.IsStatus(status.Dead, registers)
}

// Functioning reports whether the owner's ability works.
func (s *Stack) Functioning(registers bool) bool {
	return !s.IsStatus(status.NotFunctioning, registers)
}

// SourcedBy returns the attached effects whose source is p.
func (s *Stack) SourcedBy(p PlayerID) []*Effect {
	var out []*Effect
	for _, e := range s.effects {
		if e.source == p {
			out = append(out, e)
		}
	}
	return out
}

// Visible returns the enabled effects shown in the grimoire by default.
func (s *Stack) Visible() []*Effect {
	var out []*Effect
	for _, e := range s.effects {
		if e.appears && e.enabled {
			out = append(out, e)
		}
	}
	return out
}

// RemoveDirect detaches every effect that directly causes one of statuses and
// returns them. Composed fallbacks are not consulted. Every claim is evaluated
// against the unchanged stack before anything is detached.
func (s *Stack) RemoveDirect(statuses ...status.Status) []*Effect {
	var removed, kept []*Effect
	for _, e := range s.Effects() {
		if causesAny(e, statuses) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	s.effects = kept
	return removed
}

func causesAny(e *Effect, statuses []status.Status) bool {
	for _, st := range statuses {
		if e.DirectlyCauses(st) {
			return true
		}
	}
	return false
}

// resolve answers st for an enabled effect: its own claim first, then the
// composed fallback chain. Re-entering the same (effect, status) pair or
// nesting past the depth cap yields the family default.
func (s *Stack) resolve(e *Effect, st status.Status) bool {
	key := resolution{effect: e, status: st}
	if _, busy := s.inFlight[key]; busy || s.depth >= s.maxDepth {
		def := status.OverflowDefault(st)
		s.logger.Warn("status resolution cut short",
			zap.String("player_id", string(s.owner)),
			zap.String("effect_id", e.id),
			zap.String("status", st.String()),
			zap.Int("depth", s.depth),
			zap.Bool("cycle", busy),
			zap.Bool("default", def))
		return def
	}

	s.inFlight[key] = struct{}{}
	s.depth++
	defer func() {
		delete(s.inFlight, key)
		s.depth--
	}()

	switch e.Claim(st) {
	case status.ClaimTrue:
		return true
	case status.ClaimFalse:
		return false
	}

	for _, part := range status.Fallback(st) {
		if e.Status(part) {
			return true
		}
	}
	return false
}
