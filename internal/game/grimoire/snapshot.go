// Package grimoire captures the storyteller's view of a game: who sits
// where, what they are, and every effect on them.
package grimoire

import (
	"time"

	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"github.com/clocktower/grimoire-go/internal/game/status"
)

// EffectView is one effect as shown in the grimoire.
type EffectView struct {
	ID      string
	Kind    string
	Name    string
	Source  string
	Enabled bool
	Appears bool
}

// PlayerView is one player as shown in the grimoire.
type PlayerView struct {
	ID               string
	Name             string
	Position         int
	Character        string
	Alignment        string
	Type             string
	Dead             bool
	Functioning      bool
	DeadVotes        int
	NominationsToday int
	HasBeenNominated bool
	Effects          []EffectView
}

// Snapshot is the whole grimoire at one moment.
type Snapshot struct {
	GameID       string
	Phase        string
	Day          int
	Night        int
	Timestamp    time.Time
	Players      []PlayerView
	Storytellers []PlayerView
}

// Capture builds a snapshot. Players keep seating order.
func Capture(gameID string, clock *rules.Clock, players, storytellers []*player.Player) *Snapshot {
	s := &Snapshot{
		GameID:    gameID,
		Phase:     clock.Phase().String(),
		Day:       clock.Day(),
		Night:     clock.Night(),
		Timestamp: time.Now().UTC(),
	}
	for _, p := range players {
		s.Players = append(s.Players, view(p))
	}
	for _, p := range storytellers {
		s.Storytellers = append(s.Storytellers, view(p))
	}
	return s
}

func view(p *player.Player) PlayerView {
	v := PlayerView{
		ID:               string(p.ID()),
		Name:             p.Name(),
		Position:         p.Position(),
		Character:        p.Character().Name,
		Dead:             p.Ghost(false),
		Functioning:      p.Functioning(false),
		DeadVotes:        p.DeadVotes(),
		NominationsToday: p.NominationsToday(),
		HasBeenNominated: p.HasBeenNominated(),
	}
	if a, ok := p.Alignment(false); ok {
		v.Alignment = a.String()
	}
	if t, ok := p.CharacterType(false); ok {
		v.Type = t.String()
	}
	for _, e := range p.Stack().Effects() {
		v.Effects = append(v.Effects, EffectView{
			ID:      e.ID(),
			Kind:    string(e.Kind()),
			Name:    e.Name(),
			Source:  string(e.Source()),
			Enabled: e.Enabled(),
			Appears: e.Appears(),
		})
	}
	return v
}

// Player returns the seated player view with id.
func (s *Snapshot) Player(id string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Visible returns the effects shown by default: enabled and appearing.
func (v PlayerView) Visible() []EffectView {
	var out []EffectView
	for _, e := range v.Effects {
		if e.Enabled && e.Appears {
			out = append(out, e)
		}
	}
	return out
}

// Alive counts living seated players.
func (s *Snapshot) Alive() int {
	n := 0
	for _, p := range s.Players {
		if !p.Dead {
			n++
		}
	}
	return n
}

// IsGood reports whether the view's alignment is good.
func (v PlayerView) IsGood() bool { return v.Alignment == status.Good.String() }
