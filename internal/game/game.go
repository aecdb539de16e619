// Package game wires the status engine into one running town: the seating,
// the storytellers, the cascade controller, the day clock and the event bus.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/clocktower/grimoire-go/internal/game/cascade"
	"github.com/clocktower/grimoire-go/internal/game/characters"
	"github.com/clocktower/grimoire-go/internal/game/counters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/grimoire"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"github.com/clocktower/grimoire-go/internal/game/targeting"
	"github.com/clocktower/grimoire-go/internal/game/watchers"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrCannotNominate is returned when the nominator may not nominate now.
	ErrCannotNominate = errors.New("player cannot nominate")
	// ErrCannotBeNominated is returned when the nominee was already nominated today.
	ErrCannotBeNominated = errors.New("player cannot be nominated")
	// ErrNominationVetoed is returned when an effect on the nominee stopped the nomination.
	ErrNominationVetoed = errors.New("nomination vetoed")
	// ErrCannotVote is returned when a dead player has no vote left.
	ErrCannotVote = errors.New("player cannot vote")
	// ErrNotDay is returned for day-only actions at night.
	ErrNotDay = errors.New("not during the day")
)

// Options configures a Game.
type Options struct {
	Logger *zap.Logger
	// Catalog resolves character names; nil uses the embedded catalog.
	Catalog *characters.Catalog
	// MaxResolutionDepth caps composed-status resolution per player.
	MaxResolutionDepth int
	// MaxCascadeDepth caps nested cascade hooks.
	MaxCascadeDepth int
	// InitialDeadVotes is the number of dead-vote tokens per player.
	InitialDeadVotes int
	// RecordHistory captures a snapshot at every day boundary.
	RecordHistory bool
}

// Game is the context object the status engine runs in. All mutation goes
// through Do, which serializes whole turns.
type Game struct {
	id      string
	mu      sync.Mutex
	opts    Options
	logger  *zap.Logger
	catalog *characters.Catalog

	seating      *player.Seating
	storytellers []*player.Player

	bus         *rules.EventBus
	ctrl        *cascade.Controller
	clock       *rules.Clock
	watchers    *rules.WatcherRegistry
	deaths      *watchers.DeathsWatcher
	nominations *watchers.NominationsWatcher
	counterOps  *counters.CounterOperations
	validator   *targeting.TargetValidator
	history     *grimoire.History
}

// NewGame creates an empty game on the first night. An empty id gets a
// generated one.
func NewGame(id string, opts Options) (*Game, error) {
	if id == "" {
		id = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("game_id", id))

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = characters.Default(); err != nil {
			return nil, fmt.Errorf("failed to load character catalog: %w", err)
		}
	}

	g := &Game{
		id:          id,
		opts:        opts,
		logger:      logger,
		catalog:     catalog,
		seating:     player.NewSeating(),
		bus:         rules.NewEventBus(),
		clock:       rules.NewClock(),
		watchers:    rules.NewWatcherRegistry(),
		deaths:      watchers.NewDeathsWatcher(),
		nominations: watchers.NewNominationsWatcher(),
		history:     grimoire.NewHistory(id),
	}
	g.ctrl = cascade.New(g, logger,
		cascade.WithMaxDepth(opts.MaxCascadeDepth),
		cascade.WithEventBus(g.bus))
	g.counterOps = counters.NewCounterOperations(g.bus)
	g.validator = targeting.NewTargetValidator(g)

	g.watchers.AddWatcher(g.deaths)
	g.watchers.AddWatcher(g.nominations)
	g.bus.Subscribe(g.watchers.NotifyWatchers)
	return g, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Events returns the game's event bus.
func (g *Game) Events() *rules.EventBus { return g.bus }

// Clock returns the day/night clock.
func (g *Game) Clock() *rules.Clock { return g.clock }

// Deaths returns the watcher of today's deaths.
func (g *Game) Deaths() *watchers.DeathsWatcher { return g.deaths }

// Nominations returns the watcher of today's nominations.
func (g *Game) Nominations() *watchers.NominationsWatcher { return g.nominations }

// History returns the recorded day-boundary snapshots.
func (g *Game) History() *grimoire.History { return g.history }

// Controller returns the cascade controller.
func (g *Game) Controller() *cascade.Controller { return g.ctrl }

// Seating returns the seating list.
func (g *Game) Seating() *player.Seating { return g.seating }

// Stacks implements cascade.Roster over seated players and storytellers.
func (g *Game) Stacks() []*effects.Stack {
	out := g.seating.Stacks()
	for _, st := range g.storytellers {
		out = append(out, st.Stack())
	}
	return out
}

// Do runs fn while holding the game lock, so that a whole logical turn,
// including every cascade it triggers, completes without interleaving.
func (g *Game) Do(fn func(t *Turn) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(&Turn{g: g})
}

// Player returns a seated player or a storyteller.
func (g *Game) Player(id effects.PlayerID) (*player.Player, error) {
	if p, err := g.seating.Get(id); err == nil {
		return p, nil
	}
	for _, st := range g.storytellers {
		if st.ID() == id {
			return st, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", player.ErrUnknownPlayer, id)
}

// FindPlayerForTarget implements targeting.TargetGameStateAccessor. Only
// seated players are targets.
func (g *Game) FindPlayerForTarget(playerID string) (targeting.TargetPlayerInfo, bool) {
	p, err := g.seating.Get(effects.PlayerID(playerID))
	if err != nil {
		return targeting.TargetPlayerInfo{}, false
	}
	return targeting.TargetPlayerInfo{
		PlayerID: string(p.ID()),
		Name:     p.Name(),
		Dead:     p.Ghost(false),
	}, true
}

// Snapshot captures the grimoire. It takes the game lock, so it must not be
// called from inside Do; use Turn.Snapshot there.
func (g *Game) Snapshot() *grimoire.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() *grimoire.Snapshot {
	return grimoire.Capture(g.id, g.clock, g.seating.Players(), g.storytellers)
}

func (g *Game) playerOptions() player.Options {
	return player.Options{
		Logger:             g.logger,
		DeadVotes:          g.opts.InitialDeadVotes,
		MaxResolutionDepth: g.opts.MaxResolutionDepth,
	}
}

func (g *Game) record() {
	if !g.opts.RecordHistory {
		return
	}
	g.history.Record(g.snapshot())
}

// SaveHistory writes the recorded history to directory and returns the path.
func (g *Game) SaveHistory(directory string) (string, error) {
	return g.history.SaveToFile(directory, g.logger)
}
