package game

import (
	"fmt"

	"github.com/clocktower/grimoire-go/internal/game/abilities"
	"github.com/clocktower/grimoire-go/internal/game/counters"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/grimoire"
	"github.com/clocktower/grimoire-go/internal/game/player"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"go.uber.org/zap"
)

// Turn is the game as seen from inside Do. Its methods assume the game lock
// is held and must not escape the callback.
type Turn struct {
	g *Game
}

// Player returns a seated player or a storyteller.
func (t *Turn) Player(id effects.PlayerID) (*player.Player, error) {
	return t.g.Player(id)
}

// Snapshot captures the grimoire from inside a turn.
func (t *Turn) Snapshot() *grimoire.Snapshot { return t.g.snapshot() }

// Seat adds a player holding character at the end of the seating order and
// installs the character's passive abilities.
func (t *Turn) Seat(id effects.PlayerID, name, character string) (*player.Player, error) {
	g := t.g
	c, err := g.catalog.Lookup(character)
	if err != nil {
		return nil, err
	}
	if _, err := g.Player(id); err == nil {
		return nil, fmt.Errorf("%w: %s", player.ErrDuplicatePlayer, id)
	}
	p := player.New(id, name, 0, c, g.playerOptions())
	if err := g.seating.Add(p); err != nil {
		return nil, err
	}
	abilities.Install(g.ctrl, g.seating, p, g.logger)

	evt := rules.NewEvent(rules.EventPlayerSeated, string(id), "", string(id))
	evt.Data = c.Name
	evt.Amount = p.Position()
	g.bus.Publish(evt)
	g.logger.Info("player seated",
		zap.String("player_id", string(id)),
		zap.String("character", c.Name),
		zap.Int("position", p.Position()))
	return p, nil
}

// AddStoryteller adds a storyteller. Storytellers hold effects but are not
// seated and cannot be targeted.
func (t *Turn) AddStoryteller(id effects.PlayerID, name string) (*player.Player, error) {
	g := t.g
	c, err := g.catalog.Lookup("Storyteller")
	if err != nil {
		return nil, err
	}
	if _, err := g.Player(id); err == nil {
		return nil, fmt.Errorf("%w: %s", player.ErrDuplicatePlayer, id)
	}
	st := player.New(id, name, -1, c, g.playerOptions())
	g.storytellers = append(g.storytellers, st)
	return st, nil
}

// Apply creates a catalog effect on target, sourced by source, and turns it on.
func (t *Turn) Apply(kind effects.Kind, target, source effects.PlayerID) (*effects.Effect, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", effects.ErrUnknownKind, string(kind))
	}
	p, err := t.g.Player(target)
	if err != nil {
		return nil, err
	}
	return t.g.ctrl.TurnOn(p.Stack().New(kind, source), nil), nil
}

// Effect finds an attached effect by ID on any player.
func (t *Turn) Effect(id string) (*effects.Effect, bool) {
	for _, s := range t.g.Stacks() {
		if e, ok := s.Find(id); ok {
			return e, true
		}
	}
	return nil, false
}

// Disable switches an effect off, keeping it on the stack.
func (t *Turn) Disable(e *effects.Effect) { t.g.ctrl.Disable(e) }

// Delete removes an effect.
func (t *Turn) Delete(e *effects.Effect) { t.g.ctrl.Delete(e) }

// StartDay begins the next day. Every player runs Morning; players listed in
// inactive start the day having spoken and skipped.
func (t *Turn) StartDay(inactive ...effects.PlayerID) (int, error) {
	g := t.g
	day, err := g.clock.StartDay()
	if err != nil {
		return day, err
	}
	idle := make(map[effects.PlayerID]bool, len(inactive))
	for _, id := range inactive {
		idle[id] = true
	}
	for _, p := range g.seating.Players() {
		p.Morning(g.ctrl, idle[p.ID()])
	}
	for _, st := range g.storytellers {
		st.Morning(g.ctrl, false)
	}
	g.watchers.ResetWatchers()
	g.record()

	g.bus.Publish(rules.NewEventWithAmount(rules.EventDayStarted, "", "", "", day))
	g.logger.Info("day started", zap.Int("day", day))
	return day, nil
}

// EndDay runs the evening cleanup of every effect and begins the next night.
func (t *Turn) EndDay() (int, error) {
	g := t.g
	night, err := g.clock.EndDay()
	if err != nil {
		return night, err
	}
	effects.EveningCleanup(g.ctrl, g.Stacks()...)
	g.record()

	g.bus.Publish(rules.NewEventWithAmount(rules.EventDayEnded, "", "", "", night))
	g.logger.Info("day ended", zap.Int("night", night))
	return night, nil
}

// Nominate has nominator nominate nominee. A vetoed nomination still uses up
// the nominator's nomination and the nominee's one nomination for the day.
func (t *Turn) Nominate(nominator, nominee effects.PlayerID) error {
	g := t.g
	if !g.clock.IsDay() {
		return ErrNotDay
	}
	by, err := g.seating.Get(nominator)
	if err != nil {
		return err
	}
	of, err := g.seating.Get(nominee)
	if err != nil {
		return err
	}
	if !by.CanNominate() {
		return fmt.Errorf("%w: %s", ErrCannotNominate, by.Name())
	}
	if !of.CanBeNominated(nominator) {
		return fmt.Errorf("%w: %s", ErrCannotBeNominated, of.Name())
	}

	executions := by.Executions()
	allowed := of.AllowsNomination(nominator)

	g.counterOps.Add(string(nominator), by.Counters(), counters.NominationsToday, 1)
	of.MarkNominated()
	g.bus.Publish(rules.NewEventWithFlag(rules.EventNomination, string(nominee), string(nominator), string(nominator), !allowed))

	// A nomination hook may have executed the nominator.
	if by.Executions() > executions {
		outcome := by.LastExecution()
		evt := rules.NewEventWithFlag(rules.EventExecuted, string(nominator), string(nominee), "", outcome == player.Died)
		evt.Data = outcome.String()
		evt.Description = outcome.Report(by.Name())
		g.bus.Publish(evt)
	}
	if !allowed {
		g.logger.Info("nomination vetoed",
			zap.String("nominator", string(nominator)),
			zap.String("nominee", string(nominee)))
		return fmt.Errorf("%w: %s by %s", ErrNominationVetoed, of.Name(), by.Name())
	}
	return nil
}

// Vote casts voter's vote and returns its value. A dead voter spends a token
// unless an effect lets them vote without one.
func (t *Turn) Vote(voter effects.PlayerID, traveler bool) (int, error) {
	g := t.g
	p, err := g.seating.Get(voter)
	if err != nil {
		return 0, err
	}
	if !p.CanVote(traveler) {
		return 0, fmt.Errorf("%w: %s", ErrCannotVote, p.Name())
	}
	value := p.VoteValue(traveler)
	if traveler {
		return value, nil
	}
	needed := p.NeedsDeadVoteToken()
	if !p.SpendDeadVote(g.counterOps) {
		return 0, fmt.Errorf("%w: %s has no dead vote", ErrCannotVote, p.Name())
	}
	if needed {
		g.bus.Publish(rules.NewEventWithAmount(rules.EventDeadVoteSpent, string(voter), "", string(voter), p.DeadVotes()))
	}
	return value, nil
}

// Execute executes a player. The death does not cascade to the player's
// dependents.
func (t *Turn) Execute(id effects.PlayerID) (player.ExecutionOutcome, error) {
	g := t.g
	p, err := g.seating.Get(id)
	if err != nil {
		return player.AlreadyDead, err
	}
	outcome := p.Execute()
	evt := rules.NewEventWithFlag(rules.EventExecuted, string(id), "", "", outcome == player.Died)
	evt.Data = outcome.String()
	evt.Description = outcome.Report(p.Name())
	g.bus.Publish(evt)
	return outcome, nil
}

// Revive brings a player back to life and returns the announcement.
func (t *Turn) Revive(id effects.PlayerID) (string, error) {
	g := t.g
	p, err := g.seating.Get(id)
	if err != nil {
		return "", err
	}
	report := p.Revive(g.ctrl)
	evt := rules.NewEvent(rules.EventRevived, string(id), "", "")
	evt.Description = report
	g.bus.Publish(evt)
	return report, nil
}

// ChangeCharacter gives a player a new character. Everything the player
// sourced is deleted and the new character's passives are installed.
func (t *Turn) ChangeCharacter(id effects.PlayerID, character string) error {
	g := t.g
	p, err := g.Player(id)
	if err != nil {
		return err
	}
	c, err := g.catalog.Lookup(character)
	if err != nil {
		return err
	}
	previous := p.Character().Name
	p.ChangeCharacter(g.ctrl, c)
	if !p.IsStoryteller() {
		abilities.Install(g.ctrl, g.seating, p, g.logger)
	}

	evt := rules.NewEvent(rules.EventCharacterChanged, string(id), "", string(id))
	evt.Data = c.Name
	evt.Metadata["from"] = previous
	g.bus.Publish(evt)
	return nil
}

// UseAbility applies actor's active ability to already-chosen targets. pick
// is the storyteller's choice where the ability leaves one.
func (t *Turn) UseAbility(actor effects.PlayerID, targets []effects.PlayerID, pick effects.PlayerID) ([]*effects.Effect, error) {
	g := t.g
	p, err := g.seating.Get(actor)
	if err != nil {
		return nil, err
	}
	ability, err := abilities.For(p.Character().Name)
	if err != nil {
		return nil, err
	}
	use := abilities.Use{Actor: p, Pick: pick}
	for _, id := range targets {
		target, err := g.seating.Get(id)
		if err != nil {
			return nil, err
		}
		use.Targets = append(use.Targets, target)
	}
	if err := g.validator.Validate(use.Selection(ability.Requirement())); err != nil {
		return nil, fmt.Errorf("%s: %w", ability.Name(), err)
	}
	created, err := ability.Apply(g.ctrl, use)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("ability used",
		zap.String("player_id", string(actor)),
		zap.String("ability", ability.Name()),
		zap.Int("effects", len(created)))
	return created, nil
}
