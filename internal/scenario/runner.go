package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/clocktower/grimoire-go/internal/game"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/grimoire"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"go.uber.org/zap"
)

// Result is what a run produced: one report line per step and the final
// grimoire.
type Result struct {
	Game     *game.Game
	Lines    []string
	Snapshot *grimoire.Snapshot
}

// Runner plays scenarios.
type Runner struct {
	opts   game.Options
	logger *zap.Logger
}

// NewRunner creates a runner whose games use opts.
func NewRunner(opts game.Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger}
}

type run struct {
	turn   *game.Turn
	labels map[string][]*effects.Effect
	lines  []string
}

// Run plays sc on a new game. A failed expectation or an unexpected action
// error stops the run; the partial result is still returned.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	g, err := game.NewGame("", r.opts)
	if err != nil {
		return nil, err
	}
	res := &Result{Game: g}
	r.logger.Info("scenario started",
		zap.String("scenario", sc.Name),
		zap.String("game_id", g.ID()),
		zap.Int("steps", len(sc.Steps)))

	err = g.Do(func(t *game.Turn) error {
		st := &run{turn: t, labels: make(map[string][]*effects.Effect)}
		defer func() {
			res.Lines = st.lines
			res.Snapshot = t.Snapshot()
		}()

		for _, seat := range sc.Players {
			if _, err := t.Seat(effects.PlayerID(seat.ID), nameOf(seat), seat.Character); err != nil {
				return fmt.Errorf("seat %s: %w", seat.ID, err)
			}
		}
		for _, seat := range sc.Storytellers {
			if _, err := t.AddStoryteller(effects.PlayerID(seat.ID), nameOf(seat)); err != nil {
				return fmt.Errorf("storyteller %s: %w", seat.ID, err)
			}
		}

		for i, step := range sc.Steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			name, err := step.action()
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			line, err := st.do(name, step)
			switch {
			case step.Fails && err == nil:
				return fmt.Errorf("step %d (%s): %w: expected an error", i+1, name, ErrExpectation)
			case step.Fails:
				line = fmt.Sprintf("%s failed as expected: %v", name, err)
			case err != nil:
				return fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			st.lines = append(st.lines, line)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("scenario failed", zap.String("scenario", sc.Name), zap.Error(err))
		return res, err
	}
	r.logger.Info("scenario finished", zap.String("scenario", sc.Name))
	return res, nil
}

func nameOf(seat Seat) string {
	if seat.Name != "" {
		return seat.Name
	}
	return seat.ID
}

func (st *run) do(name string, step Step) (string, error) {
	t := st.turn
	switch name {
	case "apply":
		a := step.Apply
		kind, err := effects.ParseKind(a.Kind)
		if err != nil {
			return "", err
		}
		e, err := t.Apply(kind, effects.PlayerID(a.Target), effects.PlayerID(a.Source))
		if err != nil {
			return "", err
		}
		st.label(a.Label, e)
		return fmt.Sprintf("%s applied to %s", e.Name(), a.Target), nil

	case "disable", "delete":
		label := step.Disable
		if name == "delete" {
			label = step.Delete
		}
		list, ok := st.labels[label]
		if !ok {
			return "", fmt.Errorf("unknown effect label %q", label)
		}
		for _, e := range list {
			if name == "disable" {
				t.Disable(e)
			} else {
				t.Delete(e)
			}
		}
		return fmt.Sprintf("%sd %s", name, label), nil

	case "ability":
		a := step.Ability
		targets := make([]effects.PlayerID, len(a.Targets))
		for i, id := range a.Targets {
			targets[i] = effects.PlayerID(id)
		}
		created, err := t.UseAbility(effects.PlayerID(a.Actor), targets, effects.PlayerID(a.Pick))
		if err != nil {
			return "", err
		}
		st.label(a.Label, created...)
		return fmt.Sprintf("%s used their ability on %s", a.Actor, strings.Join(a.Targets, ", ")), nil

	case "morning":
		inactive := make([]effects.PlayerID, len(step.Morning.Inactive))
		for i, id := range step.Morning.Inactive {
			inactive[i] = effects.PlayerID(id)
		}
		day, err := t.StartDay(inactive...)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Day %d begins.", day), nil

	case "evening":
		night, err := t.EndDay()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Night %d begins.", night), nil

	case "nominate":
		n := step.Nominate
		if err := t.Nominate(effects.PlayerID(n.Nominator), effects.PlayerID(n.Nominee)); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s nominates %s.", n.Nominator, n.Nominee), nil

	case "vote":
		v := step.Vote
		value, err := t.Vote(effects.PlayerID(v.Voter), v.Traveler)
		if err != nil {
			return "", err
		}
		if v.Want != nil && *v.Want != value {
			return "", fmt.Errorf("%w: vote of %s is %d, want %d", ErrExpectation, v.Voter, value, *v.Want)
		}
		return fmt.Sprintf("%s votes (%d).", v.Voter, value), nil

	case "execute":
		p, err := t.Player(effects.PlayerID(step.Execute))
		if err != nil {
			return "", err
		}
		outcome, err := t.Execute(p.ID())
		if err != nil {
			return "", err
		}
		return outcome.Report(p.Name()), nil

	case "revive":
		return t.Revive(effects.PlayerID(step.Revive))

	case "change_character":
		c := step.ChangeCharacter
		if err := t.ChangeCharacter(effects.PlayerID(c.Player), c.Character); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is now the %s.", c.Player, c.Character), nil

	case "expect":
		return st.expect(step.Expect)
	}
	return "", fmt.Errorf("%w: %s", ErrBadStep, name)
}

func (st *run) label(label string, list ...*effects.Effect) {
	if label == "" {
		return
	}
	st.labels[label] = append(st.labels[label], list...)
}

func (st *run) expect(x *ExpectStep) (string, error) {
	s, err := status.Parse(x.Status)
	if err != nil {
		return "", err
	}
	p, err := st.turn.Player(effects.PlayerID(x.Player))
	if err != nil {
		return "", err
	}
	got := p.IsStatus(s, x.Registers)
	verb := "is"
	if x.Registers {
		verb = "registers as"
	}
	if got != x.Want {
		return "", fmt.Errorf("%w: %s %s %s = %t, want %t", ErrExpectation, x.Player, verb, s, got, x.Want)
	}
	return fmt.Sprintf("ok: %s %s %s = %t", x.Player, verb, s, got), nil
}
