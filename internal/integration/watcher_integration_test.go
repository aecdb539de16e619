package integration

import (
	"testing"

	"github.com/clocktower/grimoire-go/internal/game"
	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/rules"
	"github.com/clocktower/grimoire-go/internal/game/watchers"
)

func TestWatcherIntegration_MultipleWatchers(t *testing.T) {
	eventBus := rules.NewEventBus()
	watcherReg := rules.NewWatcherRegistry()

	// Wire watchers to event bus
	eventBus.Subscribe(func(event rules.Event) {
		watcherReg.NotifyWatchers(event)
	})

	deaths := watchers.NewDeathsWatcher()
	nominations := watchers.NewNominationsWatcher()
	watcherReg.AddWatcher(deaths)
	watcherReg.AddWatcher(nominations)

	eventBus.Publish(rules.NewEventWithFlag(rules.EventNomination, "bob", "alice", "alice", false))
	if !nominations.ConditionMet() {
		t.Error("NominationsWatcher should have condition met")
	}
	if deaths.ConditionMet() {
		t.Error("DeathsWatcher should not have condition met")
	}

	// A survived execution is not a death.
	eventBus.Publish(rules.NewEventWithFlag(rules.EventExecuted, "bob", "", "", false))
	if deaths.ConditionMet() {
		t.Error("DeathsWatcher should ignore executions nobody died of")
	}
	eventBus.Publish(rules.NewEventWithFlag(rules.EventExecuted, "bob", "", "", true))
	if !deaths.Executed("bob") {
		t.Error("Expected bob to be recorded as executed")
	}

	watcherReg.ResetWatchers()
	if deaths.ConditionMet() || nominations.ConditionMet() {
		t.Error("Reset should clear every watcher")
	}
	if nominations.Count() != 0 {
		t.Errorf("Expected 0 nominations after reset, got %d", nominations.Count())
	}
}

func TestWatcherIntegration_GameResetsAtDawn(t *testing.T) {
	g := newTown(t, game.Options{}, "alice", "Empath", "bob", "Chef", "carol", "Imp")

	err := g.Do(func(tr *game.Turn) error {
		if _, err := tr.StartDay(); err != nil {
			return err
		}
		if err := tr.Nominate("alice", "carol"); err != nil {
			return err
		}
		_, err := tr.Execute("carol")
		return err
	})
	if err != nil {
		t.Fatalf("Day 1 failed: %v", err)
	}

	if !g.Nominations().WasNominated("carol") {
		t.Error("Expected carol to be nominated today")
	}
	if got := g.Deaths().Deaths(); len(got) != 1 || got[0] != "carol" {
		t.Errorf("Expected carol to be today's only death, got %v", got)
	}

	err = g.Do(func(tr *game.Turn) error {
		if _, err := tr.EndDay(); err != nil {
			return err
		}
		// Night kill: the demon is gone, but the storyteller still kills bob.
		if _, err := tr.Apply(effects.KindDead, "bob", effects.Storyteller); err != nil {
			return err
		}
		_, err := tr.StartDay()
		return err
	})
	if err != nil {
		t.Fatalf("Night 2 failed: %v", err)
	}

	if g.Nominations().Count() != 0 {
		t.Errorf("Expected nominations to reset at dawn, got %d", g.Nominations().Count())
	}
	if len(g.Deaths().Deaths()) != 0 {
		t.Errorf("Expected deaths to reset at dawn, got %v", g.Deaths().Deaths())
	}
}
