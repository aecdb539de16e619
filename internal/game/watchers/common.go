package watchers

import (
	"github.com/clocktower/grimoire-go/internal/game/rules"
)

// DeathsWatcher tracks the players who died today, in order.
type DeathsWatcher struct {
	*rules.BaseWatcher
	deaths []string
	causes map[string]rules.EventType
}

// NewDeathsWatcher creates a new deaths watcher.
func NewDeathsWatcher() *DeathsWatcher {
	w := &DeathsWatcher{
		BaseWatcher: rules.NewBaseWatcher(),
		causes:      make(map[string]rules.EventType),
	}
	w.SetKey("DeathsWatcher")
	return w
}

// Watch implements the Watcher interface. Executions count when the player
// died; ability deaths are seen through the cascade's SOURCE_DIED event.
func (w *DeathsWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventExecuted:
		if !event.Flag {
			return
		}
	case rules.EventSourceDied:
	default:
		return
	}
	if event.TargetID == "" {
		return
	}
	if _, seen := w.causes[event.TargetID]; seen {
		return
	}
	w.deaths = append(w.deaths, event.TargetID)
	w.causes[event.TargetID] = event.Type
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DeathsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.deaths = nil
	w.causes = make(map[string]rules.EventType)
}

// Deaths returns the players who died today.
func (w *DeathsWatcher) Deaths() []string {
	return append([]string(nil), w.deaths...)
}

// Executed reports whether playerID died by execution today.
func (w *DeathsWatcher) Executed(playerID string) bool {
	return w.causes[playerID] == rules.EventExecuted
}

// NominationsWatcher tracks today's nominations.
type NominationsWatcher struct {
	*rules.BaseWatcher
	byNominator map[string][]string // nominator -> nominees
	nominated   map[string]int      // nominee -> times nominated
}

// NewNominationsWatcher creates a new nominations watcher.
func NewNominationsWatcher() *NominationsWatcher {
	w := &NominationsWatcher{BaseWatcher: rules.NewBaseWatcher()}
	w.SetKey("NominationsWatcher")
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *NominationsWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventNomination || event.Flag {
		return
	}
	nominator, nominee := event.PlayerID, event.TargetID
	if nominee == "" {
		return
	}
	w.byNominator[nominator] = append(w.byNominator[nominator], nominee)
	w.nominated[nominee]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *NominationsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.byNominator = make(map[string][]string)
	w.nominated = make(map[string]int)
}

// Nominees returns who nominator nominated today.
func (w *NominationsWatcher) Nominees(nominator string) []string {
	return append([]string(nil), w.byNominator[nominator]...)
}

// Count returns the number of successful nominations today.
func (w *NominationsWatcher) Count() int {
	total := 0
	for _, n := range w.nominated {
		total += n
	}
	return total
}

// WasNominated reports whether playerID was nominated today.
func (w *NominationsWatcher) WasNominated(playerID string) bool {
	return w.nominated[playerID] > 0
}
