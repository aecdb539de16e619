package counters

import (
	"fmt"
	"strconv"

	"github.com/clocktower/grimoire-go/internal/game/rules"
)

// CounterOperations changes player counters and emits COUNTER_CHANGED events.
type CounterOperations struct {
	eventBus *rules.EventBus
}

// NewCounterOperations creates a new CounterOperations instance.
func NewCounterOperations(eventBus *rules.EventBus) *CounterOperations {
	return &CounterOperations{eventBus: eventBus}
}

// Add adds amount to a player's counter.
func (co *CounterOperations) Add(playerID string, cs *Counters, name Type, amount int) {
	if amount <= 0 {
		return
	}
	cs.Add(name, amount)
	co.emit(playerID, cs, name, amount)
}

// Remove takes amount from a player's counter and reports whether enough
// tokens were available.
func (co *CounterOperations) Remove(playerID string, cs *Counters, name Type, amount int) bool {
	if !cs.Remove(name, amount) {
		return false
	}
	co.emit(playerID, cs, name, -amount)
	return true
}

func (co *CounterOperations) emit(playerID string, cs *Counters, name Type, delta int) {
	evt := rules.NewEventWithAmount(rules.EventCounterChanged, playerID, playerID, playerID, delta)
	evt.Data = string(name)
	evt.Metadata["counter_name"] = string(name)
	evt.Metadata["counter_count"] = strconv.Itoa(cs.Get(name))
	evt.Description = fmt.Sprintf("%s %+d %s", playerID, delta, name)
	co.eventBus.Publish(evt)
}
