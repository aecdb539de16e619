package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Day boundary events
	EventDayStarted EventType = "DAY_STARTED"
	EventDayEnded   EventType = "DAY_ENDED"

	// Seating events
	EventPlayerSeated     EventType = "PLAYER_SEATED"
	EventCharacterChanged EventType = "CHARACTER_CHANGED"

	// Effect events
	EventEffectEnabled  EventType = "EFFECT_ENABLED"
	EventEffectDisabled EventType = "EFFECT_DISABLED"

	// Cascade events, published once per affected source
	EventSourceDied               EventType = "SOURCE_DIED"
	EventSourceStoppedFunctioning EventType = "SOURCE_STOPPED_FUNCTIONING"
	EventSourceStartsFunctioning  EventType = "SOURCE_STARTS_FUNCTIONING"

	// Town square events
	EventNomination     EventType = "NOMINATION"
	EventDeadVoteSpent  EventType = "DEAD_VOTE_SPENT"
	EventExecuted       EventType = "EXECUTED"
	EventRevived        EventType = "REVIVED"
	EventCounterChanged EventType = "COUNTER_CHANGED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	TargetID    string            // Affected player
	SourceID    string            // Source player or effect
	PlayerID    string            // Acting player, if any
	Amount      int               // Numeric value (counter delta, day number)
	Flag        bool              // Boolean outcome (died, vetoed)
	Data        string            // Additional string data
	Timestamp   time.Time         // When the event occurred
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	order          []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.order = append(bus.order, handle)
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.order {
			if h == handle {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously, in
// subscription order. Listeners may publish or subscribe in turn.
func (bus *EventBus) Publish(event Event) {
	if bus == nil {
		return
	}
	bus.mu.RLock()
	callbacks := make([]func(Event), 0, len(bus.order)+len(bus.typedListeners[event.Type]))
	for _, handle := range bus.order {
		callbacks = append(callbacks, bus.listeners[handle])
	}
	for _, listener := range bus.typedListeners[event.Type] {
		callbacks = append(callbacks, listener.Callback)
	}
	bus.mu.RUnlock()

	for _, cb := range callbacks {
		cb(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		TargetID:  targetID,
		SourceID:  sourceID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, playerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Amount = amount
	return evt
}

// NewEventWithFlag creates a new event with a flag value.
func NewEventWithFlag(eventType EventType, targetID, sourceID, playerID string, flag bool) Event {
	evt := NewEvent(eventType, targetID, sourceID, playerID)
	evt.Flag = flag
	return evt
}
