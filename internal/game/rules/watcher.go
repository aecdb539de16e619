package rules

import (
	"sort"
	"sync"
)

// Watcher observes game events and tracks a condition over a day.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears the tracked state, typically at the start of a day.
	Reset()

	// ConditionMet returns true if the tracked condition holds.
	ConditionMet() bool

	// GetKey returns a unique key for this watcher instance.
	GetKey() string
}

// BaseWatcher provides a base implementation for watchers.
type BaseWatcher struct {
	condition bool
	key       string
}

// NewBaseWatcher creates a new base watcher.
func NewBaseWatcher() *BaseWatcher {
	return &BaseWatcher{}
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SetKey sets the unique key for this watcher.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// WatcherRegistry manages watchers for a game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
	}
}

// AddWatcher adds a watcher to the registry, replacing any with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	wr.watchers[watcher.GetKey()] = watcher
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// ResetWatchers resets all watchers.
func (wr *WatcherRegistry) ResetWatchers() {
	for _, w := range wr.sorted() {
		w.Reset()
	}
}

// NotifyWatchers notifies all watchers of an event.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	for _, w := range wr.sorted() {
		w.Watch(event)
	}
}

func (wr *WatcherRegistry) sorted() []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	keys := make([]string, 0, len(wr.watchers))
	for k := range wr.watchers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]Watcher, 0, len(keys))
	for _, k := range keys {
		result = append(result, wr.watchers[k])
	}
	return result
}
