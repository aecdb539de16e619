package counters

import "sort"

// Type names a per-player token counter.
type Type string

const (
	// DeadVote is the token a dead player spends to vote.
	DeadVote Type = "dead_vote"
	// NominationsToday counts the nominations a player made today.
	NominationsToday Type = "nominations_today"
)

func (t Type) String() string { return string(t) }

// Counter is a named count that never goes below zero.
type Counter struct {
	Name  Type
	Count int
}

// NewCounter creates a counter. Negative counts are clamped to zero.
func NewCounter(name Type, count int) *Counter {
	if count < 0 {
		count = 0
	}
	return &Counter{Name: name, Count: count}
}

// Add adds a positive amount to the counter.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Remove removes the specified amount from the counter.
// Will not allow count to go below 0.
func (c *Counter) Remove(amount int) {
	if amount > 0 {
		if c.Count >= amount {
			c.Count -= amount
		} else {
			c.Count = 0
		}
	}
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{Name: c.Name, Count: c.Count}
}

// Counters manages the counters of one player.
type Counters struct {
	Counters map[Type]*Counter
}

// NewCounters creates an empty collection.
func NewCounters() *Counters {
	return &Counters{Counters: make(map[Type]*Counter)}
}

// Get returns the count of name, 0 if absent.
func (cs *Counters) Get(name Type) int {
	if c, ok := cs.Counters[name]; ok {
		return c.Count
	}
	return 0
}

// Set overwrites the count of name.
func (cs *Counters) Set(name Type, count int) {
	cs.Counters[name] = NewCounter(name, count)
}

// Add adds amount to name, creating the counter if needed.
func (cs *Counters) Add(name Type, amount int) {
	c, ok := cs.Counters[name]
	if !ok {
		c = NewCounter(name, 0)
		cs.Counters[name] = c
	}
	c.Add(amount)
}

// Remove takes amount from name. It reports false, leaving the count as it
// was, when fewer than amount are available.
func (cs *Counters) Remove(name Type, amount int) bool {
	c, ok := cs.Counters[name]
	if !ok || amount <= 0 || c.Count < amount {
		return false
	}
	c.Remove(amount)
	return true
}

// Copy creates a deep copy of the Counters collection.
func (cs *Counters) Copy() *Counters {
	out := NewCounters()
	for name, counter := range cs.Counters {
		out.Counters[name] = counter.Copy()
	}
	return out
}

// ToView converts counters to the view format, ordered by name.
func (cs *Counters) ToView() []CounterView {
	views := make([]CounterView, 0, len(cs.Counters))
	for name, counter := range cs.Counters {
		views = append(views, CounterView{Name: string(name), Count: counter.Count})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

// CounterView represents a counter in the view format.
type CounterView struct {
	Name  string
	Count int
}
