package rules

import "fmt"

// Phase is the half of the game clock currently running.
type Phase int

const (
	PhaseNight Phase = iota
	PhaseDay
)

var phaseNames = map[Phase]string{
	PhaseNight: "NIGHT",
	PhaseDay:   "DAY",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Clock tracks the day/night cycle. A game starts on the first night, before
// day 1.
type Clock struct {
	phase Phase
	day   int
	night int
}

// NewClock creates a clock at the first night.
func NewClock() *Clock {
	return &Clock{phase: PhaseNight, night: 1}
}

// Phase returns the phase currently in progress.
func (c *Clock) Phase() Phase { return c.phase }

// Day returns the current (or last) day number, 0 before the first day.
func (c *Clock) Day() int { return c.day }

// Night returns the current (or last) night number.
func (c *Clock) Night() int { return c.night }

// IsDay reports whether a day is in progress.
func (c *Clock) IsDay() bool { return c.phase == PhaseDay }

// StartDay advances from night to the next day and returns its number.
func (c *Clock) StartDay() (int, error) {
	if c.phase == PhaseDay {
		return c.day, fmt.Errorf("day %d already started", c.day)
	}
	c.phase = PhaseDay
	c.day++
	return c.day, nil
}

// EndDay advances from day to the next night and returns its number.
func (c *Clock) EndDay() (int, error) {
	if c.phase == PhaseNight {
		return c.night, fmt.Errorf("night %d already started", c.night)
	}
	c.phase = PhaseNight
	c.night++
	return c.night, nil
}
