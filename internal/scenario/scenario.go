// Package scenario drives a game from a YAML script. It stands in for the
// interaction layer: every choice a script makes has already been resolved.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrBadStep is returned for steps that name no action or several.
	ErrBadStep = errors.New("invalid step")
	// ErrExpectation is returned when an expect step does not hold.
	ErrExpectation = errors.New("expectation failed")
)

// Scenario is one scripted game.
type Scenario struct {
	Name         string `yaml:"name"`
	Players      []Seat `yaml:"players"`
	Storytellers []Seat `yaml:"storytellers"`
	Steps        []Step `yaml:"steps"`
}

// Seat declares a player or storyteller.
type Seat struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Character string `yaml:"character"`
}

// Step holds exactly one action. Fails marks steps that must return an error.
type Step struct {
	Apply           *ApplyStep    `yaml:"apply"`
	Disable         string        `yaml:"disable"`
	Delete          string        `yaml:"delete"`
	Ability         *AbilityStep  `yaml:"ability"`
	Morning         *MorningStep  `yaml:"morning"`
	Evening         *EveningStep  `yaml:"evening"`
	Nominate        *NominateStep `yaml:"nominate"`
	Vote            *VoteStep     `yaml:"vote"`
	Execute         string        `yaml:"execute"`
	Revive          string        `yaml:"revive"`
	ChangeCharacter *ChangeStep   `yaml:"change_character"`
	Expect          *ExpectStep   `yaml:"expect"`

	Fails bool `yaml:"fails"`
}

// ApplyStep puts a catalog effect on a player. Label names it for later steps.
type ApplyStep struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Source string `yaml:"source"`
	Label  string `yaml:"label"`
}

// AbilityStep uses the actor's active ability.
type AbilityStep struct {
	Actor   string   `yaml:"actor"`
	Targets []string `yaml:"targets"`
	Pick    string   `yaml:"pick"`
	Label   string   `yaml:"label"`
}

// MorningStep starts the next day.
type MorningStep struct {
	Inactive []string `yaml:"inactive"`
}

// EveningStep ends the day.
type EveningStep struct{}

// NominateStep is a nomination.
type NominateStep struct {
	Nominator string `yaml:"nominator"`
	Nominee   string `yaml:"nominee"`
}

// VoteStep is one vote. Want, when set, is the expected vote value.
type VoteStep struct {
	Voter    string `yaml:"voter"`
	Traveler bool   `yaml:"traveler"`
	Want     *int   `yaml:"want"`
}

// ChangeStep gives a player a new character.
type ChangeStep struct {
	Player    string `yaml:"player"`
	Character string `yaml:"character"`
}

// ExpectStep checks a status query.
type ExpectStep struct {
	Player    string `yaml:"player"`
	Status    string `yaml:"status"`
	Registers bool   `yaml:"registers"`
	Want      bool   `yaml:"want"`
}

// action returns the name of the step's action.
func (s Step) action() (string, error) {
	set := map[string]bool{
		"apply":            s.Apply != nil,
		"disable":          s.Disable != "",
		"delete":           s.Delete != "",
		"ability":          s.Ability != nil,
		"morning":          s.Morning != nil,
		"evening":          s.Evening != nil,
		"nominate":         s.Nominate != nil,
		"vote":             s.Vote != nil,
		"execute":          s.Execute != "",
		"revive":           s.Revive != "",
		"change_character": s.ChangeCharacter != nil,
		"expect":           s.Expect != nil,
	}
	found := ""
	for name, ok := range set {
		if !ok {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("%w: both %s and %s", ErrBadStep, found, name)
		}
		found = name
	}
	if found == "" {
		return "", fmt.Errorf("%w: no action", ErrBadStep)
	}
	return found, nil
}

// Parse decodes a scenario and checks every step names one action.
func Parse(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if len(sc.Players) == 0 {
		return nil, fmt.Errorf("scenario %q seats no players", sc.Name)
	}
	for i, step := range sc.Steps {
		if _, err := step.action(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// LoadFile parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
