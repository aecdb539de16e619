// Package characters holds the character catalog: each character's type,
// alignment and the effects a player receives when assigned it.
package characters

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/clocktower/grimoire-go/internal/game/effects"
	"github.com/clocktower/grimoire-go/internal/game/status"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// ErrUnknownCharacter is returned when a name is not in the catalog.
var ErrUnknownCharacter = errors.New("unknown character")

// Character describes one character.
type Character struct {
	Name      string
	Type      status.Status
	Alignment status.Status
	Effects   []effects.Kind
}

// DefaultEffects lists the effects granted on assignment: type tagger,
// alignment tagger (if any), then the extra effects.
func (c *Character) DefaultEffects() []effects.Kind {
	kinds := []effects.Kind{typeKinds[c.Type]}
	if c.Alignment != "" {
		kinds = append(kinds, alignmentKinds[c.Alignment])
	}
	return append(kinds, c.Effects...)
}

var typeKinds = map[status.Status]effects.Kind{
	status.Townsfolk:   effects.KindTownsfolk,
	status.Outsider:    effects.KindOutsider,
	status.Minion:      effects.KindMinion,
	status.Demon:       effects.KindDemon,
	status.Traveler:    effects.KindTraveler,
	status.Storyteller: effects.KindStoryteller,
}

var alignmentKinds = map[status.Status]effects.Kind{
	status.Good: effects.KindGood,
	status.Evil: effects.KindEvil,
}

type definition struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Alignment string   `yaml:"alignment"`
	Effects   []string `yaml:"effects"`
}

type document struct {
	Characters []definition `yaml:"characters"`
}

// Catalog is an immutable set of characters keyed by normalized name.
type Catalog struct {
	byKey map[string]*Character
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("characters: catalog payload is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("characters: decode catalog: %w", err)
	}
	cat := &Catalog{byKey: make(map[string]*Character, len(doc.Characters))}
	for i, def := range doc.Characters {
		c, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("characters: entry %d: %w", i, err)
		}
		key := normalize(c.Name)
		if _, dup := cat.byKey[key]; dup {
			return nil, fmt.Errorf("characters: duplicate character %q", c.Name)
		}
		cat.byKey[key] = c
	}
	return cat, nil
}

func (d definition) build() (*Character, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	typ, err := status.Parse(d.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: type: %w", name, err)
	}
	if _, ok := typeKinds[typ]; !ok {
		return nil, fmt.Errorf("%s: %q is not a character type", name, d.Type)
	}
	c := &Character{Name: name, Type: typ}
	if strings.TrimSpace(d.Alignment) != "" {
		align, err := status.Parse(d.Alignment)
		if err != nil {
			return nil, fmt.Errorf("%s: alignment: %w", name, err)
		}
		if _, ok := alignmentKinds[align]; !ok {
			return nil, fmt.Errorf("%s: %q is not an alignment", name, d.Alignment)
		}
		c.Alignment = align
	}
	for _, raw := range d.Effects {
		kind, err := effects.ParseKind(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: effects: %w", name, err)
		}
		c.Effects = append(c.Effects, kind)
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded base catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(embedded)
	})
	return defaultCatalog, defaultErr
}

// Lookup finds a character by name, ignoring case, spaces, dashes and apostrophes.
func (c *Catalog) Lookup(name string) (*Character, error) {
	if ch, ok := c.byKey[normalize(name)]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
}

// All returns every character ordered by type, then name.
func (c *Catalog) All() []*Character {
	out := make([]*Character, 0, len(c.byKey))
	for _, ch := range c.byKey {
		out = append(out, ch)
	}
	rank := make(map[status.Status]int, len(status.CharacterTypes))
	for i, t := range status.CharacterTypes {
		rank[t] = i
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return rank[out[i].Type] < rank[out[j].Type]
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of characters.
func (c *Catalog) Len() int { return len(c.byKey) }

func normalize(name string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "", "'", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(name)))
}
