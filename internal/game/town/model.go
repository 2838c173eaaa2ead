// Package town defines static town data: geography, resources, NPC
// catalogs, and demand modifiers, plus the YAML loader and lookup manager.
package town

import (
	"errors"
	"fmt"
)

// NPC is a named townsperson who may patronize the player's shop.
type NPC struct {
	Name        string `yaml:"name"`
	Occupation  string `yaml:"occupation"`
	Disposition string `yaml:"disposition"` // friendly, neutral, gruff
	// WealthTier scales how much gold the NPC brings to a purchase (1-5).
	WealthTier int `yaml:"wealth_tier"`
}

// Validate checks that the NPC satisfies its invariants.
func (n *NPC) Validate() error {
	if n.Name == "" {
		return errors.New("npc name must not be empty")
	}
	if n.WealthTier < 1 || n.WealthTier > 5 {
		return fmt.Errorf("npc %q: wealth_tier must be 1-5, got %d", n.Name, n.WealthTier)
	}
	return nil
}

// Town is the static description of a settlement. It is owned by the world
// catalog; shops and the turn engine hold references, never copies.
type Town struct {
	Name        string   `yaml:"name"`
	Region      string   `yaml:"region"`
	Description string   `yaml:"description"`
	Resources   []string `yaml:"resources"`
	// DemandModifiers maps item type to a price multiplier applied to
	// trades in this town. Types absent from the map trade at 1.0.
	DemandModifiers map[string]float64 `yaml:"demand_modifiers"`
	NPCs            []NPC              `yaml:"npcs"`
	// TravelHours maps destination town name to travel time in hours.
	TravelHours map[string]int `yaml:"travel_hours"`

	// ActiveEvents is the transient set of local happenings (festivals,
	// shortages) currently affecting the town. Mutable at runtime; not
	// part of the static content.
	ActiveEvents []string `yaml:"-"`
}

// Validate checks that the Town satisfies its invariants.
func (t *Town) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for typ, mod := range t.DemandModifiers {
		if mod <= 0 {
			errs = append(errs, fmt.Errorf("demand modifier for %q must be > 0, got %v", typ, mod))
		}
	}
	for i := range t.NPCs {
		if err := t.NPCs[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for dest, hours := range t.TravelHours {
		if hours < 1 {
			errs = append(errs, fmt.Errorf("travel time to %q must be >= 1 hour", dest))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("town %q validation failed: %v", t.Name, errs)
	}
	return nil
}

// DemandFor returns the demand modifier for an item type, defaulting to 1.0.
func (t *Town) DemandFor(itemType string) float64 {
	if m, ok := t.DemandModifiers[itemType]; ok {
		return m
	}
	return 1.0
}

// NPCByName returns the named NPC, if present.
func (t *Town) NPCByName(name string) (*NPC, bool) {
	for i := range t.NPCs {
		if t.NPCs[i].Name == name {
			return &t.NPCs[i], true
		}
	}
	return nil, false
}

// AddActiveEvent records a local happening. Idempotent.
func (t *Town) AddActiveEvent(name string) {
	for _, e := range t.ActiveEvents {
		if e == name {
			return
		}
	}
	t.ActiveEvents = append(t.ActiveEvents, name)
}

// ClearActiveEvents removes all local happenings (end-of-day bookkeeping).
func (t *Town) ClearActiveEvents() {
	t.ActiveEvents = nil
}
