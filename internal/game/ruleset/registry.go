package ruleset

import (
	"fmt"
	"sort"
)

// Registry provides lookup of rules content by name.
type Registry struct {
	backgrounds map[string]*Background
	feats       map[string]*Feat
	factions    map[string]*Faction
}

// NewRegistry creates a Registry populated with the given content.
//
// Precondition: no two entries of a kind may share a name.
// Postcondition: Returns a Registry or an error on name collisions.
func NewRegistry(backgrounds []*Background, feats []*Feat, factions []*Faction) (*Registry, error) {
	r := &Registry{
		backgrounds: make(map[string]*Background, len(backgrounds)),
		feats:       make(map[string]*Feat, len(feats)),
		factions:    make(map[string]*Faction, len(factions)),
	}
	for _, b := range backgrounds {
		if _, exists := r.backgrounds[b.Name]; exists {
			return nil, fmt.Errorf("duplicate background: %q", b.Name)
		}
		r.backgrounds[b.Name] = b
	}
	for _, f := range feats {
		if _, exists := r.feats[f.Name]; exists {
			return nil, fmt.Errorf("duplicate feat: %q", f.Name)
		}
		r.feats[f.Name] = f
	}
	for _, f := range factions {
		if _, exists := r.factions[f.Name]; exists {
			return nil, fmt.Errorf("duplicate faction: %q", f.Name)
		}
		r.factions[f.Name] = f
	}
	return r, nil
}

// Backgrounds returns all registered backgrounds sorted by name.
func (r *Registry) Backgrounds() []*Background {
	names := make([]string, 0, len(r.backgrounds))
	for name := range r.backgrounds {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Background, 0, len(names))
	for _, name := range names {
		result = append(result, r.backgrounds[name])
	}
	return result
}

// Background returns the named background, if registered.
func (r *Registry) Background(name string) (*Background, bool) {
	b, ok := r.backgrounds[name]
	return b, ok
}

// Feat returns the named feat, if registered.
func (r *Registry) Feat(name string) (*Feat, bool) {
	f, ok := r.feats[name]
	return f, ok
}

// Faction returns the named faction, if registered.
func (r *Registry) Faction(name string) (*Faction, bool) {
	f, ok := r.factions[name]
	return f, ok
}

// Factions returns every registered faction in no particular order.
func (r *Registry) Factions() []*Faction {
	out := make([]*Faction, 0, len(r.factions))
	for _, f := range r.factions {
		out = append(out, f)
	}
	return out
}

// FactionsAtHQ returns the factions headquartered in the named town.
func (r *Registry) FactionsAtHQ(town string) []*Faction {
	var out []*Faction
	for _, f := range r.factions {
		if f.HQTown == town {
			out = append(out, f)
		}
	}
	return out
}
