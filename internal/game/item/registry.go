package item

import "fmt"

// Registry provides lookup of item definitions by name.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates a Registry populated with the given definitions.
//
// Precondition: no two definitions may share a name.
// Postcondition: Returns a Registry or an error on name collisions.
func NewRegistry(defs []*Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if _, exists := r.defs[d.Name]; exists {
			return nil, fmt.Errorf("duplicate item definition: %q", d.Name)
		}
		r.defs[d.Name] = d
	}
	return r, nil
}

// Lookup returns the definition for the given item name, if registered.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}
