package turn

import (
	"fmt"

	"github.com/cory-johannsen/emporium/internal/game/haggle"
)

// Handler performs an action against the state. It returns the narration,
// the hours consumed, and the experience earned; an error rejects the
// action without advancing time.
type Handler func(o *Orchestrator, st *State, details map[string]string) (outcome, error)

type outcome struct {
	message string
	hours   int
	xp      int
	// haggle suspends the turn with a freshly opened negotiation.
	haggle *haggle.Session
}

// Action describes a registered player action.
type Action struct {
	Name    string
	Aliases []string
	// Skill is the linked skill used when rolling for skill-specific
	// events after the action completes. Empty for unlinked actions.
	Skill string
	// ShopTrade marks actions that already involve a customer or the
	// market. Patronage is not rolled after them.
	ShopTrade bool
	Handler   Handler
}

// Registry maps action names and aliases to Action definitions.
type Registry struct {
	actions map[string]*Action // canonical name → action
	aliases map[string]string  // alias → canonical name
}

// NewRegistry creates a Registry populated with the given actions.
//
// Precondition: No two actions may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(acts []Action) (*Registry, error) {
	r := &Registry{
		actions: make(map[string]*Action, len(acts)),
		aliases: make(map[string]string),
	}

	for i := range acts {
		act := &acts[i]
		if _, exists := r.actions[act.Name]; exists {
			return nil, fmt.Errorf("duplicate action name: %q", act.Name)
		}
		if _, exists := r.aliases[act.Name]; exists {
			return nil, fmt.Errorf("action name %q conflicts with an existing alias", act.Name)
		}
		r.actions[act.Name] = act

		for _, alias := range act.Aliases {
			if _, exists := r.actions[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with action name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, act.Name)
			}
			r.aliases[alias] = act.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in actions.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinActions())
	if err != nil {
		panic(fmt.Sprintf("building default action registry: %v", err))
	}
	return r
}

// Resolve looks up an action by name or alias.
//
// Postcondition: Returns (action, true) if found, or (nil, false). Unknown
// names never match; the orchestrator treats them as logged no-ops.
func (r *Registry) Resolve(name string) (*Action, bool) {
	if act, ok := r.actions[name]; ok {
		return act, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.actions[canonical], true
	}
	return nil, false
}

// Actions returns all registered actions in no particular order.
func (r *Registry) Actions() []*Action {
	result := make([]*Action, 0, len(r.actions))
	for _, act := range r.actions {
		result = append(result, act)
	}
	return result
}
