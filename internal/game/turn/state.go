// Package turn orchestrates one player action per call: dispatching to an
// action handler, advancing the game clock, triggering narrative events and
// NPC patronage, and reporting a tagged result the caller must act on.
package turn

import (
	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/clock"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
)

// State is the mutable per-character game state the orchestrator drives.
// The caller owns exactly one State per character and serializes calls into
// it; the engine assumes exclusive access for the duration of each call.
type State struct {
	Character *character.Character
	Shop      *shop.Shop
	// Town is a reference into the world catalog, never a copy.
	Town  *town.Town
	Clock clock.Clock

	// PendingEvent names the event awaiting a choice; empty when none.
	// While set, ordinary actions are rejected until ResolveEventChoice.
	PendingEvent string
	// Haggle is the active negotiation session; nil when none. At most one
	// session exists per character.
	Haggle *haggle.Session

	// ActionsToday counts actions since the last day boundary.
	ActionsToday int
}

// Initialized reports whether the state carries everything a turn needs.
func (s *State) Initialized() bool {
	return s != nil && s.Character != nil && s.Shop != nil && s.Town != nil
}

// Suspended reports whether a pending event or haggling session blocks
// ordinary actions.
func (s *State) Suspended() bool {
	return s.PendingEvent != "" || s.Haggle != nil
}

// ClearPending discards any pending event or haggling session without side
// effects. Used on logout or death, when a suspended turn is abandoned.
func (s *State) ClearPending() {
	s.PendingEvent = ""
	s.Haggle = nil
}
