// Package session provides player session tracking and town presence
// management for the game backend.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/clock"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
	"github.com/cory-johannsen/emporium/internal/game/turn"
)

// PlayerSession tracks a logged-in player's live game state.
type PlayerSession struct {
	// UID is the unique session identifier.
	UID string
	// CharacterID is the database ID of the character for persistence.
	CharacterID int64
	// CharName is the character display name (for logging and lookups).
	CharName string
	// State is the live turn state the orchestrator drives. Exclusive to
	// this session; callers serialize access through the Manager.
	State *turn.State
	// LoggedInAt records when the session opened.
	LoggedInAt time.Time
}

// Manager tracks all active player sessions and town presence.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	players  map[string]*PlayerSession  // uid → session
	townSets map[string]map[string]bool // town name → set of UIDs
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		players:  make(map[string]*PlayerSession),
		townSets: make(map[string]map[string]bool),
	}
}

// Login opens a session for the character, resolving their town from the
// world catalog and building a fresh turn state.
//
// Precondition: c and s must be non-nil; the character's town must exist in
// the catalog.
// Postcondition: Returns the created PlayerSession, or an error if the
// character is already logged in or their town is unknown.
func (m *Manager) Login(c *character.Character, s *shop.Shop, towns *town.Catalog) (*PlayerSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.players {
		if sess.CharName == c.Name {
			return nil, fmt.Errorf("character %q already logged in", c.Name)
		}
	}
	t, ok := towns.Lookup(c.TownName)
	if !ok {
		return nil, fmt.Errorf("character %q is in unknown town %q", c.Name, c.TownName)
	}

	sess := &PlayerSession{
		UID:         uuid.NewString(),
		CharacterID: c.ID,
		CharName:    c.Name,
		State: &turn.State{
			Character: c,
			Shop:      s,
			Town:      t,
			Clock:     clock.New(),
		},
		LoggedInAt: time.Now().UTC(),
	}

	m.players[sess.UID] = sess
	m.addToTown(t.Name, sess.UID)
	return sess, nil
}

// Logout closes a session. Any pending event or haggling session is
// discarded without side effects.
//
// Precondition: uid must be non-empty.
// Postcondition: The session is removed from all tracking. Returns an error
// if not found.
func (m *Manager) Logout(uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.players[uid]
	if !exists {
		return fmt.Errorf("session %q not found", uid)
	}

	sess.State.ClearPending()
	// Presence may lag behind travel; scan rather than trust State.Town.
	for name, uids := range m.townSets {
		if uids[uid] {
			m.removeFromTown(name, uid)
			break
		}
	}
	delete(m.players, uid)
	return nil
}

// SyncTown refreshes town presence after the character traveled.
//
// Postcondition: Returns the previous town name, or an error if the session
// is not found.
func (m *Manager) SyncTown(uid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.players[uid]
	if !exists {
		return "", fmt.Errorf("session %q not found", uid)
	}

	newTown := sess.State.Town.Name
	old := ""
	for name, uids := range m.townSets {
		if uids[uid] {
			old = name
			break
		}
	}
	if old == newTown {
		return old, nil
	}
	if old != "" {
		m.removeFromTown(old, uid)
	}
	m.addToTown(newTown, uid)
	return old, nil
}

// PlayersInTown returns the character names of all players in the town.
//
// Postcondition: Returns a slice of character names (may be empty).
func (m *Manager) PlayersInTown(townName string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uids, ok := m.townSets[townName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(uids))
	for uid := range uids {
		if sess, ok := m.players[uid]; ok {
			names = append(names, sess.CharName)
		}
	}
	return names
}

// Get returns the session for the given UID.
//
// Postcondition: Returns (session, true) if found, or (nil, false).
func (m *Manager) Get(uid string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.players[uid]
	return sess, ok
}

// GetByCharName returns the session for the named character.
//
// Postcondition: Returns (session, true) if found, or (nil, false).
func (m *Manager) GetByCharName(charName string) (*PlayerSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sess := range m.players {
		if sess.CharName == charName {
			return sess, true
		}
	}
	return nil, false
}

// Count returns the total number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

func (m *Manager) addToTown(townName, uid string) {
	if m.townSets[townName] == nil {
		m.townSets[townName] = make(map[string]bool)
	}
	m.townSets[townName][uid] = true
}

func (m *Manager) removeFromTown(townName, uid string) {
	if uids, ok := m.townSets[townName]; ok {
		delete(uids, uid)
		if len(uids) == 0 {
			delete(m.townSets, townName)
		}
	}
}
