package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
)

func testCatalog(t *testing.T) *town.Catalog {
	t.Helper()
	cat, err := town.NewCatalog([]*town.Town{
		{Name: "Ashford", TravelHours: map[string]int{"Briar Glen": 6}},
		{Name: "Briar Glen", TravelHours: map[string]int{"Ashford": 6}},
	})
	require.NoError(t, err)
	return cat
}

func testCharacter(t *testing.T, name, townName string) (*character.Character, *shop.Shop) {
	t.Helper()
	c := character.New(name, character.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 10, Wisdom: 10, Charisma: 10,
	}, "merchant", nil)
	c.TownName = townName
	s, err := shop.New(name, townName, shop.SpecGeneralGoods)
	require.NoError(t, err)
	return c, s
}

func TestManager_Login(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Ashford")

	sess, err := m.Login(c, s, cat)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.UID)
	assert.Equal(t, "Alice", sess.CharName)
	require.NotNil(t, sess.State)
	assert.Equal(t, "Ashford", sess.State.Town.Name)
	assert.Equal(t, 1, m.Count())
	assert.Contains(t, m.PlayersInTown("Ashford"), "Alice")
}

func TestManager_LoginTwice(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Ashford")

	_, err := m.Login(c, s, cat)
	require.NoError(t, err)
	_, err = m.Login(c, s, cat)
	assert.Error(t, err)
}

func TestManager_LoginUnknownTown(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Atlantis")

	_, err := m.Login(c, s, cat)
	assert.Error(t, err)
	assert.Zero(t, m.Count())
}

func TestManager_LogoutClearsPendingState(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Ashford")

	sess, err := m.Login(c, s, cat)
	require.NoError(t, err)
	sess.State.PendingEvent = "Broken Cartwheel"

	require.NoError(t, m.Logout(sess.UID))
	assert.False(t, sess.State.Suspended())
	assert.Zero(t, m.Count())
	assert.Empty(t, m.PlayersInTown("Ashford"))

	assert.Error(t, m.Logout(sess.UID))
}

func TestManager_SyncTownAfterTravel(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Ashford")

	sess, err := m.Login(c, s, cat)
	require.NoError(t, err)

	glen, ok := cat.Lookup("Briar Glen")
	require.True(t, ok)
	sess.State.Town = glen
	sess.State.Character.TownName = glen.Name

	old, err := m.SyncTown(sess.UID)
	require.NoError(t, err)
	assert.Equal(t, "Ashford", old)
	assert.Empty(t, m.PlayersInTown("Ashford"))
	assert.Contains(t, m.PlayersInTown("Briar Glen"), "Alice")
}

func TestManager_GetByCharName(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)
	c, s := testCharacter(t, "Alice", "Ashford")

	sess, err := m.Login(c, s, cat)
	require.NoError(t, err)

	found, ok := m.GetByCharName("Alice")
	require.True(t, ok)
	assert.Equal(t, sess.UID, found.UID)

	_, ok = m.GetByCharName("Bob")
	assert.False(t, ok)
}

func TestManager_ConcurrentLoginLogout(t *testing.T) {
	m := NewManager()
	cat := testCatalog(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c, s := testCharacter(t, fmt.Sprintf("Trader-%d", n), "Ashford")
			sess, err := m.Login(c, s, cat)
			if err != nil {
				return
			}
			_ = m.Logout(sess.UID)
		}(i)
	}
	wg.Wait()

	assert.Zero(t, m.Count())
	assert.Empty(t, m.PlayersInTown("Ashford"))
}
