package town_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/town"
)

const sampleYAML = `
towns:
  - name: Everport
    region: coast
    description: A bustling harbor town.
    resources: [fish, timber]
    demand_modifiers:
      potion: 1.3
      weapon: 0.8
    npcs:
      - name: Harbormaster Quill
        occupation: harbormaster
        disposition: gruff
        wealth_tier: 4
      - name: Netta
        occupation: fishmonger
        disposition: friendly
        wealth_tier: 2
    travel_hours:
      Ashvale: 6
  - name: Ashvale
    region: foothills
    travel_hours:
      Everport: 6
`

func TestLoadFromBytes(t *testing.T) {
	towns, err := town.LoadFromBytes([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, towns, 2)

	ev := towns[0]
	assert.Equal(t, "Everport", ev.Name)
	assert.InDelta(t, 1.3, ev.DemandFor("potion"), 1e-9)
	assert.InDelta(t, 1.0, ev.DemandFor("tool"), 1e-9, "unlisted types default to 1.0")
	assert.Equal(t, 6, ev.TravelHours["Ashvale"])

	npc, ok := ev.NPCByName("Netta")
	require.True(t, ok)
	assert.Equal(t, "fishmonger", npc.Occupation)
}

func TestLoadFromBytes_RejectsBadDemand(t *testing.T) {
	_, err := town.LoadFromBytes([]byte(`
towns:
  - name: Brokentown
    demand_modifiers:
      potion: 0
`))
	assert.Error(t, err)
}

func TestLoadFromBytes_RejectsBadNPC(t *testing.T) {
	_, err := town.LoadFromBytes([]byte(`
towns:
  - name: Brokentown
    npcs:
      - name: Moneybags
        wealth_tier: 9
`))
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	towns, err := town.LoadFromBytes([]byte(sampleYAML))
	require.NoError(t, err)
	cat, err := town.NewCatalog(towns)
	require.NoError(t, err)

	_, ok := cat.Lookup("Everport")
	assert.True(t, ok)
	_, ok = cat.Lookup("Atlantis")
	assert.False(t, ok)
	assert.Equal(t, 2, cat.Len())
}

func TestActiveEvents(t *testing.T) {
	tn := &town.Town{Name: "Everport"}
	tn.AddActiveEvent("harvest festival")
	tn.AddActiveEvent("harvest festival")
	assert.Len(t, tn.ActiveEvents, 1)
	tn.ClearActiveEvents()
	assert.Empty(t, tn.ActiveEvents)
}
