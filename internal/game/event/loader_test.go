package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/event"
)

const sampleEventYAML = `
events:
  - name: Caravan in Distress
    description: A merchant caravan has thrown a wheel outside town.
    min_level: 1
    dc_scale: 0.5
    skill: crafting
    outcomes:
      success:
        message: You fix the wheel and earn their thanks.
        xp: 75
        gold: 20
      failure:
        message: The wheel is beyond you.
        xp: 10
    choices:
      - text: Repair the wheel
        skill: crafting
        base_dc: 13
        requirement:
          item: Traveling Toolkit
          effect: dc_reduction
          value: 3
  - name: Found Coin
    min_level: 1
    outcomes:
      success:
        message: A coin glints in the gutter.
        gold: 3
  - name: Guild Inspection
    min_level: 4
    outcomes:
      success:
        message: The inspector nods, satisfied.
      failure:
        message: A fine is levied.
        gold: -25
    choices:
      - text: Talk your way through
        skill: persuasion
        base_dc: 14
`

func TestLoadFromBytes(t *testing.T) {
	events, err := event.LoadFromBytes([]byte(sampleEventYAML))
	require.NoError(t, err)
	require.Len(t, events, 3)

	caravan := events[0]
	assert.Equal(t, "crafting", caravan.Skill)
	assert.InDelta(t, 0.5, caravan.DCScale, 1e-9)
	require.Len(t, caravan.Choices, 1)
	require.NotNil(t, caravan.Choices[0].Requirement)
	assert.Equal(t, event.RequirementDCReduction, caravan.Choices[0].Requirement.Effect)
}

func TestLoadFromBytes_RejectsUnknownOutcomeRef(t *testing.T) {
	_, err := event.LoadFromBytes([]byte(`
events:
  - name: Broken
    outcomes:
      success:
        message: fine
    choices:
      - text: do it
        skill: insight
        base_dc: 10
        failure_outcome: nonexistent
`))
	assert.Error(t, err)
}

func TestLoadFromBytes_RejectsBadRequirement(t *testing.T) {
	_, err := event.LoadFromBytes([]byte(`
events:
  - name: Broken
    outcomes:
      success: {message: ok}
      failure: {message: no}
    choices:
      - text: do it
        skill: insight
        base_dc: 10
        requirement:
          item: Rope
          effect: teleport
`))
	assert.Error(t, err)
}

func TestRegistry_PickForSkill(t *testing.T) {
	events, err := event.LoadFromBytes([]byte(sampleEventYAML))
	require.NoError(t, err)
	reg, err := event.NewRegistry(events)
	require.NoError(t, err)

	picked := reg.PickForSkill("crafting", 1, &seqSource{values: []int{0}})
	require.NotNil(t, picked)
	assert.Equal(t, "Caravan in Distress", picked.Name)

	assert.Nil(t, reg.PickForSkill("athletics", 1, &seqSource{values: []int{0}}))
}

func TestRegistry_PickGenericRespectsMinLevel(t *testing.T) {
	events, err := event.LoadFromBytes([]byte(sampleEventYAML))
	require.NoError(t, err)
	reg, err := event.NewRegistry(events)
	require.NoError(t, err)

	// Level 1 only qualifies for Found Coin; Guild Inspection needs level 4.
	for i := 0; i < 5; i++ {
		picked := reg.PickGeneric(1, &seqSource{values: []int{i}})
		require.NotNil(t, picked)
		assert.Equal(t, "Found Coin", picked.Name)
	}

	names := map[string]bool{}
	for i := 0; i < 2; i++ {
		picked := reg.PickGeneric(4, &seqSource{values: []int{i}})
		require.NotNil(t, picked)
		names[picked.Name] = true
	}
	assert.True(t, names["Guild Inspection"], "leveled characters see gated events")
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	ev := &event.Event{Name: "Twin", Outcomes: map[string]event.Outcome{"success": {}}}
	_, err := event.NewRegistry([]*event.Event{ev, ev})
	assert.Error(t, err)
}
