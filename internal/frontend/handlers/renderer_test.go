package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/event"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
	"github.com/cory-johannsen/emporium/internal/game/turn"
)

func plain(s string) string { return telnet.StripANSI(s) }

func TestRenderResult_ActionComplete(t *testing.T) {
	r := &turn.Result{
		Kind:       turn.ActionComplete,
		Message:    "You hammer out an Iron Dagger.",
		HoursSpent: 2,
	}
	out := plain(RenderResult(r))
	assert.Contains(t, out, "You hammer out an Iron Dagger.")
	assert.Contains(t, out, "(2 hour(s) pass)")
}

func TestRenderResult_ActionFailed(t *testing.T) {
	r := &turn.Result{
		Kind:        turn.ActionFailed,
		FailureKind: turn.FailInsufficientResource,
		Reason:      "not enough gold",
	}
	out := plain(RenderResult(r))
	assert.Contains(t, out, "not enough gold")
	assert.NotContains(t, out, "hour(s) pass")
}

func TestRenderResult_EventPending(t *testing.T) {
	r := &turn.Result{
		Kind:      turn.EventPending,
		EventName: "Broken Cartwheel",
		Choices: []event.PresentedChoice{
			{Index: 0, Text: "Heave it upright", Skill: "athletics", DC: 10},
			{Index: 1, Text: "Walk on by"},
		},
	}
	out := plain(RenderResult(r))
	assert.Contains(t, out, "** Broken Cartwheel **")
	assert.Contains(t, out, "1. Heave it upright [athletics DC 10]")
	assert.Contains(t, out, "2. Walk on by")
	assert.Contains(t, out, "choose <number>")
}

func TestRenderResult_HagglingPending(t *testing.T) {
	sess := haggle.NewSale("Iron Dagger", item.QualityCommon, 1, "Dora", "friendly", 8, 12)
	r := &turn.Result{Kind: turn.HagglingPending, Session: sess}
	out := plain(RenderResult(r))
	assert.Contains(t, out, "Dora (friendly) offers 8 gold for 1 Iron Dagger.")
	assert.Contains(t, out, "Round 1 of 3")
	assert.Contains(t, out, "'accept', 'persuade', or 'decline'")
}

func TestRenderHaggleOffer_NoMoreRounds(t *testing.T) {
	sess := haggle.NewSale("Iron Dagger", item.QualityCommon, 1, "Dora", "gruff", 8, 12)
	sess.CanStillHaggle = false
	out := plain(RenderHaggleOffer(sess))
	assert.Contains(t, out, "won't budge")
}

func TestRenderHaggleOffer_NilSession(t *testing.T) {
	assert.Empty(t, RenderHaggleOffer(nil))
}

func TestRenderCharacterSheet(t *testing.T) {
	c := character.New("Tam", character.AbilityScores{
		Strength: 14, Dexterity: 12, Constitution: 10,
		Intelligence: 10, Wisdom: 8, Charisma: 13,
	}, "merchant", nil)
	c.Gold = 42
	c.Reputations = map[string]int{"Merchant Guild": 3}

	out := plain(RenderCharacterSheet(c))
	assert.Contains(t, out, "Tam — level 1 merchant")
	assert.Contains(t, out, "Gold 42")
	assert.Contains(t, out, "STR 14")
	assert.Contains(t, out, "Merchant Guild +3")
	assert.NotContains(t, out, "worked yourself to death")
}

func TestRenderCharacterSheet_Dead(t *testing.T) {
	c := character.New("Tam", character.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 10, Wisdom: 10, Charisma: 10,
	}, "merchant", nil)
	c.Exhaustion = character.MaxExhaustion

	out := plain(RenderCharacterSheet(c))
	assert.Contains(t, out, "worked yourself to death")
}

func TestRenderShop(t *testing.T) {
	s, err := shop.New("Tam", "Ashford", shop.SpecSmithing)
	assert.NoError(t, err)
	s.Gold = 75
	s.Inventory.Add("Iron Dagger", item.QualityCommon, 2)

	out := plain(RenderShop(s))
	assert.Contains(t, out, "Tam's smithing shop (Ashford)")
	assert.Contains(t, out, "Till 75 gold")
	assert.Contains(t, out, "Iron Dagger")
	assert.Contains(t, out, "x2")
}

func TestRenderInventory_Empty(t *testing.T) {
	out := plain(RenderInventory(nil))
	assert.Contains(t, out, "(nothing)")
}

func TestRenderJournal(t *testing.T) {
	c := character.New("Tam", character.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 10, Wisdom: 10, Charisma: 10,
	}, "merchant", nil)
	for i := 0; i < 5; i++ {
		c.AppendJournal(1, 8+i, character.JournalSystem, "tick", nil, "")
	}

	out := plain(RenderJournal(c.Journal, 3))
	// Only the three newest entries appear.
	assert.NotContains(t, out, "day 1 08:00")
	assert.NotContains(t, out, "day 1 09:00")
	assert.Contains(t, out, "day 1 10:00")
	assert.Contains(t, out, "day 1 12:00")
}

func TestRenderJournal_Empty(t *testing.T) {
	out := plain(RenderJournal(nil, 10))
	assert.Contains(t, out, "The journal is blank.")
}

func TestRenderTown(t *testing.T) {
	rules, err := ruleset.NewRegistry(nil, nil, []*ruleset.Faction{
		{Name: "Merchant Guild", HQTown: "Ashford"},
	})
	assert.NoError(t, err)

	tn := &town.Town{
		Name:         "Ashford",
		Description:  "A market town on the river.",
		Resources:    []string{"Iron Ore"},
		NPCs:         []town.NPC{{Name: "Dora", Occupation: "merchant", Disposition: "friendly", WealthTier: 3}},
		TravelHours:  map[string]int{"Briar Glen": 6},
		ActiveEvents: []string{"Harvest Festival"},
	}

	out := plain(RenderTown(tn, rules))
	assert.Contains(t, out, "Ashford")
	assert.Contains(t, out, "Iron Ore")
	assert.Contains(t, out, "Dora (merchant)")
	assert.Contains(t, out, "Merchant Guild")
	assert.Contains(t, out, "Harvest Festival")
	assert.Contains(t, out, "Briar Glen (6h)")
}

func TestRenderActions(t *testing.T) {
	out := plain(RenderActions(turn.DefaultRegistry().Actions()))
	assert.Contains(t, out, "craft")
	assert.Contains(t, out, "(make)")
	assert.Contains(t, out, "[crafting]")
	assert.Contains(t, out, "travel")
}
