package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/economy"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/item"
)

func TestPatronageChance_ReputationScenario(t *testing.T) {
	// Reputation 50, base 0.05, multiplier 0.001, cap 0.2 → 0.10.
	_, s := crafter(t)
	s.Reputation = 50
	eng := newEngine(t, &seqSource{values: []int{0}})
	assert.InDelta(t, 0.10, eng.PatronageChance(s), 1e-9)
}

func TestPatronageChance_CapAndBoost(t *testing.T) {
	_, s := crafter(t)
	s.Reputation = 1000 // far past the cap with MaxReputation raised for the test
	s.CustomerBoost = 0.07
	eng := newEngine(t, &seqSource{values: []int{0}})

	assert.InDelta(t, 0.05+0.2+0.07, eng.PatronageChance(s), 1e-9)
	assert.Zero(t, s.CustomerBoost, "the boost is consumed by the roll")
}

func TestRollPatronage_OpensSaleSession(t *testing.T) {
	_, s := crafter(t)
	s.Reputation = 100
	s.Inventory.Add("Minor Healing Potion", item.QualityCommon, 3)

	// Percent roll 0.0001 (hit), stack pick 0, NPC pick 0 (Quill, wealth 4),
	// offer pct draw 0 → 60+0+8 = 68%.
	eng := newEngine(t, &seqSource{values: []int{1, 0, 0, 0}})
	sess := eng.RollPatronage(s, everport())

	require.NotNil(t, sess)
	assert.Equal(t, haggle.DirectionSale, sess.Direction)
	assert.Equal(t, "Minor Healing Potion", sess.ItemName)
	assert.Equal(t, "Harbormaster Quill", sess.NPCName)
	// Asking: 20 × 1.5 demand = 30; initial 68% → 20.
	assert.Equal(t, 30, sess.TargetPrice)
	assert.Equal(t, 20, sess.CurrentOffer)
	assert.True(t, sess.CanStillHaggle)
}

func TestRollPatronage_MissedRoll(t *testing.T) {
	_, s := crafter(t)
	s.Inventory.Add("Minor Healing Potion", item.QualityCommon, 3)
	// Percent roll 0.99 → miss at any sane chance.
	eng := newEngine(t, &seqSource{values: []int{9900}})
	assert.Nil(t, eng.RollPatronage(s, everport()))
}

func TestRollPatronage_SkipsQuestGoods(t *testing.T) {
	_, s := crafter(t)
	s.Inventory.Add("Royal Writ", item.QualityCommon, 1)
	eng := newEngine(t, &seqSource{values: []int{0}})
	assert.Nil(t, eng.RollPatronage(s, everport()), "quest goods are never sold")
}

func TestRollPatronage_EmptyShop(t *testing.T) {
	_, s := crafter(t)
	eng := newEngine(t, &seqSource{values: []int{0}})
	assert.Nil(t, eng.RollPatronage(s, everport()))
}

func TestOpenPurchase_SellerOpensAboveFair(t *testing.T) {
	eng := newEngine(t, &seqSource{values: []int{0}})

	sess, err := eng.OpenPurchase("Minor Healing Potion", 1, "Harbormaster Quill", everport())
	require.NoError(t, err)
	assert.Equal(t, haggle.DirectionPurchase, sess.Direction)
	assert.Equal(t, "Harbormaster Quill", sess.NPCName)
	// Fair: 20 × 1.5 demand × 1.2 markup = 36; Quill (wealth 4) opens at 128%.
	assert.Equal(t, 36, sess.TargetPrice)
	assert.Equal(t, 46, sess.CurrentOffer)
	assert.True(t, sess.CanStillHaggle)
}

func TestOpenPurchase_UnknownNPC(t *testing.T) {
	eng := newEngine(t, &seqSource{values: []int{0}})
	_, err := eng.OpenPurchase("Minor Healing Potion", 1, "Nobody", everport())
	assert.ErrorIs(t, err, economy.ErrUnknownNPC)
}
