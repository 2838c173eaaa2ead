package shop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/shop"
)

func newShop(t *testing.T) *shop.Shop {
	t.Helper()
	s, err := shop.New("Maren", "Everport", shop.SpecAlchemy)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsUnknownSpecialization(t *testing.T) {
	_, err := shop.New("Maren", "Everport", "necromancy")
	assert.Error(t, err)
}

func TestUpgrade_SpendsGoldAndRaisesLevel(t *testing.T) {
	s := newShop(t)
	s.Gold = 300
	require.NoError(t, s.Upgrade())
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 50, s.Gold)
	assert.Equal(t, 18, s.Capacity())
	assert.Equal(t, 1, s.QualityBonus())
}

func TestUpgrade_InsufficientGold(t *testing.T) {
	s := newShop(t)
	s.Gold = 100
	err := s.Upgrade()
	assert.ErrorIs(t, err, shop.ErrUpgradeGold)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 100, s.Gold, "failed upgrade must not touch the till")
}

func TestMaxLevel_ClimbableFromTheBottom(t *testing.T) {
	s := newShop(t)
	s.Gold = 1000000
	for s.Level < shop.MaxLevel {
		require.NoError(t, s.Upgrade())
	}
	assert.Equal(t, shop.MaxLevel, s.Level)
	assert.Zero(t, s.Config().UpgradeCost, "the top level has no upgrade to buy")
}

func TestUpgrade_AtMaxLevel(t *testing.T) {
	s := newShop(t)
	s.Level = shop.MaxLevel
	s.Gold = 100000
	assert.ErrorIs(t, s.Upgrade(), shop.ErrMaxLevel)
	assert.Equal(t, shop.MaxLevel, s.Level)
}

func TestHasRoom(t *testing.T) {
	s := newShop(t)
	for i := 0; i < s.Capacity(); i++ {
		s.Inventory = append(s.Inventory, item.Stack{Name: "filler", Quality: item.QualityCommon, Quantity: 1})
	}
	assert.False(t, s.HasRoom("Lantern", item.QualityCommon))
	assert.True(t, s.HasRoom("filler", item.QualityCommon), "merging into an existing stack needs no room")
}

func TestRecordCraft(t *testing.T) {
	s := newShop(t)
	assert.Equal(t, 0, s.CraftCount("Minor Healing Potion"))
	s.RecordCraft("Minor Healing Potion")
	s.RecordCraft("Minor Healing Potion")
	assert.Equal(t, 2, s.CraftCount("Minor Healing Potion"))
}

func TestAddReputation_Bounded(t *testing.T) {
	s := newShop(t)
	s.AddReputation(150)
	assert.Equal(t, shop.MaxReputation, s.Reputation)
	s.AddReputation(-500)
	assert.Equal(t, 0, s.Reputation)
}

func TestConsumeCustomerBoost_ResetsToZero(t *testing.T) {
	s := newShop(t)
	s.CustomerBoost = 0.15
	assert.InDelta(t, 0.15, s.ConsumeCustomerBoost(), 1e-9)
	assert.Zero(t, s.CustomerBoost)
	assert.Zero(t, s.ConsumeCustomerBoost())
}
