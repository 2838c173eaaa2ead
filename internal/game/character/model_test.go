package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/item"
)

func baseAbilities() character.AbilityScores {
	return character.AbilityScores{
		Strength: 10, Dexterity: 12, Constitution: 14,
		Intelligence: 13, Wisdom: 10, Charisma: 15,
	}
}

func TestModifier(t *testing.T) {
	cases := map[int]int{3: -4, 8: -1, 9: -1, 10: 0, 11: 0, 12: 1, 14: 2, 15: 2, 20: 5}
	for score, want := range cases {
		assert.Equal(t, want, character.Modifier(score), "score %d", score)
	}
}

func TestNew_Level1Invariants(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "guild artisan", map[string]int{"crafting": 2})
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 10, c.MaxHP) // 8 + CON mod 2
	assert.Equal(t, c.MaxHP, c.CurrentHP)
	assert.Equal(t, 1, c.HitDice)
	assert.Equal(t, 0, c.Exhaustion)
}

func TestEffectiveMaxHP_HalvedAtExhaustion4(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	require.Equal(t, 10, c.EffectiveMaxHP())
	c.AddExhaustion(4)
	assert.Equal(t, 5, c.EffectiveMaxHP())
	assert.LessOrEqual(t, c.CurrentHP, c.EffectiveMaxHP(), "HP invariant must be re-clamped")
}

func TestAddExhaustion_DeathAtSix(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.AddExhaustion(6)
	assert.True(t, c.IsDead())
	c.AddExhaustion(3)
	assert.Equal(t, character.MaxExhaustion, c.Exhaustion)
}

func TestHealAndDamage_Clamped(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Damage(25)
	assert.Equal(t, 0, c.CurrentHP)
	assert.True(t, c.IsDead())
	healed := c.Heal(100)
	assert.Equal(t, c.EffectiveMaxHP(), c.CurrentHP)
	assert.Equal(t, c.EffectiveMaxHP(), healed)
}

func TestAddGold_NeverNegative(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Gold = 10
	applied := c.AddGold(-25)
	assert.Equal(t, 0, c.Gold)
	assert.Equal(t, -10, applied)
}

func TestSkillScore_Derivation(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "merchant", map[string]int{"persuasion": 2})
	c.FeatBonuses["persuasion"] = 1
	c.AllocatedPoints["persuasion"] = 1

	// CHA 15 → +2, background +2, feat +1, allocated +1.
	score, ok := c.SkillScore("persuasion")
	require.True(t, ok)
	assert.Equal(t, 6, score)

	_, ok = c.SkillScore("basket weaving")
	assert.False(t, ok)
}

func TestAllocateSkillPoint(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.UnspentSkillPoints = 1
	assert.True(t, c.AllocateSkillPoint("insight"))
	assert.False(t, c.AllocateSkillPoint("insight"), "no points left")
	assert.False(t, c.AllocateSkillPoint("nonsense"))
	score, _ := c.SkillScore("insight")
	assert.Equal(t, 1, score)
}

func TestInventory_AddRemove(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Inventory.Add("Iron Ingot", item.QualityCommon, 3)
	c.Inventory.Add("Iron Ingot", item.QualityCommon, 2)
	c.Inventory.Add("Iron Ingot", item.QualityRare, 1)

	assert.Equal(t, 6, c.Inventory.Count("Iron Ingot"))
	require.True(t, c.Inventory.Remove("Iron Ingot", 5))
	assert.Equal(t, 1, c.Inventory.Count("Iron Ingot"))
	assert.False(t, c.Inventory.Remove("Iron Ingot", 2), "insufficient quantity must not mutate")
	assert.Equal(t, 1, c.Inventory.Count("Iron Ingot"))
}

func TestInventory_RemovePrefersLowerQuality(t *testing.T) {
	inv := character.Inventory{}
	inv.Add("Dagger", item.QualityCommon, 1)
	inv.Add("Dagger", item.QualityRare, 1)
	require.True(t, inv.Remove("Dagger", 1))
	require.NotNil(t, inv.Find("Dagger", item.QualityRare))
	assert.Nil(t, inv.Find("Dagger", item.QualityCommon))
}

// TestInventory_CountNeverNegative exercises arbitrary add/remove sequences.
func TestInventory_CountNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inv := character.Inventory{}
		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			qty := rapid.IntRange(1, 5).Draw(rt, "qty")
			if rapid.Bool().Draw(rt, "add") {
				inv.Add("Wool", item.QualityCommon, qty)
			} else {
				inv.Remove("Wool", qty)
			}
			assert.GreaterOrEqual(rt, inv.Count("Wool"), 0)
		}
	})
}

func TestAwardXP_PendingOnly(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.AwardXP(250)
	assert.Equal(t, 250, c.PendingXP)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 1, c.Level, "level must not change before commit")
}

func TestCommitPendingXP_LevelUp(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.AwardXP(350)
	gained := c.CommitPendingXP()
	assert.Equal(t, 1, gained)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 0, c.PendingXP)
	assert.Equal(t, 350, c.Experience)
	assert.Equal(t, 2, c.HitDice)
	assert.Equal(t, 2, c.UnspentSkillPoints)
}

func TestCommitPendingXP_MultiLevel(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.AwardXP(1000) // past level 3 threshold (900)
	gained := c.CommitPendingXP()
	assert.Equal(t, 2, gained)
	assert.Equal(t, 3, c.Level)
}

func TestAwardXP_NegativeClampsPending(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.AwardXP(50)
	c.AwardXP(-80)
	assert.Equal(t, 0, c.PendingXP)
}

func TestAppendJournal(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	entry := c.AppendJournal(3, 14, character.JournalTrade, "Sold a lantern", map[string]any{"gold": 12}, "success")
	require.Len(t, c.Journal, 1)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 3, entry.Day)
	assert.Equal(t, character.JournalTrade, entry.Category)
}

func TestAttune_Idempotent(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Attune("Merchant's Ring")
	c.Attune("Merchant's Ring")
	assert.Len(t, c.Attuned, 1)
	assert.True(t, c.IsAttuned("Merchant's Ring"))
}
