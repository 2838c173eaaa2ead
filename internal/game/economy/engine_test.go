package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/economy"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/shop"
)

type seqSource struct {
	values []int
	i      int
}

func (s *seqSource) Intn(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func testItems(t *testing.T) *item.Registry {
	t.Helper()
	reg, err := item.NewRegistry([]*item.Definition{
		{Name: "Minor Healing Potion", Type: item.TypePotion, BaseValue: 20, Consumable: true, Effects: map[string]int{item.EffectHeal: 5}},
		{Name: "Silverleaf", Type: item.TypeIngredient, BaseValue: 3},
		{Name: "Spring Water", Type: item.TypeIngredient, BaseValue: 1},
		{Name: "Silver Lantern", Type: item.TypeTool, BaseValue: 40},
		{Name: "Royal Writ", Type: item.TypeQuest, BaseValue: 0},
	})
	require.NoError(t, err)
	return reg
}

func testRules(t *testing.T) *ruleset.Registry {
	t.Helper()
	rules, err := ruleset.NewRegistry(nil, nil, []*ruleset.Faction{
		{Name: "Gilded Compass", HQTown: "Everport", FavoredGoods: []string{item.TypeTool}},
	})
	require.NoError(t, err)
	return rules
}

func potionRecipe() *economy.Recipe {
	return &economy.Recipe{
		Name:           "Minor Healing Potion",
		Ingredients:    map[string]int{"Silverleaf": 2, "Spring Water": 1},
		Specialization: shop.SpecAlchemy,
		QualityThresholds: []economy.QualityThreshold{
			{Count: 0, Quality: item.QualityCommon},
			{Count: 6, Quality: item.QualityUncommon},
		},
		XP: 15,
	}
}

func newEngine(t *testing.T, src *seqSource) *economy.Engine {
	t.Helper()
	book, err := economy.NewRecipeBook([]*economy.Recipe{potionRecipe()})
	require.NoError(t, err)
	return economy.NewEngine(testItems(t), book, testRules(t), economy.DefaultConfig(), src, nil)
}

func crafter(t *testing.T) (*character.Character, *shop.Shop) {
	t.Helper()
	c := character.New("Maren", character.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10,
		Intelligence: 14, Wisdom: 10, Charisma: 10,
	}, "", nil)
	c.Inventory.Add("Silverleaf", item.QualityCommon, 10)
	c.Inventory.Add("Spring Water", item.QualityCommon, 10)
	s, err := shop.New("Maren", "Everport", shop.SpecAlchemy)
	require.NoError(t, err)
	return c, s
}

func TestCraft_ProducesCommonBelowThreshold(t *testing.T) {
	// Counter at 4, no level bonus, non-critical roll (0.50).
	c, s := crafter(t)
	s.CraftCounts["Minor Healing Potion"] = 4

	eng := newEngine(t, &seqSource{values: []int{5000}})
	res, err := eng.Craft("Minor Healing Potion", c, s)
	require.NoError(t, err)

	assert.Equal(t, item.QualityCommon, res.Quality)
	assert.Empty(t, res.Critical)
	assert.Equal(t, 5, s.CraftCount("Minor Healing Potion"), "counter increments exactly once")
	assert.Equal(t, 8, c.Inventory.Count("Silverleaf"), "ingredients consumed")
	assert.Equal(t, 9, c.Inventory.Count("Spring Water"))
	assert.Equal(t, 1, s.Inventory.Count("Minor Healing Potion"))
	assert.Equal(t, 15, res.XP)
}

func TestCraft_LevelBonusReachesUncommon(t *testing.T) {
	// Counter 5 + level-2 quality bonus 1 → effective 6 → Uncommon.
	c, s := crafter(t)
	s.Level = 2
	s.CraftCounts["Minor Healing Potion"] = 5

	eng := newEngine(t, &seqSource{values: []int{5000}})
	res, err := eng.Craft("Minor Healing Potion", c, s)
	require.NoError(t, err)
	assert.Equal(t, item.QualityUncommon, res.Quality)
}

func TestCraft_CriticalSuccessBumpsTier(t *testing.T) {
	c, s := crafter(t)
	// Percent roll 0.001 < 0.05 → critical success.
	eng := newEngine(t, &seqSource{values: []int{10}})
	res, err := eng.Craft("Minor Healing Potion", c, s)
	require.NoError(t, err)
	assert.Equal(t, "success", res.Critical)
	assert.Equal(t, item.QualityUncommon, res.Quality, "one step above the curve tier")
	assert.Equal(t, 1, s.CraftCount("Minor Healing Potion"), "criticals do not change the counter")
}

func TestCraft_CriticalFailureDropsTier(t *testing.T) {
	c, s := crafter(t)
	// Percent roll 0.97 >= 0.95 → critical failure.
	eng := newEngine(t, &seqSource{values: []int{9700}})
	res, err := eng.Craft("Minor Healing Potion", c, s)
	require.NoError(t, err)
	assert.Equal(t, "failure", res.Critical)
	assert.Equal(t, item.QualityPoor, res.Quality)
}

func TestCraft_UnknownRecipe(t *testing.T) {
	c, s := crafter(t)
	eng := newEngine(t, &seqSource{values: []int{5000}})
	_, err := eng.Craft("Philosopher's Stone", c, s)
	assert.ErrorIs(t, err, economy.ErrUnknownRecipe)
	_, err = eng.Craft("", c, s)
	assert.ErrorIs(t, err, economy.ErrUnknownRecipe)
}

func TestCraft_SpecializationGate(t *testing.T) {
	c, _ := crafter(t)
	smithy, err := shop.New("Maren", "Everport", shop.SpecSmithing)
	require.NoError(t, err)

	eng := newEngine(t, &seqSource{values: []int{5000}})
	_, err = eng.Craft("Minor Healing Potion", c, smithy)
	assert.ErrorIs(t, err, economy.ErrSpecializationMismatch)
	assert.Equal(t, 10, c.Inventory.Count("Silverleaf"), "failed craft must not consume")
}

func TestCraft_MissingIngredients(t *testing.T) {
	c, s := crafter(t)
	c.Inventory.Remove("Silverleaf", 9)

	eng := newEngine(t, &seqSource{values: []int{5000}})
	_, err := eng.Craft("Minor Healing Potion", c, s)
	assert.ErrorIs(t, err, economy.ErrMissingIngredients)
	assert.Equal(t, 1, c.Inventory.Count("Silverleaf"))
	assert.Equal(t, 0, s.CraftCount("Minor Healing Potion"))
}

func TestRecipe_TierFor(t *testing.T) {
	r := potionRecipe()
	assert.Equal(t, item.QualityCommon, r.TierFor(0))
	assert.Equal(t, item.QualityCommon, r.TierFor(5))
	assert.Equal(t, item.QualityUncommon, r.TierFor(6))
	assert.Equal(t, item.QualityUncommon, r.TierFor(100))
}

func TestLoadRecipesFromBytes(t *testing.T) {
	recipes, err := economy.LoadRecipesFromBytes([]byte(`
recipes:
  - name: Minor Healing Potion
    ingredients:
      Silverleaf: 2
      Spring Water: 1
    specialization: alchemy
    xp: 15
    quality_thresholds:
      - {count: 0, quality: common}
      - {count: 6, quality: uncommon}
`))
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 2, recipes[0].Ingredients["Silverleaf"])
	assert.Equal(t, shop.SpecAlchemy, recipes[0].Specialization)
}

func TestLoadRecipesFromBytes_RejectsBadThresholds(t *testing.T) {
	_, err := economy.LoadRecipesFromBytes([]byte(`
recipes:
  - name: Broken Brew
    ingredients:
      Silverleaf: 1
    quality_thresholds:
      - {count: 6, quality: uncommon}
      - {count: 2, quality: common}
`))
	assert.Error(t, err)
}
