package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/character"
)

// fixedSource always yields the same die face.
type fixedSource struct{ face int }

func (f fixedSource) Intn(n int) int { return (f.face - 1) % n }

func TestShortRest_HealsRollPlusConMod(t *testing.T) {
	// CON 14 → +2. Die shows 5 → heals max(1, 5+2) = 7.
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Damage(9)
	require.Equal(t, 1, c.CurrentHP)

	res, err := c.ShortRest(1, fixedSource{face: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.DiceSpent)
	assert.Equal(t, []int{5}, res.Rolls)
	assert.Equal(t, 7, res.Healed)
	assert.Equal(t, 8, c.CurrentHP)
	assert.Equal(t, 0, c.HitDice)
}

func TestShortRest_NoHitDice(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.HitDice = 0
	_, err := c.ShortRest(1, fixedSource{face: 4})
	assert.Error(t, err)
}

func TestShortRest_SpendsAtMostAvailable(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Level = 3
	c.HitDice = 2
	c.MaxHP = 30
	c.Damage(29)

	res, err := c.ShortRest(5, fixedSource{face: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DiceSpent)
	assert.Equal(t, 0, c.HitDice)
}

func TestLongRest_Provisioned(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Level = 4
	c.MaxHP = 30
	c.HitDice = 1
	c.Damage(20)
	c.AddExhaustion(2)

	res := c.LongRest(true)
	assert.Equal(t, c.EffectiveMaxHP(), c.CurrentHP)
	assert.Equal(t, c.Level, c.HitDice)
	assert.Equal(t, 1, res.ExhaustionRemoved)
	assert.Equal(t, 1, c.Exhaustion, "exhaustion decreases by at most one per rest")
}

func TestLongRest_Unprovisioned(t *testing.T) {
	c := character.New("Maren", baseAbilities(), "", nil)
	c.Level = 4
	c.HitDice = 0
	c.AddExhaustion(1)

	res := c.LongRest(false)
	assert.Equal(t, 1, c.Exhaustion, "no exhaustion recovery without provisions")
	assert.Equal(t, 2, c.HitDice, "half the hit dice return")
	assert.Equal(t, 2, res.HitDiceRecovered)
}
