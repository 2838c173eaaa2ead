package handlers

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIsRandomInput(t *testing.T) {
	for _, s := range []string{"", "  ", "r", "R", "random", "RANDOM", " random "} {
		assert.True(t, IsRandomInput(s), "input %q should read as random", s)
	}
	for _, s := range []string{"1", "cancel", "merchant", "rr"} {
		assert.False(t, IsRandomInput(s), "input %q should not read as random", s)
	}
}

func TestRollAbilityScores_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		scores := RollAbilityScores(rand.New(rand.NewSource(seed)))
		for name, v := range map[string]int{
			"strength":     scores.Strength,
			"dexterity":    scores.Dexterity,
			"constitution": scores.Constitution,
			"intelligence": scores.Intelligence,
			"wisdom":       scores.Wisdom,
			"charisma":     scores.Charisma,
		} {
			assert.GreaterOrEqual(rt, v, 3, "%s below the 3d6 floor", name)
			assert.LessOrEqual(rt, v, 18, "%s above the 3d6 ceiling", name)
		}
	})
}

func TestRollAbilityScores_Deterministic(t *testing.T) {
	a := RollAbilityScores(rand.New(rand.NewSource(7)))
	b := RollAbilityScores(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}
