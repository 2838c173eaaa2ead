package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/emporium/internal/game/dice"
)

// seqSource returns scripted values, cycling when exhausted.
type seqSource struct {
	values []int
	i      int
}

func (s *seqSource) Intn(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func TestD20_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 200; i++ {
		r := dice.D20(src)
		require.GreaterOrEqual(t, r.Kept, 1)
		require.LessOrEqual(t, r.Kept, 20)
		require.Len(t, r.Rolled, 1)
		require.False(t, r.Disadvantage)
	}
}

func TestD20Disadvantage_KeepsLower(t *testing.T) {
	// Intn(20) returns 13 then 2 → dice 14 and 3, keep 3.
	src := &seqSource{values: []int{13, 2}}
	r := dice.D20Disadvantage(src)
	assert.Equal(t, []int{14, 3}, r.Rolled)
	assert.Equal(t, 3, r.Kept)
	assert.True(t, r.Disadvantage)
	assert.Equal(t, "d20 [14 3] kept 3 (disadvantage)", r.String())
}

// TestD20Disadvantage_Property verifies Kept == min(Rolled) for arbitrary draws.
func TestD20Disadvantage_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 19).Draw(rt, "a")
		b := rapid.IntRange(0, 19).Draw(rt, "b")
		r := dice.D20Disadvantage(&seqSource{values: []int{a, b}})

		low := r.Rolled[0]
		if r.Rolled[1] < low {
			low = r.Rolled[1]
		}
		assert.Equal(rt, low, r.Kept, "disadvantage must keep the lower die")
	})
}

func TestDie_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := dice.Die(8, src)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 8)
	}
}

func TestDie_PanicsOnTinySides(t *testing.T) {
	assert.Panics(t, func() { dice.Die(1, dice.NewCryptoSource()) })
}

func TestPercent_Range(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 200; i++ {
		p := dice.Percent(src)
		require.GreaterOrEqual(t, p, 0.0)
		require.Less(t, p, 1.0)
	}
}
