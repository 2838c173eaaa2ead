package character

import (
	"fmt"

	"github.com/cory-johannsen/emporium/internal/game/dice"
)

// ShortRestResult reports what a short rest recovered.
type ShortRestResult struct {
	DiceSpent int
	Rolls     []int
	Healed    int
}

// ShortRest spends up to diceToSpend hit dice, healing max(1, roll + CON
// modifier) per die.
//
// Precondition: diceToSpend > 0; src must be non-nil.
// Postcondition: HitDice decreases by the number of dice actually spent;
// returns an error when no hit dice remain.
func (c *Character) ShortRest(diceToSpend int, src dice.Source) (ShortRestResult, error) {
	if diceToSpend <= 0 {
		return ShortRestResult{}, fmt.Errorf("must spend at least one hit die")
	}
	if c.HitDice <= 0 {
		return ShortRestResult{}, fmt.Errorf("no hit dice remaining")
	}
	if diceToSpend > c.HitDice {
		diceToSpend = c.HitDice
	}

	conMod := Modifier(c.Abilities.Constitution)
	var res ShortRestResult
	for i := 0; i < diceToSpend; i++ {
		roll := dice.Die(8, src)
		healed := roll + conMod
		if healed < 1 {
			healed = 1
		}
		res.Rolls = append(res.Rolls, roll)
		res.Healed += c.Heal(healed)
		res.DiceSpent++
		c.HitDice--
	}
	return res, nil
}

// LongRestResult reports what a long rest recovered.
type LongRestResult struct {
	Healed            int
	HitDiceRecovered  int
	ExhaustionRemoved int
	Provisioned       bool
}

// LongRest completes a full night's rest. With food and drink available the
// character wakes at full effective HP with all hit dice, and exhaustion
// drops by one level. Without provisions the body recovers but the
// exhaustion remains, and only half the hit dice (minimum one) return.
func (c *Character) LongRest(provisioned bool) LongRestResult {
	var res LongRestResult
	res.Provisioned = provisioned

	if provisioned && c.Exhaustion > 0 {
		c.AddExhaustion(-1)
		res.ExhaustionRemoved = 1
	}

	res.Healed = c.Heal(c.EffectiveMaxHP() - c.CurrentHP)

	target := c.Level
	if !provisioned {
		target = c.HitDice + (c.Level / 2)
		if target < c.HitDice+1 {
			target = c.HitDice + 1
		}
		if target > c.Level {
			target = c.Level
		}
	}
	if target > c.HitDice {
		res.HitDiceRecovered = target - c.HitDice
		c.HitDice = target
	}
	return res
}
