// Package skillcheck resolves d20 skill checks against a difficulty class,
// applying exhaustion disadvantage and single-use reroll items.
package skillcheck

import (
	"fmt"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Attempt is one complete roll of a skill check.
type Attempt struct {
	Roll            dice.D20Result `json:"roll"`
	Modifier        int            `json:"modifier"`
	Total           int            `json:"total"`
	Success         bool           `json:"success"`
	CriticalHit     bool           `json:"critical_hit"`
	CriticalFailure bool           `json:"critical_failure"`
}

// Result is the full audit record of a skill check, including the original
// attempt when a reroll item was burned.
//
// CriticalHit and CriticalFailure are informational flags on natural 20/1;
// they never override the total-vs-DC success rule.
type Result struct {
	Skill            string `json:"skill"`
	DC               int    `json:"dc"`
	InvalidSkill     bool   `json:"invalid_skill,omitempty"`
	DisadvantageNote string `json:"disadvantage_note,omitempty"`

	// Final mirrors the attempt that drives Success: the reroll when one
	// happened, the original otherwise.
	Final    Attempt  `json:"final"`
	Original *Attempt `json:"original,omitempty"`

	RerollItem     string `json:"reroll_item,omitempty"`
	RerollConsumed bool   `json:"reroll_consumed,omitempty"`
}

// Success reports whether the check's final attempt met the DC.
func (r Result) Success() bool { return r.Final.Success }

// Engine performs skill checks for characters.
type Engine struct {
	items *item.Registry
	src   dice.Source
}

// NewEngine creates a skill check engine.
//
// Precondition: items and src must be non-nil.
func NewEngine(items *item.Registry, src dice.Source) *Engine {
	if items == nil || src == nil {
		panic("skillcheck: NewEngine requires non-nil items and src")
	}
	return &Engine{items: items, src: src}
}

// Check rolls the named skill against dc for the character. When the check
// fails and allowRerollItem is set, the first consumable reroll item in the
// character's inventory is spent to repeat the entire roll once; both
// outcomes are reported and the reroll drives the final result.
//
// An unknown skill name degrades to an automatic-failure record rather than
// an error, so bad content cannot crash a turn.
func (e *Engine) Check(skill string, dc int, c *character.Character, allowRerollItem bool) Result {
	res := Result{Skill: skill, DC: dc}

	score, ok := c.SkillScore(skill)
	if !ok {
		res.InvalidSkill = true
		res.DisadvantageNote = fmt.Sprintf("unknown skill %q: automatic failure", skill)
		return res
	}

	res.Final = e.attempt(score, dc, c)
	if c.Exhaustion >= 1 {
		res.DisadvantageNote = fmt.Sprintf("exhaustion level %d: rolled at disadvantage", c.Exhaustion)
	}

	if !res.Final.Success && allowRerollItem {
		stack, def := c.FindRerollConsumable(e.items)
		if stack != nil {
			if def.Consumable {
				c.Inventory.RemoveExact(stack.Name, stack.Quality, 1)
				res.RerollConsumed = true
			}
			res.RerollItem = def.Name
			original := res.Final
			res.Original = &original
			res.Final = e.attempt(score, dc, c)
		}
	}
	return res
}

// attempt performs one full roll: disadvantage at exhaustion >= 1.
func (e *Engine) attempt(modifier, dc int, c *character.Character) Attempt {
	var roll dice.D20Result
	if c.Exhaustion >= 1 {
		roll = dice.D20Disadvantage(e.src)
	} else {
		roll = dice.D20(e.src)
	}
	total := roll.Kept + modifier
	return Attempt{
		Roll:            roll,
		Modifier:        modifier,
		Total:           total,
		Success:         total >= dc,
		CriticalHit:     roll.Kept == 20,
		CriticalFailure: roll.Kept == 1,
	}
}
