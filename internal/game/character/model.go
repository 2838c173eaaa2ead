// Package character defines the shop-owner character model: stats, derived
// skills, hit points, exhaustion, experience, gold, inventory, faction
// standing, and the append-only journal.
package character

import (
	"time"

	"github.com/cory-johannsen/emporium/internal/game/item"
)

// MaxExhaustion is the exhaustion level at which a character dies.
const MaxExhaustion = 6

// AbilityScores holds the six base ability score values for a character.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Modifier returns the ability modifier for a given score: (score - 10) / 2.
func Modifier(score int) int {
	if score < 10 && (score-10)%2 != 0 {
		// Integer division truncates toward zero; ability modifiers round down.
		return (score-10)/2 - 1
	}
	return (score - 10) / 2
}

// Character represents a shop owner's persistent state.
//
// ID is set by the persistence layer; zero value indicates an unsaved character.
//
// Invariant: 0 <= CurrentHP <= EffectiveMaxHP().
// Invariant: 0 <= HitDice <= Level.
// Invariant: 0 <= Exhaustion <= MaxExhaustion.
type Character struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	Background string   `json:"background"`
	Feats      []string `json:"feats"`

	Level      int `json:"level"`
	Experience int `json:"experience"`
	// PendingXP accrues during a turn and is folded into Experience only by
	// CommitPendingXP, never implicitly.
	PendingXP int `json:"pending_xp"`

	Abilities AbilityScores `json:"abilities"`

	// BackgroundBonuses and FeatBonuses are per-skill flat bonuses resolved
	// from ruleset content at creation time.
	BackgroundBonuses map[string]int `json:"background_bonuses"`
	FeatBonuses       map[string]int `json:"feat_bonuses"`
	// AllocatedPoints are per-skill bonuses the player has spent level-up
	// points on.
	AllocatedPoints    map[string]int `json:"allocated_points"`
	UnspentSkillPoints int            `json:"unspent_skill_points"`

	MaxHP      int `json:"max_hp"`
	CurrentHP  int `json:"current_hp"`
	HitDice    int `json:"hit_dice"`
	Exhaustion int `json:"exhaustion"`

	Gold int `json:"gold"`

	Inventory Inventory `json:"inventory"`
	Attuned   []string  `json:"attuned"`

	// Reputations maps faction name to standing.
	Reputations map[string]int `json:"reputations"`

	Journal []JournalEntry `json:"journal"`

	TownName string `json:"town_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a level-1 character with the given name, abilities, and
// background-resolved skill bonuses.
//
// Postcondition: HP is full, hit dice equal level, exhaustion is zero.
func New(name string, abilities AbilityScores, background string, backgroundBonuses map[string]int) *Character {
	maxHP := 8 + Modifier(abilities.Constitution)
	if maxHP < 1 {
		maxHP = 1
	}
	c := &Character{
		Name:              name,
		Background:        background,
		Level:             1,
		Abilities:         abilities,
		BackgroundBonuses: backgroundBonuses,
		FeatBonuses:       make(map[string]int),
		AllocatedPoints:   make(map[string]int),
		MaxHP:             maxHP,
		CurrentHP:         maxHP,
		HitDice:           1,
		Reputations:       make(map[string]int),
	}
	if c.BackgroundBonuses == nil {
		c.BackgroundBonuses = make(map[string]int)
	}
	return c
}

// EffectiveMaxHP returns the maximum HP after exhaustion penalties.
// Exhaustion level 4 and above halves maximum hit points.
func (c *Character) EffectiveMaxHP() int {
	if c.Exhaustion >= 4 {
		half := c.MaxHP / 2
		if half < 1 {
			half = 1
		}
		return half
	}
	return c.MaxHP
}

// IsDead reports whether the character has died, either from damage or
// from reaching maximum exhaustion.
func (c *Character) IsDead() bool {
	return c.CurrentHP <= 0 || c.Exhaustion >= MaxExhaustion
}

// Heal raises CurrentHP by amount, clamped to EffectiveMaxHP.
//
// Precondition: amount >= 0.
// Postcondition: returns the HP actually recovered.
func (c *Character) Heal(amount int) int {
	if amount < 0 {
		return 0
	}
	before := c.CurrentHP
	c.CurrentHP += amount
	if max := c.EffectiveMaxHP(); c.CurrentHP > max {
		c.CurrentHP = max
	}
	return c.CurrentHP - before
}

// Damage lowers CurrentHP by amount, clamped at zero.
//
// Precondition: amount >= 0.
func (c *Character) Damage(amount int) {
	if amount < 0 {
		return
	}
	c.CurrentHP -= amount
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
}

// AddExhaustion raises the exhaustion level by levels, clamped to
// [0, MaxExhaustion]. Negative input lowers it. Raising exhaustion may
// lower EffectiveMaxHP; CurrentHP is re-clamped to keep the HP invariant.
func (c *Character) AddExhaustion(levels int) {
	c.Exhaustion += levels
	if c.Exhaustion < 0 {
		c.Exhaustion = 0
	}
	if c.Exhaustion > MaxExhaustion {
		c.Exhaustion = MaxExhaustion
	}
	if max := c.EffectiveMaxHP(); c.CurrentHP > max {
		c.CurrentHP = max
	}
}

// AddGold adjusts the character's gold by delta, which may be negative.
//
// Postcondition: gold never drops below zero; returns the applied delta.
func (c *Character) AddGold(delta int) int {
	before := c.Gold
	c.Gold += delta
	if c.Gold < 0 {
		c.Gold = 0
	}
	return c.Gold - before
}

// IsAttuned reports whether the character is attuned to the named item.
func (c *Character) IsAttuned(name string) bool {
	for _, a := range c.Attuned {
		if a == name {
			return true
		}
	}
	return false
}

// Attune records attunement to the named item. Idempotent.
func (c *Character) Attune(name string) {
	if !c.IsAttuned(name) {
		c.Attuned = append(c.Attuned, name)
	}
}

// AdjustReputation changes standing with the named faction by delta.
func (c *Character) AdjustReputation(faction string, delta int) {
	if c.Reputations == nil {
		c.Reputations = make(map[string]int)
	}
	c.Reputations[faction] += delta
}

// FindRerollConsumable returns the first inventory stack whose definition
// grants a reroll effect, or nil when the character carries none.
func (c *Character) FindRerollConsumable(reg *item.Registry) (*item.Stack, *item.Definition) {
	for i := range c.Inventory {
		st := &c.Inventory[i]
		if st.Quantity <= 0 {
			continue
		}
		def, ok := reg.Lookup(st.Name)
		if !ok {
			continue
		}
		if _, has := def.HasEffect(item.EffectReroll); has {
			return st, def
		}
	}
	return nil, nil
}
