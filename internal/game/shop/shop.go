// Package shop defines the player's shop: inventory, till, level,
// specialization, crafting experience, and reputation.
package shop

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Specializations a shop may declare.
const (
	SpecAlchemy      = "alchemy"
	SpecSmithing     = "smithing"
	SpecTailoring    = "tailoring"
	SpecWoodworking  = "woodworking"
	SpecEnchanting   = "enchanting"
	SpecGeneralGoods = "general goods"
)

// validSpecializations is the set of recognized trade focuses.
var validSpecializations = map[string]bool{
	SpecAlchemy:      true,
	SpecSmithing:     true,
	SpecTailoring:    true,
	SpecWoodworking:  true,
	SpecEnchanting:   true,
	SpecGeneralGoods: true,
}

// Specializations returns the recognized trade focuses sorted alphabetically.
func Specializations() []string {
	out := make([]string, 0, len(validSpecializations))
	for s := range validSpecializations {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ValidSpecialization reports whether s is a recognized trade focus.
func ValidSpecialization(s string) bool {
	return validSpecializations[s]
}

// MaxReputation caps the shop reputation score.
const MaxReputation = 100

// LevelConfig is the per-level shop configuration.
type LevelConfig struct {
	Capacity     int // inventory stack capacity at this level
	QualityBonus int // additive bonus to effective craft count
	UpgradeCost  int // gold to advance from this level to the next
}

// levelTable holds the fixed per-level configuration. Index 0 is level 1.
var levelTable = []LevelConfig{
	{Capacity: 12, QualityBonus: 0, UpgradeCost: 250},
	{Capacity: 18, QualityBonus: 1, UpgradeCost: 600},
	{Capacity: 26, QualityBonus: 2, UpgradeCost: 1500},
	{Capacity: 36, QualityBonus: 3, UpgradeCost: 4000},
	{Capacity: 50, QualityBonus: 5, UpgradeCost: 0}, // max level
}

// MaxLevel is the highest shop level.
var MaxLevel = len(levelTable)

// Shop is the player's storefront in a town.
//
// Invariant: 1 <= Level <= MaxLevel; 0 <= Reputation <= MaxReputation;
// len(Inventory) <= Capacity().
type Shop struct {
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	TownName string `json:"town_name"`

	Gold           int                 `json:"gold"`
	Level          int                 `json:"level"`
	Specialization string              `json:"specialization"`
	Inventory      character.Inventory `json:"inventory"`

	// CraftCounts tracks how many times each recipe has been crafted;
	// it drives the quality-tier-by-volume lookup.
	CraftCounts map[string]int `json:"craft_counts"`

	Reputation int `json:"reputation"`

	// CustomerBoost is a transient one-turn addition to the NPC patronage
	// chance. It is consumed, win or lose, by the next patronage roll.
	CustomerBoost float64 `json:"customer_boost"`
}

// New creates a level-1 shop for the given owner in the given town.
//
// Precondition: specialization must be a recognized trade focus.
func New(owner, townName, specialization string) (*Shop, error) {
	if !ValidSpecialization(specialization) {
		return nil, fmt.Errorf("unknown specialization %q", specialization)
	}
	return &Shop{
		Owner:          owner,
		TownName:       townName,
		Level:          1,
		Specialization: specialization,
		CraftCounts:    make(map[string]int),
	}, nil
}

// Config returns the configuration for the shop's current level.
func (s *Shop) Config() LevelConfig {
	lvl := s.Level
	if lvl < 1 {
		lvl = 1
	}
	if lvl > MaxLevel {
		lvl = MaxLevel
	}
	return levelTable[lvl-1]
}

// Capacity returns the inventory stack capacity at the current level.
func (s *Shop) Capacity() int {
	return s.Config().Capacity
}

// QualityBonus returns the additive craft-count bonus at the current level.
func (s *Shop) QualityBonus() int {
	return s.Config().QualityBonus
}

// HasRoom reports whether another distinct stack fits in the shop.
// Merging into an existing (name, quality) stack never needs room.
func (s *Shop) HasRoom(name string, quality item.Quality) bool {
	if s.Inventory.Find(name, quality) != nil {
		return true
	}
	return len(s.Inventory) < s.Capacity()
}

// ErrMaxLevel is returned by Upgrade at the level cap.
var ErrMaxLevel = errors.New("shop is already at maximum level")

// ErrUpgradeGold is returned by Upgrade when the till cannot cover the cost.
var ErrUpgradeGold = errors.New("insufficient gold for shop upgrade")

// Upgrade spends the current level's upgrade cost from the till and raises
// the shop level by one.
//
// Postcondition: on error the shop is unchanged.
func (s *Shop) Upgrade() error {
	if s.Level >= MaxLevel {
		return ErrMaxLevel
	}
	cost := s.Config().UpgradeCost
	if s.Gold < cost {
		return fmt.Errorf("%w: need %d, have %d", ErrUpgradeGold, cost, s.Gold)
	}
	s.Gold -= cost
	s.Level++
	return nil
}

// CraftCount returns how many times the named recipe has been crafted.
func (s *Shop) CraftCount(recipe string) int {
	return s.CraftCounts[recipe]
}

// RecordCraft increments the recipe's craft-experience counter by one.
func (s *Shop) RecordCraft(recipe string) {
	if s.CraftCounts == nil {
		s.CraftCounts = make(map[string]int)
	}
	s.CraftCounts[recipe]++
}

// AddReputation raises the reputation score, capped at MaxReputation.
// Negative deltas lower it, floored at zero.
func (s *Shop) AddReputation(delta int) {
	s.Reputation += delta
	if s.Reputation > MaxReputation {
		s.Reputation = MaxReputation
	}
	if s.Reputation < 0 {
		s.Reputation = 0
	}
}

// ConsumeCustomerBoost returns the transient patronage boost and resets it.
func (s *Shop) ConsumeCustomerBoost() float64 {
	boost := s.CustomerBoost
	s.CustomerBoost = 0
	return boost
}
