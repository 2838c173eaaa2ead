// Package ruleset defines the static rules content consumed by the engine:
// character backgrounds, feats, and factions, with their YAML loaders.
package ruleset

import (
	"errors"
	"fmt"
)

// Background is a character origin granting flat skill bonuses and
// starting goods.
type Background struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	SkillBonuses  map[string]int `yaml:"skill_bonuses"`
	StartingGold  int            `yaml:"starting_gold"`
	StartingItems map[string]int `yaml:"starting_items"`
}

// Validate checks that the Background satisfies its invariants.
func (b *Background) Validate() error {
	var errs []error
	if b.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if b.StartingGold < 0 {
		errs = append(errs, errors.New("starting_gold must be >= 0"))
	}
	for skill, bonus := range b.SkillBonuses {
		if bonus < 0 {
			errs = append(errs, fmt.Errorf("skill bonus for %q must be >= 0", skill))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("background %q validation failed: %v", b.Name, errs)
	}
	return nil
}

// Feat is a purchasable character talent granting skill bonuses.
type Feat struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	SkillBonuses map[string]int `yaml:"skill_bonuses"`
	MinLevel     int            `yaml:"min_level"`
}

// Validate checks that the Feat satisfies its invariants.
func (f *Feat) Validate() error {
	if f.Name == "" {
		return errors.New("feat name must not be empty")
	}
	if f.MinLevel < 0 {
		return fmt.Errorf("feat %q: min_level must be >= 0", f.Name)
	}
	return nil
}

// Faction is a trading company or guild with a headquarters town.
type Faction struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// HQTown is the town hosting the faction's headquarters. Sales made
	// there of the faction's favored goods earn extra shop reputation.
	HQTown       string   `yaml:"hq_town"`
	FavoredGoods []string `yaml:"favored_goods"`
}

// Validate checks that the Faction satisfies its invariants.
func (f *Faction) Validate() error {
	if f.Name == "" {
		return errors.New("faction name must not be empty")
	}
	return nil
}
