// Package item defines item definitions, quality tiers, and stacked
// inventory instances, plus the YAML content loader for the item catalog.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Type constants for Definition.Type.
const (
	TypeWeapon     = "weapon"
	TypeArmor      = "armor"
	TypePotion     = "potion"
	TypeIngredient = "ingredient"
	TypeTool       = "tool"
	TypeTrinket    = "trinket"
	TypeQuest      = "quest"
	TypeCurrency   = "currency"
)

// validTypes is the set of valid Definition types.
var validTypes = map[string]bool{
	TypeWeapon:     true,
	TypeArmor:      true,
	TypePotion:     true,
	TypeIngredient: true,
	TypeTool:       true,
	TypeTrinket:    true,
	TypeQuest:      true,
	TypeCurrency:   true,
}

// Effect keys understood by the engines. Effects carry an integer magnitude.
const (
	EffectHeal        = "heal"         // restores HP when consumed
	EffectReroll      = "reroll"       // grants one skill-check reroll
	EffectAutoSuccess = "auto_success" // bypasses a matching event check
	EffectDCReduction = "dc_reduction" // lowers a matching event check DC
)

// Definition is the immutable static description of an item.
type Definition struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	BaseValue  int            `yaml:"base_value"`
	Magical    bool           `yaml:"magical"`
	Attunement bool           `yaml:"attunement"`
	Consumable bool           `yaml:"consumable"`
	Effects    map[string]int `yaml:"effects"`
}

// Validate checks that the Definition satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *Definition) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validTypes[d.Type] {
		errs = append(errs, fmt.Errorf("type must be one of the known item types, got %q", d.Type))
	}
	if d.BaseValue < 0 {
		errs = append(errs, errors.New("base_value must be >= 0"))
	}
	if d.Attunement && !d.Magical {
		errs = append(errs, errors.New("attunement requires magical"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q validation failed: %v", d.Name, errs)
	}
	return nil
}

// HasEffect reports whether the definition carries the named effect,
// returning its magnitude when present.
func (d *Definition) HasEffect(key string) (int, bool) {
	v, ok := d.Effects[key]
	return v, ok
}

// Stack is a live inventory entry: a definition at a quality tier with a
// mutable quantity.
//
// Invariant: Quantity >= 0. A Stack at zero quantity is kept only for
// quest and currency items; all others are removed by their container.
type Stack struct {
	Name     string  `yaml:"name" json:"name"`
	Quality  Quality `yaml:"quality" json:"quality"`
	Quantity int     `yaml:"quantity" json:"quantity"`
}

// Value returns the gold value of a single unit at the stack's quality.
func (s Stack) Value(def *Definition) int {
	if def == nil {
		return 0
	}
	return int(float64(def.BaseValue) * s.Quality.Multiplier())
}

// yamlItemFile is the top-level YAML structure for item catalog files.
type yamlItemFile struct {
	Items []Definition `yaml:"items"`
}

// LoadDefinitions reads all *.yaml and *.yml files from dir, parses each as
// an item catalog, validates every entry, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Definitions or the first encountered error.
func LoadDefinitions(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadDefinitions: cannot read directory %q: %w", dir, err)
	}

	var defs []*Definition
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("LoadDefinitions: reading %q: %w", entry.Name(), err)
		}
		var file yamlItemFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("LoadDefinitions: parsing %q: %w", entry.Name(), err)
		}
		for i := range file.Items {
			def := file.Items[i]
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("LoadDefinitions: %q: %w", entry.Name(), err)
			}
			defs = append(defs, &def)
		}
	}
	return defs, nil
}
