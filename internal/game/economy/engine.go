package economy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/shop"
)

// Sentinel errors for the economy's failure taxonomy.
var (
	ErrUnknownRecipe          = errors.New("unknown recipe")
	ErrUnknownItem            = errors.New("unknown item")
	ErrSpecializationMismatch = errors.New("recipe requires a different shop specialization")
	ErrMissingIngredients     = errors.New("missing ingredients")
	ErrInsufficientGold       = errors.New("insufficient gold")
	ErrShopFull               = errors.New("shop inventory is full")
	ErrNotInStock             = errors.New("item not in stock")
	ErrUnknownNPC             = errors.New("unknown townsperson")
)

// Config holds the economy tuning knobs.
type Config struct {
	// Markup multiplies prices when the character buys from the town market.
	Markup float64
	// Buyback is the fraction of value paid when selling to the town market.
	Buyback float64
	// CritSuccessChance bumps a craft's quality tier up one step.
	CritSuccessChance float64
	// CritFailureChance bumps it down one step.
	CritFailureChance float64
	// PatronageBaseChance is the per-hour base chance of an NPC visit.
	PatronageBaseChance float64
	// ReputationMultiplier converts shop reputation into patronage chance.
	ReputationMultiplier float64
	// ReputationChanceCap bounds the reputation contribution.
	ReputationChanceCap float64
}

// DefaultConfig returns the baseline tuning.
func DefaultConfig() Config {
	return Config{
		Markup:               1.2,
		Buyback:              0.6,
		CritSuccessChance:    0.05,
		CritFailureChance:    0.05,
		PatronageBaseChance:  0.05,
		ReputationMultiplier: 0.001,
		ReputationChanceCap:  0.2,
	}
}

// Engine performs crafting, market trade, patronage, and reputation logic.
type Engine struct {
	items   *item.Registry
	recipes *RecipeBook
	rules   *ruleset.Registry
	cfg     Config
	src     dice.Source
	logger  *zap.Logger
}

// NewEngine creates an economy engine.
//
// Precondition: items, recipes, rules, and src must be non-nil.
func NewEngine(items *item.Registry, recipes *RecipeBook, rules *ruleset.Registry, cfg Config, src dice.Source, logger *zap.Logger) *Engine {
	if items == nil || recipes == nil || rules == nil || src == nil {
		panic("economy: NewEngine requires non-nil items, recipes, rules, and src")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{items: items, recipes: recipes, rules: rules, cfg: cfg, src: src, logger: logger}
}

// CraftResult reports a completed craft.
type CraftResult struct {
	Recipe  string       `json:"recipe"`
	Output  string       `json:"output"`
	Quality item.Quality `json:"quality"`
	// Critical is "success", "failure", or empty for an ordinary roll.
	Critical string `json:"critical,omitempty"`
	XP       int    `json:"xp"`
}

// Craft validates and executes one craft of the named recipe: the shop must
// know the recipe and match any specialization gate, the character's
// inventory must cover the ingredients, and the produced quality comes from
// the recipe's craft-count curve (shop level adds a bonus to the effective
// count) with a critical roll bumping the tier one step either way. The
// recipe's craft counter increments exactly once regardless of the critical
// outcome.
//
// Postcondition: on error, character and shop are unchanged.
func (e *Engine) Craft(recipeName string, c *character.Character, s *shop.Shop) (CraftResult, error) {
	if recipeName == "" {
		return CraftResult{}, fmt.Errorf("%w: empty recipe name", ErrUnknownRecipe)
	}
	recipe, ok := e.recipes.Lookup(recipeName)
	if !ok {
		return CraftResult{}, fmt.Errorf("%w: %q", ErrUnknownRecipe, recipeName)
	}
	if recipe.Specialization != "" && recipe.Specialization != s.Specialization {
		return CraftResult{}, fmt.Errorf("%w: %q needs %q", ErrSpecializationMismatch, recipe.Name, recipe.Specialization)
	}
	for name, qty := range recipe.Ingredients {
		if c.Inventory.Count(name) < qty {
			return CraftResult{}, fmt.Errorf("%w: need %d %s", ErrMissingIngredients, qty, name)
		}
	}

	// Quality: craft-count curve, shop level bonus, then the critical roll.
	effective := s.CraftCount(recipe.Name) + s.QualityBonus()
	quality := recipe.TierFor(effective)
	critical := ""
	roll := dice.Percent(e.src)
	switch {
	case roll < e.cfg.CritSuccessChance:
		quality = quality.Shift(1)
		critical = "success"
	case roll >= 1-e.cfg.CritFailureChance:
		quality = quality.Shift(-1)
		critical = "failure"
	}

	output := recipe.OutputName()
	if !s.HasRoom(output, quality) {
		return CraftResult{}, fmt.Errorf("%w: no room for %s", ErrShopFull, output)
	}

	for name, qty := range recipe.Ingredients {
		// Counted above; Remove cannot fail here.
		c.Inventory.Remove(name, qty)
	}
	s.Inventory.Add(output, quality, 1)
	s.RecordCraft(recipe.Name)

	e.logger.Debug("crafted",
		zap.String("recipe", recipe.Name),
		zap.String("quality", string(quality)),
		zap.String("critical", critical),
	)
	return CraftResult{Recipe: recipe.Name, Output: output, Quality: quality, Critical: critical, XP: recipe.XP}, nil
}

// ListPrice returns the asking price for one unit of the given stack in the
// given town: base value × quality multiplier × town demand.
func (e *Engine) ListPrice(st item.Stack, demand float64) (int, error) {
	def, ok := e.items.Lookup(st.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, st.Name)
	}
	price := float64(def.BaseValue) * st.Quality.Multiplier() * demand
	if price < 1 {
		price = 1
	}
	return int(price), nil
}
