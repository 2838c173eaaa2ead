// Package economy implements the shop economy: crafting, market trade,
// NPC patronage, and reputation.
package economy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/emporium/internal/game/item"
)

// QualityThreshold maps a cumulative craft count to the quality tier
// produced once that count is reached.
type QualityThreshold struct {
	Count   int          `yaml:"count"`
	Quality item.Quality `yaml:"quality"`
}

// defaultThresholds is the tier-by-volume curve used by recipes that do
// not declare their own.
var defaultThresholds = []QualityThreshold{
	{Count: 0, Quality: item.QualityCommon},
	{Count: 6, Quality: item.QualityUncommon},
	{Count: 15, Quality: item.QualityRare},
	{Count: 30, Quality: item.QualityExquisite},
	{Count: 60, Quality: item.QualityLegendary},
}

// Recipe describes how to craft an item.
type Recipe struct {
	Name string `yaml:"name"`
	// Output is the produced item name; defaults to Name.
	Output string `yaml:"output"`
	// Ingredients maps ingredient item name to required quantity, consumed
	// from the character's inventory.
	Ingredients map[string]int `yaml:"ingredients"`
	// Specialization gates the recipe to shops with that trade focus;
	// empty means any shop may craft it.
	Specialization string `yaml:"specialization"`
	// QualityThresholds overrides the default tier-by-volume curve.
	QualityThresholds []QualityThreshold `yaml:"quality_thresholds"`
	// XP awarded (pending) per craft.
	XP int `yaml:"xp"`
}

// Validate checks that the Recipe satisfies its invariants.
func (r *Recipe) Validate() error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(r.Ingredients) == 0 {
		errs = append(errs, errors.New("at least one ingredient is required"))
	}
	for name, qty := range r.Ingredients {
		if qty < 1 {
			errs = append(errs, fmt.Errorf("ingredient %q quantity must be >= 1", name))
		}
	}
	for i, th := range r.QualityThresholds {
		if !th.Quality.Valid() {
			errs = append(errs, fmt.Errorf("threshold %d: unknown quality %q", i, th.Quality))
		}
		if th.Count < 0 {
			errs = append(errs, fmt.Errorf("threshold %d: count must be >= 0", i))
		}
		if i > 0 && th.Count <= r.QualityThresholds[i-1].Count {
			errs = append(errs, fmt.Errorf("threshold %d: counts must be strictly increasing", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("recipe %q validation failed: %v", r.Name, errs)
	}
	return nil
}

// OutputName returns the produced item name.
func (r *Recipe) OutputName() string {
	if r.Output != "" {
		return r.Output
	}
	return r.Name
}

// TierFor returns the quality tier produced at the given effective craft
// count, before any critical bump.
func (r *Recipe) TierFor(effectiveCount int) item.Quality {
	thresholds := r.QualityThresholds
	if len(thresholds) == 0 {
		thresholds = defaultThresholds
	}
	tier := thresholds[0].Quality
	for _, th := range thresholds {
		if effectiveCount >= th.Count {
			tier = th.Quality
		}
	}
	return tier
}

// yamlRecipeFile is the top-level YAML structure for recipe files.
type yamlRecipeFile struct {
	Recipes []Recipe `yaml:"recipes"`
}

// LoadRecipesFromBytes parses and validates recipes from YAML bytes.
func LoadRecipesFromBytes(data []byte) ([]*Recipe, error) {
	var file yamlRecipeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing recipe YAML: %w", err)
	}
	recipes := make([]*Recipe, 0, len(file.Recipes))
	for i := range file.Recipes {
		r := file.Recipes[i]
		if err := r.Validate(); err != nil {
			return nil, err
		}
		recipes = append(recipes, &r)
	}
	return recipes, nil
}

// LoadRecipesFromDir loads all YAML files in a directory as recipe catalogs.
func LoadRecipesFromDir(dir string) ([]*Recipe, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipe directory %s: %w", dir, err)
	}
	var recipes []*Recipe
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading recipe file %s: %w", name, err)
		}
		loaded, err := LoadRecipesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading recipes from %s: %w", name, err)
		}
		recipes = append(recipes, loaded...)
	}
	return recipes, nil
}

// RecipeBook provides recipe lookup by name.
type RecipeBook struct {
	recipes map[string]*Recipe
}

// NewRecipeBook creates a RecipeBook populated with the given recipes.
//
// Precondition: no two recipes may share a name.
func NewRecipeBook(recipes []*Recipe) (*RecipeBook, error) {
	b := &RecipeBook{recipes: make(map[string]*Recipe, len(recipes))}
	for _, r := range recipes {
		if _, exists := b.recipes[r.Name]; exists {
			return nil, fmt.Errorf("duplicate recipe: %q", r.Name)
		}
		b.recipes[r.Name] = r
	}
	return b, nil
}

// Lookup returns the named recipe, if present.
func (b *RecipeBook) Lookup(name string) (*Recipe, bool) {
	r, ok := b.recipes[name]
	return r, ok
}
