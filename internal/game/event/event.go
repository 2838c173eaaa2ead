// Package event defines branching narrative event templates and the engine
// that presents their choices and applies their outcomes.
package event

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Requirement effects a choice's item requirement may carry.
const (
	RequirementAutoSuccess = "auto_success"
	RequirementDCReduction = "dc_reduction"
)

// Default outcome keys used when a choice does not name its own.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome is a named result of an event: narration plus an effect bag.
type Outcome struct {
	Message string `yaml:"message"`
	// XP, Gold, HP, and Exhaustion adjust the character; negative values
	// are losses. Items maps item name to quantity rewarded.
	XP         int            `yaml:"xp"`
	Gold       int            `yaml:"gold"`
	HP         int            `yaml:"hp"`
	Exhaustion int            `yaml:"exhaustion"`
	Items      map[string]int `yaml:"items"`
	// Consequence is a generic free-form effect tag surfaced to the caller
	// (e.g. "shop_boost", "reputation_loss") for systems outside the
	// character sheet.
	Consequence string `yaml:"consequence"`
}

// ItemRequirement optionally modifies a choice when the character holds
// the named item: either bypassing the check outright or reducing its DC.
type ItemRequirement struct {
	Item   string `yaml:"item"`
	Effect string `yaml:"effect"` // auto_success or dc_reduction
	Value  int    `yaml:"value"`  // DC reduction amount when dc_reduction
}

// Choice is one branch of an event, resolved by a skill check.
type Choice struct {
	Text   string `yaml:"text"`
	Skill  string `yaml:"skill"`
	BaseDC int    `yaml:"base_dc"`
	// SuccessOutcome and FailureOutcome name entries in the event's
	// Outcomes map; empty values use the default keys.
	SuccessOutcome string           `yaml:"success_outcome"`
	FailureOutcome string           `yaml:"failure_outcome"`
	Requirement    *ItemRequirement `yaml:"requirement"`
}

// successKey returns the outcome key selected when the check succeeds.
func (c Choice) successKey() string {
	if c.SuccessOutcome != "" {
		return c.SuccessOutcome
	}
	return OutcomeSuccess
}

// failureKey returns the outcome key selected when the check fails.
func (c Choice) failureKey() string {
	if c.FailureOutcome != "" {
		return c.FailureOutcome
	}
	return OutcomeFailure
}

// Event is an immutable narrative event template. Resolution never mutates
// the template.
type Event struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// MinLevel gates selection; DCScale raises choice DCs for characters
	// above MinLevel.
	MinLevel int     `yaml:"min_level"`
	DCScale  float64 `yaml:"dc_scale"`
	// Skill optionally links the event to an action skill for triggering;
	// events without one are generic.
	Skill    string             `yaml:"skill"`
	Outcomes map[string]Outcome `yaml:"outcomes"`
	Choices  []Choice           `yaml:"choices"`
}

// Validate checks that the Event satisfies its invariants.
func (e *Event) Validate() error {
	var errs []error
	if e.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if e.MinLevel < 0 {
		errs = append(errs, errors.New("min_level must be >= 0"))
	}
	if e.DCScale < 0 {
		errs = append(errs, errors.New("dc_scale must be >= 0"))
	}
	if len(e.Choices) == 0 {
		if _, ok := e.Outcomes[OutcomeSuccess]; !ok {
			errs = append(errs, errors.New("choice-less event needs a success outcome"))
		}
	}
	for i, ch := range e.Choices {
		if ch.Skill == "" {
			errs = append(errs, fmt.Errorf("choice %d: skill must not be empty", i))
		}
		if ch.BaseDC < 0 {
			errs = append(errs, fmt.Errorf("choice %d: base_dc must be >= 0", i))
		}
		if _, ok := e.Outcomes[ch.successKey()]; !ok {
			errs = append(errs, fmt.Errorf("choice %d: unknown success outcome %q", i, ch.successKey()))
		}
		if _, ok := e.Outcomes[ch.failureKey()]; !ok {
			errs = append(errs, fmt.Errorf("choice %d: unknown failure outcome %q", i, ch.failureKey()))
		}
		if r := ch.Requirement; r != nil {
			if r.Item == "" {
				errs = append(errs, fmt.Errorf("choice %d: requirement item must not be empty", i))
			}
			switch r.Effect {
			case RequirementAutoSuccess:
			case RequirementDCReduction:
				if r.Value <= 0 {
					errs = append(errs, fmt.Errorf("choice %d: dc_reduction value must be > 0", i))
				}
			default:
				errs = append(errs, fmt.Errorf("choice %d: unknown requirement effect %q", i, r.Effect))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("event %q validation failed: %v", e.Name, errs)
	}
	return nil
}

// ScaledDC returns the DC of the given choice for a character of the given
// level: base_dc + max(0, level - min_level) * dc_scale, rounded to an int.
func (e *Event) ScaledDC(choice Choice, level int) int {
	over := level - e.MinLevel
	if over < 0 {
		over = 0
	}
	return int(float64(choice.BaseDC) + float64(over)*e.DCScale + 0.5)
}

// itemNote renders the requirement hint shown with a presented choice.
func itemNote(r *ItemRequirement, held bool) string {
	if r == nil {
		return ""
	}
	holding := "not carried"
	if held {
		holding = "carried"
	}
	switch r.Effect {
	case RequirementAutoSuccess:
		return fmt.Sprintf("%s guarantees success (%s)", r.Item, holding)
	case RequirementDCReduction:
		return fmt.Sprintf("%s lowers the difficulty by %d (%s)", r.Item, r.Value, holding)
	}
	return ""
}

// holdsRequirement reports whether the character's inventory satisfies the
// choice requirement.
func holdsRequirement(inv interface{ Count(string) int }, r *ItemRequirement) bool {
	return r != nil && inv.Count(r.Item) > 0
}

// effectSummary renders the outcome effect bag for journal detail.
func effectSummary(o Outcome) map[string]any {
	detail := make(map[string]any)
	if o.XP != 0 {
		detail["xp"] = o.XP
	}
	if o.Gold != 0 {
		detail["gold"] = o.Gold
	}
	if o.HP != 0 {
		detail["hp"] = o.HP
	}
	if o.Exhaustion != 0 {
		detail["exhaustion"] = o.Exhaustion
	}
	if len(o.Items) > 0 {
		detail["items"] = o.Items
	}
	if o.Consequence != "" {
		detail["consequence"] = o.Consequence
	}
	return detail
}

// defaultQuality is the tier granted to event item rewards.
var defaultQuality = item.QualityCommon
