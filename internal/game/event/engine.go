package event

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/clock"
	"github.com/cory-johannsen/emporium/internal/game/skillcheck"
)

// ErrChoiceOutOfRange is returned by Execute for a bad choice index.
var ErrChoiceOutOfRange = fmt.Errorf("event choice index out of range")

// PresentedChoice is one rendered option offered to the player, with the
// DC already scaled for the character's level.
type PresentedChoice struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Skill    string `json:"skill"`
	DC       int    `json:"dc"`
	ItemNote string `json:"item_note,omitempty"`
}

// ExecuteResult reports the resolution of a chosen event branch.
type ExecuteResult struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	// Check is the dice record, or nil when BypassItem carried the day.
	Check *skillcheck.Result `json:"check,omitempty"`
	// BypassItem names the auto-success item used instead of rolling.
	BypassItem string `json:"bypass_item,omitempty"`
	// Outcome is the applied effect bag.
	Outcome Outcome `json:"outcome"`
	// Consequence mirrors Outcome.Consequence for callers that react to
	// generic effects.
	Consequence string `json:"consequence,omitempty"`
}

// Engine resolves and executes narrative events for characters.
type Engine struct {
	checks *skillcheck.Engine
	logger *zap.Logger
}

// NewEngine creates an event engine.
//
// Precondition: checks must be non-nil. logger may be nil for a no-op logger.
func NewEngine(checks *skillcheck.Engine, logger *zap.Logger) *Engine {
	if checks == nil {
		panic("event: NewEngine requires a non-nil skill check engine")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{checks: checks, logger: logger}
}

// Resolve renders the event's choices for the character: display text,
// skill, level-scaled DC, and a note for any item that would ease or bypass
// the check. Choice-less events return an empty list and are executed
// immediately by the caller.
func (e *Engine) Resolve(ev *Event, c *character.Character) []PresentedChoice {
	choices := make([]PresentedChoice, 0, len(ev.Choices))
	for i, ch := range ev.Choices {
		choices = append(choices, PresentedChoice{
			Index:    i,
			Text:     ch.Text,
			Skill:    ch.Skill,
			DC:       e.ScaledDC(ev, ch, c),
			ItemNote: itemNote(ch.Requirement, holdsRequirement(&c.Inventory, ch.Requirement)),
		})
	}
	return choices
}

// ScaledDC exposes the per-character DC for one choice.
func (e *Engine) ScaledDC(ev *Event, ch Choice, c *character.Character) int {
	return ev.ScaledDC(ch, c.Level)
}

// Execute resolves the chosen branch: item auto-success bypass, item DC
// reduction, or a skill check; applies the selected outcome's effects to
// the character; and appends exactly one journal entry.
//
// For choice-less events pass choiceIndex 0; the implicit success outcome
// applies without a roll.
//
// Postcondition: on error the character is unchanged.
func (e *Engine) Execute(ev *Event, choiceIndex int, c *character.Character, at clock.Clock) (ExecuteResult, error) {
	if len(ev.Choices) == 0 {
		outcome := ev.Outcomes[OutcomeSuccess]
		res := ExecuteResult{Succeeded: true, Message: outcome.Message, Outcome: outcome, Consequence: outcome.Consequence}
		e.apply(ev, outcome, c, at, res)
		return res, nil
	}
	if choiceIndex < 0 || choiceIndex >= len(ev.Choices) {
		return ExecuteResult{}, fmt.Errorf("%w: %d (event %q has %d choices)",
			ErrChoiceOutOfRange, choiceIndex, ev.Name, len(ev.Choices))
	}

	ch := ev.Choices[choiceIndex]
	dc := ev.ScaledDC(ch, c.Level)

	var res ExecuteResult
	req := ch.Requirement
	held := holdsRequirement(&c.Inventory, req)

	switch {
	case req != nil && req.Effect == RequirementAutoSuccess && held:
		// Item-driven bypass: no dice are involved.
		res.Succeeded = true
		res.BypassItem = req.Item
	default:
		if req != nil && req.Effect == RequirementDCReduction && held {
			dc -= req.Value
			if dc < 0 {
				dc = 0
			}
		}
		check := e.checks.Check(ch.Skill, dc, c, true)
		res.Check = &check
		res.Succeeded = check.Success()
	}

	key := ch.failureKey()
	if res.Succeeded {
		key = ch.successKey()
	}
	outcome := ev.Outcomes[key]
	res.Message = outcome.Message
	res.Outcome = outcome
	res.Consequence = outcome.Consequence

	e.apply(ev, outcome, c, at, res)

	e.logger.Debug("event executed",
		zap.String("event", ev.Name),
		zap.Int("choice", choiceIndex),
		zap.Bool("succeeded", res.Succeeded),
	)
	return res, nil
}

// apply mutates the character with the outcome's effect bag and writes the
// single journal entry for this event resolution.
func (e *Engine) apply(ev *Event, o Outcome, c *character.Character, at clock.Clock, res ExecuteResult) {
	c.AwardXP(o.XP)
	c.AddGold(o.Gold)
	if o.HP > 0 {
		c.Heal(o.HP)
	} else if o.HP < 0 {
		c.Damage(-o.HP)
	}
	if o.Exhaustion != 0 {
		c.AddExhaustion(o.Exhaustion)
	}
	for name, qty := range o.Items {
		c.Inventory.Add(name, defaultQuality, qty)
	}

	detail := effectSummary(o)
	if res.Check != nil {
		detail["roll"] = res.Check.Final.Roll.Kept
		detail["total"] = res.Check.Final.Total
		detail["dc"] = res.Check.DC
	}
	if res.BypassItem != "" {
		detail["bypass_item"] = res.BypassItem
	}
	outcomeText := "failure"
	if res.Succeeded {
		outcomeText = "success"
	}
	c.AppendJournal(at.Day, at.Hour, character.JournalEvent, ev.Name, detail, outcomeText)
}
