package turn

import (
	"errors"

	"github.com/cory-johannsen/emporium/internal/game/economy"
	"github.com/cory-johannsen/emporium/internal/game/event"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/shop"
)

// ResultKind tags a Result. Exactly one of the payload groups is populated
// for each kind.
type ResultKind string

const (
	// ActionComplete means the action resolved fully within the call.
	ActionComplete ResultKind = "action_complete"
	// ActionFailed means the action was rejected; no time passed unless
	// HoursSpent says otherwise.
	ActionFailed ResultKind = "action_failed"
	// EventPending means a narrative event suspended the turn. The caller
	// must call ResolveEventChoice before ordinary actions resume.
	EventPending ResultKind = "event_pending"
	// HagglingPending means a negotiation session is open. The caller must
	// drive it to accept or decline via the haggle action.
	HagglingPending ResultKind = "haggling_pending"
)

// FailKind classifies an ActionFailed result.
type FailKind string

const (
	// FailValidation marks malformed or contextually invalid requests.
	FailValidation FailKind = "validation"
	// FailInsufficientResource marks requests short on gold, stock,
	// hit dice, or capacity.
	FailInsufficientResource FailKind = "insufficient_resource"
	// FailInvalidReference marks requests naming unknown items, recipes,
	// towns, NPCs, or factions.
	FailInvalidReference FailKind = "invalid_reference"
	// FailStaleSession marks resolution calls against a pending event or
	// haggling session that does not exist or does not match.
	FailStaleSession FailKind = "stale_session"
	// FailCharacterDead marks actions attempted by a dead character. Time
	// still passes; nothing else happens.
	FailCharacterDead FailKind = "character_dead"
)

// Result is the outcome of a single orchestrator call.
type Result struct {
	Kind ResultKind

	// Message narrates what happened, for completed actions and failures.
	Message string
	// HoursSpent is the in-game time the call consumed.
	HoursSpent int

	// FailureKind and Reason are set when Kind is ActionFailed.
	FailureKind FailKind
	Reason      string

	// EventName and Choices are set when Kind is EventPending.
	EventName string
	Choices   []event.PresentedChoice

	// EventResult carries the resolution of an event choice, or of a
	// choiceless event that resolved inline.
	EventResult *event.ExecuteResult

	// Session and HaggleOutcome are set when Kind is HagglingPending, and
	// HaggleOutcome also accompanies the ActionComplete that closes a
	// session.
	Session       *haggle.Session
	HaggleOutcome *haggle.Outcome
}

func failure(kind FailKind, reason string) Result {
	return Result{Kind: ActionFailed, FailureKind: kind, Reason: reason}
}

// classify maps engine errors onto the failure taxonomy.
func classify(err error) FailKind {
	switch {
	case errors.Is(err, economy.ErrUnknownRecipe),
		errors.Is(err, economy.ErrUnknownItem),
		errors.Is(err, economy.ErrUnknownNPC),
		errors.Is(err, event.ErrChoiceOutOfRange),
		errors.Is(err, ErrUnknownReference):
		return FailInvalidReference
	case errors.Is(err, economy.ErrInsufficientGold),
		errors.Is(err, economy.ErrMissingIngredients),
		errors.Is(err, economy.ErrShopFull),
		errors.Is(err, economy.ErrNotInStock),
		errors.Is(err, shop.ErrUpgradeGold),
		errors.Is(err, shop.ErrMaxLevel),
		errors.Is(err, ErrInsufficient):
		return FailInsufficientResource
	default:
		return FailValidation
	}
}
