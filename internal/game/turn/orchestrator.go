package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/economy"
	"github.com/cory-johannsen/emporium/internal/game/event"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/skillcheck"
	"github.com/cory-johannsen/emporium/internal/game/town"
)

// Config holds the orchestrator's tuning knobs.
type Config struct {
	// SkillEventChance is the per-action chance of an event linked to the
	// action's skill.
	SkillEventChance float64
	// GenericEventChance is the fallback chance of an unlinked event.
	GenericEventChance float64
}

// DefaultConfig returns the baseline turn tuning.
func DefaultConfig() Config {
	return Config{
		SkillEventChance:   0.2,
		GenericEventChance: 0.1,
	}
}

// Orchestrator sequences a full turn: dispatch, time, events, patronage.
// It is stateless across calls; all mutable state lives in State.
type Orchestrator struct {
	registry *Registry
	events   *event.Registry
	rules    *ruleset.Registry
	towns    *town.Catalog

	eventEngine *event.Engine
	checks      *skillcheck.Engine
	economy     *economy.Engine
	haggler     *haggle.Machine

	cfg    Config
	src    dice.Source
	logger *zap.Logger
}

// NewOrchestrator creates a turn orchestrator.
//
// Precondition: every collaborator must be non-nil.
func NewOrchestrator(
	registry *Registry,
	events *event.Registry,
	rules *ruleset.Registry,
	towns *town.Catalog,
	eventEngine *event.Engine,
	checks *skillcheck.Engine,
	econ *economy.Engine,
	haggler *haggle.Machine,
	cfg Config,
	src dice.Source,
	logger *zap.Logger,
) *Orchestrator {
	if registry == nil || events == nil || rules == nil || towns == nil ||
		eventEngine == nil || checks == nil || econ == nil || haggler == nil || src == nil {
		panic("turn: NewOrchestrator requires non-nil collaborators")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry:    registry,
		events:      events,
		rules:       rules,
		towns:       towns,
		eventEngine: eventEngine,
		checks:      checks,
		economy:     econ,
		haggler:     haggler,
		cfg:         cfg,
		src:         src,
		logger:      logger,
	}
}

// haggleActionName is the pseudo-action that drives an open negotiation.
// It lives outside the registry: it only exists while a session does.
const haggleActionName = "haggle"

// PerformAction runs one player action to completion or suspension.
//
// The sequence is fixed: validate, dispatch, award pending XP, advance the
// clock (with end-of-day bookkeeping on rollover), roll for a narrative
// event, then roll for NPC patronage. At most one of event or patronage can
// suspend the turn.
//
// Postcondition: the returned Result's Kind tells the caller what to do
// next; EventPending and HagglingPending leave the matching pending state
// set on st.
func (o *Orchestrator) PerformAction(st *State, name string, details map[string]string) Result {
	if !st.Initialized() {
		return failure(FailValidation, "game state is not fully initialized")
	}
	c := st.Character

	if c.IsDead() {
		// Time still passes for the dead. Nothing else does.
		st.Clock.Advance(1)
		c.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalSystem,
			fmt.Sprintf("The body does not answer. (%s ignored)", name), nil, "dead")
		res := failure(FailCharacterDead, "the character is dead")
		res.HoursSpent = 1
		return res
	}

	if name == haggleActionName {
		return o.respondHaggle(st, details)
	}
	if st.Haggle != nil {
		return failure(FailStaleSession, "a customer is waiting; respond to the haggle first")
	}
	if st.PendingEvent != "" {
		return failure(FailStaleSession,
			fmt.Sprintf("the event %q is waiting on a choice", st.PendingEvent))
	}

	act, known := o.registry.Resolve(name)
	var out outcome
	if !known {
		// Unknown actions fail closed: an hour is lost, nothing happens.
		o.logger.Warn("unknown action", zap.String("action", name))
		out = outcome{message: fmt.Sprintf("You dither over %q and the hour slips away.", name), hours: 1}
		c.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalSystem, out.message, nil, "no-op")
	} else {
		var err error
		out, err = act.Handler(o, st, details)
		if err != nil {
			res := failure(classify(err), err.Error())
			o.logger.Debug("action rejected",
				zap.String("action", act.Name),
				zap.String("kind", string(res.FailureKind)),
				zap.Error(err),
			)
			return res
		}
	}
	st.ActionsToday++

	if out.xp != 0 {
		c.AwardXP(out.xp)
	}

	if rollovers := st.Clock.Advance(out.hours); rollovers > 0 {
		o.endOfDay(st, rollovers)
	}

	result := Result{Kind: ActionComplete, Message: out.message, HoursSpent: out.hours}
	if out.haggle != nil {
		st.Haggle = out.haggle
		result.Kind = HagglingPending
		result.Session = out.haggle
		return result
	}
	if out.hours == 0 || c.IsDead() {
		return result
	}

	skill := ""
	if known {
		skill = act.Skill
	}
	if pending := o.rollEvent(st, skill, &result); pending {
		return result
	}

	shopTrade := known && act.ShopTrade
	if !shopTrade && st.Town.Name == st.Shop.TownName {
		if sess := o.economy.RollPatronage(st.Shop, st.Town); sess != nil {
			st.Haggle = sess
			result.Kind = HagglingPending
			result.Session = sess
			o.logger.Debug("patronage",
				zap.String("npc", sess.NPCName),
				zap.String("item", sess.ItemName),
				zap.Int("offer", sess.CurrentOffer),
			)
		}
	}
	return result
}

// rollEvent rolls for a narrative event after a completed action. Linked
// events are tried first at the higher chance, then any event at the
// generic chance. Choiceless events resolve inline; events with choices
// suspend the turn. Reports whether the turn is now suspended.
func (o *Orchestrator) rollEvent(st *State, skill string, result *Result) bool {
	var ev *event.Event
	if skill != "" && dice.Percent(o.src) < o.cfg.SkillEventChance {
		ev = o.events.PickForSkill(skill, st.Character.Level, o.src)
	}
	if ev == nil && dice.Percent(o.src) < o.cfg.GenericEventChance {
		ev = o.events.PickGeneric(st.Character.Level, o.src)
	}
	if ev == nil {
		return false
	}

	choices := o.eventEngine.Resolve(ev, st.Character)
	if len(choices) == 0 {
		// Nothing to decide; the event lands immediately.
		exec, err := o.eventEngine.Execute(ev, 0, st.Character, st.Clock)
		if err == nil {
			result.EventResult = &exec
			if exec.Message != "" {
				result.Message += " " + exec.Message
			}
		}
		return false
	}

	st.PendingEvent = ev.Name
	result.Kind = EventPending
	result.EventName = ev.Name
	result.Choices = choices
	o.logger.Debug("event pending", zap.String("event", ev.Name))
	return true
}

// ResolveEventChoice resumes a turn suspended by an event.
//
// Precondition: eventName matches the pending event on st.
// Postcondition: the pending event is cleared on success; resolving an
// event consumes no additional time.
func (o *Orchestrator) ResolveEventChoice(st *State, eventName string, choiceIndex int) Result {
	if !st.Initialized() {
		return failure(FailValidation, "game state is not fully initialized")
	}
	if st.PendingEvent == "" {
		return failure(FailStaleSession, "no event is pending")
	}
	if st.PendingEvent != eventName {
		return failure(FailStaleSession,
			fmt.Sprintf("pending event is %q, not %q", st.PendingEvent, eventName))
	}
	ev, ok := o.events.Lookup(eventName)
	if !ok {
		// Content was reloaded out from under the session.
		st.PendingEvent = ""
		return failure(FailStaleSession, fmt.Sprintf("event %q no longer exists", eventName))
	}

	exec, err := o.eventEngine.Execute(ev, choiceIndex, st.Character, st.Clock)
	if err != nil {
		return failure(classify(err), err.Error())
	}
	st.PendingEvent = ""

	return Result{
		Kind:        ActionComplete,
		Message:     exec.Message,
		EventResult: &exec,
	}
}

// respondHaggle drives the open negotiation with the player's choice from
// details. Responding consumes no time; the clock only moved when the
// session opened.
func (o *Orchestrator) respondHaggle(st *State, details map[string]string) Result {
	if st.Haggle == nil {
		return failure(FailStaleSession, "no haggling session is open")
	}
	choice := haggle.Choice(details["choice"])
	sess := st.Haggle

	out, err := o.haggler.Respond(sess, choice, st.Character)
	if err != nil {
		return failure(FailValidation, err.Error())
	}

	if !out.Status.Terminal() {
		return Result{Kind: HagglingPending, Session: sess, HaggleOutcome: &out}
	}

	st.Haggle = nil
	result := Result{Kind: ActionComplete, HaggleOutcome: &out}

	switch out.Status {
	case haggle.StatusDeclined:
		result.Message = fmt.Sprintf("%s shrugs and moves on. No deal.", sess.NPCName)
		st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalHaggle,
			result.Message, map[string]any{"session": sess.ID, "item": sess.ItemName}, "declined")
		return result

	case haggle.StatusAccepted:
		var rec economy.TradeRecord
		var err error
		if sess.Direction == haggle.DirectionSale {
			rec, err = o.economy.FinalizeSale(sess, st.Shop, st.Town)
		} else {
			rec, err = o.economy.FinalizePurchase(sess, st.Character)
		}
		if err != nil {
			// The goods or gold vanished mid-haggle. The deal dies with them.
			result.Kind = ActionFailed
			result.FailureKind = classify(err)
			result.Reason = err.Error()
			return result
		}
		result.Message = fmt.Sprintf("Deal struck with %s: %d %s for %d gold.",
			sess.NPCName, sess.Quantity, sess.ItemName, sess.CurrentOffer)
		st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalHaggle,
			result.Message, map[string]any{"session": sess.ID, "trade": rec}, "accepted")
		return result
	}
	return result
}

// endOfDay runs the day-boundary bookkeeping: pending XP commits (the only
// commit point), daily counters reset, and expired town happenings clear.
func (o *Orchestrator) endOfDay(st *State, days int) {
	gained := st.Character.CommitPendingXP()
	if gained > 0 {
		msg := fmt.Sprintf("You reach level %d.", st.Character.Level)
		st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalSystem, msg,
			map[string]any{"levels_gained": gained}, "level-up")
		o.logger.Info("level up",
			zap.String("character", st.Character.Name),
			zap.Int("level", st.Character.Level),
		)
	}
	st.ActionsToday = 0
	st.Town.ClearActiveEvents()
	o.logger.Debug("day rolled over",
		zap.Int("day", st.Clock.Day),
		zap.Int("days_passed", days),
	)
}
