package turn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Sentinel errors for handler-level failures. Engine packages carry their
// own sentinels; these cover failures the handlers detect themselves.
var (
	// ErrBadRequest marks missing or malformed action details.
	ErrBadRequest = errors.New("invalid action request")
	// ErrUnknownReference marks details naming a town, NPC, faction, or
	// skill that does not exist.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrInsufficient marks a shortfall of gold, hit dice, or skill points.
	ErrInsufficient = errors.New("insufficient resources")
)

// Provision item names checked by a long rest. Food is consumed; the
// waterskin is reusable kit.
const (
	provisionFood  = "Rations"
	provisionDrink = "Waterskin"
)

// BuiltinActions returns all built-in player actions.
func BuiltinActions() []Action {
	return []Action{
		{Name: "rest_short", Aliases: []string{"short_rest", "breather"}, Skill: "endurance", Handler: handleShortRest},
		{Name: "rest_long", Aliases: []string{"long_rest", "sleep"}, Handler: handleLongRest},
		{Name: "travel", Aliases: []string{"go"}, Skill: "survival", Handler: handleTravel},
		{Name: "craft", Aliases: []string{"make"}, Skill: "crafting", Handler: handleCraft},
		{Name: "gather", Aliases: []string{"forage"}, Skill: "survival", Handler: handleGather},
		{Name: "converse", Aliases: []string{"talk"}, Skill: "insight", Handler: handleConverse},
		{Name: "trade_buy", Aliases: []string{"buy"}, Skill: "appraisal", ShopTrade: true, Handler: handleBuy},
		{Name: "trade_sell", Aliases: []string{"sell"}, Skill: "appraisal", ShopTrade: true, Handler: handleSell},
		{Name: "shop_upgrade", Aliases: []string{"upgrade"}, ShopTrade: true, Handler: handleUpgrade},
		{Name: "faction_work", Aliases: []string{"work"}, Skill: "persuasion", Handler: handleFactionWork},
		{Name: "faction_donate", Aliases: []string{"donate"}, Handler: handleFactionDonate},
		{Name: "allocate_point", Aliases: []string{"allocate"}, Handler: handleAllocatePoint},
	}
}

// detailInt parses an integer detail, falling back to def when absent.
func detailInt(details map[string]string, key string, def int) (int, error) {
	raw, ok := details[key]
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrBadRequest, key, raw)
	}
	return n, nil
}

func handleShortRest(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	n, err := detailInt(details, "dice", 1)
	if err != nil {
		return outcome{}, err
	}
	if n <= 0 {
		return outcome{}, fmt.Errorf("%w: dice must be positive", ErrBadRequest)
	}
	res, err := st.Character.ShortRest(n, o.src)
	if err != nil {
		return outcome{}, fmt.Errorf("%w: %v", ErrInsufficient, err)
	}
	msg := fmt.Sprintf("You catch your breath, spending %d hit dice and recovering %d HP.", res.DiceSpent, res.Healed)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalRest, msg,
		map[string]any{"dice_spent": res.DiceSpent, "healed": res.Healed}, "rested")
	return outcome{message: msg, hours: 1}, nil
}

func handleLongRest(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	c := st.Character
	provisioned := c.Inventory.Count(provisionFood) > 0 && c.Inventory.Count(provisionDrink) > 0
	if provisioned {
		c.Inventory.Remove(provisionFood, 1)
	}
	res := c.LongRest(provisioned)

	msg := fmt.Sprintf("You sleep through the night, recovering %d HP and %d hit dice.", res.Healed, res.HitDiceRecovered)
	if !provisioned {
		msg += " Without food and drink the rest is fitful."
	}
	c.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalRest, msg, map[string]any{
		"healed":             res.Healed,
		"hit_dice":           res.HitDiceRecovered,
		"exhaustion_removed": res.ExhaustionRemoved,
		"provisioned":        provisioned,
	}, "rested")
	return outcome{message: msg, hours: 8}, nil
}

func handleTravel(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	dest := details["destination"]
	if dest == "" {
		return outcome{}, fmt.Errorf("%w: travel needs a destination", ErrBadRequest)
	}
	target, ok := o.towns.Lookup(dest)
	if !ok {
		return outcome{}, fmt.Errorf("%w: no town named %q", ErrUnknownReference, dest)
	}
	if target.Name == st.Town.Name {
		return outcome{}, fmt.Errorf("%w: already in %s", ErrBadRequest, dest)
	}
	hours, ok := st.Town.TravelHours[target.Name]
	if !ok || hours <= 0 {
		return outcome{}, fmt.Errorf("%w: no route from %s to %s", ErrUnknownReference, st.Town.Name, target.Name)
	}

	st.Town = target
	st.Character.TownName = target.Name
	msg := fmt.Sprintf("After %d hours on the road you arrive in %s.", hours, target.Name)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg,
		map[string]any{"destination": target.Name, "hours": hours}, "arrived")
	return outcome{message: msg, hours: hours}, nil
}

func handleCraft(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	recipe := details["recipe"]
	if recipe == "" {
		return outcome{}, fmt.Errorf("%w: craft needs a recipe", ErrBadRequest)
	}
	res, err := o.economy.Craft(recipe, st.Character, st.Shop)
	if err != nil {
		return outcome{}, err
	}
	msg := fmt.Sprintf("You craft a %s %s.", res.Quality, res.Output)
	switch res.Critical {
	case "success":
		msg += " The work comes out better than you hoped."
	case "failure":
		msg += " Something went wrong at the bench."
	}
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalCraft, msg, map[string]any{
		"recipe":   res.Recipe,
		"output":   res.Output,
		"quality":  string(res.Quality),
		"critical": res.Critical,
		"xp":       res.XP,
	}, "crafted")
	return outcome{message: msg, hours: 1, xp: res.XP}, nil
}

func handleGather(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	if len(st.Town.Resources) == 0 {
		msg := fmt.Sprintf("There is nothing worth gathering around %s.", st.Town.Name)
		st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg, nil, "failure")
		return outcome{message: msg, hours: 1}, nil
	}

	check := o.checks.Check("survival", 12, st.Character, true)
	if !check.Success() {
		msg := "You search the surrounding country but come back empty-handed."
		st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg,
			map[string]any{"check": check}, "failure")
		return outcome{message: msg, hours: 1}, nil
	}

	resource := st.Town.Resources[o.src.Intn(len(st.Town.Resources))]
	qty := 1 + o.src.Intn(3)
	st.Character.Inventory.Add(resource, item.QualityCommon, qty)
	msg := fmt.Sprintf("You gather %d %s.", qty, resource)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg,
		map[string]any{"resource": resource, "quantity": qty, "check": check}, "success")
	return outcome{message: msg, hours: 1, xp: 10}, nil
}

func handleConverse(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	name := details["npc"]
	if name == "" {
		return outcome{}, fmt.Errorf("%w: converse needs an npc", ErrBadRequest)
	}
	npc, ok := st.Town.NPCByName(name)
	if !ok {
		return outcome{}, fmt.Errorf("%w: nobody named %q in %s", ErrUnknownReference, name, st.Town.Name)
	}

	check := o.checks.Check("insight", 12, st.Character, true)
	var msg string
	if check.Success() {
		st.Shop.CustomerBoost += 0.05
		msg = fmt.Sprintf("%s the %s warms to you and promises to mention your shop around town.", npc.Name, npc.Occupation)
	} else {
		msg = fmt.Sprintf("%s gives you the time of day and little else.", npc.Name)
	}
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg,
		map[string]any{"npc": npc.Name, "check": check}, outcomeWord(check.Success()))
	xp := 0
	if check.Success() {
		xp = 5
	}
	return outcome{message: msg, hours: 1, xp: xp}, nil
}

func handleBuy(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	name := details["item"]
	if name == "" {
		return outcome{}, fmt.Errorf("%w: buy needs an item", ErrBadRequest)
	}
	qty, err := detailInt(details, "quantity", 1)
	if err != nil {
		return outcome{}, err
	}
	if npc := details["npc"]; npc != "" {
		sess, err := o.economy.OpenPurchase(name, qty, npc, st.Town)
		if err != nil {
			return outcome{}, err
		}
		msg := fmt.Sprintf("%s wants %d gold for %d %s.",
			sess.NPCName, sess.CurrentOffer, sess.Quantity, sess.ItemName)
		return outcome{message: msg, hours: 1, haggle: sess}, nil
	}
	rec, err := o.economy.BuyFromMarket(name, qty, st.Character, st.Town)
	if err != nil {
		return outcome{}, err
	}
	msg := fmt.Sprintf("You buy %d %s from the market for %d gold.", rec.Quantity, rec.ItemName, -rec.Gold)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalTrade, msg,
		map[string]any{"trade": rec}, "bought")
	return outcome{message: msg, hours: 1}, nil
}

func handleSell(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	name := details["item"]
	if name == "" {
		return outcome{}, fmt.Errorf("%w: sell needs an item", ErrBadRequest)
	}
	qty, err := detailInt(details, "quantity", 1)
	if err != nil {
		return outcome{}, err
	}
	quality := item.QualityCommon
	if raw := details["quality"]; raw != "" {
		quality = item.Quality(strings.ToLower(raw))
		if !quality.Valid() {
			return outcome{}, fmt.Errorf("%w: quality %q", ErrBadRequest, raw)
		}
	}
	rec, err := o.economy.SellToMarket(name, quality, qty, st.Character, st.Town)
	if err != nil {
		return outcome{}, err
	}
	msg := fmt.Sprintf("You sell %d %s to the market for %d gold.", rec.Quantity, rec.ItemName, rec.Gold)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalTrade, msg,
		map[string]any{"trade": rec}, "sold")
	return outcome{message: msg, hours: 1}, nil
}

func handleUpgrade(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	if err := st.Shop.Upgrade(); err != nil {
		return outcome{}, err
	}
	msg := fmt.Sprintf("The shop expands to level %d.", st.Shop.Level)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalAction, msg,
		map[string]any{"level": st.Shop.Level}, "upgraded")
	return outcome{message: msg, hours: 1}, nil
}

func handleFactionWork(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	name := details["faction"]
	if name == "" {
		return outcome{}, fmt.Errorf("%w: faction work needs a faction", ErrBadRequest)
	}
	faction, ok := o.rules.Faction(name)
	if !ok {
		return outcome{}, fmt.Errorf("%w: no faction named %q", ErrUnknownReference, name)
	}

	check := o.checks.Check("persuasion", 12, st.Character, true)
	var msg string
	var pay, xp int
	if check.Success() {
		pay = 10 + st.Character.Level*2
		st.Character.AddGold(pay)
		st.Character.AdjustReputation(faction.Name, 2)
		xp = 15
		msg = fmt.Sprintf("A day's work for the %s earns you %d gold and some goodwill.", faction.Name, pay)
	} else {
		xp = 5
		msg = fmt.Sprintf("The %s find little use for you today.", faction.Name)
	}
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalFaction, msg,
		map[string]any{"faction": faction.Name, "gold": pay, "check": check}, outcomeWord(check.Success()))
	return outcome{message: msg, hours: 4, xp: xp}, nil
}

func handleFactionDonate(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	name := details["faction"]
	if name == "" {
		return outcome{}, fmt.Errorf("%w: donation needs a faction", ErrBadRequest)
	}
	faction, ok := o.rules.Faction(name)
	if !ok {
		return outcome{}, fmt.Errorf("%w: no faction named %q", ErrUnknownReference, name)
	}
	amount, err := detailInt(details, "gold", 0)
	if err != nil {
		return outcome{}, err
	}
	if amount <= 0 {
		return outcome{}, fmt.Errorf("%w: donation must be positive", ErrBadRequest)
	}
	if st.Character.Gold < amount {
		return outcome{}, fmt.Errorf("%w: need %d gold, have %d", ErrInsufficient, amount, st.Character.Gold)
	}

	st.Character.AddGold(-amount)
	rep := amount / 10
	if rep < 1 {
		rep = 1
	}
	st.Character.AdjustReputation(faction.Name, rep)
	msg := fmt.Sprintf("You donate %d gold to the %s.", amount, faction.Name)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalFaction, msg,
		map[string]any{"faction": faction.Name, "gold": amount, "reputation": rep}, "donated")
	return outcome{message: msg, hours: 1}, nil
}

// handleAllocatePoint spends a level-up skill point. Bookkeeping only; it
// consumes no game time.
func handleAllocatePoint(o *Orchestrator, st *State, details map[string]string) (outcome, error) {
	skill := details["skill"]
	if skill == "" {
		return outcome{}, fmt.Errorf("%w: allocation needs a skill", ErrBadRequest)
	}
	if !character.KnownSkill(skill) {
		return outcome{}, fmt.Errorf("%w: no skill named %q", ErrUnknownReference, skill)
	}
	if st.Character.UnspentSkillPoints <= 0 {
		return outcome{}, fmt.Errorf("%w: no unspent skill points", ErrInsufficient)
	}
	st.Character.AllocateSkillPoint(skill)

	msg := fmt.Sprintf("You sharpen your %s.", skill)
	st.Character.AppendJournal(st.Clock.Day, st.Clock.Hour, character.JournalSystem, msg,
		map[string]any{"skill": skill, "remaining": st.Character.UnspentSkillPoints}, "allocated")
	return outcome{message: msg, hours: 0}, nil
}

func outcomeWord(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
