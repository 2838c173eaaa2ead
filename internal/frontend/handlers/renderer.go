package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
	"github.com/cory-johannsen/emporium/internal/game/turn"
)

// RenderResult formats an orchestrator result as colored Telnet text,
// including any pending event choices or haggle offer.
func RenderResult(r *turn.Result) string {
	var b strings.Builder
	b.WriteString("\r\n")

	switch r.Kind {
	case turn.ActionComplete:
		b.WriteString(telnet.Colorize(telnet.White, r.Message))
		b.WriteString("\r\n")
		if r.EventResult != nil {
			b.WriteString(renderEventResult(r))
		}
		if r.HaggleOutcome != nil && r.HaggleOutcome.Check != nil {
			b.WriteString(renderCheckLine(r))
		}

	case turn.ActionFailed:
		b.WriteString(telnet.Colorf(telnet.Red, "%s", r.Reason))
		b.WriteString("\r\n")

	case turn.EventPending:
		if r.Message != "" {
			b.WriteString(telnet.Colorize(telnet.White, r.Message))
			b.WriteString("\r\n")
		}
		b.WriteString(telnet.Colorf(telnet.BrightMagenta, "** %s **", r.EventName))
		b.WriteString("\r\n")
		for _, c := range r.Choices {
			label := c.Text
			if c.Skill != "" {
				label += fmt.Sprintf(" [%s DC %d]", c.Skill, c.DC)
			}
			if c.ItemNote != "" {
				label += " " + telnet.Colorize(telnet.Dim, c.ItemNote)
			}
			b.WriteString(fmt.Sprintf("  %s%d%s. %s\r\n",
				telnet.Green, c.Index+1, telnet.Reset, label))
		}
		b.WriteString(telnet.Colorize(telnet.Dim, "Answer with 'choose <number>'."))
		b.WriteString("\r\n")

	case turn.HagglingPending:
		if r.Message != "" {
			b.WriteString(telnet.Colorize(telnet.White, r.Message))
			b.WriteString("\r\n")
		}
		b.WriteString(RenderHaggleOffer(r.Session))
	}

	if r.HoursSpent > 0 {
		b.WriteString(telnet.Colorf(telnet.Dim, "(%d hour(s) pass)", r.HoursSpent))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderHaggleOffer formats the current state of an open negotiation.
func RenderHaggleOffer(s *haggle.Session) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	verb := "offers"
	if s.Direction == haggle.DirectionPurchase {
		verb = "asks"
	}
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s (%s) %s %d gold for %d %s.",
		s.NPCName, s.Mood, verb, s.CurrentOffer, s.Quantity, s.ItemName))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.Dim, "Round %d of %d.", s.Round+1, s.MaxRounds))
	b.WriteString("\r\n")
	if s.CanStillHaggle {
		b.WriteString(telnet.Colorize(telnet.Dim, "Answer with 'accept', 'persuade', or 'decline'."))
	} else {
		b.WriteString(telnet.Colorize(telnet.Dim, "They won't budge further. 'accept' or 'decline'."))
	}
	b.WriteString("\r\n")
	return b.String()
}

// renderEventResult formats the resolution of an event branch.
func renderEventResult(r *turn.Result) string {
	er := r.EventResult
	var b strings.Builder
	color := telnet.BrightGreen
	if !er.Succeeded {
		color = telnet.BrightRed
	}
	b.WriteString(telnet.Colorize(color, er.Message))
	b.WriteString("\r\n")
	if er.BypassItem != "" {
		b.WriteString(telnet.Colorf(telnet.Cyan, "(your %s carried the day)", er.BypassItem))
		b.WriteString("\r\n")
	} else if er.Check != nil {
		b.WriteString(telnet.Colorf(telnet.Dim, "(%s check: rolled %d vs DC %d)",
			er.Check.Skill, er.Check.Final.Total, er.Check.DC))
		b.WriteString("\r\n")
	}
	return b.String()
}

// renderCheckLine formats the persuasion roll behind a haggle outcome.
func renderCheckLine(r *turn.Result) string {
	chk := r.HaggleOutcome.Check
	word := "fails"
	if chk.Final.Success {
		word = "succeeds"
	}
	return telnet.Colorf(telnet.Dim, "(%s check %s: %d vs DC %d)",
		chk.Skill, word, chk.Final.Total, chk.DC) + "\r\n"
}

// RenderCharacterSheet formats a character as colored Telnet text.
func RenderCharacterSheet(c *character.Character) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s — level %d %s", c.Name, c.Level, c.Background))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("  HP %s%d/%d%s  Hit Dice %d  Exhaustion %d  Gold %s%d%s\r\n",
		telnet.BrightGreen, c.CurrentHP, c.EffectiveMaxHP(), telnet.Reset,
		c.HitDice, c.Exhaustion,
		telnet.BrightYellow, c.Gold, telnet.Reset))
	b.WriteString(fmt.Sprintf("  XP %d (+%d pending)  Unspent skill points: %d\r\n",
		c.Experience, c.PendingXP, c.UnspentSkillPoints))
	b.WriteString(fmt.Sprintf("  STR %2d  DEX %2d  CON %2d  INT %2d  WIS %2d  CHA %2d\r\n",
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma))
	if len(c.Reputations) > 0 {
		names := make([]string, 0, len(c.Reputations))
		for f := range c.Reputations {
			names = append(names, f)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, f := range names {
			parts = append(parts, fmt.Sprintf("%s %+d", f, c.Reputations[f]))
		}
		b.WriteString(telnet.Colorf(telnet.Cyan, "  Standing: %s", strings.Join(parts, ", ")))
		b.WriteString("\r\n")
	}
	if c.IsDead() {
		b.WriteString(telnet.Colorize(telnet.BrightRed, "  You have worked yourself to death."))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderShop formats the shop ledger as colored Telnet text.
func RenderShop(s *shop.Shop) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorf(telnet.BrightYellow, "%s's %s shop (%s)", s.Owner, s.Specialization, s.TownName))
	b.WriteString("\r\n")
	b.WriteString(fmt.Sprintf("  Level %d  Till %s%d gold%s  Reputation %d\r\n",
		s.Level, telnet.BrightYellow, s.Gold, telnet.Reset, s.Reputation))
	b.WriteString(fmt.Sprintf("  Stock %d/%d slots\r\n", len(s.Inventory), s.Capacity()))
	b.WriteString(renderStacks(s.Inventory))
	return b.String()
}

// RenderInventory formats a personal bag as Telnet text.
func RenderInventory(inv character.Inventory) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "You are carrying:"))
	b.WriteString("\r\n")
	b.WriteString(renderStacks(inv))
	return b.String()
}

func renderStacks(inv character.Inventory) string {
	if len(inv) == 0 {
		return telnet.Colorize(telnet.Dim, "  (nothing)") + "\r\n"
	}
	var b strings.Builder
	for _, st := range inv {
		b.WriteString(fmt.Sprintf("  %s%-24s%s %s(%s)%s x%d\r\n",
			telnet.White, st.Name, telnet.Reset,
			telnet.Dim, st.Quality, telnet.Reset, st.Quantity))
	}
	return b.String()
}

// RenderJournal formats the most recent n journal entries, newest last.
func RenderJournal(entries []character.JournalEntry, n int) string {
	var b strings.Builder
	b.WriteString("\r\n")
	if len(entries) == 0 {
		b.WriteString(telnet.Colorize(telnet.Dim, "The journal is blank."))
		b.WriteString("\r\n")
		return b.String()
	}
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	for _, e := range entries[start:] {
		line := fmt.Sprintf("  %sday %d %02d:00%s [%s] %s",
			telnet.Dim, e.Day, e.Hour, telnet.Reset, e.Category, e.Summary)
		if e.Outcome != "" {
			line += telnet.Colorf(telnet.Dim, " (%s)", e.Outcome)
		}
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderTown formats the current town, its people, and any happenings.
func RenderTown(t *town.Town, rules *ruleset.Registry) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(telnet.BrightYellow, t.Name))
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(telnet.White, t.Description))
	b.WriteString("\r\n")
	if len(t.Resources) > 0 {
		b.WriteString(telnet.Colorf(telnet.Cyan, "Local resources: %s", strings.Join(t.Resources, ", ")))
		b.WriteString("\r\n")
	}
	if len(t.NPCs) > 0 {
		names := make([]string, 0, len(t.NPCs))
		for _, n := range t.NPCs {
			names = append(names, fmt.Sprintf("%s (%s)", n.Name, n.Occupation))
		}
		b.WriteString(telnet.Colorf(telnet.Green, "Townsfolk: %s", strings.Join(names, ", ")))
		b.WriteString("\r\n")
	}
	if hq := rules.FactionsAtHQ(t.Name); len(hq) > 0 {
		names := make([]string, 0, len(hq))
		for _, f := range hq {
			names = append(names, f.Name)
		}
		b.WriteString(telnet.Colorf(telnet.Magenta, "Headquartered here: %s", strings.Join(names, ", ")))
		b.WriteString("\r\n")
	}
	if len(t.ActiveEvents) > 0 {
		b.WriteString(telnet.Colorf(telnet.BrightMagenta, "Happenings: %s", strings.Join(t.ActiveEvents, ", ")))
		b.WriteString("\r\n")
	}
	if len(t.TravelHours) > 0 {
		dests := make([]string, 0, len(t.TravelHours))
		for name := range t.TravelHours {
			dests = append(dests, name)
		}
		sort.Strings(dests)
		parts := make([]string, 0, len(dests))
		for _, name := range dests {
			parts = append(parts, fmt.Sprintf("%s (%dh)", name, t.TravelHours[name]))
		}
		b.WriteString(telnet.Colorf(telnet.Cyan, "Roads lead to: %s", strings.Join(parts, ", ")))
		b.WriteString("\r\n")
	}
	return b.String()
}

// RenderActions formats the registered actions as a sorted reference list.
func RenderActions(actions []*turn.Action) string {
	sort.Slice(actions, func(i, j int) bool { return actions[i].Name < actions[j].Name })
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Ways to spend your hours:"))
	b.WriteString("\r\n")
	for _, a := range actions {
		line := fmt.Sprintf("  %s%-16s%s", telnet.Green, a.Name, telnet.Reset)
		if len(a.Aliases) > 0 {
			line += telnet.Colorf(telnet.Dim, " (%s)", strings.Join(a.Aliases, ", "))
		}
		if a.Skill != "" {
			line += telnet.Colorf(telnet.Cyan, " [%s]", a.Skill)
		}
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.String()
}
