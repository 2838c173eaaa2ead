package handlers

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/shop"
)

// IsRandomInput reports whether the player's input at a list step requests
// random selection. Blank input, "r", and "random" (case-insensitive) all do.
// Exported for testing.
func IsRandomInput(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return lower == "" || lower == "r" || lower == "random"
}

// RollAbilityScores rolls 4d6-drop-lowest for each of the six abilities.
//
// Postcondition: every score is in [3, 18].
func RollAbilityScores(r *rand.Rand) character.AbilityScores {
	roll := func() int {
		dice := []int{r.Intn(6) + 1, r.Intn(6) + 1, r.Intn(6) + 1, r.Intn(6) + 1}
		sort.Ints(dice)
		return dice[1] + dice[2] + dice[3]
	}
	return character.AbilityScores{
		Strength:     roll(),
		Dexterity:    roll(),
		Constitution: roll(),
		Intelligence: roll(),
		Wisdom:       roll(),
		Charisma:     roll(),
	}
}

// creationFlow walks a new player through founding a shopkeeper: abilities,
// background, home town, and trade focus, then persists both records.
//
// Postcondition: Returns (nil, nil, nil) when the player cancels, or the
// created character and shop on success.
func (h *GameHandler) creationFlow(ctx context.Context, conn *telnet.Conn, name string) (*character.Character, *shop.Shop, error) {
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightYellow,
		"\r\nNo shopkeeper named %s holds a deed. Let's draw one up.", name))
	_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "Type 'cancel' at any step to start over."))

	abilities, cancelled, err := h.abilityStep(conn)
	if err != nil || cancelled {
		return nil, nil, err
	}

	bg, cancelled, err := h.backgroundStep(conn)
	if err != nil || cancelled {
		return nil, nil, err
	}

	townName, cancelled, err := h.townStep(conn)
	if err != nil || cancelled {
		return nil, nil, err
	}

	spec, cancelled, err := h.specializationStep(conn)
	if err != nil || cancelled {
		return nil, nil, err
	}

	c := character.New(name, abilities, bg.Name, bg.SkillBonuses)
	c.Gold = bg.StartingGold
	c.TownName = townName
	for itemName, qty := range bg.StartingItems {
		c.Inventory.Add(itemName, item.QualityCommon, qty)
	}

	created, err := h.characters.Create(ctx, c)
	if err != nil {
		return nil, nil, fmt.Errorf("creating character: %w", err)
	}

	s, err := shop.New(created.Name, townName, spec)
	if err != nil {
		return nil, nil, fmt.Errorf("founding shop: %w", err)
	}
	s, err = h.shops.Create(ctx, s)
	if err != nil {
		return nil, nil, fmt.Errorf("creating shop: %w", err)
	}

	h.logger.Info("character created",
		zap.String("character", created.Name),
		zap.String("background", bg.Name),
		zap.String("town", townName),
		zap.String("specialization", spec),
	)

	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen,
		"\r\nThe deed is signed. %s now runs a %s shop in %s.", created.Name, spec, townName))
	return created, s, nil
}

// abilityStep rolls ability scores and lets the player reroll until happy.
func (h *GameHandler) abilityStep(conn *telnet.Conn) (character.AbilityScores, bool, error) {
	r := rand.New(rand.NewSource(rand.Int63()))
	for {
		scores := RollAbilityScores(r)
		_ = conn.WriteLine(telnet.Colorize(telnet.BrightWhite, "\r\nYour abilities:"))
		_ = conn.WriteLine(fmt.Sprintf("  STR %2d  DEX %2d  CON %2d  INT %2d  WIS %2d  CHA %2d",
			scores.Strength, scores.Dexterity, scores.Constitution,
			scores.Intelligence, scores.Wisdom, scores.Charisma))
		_ = conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "keep? [Y/n/cancel] "))

		line, err := conn.ReadLine()
		if err != nil {
			return character.AbilityScores{}, false, fmt.Errorf("reading input: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes", "keep":
			return scores, false, nil
		case "cancel":
			return character.AbilityScores{}, true, nil
		}
	}
}

// backgroundStep presents the registered backgrounds as a numbered list.
func (h *GameHandler) backgroundStep(conn *telnet.Conn) (*ruleset.Background, bool, error) {
	backgrounds := h.rules.Backgrounds()
	if len(backgrounds) == 0 {
		return nil, false, fmt.Errorf("no backgrounds are loaded")
	}

	_ = conn.WriteLine(telnet.Colorize(telnet.BrightWhite, "\r\nChoose a background:"))
	for i, bg := range backgrounds {
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s — %s (starting gold: %d)",
			telnet.Green, i+1, telnet.Reset, bg.Name, bg.Description, bg.StartingGold))
	}

	idx, cancelled, err := h.listChoice(conn, len(backgrounds))
	if err != nil || cancelled {
		return nil, cancelled, err
	}
	return backgrounds[idx], false, nil
}

// townStep presents the known towns as a numbered list.
func (h *GameHandler) townStep(conn *telnet.Conn) (string, bool, error) {
	names := h.towns.Names()
	if len(names) == 0 {
		return "", false, fmt.Errorf("no towns are loaded")
	}

	_ = conn.WriteLine(telnet.Colorize(telnet.BrightWhite, "\r\nWhere will you set up shop?"))
	for i, name := range names {
		t, _ := h.towns.Lookup(name)
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s — %s",
			telnet.Green, i+1, telnet.Reset, name, t.Description))
	}

	idx, cancelled, err := h.listChoice(conn, len(names))
	if err != nil || cancelled {
		return "", cancelled, err
	}
	return names[idx], false, nil
}

// specializationStep presents the shop trade focuses as a numbered list.
func (h *GameHandler) specializationStep(conn *telnet.Conn) (string, bool, error) {
	specs := shop.Specializations()

	_ = conn.WriteLine(telnet.Colorize(telnet.BrightWhite, "\r\nWhat is the shop's trade?"))
	for i, s := range specs {
		_ = conn.WriteLine(fmt.Sprintf("  %s%d%s. %s", telnet.Green, i+1, telnet.Reset, s))
	}

	idx, cancelled, err := h.listChoice(conn, len(specs))
	if err != nil || cancelled {
		return "", cancelled, err
	}
	return specs[idx], false, nil
}

// listChoice reads a 1-based selection from a list of n entries. Random
// input picks an entry at random; "cancel" aborts the flow.
func (h *GameHandler) listChoice(conn *telnet.Conn, n int) (int, bool, error) {
	for {
		_ = conn.WritePrompt(telnet.Colorf(telnet.BrightWhite, "choice [1-%d, random, cancel] ", n))
		line, err := conn.ReadLine()
		if err != nil {
			return 0, false, fmt.Errorf("reading input: %w", err)
		}
		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "cancel") {
			return 0, true, nil
		}
		if IsRandomInput(trimmed) {
			return rand.Intn(n), false, nil
		}
		idx, err := strconv.Atoi(trimmed)
		if err == nil && idx >= 1 && idx <= n {
			return idx - 1, false, nil
		}
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Pick a number between 1 and %d.", n))
	}
}
