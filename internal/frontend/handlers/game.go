// Package handlers provides Telnet session handling and command processing
// for the shopkeeper game.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/session"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
	"github.com/cory-johannsen/emporium/internal/game/turn"
	"github.com/cory-johannsen/emporium/internal/storage/postgres"
)

// CharacterStore defines the character persistence operations required by GameHandler.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByName(ctx context.Context, name string) (*character.Character, error)
	Save(ctx context.Context, c *character.Character) error
}

// ShopStore defines the shop persistence operations required by GameHandler.
type ShopStore interface {
	Create(ctx context.Context, s *shop.Shop) (*shop.Shop, error)
	GetByOwner(ctx context.Context, owner string) (*shop.Shop, error)
	Save(ctx context.Context, s *shop.Shop) error
}

const welcomeBanner = `
` + telnet.Bold + telnet.BrightYellow + `
 ███████╗███╗   ███╗██████╗  ██████╗ ██████╗ ██╗██╗   ██╗███╗   ███╗
 ██╔════╝████╗ ████║██╔══██╗██╔═══██╗██╔══██╗██║██║   ██║████╗ ████║
 █████╗  ██╔████╔██║██████╔╝██║   ██║██████╔╝██║██║   ██║██╔████╔██║
 ██╔══╝  ██║╚██╔╝██║██╔═══╝ ██║   ██║██╔══██╗██║██║   ██║██║╚██╔╝██║
 ███████╗██║ ╚═╝ ██║██║     ╚██████╔╝██║  ██║██║╚██████╔╝██║ ╚═╝ ██║
 ╚══════╝╚═╝     ╚═╝╚═╝      ╚═════╝ ╚═╝  ╚═╝╚═╝ ╚═════╝ ╚═╝     ╚═╝` + telnet.Reset + `

` + telnet.BrightCyan + `  Keep the till full and the ledger honest.` + telnet.Reset + `

  Type your shopkeeper's name to take over the counter, or a new name
  to found a shop. Type ` + telnet.Green + `quit` + telnet.Reset + ` to leave.
`

// GameHandler implements telnet.SessionHandler. It owns the character
// lifecycle for one connected player: load or create, then drive turns
// through the orchestrator until the player quits.
type GameHandler struct {
	characters   CharacterStore
	shops        ShopStore
	rules        *ruleset.Registry
	towns        *town.Catalog
	registry     *turn.Registry
	orchestrator *turn.Orchestrator
	sessions     *session.Manager
	logger       *zap.Logger
}

// NewGameHandler creates a GameHandler backed by the given stores and engines.
//
// Precondition: every collaborator must be non-nil.
// Postcondition: Returns a GameHandler ready to handle sessions.
func NewGameHandler(
	characters CharacterStore,
	shops ShopStore,
	rules *ruleset.Registry,
	towns *town.Catalog,
	registry *turn.Registry,
	orchestrator *turn.Orchestrator,
	sessions *session.Manager,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		characters:   characters,
		shops:        shops,
		rules:        rules,
		towns:        towns,
		registry:     registry,
		orchestrator: orchestrator,
		sessions:     sessions,
		logger:       logger,
	}
}

// HandleSession implements telnet.SessionHandler. It shows the welcome
// banner, resolves a character, and runs the turn loop until quit.
//
// Postcondition: Returns nil on clean quit, or an error if the session ended abnormally.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.Write([]byte(welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	c, s, err := h.resolveCharacter(ctx, conn)
	if err != nil {
		return err
	}
	if c == nil {
		// Player quit during creation.
		h.logger.Info("client quit before login",
			zap.String("remote_addr", addr),
			zap.Duration("session_duration", time.Since(start)),
		)
		return nil
	}

	sess, err := h.sessions.Login(c, s, h.towns)
	if err != nil {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Cannot enter the game: %v", err))
		return nil
	}
	defer func() {
		if err := h.persist(ctx, sess); err != nil {
			h.logger.Error("saving state at logout", zap.Error(err))
		}
		_ = h.sessions.Logout(sess.UID)
	}()

	h.logger.Info("player entered the game",
		zap.String("remote_addr", addr),
		zap.String("character", c.Name),
		zap.String("town", c.TownName),
	)

	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen,
		"\r\nWelcome, %s. Your %s shop in %s awaits. It is %s.",
		c.Name, s.Specialization, s.TownName, sess.State.Clock))
	_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "Type 'help' for commands."))

	return h.gameLoop(ctx, conn, sess)
}

// gameLoop reads and dispatches player commands until quit or disconnect.
func (h *GameHandler) gameLoop(ctx context.Context, conn *telnet.Conn, sess *session.PlayerSession) error {
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "The world pauses. Goodbye!"))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(h.prompt(sess.State)); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "You lock up the shop. Goodbye!"))
			return nil

		case "help":
			h.showHelp(conn)

		case "status", "sheet":
			_ = conn.Write([]byte(RenderCharacterSheet(sess.State.Character)))

		case "shop":
			_ = conn.Write([]byte(RenderShop(sess.State.Shop)))

		case "inventory", "inv", "bag":
			_ = conn.Write([]byte(RenderInventory(sess.State.Character.Inventory)))

		case "journal":
			n := 10
			if len(args) > 0 {
				if v, err := strconv.Atoi(args[0]); err == nil && v > 0 {
					n = v
				}
			}
			_ = conn.Write([]byte(RenderJournal(sess.State.Character.Journal, n)))

		case "time":
			_ = conn.WriteLine(telnet.Colorf(telnet.Cyan, "It is %s.", sess.State.Clock))

		case "town":
			_ = conn.Write([]byte(RenderTown(sess.State.Town, h.rules)))

		case "actions":
			_ = conn.Write([]byte(RenderActions(h.registry.Actions())))

		case "save":
			if err := h.persist(ctx, sess); err != nil {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Save failed. Your progress is still live in memory."))
				h.logger.Error("manual save failed", zap.Error(err))
			} else {
				_ = conn.WriteLine(telnet.Colorize(telnet.Green, "Saved."))
			}

		case "choose":
			h.handleChoose(conn, sess, args)

		case "accept", "decline", "persuade":
			h.runTurn(conn, sess, "haggle", map[string]string{"choice": cmd})

		default:
			name, details, err := h.parseAction(cmd, args)
			if err != nil {
				_ = conn.WriteLine(telnet.Colorf(telnet.Red, "%v. Type 'help' for commands.", err))
				continue
			}
			h.runTurn(conn, sess, name, details)
			// Keep gameplay durable without an explicit save command.
			if err := h.persist(ctx, sess); err != nil {
				h.logger.Error("autosave failed", zap.Error(err))
			}
		}
	}
}

// runTurn performs one orchestrated action and renders the result,
// including any pending event or haggle prompt it produced.
func (h *GameHandler) runTurn(conn *telnet.Conn, sess *session.PlayerSession, name string, details map[string]string) {
	result := h.orchestrator.PerformAction(sess.State, name, details)
	_ = conn.Write([]byte(RenderResult(&result)))

	if name == "travel" && result.Kind == turn.ActionComplete {
		if _, err := h.sessions.SyncTown(sess.UID); err != nil {
			h.logger.Warn("syncing town presence", zap.Error(err))
		}
	}
}

// handleChoose resolves a pending event choice.
func (h *GameHandler) handleChoose(conn *telnet.Conn, sess *session.PlayerSession, args []string) {
	if sess.State.PendingEvent == "" {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Nothing is waiting on a choice."))
		return
	}
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: choose <number>"))
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: choose <number>"))
		return
	}

	result := h.orchestrator.ResolveEventChoice(sess.State, sess.State.PendingEvent, idx-1)
	_ = conn.Write([]byte(RenderResult(&result)))
}

// parseAction maps a typed command to a registered action and its details.
func (h *GameHandler) parseAction(cmd string, args []string) (string, map[string]string, error) {
	act, ok := h.registry.Resolve(cmd)
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", cmd)
	}

	details := map[string]string{}
	rest := strings.Join(args, " ")

	switch act.Name {
	case "travel":
		details["destination"] = rest
	case "craft":
		details["recipe"] = rest
	case "converse":
		details["npc"] = rest
	case "trade_buy":
		buyArgs := args
		for i, a := range args {
			if strings.EqualFold(a, "from") && i+1 < len(args) {
				details["npc"] = strings.Join(args[i+1:], " ")
				buyArgs = args[:i]
				break
			}
		}
		name, qty := splitTrailingInt(buyArgs)
		details["item"] = name
		if qty != "" {
			details["quantity"] = qty
		}
	case "trade_sell":
		name, qty := splitTrailingInt(args)
		details["item"] = name
		if qty != "" {
			details["quantity"] = qty
		}
	case "faction_work":
		details["faction"] = rest
	case "faction_donate":
		name, gold := splitTrailingInt(args)
		details["faction"] = name
		details["gold"] = gold
	case "allocate_point":
		details["skill"] = rest
	case "rest_short":
		if len(args) > 0 {
			details["dice"] = args[0]
		}
	}
	return act.Name, details, nil
}

// splitTrailingInt splits args into a joined name and a trailing integer,
// when the last token parses as one. "iron dagger 3" yields ("iron dagger", "3").
func splitTrailingInt(args []string) (string, string) {
	if len(args) == 0 {
		return "", ""
	}
	last := args[len(args)-1]
	if _, err := strconv.Atoi(last); err == nil && len(args) > 1 {
		return strings.Join(args[:len(args)-1], " "), last
	}
	return strings.Join(args, " "), ""
}

// prompt renders the input prompt with the in-game time and any pending
// interruption the player must answer.
func (h *GameHandler) prompt(st *turn.State) string {
	if st.PendingEvent != "" {
		return telnet.Colorf(telnet.BrightMagenta, "[%s | choose] ", st.Clock)
	}
	if st.Haggle != nil {
		return telnet.Colorf(telnet.BrightMagenta, "[%s | haggle] ", st.Clock)
	}
	return telnet.Colorf(telnet.BrightWhite, "[%s] ", st.Clock)
}

// persist writes the character and shop back to storage.
func (h *GameHandler) persist(ctx context.Context, sess *session.PlayerSession) error {
	if err := h.characters.Save(ctx, sess.State.Character); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if err := h.shops.Save(ctx, sess.State.Shop); err != nil {
		return fmt.Errorf("saving shop: %w", err)
	}
	return nil
}

// resolveCharacter prompts for a name, loads the matching character and
// shop, or runs the creation flow when the name is unknown.
//
// Postcondition: Returns (nil, nil, nil) if the player quit, or a loaded
// character and shop pair on success.
func (h *GameHandler) resolveCharacter(ctx context.Context, conn *telnet.Conn) (*character.Character, *shop.Shop, error) {
	for {
		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "name> ")); err != nil {
			return nil, nil, fmt.Errorf("writing prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			return nil, nil, fmt.Errorf("reading input: %w", err)
		}
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "quit") {
			return nil, nil, nil
		}
		if len(name) < 2 || len(name) > 32 {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Names must be 2-32 characters."))
			continue
		}

		c, err := h.characters.GetByName(ctx, name)
		switch {
		case err == nil:
			if _, online := h.sessions.GetByCharName(c.Name); online {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That shopkeeper is already behind the counter elsewhere."))
				continue
			}
			s, err := h.shops.GetByOwner(ctx, c.Name)
			if err != nil {
				return nil, nil, fmt.Errorf("loading shop for %s: %w", c.Name, err)
			}
			_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Welcome back, %s.", c.Name))
			return c, s, nil

		case errors.Is(err, postgres.ErrCharacterNotFound):
			c, s, err := h.creationFlow(ctx, conn, name)
			if err != nil {
				return nil, nil, err
			}
			if c == nil {
				continue // cancelled, ask for a name again
			}
			return c, s, nil

		default:
			return nil, nil, fmt.Errorf("looking up character: %w", err)
		}
	}
}

func (h *GameHandler) showHelp(conn *telnet.Conn) {
	help := telnet.Colorize(telnet.BrightWhite, "Commands:") + "\r\n" +
		telnet.Colorize(telnet.Green, "  status") + "                   — Character sheet\r\n" +
		telnet.Colorize(telnet.Green, "  shop") + "                     — Shop ledger and stock\r\n" +
		telnet.Colorize(telnet.Green, "  inventory") + "                — Personal bag\r\n" +
		telnet.Colorize(telnet.Green, "  journal [n]") + "              — Recent journal entries\r\n" +
		telnet.Colorize(telnet.Green, "  town") + "                     — Where you are\r\n" +
		telnet.Colorize(telnet.Green, "  time") + "                     — The in-game clock\r\n" +
		telnet.Colorize(telnet.Green, "  actions") + "                  — Everything you can spend hours on\r\n" +
		telnet.Colorize(telnet.Green, "  craft <recipe>") + "           — Work the bench\r\n" +
		telnet.Colorize(telnet.Green, "  buy/sell <item> [qty]") + "    — Trade on the town market\r\n" +
		telnet.Colorize(telnet.Green, "  buy <item> from <npc>") + "    — Bargain with a townsperson\r\n" +
		telnet.Colorize(telnet.Green, "  travel <town>") + "            — Hit the road\r\n" +
		telnet.Colorize(telnet.Green, "  choose <n>") + "               — Answer a pending event\r\n" +
		telnet.Colorize(telnet.Green, "  accept/persuade/decline") + "  — Answer a haggling customer\r\n" +
		telnet.Colorize(telnet.Green, "  save") + "                     — Persist now\r\n" +
		telnet.Colorize(telnet.Green, "  quit") + "                     — Lock up and leave\r\n"
	_ = conn.Write([]byte(help))
}
