// Package main provides the all-in-one game server. It wires together
// configuration, database, content, the turn engines, and the Telnet
// acceptor.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/config"
	"github.com/cory-johannsen/emporium/internal/frontend/handlers"
	"github.com/cory-johannsen/emporium/internal/frontend/telnet"
	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/economy"
	"github.com/cory-johannsen/emporium/internal/game/event"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/ruleset"
	"github.com/cory-johannsen/emporium/internal/game/session"
	"github.com/cory-johannsen/emporium/internal/game/skillcheck"
	"github.com/cory-johannsen/emporium/internal/game/town"
	"github.com/cory-johannsen/emporium/internal/game/turn"
	"github.com/cory-johannsen/emporium/internal/observability"
	"github.com/cory-johannsen/emporium/internal/server"
	"github.com/cory-johannsen/emporium/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting Emporium server",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	// Connect to PostgreSQL
	ctx := context.Background()
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	// Load game content
	defs, err := item.LoadDefinitions(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	items, err := item.NewRegistry(defs)
	if err != nil {
		logger.Fatal("indexing items", zap.Error(err))
	}

	eventDefs, err := event.LoadFromDir(cfg.Content.EventsDir)
	if err != nil {
		logger.Fatal("loading events", zap.Error(err))
	}
	events, err := event.NewRegistry(eventDefs)
	if err != nil {
		logger.Fatal("indexing events", zap.Error(err))
	}

	recipeDefs, err := economy.LoadRecipesFromDir(cfg.Content.RecipesDir)
	if err != nil {
		logger.Fatal("loading recipes", zap.Error(err))
	}
	recipes, err := economy.NewRecipeBook(recipeDefs)
	if err != nil {
		logger.Fatal("indexing recipes", zap.Error(err))
	}

	townDefs, err := town.LoadFromDir(cfg.Content.TownsDir)
	if err != nil {
		logger.Fatal("loading towns", zap.Error(err))
	}
	towns, err := town.NewCatalog(townDefs)
	if err != nil {
		logger.Fatal("indexing towns", zap.Error(err))
	}

	backgrounds, err := ruleset.LoadBackgrounds(cfg.Content.RulesDir)
	if err != nil {
		logger.Fatal("loading backgrounds", zap.Error(err))
	}
	feats, err := ruleset.LoadFeats(cfg.Content.RulesDir)
	if err != nil {
		logger.Fatal("loading feats", zap.Error(err))
	}
	factions, err := ruleset.LoadFactions(cfg.Content.RulesDir)
	if err != nil {
		logger.Fatal("loading factions", zap.Error(err))
	}
	rules, err := ruleset.NewRegistry(backgrounds, feats, factions)
	if err != nil {
		logger.Fatal("indexing rules", zap.Error(err))
	}

	logger.Info("content loaded",
		zap.Int("items", len(defs)),
		zap.Int("events", len(eventDefs)),
		zap.Int("recipes", len(recipeDefs)),
		zap.Int("towns", towns.Len()),
		zap.Int("backgrounds", len(backgrounds)),
		zap.Int("feats", len(feats)),
		zap.Int("factions", len(factions)),
	)

	// Build the engines
	src := dice.NewCryptoSource()
	checks := skillcheck.NewEngine(items, src)
	eventEngine := event.NewEngine(checks, logger)
	econ := economy.NewEngine(items, recipes, rules, economy.Config{
		Markup:               cfg.Game.Economy.Markup,
		Buyback:              cfg.Game.Economy.Buyback,
		CritSuccessChance:    cfg.Game.Economy.CritSuccessChance,
		CritFailureChance:    cfg.Game.Economy.CritFailureChance,
		PatronageBaseChance:  cfg.Game.Economy.PatronageBaseChance,
		ReputationMultiplier: cfg.Game.Economy.ReputationMultiplier,
		ReputationChanceCap:  cfg.Game.Economy.ReputationChanceCap,
	}, src, logger)
	haggler := haggle.NewMachine(checks, src)
	registry := turn.DefaultRegistry()

	orchestrator := turn.NewOrchestrator(
		registry, events, rules, towns,
		eventEngine, checks, econ, haggler,
		turn.Config{
			SkillEventChance:   cfg.Game.Events.SkillChance,
			GenericEventChance: cfg.Game.Events.GenericChance,
		},
		src, logger,
	)

	// Build services
	characters := postgres.NewCharacterRepository(pool.DB())
	shops := postgres.NewShopRepository(pool.DB())
	sessions := session.NewManager()
	gameHandler := handlers.NewGameHandler(characters, shops, rules, towns, registry, orchestrator, sessions, logger)
	telnetAcceptor := telnet.NewAcceptor(cfg.Telnet, gameHandler, logger)

	// Wire lifecycle
	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			// Pool is already connected; just keep it alive
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	lifecycle.Add("telnet", &server.FuncService{
		StartFn: func() error {
			return telnetAcceptor.ListenAndServe()
		},
		StopFn: func() {
			telnetAcceptor.Stop()
		},
	})

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
