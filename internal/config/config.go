// Package config provides Viper-based configuration loading for the game
// server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the host:port listen address.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds the on-disk locations of the YAML game content.
type ContentConfig struct {
	// ItemsDir, EventsDir, RecipesDir, TownsDir, and RulesDir are
	// directories scanned for *.yaml / *.yml content files.
	ItemsDir   string `mapstructure:"items_dir"`
	EventsDir  string `mapstructure:"events_dir"`
	RecipesDir string `mapstructure:"recipes_dir"`
	TownsDir   string `mapstructure:"towns_dir"`
	RulesDir   string `mapstructure:"rules_dir"`
}

// EconomyConfig holds the economy tuning knobs.
type EconomyConfig struct {
	Markup               float64 `mapstructure:"markup"`
	Buyback              float64 `mapstructure:"buyback"`
	CritSuccessChance    float64 `mapstructure:"crit_success_chance"`
	CritFailureChance    float64 `mapstructure:"crit_failure_chance"`
	PatronageBaseChance  float64 `mapstructure:"patronage_base_chance"`
	ReputationMultiplier float64 `mapstructure:"reputation_multiplier"`
	ReputationChanceCap  float64 `mapstructure:"reputation_chance_cap"`
}

// EventConfig holds the event trigger tuning knobs.
type EventConfig struct {
	// SkillChance is the per-action chance of an event linked to the
	// action's skill; GenericChance is the fallback for unlinked events.
	SkillChance   float64 `mapstructure:"skill_chance"`
	GenericChance float64 `mapstructure:"generic_chance"`
}

// GameConfig groups the gameplay tuning sections.
type GameConfig struct {
	Economy EconomyConfig `mapstructure:"economy"`
	Events  EventConfig   `mapstructure:"events"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, fmt.Sprintf("telnet.read_timeout must be >= 0, got %v", t.ReadTimeout))
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, fmt.Sprintf("telnet.write_timeout must be >= 0, got %v", t.WriteTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	dirs := map[string]string{
		"content.items_dir":   c.ItemsDir,
		"content.events_dir":  c.EventsDir,
		"content.recipes_dir": c.RecipesDir,
		"content.towns_dir":   c.TownsDir,
		"content.rules_dir":   c.RulesDir,
	}
	for key, dir := range dirs {
		if dir == "" {
			errs = append(errs, fmt.Sprintf("%s must not be empty", key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	chances := map[string]float64{
		"game.economy.crit_success_chance":   g.Economy.CritSuccessChance,
		"game.economy.crit_failure_chance":   g.Economy.CritFailureChance,
		"game.economy.patronage_base_chance": g.Economy.PatronageBaseChance,
		"game.economy.reputation_chance_cap": g.Economy.ReputationChanceCap,
		"game.events.skill_chance":           g.Events.SkillChance,
		"game.events.generic_chance":         g.Events.GenericChance,
	}
	for key, v := range chances {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in [0, 1], got %v", key, v))
		}
	}
	if g.Economy.Markup <= 0 {
		errs = append(errs, fmt.Sprintf("game.economy.markup must be > 0, got %v", g.Economy.Markup))
	}
	if g.Economy.Buyback <= 0 || g.Economy.Buyback > 1 {
		errs = append(errs, fmt.Sprintf("game.economy.buyback must be in (0, 1], got %v", g.Economy.Buyback))
	}
	if g.Economy.ReputationMultiplier < 0 {
		errs = append(errs, fmt.Sprintf("game.economy.reputation_multiplier must be >= 0, got %v", g.Economy.ReputationMultiplier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with EMPORIUM_ prefix
	v.SetEnvPrefix("EMPORIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "emporium")
	v.SetDefault("database.password", "emporium")
	v.SetDefault("database.name", "emporium")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "10m")
	v.SetDefault("telnet.write_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.events_dir", "content/events")
	v.SetDefault("content.recipes_dir", "content/recipes")
	v.SetDefault("content.towns_dir", "content/towns")
	v.SetDefault("content.rules_dir", "content/rules")

	v.SetDefault("game.economy.markup", 1.2)
	v.SetDefault("game.economy.buyback", 0.6)
	v.SetDefault("game.economy.crit_success_chance", 0.05)
	v.SetDefault("game.economy.crit_failure_chance", 0.05)
	v.SetDefault("game.economy.patronage_base_chance", 0.05)
	v.SetDefault("game.economy.reputation_multiplier", 0.001)
	v.SetDefault("game.economy.reputation_chance_cap", 0.2)

	v.SetDefault("game.events.skill_chance", 0.2)
	v.SetDefault("game.events.generic_chance", 0.1)
}
