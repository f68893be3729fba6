// Package config provides Viper-based configuration loading for the skirmish
// simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry tracing settings.
type TelemetryConfig struct {
	// Enabled turns OTLP span export on. Endpoint and headers come from the
	// standard OTEL_* environment variables.
	Enabled bool `mapstructure:"enabled"`
	// ServiceName is the service.name resource attribute on exported spans.
	ServiceName string `mapstructure:"service_name"`
}

// ContentConfig holds game content overrides. An empty directory selects the
// embedded defaults for that content type.
type ContentConfig struct {
	// ActionsDir is a directory of per-class action definition YAML files.
	ActionsDir string `mapstructure:"actions_dir"`
	// EnemiesDir is a directory of enemy template YAML files.
	EnemiesDir string `mapstructure:"enemies_dir"`
	// SpellsDir is a directory of spell descriptor YAML files.
	SpellsDir string `mapstructure:"spells_dir"`
}

// AttributesConfig is the simulated player's starting attribute block.
type AttributesConfig struct {
	Strength     int `mapstructure:"strength"`
	Constitution int `mapstructure:"constitution"`
	Agility      int `mapstructure:"agility"`
	Intelligence int `mapstructure:"intelligence"`
	Willpower    int `mapstructure:"willpower"`
	Charisma     int `mapstructure:"charisma"`
}

// PlayerConfig describes the simulated player.
type PlayerConfig struct {
	// Name is the player's display name.
	Name string `mapstructure:"name"`
	// Class is the player's class: "warrior" or "mage".
	Class string `mapstructure:"class"`
	// Level is the player's starting level.
	Level int `mapstructure:"level"`
	// Attributes is the player's starting attribute block.
	Attributes AttributesConfig `mapstructure:"attributes"`
}

// SimConfig holds battle simulation settings.
type SimConfig struct {
	// Seed drives the deterministic random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
	// MaxRounds aborts a battle that has not reached a terminal result.
	MaxRounds int `mapstructure:"max_rounds"`
	// Player describes the simulated player.
	Player PlayerConfig `mapstructure:"player"`
	// Encounter lists the enemy template IDs to spawn, in turn order.
	Encounter []string `mapstructure:"encounter"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Content   ContentConfig   `mapstructure:"content"`
	Sim       SimConfig       `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelemetry(c.Telemetry); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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

func validateTelemetry(t TelemetryConfig) error {
	if t.Enabled && t.ServiceName == "" {
		return errors.New("telemetry.service_name must not be empty when telemetry is enabled")
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("sim.max_rounds must be >= 1, got %d", s.MaxRounds))
	}
	if s.Player.Name == "" {
		errs = append(errs, "sim.player.name must not be empty")
	}
	validClasses := map[string]bool{"warrior": true, "mage": true}
	if !validClasses[s.Player.Class] {
		errs = append(errs, fmt.Sprintf("sim.player.class must be one of [warrior, mage], got %q", s.Player.Class))
	}
	if s.Player.Level < 1 {
		errs = append(errs, fmt.Sprintf("sim.player.level must be >= 1, got %d", s.Player.Level))
	}
	if err := validateAttributes(s.Player.Attributes); err != nil {
		errs = append(errs, err.Error())
	}
	if len(s.Encounter) == 0 {
		errs = append(errs, "sim.encounter must name at least one enemy template")
	}
	for i, id := range s.Encounter {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Sprintf("sim.encounter[%d] must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAttributes(a AttributesConfig) error {
	fields := []struct {
		name  string
		value int
	}{
		{"strength", a.Strength},
		{"constitution", a.Constitution},
		{"agility", a.Agility},
		{"intelligence", a.Intelligence},
		{"willpower", a.Willpower},
		{"charisma", a.Charisma},
	}
	var errs []string
	for _, f := range fields {
		if f.value < 1 {
			errs = append(errs, fmt.Sprintf("sim.player.attributes.%s must be >= 1, got %d", f.name, f.value))
		}
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

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
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

// Default returns the built-in configuration with no file read. Environment
// overrides still apply.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Default() (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return LoadFromViper(v)
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
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "skirmish")

	v.SetDefault("content.actions_dir", "")
	v.SetDefault("content.enemies_dir", "")
	v.SetDefault("content.spells_dir", "")

	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.max_rounds", 50)
	v.SetDefault("sim.player.name", "Adventurer")
	v.SetDefault("sim.player.class", "warrior")
	v.SetDefault("sim.player.level", 1)
	v.SetDefault("sim.player.attributes.strength", 14)
	v.SetDefault("sim.player.attributes.constitution", 12)
	v.SetDefault("sim.player.attributes.agility", 10)
	v.SetDefault("sim.player.attributes.intelligence", 8)
	v.SetDefault("sim.player.attributes.willpower", 10)
	v.SetDefault("sim.player.attributes.charisma", 10)
	v.SetDefault("sim.encounter", []string{"goblin"})
}
