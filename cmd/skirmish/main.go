// Package main provides the skirmish binary: it assembles a player and an
// enemy line from configuration, auto-plays one battle, and reports the
// result. Exit code 1 means the player was defeated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/castellan/skirmish/internal/config"
	"github.com/castellan/skirmish/internal/content"
	"github.com/castellan/skirmish/internal/game/character"
	"github.com/castellan/skirmish/internal/game/combat"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
	"github.com/castellan/skirmish/internal/observability"
	"github.com/castellan/skirmish/internal/sim"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment only")
	seed := flag.Int64("seed", 0, "battle seed; 0 picks one from the clock")
	enemies := flag.String("enemies", "", "comma-separated enemy template ids, overriding the configured encounter")
	class := flag.String("class", "", "player class, overriding the configured one")
	level := flag.Int("level", 0, "player level, overriding the configured one")
	rounds := flag.Int("rounds", 0, "round cap, overriding the configured one")
	flag.Parse()

	// Local development reads OTEL_* and SKIRMISH_* settings from .env.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	// SIGINT/SIGTERM cancel the battle loop; the runner returns the context
	// error and the deferred telemetry and log flushes still run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	applyOverrides(&cfg, *seed, *enemies, *class, *level, *rounds)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	tracer := observability.NoopTracer()
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.SetupTracing(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logger.Warn("telemetry setup failed, running without spans", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Warn("telemetry shutdown", zap.Error(err))
				}
			}()
			tracer = observability.Tracer("sim")
		}
	}

	start := time.Now()
	bundle, err := content.Load(cfg.Content)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Strings("classes", bundle.Actions.Classes()),
		zap.Int("spells", bundle.Spells.Len()),
		zap.Int("enemy_templates", bundle.Enemies.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	player, err := buildPlayer(cfg.Sim.Player, bundle)
	if err != nil {
		logger.Fatal("creating player", zap.Error(err))
	}
	logger.Info("player ready",
		zap.String("name", player.Name()),
		zap.String("class", player.Class()),
		zap.Int("level", player.Level()),
		zap.Strings("abilities", player.Abilities()),
	)

	line, err := spawnEncounter(cfg.Sim.Encounter, bundle.Enemies)
	if err != nil {
		logger.Fatal("spawning encounter", zap.Error(err))
	}

	battleSeed := cfg.Sim.Seed
	if battleSeed == 0 {
		battleSeed = time.Now().UnixNano()
	}
	source := rng.NewLogged(rng.NewSeededSource(battleSeed), logger)
	logger.Info("battle seed", zap.Int64("seed", battleSeed))

	battle, err := combat.New(combat.Config{
		Player:  player,
		Enemies: line,
		Catalog: bundle.Actions,
		Source:  source,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("assembling battle", zap.Error(err))
	}

	runner, err := sim.New(sim.Config{
		Battle:    battle,
		Catalog:   bundle.Actions,
		Spells:    bundle.Spells,
		MaxRounds: cfg.Sim.MaxRounds,
		Logger:    logger,
		Tracer:    tracer,
	})
	if err != nil {
		logger.Fatal("assembling runner", zap.Error(err))
	}

	out, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("battle interrupted", zap.Error(err))
			return 1
		}
		logger.Error("running battle", zap.Error(err))
		return 1
	}

	printOutcome(player, out)
	if out.Result == combat.ResultDefeat {
		return 1
	}
	return 0
}

// applyOverrides folds the non-zero command-line flags into the loaded
// config so one config file can serve many runs.
func applyOverrides(cfg *config.Config, seed int64, enemies, class string, level, rounds int) {
	if seed != 0 {
		cfg.Sim.Seed = seed
	}
	if enemies != "" {
		var ids []string
		for _, id := range strings.Split(enemies, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		cfg.Sim.Encounter = ids
	}
	if class != "" {
		cfg.Sim.Player.Class = class
	}
	if level > 0 {
		cfg.Sim.Player.Level = level
	}
	if rounds > 0 {
		cfg.Sim.MaxRounds = rounds
	}
}

func buildPlayer(pc config.PlayerConfig, bundle *content.Bundle) (*character.Player, error) {
	attrs := stats.CoreAttributes{
		Strength:     pc.Attributes.Strength,
		Constitution: pc.Attributes.Constitution,
		Agility:      pc.Attributes.Agility,
		Intelligence: pc.Attributes.Intelligence,
		Willpower:    pc.Attributes.Willpower,
		Charisma:     pc.Attributes.Charisma,
	}
	return character.New(pc.Name, pc.Class, attrs, pc.Level, bundle.Spells)
}

func spawnEncounter(ids []string, registry *npc.Registry) ([]*npc.Instance, error) {
	line := make([]*npc.Instance, 0, len(ids))
	for _, id := range ids {
		inst, err := registry.Spawn(id)
		if err != nil {
			return nil, err
		}
		line = append(line, inst)
	}
	return line, nil
}

// printOutcome writes the human-facing summary to stdout; play-by-play went
// through the logger already.
func printOutcome(player *character.Player, out sim.Outcome) {
	switch out.Result {
	case combat.ResultVictory:
		fmt.Printf("Victory after %d rounds!\n", out.Rounds)
	case combat.ResultDefeat:
		fmt.Printf("Defeated after %d rounds.\n", out.Rounds)
	case combat.ResultFled:
		fmt.Printf("Fled the battle on round %d.\n", out.Rounds)
	default:
		fmt.Printf("Stalemate: no result after %d rounds.\n", out.Rounds)
	}

	snap := out.Snapshot
	fmt.Printf("%s: %d/%d health, %d/%d mana, %d/%d stamina\n",
		snap.Player.Name,
		snap.Player.Health, snap.Player.Max,
		snap.Player.Mana, snap.Player.MaxMana,
		snap.Player.Stamina, snap.Player.MaxStam,
	)
	for _, e := range snap.Enemies {
		fmt.Printf("  %s: %s\n", e.Name, e.Condition)
	}

	if out.Rewards != nil {
		player.Award(out.Rewards.XP, out.Rewards.Gold)
		fmt.Printf("Earned %d XP and %d gold (total %d XP, %d gold).\n",
			out.Rewards.XP, out.Rewards.Gold, player.XP(), player.Gold())
	}
}
