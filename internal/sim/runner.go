// Package sim auto-plays a battle from start to a terminal result, standing
// in for a human at the controls. The runner plays a deliberately simple
// hand: recover when hurt, otherwise hit the first living enemy with the
// biggest action it can pay for, and run when it can pay for nothing.
//
// One battle, one runner, one goroutine. The combat engine stays pure; all
// narration and tracing for a run happens here.
package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/combat"
	"github.com/castellan/skirmish/internal/game/magic"
	"github.com/castellan/skirmish/internal/observability"
)

// DefaultMaxRounds bounds a run when the config does not.
const DefaultMaxRounds = 50

// Config assembles a runner. Spells, Logger, and Tracer are optional:
// without a spell registry the policy cannot tell heals from other
// self-casts, without a logger the run is silent, and without a tracer no
// spans are recorded.
type Config struct {
	Battle    *combat.Battle
	Catalog   *action.Catalog
	Spells    *magic.Registry
	MaxRounds int
	Logger    *zap.Logger
	Tracer    trace.Tracer
}

// Runner drives one battle to its end.
type Runner struct {
	battle    *combat.Battle
	catalog   *action.Catalog
	spells    *magic.Registry
	maxRounds int
	logger    *zap.Logger
	tracer    trace.Tracer
}

// New creates a runner for the given battle.
//
// Precondition: cfg.Battle and cfg.Catalog are required.
func New(cfg Config) (*Runner, error) {
	if cfg.Battle == nil {
		return nil, fmt.Errorf("sim: a runner needs a battle")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("sim: a runner needs an action catalog")
	}

	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = observability.NoopTracer()
	}

	return &Runner{
		battle:    cfg.Battle,
		catalog:   cfg.Catalog,
		spells:    cfg.Spells,
		maxRounds: maxRounds,
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// Outcome summarises a finished run. Result stays Ongoing when the round
// cap expired before either side won.
type Outcome struct {
	Result   combat.Result
	Rounds   int
	Rewards  *combat.Rewards
	Snapshot combat.Snapshot
}

// Run plays rounds until the battle reaches a terminal result or the round
// cap expires. Within a round the player acts first, then every enemy in
// line order, then the round closes.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	info := r.battle.Start()
	_, span := r.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle_id", r.battle.ID()),
		attribute.String("player", r.battle.Player().Name()),
		attribute.Int("enemies", len(info.Enemies)),
		attribute.Int("initiative", info.PlayerInitiative),
	)
	span.End()
	r.logger.Info(info.Message,
		zap.String("battle_id", r.battle.ID()),
		zap.Strings("enemies", info.Enemies),
	)

	rounds := 0
	for rounds < r.maxRounds && !r.battle.Result().Terminal() {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		rounds++
		if err := r.playRound(ctx, rounds); err != nil {
			return Outcome{}, err
		}
	}

	out := Outcome{
		Result:   r.battle.Result(),
		Rounds:   rounds,
		Snapshot: r.battle.Snapshot(),
	}
	if rewards, ok := r.battle.Rewards(); ok {
		out.Rewards = &rewards
	}

	_, span = r.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle_id", r.battle.ID()),
		attribute.String("result", string(out.Result)),
		attribute.Int("rounds", out.Rounds),
		attribute.Int("player_health", out.Snapshot.Player.Health),
	)
	if out.Rewards != nil {
		span.SetAttributes(
			attribute.Int("xp", out.Rewards.XP),
			attribute.Int("gold", out.Rewards.Gold),
		)
	}
	span.End()
	r.logger.Info("battle over",
		zap.String("battle_id", r.battle.ID()),
		zap.String("result", string(out.Result)),
		zap.Int("rounds", out.Rounds),
	)
	return out, nil
}

// playRound runs one full round: player turn, every enemy slot, upkeep. The
// round stops early the moment the battle turns terminal.
func (r *Runner) playRound(ctx context.Context, round int) error {
	ctx, span := r.tracer.Start(ctx, "battle.round")
	span.SetAttributes(attribute.Int("round", round))
	defer span.End()

	if err := r.playerTurn(ctx); err != nil {
		return err
	}
	if r.battle.Result().Terminal() {
		return nil
	}

	for i := range r.battle.Enemies() {
		if err := r.enemyTurn(ctx, i); err != nil {
			return err
		}
		if r.battle.Result().Terminal() {
			return nil
		}
	}

	report, err := r.battle.NextTurn()
	if err != nil {
		return fmt.Errorf("sim: closing round %d: %w", round, err)
	}
	r.narrate(report)
	return nil
}

// playerTurn picks and plays the player's action. When the policy finds
// nothing it can pay for, the player tries to run instead.
func (r *Runner) playerTurn(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "battle.player_turn")
	defer span.End()

	def, target := r.chooseAction()

	var report *combat.TurnReport
	var err error
	if def == nil {
		report, err = r.battle.AttemptFlee()
	} else {
		report, err = r.battle.PlayerTurn(def.ID, target)
	}
	if err != nil {
		return fmt.Errorf("sim: player turn: %w", err)
	}

	span.SetAttributes(
		attribute.String("action", report.Action),
		attribute.Int("damage", damageDealt(report)),
		attribute.String("result", string(report.Result)),
	)
	r.narrate(report)
	return nil
}

// enemyTurn plays one enemy slot.
func (r *Runner) enemyTurn(ctx context.Context, index int) error {
	_, span := r.tracer.Start(ctx, "battle.enemy_turn")
	defer span.End()

	report, err := r.battle.EnemyTurn(index)
	if err != nil {
		return fmt.Errorf("sim: enemy turn %d: %w", index, err)
	}

	span.SetAttributes(
		attribute.String("enemy", report.Actor),
		attribute.String("action", report.Action),
		attribute.Int("damage", damageDealt(report)),
		attribute.String("result", string(report.Result)),
	)
	r.narrate(report)
	return nil
}

// chooseAction implements the player policy. It returns a nil definition
// when nothing affordable can help, which the caller turns into a flee
// attempt.
func (r *Runner) chooseAction() (*action.Definition, int) {
	available := r.catalog.Available(r.battle.Player())

	if r.hurt() {
		if def := r.recovery(available); def != nil {
			return def, -1
		}
	}
	if def := r.bestAttack(available); def != nil {
		return def, r.firstLivingEnemy()
	}
	return nil, -1
}

// hurt reports whether the player is below half health.
func (r *Runner) hurt() bool {
	d := r.battle.Player().Derived()
	return d.Health*2 < d.MaxHealth
}

// recovery returns an affordable healing cast, falling back to the class's
// defend action when no heal is known or payable.
func (r *Runner) recovery(available []*action.Definition) *action.Definition {
	player := r.battle.Player()
	var defend *action.Definition
	for _, def := range available {
		if r.catalog.CanUse(player, def) != nil {
			continue
		}
		switch {
		case def.Kind == action.KindCast && r.heals(def):
			return def
		case def.Kind == action.KindDefend && defend == nil:
			defend = def
		}
	}
	return defend
}

// heals reports whether a cast definition restores health. Without a spell
// registry the policy cannot see spell kinds, so any self-cast counts.
func (r *Runner) heals(def *action.Definition) bool {
	if r.spells == nil {
		return !def.RequiresTarget
	}
	spell, ok := r.spells.Get(def.Spell)
	return ok && spell.Kind == magic.KindHeal
}

// bestAttack returns the most expensive affordable action that can hurt an
// enemy, on the theory that cost tracks punch. Content order breaks ties.
func (r *Runner) bestAttack(available []*action.Definition) *action.Definition {
	player := r.battle.Player()
	var best *action.Definition
	bestCost := -1
	for _, def := range available {
		if !offensive(def) {
			continue
		}
		if r.catalog.CanUse(player, def) != nil {
			continue
		}
		stamina, mana := def.Costs(player.Level())
		if cost := stamina + mana; cost > bestCost {
			best, bestCost = def, cost
		}
	}
	return best
}

// offensive reports whether resolving the definition can damage an enemy.
func offensive(def *action.Definition) bool {
	switch def.Kind {
	case action.KindStrike:
		return true
	case action.KindCast:
		return def.RequiresTarget
	}
	return false
}

// firstLivingEnemy returns the line index of the first enemy still standing.
func (r *Runner) firstLivingEnemy() int {
	for i, e := range r.battle.Enemies() {
		if e.Alive() {
			return i
		}
	}
	return -1
}

// damageDealt sums the damage the turn's actor landed.
func damageDealt(report *combat.TurnReport) int {
	total := 0
	for _, e := range report.Events {
		if e.Kind == combat.EventStrike && e.Actor == report.Actor {
			total += e.Amount
		}
	}
	return total
}

// narrate logs the report's display lines in resolution order.
func (r *Runner) narrate(report *combat.TurnReport) {
	if report.Message != "" && !duplicated(report) {
		r.logger.Info(report.Message, zap.String("actor", report.Actor))
	}
	for _, e := range report.Events {
		if e.Narrative == "" {
			continue
		}
		fields := []zap.Field{zap.String("kind", string(e.Kind))}
		if e.Amount > 0 {
			fields = append(fields, zap.Int("amount", e.Amount))
		}
		r.logger.Info(e.Narrative, fields...)
	}
}

// duplicated reports whether an event already carries the report's message,
// as the defend stance line does.
func duplicated(report *combat.TurnReport) bool {
	for _, e := range report.Events {
		if e.Narrative == report.Message {
			return true
		}
	}
	return false
}
