// Package combat implements the turn-based battle state machine: one player
// against an ordered line of enemies, driven from Ongoing to a terminal
// result by alternating player and enemy turns.
//
// The battle assumes single-owner exclusive access for its whole lifetime.
// Nothing here locks; the owning session serialises calls. Within a round
// the caller runs the player's turn first, then every enemy turn in order,
// then NextTurn, which is also where the player's own timed effects tick.
//
// All randomness flows through one injected source, so a battle replayed
// from the same seed reproduces every draw, decision, and event.
package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/rng"
)

// Result is the battle's lifecycle tag. Transitions move away from Ongoing
// exactly once and never back.
type Result string

const (
	ResultOngoing Result = "ongoing"
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
	ResultFled    Result = "fled"
)

// Terminal reports whether the battle accepts no further mutations.
func (r Result) Terminal() bool {
	return r != ResultOngoing
}

// Rewards is what a victory pays out: the sum of each enemy's configured
// values. Applying it to the player's progression is the caller's business.
type Rewards struct {
	XP   int
	Gold int
}

// Config assembles a battle's collaborators. Source and Logger are
// optional; Source defaults to the crypto-backed generator and Logger to a
// no-op.
type Config struct {
	Player  action.Actor
	Enemies []*npc.Instance
	Catalog *action.Catalog
	Source  rng.Source
	Logger  *zap.Logger
}

// Battle is one encounter. Enemies are owned by the battle and discarded
// with it; the player is borrowed from the session and survives.
type Battle struct {
	id      string
	player  action.Actor
	enemies []*npc.Instance
	catalog *action.Catalog
	src     rng.Source
	logger  *zap.Logger

	turn            int
	result          Result
	playerDefending bool
	rewards         *Rewards
}

// New creates a battle in the Ongoing state.
//
// Precondition: cfg.Player, cfg.Catalog, and at least one enemy are
// required.
func New(cfg Config) (*Battle, error) {
	if cfg.Player == nil {
		return nil, fmt.Errorf("combat: a battle needs a player")
	}
	if len(cfg.Enemies) == 0 {
		return nil, fmt.Errorf("combat: a battle needs at least one enemy")
	}
	for _, e := range cfg.Enemies {
		if e == nil {
			return nil, fmt.Errorf("combat: enemy list contains a nil entry")
		}
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("combat: a battle needs an action catalog")
	}

	src := cfg.Source
	if src == nil {
		src = rng.NewCryptoSource()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Battle{
		id:      uuid.NewString(),
		player:  cfg.Player,
		enemies: cfg.Enemies,
		catalog: cfg.Catalog,
		src:     src,
		logger:  logger,
		result:  ResultOngoing,
	}, nil
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() string { return b.id }

// Turn returns the current round number, starting at 0.
func (b *Battle) Turn() int { return b.turn }

// Result returns the battle's lifecycle tag.
func (b *Battle) Result() Result { return b.result }

// PlayerDefending reports whether the player's one-round guard is up.
func (b *Battle) PlayerDefending() bool { return b.playerDefending }

// Player returns the player combatant.
func (b *Battle) Player() action.Actor { return b.player }

// Enemies returns the battle's enemy line in its fixed order.
func (b *Battle) Enemies() []*npc.Instance {
	out := make([]*npc.Instance, len(b.enemies))
	copy(out, b.enemies)
	return out
}

// Rewards returns the victory payout. ok is false until the battle ends in
// victory.
func (b *Battle) Rewards() (Rewards, bool) {
	if b.rewards == nil {
		return Rewards{}, false
	}
	return *b.rewards, true
}

// StartInfo is the display metadata returned when a battle opens.
// Initiative is informational only; it never reorders turn execution.
type StartInfo struct {
	PlayerInitiative int
	Enemies          []string
	Message          string
}

// Start returns the opening display metadata.
func (b *Battle) Start() StartInfo {
	names := make([]string, len(b.enemies))
	for i, e := range b.enemies {
		names[i] = e.Name()
	}
	b.logger.Info("battle started",
		zap.String("battle_id", b.id),
		zap.String("player", b.player.Name()),
		zap.Int("enemies", len(b.enemies)),
	)
	return StartInfo{
		PlayerInitiative: b.player.Derived().Initiative,
		Enemies:          names,
		Message:          fmt.Sprintf("Battle begins against %d enemies!", len(b.enemies)),
	}
}

// LivingEnemies returns the enemies still standing, in line order.
func (b *Battle) LivingEnemies() []*npc.Instance {
	var out []*npc.Instance
	for _, e := range b.enemies {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// targets returns the living enemies as resolver targets. When chosen is a
// valid index, that enemy leads the slice; the rest follow in line order.
func (b *Battle) targets(chosen int) []action.Target {
	var out []action.Target
	if chosen >= 0 {
		out = append(out, b.enemies[chosen])
	}
	for i, e := range b.enemies {
		if i == chosen || !e.Alive() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// playerDefense returns the player's current effective defense, including
// agility-affecting status effects.
func (b *Battle) playerDefense() int {
	return b.player.Attributes().ScaledDefense(b.player.Effects().AgilityModifier())
}

// checkVictory transitions to Victory when no enemy stands, computing the
// reward sum once.
func (b *Battle) checkVictory(report *TurnReport) {
	for _, e := range b.enemies {
		if e.Alive() {
			return
		}
	}
	b.result = ResultVictory
	total := Rewards{}
	for _, e := range b.enemies {
		xp, gold := e.Rewards()
		total.XP += xp
		total.Gold += gold
	}
	b.rewards = &total
	report.Rewards = &total
	b.logger.Info("battle won",
		zap.String("battle_id", b.id),
		zap.Int("turn", b.turn),
		zap.Int("xp", total.XP),
		zap.Int("gold", total.Gold),
	)
}

// Snapshot returns a read-only projection of the battle for display.
func (b *Battle) Snapshot() Snapshot {
	d := b.player.Derived()
	snap := Snapshot{
		ID:     b.id,
		Turn:   b.turn,
		Result: b.result,
		Player: CombatantView{
			Name:    b.player.Name(),
			Health:  d.Health,
			Max:     d.MaxHealth,
			Mana:    d.Mana,
			MaxMana: d.MaxMana,
			Stamina: d.Stamina,
			MaxStam: d.MaxStamina,
			Effects: effectTags(b.player.Effects()),
		},
	}
	for _, e := range b.enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			Name:      e.Name(),
			Health:    e.Derived().Health,
			Max:       e.Derived().MaxHealth,
			Alive:     e.Alive(),
			Condition: e.HealthDescription(),
			Effects:   effectTags(e.Effects()),
		})
	}
	return snap
}
