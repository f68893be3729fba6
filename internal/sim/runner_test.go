package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/character"
	"github.com/castellan/skirmish/internal/game/combat"
	"github.com/castellan/skirmish/internal/game/magic"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
	"github.com/castellan/skirmish/internal/sim"
	"github.com/castellan/skirmish/internal/testutil"
)

var warriorAttrs = stats.CoreAttributes{Strength: 16, Constitution: 12, Agility: 10, Intelligence: 8, Willpower: 14, Charisma: 10}

// newGoblin spawns the reference goblin: attributes 8/7/12/6/5/4, base
// damage 7 at level 1, aggression 0.8, rewards 50/10.
func newGoblin() *npc.Instance {
	return npc.NewInstance(&npc.Template{
		ID:         "goblin",
		Name:       "Goblin",
		Level:      1,
		Attributes: stats.CoreAttributes{Strength: 8, Constitution: 7, Agility: 12, Intelligence: 6, Willpower: 5, Charisma: 4},
		BaseDamage: 5, DamagePerLevel: 2,
		Aggression: 0.8,
	}, 1)
}

// newTroll spawns a brute that outdamages the reference warrior: 44 base
// damage against 11 per player attack.
func newTroll() *npc.Instance {
	return npc.NewInstance(&npc.Template{
		ID:         "troll",
		Name:       "Troll",
		Level:      1,
		Attributes: stats.CoreAttributes{Strength: 16, Constitution: 18, Agility: 6, Intelligence: 4, Willpower: 8, Charisma: 3},
		BaseDamage: 40, DamagePerLevel: 4,
		Aggression: 0.9,
	}, 1)
}

func warriorDefs() map[string][]action.Definition {
	return map[string][]action.Definition{
		"warrior": {
			{
				ID: "attack", Name: "Attack", Category: action.CategoryAttack, Kind: action.KindStrike,
				StaminaCost: 5, RequiresTarget: true,
				Attack: action.AttackSpec{Kind: "normal", BaseDamage: 10},
			},
			{
				ID: "mighty_blow", Name: "Mighty Blow", Category: action.CategoryAttack, Kind: action.KindStrike,
				StaminaCost: 200, RequiresTarget: true,
				Attack: action.AttackSpec{Kind: "heavy", BaseDamage: 20},
			},
			{ID: "defend", Name: "Defend", Category: action.CategoryDefend, Kind: action.KindDefend},
			{ID: "flee", Name: "Flee", Category: action.CategoryFlee, Kind: action.KindFlee},
		},
	}
}

func newWarriorBattle(t *testing.T, src rng.Source, defs map[string][]action.Definition, enemies ...*npc.Instance) (*combat.Battle, *action.Catalog, *character.Player) {
	t.Helper()
	player, err := character.New("Maeve", character.ClassWarrior, warriorAttrs, 1, nil)
	require.NoError(t, err, "player fixture must build")
	catalog, err := action.NewCatalog(defs, nil)
	require.NoError(t, err, "catalog fixture must build")
	b, err := combat.New(combat.Config{
		Player:  player,
		Enemies: enemies,
		Catalog: catalog,
		Source:  src,
	})
	require.NoError(t, err, "battle fixture must build")
	return b, catalog, player
}

func TestNew_Validation(t *testing.T) {
	b, catalog, _ := newWarriorBattle(t, testutil.Draws(), warriorDefs(), newGoblin())

	_, err := sim.New(sim.Config{Catalog: catalog})
	assert.Error(t, err, "a runner without a battle must be rejected")

	_, err = sim.New(sim.Config{Battle: b})
	assert.Error(t, err, "a runner without a catalog must be rejected")

	_, err = sim.New(sim.Config{Battle: b, Catalog: catalog})
	assert.NoError(t, err)
}

func TestRun_PlaysToVictory(t *testing.T) {
	// Fixed neutral draws: every attack hits without a crit at neutral
	// variance. The player lands 11 per round into the goblin's 85 health,
	// the goblin 6 per round back, so round 8 ends it.
	b, catalog, player := newWarriorBattle(t, &testutil.FixedSource{F: 0.5}, warriorDefs(), newGoblin())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, MaxRounds: 20})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.ResultVictory, out.Result)
	assert.Equal(t, 8, out.Rounds)
	require.NotNil(t, out.Rewards, "victory must carry rewards")
	assert.Equal(t, combat.Rewards{XP: 50, Gold: 10}, *out.Rewards)
	assert.Equal(t, 68, player.Derived().Health, "seven goblin hits of 6 land before the end")
	assert.False(t, out.Snapshot.Enemies[0].Alive)
}

func TestRun_DefendsWhenHurtAndLoses(t *testing.T) {
	// The troll hits for 41; the warrior drops below half health after two
	// rounds, switches to defending, and takes 20 per round until round 4.
	b, catalog, player := newWarriorBattle(t, &testutil.FixedSource{F: 0.5}, warriorDefs(), newTroll())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, MaxRounds: 20})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.ResultDefeat, out.Result)
	assert.Equal(t, 4, out.Rounds)
	assert.Nil(t, out.Rewards, "defeat pays nothing")
	assert.Zero(t, player.Derived().Health)
	assert.True(t, b.PlayerDefending(), "the final stand was made behind a raised guard")
}

func TestRun_HealsWhenHurt(t *testing.T) {
	spells, err := magic.NewRegistry([]magic.Descriptor{{
		ID: "heal", Name: "Heal", Kind: magic.KindHeal,
		BaseHealing: 30, ManaCost: 20,
		Requires: magic.Requirements{MinLevel: 1},
	}})
	require.NoError(t, err)

	defs := map[string][]action.Definition{
		"mage": {
			{
				ID: "staff_attack", Name: "Staff Attack", Category: action.CategoryAttack, Kind: action.KindStrike,
				StaminaCost: 8, RequiresTarget: true,
				Attack: action.AttackSpec{Kind: "light", BaseDamage: 15},
			},
			{ID: "heal", Name: "Heal", Category: action.CategorySpell, Kind: action.KindCast, Spell: "heal"},
			{ID: "defend", Name: "Defend", Category: action.CategoryDefend, Kind: action.KindDefend},
		},
	}
	catalog, err := action.NewCatalog(defs, spells)
	require.NoError(t, err)

	attrs := stats.CoreAttributes{Strength: 8, Constitution: 10, Agility: 10, Intelligence: 16, Willpower: 14, Charisma: 10}
	player, err := character.New("Pug", character.ClassMage, attrs, 1, spells)
	require.NoError(t, err)
	player.Derived().ApplyDamage(60)

	src := testutil.Draws(
		0.5, // heal variance: 32 restored
		0.5, 0.6, // goblin decides to attack
		0.5, 0.5, 0.5, // goblin hits for 6
	)
	b, err := combat.New(combat.Config{
		Player:  player,
		Enemies: []*npc.Instance{newGoblin()},
		Catalog: catalog,
		Source:  src,
	})
	require.NoError(t, err)

	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, Spells: spells, MaxRounds: 1})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.ResultOngoing, out.Result, "one round cannot finish this battle")
	assert.Equal(t, 1, out.Rounds)
	assert.Equal(t, 66, player.Derived().Health, "40 wounded, 32 healed, 6 taken")
	assert.Equal(t, 52, player.Derived().Mana, "the heal cost 20 mana")
	assert.Zero(t, src.Remaining(), "the policy must have chosen the heal, nothing else")
}

func TestRun_FleesWhenNothingAffordable(t *testing.T) {
	defs := map[string][]action.Definition{
		"warrior": {
			{
				ID: "mighty_blow", Name: "Mighty Blow", Category: action.CategoryAttack, Kind: action.KindStrike,
				StaminaCost: 200, RequiresTarget: true,
				Attack: action.AttackSpec{Kind: "heavy", BaseDamage: 20},
			},
			{ID: "defend", Name: "Defend", Category: action.CategoryDefend, Kind: action.KindDefend},
			{ID: "flee", Name: "Flee", Category: action.CategoryFlee, Kind: action.KindFlee},
		},
	}

	src := testutil.Draws(0.01) // escape chance 0.40 against the goblin
	b, catalog, _ := newWarriorBattle(t, src, defs, newGoblin())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, MaxRounds: 5})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.ResultFled, out.Result)
	assert.Equal(t, 1, out.Rounds)
	assert.Nil(t, out.Rewards)
	assert.Zero(t, src.Remaining())
}

func TestRun_StopsAtRoundCap(t *testing.T) {
	defs := map[string][]action.Definition{
		"warrior": {
			{ID: "defend", Name: "Defend", Category: action.CategoryDefend, Kind: action.KindDefend},
			{ID: "flee", Name: "Flee", Category: action.CategoryFlee, Kind: action.KindFlee},
		},
	}

	// High draws: every escape fails and the goblin only defends.
	b, catalog, _ := newWarriorBattle(t, &testutil.FixedSource{F: 0.99}, defs, newGoblin())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, MaxRounds: 4})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.ResultOngoing, out.Result, "a stalemate stays ongoing")
	assert.Equal(t, 4, out.Rounds)
	assert.Nil(t, out.Rewards)
}

func TestRun_DefaultRoundCap(t *testing.T) {
	defs := map[string][]action.Definition{
		"warrior": {
			{ID: "defend", Name: "Defend", Category: action.CategoryDefend, Kind: action.KindDefend},
			{ID: "flee", Name: "Flee", Category: action.CategoryFlee, Kind: action.KindFlee},
		},
	}

	b, catalog, _ := newWarriorBattle(t, &testutil.FixedSource{F: 0.99}, defs, newGoblin())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog})
	require.NoError(t, err)

	out, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sim.DefaultMaxRounds, out.Rounds)
}

func TestRun_SameSeedSameOutcome(t *testing.T) {
	play := func(seed int64) sim.Outcome {
		b, catalog, _ := newWarriorBattle(t, rng.NewSeededSource(seed), warriorDefs(), newGoblin(), newTroll())
		r, err := sim.New(sim.Config{Battle: b, Catalog: catalog, MaxRounds: 30})
		require.NoError(t, err)
		out, err := r.Run(context.Background())
		require.NoError(t, err)
		return out
	}

	first := play(99)
	second := play(99)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Rounds, second.Rounds)
	assert.Equal(t, first.Snapshot.Player.Health, second.Snapshot.Player.Health)
}

func TestRun_ContextCancellation(t *testing.T) {
	b, catalog, _ := newWarriorBattle(t, &testutil.FixedSource{F: 0.5}, warriorDefs(), newGoblin())
	r, err := sim.New(sim.Config{Battle: b, Catalog: catalog})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
