package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/castellan/skirmish/internal/game/ai"
	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/stats"
	"github.com/castellan/skirmish/internal/testutil"
)

var _ ai.Combatant = (*npc.Instance)(nil)

// spawn returns a level 1 goblin: strength 9, base damage 7, one special
// ability, default aggression.
func spawn(t rapid.TB, abilities ...string) *npc.Instance {
	t.Helper()
	tmpl := npc.Template{
		ID:         "goblin",
		Name:       "Goblin",
		Level:      1,
		Attributes: stats.CoreAttributes{Strength: 8, Constitution: 7, Agility: 12, Intelligence: 6, Willpower: 5, Charisma: 4},
		Growth:     []string{"strength", "constitution", "agility"},
		BaseDamage: 5, DamagePerLevel: 2,
		Abilities: abilities,
	}
	require.NoError(t, tmpl.Validate())
	return npc.NewInstance(&tmpl, 1)
}

func wound(inst *npc.Instance, fraction float64) {
	d := inst.Derived()
	d.ApplyDamage(d.Health - int(float64(d.MaxHealth)*fraction))
}

func TestChoose_IncapacitatedShortCircuits(t *testing.T) {
	enemy := spawn(t, "Quick Strike")
	enemy.Effects().Add(effect.Stun(1))

	src := testutil.Draws() // any draw would panic

	assert.Equal(t, ai.DecisionIncapacitated, ai.Choose(enemy, src),
		"incapacitation is checked before any draw")
}

func TestChoose_LowHealthDefends(t *testing.T) {
	enemy := spawn(t, "Quick Strike")
	wound(enemy, 0.2)

	src := testutil.Draws(0.39)
	assert.Equal(t, ai.DecisionDefend, ai.Choose(enemy, src))
	assert.Zero(t, src.Remaining(), "the defend branch consumes exactly one draw")
}

func TestChoose_LowHealthCanStillFight(t *testing.T) {
	enemy := spawn(t, "Quick Strike")
	wound(enemy, 0.2)

	// Survive the defend check, skip the special gate, fail aggression.
	src := testutil.Draws(0.45, 0.35, 0.80)
	assert.Equal(t, ai.DecisionDefend, ai.Choose(enemy, src))
	assert.Zero(t, src.Remaining())
}

func TestChoose_SpecialGate(t *testing.T) {
	enemy := spawn(t, "Quick Strike")

	// Gate passes, uniform pick lands in the special third.
	assert.Equal(t, ai.DecisionSpecial, ai.Choose(enemy, testutil.Draws(0.25, 0.20)))

	// Gate passes, uniform pick lands in the attack two-thirds.
	assert.Equal(t, ai.DecisionAttack, ai.Choose(enemy, testutil.Draws(0.25, 0.60)))
}

func TestChoose_NoAbilitiesSkipsSpecialGate(t *testing.T) {
	enemy := spawn(t) // no special abilities

	// First draw goes straight to aggression; second picks the subtype.
	src := testutil.Draws(0.5, 0.6)
	assert.Equal(t, ai.DecisionAttack, ai.Choose(enemy, src))
	assert.Zero(t, src.Remaining())
}

func TestChoose_AttackSubtypes(t *testing.T) {
	enemy := spawn(t)

	assert.Equal(t, ai.DecisionHeavyAttack, ai.Choose(enemy, testutil.Draws(0.5, 0.05)))
	assert.Equal(t, ai.DecisionLightAttack, ai.Choose(enemy, testutil.Draws(0.5, 0.15)))
	assert.Equal(t, ai.DecisionAttack, ai.Choose(enemy, testutil.Draws(0.5, 0.95)))
	assert.Equal(t, ai.DecisionDefend, ai.Choose(enemy, testutil.Draws(0.75)),
		"a draw at or above aggression defends")
}

func TestExecute_Defend(t *testing.T) {
	enemy := spawn(t)

	out := ai.Execute(enemy, ai.DecisionDefend, 10, testutil.Draws())

	assert.True(t, out.Defending)
	assert.Zero(t, out.Damage)
	assert.Equal(t, "Goblin takes a defensive stance!", out.Message)
	assert.False(t, enemy.Defending, "Execute never commits; the battle does")
}

func TestExecute_Incapacitated(t *testing.T) {
	enemy := spawn(t)

	out := ai.Execute(enemy, ai.DecisionIncapacitated, 10, testutil.Draws())

	assert.Zero(t, out.Damage)
	assert.False(t, out.Hit)
	assert.Equal(t, "Goblin is incapacitated!", out.Message)
}

func TestExecute_AttackKnownOutcome(t *testing.T) {
	enemy := spawn(t)

	// Strength 9 vs defense 10: hit, no crit, neutral variance.
	src := testutil.Draws(0.5, 0.5, 0.5)
	out := ai.Execute(enemy, ai.DecisionAttack, 10, src)

	require.True(t, out.Hit)
	assert.False(t, out.Critical)
	assert.Equal(t, 6, out.Damage, "base 7 through defense 10 lands as 6")
	assert.Equal(t, "Goblin attacks!", out.Message)
	assert.Zero(t, src.Remaining())
}

func TestExecute_AttackAppliesOwnDamageModifier(t *testing.T) {
	enemy := spawn(t)
	enemy.Effects().Add(effect.Strengthen(2, 50))

	out := ai.Execute(enemy, ai.DecisionAttack, 10, testutil.Draws(0.5, 0.5, 0.5))

	assert.Equal(t, 9, out.Damage, "strengthened base 10 through defense 10 lands as 9")
}

func TestExecute_MissMessage(t *testing.T) {
	enemy := spawn(t)

	out := ai.Execute(enemy, ai.DecisionAttack, 10, testutil.Draws(0.99))

	assert.False(t, out.Hit)
	assert.Zero(t, out.Damage)
	assert.Equal(t, "Goblin's attack misses!", out.Message)
}

func TestExecute_SpecialAlwaysHits(t *testing.T) {
	enemy := spawn(t, "Quick Strike")

	src := testutil.Draws(0.5, 0.5) // crit, variance
	out := ai.Execute(enemy, ai.DecisionSpecial, 10, src)

	assert.True(t, out.Hit, "specials never miss")
	assert.Equal(t, 10, out.Damage, "150 percent of base 7 resolves to 10")
	assert.Equal(t, "Goblin uses a special ability!", out.Message)
	assert.Zero(t, src.Remaining())
}

func TestChoose_EveryDrawPathTerminates_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		enemy := spawn(t, "Quick Strike")
		if rapid.Bool().Draw(t, "wounded") {
			wound(enemy, 0.2)
		}

		draws := make([]float64, 4)
		for i := range draws {
			draws[i] = rapid.Float64Range(0, 0.999).Draw(t, "draw")
		}

		decision := ai.Choose(enemy, testutil.Draws(draws...))

		switch decision {
		case ai.DecisionDefend, ai.DecisionSpecial, ai.DecisionAttack,
			ai.DecisionLightAttack, ai.DecisionHeavyAttack:
		default:
			t.Fatalf("unexpected decision %q", decision)
		}
	})
}
