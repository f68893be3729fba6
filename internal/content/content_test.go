package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/skirmish/internal/config"
	"github.com/castellan/skirmish/internal/content"
	"github.com/castellan/skirmish/internal/game/character"
	"github.com/castellan/skirmish/internal/game/stats"
	"github.com/castellan/skirmish/internal/testutil"
)

func mustLoadDefaults(t *testing.T) *content.Bundle {
	t.Helper()
	bundle, err := content.Load(config.ContentConfig{})
	require.NoError(t, err)
	return bundle
}

func availableIDs(t *testing.T, b *content.Bundle, class string, level int) []string {
	t.Helper()
	attrs := stats.CoreAttributes{Strength: 14, Constitution: 12, Agility: 10, Intelligence: 16, Willpower: 14, Charisma: 10}
	p, err := character.New("Tester", class, attrs, level, b.Spells)
	require.NoError(t, err)

	var ids []string
	for _, d := range b.Actions.Available(p) {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestEmbeddedDefaultsBuild(t *testing.T) {
	bundle := mustLoadDefaults(t)

	assert.Equal(t, []string{"dark_mage", "dragon", "goblin", "orc", "troll"}, bundle.Enemies.IDs())
	assert.Equal(t, 12, bundle.Spells.Len())
	assert.Equal(t, []string{"mage", "warrior"}, bundle.Actions.Classes())
}

func TestWarriorActionsFollowUnlockLadder(t *testing.T) {
	bundle := mustLoadDefaults(t)

	fresh := availableIDs(t, bundle, character.ClassWarrior, 1)
	assert.Equal(t, []string{"light_attack", "attack", "heavy_attack", "defend", "flee"}, fresh)

	veteran := availableIDs(t, bundle, character.ClassWarrior, 10)
	assert.Contains(t, veteran, "power_strike")
	assert.Contains(t, veteran, "shield_bash")
	assert.Contains(t, veteran, "whirlwind_attack")
	assert.Contains(t, veteran, "battle_cry")
	assert.Contains(t, veteran, "berserk_rage")
}

func TestMageActionsFollowUnlockLadder(t *testing.T) {
	bundle := mustLoadDefaults(t)

	ids := availableIDs(t, bundle, character.ClassMage, 5)
	assert.Equal(t, []string{
		"staff_attack", "minor_fireball", "magic_shield", "heal",
		"ice_shard", "arcane_missile", "lightning_bolt", "defend", "flee",
	}, ids)

	assert.NotContains(t, ids, "dark_bolt", "dark bolt unlocks at level 7")
	assert.NotContains(t, ids, "greater_fireball", "greater fireball unlocks at level 10")
}

func TestEmbeddedSpellLookups(t *testing.T) {
	bundle := mustLoadDefaults(t)

	for _, name := range []string{
		"Minor Fireball", "Fireball", "Ice Shard", "Arcane Missile",
		"Lightning Bolt", "Dark Bolt", "Greater Fireball", "Chain Lightning",
		"Minor Heal", "Heal", "Shield", "Rift Magic",
	} {
		_, ok := bundle.Spells.Get(name)
		assert.True(t, ok, "default spell %q must be registered", name)
	}
}

func TestRiftMagicScriptCasts(t *testing.T) {
	bundle := mustLoadDefaults(t)

	spell, ok := bundle.Spells.Get("Rift Magic")
	require.True(t, ok)

	attrs := stats.CoreAttributes{Strength: 8, Constitution: 12, Agility: 10, Intelligence: 24, Willpower: 22, Charisma: 12}
	caster, err := character.New("Pug", character.ClassMage, attrs, 18, bundle.Spells)
	require.NoError(t, err)
	target, err := bundle.Enemies.Spawn("dark_mage")
	require.NoError(t, err)

	// power = 24*2 + 18*3 = 102, base = 306; a middle draw makes the surge
	// exactly 1.0. Dark mage willpower at level 7 is 14+7, so resist is 5.
	src := testutil.Draws(0.5)
	out, err := spell.Cast(caster, target, src)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, 301, out.Damage)
	assert.Contains(t, out.Message, "tears open a rift beneath")
	assert.Zero(t, src.Remaining(), "the script draws exactly once")
}

func TestScriptsIncludeRiftMagic(t *testing.T) {
	scripts, err := content.Scripts()
	require.NoError(t, err)
	assert.Contains(t, scripts, "rift_magic")
}

func TestEnemyDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "rats.yaml"), []byte(`
enemies:
  - id: giant_rat
    name: Giant Rat
    level: 1
    attributes:
      strength: 6
      constitution: 5
      agility: 14
      intelligence: 2
      willpower: 3
      charisma: 1
    growth: [agility]
    base_damage: 3
    damage_per_level: 1
`), 0644)
	require.NoError(t, err)

	bundle, err := content.Load(config.ContentConfig{EnemiesDir: dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"giant_rat"}, bundle.Enemies.IDs())
	// Unconfigured content types still use the embedded defaults.
	assert.Equal(t, 12, bundle.Spells.Len())
}

func TestOverrideRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
enemies:
  - id: goblin
    name: Goblin
    level: 1
    basedamage: 5
`), 0644)
	require.NoError(t, err)

	_, err = content.Load(config.ContentConfig{EnemiesDir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestOverrideDirectoryEmpty(t *testing.T) {
	_, err := content.Load(config.ContentConfig{SpellsDir: t.TempDir()})
	assert.Error(t, err, "an override directory with no content files is a configuration mistake")
}
