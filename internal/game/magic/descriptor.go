package magic

import (
	"fmt"
	"strings"

	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/stats"
)

// Kind selects the formula family a descriptor is evaluated with.
type Kind string

const (
	// KindBolt is single-target magical damage resolved with a spell-power
	// attack roll: willpower resistance, intelligence-keyed criticals,
	// damage variance.
	KindBolt Kind = "bolt"
	// KindHeal restores health to the caster.
	KindHeal Kind = "heal"
	// KindBuff applies a status effect to the caster and deals no damage.
	KindBuff Kind = "buff"
	// KindPower is deterministic damage computed from caster power and a
	// multiplier, with no resistance or critical rolls.
	KindPower Kind = "power"
	// KindDrain is power damage that returns a fraction of it to the caster
	// as healing.
	KindDrain Kind = "drain"
	// KindChain is power damage that arcs to every living enemy, falling
	// off per additional target.
	KindChain Kind = "chain"
	// KindScript delegates resolution to an embedded Lua script.
	KindScript Kind = "script"
)

func (k Kind) valid() bool {
	switch k {
	case KindBolt, KindHeal, KindBuff, KindPower, KindDrain, KindChain, KindScript:
		return true
	}
	return false
}

// powerFamily reports whether the kind resolves through the deterministic
// power formula.
func (k Kind) powerFamily() bool {
	return k == KindPower || k == KindDrain || k == KindChain
}

// ScalingStat names the attribute a power-family spell scales with.
type ScalingStat string

const (
	ScaleIntelligence ScalingStat = "intelligence"
	ScaleWillpower    ScalingStat = "willpower"
)

// Value extracts the scaling attribute from a stat block.
func (s ScalingStat) Value(attrs stats.CoreAttributes) int {
	if s == ScaleWillpower {
		return attrs.Willpower
	}
	return attrs.Intelligence
}

// Requirements gates who may learn a spell.
type Requirements struct {
	MinLevel     int `yaml:"min_level"`
	Intelligence int `yaml:"intelligence"`
	Willpower    int `yaml:"willpower"`
}

// Descriptor is the content-file definition of one spell. All formula-family
// spells are fully described by their coefficients; capability kinds add the
// fields their behavior needs.
type Descriptor struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Kind        Kind         `yaml:"kind"`
	ManaCost    int          `yaml:"mana_cost"`
	Requires    Requirements `yaml:"requires"`

	// School and Element are presentation metadata; resolution never reads
	// them.
	School  string `yaml:"school"`
	Element string `yaml:"element"`

	// BaseDamage feeds bolt spells, BaseHealing heal spells.
	BaseDamage  int `yaml:"base_damage"`
	BaseHealing int `yaml:"base_healing"`

	// PowerMultiplier and Scaling drive the power family.
	PowerMultiplier float64     `yaml:"power_multiplier"`
	Scaling         ScalingStat `yaml:"scaling"`

	// LifeSteal is the healing fraction for drain spells, Falloff the
	// per-extra-target reduction for chain spells.
	LifeSteal float64 `yaml:"life_steal"`
	Falloff   float64 `yaml:"falloff"`

	// GuaranteedHit marks spells that must never be subject to any evasion
	// a consumer might otherwise apply.
	GuaranteedHit bool `yaml:"guaranteed_hit"`

	// Grants is applied to the caster by buff spells and to the target, by
	// chance, by damaging spells.
	Grants effect.Rider `yaml:"grants"`

	// Script names the embedded Lua source for script spells.
	Script string `yaml:"script"`
}

// Validate checks the descriptor for content errors.
//
// Postcondition: a nil return means the descriptor can be bound to a
// strategy without further checks.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("magic: descriptor missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("magic: spell %q missing name", d.ID)
	}
	if !d.Kind.valid() {
		return fmt.Errorf("magic: spell %q has unknown kind %q", d.ID, d.Kind)
	}
	if d.ManaCost <= 0 {
		return fmt.Errorf("magic: spell %q must cost mana", d.ID)
	}
	if d.Requires.MinLevel < 0 || d.Requires.Intelligence < 0 || d.Requires.Willpower < 0 {
		return fmt.Errorf("magic: spell %q has negative requirements", d.ID)
	}

	switch d.Kind {
	case KindBolt:
		if d.BaseDamage <= 0 {
			return fmt.Errorf("magic: bolt spell %q needs base_damage", d.ID)
		}
	case KindHeal:
		if d.BaseHealing <= 0 {
			return fmt.Errorf("magic: heal spell %q needs base_healing", d.ID)
		}
	case KindBuff:
		if d.Grants.Zero() {
			return fmt.Errorf("magic: buff spell %q grants no effect", d.ID)
		}
	case KindScript:
		if d.Script == "" {
			return fmt.Errorf("magic: script spell %q names no script", d.ID)
		}
	}

	if d.Kind.powerFamily() {
		if d.PowerMultiplier <= 0 {
			return fmt.Errorf("magic: spell %q needs power_multiplier", d.ID)
		}
		if d.Scaling != ScaleIntelligence && d.Scaling != ScaleWillpower {
			return fmt.Errorf("magic: spell %q has unknown scaling stat %q", d.ID, d.Scaling)
		}
	}
	if d.Kind == KindDrain && (d.LifeSteal <= 0 || d.LifeSteal > 1) {
		return fmt.Errorf("magic: drain spell %q needs life_steal in (0, 1]", d.ID)
	}
	if d.Kind == KindChain && (d.Falloff < 0 || d.Falloff >= 1) {
		return fmt.Errorf("magic: chain spell %q needs falloff in [0, 1)", d.ID)
	}
	if !d.Grants.Zero() {
		if err := d.Grants.Validate(); err != nil {
			return fmt.Errorf("magic: spell %q: %w", d.ID, err)
		}
	}
	return nil
}

// CanLearn reports whether a caster with the given level and attributes
// meets the spell's requirements.
func (d *Descriptor) CanLearn(level int, attrs stats.CoreAttributes) bool {
	return level >= d.Requires.MinLevel &&
		attrs.Intelligence >= d.Requires.Intelligence &&
		attrs.Willpower >= d.Requires.Willpower
}

// EffectiveManaCost discounts the listed cost as the caster outgrows the
// spell: 2% per level above the requirement, capped at 30%, never below one
// mana.
func (d *Descriptor) EffectiveManaCost(casterLevel int) int {
	reduction := min(0.3, float64(casterLevel-d.Requires.MinLevel)*0.02)
	if reduction < 0 {
		reduction = 0
	}
	return max(int(float64(d.ManaCost)*(1-reduction)), 1)
}

// Power computes the caster's spell power for this descriptor: twice the
// scaling attribute plus three per level.
func (d *Descriptor) Power(caster Caster) int {
	return d.Scaling.Value(caster.Attributes())*2 + caster.Level()*3
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
