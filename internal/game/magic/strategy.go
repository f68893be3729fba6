package magic

import (
	"fmt"

	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/rng"
)

// formulaSpell evaluates the four descriptor-driven families. One
// interpreter covers every spell whose behavior is fully captured by
// coefficients; only capability kinds get dedicated types below.
type formulaSpell struct {
	d *Descriptor
}

// Cast resolves the spell against the descriptor's formula family.
//
// Precondition: the registry only binds formulaSpell to bolt, heal, buff,
// and power descriptors.
func (f *formulaSpell) Cast(caster Caster, target Target, src rng.Source) (Outcome, error) {
	d := f.d
	switch d.Kind {
	case KindBolt:
		if target == nil {
			return Outcome{}, ErrNoTarget
		}
		attrs := caster.Attributes()
		roll := damage.Magical(attrs.Intelligence, attrs.Willpower, target.Attributes().Willpower, d.BaseDamage, src)
		return Outcome{
			Success:  true,
			Damage:   roll.Damage,
			Critical: roll.Critical,
			Effect:   d.Grants.Roll(src, d.Name),
			Message:  fmt.Sprintf("%s casts %s at %s", caster.Name(), d.Name, target.Name()),
		}, nil
	case KindHeal:
		healed := damage.Healing(caster.Attributes().Willpower, d.BaseHealing, src)
		return Outcome{
			Success: true,
			Healing: healed,
			Message: fmt.Sprintf("%s casts %s", caster.Name(), d.Name),
		}, nil
	case KindBuff:
		granted := d.Grants.Grant(d.Name)
		return Outcome{
			Success:    true,
			SelfEffect: &granted,
			Message:    fmt.Sprintf("%s casts %s", caster.Name(), d.Name),
		}, nil
	case KindPower:
		if target == nil {
			return Outcome{}, ErrNoTarget
		}
		return Outcome{
			Success: true,
			Damage:  powerDamage(d, caster),
			Effect:  d.Grants.Roll(src, d.Name),
			Message: fmt.Sprintf("%s casts %s at %s", caster.Name(), d.Name, target.Name()),
		}, nil
	}
	panic(fmt.Sprintf("magic: formula interpreter bound to %q descriptor", d.Kind))
}

// powerDamage is the deterministic power-family formula: spell power times
// the descriptor multiplier, truncated.
func powerDamage(d *Descriptor, caster Caster) int {
	return int(float64(d.Power(caster)) * d.PowerMultiplier)
}

// drainSpell deals power damage and returns a fraction of it to the caster.
type drainSpell struct {
	d *Descriptor
}

func (s *drainSpell) Cast(caster Caster, target Target, src rng.Source) (Outcome, error) {
	if target == nil {
		return Outcome{}, ErrNoTarget
	}
	dealt := powerDamage(s.d, caster)
	return Outcome{
		Success:   true,
		Damage:    dealt,
		Healing:   int(float64(dealt) * s.d.LifeSteal),
		LifeSteal: s.d.LifeSteal,
		Effect:    s.d.Grants.Roll(src, s.d.Name),
		Message:   fmt.Sprintf("%s casts %s at %s", caster.Name(), s.d.Name, target.Name()),
	}, nil
}

// chainSpell deals power damage to every living enemy, reduced per
// additional target.
type chainSpell struct {
	d *Descriptor
}

func (s *chainSpell) Cast(caster Caster, target Target, src rng.Source) (Outcome, error) {
	if target == nil {
		return Outcome{}, ErrNoTarget
	}
	return Outcome{
		Success: true,
		Damage:  powerDamage(s.d, caster),
		HitsAll: true,
		Falloff: 1 - s.d.Falloff,
		Effect:  s.d.Grants.Roll(src, s.d.Name),
		Message: fmt.Sprintf("%s casts %s at %s", caster.Name(), s.d.Name, target.Name()),
	}, nil
}
