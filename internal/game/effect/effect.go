// Package effect implements timed status effects for combatants: the fixed
// effect taxonomy, the per-combatant active table with stacking and expiry
// rules, and the stat modifiers derived from what is active.
package effect

// Type identifies one kind of status effect. The set is fixed; content files
// refer to effects by these names.
type Type string

// Damage/healing-over-time effects. Regenerating is the healing analogue:
// its per-turn delta is negative.
const (
	TypeBleeding     Type = "bleeding"
	TypeBurning      Type = "burning"
	TypePoison       Type = "poison"
	TypeRegenerating Type = "regenerating"
)

// Control effects. Each one incapacitates: the affected combatant loses its
// turn while any is active.
const (
	TypeStunned   Type = "stunned"
	TypeFrozen    Type = "frozen"
	TypeParalyzed Type = "paralyzed"
)

// Stat debuffs.
const (
	TypeWeakened Type = "weakened"
	TypeSlowed   Type = "slowed"
	TypeConfused Type = "confused"
)

// Buffs.
const (
	TypeStrengthened Type = "strengthened"
	TypeShielded     Type = "shielded"
	TypeHastened     Type = "hastened"
)

// allTypes lists every valid effect type.
var allTypes = map[Type]bool{
	TypeBleeding: true, TypeBurning: true, TypePoison: true, TypeRegenerating: true,
	TypeStunned: true, TypeFrozen: true, TypeParalyzed: true,
	TypeWeakened: true, TypeSlowed: true, TypeConfused: true,
	TypeStrengthened: true, TypeShielded: true, TypeHastened: true,
}

// Valid reports whether t names a known effect type.
func (t Type) Valid() bool {
	return allTypes[t]
}

// String returns the effect name.
func (t Type) String() string {
	return string(t)
}

// Incapacitating reports whether t prevents its bearer from acting.
func (t Type) Incapacitating() bool {
	return t == TypeStunned || t == TypeFrozen || t == TypeParalyzed
}

// tickDelta returns the per-turn health delta for one tick of t at the given
// potency: positive is damage, negative is healing, zero for effects with no
// over-time component.
func (t Type) tickDelta(potency int) int {
	switch t {
	case TypeBleeding, TypeBurning, TypePoison:
		return potency
	case TypeRegenerating:
		return -potency
	default:
		return 0
	}
}

// StatusEffect is one applied instance of an effect. It exists only while
// Duration > 0. Potency semantics depend on Type: damage or healing per turn
// for over-time effects, a percentage for shielded, unused for control types.
// Source is a diagnostic label naming what applied the effect.
type StatusEffect struct {
	Type     Type
	Duration int
	Potency  int
	Source   string
}

// New constructs a StatusEffect.
//
// Precondition: t must be a valid type and duration must be positive.
func New(t Type, duration, potency int, source string) StatusEffect {
	if !t.Valid() {
		panic("effect: New called with unknown type " + string(t))
	}
	if duration <= 0 {
		panic("effect: New called with non-positive duration")
	}
	return StatusEffect{Type: t, Duration: duration, Potency: potency, Source: source}
}

// Bleeding returns a bleeding effect dealing potency damage per turn.
func Bleeding(duration, potency int) StatusEffect {
	return New(TypeBleeding, duration, potency, "bleeding")
}

// Burning returns a burning effect dealing potency damage per turn.
func Burning(duration, potency int) StatusEffect {
	return New(TypeBurning, duration, potency, "burning")
}

// Poison returns a poison effect dealing potency damage per turn.
func Poison(duration, potency int) StatusEffect {
	return New(TypePoison, duration, potency, "poison")
}

// Stun returns a stunning effect for the given number of turns.
func Stun(duration int) StatusEffect {
	return New(TypeStunned, duration, 0, "stun")
}

// Strengthen returns a damage buff. Potency is informational; the damage
// modifier for strengthened is fixed.
func Strengthen(duration, potency int) StatusEffect {
	return New(TypeStrengthened, duration, potency, "strengthen")
}

// Shield returns a shielded buff raising effective defense by potency percent.
func Shield(duration, potency int) StatusEffect {
	return New(TypeShielded, duration, potency, "shield")
}

// Regeneration returns a healing-over-time effect restoring potency health
// per turn.
func Regeneration(duration, potency int) StatusEffect {
	return New(TypeRegenerating, duration, potency, "regeneration")
}
