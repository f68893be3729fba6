// Package damage implements the stateless outcome formulas of the Skirmish
// combat engine: physical and magical damage, healing, flee chances, and
// experience rewards.
//
// Every probabilistic outcome draws from an injected rng.Source, and the draw
// order of each function is part of its contract, so identical seeds replay
// identical battles.
package damage

import (
	"github.com/castellan/skirmish/internal/game/rng"
)

const (
	baseHitChance  = 0.85
	baseCritChance = 0.05
	critMultiplier = 2.0
)

// Kind selects the weight of a physical attack.
type Kind string

const (
	// KindLight trades damage for reliability framing: 70% base damage.
	KindLight Kind = "light"
	// KindNormal is the standard attack: 100% base damage.
	KindNormal Kind = "normal"
	// KindHeavy is a committed swing: 130% base damage.
	KindHeavy Kind = "heavy"
)

// ParseKind maps a content-file string onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindLight, KindNormal, KindHeavy:
		return Kind(s), true
	case "":
		return KindNormal, true
	default:
		return "", false
	}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// multiplier returns the base-damage multiplier for the kind.
func (k Kind) multiplier() float64 {
	switch k {
	case KindLight:
		return 0.7
	case KindHeavy:
		return 1.3
	default:
		return 1.0
	}
}

// Outcome is the result of a single attack resolution.
type Outcome struct {
	Damage   int
	Hit      bool
	Critical bool
}

// HitChance returns the probability that a physical attack lands, from the
// attacker's strength against the defender's defense: 85% base, ±2% per point
// of difference.
//
// Postcondition: return value is in [0.10, 0.95].
func HitChance(attackerStrength, defenderDefense int) float64 {
	chance := baseHitChance + float64(attackerStrength-defenderDefense)*0.02
	return clamp(chance, 0.10, 0.95)
}

// CritChance returns the probability of a critical hit for the given primary
// stat: 5% base, +1% per point above 10.
//
// Postcondition: return value is in [0.05, 0.50].
func CritChance(primaryStat int) float64 {
	chance := baseCritChance + float64(max(0, primaryStat-10))*0.01
	return min(0.50, chance)
}

// Physical resolves a physical attack. Draw order: hit, crit, variance.
//
//  1. hit draw against HitChance; a miss resolves to {0, false, false}.
//  2. crit draw against CritChance keyed on strength.
//  3. damage = base scaled by the attack kind, plus the strength bonus,
//     reduced by defense (diminishing returns), doubled on a crit, then
//     multiplied by a variance drawn uniformly in [0.9, 1.1).
//
// Postcondition: a hit deals at least 1 damage; a miss deals exactly 0.
func Physical(strength, defense, base int, kind Kind, src rng.Source) Outcome {
	if !rng.Chance(src, HitChance(strength, defense)) {
		return Outcome{}
	}
	critical := rng.Chance(src, CritChance(strength))

	dmg := int(float64(base) * kind.multiplier())
	dmg += max(0, (strength-10)/2)
	dmg = applyDefense(dmg, defense)
	if critical {
		dmg = int(float64(dmg) * critMultiplier)
	}
	dmg = int(float64(dmg) * rng.Between(src, 0.9, 1.1))

	return Outcome{Damage: max(1, dmg), Hit: true, Critical: critical}
}

// applyDefense reduces damage by the diminishing-returns defense percentage
// defense/(defense+100), flooring at 1.
func applyDefense(damage, defense int) int {
	reduction := float64(defense) / float64(defense+100)
	return max(1, int(float64(damage)*(1-reduction)))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
