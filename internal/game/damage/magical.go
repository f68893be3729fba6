package damage

import "github.com/castellan/skirmish/internal/game/rng"

// Magical resolves a magical attack. Magic always hits; willpower resists
// instead. Draw order: crit, variance.
//
//  1. damage = base + the caster's spell-power bonus
//     (max(0, (intelligence+willpower-20)/3)).
//  2. resistance max(0, (targetWillpower-10)/2) is subtracted, floored at 1.
//  3. crit draw against CritChance keyed on intelligence; a crit doubles.
//  4. variance drawn uniformly in [0.9, 1.1).
//
// Postcondition: Hit is always true and Damage >= 1.
func Magical(intelligence, willpower, targetWillpower, base int, src rng.Source) Outcome {
	spellPower := intelligence + willpower
	dmg := base + max(0, (spellPower-20)/3)

	resistance := max(0, (targetWillpower-10)/2)
	dmg = max(1, dmg-resistance)

	critical := rng.Chance(src, CritChance(intelligence))
	if critical {
		dmg = int(float64(dmg) * critMultiplier)
	}
	dmg = int(float64(dmg) * rng.Between(src, 0.9, 1.1))

	return Outcome{Damage: max(1, dmg), Hit: true, Critical: critical}
}

// Healing resolves a healing amount from the caster's willpower: base plus
// max(0, (willpower-10)/2), with a wider ±15% variance than damage.
// One variance draw.
//
// Postcondition: return value >= 1.
func Healing(willpower, base int, src rng.Source) int {
	amount := base + max(0, (willpower-10)/2)
	amount = int(float64(amount) * rng.Between(src, 0.85, 1.15))
	return max(1, amount)
}
