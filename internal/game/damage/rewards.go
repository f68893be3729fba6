package damage

// FleeChance returns the probability of escaping battle: 50% base, ±5% per
// point of agility difference. Callers pass the mean agility of the living
// opposition, so the inputs are fractional.
//
// Postcondition: return value is in [0.20, 0.90].
func FleeChance(playerAgility, enemyAgility float64) float64 {
	chance := 0.5 + (playerAgility-enemyAgility)*0.05
	return clamp(chance, 0.20, 0.90)
}

// XPReward returns the experience awarded for defeating an enemy of
// enemyLevel by a player of playerLevel: 50 per enemy level, scaled +10% per
// level the enemy is above the player or -5% per level below (floored at a
// 0.1 multiplier), never less than 10.
//
// Postcondition: return value >= 10.
func XPReward(enemyLevel, playerLevel int) int {
	base := 50 * enemyLevel

	diff := enemyLevel - playerLevel
	var multiplier float64
	if diff > 0 {
		multiplier = 1.0 + float64(diff)*0.1
	} else {
		multiplier = max(0.1, 1.0+float64(diff)*0.05)
	}

	return max(10, int(float64(base)*multiplier))
}
