// Package stats defines the six core attributes and the derived combat
// statistics computed from them for the Skirmish engine.
package stats

// CoreAttributes holds the six primary attribute scores for a combatant.
// Attributes are fixed for the duration of a battle; only the progression
// layer mutates them between battles.
type CoreAttributes struct {
	Strength     int `yaml:"strength"`
	Constitution int `yaml:"constitution"`
	Agility      int `yaml:"agility"`
	Intelligence int `yaml:"intelligence"`
	Willpower    int `yaml:"willpower"`
	Charisma     int `yaml:"charisma"`
}

// Total returns the sum of all six attribute scores.
func (a CoreAttributes) Total() int {
	return a.Strength + a.Constitution + a.Agility + a.Intelligence + a.Willpower + a.Charisma
}

// PhysicalDamageBonus returns the flat melee damage bonus granted by
// strength: +1 per 2 points above 10, never negative.
//
// Postcondition: return value >= 0.
func (a CoreAttributes) PhysicalDamageBonus() int {
	return max(0, (a.Strength-10)/2)
}

// SpellPower returns the raw spell power score, an equal blend of
// intelligence and willpower.
func (a CoreAttributes) SpellPower() int {
	return a.Intelligence + a.Willpower
}

// Defense returns the defense score used for hit and damage-reduction
// calculations: agility with a small constitution bonus.
func (a CoreAttributes) Defense() int {
	return a.Agility + a.Constitution/3
}

// ScaledDefense returns the defense score with the agility component scaled
// first, for combatants whose agility is altered by an active effect. A
// scale of 1 matches Defense.
func (a CoreAttributes) ScaledDefense(agilityScale float64) int {
	return int(float64(a.Agility)*agilityScale) + a.Constitution/3
}

// Initiative returns the display-only turn-order score: agility with a small
// intelligence bonus. Turn execution never consults it.
func (a CoreAttributes) Initiative() int {
	return a.Agility + a.Intelligence/4
}
