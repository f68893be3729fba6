package character

import "sort"

// AbilityTable maps a level to the ability names first unlocked at that
// level. Tables are cumulative: a character owns every ability at or below
// their level.
type AbilityTable map[int][]string

// defaultWarriorAbilities is the warrior unlock ladder.
var defaultWarriorAbilities = AbilityTable{
	2:  {"Power Strike"},
	3:  {"Shield Bash"},
	5:  {"Whirlwind Attack"},
	7:  {"Battle Cry"},
	10: {"Berserk Rage"},
	12: {"Disarm"},
	15: {"Second Wind"},
	18: {"Weapon Master"},
	20: {"Valheru's Might"},
	25: {"Dragon's Fury"},
	30: {"Ashen-Shugar's Legacy"},
}

// defaultMageAbilities is the mage unlock ladder. Battle-castable spells
// unlock at the level their registry descriptor requires.
var defaultMageAbilities = AbilityTable{
	1:  {"Minor Fireball", "Light"},
	2:  {"Shield", "Ice Shard"},
	3:  {"Heal"},
	4:  {"Arcane Missile"},
	5:  {"Lightning Bolt"},
	7:  {"Invisibility", "Dark Bolt"},
	10: {"Greater Fireball"},
	12: {"Telekinesis", "Chain Lightning"},
	15: {"Dispel Magic"},
	18: {"Rift Magic"},
	20: {"Master's Power"},
	25: {"Time Stop"},
	30: {"Milamber's Fury"},
}

// DefaultAbilities returns the unlock table for a class.
func DefaultAbilities(class string) AbilityTable {
	if class == ClassMage {
		return defaultMageAbilities
	}
	return defaultWarriorAbilities
}

// UnlockedAt returns every ability unlocked at or below level, in unlock
// order.
func (t AbilityTable) UnlockedAt(level int) []string {
	levels := make([]int, 0, len(t))
	for l := range t {
		if l <= level {
			levels = append(levels, l)
		}
	}
	sort.Ints(levels)

	var out []string
	for _, l := range levels {
		out = append(out, t[l]...)
	}
	return out
}

// NewAt returns the abilities first unlocked at exactly level.
func (t AbilityTable) NewAt(level int) []string {
	return t[level]
}

// NextUnlock returns the next level above the given one that grants
// abilities, and those abilities. ok is false when the ladder is exhausted.
func (t AbilityTable) NextUnlock(level int) (nextLevel int, abilities []string, ok bool) {
	levels := make([]int, 0, len(t))
	for l := range t {
		if l > level {
			levels = append(levels, l)
		}
	}
	if len(levels) == 0 {
		return 0, nil, false
	}
	sort.Ints(levels)
	return levels[0], t[levels[0]], true
}
