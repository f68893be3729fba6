package effect

// DamageModifier returns the multiplier applied to outgoing damage from the
// active buffs and debuffs: strengthened x1.5, weakened x0.5. Both multiply
// when both are present.
//
// Postcondition: returns > 0.
func (s *State) DamageModifier() float64 {
	m := 1.0
	if s.Has(TypeStrengthened) {
		m *= 1.5
	}
	if s.Has(TypeWeakened) {
		m *= 0.5
	}
	return m
}

// DefenseModifier returns the multiplier applied to incoming damage
// mitigation: 1 + potency/100 while shielded, 1.0 otherwise.
//
// Postcondition: returns >= 1.
func (s *State) DefenseModifier() float64 {
	if e, ok := s.Get(TypeShielded); ok {
		return 1.0 + float64(e.Potency)/100.0
	}
	return 1.0
}

// AgilityModifier returns the multiplier applied to effective agility:
// hastened x1.5, slowed x0.5, combined multiplicatively. Frozen dominates
// everything and pins the result to zero.
//
// Postcondition: returns >= 0.
func (s *State) AgilityModifier() float64 {
	if s.Has(TypeFrozen) {
		return 0
	}
	m := 1.0
	if s.Has(TypeHastened) {
		m *= 1.5
	}
	if s.Has(TypeSlowed) {
		m *= 0.5
	}
	return m
}
