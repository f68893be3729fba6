package effect

import "sort"

// State tracks all effects currently active on one combatant. At most one
// instance of each type is active at a time.
// It is not safe for concurrent use; the owning combatant serialises access.
type State struct {
	active map[Type]StatusEffect
}

// NewState creates an empty State.
func NewState() *State {
	return &State{active: make(map[Type]StatusEffect)}
}

// Add applies e to this combatant and reports whether anything changed.
//
// If no instance of e.Type is active, e is inserted unconditionally. If one
// is active, the call upgrades it only when the incoming potency is strictly
// greater or the incoming duration is strictly greater; the upgrade takes the
// per-field maximum, so neither potency nor duration ever decreases. An
// incoming effect that is better on neither axis is a no-op.
//
// Precondition: e.Duration > 0 and e.Type is valid (use the package
// constructors).
func (s *State) Add(e StatusEffect) bool {
	if e.Duration <= 0 {
		panic("effect: Add called with non-positive duration")
	}
	if !e.Type.Valid() {
		panic("effect: Add called with unknown type " + string(e.Type))
	}

	existing, ok := s.active[e.Type]
	if !ok {
		s.active[e.Type] = e
		return true
	}
	if e.Potency <= existing.Potency && e.Duration <= existing.Duration {
		return false
	}
	existing.Potency = max(existing.Potency, e.Potency)
	existing.Duration = max(existing.Duration, e.Duration)
	existing.Source = e.Source
	s.active[e.Type] = existing
	return true
}

// Remove deletes the effect of type t. No-op if t is not active.
//
// Postcondition: Has(t) is false.
func (s *State) Remove(t Type) {
	delete(s.active, t)
}

// Has reports whether an effect of type t is currently active.
func (s *State) Has(t Type) bool {
	_, ok := s.active[t]
	return ok
}

// Get returns the active effect of type t, if any.
func (s *State) Get(t Type) (StatusEffect, bool) {
	e, ok := s.active[t]
	return e, ok
}

// Len returns the number of active effects.
func (s *State) Len() int {
	return len(s.active)
}

// Active returns all active effects sorted by type name, for stable display.
func (s *State) Active() []StatusEffect {
	out := make([]StatusEffect, 0, len(s.active))
	for _, e := range s.active {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Tick advances every active effect by one turn. For each effect it computes
// the per-turn health delta (positive damage for DOT types, negative healing
// for regenerating, zero otherwise), then decrements the duration and removes
// effects that reach zero. The returned deltas are computed before removal,
// so an effect's final turn still lands; the caller applies them to health.
//
// Postcondition: no active effect has Duration <= 0.
func (s *State) Tick() map[Type]int {
	deltas := make(map[Type]int, len(s.active))
	for t, e := range s.active {
		deltas[t] = t.tickDelta(e.Potency)
		e.Duration--
		if e.Duration <= 0 {
			delete(s.active, t)
			continue
		}
		s.active[t] = e
	}
	return deltas
}

// IsIncapacitated reports whether any control effect (stunned, frozen,
// paralyzed) is active.
func (s *State) IsIncapacitated() bool {
	for t := range s.active {
		if t.Incapacitating() {
			return true
		}
	}
	return false
}

// ClearAll removes every active effect. Used on death or encounter reset,
// never during normal play.
//
// Postcondition: Len() == 0.
func (s *State) ClearAll() {
	clear(s.active)
}
