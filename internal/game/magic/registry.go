package magic

import (
	"fmt"
	"sort"

	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
)

// Spell is a registry entry: a validated descriptor bound to the strategy
// that resolves it. The binding happens once, at registry construction;
// nothing dispatches on kind at cast time.
type Spell struct {
	Descriptor
	strategy Strategy
}

// Cast resolves the spell through its bound strategy.
func (s *Spell) Cast(caster Caster, target Target, src rng.Source) (Outcome, error) {
	return s.strategy.Cast(caster, target, src)
}

// TargetsEnemy reports whether the spell must be aimed at an enemy rather
// than the caster.
func (s *Spell) TargetsEnemy() bool {
	switch s.Kind {
	case KindHeal, KindBuff:
		return false
	}
	if s.Kind == KindScript {
		return !s.scriptSelfCast()
	}
	return true
}

func (s *Spell) scriptSelfCast() bool {
	// Script spells currently all target enemies; a self-cast script would
	// grow a descriptor flag here.
	return false
}

// Option adjusts registry construction.
type Option func(*Registry)

// WithScripts supplies Lua sources for script spells, keyed by the
// descriptor's script name.
func WithScripts(scripts map[string]string) Option {
	return func(r *Registry) {
		for name, src := range scripts {
			r.scripts[name] = src
		}
	}
}

// WithInstructionLimit overrides the Lua opcode budget for script spells.
func WithInstructionLimit(limit int) Option {
	return func(r *Registry) { r.instLimit = limit }
}

// WithStrategy overrides the bound strategy for one spell ID. Intended for
// tests and for callers layering experimental spell behavior.
func WithStrategy(id string, strategy Strategy) Option {
	return func(r *Registry) { r.overrides[id] = strategy }
}

// Registry holds every castable spell, resolved and bound at construction.
// A battle receives a fully built registry; no spell is ever registered
// after that.
type Registry struct {
	spells  map[string]*Spell // normalized ID → spell
	byName  map[string]string // normalized display name → ID
	ordered []*Spell

	scripts   map[string]string
	instLimit int
	overrides map[string]Strategy
}

// NewRegistry validates the given descriptors, binds each to its resolution
// strategy, and returns the registry.
//
// Precondition: no two descriptors may share an ID or display name,
// case-insensitively.
// Postcondition: every returned spell casts without further validation.
func NewRegistry(descriptors []Descriptor, opts ...Option) (*Registry, error) {
	r := &Registry{
		spells:    make(map[string]*Spell, len(descriptors)),
		byName:    make(map[string]string, len(descriptors)),
		scripts:   make(map[string]string),
		overrides: make(map[string]Strategy),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range descriptors {
		d := descriptors[i]
		if err := d.Validate(); err != nil {
			return nil, err
		}
		id := normalizeName(d.ID)
		name := normalizeName(d.Name)
		if _, exists := r.spells[id]; exists {
			return nil, fmt.Errorf("magic: duplicate spell id %q", d.ID)
		}
		if prior, exists := r.byName[name]; exists {
			return nil, fmt.Errorf("magic: spell name %q used by both %q and %q", d.Name, prior, d.ID)
		}

		spell := &Spell{Descriptor: d}
		strategy, err := r.bind(&spell.Descriptor)
		if err != nil {
			return nil, err
		}
		spell.strategy = strategy

		r.spells[id] = spell
		r.byName[name] = id
		r.ordered = append(r.ordered, spell)
	}

	sort.Slice(r.ordered, func(i, j int) bool {
		a, b := r.ordered[i], r.ordered[j]
		if a.Requires.MinLevel != b.Requires.MinLevel {
			return a.Requires.MinLevel < b.Requires.MinLevel
		}
		return a.Name < b.Name
	})
	return r, nil
}

// bind selects the strategy for a descriptor. Overrides win; otherwise the
// kind decides.
func (r *Registry) bind(d *Descriptor) (Strategy, error) {
	if s, ok := r.overrides[d.ID]; ok {
		return s, nil
	}
	switch d.Kind {
	case KindBolt, KindHeal, KindBuff, KindPower:
		return &formulaSpell{d: d}, nil
	case KindDrain:
		return &drainSpell{d: d}, nil
	case KindChain:
		return &chainSpell{d: d}, nil
	case KindScript:
		src, ok := r.scripts[d.Script]
		if !ok {
			return nil, fmt.Errorf("magic: script spell %q references unknown script %q", d.ID, d.Script)
		}
		return &scriptSpell{d: d, source: src, instLimit: r.instLimit}, nil
	}
	return nil, fmt.Errorf("magic: spell %q has unknown kind %q", d.ID, d.Kind)
}

// Get looks up a spell by ID or display name, case-insensitively.
func (r *Registry) Get(name string) (*Spell, bool) {
	key := normalizeName(name)
	if s, ok := r.spells[key]; ok {
		return s, true
	}
	if id, ok := r.byName[key]; ok {
		return r.spells[id], true
	}
	return nil, false
}

// All returns every spell ordered by minimum level, then name.
func (r *Registry) All() []*Spell {
	out := make([]*Spell, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Learnable returns the spells a caster with the given level and attributes
// meets the requirements for, in registry order.
func (r *Registry) Learnable(level int, attrs stats.CoreAttributes) []*Spell {
	var out []*Spell
	for _, s := range r.ordered {
		if s.CanLearn(level, attrs) {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of registered spells.
func (r *Registry) Len() int {
	return len(r.spells)
}
