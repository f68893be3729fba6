package action

import (
	"errors"
	"fmt"
	"sort"

	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/magic"
)

// Catalog lookup and legality errors. The battle controller maps these onto
// its own error taxonomy.
var (
	ErrUnknownAction       = errors.New("action: unknown or unavailable action")
	ErrNotUnlocked         = errors.New("action: ability not unlocked")
	ErrInsufficientStamina = errors.New("action: not enough stamina")
	ErrInsufficientMana    = errors.New("action: not enough mana")
)

// Catalog holds every action definition grouped by class, each bound to its
// resolver. Catalogs are built once and never mutated.
type Catalog struct {
	byClass map[string][]*Definition
}

// NewCatalog validates the per-class definition lists, binds each definition
// to its resolver, and returns the catalog. Cast definitions are resolved
// against the spell registry here; an unknown spell or a targeting mismatch
// is a construction error, not a runtime one.
//
// Precondition: spells != nil if any definition casts.
func NewCatalog(lists map[string][]Definition, spells *magic.Registry) (*Catalog, error) {
	c := &Catalog{byClass: make(map[string][]*Definition, len(lists))}

	for class, defs := range lists {
		seen := make(map[string]string, len(defs))
		bound := make([]*Definition, 0, len(defs))
		for i := range defs {
			d := defs[i]
			if err := d.Validate(); err != nil {
				return nil, err
			}
			for _, key := range []string{normalize(d.ID), normalize(d.Name)} {
				if prior, dup := seen[key]; dup && prior != d.ID {
					return nil, fmt.Errorf("action: %s %q collides with %q", class, d.ID, prior)
				}
				seen[key] = d.ID
			}
			if err := bind(&d, spells); err != nil {
				return nil, err
			}
			bound = append(bound, &d)
		}
		c.byClass[class] = bound
	}
	return c, nil
}

// bind attaches the resolver selected by the definition's kind.
func bind(d *Definition, spells *magic.Registry) error {
	switch d.Kind {
	case KindStrike:
		kind, _ := damage.ParseKind(d.Attack.Kind)
		scale := d.Attack.Scale
		if !d.Attack.HitsAll {
			scale = 1
		}
		d.resolver = &strikeResolver{
			name:    d.Name,
			kind:    kind,
			base:    d.Attack.BaseDamage,
			rider:   d.Attack.Rider,
			hitsAll: d.Attack.HitsAll,
			scale:   scale,
		}
	case KindCast:
		if spells == nil {
			return fmt.Errorf("action: cast %q requires a spell registry", d.ID)
		}
		spell, ok := spells.Get(d.Spell)
		if !ok {
			return fmt.Errorf("action: cast %q references unknown spell %q", d.ID, d.Spell)
		}
		if spell.TargetsEnemy() != d.RequiresTarget {
			return fmt.Errorf("action: cast %q targeting disagrees with spell %q", d.ID, d.Spell)
		}
		d.spell = spell
		d.resolver = &castResolver{spell: spell}
	case KindDefend:
		d.resolver = defendResolver{}
	case KindSelfEffect:
		d.resolver = &selfEffectResolver{name: d.Name, grants: d.Grants}
	case KindFlee:
		// No resolver: the controller owns escape resolution.
	}
	return nil
}

// Classes returns the class names the catalog has definitions for, sorted.
func (c *Catalog) Classes() []string {
	out := make([]string, 0, len(c.byClass))
	for class := range c.byClass {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Available returns the actions the actor's class can currently use, in
// content order, filtered by unlocked abilities. Resource shortfalls do not
// filter; a listed action can still fail CanUse.
func (c *Catalog) Available(actor Actor) []*Definition {
	var out []*Definition
	for _, d := range c.byClass[normalize(actor.Class())] {
		if d.Unlock == "" || actor.HasAbility(d.Unlock) {
			out = append(out, d)
		}
	}
	return out
}

// Resolve finds an available action by ID or name, case-insensitively.
// Locked and unknown actions are indistinguishable to the caller.
func (c *Catalog) Resolve(name string, actor Actor) (*Definition, error) {
	key := normalize(name)
	for _, d := range c.Available(actor) {
		if normalize(d.ID) == key || normalize(d.Name) == key {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// CanUse reports whether the actor can pay for the action right now. It is
// a pure check: no resource is ever debited here, and the first failing
// requirement decides the error. Check order: unlock, stamina, mana.
func (c *Catalog) CanUse(actor Actor, d *Definition) error {
	if d.Unlock != "" && !actor.HasAbility(d.Unlock) {
		return fmt.Errorf("%w: %s", ErrNotUnlocked, d.Name)
	}
	stamina, mana := d.Costs(actor.Level())
	derived := actor.Derived()
	if stamina > 0 && derived.Stamina < stamina {
		return fmt.Errorf("%w: %s needs %d, have %d", ErrInsufficientStamina, d.Name, stamina, derived.Stamina)
	}
	if mana > 0 && derived.Mana < mana {
		return fmt.Errorf("%w: %s needs %d, have %d", ErrInsufficientMana, d.Name, mana, derived.Mana)
	}
	return nil
}
