// Package action defines the combat actions a player can take and the
// catalog that resolves them. Actions are declarative content: each
// definition names its costs, its gating ability, and a resolve block that
// the catalog binds to a concrete resolver at construction time. Nothing in
// the battle loop ever branches on an action's name.
package action

import (
	"fmt"
	"strings"

	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/magic"
)

// Category groups actions for presentation and AI reasoning. It never
// affects resolution; the Kind does.
type Category string

const (
	CategoryAttack Category = "attack"
	CategoryDefend Category = "defend"
	CategorySpell  Category = "spell"
	CategoryItem   Category = "item"
	CategoryFlee   Category = "flee"
)

func (c Category) valid() bool {
	switch c {
	case CategoryAttack, CategoryDefend, CategorySpell, CategoryItem, CategoryFlee:
		return true
	}
	return false
}

// Kind selects the resolver a definition is bound to.
type Kind string

const (
	// KindStrike is a physical attack resolved through the to-hit pipeline.
	KindStrike Kind = "strike"
	// KindDefend raises the actor's guard until their next turn.
	KindDefend Kind = "defend"
	// KindSelfEffect applies one or more status effects to the actor.
	KindSelfEffect Kind = "self_effect"
	// KindCast delegates to a spell in the magic registry.
	KindCast Kind = "cast"
	// KindFlee marks an escape attempt. Flee definitions carry no resolver;
	// the battle controller owns escape resolution because it needs
	// battle-level state.
	KindFlee Kind = "flee"
)

func (k Kind) valid() bool {
	switch k {
	case KindStrike, KindDefend, KindSelfEffect, KindCast, KindFlee:
		return true
	}
	return false
}

// AttackSpec parameterizes a strike definition.
type AttackSpec struct {
	// Kind is the attack weight: light, normal, or heavy. Empty means normal.
	Kind string `yaml:"kind"`
	// BaseDamage is the pre-modifier weapon damage.
	BaseDamage int `yaml:"base_damage"`
	// Rider is an optional on-hit effect rolled independently per landed hit.
	Rider effect.Rider `yaml:"rider"`
	// HitsAll strikes every living enemy, each at Scale of base damage.
	HitsAll bool    `yaml:"hits_all"`
	Scale   float64 `yaml:"scale"`
}

// Definition is one content-file combat action.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	Kind        Kind     `yaml:"kind"`

	StaminaCost int `yaml:"stamina_cost"`
	ManaCost    int `yaml:"mana_cost"`

	RequiresTarget bool `yaml:"requires_target"`

	// Unlock names the ability that gates this action; empty means always
	// available to the class.
	Unlock string `yaml:"unlock"`

	// Attack parameterizes strike definitions.
	Attack AttackSpec `yaml:"attack"`

	// Spell names the registry spell a cast definition delegates to.
	Spell string `yaml:"spell"`

	// Grants lists the effects a self_effect definition applies to the
	// actor. Chance is ignored; grants are unconditional.
	Grants []effect.Rider `yaml:"grants"`

	resolver Resolver
	spell    *magic.Spell
}

// Resolver returns the resolver bound at catalog construction, nil for flee
// definitions.
func (d *Definition) Resolver() Resolver {
	return d.resolver
}

// Costs returns the stamina and mana required at the given actor level.
// Cast definitions price mana through the bound spell, which discounts with
// caster level; every other kind uses the flat content costs.
func (d *Definition) Costs(level int) (stamina, mana int) {
	if d.spell != nil {
		return d.StaminaCost, d.spell.EffectiveManaCost(level)
	}
	return d.StaminaCost, d.ManaCost
}

// Validate checks the definition for content errors. Cross-checks against
// the spell registry happen at catalog construction.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("action: definition missing id")
	}
	if d.Name == "" {
		return fmt.Errorf("action: action %q missing name", d.ID)
	}
	if !d.Category.valid() {
		return fmt.Errorf("action: action %q has unknown category %q", d.ID, d.Category)
	}
	if !d.Kind.valid() {
		return fmt.Errorf("action: action %q has unknown kind %q", d.ID, d.Kind)
	}
	if d.StaminaCost < 0 || d.ManaCost < 0 {
		return fmt.Errorf("action: action %q has negative costs", d.ID)
	}

	switch d.Kind {
	case KindStrike:
		if d.Attack.BaseDamage <= 0 {
			return fmt.Errorf("action: strike %q needs base_damage", d.ID)
		}
		if _, ok := damage.ParseKind(d.Attack.Kind); !ok {
			return fmt.Errorf("action: strike %q has unknown attack kind %q", d.ID, d.Attack.Kind)
		}
		if d.Attack.HitsAll {
			if d.Attack.Scale <= 0 || d.Attack.Scale > 1 {
				return fmt.Errorf("action: strike %q needs scale in (0, 1] to hit all enemies", d.ID)
			}
		} else if !d.RequiresTarget {
			return fmt.Errorf("action: strike %q must require a target", d.ID)
		}
		if !d.Attack.Rider.Zero() {
			if err := d.Attack.Rider.Validate(); err != nil {
				return fmt.Errorf("action: strike %q: %w", d.ID, err)
			}
		}
	case KindCast:
		if d.Spell == "" {
			return fmt.Errorf("action: cast %q names no spell", d.ID)
		}
		if d.ManaCost != 0 {
			return fmt.Errorf("action: cast %q sets mana_cost; the spell's cost applies", d.ID)
		}
	case KindSelfEffect:
		if len(d.Grants) == 0 {
			return fmt.Errorf("action: self_effect %q grants nothing", d.ID)
		}
		for _, g := range d.Grants {
			if err := g.Validate(); err != nil {
				return fmt.Errorf("action: self_effect %q: %w", d.ID, err)
			}
		}
		if d.RequiresTarget {
			return fmt.Errorf("action: self_effect %q cannot take a target", d.ID)
		}
	case KindDefend, KindFlee:
		if d.RequiresTarget {
			return fmt.Errorf("action: %s %q cannot take a target", d.Kind, d.ID)
		}
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
