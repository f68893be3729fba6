// Package magic implements the spell subsystem consumed by the Skirmish
// combat engine. Most spells differ only in coefficients, so a single
// formula interpreter evaluates parameterized descriptors loaded from
// content files; the minority with genuinely distinct behavior (life drain,
// chaining area damage, Lua-scripted spells) get their own strategy types.
//
// The battle engine never inspects spell internals: it casts through the
// Strategy interface and applies whatever Outcome comes back.
package magic

import (
	"errors"

	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
)

// ErrNoTarget is returned when an enemy-targeting spell is cast without one.
var ErrNoTarget = errors.New("magic: spell requires a target")

// Caster is the view of a combatant the spell system needs to resolve power
// and messages.
type Caster interface {
	Name() string
	Level() int
	Attributes() stats.CoreAttributes
}

// Target is the view of the combatant a spell is aimed at.
type Target interface {
	Name() string
	Attributes() stats.CoreAttributes
}

// Outcome is the result of casting a spell. The combat engine applies the
// returned quantities; it never recomputes them.
type Outcome struct {
	Success  bool
	Damage   int
	Healing  int
	Critical bool

	// Effect is applied to the target, SelfEffect to the caster.
	Effect     *effect.StatusEffect
	SelfEffect *effect.StatusEffect

	// LifeSteal is the fraction of dealt damage returned to the caster as
	// healing, zero for ordinary spells.
	LifeSteal float64

	// HitsAll marks area spells. Damage applies to the primary target in
	// full; every additional target takes Damage scaled by Falloff.
	HitsAll bool
	Falloff float64

	Message string
}

// Strategy resolves one spell cast. Implementations draw all randomness from
// src; the battle engine treats every spell as this opaque contract.
type Strategy interface {
	Cast(caster Caster, target Target, src rng.Source) (Outcome, error)
}
