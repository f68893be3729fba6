// Package ai implements the enemy decision policy: a fixed sequence of
// probability draws choosing between attacking, defending, and special
// abilities, biased by a per-enemy aggression parameter.
//
// The draw order is part of the policy's contract. A replay from the same
// seed must reproduce the same decisions, so nothing here may draw
// conditionally except as documented on Choose.
package ai

import (
	"fmt"

	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
)

const (
	// lowHealthFraction is the health fraction under which self-preservation
	// kicks in.
	lowHealthFraction = 0.30
	// lowHealthDefendChance is the chance to defend once below that line.
	lowHealthDefendChance = 0.40
	// specialGateChance is the chance to even consider a special ability.
	specialGateChance = 0.30
	// heavyChance and lightChance split the attack-subtype draw:
	// < 0.10 heavy, < 0.30 light, otherwise normal.
	heavyChance = 0.10
	lightChance = 0.30

	// baselineWillpower is the resistance stand-in used for special
	// abilities, which are resolved without a real target willpower.
	baselineWillpower = 10
	// specialDamageScale boosts a special's base damage over a plain attack.
	specialDamageScale = 1.5
)

// Combatant is the view of an enemy the policy needs to pick and resolve an
// action.
type Combatant interface {
	Name() string
	Attributes() stats.CoreAttributes
	Derived() *stats.DerivedStats
	Effects() *effect.State
	BaseDamage() int
	Abilities() []string
	Aggression() float64
}

// Decision is the action the policy picked for one round.
type Decision string

const (
	DecisionIncapacitated Decision = "incapacitated"
	DecisionDefend        Decision = "defend"
	DecisionSpecial       Decision = "special"
	DecisionAttack        Decision = "attack"
	DecisionLightAttack   Decision = "light_attack"
	DecisionHeavyAttack   Decision = "heavy_attack"
)

// Choose picks the enemy's action for this round. Draw order:
//
//  1. no draw: an incapacitated enemy always yields DecisionIncapacitated.
//  2. one draw, only when health is below 30%: defend on draw < 0.40.
//  3. one draw, only when the enemy has special abilities: on draw < 0.30 a
//     further draw picks uniformly among {special, attack, attack}.
//  4. one draw against aggression: on success one more draw picks the attack
//     subtype (heavy under 0.10, light under 0.30, else normal).
//  5. otherwise defend.
func Choose(c Combatant, src rng.Source) Decision {
	if c.Effects().IsIncapacitated() {
		return DecisionIncapacitated
	}

	if c.Derived().HealthFraction() < lowHealthFraction {
		if rng.Chance(src, lowHealthDefendChance) {
			return DecisionDefend
		}
	}

	if len(c.Abilities()) > 0 && rng.Chance(src, specialGateChance) {
		// One uniform pick over {special, attack, attack}.
		if int(src.Float64()*3) == 0 {
			return DecisionSpecial
		}
		return DecisionAttack
	}

	if rng.Chance(src, c.Aggression()) {
		roll := src.Float64()
		switch {
		case roll < heavyChance:
			return DecisionHeavyAttack
		case roll < lightChance:
			return DecisionLightAttack
		default:
			return DecisionAttack
		}
	}
	return DecisionDefend
}

// Outcome is the resolved effect of an enemy's decision. Execute is pure:
// the battle controller applies Damage to the player and commits the
// Defending flag.
type Outcome struct {
	Decision  Decision
	Damage    int
	Hit       bool
	Critical  bool
	Defending bool
	Message   string
}

// Execute resolves a decision against the player's defense value.
//
// Attacks scale the enemy's base damage by its own damage modifier before
// the physical pipeline; specials resolve magically at 150% base damage
// against a baseline resistance, and always land.
func Execute(c Combatant, decision Decision, targetDefense int, src rng.Source) Outcome {
	switch decision {
	case DecisionIncapacitated:
		return Outcome{
			Decision: decision,
			Message:  fmt.Sprintf("%s is incapacitated!", c.Name()),
		}

	case DecisionDefend:
		return Outcome{
			Decision:  decision,
			Defending: true,
			Message:   fmt.Sprintf("%s takes a defensive stance!", c.Name()),
		}

	case DecisionAttack, DecisionLightAttack, DecisionHeavyAttack:
		kind := damage.KindNormal
		switch decision {
		case DecisionLightAttack:
			kind = damage.KindLight
		case DecisionHeavyAttack:
			kind = damage.KindHeavy
		}

		base := int(float64(c.BaseDamage()) * c.Effects().DamageModifier())
		out := damage.Physical(c.Attributes().Strength, targetDefense, base, kind, src)

		msg := fmt.Sprintf("%s attacks!", c.Name())
		if !out.Hit {
			msg = fmt.Sprintf("%s's attack misses!", c.Name())
		} else if out.Critical {
			msg = fmt.Sprintf("%s lands a CRITICAL hit!", c.Name())
		}
		return Outcome{
			Decision: decision,
			Damage:   out.Damage,
			Hit:      out.Hit,
			Critical: out.Critical,
			Message:  msg,
		}

	case DecisionSpecial:
		attrs := c.Attributes()
		base := int(float64(c.BaseDamage()) * specialDamageScale)
		out := damage.Magical(attrs.Intelligence, attrs.Willpower, baselineWillpower, base, src)
		return Outcome{
			Decision: decision,
			Damage:   out.Damage,
			Hit:      true,
			Critical: out.Critical,
			Message:  fmt.Sprintf("%s uses a special ability!", c.Name()),
		}
	}

	return Outcome{
		Decision: decision,
		Message:  fmt.Sprintf("%s does nothing.", c.Name()),
	}
}
