package npc

import (
	"github.com/google/uuid"

	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/stats"
)

// Instance is a live enemy combatant spawned from a template for one battle.
// Instances are created fresh per encounter and discarded with it; nothing
// about an instance persists.
type Instance struct {
	id         string
	templateID string
	name       string
	level      int

	attrs   stats.CoreAttributes
	derived *stats.DerivedStats
	effects *effect.State

	baseDamage int
	xpReward   int
	goldReward int
	abilities  []string
	aggression float64

	// Defending is set by the decision policy for one round when the
	// instance takes a defensive stance.
	Defending bool
}

// NewInstance creates a live combatant from a template at the given level.
//
// Precondition: tmpl must not be nil; level >= 1.
// Postcondition: every resource pool starts full and the effect state is
// empty.
func NewInstance(tmpl *Template, level int) *Instance {
	if tmpl == nil {
		panic("npc: NewInstance requires a template")
	}
	if level < 1 {
		panic("npc: NewInstance called with level < 1")
	}
	attrs := tmpl.AttributesAt(level)
	xp, gold := tmpl.RewardsAt(level)
	return &Instance{
		id:         uuid.NewString(),
		templateID: tmpl.ID,
		name:       tmpl.Name,
		level:      level,
		attrs:      attrs,
		derived:    stats.Derive(attrs, level),
		effects:    effect.NewState(),
		baseDamage: tmpl.DamageAt(level),
		xpReward:   xp,
		goldReward: gold,
		abilities:  append([]string(nil), tmpl.Abilities...),
		aggression: tmpl.EffectiveAggression(),
	}
}

// ID returns the unique runtime identifier of this instance.
func (i *Instance) ID() string { return i.id }

// TemplateID returns the ID of the template this instance was spawned from.
func (i *Instance) TemplateID() string { return i.templateID }

// Name returns the display name copied from the template.
func (i *Instance) Name() string { return i.name }

// Level returns the spawned level.
func (i *Instance) Level() int { return i.level }

// Attributes returns the level-scaled core attributes.
func (i *Instance) Attributes() stats.CoreAttributes { return i.attrs }

// Derived returns the instance's resource pools.
func (i *Instance) Derived() *stats.DerivedStats { return i.derived }

// Effects returns the instance's active status effects.
func (i *Instance) Effects() *effect.State { return i.effects }

// BaseDamage returns the attack base damage at the spawned level.
func (i *Instance) BaseDamage() int { return i.baseDamage }

// Abilities returns the special moves the decision policy may pick from.
func (i *Instance) Abilities() []string { return i.abilities }

// Aggression returns the decision policy's attack bias for this instance.
func (i *Instance) Aggression() float64 { return i.aggression }

// Rewards returns the xp and gold awarded when this instance is defeated.
func (i *Instance) Rewards() (xp, gold int) { return i.xpReward, i.goldReward }

// Alive reports whether the instance has health remaining.
func (i *Instance) Alive() bool { return i.derived.Alive() }

// ApplyDamage deals damage to the instance, reduced by the defense modifier
// of any shielding effect. Returns the health actually lost.
//
// Postcondition: health never drops below zero.
func (i *Instance) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	reduced := int(float64(amount) / i.effects.DefenseModifier())
	before := i.derived.Health
	i.derived.ApplyDamage(reduced)
	return before - i.derived.Health
}

// Heal restores health, clamped to the maximum.
func (i *Instance) Heal(amount int) {
	i.derived.Heal(amount)
}

// HealthDescription returns a visible health state string suitable for
// display output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if !i.Alive() {
		return "dead"
	}
	pct := i.derived.HealthFraction()
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
