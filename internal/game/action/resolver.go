package action

import (
	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/magic"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
)

// Actor is the view of the acting combatant a resolver needs.
type Actor interface {
	Name() string
	Level() int
	Class() string
	Attributes() stats.CoreAttributes
	Effects() *effect.State
	Derived() *stats.DerivedStats
	HasAbility(name string) bool
}

// Target is the view of a combatant an action is aimed at.
type Target interface {
	Name() string
	Attributes() stats.CoreAttributes
	Effects() *effect.State
}

// Strike is one per-target damage component of a resolved action.
type Strike struct {
	Target  Target
	Outcome damage.Outcome
	// Rider is the on-hit effect to apply to the target, nil when none was
	// configured or the roll failed.
	Rider *effect.StatusEffect
}

// Result is what an action resolved to. Resolvers are pure: they roll
// outcomes but mutate nothing; the battle controller commits the result.
type Result struct {
	Strikes     []Strike
	Healing     int
	SelfEffects []effect.StatusEffect
	Defending   bool
	Message     string
}

// Resolver turns an action into a Result. targets holds the living enemies
// with the chosen target first; single-target resolvers use only the head,
// area resolvers the whole slice.
//
// Precondition: targets is non-empty for strike and enemy-targeting cast
// resolvers. The controller guarantees this by validating targets before
// resolving.
type Resolver interface {
	Resolve(actor Actor, targets []Target, src rng.Source) (Result, error)
}

// strikeResolver resolves physical attacks: an independent to-hit pipeline
// per struck enemy, with the actor's damage modifier applied to base damage
// before the roll.
type strikeResolver struct {
	name  string
	kind  damage.Kind
	base  int
	rider effect.Rider
	// hitsAll strikes every target in the slice, each at scale of base.
	hitsAll bool
	scale   float64
}

func (r *strikeResolver) Resolve(actor Actor, targets []Target, src rng.Source) (Result, error) {
	base := int(float64(r.base) * actor.Effects().DamageModifier())

	struck := targets
	perTarget := base
	if !r.hitsAll {
		struck = targets[:1]
	} else {
		perTarget = int(float64(base) * r.scale)
	}

	var res Result
	strength := actor.Attributes().Strength
	for _, t := range struck {
		defense := t.Attributes().ScaledDefense(t.Effects().AgilityModifier())
		out := damage.Physical(strength, defense, perTarget, r.kind, src)
		strike := Strike{Target: t, Outcome: out}
		if out.Hit {
			strike.Rider = r.rider.Roll(src, r.name)
		}
		res.Strikes = append(res.Strikes, strike)
	}
	return res, nil
}

// castResolver delegates to a spell bound from the registry at catalog
// construction and maps the spell outcome onto the action result.
type castResolver struct {
	spell *magic.Spell
}

func (r *castResolver) Resolve(actor Actor, targets []Target, src rng.Source) (Result, error) {
	var primary Target
	var spellTarget magic.Target
	if len(targets) > 0 && targets[0] != nil {
		primary = targets[0]
		spellTarget = primary
	}

	out, err := r.spell.Cast(actor, spellTarget, src)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Healing: out.Healing,
		Message: out.Message,
	}
	if out.SelfEffect != nil {
		res.SelfEffects = append(res.SelfEffects, *out.SelfEffect)
	}
	if out.Damage > 0 && primary != nil {
		res.Strikes = append(res.Strikes, Strike{
			Target:  primary,
			Outcome: damage.Outcome{Damage: out.Damage, Hit: true, Critical: out.Critical},
			Rider:   out.Effect,
		})
		if out.HitsAll {
			arced := int(float64(out.Damage) * out.Falloff)
			for _, t := range targets[1:] {
				res.Strikes = append(res.Strikes, Strike{
					Target:  t,
					Outcome: damage.Outcome{Damage: arced, Hit: true},
				})
			}
		}
	}
	return res, nil
}

// defendResolver raises the actor's guard. The controller halves incoming
// damage while it holds and clears it on turn advance.
type defendResolver struct{}

func (defendResolver) Resolve(actor Actor, _ []Target, _ rng.Source) (Result, error) {
	return Result{
		Defending: true,
		Message:   actor.Name() + " takes a defensive stance",
	}, nil
}

// selfEffectResolver grants the configured effects to the actor,
// unconditionally.
type selfEffectResolver struct {
	name   string
	grants []effect.Rider
}

func (r *selfEffectResolver) Resolve(_ Actor, _ []Target, _ rng.Source) (Result, error) {
	res := Result{}
	for _, g := range r.grants {
		res.SelfEffects = append(res.SelfEffects, g.Grant(r.name))
	}
	return res, nil
}
