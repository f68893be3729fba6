package effect

import (
	"fmt"

	"github.com/castellan/skirmish/internal/game/rng"
)

// Rider describes a chance-based secondary effect attached to an action or
// spell: on a successful primary outcome, an independent draw decides whether
// the effect is applied.
type Rider struct {
	Effect   Type    `yaml:"effect"`
	Chance   float64 `yaml:"chance"`
	Duration int     `yaml:"duration"`
	Potency  int     `yaml:"potency"`
}

// Zero reports whether no rider is configured.
func (r Rider) Zero() bool {
	return r.Effect == ""
}

// Validate checks the rider fields against the effect taxonomy.
func (r Rider) Validate() error {
	if r.Zero() {
		return nil
	}
	if !r.Effect.Valid() {
		return fmt.Errorf("rider: unknown effect type %q", r.Effect)
	}
	if r.Chance <= 0 || r.Chance > 1 {
		return fmt.Errorf("rider: chance %v outside (0, 1]", r.Chance)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("rider: duration must be positive, got %d", r.Duration)
	}
	return nil
}

// Grant constructs the configured effect unconditionally, bypassing the
// chance draw. Used where the rider describes a guaranteed grant.
//
// Precondition: the rider is configured and valid.
func (r Rider) Grant(source string) StatusEffect {
	return New(r.Effect, r.Duration, r.Potency, source)
}

// Roll draws once against the rider chance and returns the effect to apply,
// or nil when the draw fails or no rider is configured. source labels the
// applier for diagnostics.
//
// Postcondition: exactly one draw is consumed when a rider is configured,
// none otherwise.
func (r Rider) Roll(src rng.Source, source string) *StatusEffect {
	if r.Zero() {
		return nil
	}
	if !rng.Chance(src, r.Chance) {
		return nil
	}
	e := New(r.Effect, r.Duration, r.Potency, source)
	return &e
}
