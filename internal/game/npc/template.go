// Package npc provides enemy template definitions and the live instances
// spawned from them for a battle.
package npc

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/castellan/skirmish/internal/game/stats"
)

// Per-level reward rates applied when a template does not override them.
const (
	DefaultXPRate   = 50
	DefaultGoldRate = 10

	// DefaultAggression is the chance the decision policy attacks rather
	// than defends when a template leaves aggression unset.
	DefaultAggression = 0.7
)

// Attribute names a template may list under growth.
var growthAttributes = map[string]bool{
	"strength":     true,
	"constitution": true,
	"agility":      true,
	"intelligence": true,
	"willpower":    true,
	"charisma":     true,
}

// Template defines a reusable enemy archetype loaded from YAML. Attributes
// are the level-zero baseline; each attribute named in Growth gains one
// point per spawned level, so one template covers a whole level band.
type Template struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Level       int                  `yaml:"level"`
	Attributes  stats.CoreAttributes `yaml:"attributes"`
	Growth      []string             `yaml:"growth"`
	// BaseDamage and DamagePerLevel define attack damage as
	// base + per_level * level.
	BaseDamage     int `yaml:"base_damage"`
	DamagePerLevel int `yaml:"damage_per_level"`
	// XPRate and GoldRate are multiplied by the spawned level to produce
	// defeat rewards; zero selects the defaults.
	XPRate   int `yaml:"xp_rate"`
	GoldRate int `yaml:"gold_rate"`
	// Abilities are the special moves the decision policy may pick from.
	Abilities []string `yaml:"abilities"`
	// Aggression is the chance of attacking over defending; zero selects
	// the default.
	Aggression float64 `yaml:"aggression"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// BaseDamage >= 1, growth names are known, and Aggression is within [0, 1];
// returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("npc template %q: level must be >= 1", t.ID)
	}
	if t.BaseDamage < 1 {
		return fmt.Errorf("npc template %q: base_damage must be >= 1", t.ID)
	}
	if t.DamagePerLevel < 0 {
		return fmt.Errorf("npc template %q: damage_per_level must not be negative", t.ID)
	}
	if t.Aggression < 0 || t.Aggression > 1 {
		return fmt.Errorf("npc template %q: aggression must be within [0, 1]", t.ID)
	}
	for _, g := range t.Growth {
		if !growthAttributes[g] {
			return fmt.Errorf("npc template %q: unknown growth attribute %q", t.ID, g)
		}
	}
	return nil
}

// AttributesAt returns the template's attributes scaled to the given level.
func (t *Template) AttributesAt(level int) stats.CoreAttributes {
	attrs := t.Attributes
	for _, g := range t.Growth {
		switch g {
		case "strength":
			attrs.Strength += level
		case "constitution":
			attrs.Constitution += level
		case "agility":
			attrs.Agility += level
		case "intelligence":
			attrs.Intelligence += level
		case "willpower":
			attrs.Willpower += level
		case "charisma":
			attrs.Charisma += level
		}
	}
	return attrs
}

// DamageAt returns the attack base damage at the given level.
func (t *Template) DamageAt(level int) int {
	return t.BaseDamage + t.DamagePerLevel*level
}

// RewardsAt returns the xp and gold awarded for defeating a spawn of the
// given level.
func (t *Template) RewardsAt(level int) (xp, gold int) {
	xpRate := t.XPRate
	if xpRate == 0 {
		xpRate = DefaultXPRate
	}
	goldRate := t.GoldRate
	if goldRate == 0 {
		goldRate = DefaultGoldRate
	}
	return xpRate * level, goldRate * level
}

// EffectiveAggression returns the configured aggression or the default.
func (t *Template) EffectiveAggression() float64 {
	if t.Aggression == 0 {
		return DefaultAggression
	}
	return t.Aggression
}

// LoadTemplatesFromBytes parses a list of enemy templates from raw YAML
// bytes. Unknown fields are rejected so content typos surface at load time.
//
// Postcondition: Returns validated templates, or an error; on error, the
// partial result is discarded.
func LoadTemplatesFromBytes(data []byte) ([]Template, error) {
	var doc struct {
		Enemies []Template `yaml:"enemies"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing enemy templates: %w", err)
	}
	for i := range doc.Enemies {
		if err := doc.Enemies[i].Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Enemies, nil
}
