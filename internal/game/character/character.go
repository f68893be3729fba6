// Package character implements the player-side combatant: class-gated
// ability progression, derived resource pools, and the mage spellbook.
//
// Leveling math (experience curves, stat growth on level) lives outside the
// combat core; this package only reacts to level changes by rescaling pools
// and unlocking abilities.
package character

import (
	"fmt"
	"strings"

	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/magic"
	"github.com/castellan/skirmish/internal/game/stats"
)

// Classes a player can be created as.
const (
	ClassWarrior = "warrior"
	ClassMage    = "mage"
)

// ValidClass reports whether name is a playable class.
func ValidClass(name string) bool {
	return name == ClassWarrior || name == ClassMage
}

// Player is the persistent combatant owned by a game session. It survives
// across battles; battles mutate its pools and effect state but never its
// identity or attributes.
type Player struct {
	name  string
	class string
	level int

	attrs   stats.CoreAttributes
	derived *stats.DerivedStats
	effects *effect.State

	abilities map[string]struct{}
	ladder    AbilityTable

	book *magic.Book

	xp   int
	gold int
}

// New creates a player of the given class at the given level with every
// ability the class ladder grants at or below that level. Mages additionally
// receive a spellbook seeded with every spell in the registry they qualify
// for; pass a nil registry to skip spell learning.
//
// Postcondition: all resource pools start full.
func New(name, class string, attrs stats.CoreAttributes, level int, spells *magic.Registry) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("character: name is required")
	}
	if !ValidClass(class) {
		return nil, fmt.Errorf("character: unknown class %q", class)
	}
	if level < 1 {
		return nil, fmt.Errorf("character: level must be at least 1, got %d", level)
	}

	p := &Player{
		name:      name,
		class:     class,
		level:     level,
		attrs:     attrs,
		derived:   stats.Derive(attrs, level),
		effects:   effect.NewState(),
		abilities: make(map[string]struct{}),
		ladder:    DefaultAbilities(class),
	}
	for _, ability := range p.ladder.UnlockedAt(level) {
		p.abilities[strings.ToLower(ability)] = struct{}{}
	}
	if class == ClassMage && spells != nil {
		p.book = magic.NewBook(spells)
		p.learnEligible(spells)
	}
	return p, nil
}

func (p *Player) learnEligible(spells *magic.Registry) []string {
	var learned []string
	for _, s := range spells.Learnable(p.level, p.attrs) {
		if p.book.Knows(s.Name) {
			continue
		}
		if _, err := p.book.Learn(s.Name); err == nil {
			learned = append(learned, s.Name)
		}
	}
	return learned
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Class returns the player's class tag.
func (p *Player) Class() string { return p.class }

// Level returns the player's current level.
func (p *Player) Level() int { return p.level }

// Attributes returns the player's core attributes.
func (p *Player) Attributes() stats.CoreAttributes { return p.attrs }

// Derived returns the player's resource pools. Callers mutate pools through
// this handle; the player itself never hides it.
func (p *Player) Derived() *stats.DerivedStats { return p.derived }

// Effects returns the player's active status effects.
func (p *Player) Effects() *effect.State { return p.effects }

// HasAbility reports whether the player has unlocked the named ability.
// Matching is case-insensitive.
func (p *Player) HasAbility(name string) bool {
	_, ok := p.abilities[strings.ToLower(name)]
	return ok
}

// Abilities returns every unlocked ability in ladder order.
func (p *Player) Abilities() []string {
	return p.ladder.UnlockedAt(p.level)
}

// Book returns the player's spellbook, nil for classes that cannot cast.
func (p *Player) Book() *magic.Book { return p.book }

// XP returns accumulated experience.
func (p *Player) XP() int { return p.xp }

// Gold returns carried gold.
func (p *Player) Gold() int { return p.gold }

// Award credits battle rewards. Negative amounts are ignored.
func (p *Player) Award(xp, gold int) {
	if xp > 0 {
		p.xp += xp
	}
	if gold > 0 {
		p.gold += gold
	}
}

// SetLevel moves the player to an arbitrary level, rescaling every resource
// pool to preserve its current-to-max percentage and resynchronizing the
// ability set with the class ladder. Spell knowledge is never forgotten,
// but newly eligible spells are learned.
//
// Precondition: level >= 1.
func (p *Player) SetLevel(level int) {
	if level < 1 {
		panic("character: SetLevel called with level < 1")
	}
	p.level = level
	p.derived.Rescale(p.attrs, level)

	p.abilities = make(map[string]struct{})
	for _, ability := range p.ladder.UnlockedAt(level) {
		p.abilities[strings.ToLower(ability)] = struct{}{}
	}
	if p.book != nil {
		p.learnEligible(p.book.Registry())
	}
}

// Advancement reports what a level-up granted.
type Advancement struct {
	Level     int
	Abilities []string
	Spells    []string
}

// LevelUp advances the player one level: pools are recomputed and restored
// to full, the ladder's new abilities are granted, and mages learn every
// spell the new level makes them eligible for.
func (p *Player) LevelUp() Advancement {
	p.level++
	p.derived = stats.Derive(p.attrs, p.level)

	adv := Advancement{Level: p.level, Abilities: p.ladder.NewAt(p.level)}
	for _, ability := range adv.Abilities {
		p.abilities[strings.ToLower(ability)] = struct{}{}
	}
	if p.book != nil {
		adv.Spells = p.learnEligible(p.book.Registry())
	}
	return adv
}
