package combat

import (
	"fmt"

	"github.com/castellan/skirmish/internal/game/effect"
)

// EventKind tags one entry in a turn report.
type EventKind string

const (
	// EventStrike is damage landing on a combatant.
	EventStrike EventKind = "strike"
	// EventMiss is an attack that failed to land.
	EventMiss EventKind = "miss"
	// EventHeal is health restored.
	EventHeal EventKind = "heal"
	// EventEffect is a status effect applied.
	EventEffect EventKind = "effect"
	// EventTick is a damage-over-time or regeneration delta.
	EventTick EventKind = "tick"
	// EventDefend is a combatant raising its guard.
	EventDefend EventKind = "defend"
	// EventIncapacitated is a combatant losing its action to a control
	// effect.
	EventIncapacitated EventKind = "incapacitated"
	// EventPerish is a combatant dropping to zero health.
	EventPerish EventKind = "perish"
	// EventFlee is an escape attempt, successful or not.
	EventFlee EventKind = "flee"
)

// Event is one observable thing that happened during a turn. Events are
// ordered exactly as they resolved; replaying a seed reproduces the same
// sequence.
type Event struct {
	Kind     EventKind
	Actor    string
	Target   string
	Amount   int
	Effect   string
	Critical bool

	// Narrative is the display line for this event.
	Narrative string
}

// TurnReport describes everything one turn resolved to.
type TurnReport struct {
	// Actor is the combatant whose turn this was.
	Actor string
	// Action is the resolved action or decision name.
	Action string
	// Message is the action's own display line, when the action produced
	// one before any of its events.
	Message string
	// Skipped is true when the turn was consumed without acting (a dead
	// enemy's slot, for example).
	Skipped bool
	Events  []Event
	// Result is the battle result after this turn.
	Result Result
	// Rewards is set only on the turn that ended in victory.
	Rewards *Rewards
}

// append adds an event and returns the report for chaining-free call sites.
func (r *TurnReport) append(e Event) {
	r.Events = append(r.Events, e)
}

// CombatantView is the display projection of the player's state.
type CombatantView struct {
	Name    string
	Health  int
	Max     int
	Mana    int
	MaxMana int
	Stamina int
	MaxStam int
	Effects []string
}

// EnemyView is the display projection of one enemy's state.
type EnemyView struct {
	Name      string
	Health    int
	Max       int
	Alive     bool
	Condition string
	Effects   []string
}

// Snapshot is a read-only projection of the battle for display. The engine
// never consults a snapshot for decisions.
type Snapshot struct {
	ID      string
	Turn    int
	Result  Result
	Player  CombatantView
	Enemies []EnemyView
}

// effectTags renders a combatant's active effects as display tags, sorted by
// effect name, each with its remaining duration.
func effectTags(s *effect.State) []string {
	active := s.Active()
	if len(active) == 0 {
		return nil
	}
	tags := make([]string, len(active))
	for i, e := range active {
		tags[i] = fmt.Sprintf("%s (%d)", e.Type, e.Duration)
	}
	return tags
}
