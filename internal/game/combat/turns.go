package combat

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/castellan/skirmish/internal/game/action"
	"github.com/castellan/skirmish/internal/game/ai"
	"github.com/castellan/skirmish/internal/game/damage"
	"github.com/castellan/skirmish/internal/game/effect"
	"github.com/castellan/skirmish/internal/game/npc"
	"github.com/castellan/skirmish/internal/game/rng"
	"github.com/castellan/skirmish/internal/game/stats"
)

// PlayerTurn resolves one player action. Validation runs in a fixed order
// before anything mutates: terminal state, action lookup, legality, target.
// A failed call leaves the battle completely unchanged.
//
// An incapacitated player loses the turn instead: the call succeeds, the
// requested action is ignored, and the report says so.
//
// Postcondition: on error the battle state is byte-for-byte what it was.
func (b *Battle) PlayerTurn(actionName string, targetIndex int) (*TurnReport, error) {
	if b.result.Terminal() {
		return nil, ErrBattleOver
	}

	report := &TurnReport{Actor: b.player.Name(), Result: b.result}

	if b.player.Effects().IsIncapacitated() {
		report.Skipped = true
		report.append(Event{
			Kind:      EventIncapacitated,
			Actor:     b.player.Name(),
			Narrative: "You are incapacitated and cannot act!",
		})
		return report, nil
	}

	def, err := b.catalog.Resolve(actionName, b.player)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, actionName)
	}
	report.Action = def.Name

	if err := b.catalog.CanUse(b.player, def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsufficientResource, err)
	}

	if def.Kind == action.KindFlee {
		b.flee(report)
		report.Result = b.result
		return report, nil
	}

	chosen := -1
	if def.RequiresTarget {
		if targetIndex < 0 || targetIndex >= len(b.enemies) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidTarget, targetIndex)
		}
		if !b.enemies[targetIndex].Alive() {
			return nil, fmt.Errorf("%w: %s is already defeated", ErrInvalidTarget, b.enemies[targetIndex].Name())
		}
		chosen = targetIndex
	}

	res, err := def.Resolver().Resolve(b.player, b.targets(chosen), b.src)
	if err != nil {
		return nil, fmt.Errorf("combat: resolving %q: %w", def.Name, err)
	}

	stamina, mana := def.Costs(b.player.Level())
	derived := b.player.Derived()
	if !derived.UseStamina(stamina) || !derived.UseMana(mana) {
		// CanUse vouched for both pools; a failed debit is a defect.
		panic("combat: resource debit failed after legality check")
	}

	b.apply(def, res, report)
	b.checkVictory(report)
	report.Result = b.result

	b.logger.Debug("player turn",
		zap.String("battle_id", b.id),
		zap.Int("turn", b.turn),
		zap.String("action", def.Name),
		zap.Int("events", len(report.Events)),
	)
	return report, nil
}

// apply commits a resolved action: damage to enemies, riders, healing, self
// effects, and the defending stance. Resolution rolled everything already;
// nothing here draws.
func (b *Battle) apply(def *action.Definition, res action.Result, report *TurnReport) {
	report.Message = res.Message

	for _, s := range res.Strikes {
		// The battle only ever hands resolvers npc instances.
		foe := s.Target.(*npc.Instance)
		if !s.Outcome.Hit {
			report.append(Event{
				Kind:      EventMiss,
				Actor:     b.player.Name(),
				Target:    foe.Name(),
				Narrative: fmt.Sprintf("Your %s misses %s!", def.Name, foe.Name()),
			})
			continue
		}

		lost := foe.ApplyDamage(s.Outcome.Damage)
		narrative := fmt.Sprintf("Your %s deals %d damage to %s!", def.Name, lost, foe.Name())
		if s.Outcome.Critical {
			narrative = fmt.Sprintf("CRITICAL HIT! Your %s deals %d damage to %s!", def.Name, lost, foe.Name())
		}
		report.append(Event{
			Kind:      EventStrike,
			Actor:     b.player.Name(),
			Target:    foe.Name(),
			Amount:    lost,
			Critical:  s.Outcome.Critical,
			Narrative: narrative,
		})

		if s.Rider != nil && foe.Alive() {
			if foe.Effects().Add(*s.Rider) {
				report.append(Event{
					Kind:      EventEffect,
					Actor:     b.player.Name(),
					Target:    foe.Name(),
					Effect:    string(s.Rider.Type),
					Narrative: fmt.Sprintf("%s is now %s!", foe.Name(), s.Rider.Type),
				})
			}
		}

		if !foe.Alive() {
			foe.Effects().ClearAll()
			report.append(Event{
				Kind:      EventPerish,
				Actor:     b.player.Name(),
				Target:    foe.Name(),
				Narrative: fmt.Sprintf("%s has been defeated!", foe.Name()),
			})
		}
	}

	if res.Healing > 0 {
		derived := b.player.Derived()
		before := derived.Health
		derived.Heal(res.Healing)
		gained := derived.Health - before
		report.append(Event{
			Kind:      EventHeal,
			Actor:     b.player.Name(),
			Target:    b.player.Name(),
			Amount:    gained,
			Narrative: fmt.Sprintf("You recover %d health!", gained),
		})
	}

	for _, e := range res.SelfEffects {
		if b.player.Effects().Add(e) {
			report.append(Event{
				Kind:      EventEffect,
				Actor:     b.player.Name(),
				Target:    b.player.Name(),
				Effect:    string(e.Type),
				Narrative: fmt.Sprintf("You are now %s!", e.Type),
			})
		}
	}

	if res.Defending {
		b.playerDefending = true
		report.append(Event{
			Kind:      EventDefend,
			Actor:     b.player.Name(),
			Narrative: res.Message,
		})
	}
}

// EnemyTurn runs one enemy's turn: its timed effects tick first, then it
// acts unless the ticks killed it or it started the round incapacitated.
// An incapacitating effect consumes the turn it expires on.
//
// The index addresses the full enemy line; a defeated enemy's slot is
// consumed silently so callers can loop over the line without bookkeeping.
func (b *Battle) EnemyTurn(index int) (*TurnReport, error) {
	if b.result.Terminal() {
		return nil, ErrBattleOver
	}
	if index < 0 || index >= len(b.enemies) {
		return nil, fmt.Errorf("combat: enemy index %d out of range", index)
	}

	e := b.enemies[index]
	report := &TurnReport{Actor: e.Name(), Result: b.result}

	if !e.Alive() {
		report.Skipped = true
		return report, nil
	}

	wasIncapacitated := e.Effects().IsIncapacitated()
	b.tickEffects(e.Name(), e.Effects(), e.Derived(), report)

	if !e.Alive() {
		e.Effects().ClearAll()
		report.Skipped = true
		report.append(Event{
			Kind:      EventPerish,
			Target:    e.Name(),
			Narrative: fmt.Sprintf("%s has been defeated!", e.Name()),
		})
		b.checkVictory(report)
		report.Result = b.result
		return report, nil
	}

	if wasIncapacitated {
		report.Action = string(ai.DecisionIncapacitated)
		report.append(Event{
			Kind:      EventIncapacitated,
			Actor:     e.Name(),
			Narrative: fmt.Sprintf("%s is incapacitated and cannot act!", e.Name()),
		})
		report.Result = b.result
		return report, nil
	}

	decision := ai.Choose(e, b.src)
	out := ai.Execute(e, decision, b.playerDefense(), b.src)
	report.Action = string(out.Decision)

	b.commitEnemyOutcome(e, out, report)
	report.Result = b.result

	b.logger.Debug("enemy turn",
		zap.String("battle_id", b.id),
		zap.Int("turn", b.turn),
		zap.String("enemy", e.Name()),
		zap.String("decision", string(out.Decision)),
	)
	return report, nil
}

// commitEnemyOutcome applies a resolved enemy decision to the battle.
func (b *Battle) commitEnemyOutcome(e *npc.Instance, out ai.Outcome, report *TurnReport) {
	switch out.Decision {
	case ai.DecisionIncapacitated:
		report.append(Event{
			Kind:      EventIncapacitated,
			Actor:     e.Name(),
			Narrative: out.Message,
		})
		return

	case ai.DecisionDefend:
		e.Defending = true
		report.append(Event{
			Kind:      EventDefend,
			Actor:     e.Name(),
			Narrative: out.Message,
		})
		return
	}

	if !out.Hit {
		report.append(Event{
			Kind:      EventMiss,
			Actor:     e.Name(),
			Target:    b.player.Name(),
			Narrative: out.Message,
		})
		return
	}

	dmg := out.Damage
	narrative := fmt.Sprintf("%s You take %d damage.", out.Message, dmg)
	if b.playerDefending {
		dmg = int(float64(dmg) * 0.5)
		narrative = fmt.Sprintf("%s You take %d damage (reduced by defense).", out.Message, dmg)
	}
	b.player.Derived().ApplyDamage(dmg)
	report.append(Event{
		Kind:      EventStrike,
		Actor:     e.Name(),
		Target:    b.player.Name(),
		Amount:    dmg,
		Critical:  out.Critical,
		Narrative: narrative,
	})

	if !b.player.Derived().Alive() {
		b.result = ResultDefeat
		report.append(Event{
			Kind:      EventPerish,
			Target:    b.player.Name(),
			Narrative: fmt.Sprintf("%s has fallen!", b.player.Name()),
		})
		b.logger.Info("battle lost",
			zap.String("battle_id", b.id),
			zap.Int("turn", b.turn),
			zap.String("enemy", e.Name()),
		)
	}
}

// AttemptFlee tries to escape the battle. Success transitions to Fled;
// failure changes nothing, and the caller still owes the round's enemy
// turns.
func (b *Battle) AttemptFlee() (*TurnReport, error) {
	if b.result.Terminal() {
		return nil, ErrBattleOver
	}

	report := &TurnReport{Actor: b.player.Name(), Action: "flee", Result: b.result}

	if b.player.Effects().IsIncapacitated() {
		report.Skipped = true
		report.append(Event{
			Kind:      EventIncapacitated,
			Actor:     b.player.Name(),
			Narrative: "You are incapacitated and cannot act!",
		})
		return report, nil
	}

	b.flee(report)
	report.Result = b.result
	return report, nil
}

// flee rolls the escape chance against the mean agility of the living
// enemies. Raw attributes on both sides; stance and effects do not help an
// escape.
func (b *Battle) flee(report *TurnReport) {
	report.Action = "flee"

	living := b.LivingEnemies()
	total := 0
	for _, e := range living {
		total += e.Attributes().Agility
	}
	meanAgility := float64(total) / float64(len(living))

	chance := damage.FleeChance(float64(b.player.Attributes().Agility), meanAgility)
	if rng.Chance(b.src, chance) {
		b.result = ResultFled
		report.append(Event{
			Kind:      EventFlee,
			Actor:     b.player.Name(),
			Narrative: "You successfully flee from battle!",
		})
		b.logger.Info("battle fled",
			zap.String("battle_id", b.id),
			zap.Int("turn", b.turn),
		)
		return
	}
	report.append(Event{
		Kind:      EventFlee,
		Actor:     b.player.Name(),
		Narrative: "Failed to escape! The enemies block your path!",
	})
}

// NextTurn closes the round: the turn counter advances, every defending
// stance expires, and the player's own timed effects tick. A player killed
// by damage over time loses the battle here.
//
// Precondition: every enemy turn for the round has run.
func (b *Battle) NextTurn() (*TurnReport, error) {
	if b.result.Terminal() {
		return nil, ErrBattleOver
	}

	b.turn++
	b.playerDefending = false
	for _, e := range b.enemies {
		e.Defending = false
	}

	report := &TurnReport{Actor: b.player.Name(), Action: "upkeep", Result: b.result}
	b.tickEffects(b.player.Name(), b.player.Effects(), b.player.Derived(), report)

	if !b.player.Derived().Alive() {
		b.result = ResultDefeat
		report.append(Event{
			Kind:      EventPerish,
			Target:    b.player.Name(),
			Narrative: fmt.Sprintf("%s has fallen!", b.player.Name()),
		})
		b.logger.Info("battle lost",
			zap.String("battle_id", b.id),
			zap.Int("turn", b.turn),
		)
	}

	report.Result = b.result
	return report, nil
}

// tickEffects advances one combatant's timed effects and applies the health
// deltas directly: damage over time bypasses defense, regeneration heals.
// Events come out in effect-name order so replays are stable.
func (b *Battle) tickEffects(name string, state *effect.State, derived *stats.DerivedStats, report *TurnReport) {
	deltas := state.Tick()
	if len(deltas) == 0 {
		return
	}

	types := make([]effect.Type, 0, len(deltas))
	for t := range deltas {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, t := range types {
		delta := deltas[t]
		switch {
		case delta > 0:
			derived.ApplyDamage(delta)
			report.append(Event{
				Kind:      EventTick,
				Actor:     name,
				Effect:    string(t),
				Amount:    delta,
				Narrative: fmt.Sprintf("%s takes %d %s damage!", name, delta, t),
			})
		case delta < 0:
			before := derived.Health
			derived.Heal(-delta)
			gained := derived.Health - before
			report.append(Event{
				Kind:      EventTick,
				Actor:     name,
				Effect:    string(t),
				Amount:    gained,
				Narrative: fmt.Sprintf("%s regenerates %d health!", name, gained),
			})
		}
	}
}
