// Package session binds a player to at most one live battle and serialises
// all access to it. The combat engine takes no locks and assumes a single
// exclusive owner for each battle; a Session is that owner, so callers on
// any goroutine go through the session rather than holding a Battle
// directly.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/castellan/skirmish/internal/game/character"
	"github.com/castellan/skirmish/internal/game/combat"
)

// Session lifecycle errors.
var (
	// ErrBattleActive rejects starting a battle while the session still
	// holds one, finished or not; rewards are claimed through Conclude.
	ErrBattleActive = errors.New("session: a battle is already held")
	// ErrNoBattle rejects battle calls when the session holds none.
	ErrNoBattle = errors.New("session: no active battle")
	// ErrBattleOngoing rejects concluding a battle that has not reached a
	// terminal result.
	ErrBattleOngoing = errors.New("session: battle still ongoing")
)

// Session owns one player and at most one battle at a time. The battle slot
// stays occupied after a terminal result until Conclude claims it, so a
// victory's rewards cannot be lost by starting the next fight too eagerly.
//
// All methods are safe for concurrent use; calls on the held battle are
// serialised behind the session lock.
type Session struct {
	id     string
	player *character.Player

	mu     sync.Mutex
	battle *combat.Battle
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Player returns the session's player. The player outlives every battle.
func (s *Session) Player() *character.Player { return s.player }

// InBattle reports whether the session holds a battle that is still
// ongoing.
func (s *Session) InBattle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle != nil && !s.battle.Result().Terminal()
}

// BattleID returns the held battle's identifier, ok false when the session
// holds none.
func (s *Session) BattleID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return "", false
	}
	return s.battle.ID(), true
}

// StartBattle opens a new battle for this session's player. The session
// fills in cfg.Player; everything else in cfg is the caller's to assemble.
//
// Postcondition: on success the session holds the battle until Conclude.
func (s *Session) StartBattle(cfg combat.Config) (combat.StartInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.battle != nil {
		return combat.StartInfo{}, fmt.Errorf("%w: %s", ErrBattleActive, s.battle.ID())
	}

	cfg.Player = s.player
	b, err := combat.New(cfg)
	if err != nil {
		return combat.StartInfo{}, err
	}
	s.battle = b
	return b.Start(), nil
}

// PlayerTurn resolves one player action on the held battle.
func (s *Session) PlayerTurn(actionName string, targetIndex int) (*combat.TurnReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	return s.battle.PlayerTurn(actionName, targetIndex)
}

// EnemyTurn runs one enemy slot on the held battle.
func (s *Session) EnemyTurn(index int) (*combat.TurnReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	return s.battle.EnemyTurn(index)
}

// AttemptFlee tries to escape the held battle.
func (s *Session) AttemptFlee() (*combat.TurnReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	return s.battle.AttemptFlee()
}

// NextTurn closes the current round of the held battle.
func (s *Session) NextTurn() (*combat.TurnReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	return s.battle.NextTurn()
}

// Snapshot returns the held battle's display projection.
func (s *Session) Snapshot() (combat.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return combat.Snapshot{}, ErrNoBattle
	}
	return s.battle.Snapshot(), nil
}

// Conclude claims a finished battle: victory rewards are credited to the
// player and the battle slot frees up. Defeats and escapes conclude with
// zero rewards.
func (s *Session) Conclude() (combat.Rewards, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.battle == nil {
		return combat.Rewards{}, ErrNoBattle
	}
	if !s.battle.Result().Terminal() {
		return combat.Rewards{}, fmt.Errorf("%w: %s", ErrBattleOngoing, s.battle.ID())
	}

	rewards, _ := s.battle.Rewards()
	s.player.Award(rewards.XP, rewards.Gold)
	s.battle = nil
	return rewards, nil
}
