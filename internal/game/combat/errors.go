package combat

import "errors"

// The battle error taxonomy. Every failure is recoverable and reported to
// the caller as a wrapped sentinel; a failed call leaves the battle
// completely unchanged.
var (
	// ErrBattleOver rejects any mutating call once the result is terminal.
	ErrBattleOver = errors.New("combat: battle is already over")
	// ErrInvalidAction rejects an action name that does not resolve among
	// the player's available actions.
	ErrInvalidAction = errors.New("combat: invalid action")
	// ErrInvalidTarget rejects a missing target or an index outside the
	// living-enemy range.
	ErrInvalidTarget = errors.New("combat: invalid target")
	// ErrInsufficientResource rejects an action the player cannot pay for.
	ErrInsufficientResource = errors.New("combat: insufficient resource")
)
