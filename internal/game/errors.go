package game

import "errors"

// Illegal-action errors are always recoverable: the caller receives the error,
// no state has been mutated, and a corrected action may be retried. Contract
// violations (over-betting a stack, over-dealing the deck) panic instead.
var (
	ErrHandNotStarted    = errors.New("hand has not started")
	ErrHandInProgress    = errors.New("hand already in progress")
	ErrHandComplete      = errors.New("hand is over")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrNothingToCall     = errors.New("no bet to call, check instead")
	ErrCannotCheck       = errors.New("cannot check when there is a bet to call")
	ErrCannotRaise       = errors.New("not enough chips to raise, call or fold")
	ErrInvalidRaise      = errors.New("invalid raise amount")
	ErrUnknownAction     = errors.New("unknown action")
	ErrNotEnoughPlayers  = errors.New("need at least two players with chips")
	ErrNotInLobby        = errors.New("seats can only change in the lobby")
	ErrSeatOutOfRange    = errors.New("seat index out of range")
	ErrSeatTaken         = errors.New("seat already taken")
	ErrSeatEmpty         = errors.New("seat is already empty")
)
