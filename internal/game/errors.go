package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfTurn        = errors.New("not your turn")
	ErrFoldedPlayer     = errors.New("player has folded")
	ErrIllegalCheck     = errors.New("cannot check facing a bet")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnknownMove      = errors.New("unknown move")
	ErrHandComplete     = errors.New("hand is complete")
	ErrHandInProgress   = errors.New("hand is still in progress")
	ErrSessionOver      = errors.New("session is over")
	ErrNotEnoughPlayers = errors.New("not enough players")

	// Bet and raise misuse both count as an invalid amount.
	ErrIllegalBet   = fmt.Errorf("%w: cannot bet while a bet is outstanding", ErrInvalidAmount)
	ErrIllegalRaise = fmt.Errorf("%w: nothing to raise, use bet", ErrInvalidAmount)
)
