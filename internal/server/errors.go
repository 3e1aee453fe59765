package server

import (
	"errors"

	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/protocol"
)

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrTableFull         = errors.New("table is full")
	ErrNameTaken         = errors.New("name is already seated")
	ErrInvalidName       = errors.New("invalid player name")
	ErrNotConnected      = errors.New("connect must be the first message")
	ErrWaitingForPlayers = errors.New("waiting for more players to join")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrTableNotFound, protocol.CodeTableNotFound},
	{ErrPlayerNotFound, protocol.CodePlayerNotFound},
	{ErrTableFull, protocol.CodeTableFull},
	{ErrNameTaken, protocol.CodeNameTaken},
	{ErrInvalidName, protocol.CodeInvalidMessage},
	{ErrNotConnected, protocol.CodeProtocolViolation},
	{ErrWaitingForPlayers, protocol.CodeWaiting},
	{game.ErrOutOfTurn, protocol.CodeOutOfTurn},
	{game.ErrFoldedPlayer, protocol.CodePlayerFolded},
	{game.ErrIllegalCheck, protocol.CodeIllegalCheck},
	{game.ErrInvalidAmount, protocol.CodeInvalidAmount},
	{game.ErrUnknownMove, protocol.CodeInvalidMove},
	{game.ErrHandComplete, protocol.CodeHandComplete},
	{game.ErrSessionOver, protocol.CodeSessionOver},
}

// errorCode maps an error to its stable wire code.
func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return protocol.CodeInternal
}
