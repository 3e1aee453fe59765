package game

import (
	"fmt"
	"strings"
)

// Stage is a street of the hand.
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
)

var stageNames = [...]string{"pre-flop", "flop", "turn", "river", "showdown"}

func (s Stage) String() string {
	if s < PreFlop || s > Showdown {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// boardSize is the number of community cards visible at each stage.
func (s Stage) boardSize() int {
	return [...]int{0, 3, 4, 5, 5}[s]
}

// Move is a betting decision.
type Move int

const (
	Fold Move = iota
	Check
	Call
	Bet
	Raise
)

var moveNames = [...]string{"fold", "check", "call", "bet", "raise"}

func (m Move) String() string {
	if m < Fold || m > Raise {
		return fmt.Sprintf("move(%d)", int(m))
	}
	return moveNames[m]
}

// ParseMove converts a wire string into a Move.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range moveNames {
		if s == name {
			return Move(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMove, s)
}

// MoveStrings renders moves for the wire.
func MoveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
