package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// CommandKind distinguishes local commands from moves sent to the table.
type CommandKind int

const (
	CommandAction CommandKind = iota
	CommandState
	CommandQuit
	CommandHelp
)

// Command is one parsed line of user input.
type Command struct {
	Kind   CommandKind
	Move   string
	Amount int
}

// HelpText lists the commands understood by ParseCommand.
const HelpText = "commands: state, fold, check, call, bet N, raise N, help, quit"

// ParseCommand parses a line such as "raise 60". Moves are passed through
// to the server, which is the authority on legality; only the shape of the
// line is checked here.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	case "state", "s":
		return Command{Kind: CommandState}, nil
	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil
	case "fold", "check", "call":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%s takes no amount", fields[0])
		}
		return Command{Kind: CommandAction, Move: fields[0]}, nil
	case "bet", "raise":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: %s N", fields[0])
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return Command{}, fmt.Errorf("invalid amount %q", fields[1])
		}
		return Command{Kind: CommandAction, Move: fields[0], Amount: amount}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
}
