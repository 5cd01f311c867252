package client

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type commandKind int

const (
	cmdNext commandKind = iota
	cmdPrev
	cmdGoto
	cmdQuit
)

var (
	errUnknownCommand = errors.New("unknown command, use next, prev, goto N or quit")
	errNoLines        = errors.New("lesson has no lines")
	errOutOfRange     = errors.New("line out of range")
)

type command struct {
	kind commandKind
	// line is the 1-based target of goto
	line int
}

func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{}, errUnknownCommand
	}

	switch fields[0] {
	case "next", "n":
		return command{kind: cmdNext}, nil
	case "prev", "p":
		return command{kind: cmdPrev}, nil
	case "quit", "q", "exit":
		return command{kind: cmdQuit}, nil
	case "goto", "g":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("%w: goto needs a line number", errUnknownCommand)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("%w: %q is not a number", errUnknownCommand, fields[1])
		}
		return command{kind: cmdGoto, line: n}, nil
	}

	return command{}, errUnknownCommand
}

// target returns the line id cmd moves to from at. next and prev stop at
// the ends of order; an unknown at counts as the first line.
func (c command) target(order []string, at string) (string, error) {
	if len(order) == 0 {
		return "", errNoLines
	}

	i := max(slices.Index(order, at), 0)

	switch c.kind {
	case cmdNext:
		i = min(i+1, len(order)-1)
	case cmdPrev:
		i = max(i-1, 0)
	case cmdGoto:
		if c.line < 1 || c.line > len(order) {
			return "", fmt.Errorf("%w: %d of %d", errOutOfRange, c.line, len(order))
		}
		i = c.line - 1
	default:
		return "", errUnknownCommand
	}

	return order[i], nil
}
