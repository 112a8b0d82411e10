package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Separator splits the fields of a line.
const Separator = "|"

// Keyword names a client command.
type Keyword string

const (
	CmdStepInto         Keyword = "STEP_INTO"
	CmdStepOver         Keyword = "STEP_OVER"
	CmdStepReturn       Keyword = "STEP_RETURN"
	CmdSuspend          Keyword = "SUSPEND"
	CmdResume           Keyword = "RESUME"
	CmdTerminate        Keyword = "TERMINATE"
	CmdStack            Keyword = "STACK"
	CmdProperties       Keyword = "PROPERTIES"
	CmdAddBreakpoint    Keyword = "ADD_BREAKPOINT"
	CmdRemoveBreakpoint Keyword = "REMOVE_BREAKPOINT"
)

// Keywords lists every command the session understands.
var Keywords = []Keyword{
	CmdStepInto, CmdStepOver, CmdStepReturn,
	CmdSuspend, CmdResume, CmdTerminate,
	CmdStack, CmdProperties,
	CmdAddBreakpoint, CmdRemoveBreakpoint,
}

// Command is a parsed control line.
// Breakpoint is only meaningful for the breakpoint commands.
type Command struct {
	Keyword    Keyword
	Breakpoint domain.Breakpoint
}

// String encodes the command as a wire line, without the trailing newline.
func (c Command) String() string {
	switch c.Keyword {
	case CmdAddBreakpoint, CmdRemoveBreakpoint:
		return string(c.Keyword) + Separator + EncodeBreakpoint(c.Breakpoint)
	default:
		return string(c.Keyword)
	}
}

// ParseCommand decodes a control line. Surrounding whitespace and a trailing carriage
// return are ignored. Unknown keywords and malformed arguments yield ErrMalformedCommand.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("%w: empty line", domain.ErrMalformedCommand)
	}

	keyword, rest, hasArgs := strings.Cut(line, Separator)
	kw := Keyword(keyword)
	switch kw {
	case CmdStepInto, CmdStepOver, CmdStepReturn, CmdSuspend, CmdResume, CmdTerminate, CmdStack, CmdProperties:
		if hasArgs {
			return Command{}, fmt.Errorf("%w: %s takes no arguments", domain.ErrMalformedCommand, kw)
		}
		return Command{Keyword: kw}, nil
	case CmdAddBreakpoint, CmdRemoveBreakpoint:
		if !hasArgs {
			return Command{}, fmt.Errorf("%w: %s requires file and line", domain.ErrMalformedCommand, kw)
		}
		bp, err := DecodeBreakpoint(rest)
		if err != nil {
			return Command{}, err
		}
		return Command{Keyword: kw, Breakpoint: bp}, nil
	default:
		return Command{}, fmt.Errorf("%w: unknown command %q", domain.ErrMalformedCommand, keyword)
	}
}

// EncodeBreakpoint renders "file|line".
func EncodeBreakpoint(bp domain.Breakpoint) string {
	return bp.File + Separator + strconv.Itoa(bp.Line)
}

// DecodeBreakpoint parses "file|line". The line number is taken after the last
// separator so that file paths may themselves contain "|".
func DecodeBreakpoint(s string) (domain.Breakpoint, error) {
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return domain.Breakpoint{}, fmt.Errorf("%w: breakpoint %q has no line", domain.ErrMalformedCommand, s)
	}
	file := s[:idx]
	if file == "" {
		return domain.Breakpoint{}, fmt.Errorf("%w: breakpoint %q has no file", domain.ErrMalformedCommand, s)
	}
	line, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil || line <= 0 {
		return domain.Breakpoint{}, fmt.Errorf("%w: breakpoint %q has invalid line", domain.ErrMalformedCommand, s)
	}
	return domain.Breakpoint{File: file, Line: line}, nil
}
