package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/protocol"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrUnknownShortcut is returned by Translate for input it cannot map to a command.
var ErrUnknownShortcut = errors.New("unknown command")

var shortcuts = map[string]protocol.Keyword{
	"s":  protocol.CmdStepInto,
	"n":  protocol.CmdStepOver,
	"r":  protocol.CmdStepReturn,
	"c":  protocol.CmdResume,
	"p":  protocol.CmdSuspend,
	"bt": protocol.CmdStack,
	"v":  protocol.CmdProperties,
	"q":  protocol.CmdTerminate,
}

// Translate maps a line typed by the user to a wire command.
//
//	b file:line   ADD_BREAKPOINT
//	d file:line   REMOVE_BREAKPOINT
//	s n r c       STEP_INTO STEP_OVER STEP_RETURN RESUME
//	p bt v q      SUSPEND STACK PROPERTIES TERMINATE
//
// Raw protocol lines are passed through. ok is false for blank input.
func Translate(input string) (line string, ok bool, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false, nil
	}

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	if kw, found := shortcuts[name]; found && arg == "" {
		return protocol.Command{Keyword: kw}.String(), true, nil
	}

	if name == "b" || name == "d" {
		bp, err := parseFileLine(arg)
		if err != nil {
			return "", false, err
		}
		kw := protocol.CmdAddBreakpoint
		if name == "d" {
			kw = protocol.CmdRemoveBreakpoint
		}
		return protocol.Command{Keyword: kw, Breakpoint: bp}.String(), true, nil
	}

	cmd, err := protocol.ParseCommand(input)
	if err != nil {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownShortcut, input)
	}
	return cmd.String(), true, nil
}

func parseFileLine(s string) (domain.Breakpoint, error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 {
		return domain.Breakpoint{}, fmt.Errorf("expected file:line, got %q", s)
	}
	line, err := strconv.Atoi(s[idx+1:])
	if err != nil || line <= 0 {
		return domain.Breakpoint{}, fmt.Errorf("invalid line in %q", s)
	}
	return domain.NewBreakpoint(domain.Location{File: s[:idx], Line: line}), nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// AttachOptions configures Attach.
type AttachOptions struct {
	Addr  string
	In    io.Reader
	Out   io.Writer
	Color bool
}

// Attach connects to a debug session, prints every server message and forwards
// translated user input. It returns when the server closes the stream or ctx ends.
func Attach(ctx context.Context, opts AttachOptions) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to attach to %s: %w", opts.Addr, err)
	}
	defer conn.Close()

	profile := termenv.Ascii
	if opts.Color {
		profile = termenv.ColorProfile()
	}
	printSystemMessage(opts.Out, "Attached to %s", opts.Addr)

	serverDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(conn)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			fmt.Fprintln(opts.Out, render(profile, scanner.Text()))
		}
		serverDone <- scanner.Err()
	}()

	go func() {
		scanner := bufio.NewScanner(NewInterruptibleReader(opts.In, ctx.Done()))
		for scanner.Scan() {
			line, ok, err := Translate(scanner.Text())
			if err != nil {
				printSystemMessage(opts.Out, "%v", err)
				continue
			}
			if !ok {
				continue
			}
			if _, err := io.WriteString(conn, line+"\n"); err != nil {
				return
			}
		}
	}()

	select {
	case err := <-serverDone:
		printSystemMessage(opts.Out, "Session closed.")
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		return nil
	}
}

func render(p termenv.Profile, line string) string {
	msg := protocol.ParseMessage(line)
	switch msg.Keyword {
	case protocol.MsgSuspended:
		return p.String(line).Foreground(p.Color("#f59e0b")).Bold().String()
	case protocol.MsgTerminated:
		return p.String(line).Foreground(p.Color("#ef4444")).String()
	case protocol.MsgBuildStarted:
		return p.String(line).Foreground(p.Color("#22c55e")).String()
	default:
		return line
	}
}

// InterruptibleReader wraps an io.Reader (like os.Stdin) and stops at a cancellation signal.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

// NewInterruptibleReader creates an InterruptibleReader.
func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.cancel:
		return 0, io.EOF
	default:
	}

	n, err = r.base.Read(p)

	select {
	case <-r.cancel:
		return 0, io.EOF
	default:
	}
	return n, err
}
