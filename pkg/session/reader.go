package session

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/protocol"
)

const maxLineSize = 1 << 20

// CommandReader decodes newline-delimited control commands from a stream.
type CommandReader struct {
	r       *bufio.Reader
	logger  *slog.Logger
	maxLine int
}

// NewCommandReader creates a reader on r. A nil logger discards diagnostics.
func NewCommandReader(r io.Reader, logger *slog.Logger) *CommandReader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandReader{
		r:       bufio.NewReaderSize(r, 4096),
		logger:  logger,
		maxLine: maxLineSize,
	}
}

// Next returns the next well-formed command.
// Blank lines are skipped; malformed, unknown and oversized commands are logged and skipped.
// It returns io.EOF at the end of the stream, or the underlying read error.
func (cr *CommandReader) Next() (protocol.Command, error) {
	for {
		line, tooLong, err := cr.readLine()
		if err != nil {
			return protocol.Command{}, err
		}
		if tooLong {
			cr.logger.Warn("ignoring oversized control line", "limit", cr.maxLine)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			cr.logger.Warn("ignoring control line", "line", line, "error", err)
			continue
		}
		return cmd, nil
	}
}

// readLine reads one line without its newline. A line longer than maxLine is
// consumed up to its newline and reported with tooLong set. A final line without
// a newline is returned before io.EOF.
func (cr *CommandReader) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, err := cr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(buf)+len(chunk) > cr.maxLine+1 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		switch {
		case err == nil:
			return strings.TrimSuffix(string(buf), "\n"), tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && read:
			return string(buf), tooLong, nil
		default:
			return "", false, err
		}
	}
}
