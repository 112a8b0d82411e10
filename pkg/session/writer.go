package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/protocol"
)

// ResponseWriter serializes responses onto the control stream.
// Each line is written with a single Write call while holding the writer's lock,
// so lines from the build and reader goroutines never interleave.
type ResponseWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewResponseWriter creates a writer on w.
func NewResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{w: w}
}

// WriteLine writes one line, appending the newline.
func (rw *ResponseWriter) WriteLine(line string) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if _, err := io.WriteString(rw.w, line+"\n"); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// BuildStarted announces the first decision point.
func (rw *ResponseWriter) BuildStarted() error {
	return rw.WriteLine(protocol.MsgBuildStarted)
}

// Suspended writes a SUSPENDED line for s.
func (rw *ResponseWriter) Suspended(s domain.Suspension) error {
	return rw.WriteLine(protocol.Suspended(s))
}

// Terminated acknowledges a TERMINATE command.
func (rw *ResponseWriter) Terminated() error {
	return rw.WriteLine(protocol.MsgTerminated)
}

// Stack writes a STACK reply.
func (rw *ResponseWriter) Stack(p protocol.StackPayload) error {
	line, err := protocol.Stack(p)
	if err != nil {
		return err
	}
	return rw.WriteLine(line)
}

// Properties writes a PROPERTIES reply.
func (rw *ResponseWriter) Properties(p protocol.PropertiesPayload) error {
	line, err := protocol.Properties(p)
	if err != nil {
		return err
	}
	return rw.WriteLine(line)
}
