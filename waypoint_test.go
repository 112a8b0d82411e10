package waypoint_test

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/pkg/build"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/protocol"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedPlan = `project: nested
default: all
targets:
  - name: all
    tasks:
      - kind: sequential
        tasks:
          - kind: echo
            with:
              message: first
          - kind: echo
            with:
              message: second
      - kind: echo
        with:
          message: after
`

type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (c *client) send(line string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetWriteDeadline(time.Now().Add(2*time.Second)))
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

func (c *client) next() string {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := c.r.ReadString('\n')
	require.NoError(c.t, err)
	return strings.TrimSuffix(line, "\n")
}

func startDebugger(t *testing.T, plan string, opts ...waypoint.Option) (*client, *bytes.Buffer, <-chan error) {
	t.Helper()
	p, err := build.ParsePlan([]byte(plan), "build.yaml")
	require.NoError(t, err)

	server, conn := net.Pipe()
	t.Cleanup(func() { conn.Close() })

	var out bytes.Buffer
	errCh := make(chan error, 1)
	d := waypoint.New(append([]waypoint.Option{waypoint.WithOutput(&out)}, opts...)...)
	go func() {
		errCh <- d.Run(context.Background(), p, server)
	}()
	return &client{t: t, conn: conn, r: bufio.NewReader(conn)}, &out, errCh
}

func wait(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("build did not finish")
		return nil
	}
}

func TestDebugger_StepIntoThenStepOver(t *testing.T) {
	c, out, errCh := startDebugger(t, nestedPlan)

	assert.Equal(t, "BUILD_STARTED", c.next())
	c.send("STEP_INTO")
	assert.Equal(t, "SUSPENDED|STEP", c.next())

	c.send("STACK")
	stack, err := protocol.DecodeStack(protocol.ParseMessage(c.next()))
	require.NoError(t, err)
	require.Len(t, stack.Frames, 1)
	assert.Equal(t, "sequential", stack.Frames[0].Kind)
	assert.Equal(t, domain.Location{File: "build.yaml", Line: 6}, stack.Frames[0].Location)

	c.send("STEP_OVER")
	assert.Equal(t, "SUSPENDED|STEP", c.next())
	// Both children ran inside the stepped-over task.
	assert.Equal(t, "first\nsecond\n", out.String())

	c.send("RESUME")
	require.NoError(t, wait(t, errCh))
	assert.Equal(t, "first\nsecond\nafter\n", out.String())
}

func TestDebugger_TerminateAbortsBuild(t *testing.T) {
	c, out, errCh := startDebugger(t, nestedPlan)

	assert.Equal(t, "BUILD_STARTED", c.next())
	c.send("TERMINATE")
	assert.Equal(t, "TERMINATED", c.next())

	err := wait(t, errCh)
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
	assert.Empty(t, out.String())
}

func TestDebugger_WithoutStartSuspension(t *testing.T) {
	c, out, errCh := startDebugger(t, nestedPlan,
		waypoint.WithSessionOptions(session.WithSuspendAtStart(false)),
		waypoint.WithProperties(map[string]string{"mode": "ci"}),
	)

	assert.Equal(t, "BUILD_STARTED", c.next())
	require.NoError(t, wait(t, errCh))
	assert.Equal(t, "first\nsecond\nafter\n", out.String())
}
