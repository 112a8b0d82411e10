package cli

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/build"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoPlan = `project: demo
default: hello
targets:
  - name: hello
    tasks:
      - kind: echo
        with:
          message: one
      - kind: echo
        with:
          message: two
`

func writePlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoPlan), 0644))
	return path
}

func memoryConfig(debugAddr string) config.Config {
	cfg := config.Default()
	cfg.Store.Kind = config.StoreMemory
	cfg.DebugAddr = debugAddr
	return cfg
}

type debugClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (c *debugClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

func (c *debugClient) expect(want string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	line, err := c.r.ReadString('\n')
	require.NoError(c.t, err)
	assert.Equal(c.t, want, line[:len(line)-1])
}

// startRun launches Run in the background and dials its debug listener.
func startRun(t *testing.T, opts RunOptions) (*debugClient, <-chan error) {
	t.Helper()
	addrs := make(chan net.Addr, 1)
	opts.OnListen = func(a net.Addr) { addrs <- a }

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(context.Background(), opts)
	}()

	var addr net.Addr
	select {
	case addr = <-addrs:
	case err := <-errCh:
		t.Fatalf("run exited before listening: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("debug listener not ready")
	}

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &debugClient{t: t, conn: conn, r: bufio.NewReader(conn)}, errCh
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
		return nil
	}
}

func TestRun_DebugSessionBreakpoint(t *testing.T) {
	plan := writePlan(t)
	var out bytes.Buffer
	client, errCh := startRun(t, RunOptions{
		PlanPath: plan,
		Config:   memoryConfig("127.0.0.1:0"),
		Output:   &out,
	})

	client.expect("BUILD_STARTED")
	client.send("ADD_BREAKPOINT|" + plan + "|9")
	client.send("RESUME")
	client.expect("SUSPENDED|BREAKPOINT|" + plan + "|9")
	client.send("RESUME")

	require.NoError(t, waitRun(t, errCh))
	assert.Contains(t, out.String(), "one\ntwo\n")
}

func TestRun_ClientTerminates(t *testing.T) {
	client, errCh := startRun(t, RunOptions{
		PlanPath: writePlan(t),
		Config:   memoryConfig("127.0.0.1:0"),
		Output:   &bytes.Buffer{},
	})

	client.expect("BUILD_STARTED")
	client.send("TERMINATE")
	client.expect("TERMINATED")

	err := waitRun(t, errCh)
	assert.ErrorIs(t, err, domain.ErrSessionTerminated)
}

func TestRun_WithoutDebugger(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), RunOptions{
		PlanPath: writePlan(t),
		Config:   memoryConfig(""),
		Output:   &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out.String())
}

func TestRun_UnknownTargetFailsBeforeListening(t *testing.T) {
	called := false
	err := Run(context.Background(), RunOptions{
		PlanPath: writePlan(t),
		Targets:  []string{"missing"},
		Config:   memoryConfig("127.0.0.1:0"),
		Output:   &bytes.Buffer{},
		OnListen: func(net.Addr) { called = true },
	})
	assert.ErrorIs(t, err, build.ErrUnknownTarget)
	assert.False(t, called)
}

func TestRun_CancelWhileWaitingForClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, RunOptions{
			PlanPath: writePlan(t),
			Config:   memoryConfig("127.0.0.1:0"),
			Output:   &bytes.Buffer{},
			OnListen: func(net.Addr) { cancel() },
		})
	}()

	assert.ErrorIs(t, waitRun(t, errCh), context.Canceled)
}
