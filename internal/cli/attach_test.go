package cli

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
		err   bool
	}{
		{input: "", ok: false},
		{input: "   ", ok: false},
		{input: "s", want: "STEP_INTO", ok: true},
		{input: "n", want: "STEP_OVER", ok: true},
		{input: "r", want: "STEP_RETURN", ok: true},
		{input: "c", want: "RESUME", ok: true},
		{input: "bt", want: "STACK", ok: true},
		{input: "b build.yaml:12", want: "ADD_BREAKPOINT|build.yaml|12", ok: true},
		{input: "d C:/work/build.yaml:3", want: "REMOVE_BREAKPOINT|C:/work/build.yaml|3", ok: true},
		{input: "PROPERTIES", want: "PROPERTIES", ok: true},
		{input: "ADD_BREAKPOINT|a.yaml|1", want: "ADD_BREAKPOINT|a.yaml|1", ok: true},
		{input: "b build.yaml", err: true},
		{input: "b build.yaml:0", err: true},
		{input: "jump", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok, err := Translate(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAttach_ForwardsCommands(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Write([]byte("BUILD_STARTED\n"))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		received <- strings.TrimSpace(line)
		_, _ = conn.Write([]byte("TERMINATED\n"))
	}()

	out := &syncBuffer{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = Attach(ctx, AttachOptions{
		Addr: ln.Addr().String(),
		In:   strings.NewReader("c\n"),
		Out:  out,
	})
	require.NoError(t, err)

	select {
	case line := <-received:
		assert.Equal(t, "RESUME", line)
	case <-time.After(time.Second):
		t.Fatal("server did not receive a command")
	}
	assert.Contains(t, out.String(), "BUILD_STARTED\nTERMINATED\n")
	assert.Contains(t, out.String(), ">>> Session closed.")
}

func TestAttach_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	err = Attach(context.Background(), AttachOptions{Addr: addr, In: strings.NewReader(""), Out: &syncBuffer{}})
	assert.Error(t, err)
}
