package waypoint

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/build"
	"github.com/aretw0/waypoint/pkg/session"
)

// Version is the current release of waypoint.
var Version = "0.1.0"

// Debugger runs build plans under a debug session.
// It is the library entry point when the host owns the transport.
type Debugger struct {
	logger      *slog.Logger
	output      io.Writer
	sessionOpts []session.Option
	properties  map[string]string
}

// Option configures the Debugger.
type Option func(*Debugger)

// WithLogger configures the logger shared by the session and the executor.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Debugger) {
		d.logger = logger
	}
}

// WithOutput sets where echo tasks print. Defaults to Stdout.
func WithOutput(w io.Writer) Option {
	return func(d *Debugger) {
		d.output = w
	}
}

// WithSessionOptions forwards options to every session the Debugger creates.
func WithSessionOptions(opts ...session.Option) Option {
	return func(d *Debugger) {
		d.sessionOpts = append(d.sessionOpts, opts...)
	}
}

// WithProperties predefines build properties.
func WithProperties(props map[string]string) Option {
	return func(d *Debugger) {
		d.properties = props
	}
}

// New creates a Debugger.
func New(opts ...Option) *Debugger {
	d := &Debugger{
		logger: logging.NewNop(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes targets of plan (or its default target) while the client on conn
// drives the build. conn is closed when Run returns.
func (d *Debugger) Run(ctx context.Context, plan *build.Plan, conn io.ReadWriteCloser, targets ...string) error {
	props := build.NewPropertyTable(nil)

	opts := []session.Option{
		session.WithLogger(d.logger),
		session.WithProperties(props),
	}
	sess := session.New(conn, append(opts, d.sessionOpts...)...)
	sess.Start(ctx)
	defer sess.Shutdown(nil)

	exec := build.NewExecutor(plan,
		build.WithPropertyTable(props),
		build.WithProperties(d.properties),
		build.WithListener(sess),
		build.WithLogger(d.logger),
		build.WithOutput(d.output),
	)
	return exec.Run(ctx, targets...)
}
