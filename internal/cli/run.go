package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/logging"
	httpAdapter "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/build"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// RunOptions configures Run.
type RunOptions struct {
	PlanPath   string
	Targets    []string
	Properties map[string]string
	Config     config.Config
	Logger     *slog.Logger
	// Output receives echo tasks and system messages. Defaults to Stdout.
	Output io.Writer
	// OnListen is called with the debug listener address before accepting the client.
	OnListen func(net.Addr)
}

// Run executes a build plan. When a debug address is configured it waits for exactly
// one debug client and runs the build under its session. When an admin address is
// configured the admin API is served until the build ends.
func Run(ctx context.Context, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	cfg := opts.Config

	plan, err := build.LoadPlan(opts.PlanPath)
	if err != nil {
		return err
	}
	if _, err := plan.Order(opts.Targets...); err != nil {
		return err
	}

	store, closeStore, err := OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close status store", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.AdminAddr != "" {
		handler := httpAdapter.NewHandler(store,
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		)
		serveAdmin(gctx, g, cfg.AdminAddr, handler, logger)
		printSystemMessage(out, "Admin API on %s", cfg.AdminAddr)
	}

	props := build.NewPropertyTable(nil)
	var listener ports.BuildListener = ports.NopListener{}

	if cfg.DebugAddr != "" {
		conn, err := acceptClient(gctx, cfg.DebugAddr, opts.OnListen, out)
		if err != nil {
			stop()
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}

		sess := session.New(conn,
			session.WithLogger(logger),
			session.WithStore(store),
			session.WithMetrics(metrics),
			session.WithProperties(props),
			session.WithSuspendAtStart(cfg.SuspendAtStart),
			session.WithTargetBreakpoints(cfg.TargetBreakpoints),
		)
		sess.Start(gctx)
		listener = sess
		printSystemMessage(out, "Debug client attached (session %s)", sess.ID())
	}

	exec := build.NewExecutor(plan,
		build.WithPropertyTable(props),
		build.WithProperties(opts.Properties),
		build.WithListener(listener),
		build.WithLogger(logger),
		build.WithOutput(out),
	)

	g.Go(func() error {
		defer stop()
		return exec.Run(gctx, opts.Targets...)
	})

	return g.Wait()
}

// acceptClient listens on addr and accepts a single connection.
func acceptClient(ctx context.Context, addr string, onListen func(net.Addr), out io.Writer) (net.Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for debug client: %w", err)
	}
	defer ln.Close()

	stopClose := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stopClose()

	if onListen != nil {
		onListen(ln.Addr())
	}
	printSystemMessage(out, "Waiting for debug client on %s", ln.Addr())

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to accept debug client: %w", err)
	}
	return conn, nil
}

// serveAdmin runs an HTTP server inside g until ctx is done.
func serveAdmin(ctx context.Context, g *errgroup.Group, addr string, handler http.Handler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("admin API listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin API: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("admin API did not stop gracefully", "error", err)
			return srv.Close()
		}
		return nil
	})
}

// Serve runs the admin API alone over an existing store until ctx is cancelled.
func Serve(ctx context.Context, addr string, store ports.StatusStore, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	g, gctx := errgroup.WithContext(ctx)
	serveAdmin(gctx, g, addr, httpAdapter.NewHandler(store, httpAdapter.WithLogger(logger)), logger)
	return g.Wait()
}
