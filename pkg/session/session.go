package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/debug"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/protocol"
	"github.com/google/uuid"
)

const publishTimeout = 5 * time.Second

// Session is a debug session bound to one control stream.
// It implements ports.BuildListener.
type Session struct {
	id     string
	conn   io.ReadWriteCloser
	reader *CommandReader
	writer *ResponseWriter

	logger         *slog.Logger
	store          ports.StatusStore
	metrics        *observability.Metrics
	properties     ports.PropertySource
	controllerOpts []debug.ControllerOption

	// Guarded by mu.
	mu          sync.Mutex
	cond        *sync.Cond
	stack       *debug.CallStack
	breakpoints *debug.BreakpointSet
	controller  *debug.Controller
	resumeGen   uint64
	terminated  bool
	cause       error
	announced   bool
	baseline    map[string]string
	reason      domain.SuspendReason
	position    domain.Location
	status      domain.SessionStatus

	startOnce    sync.Once
	shutdownOnce sync.Once
	done         chan struct{}
}

var _ ports.BuildListener = (*Session)(nil)

// New creates a session on an already-open control stream.
func New(conn io.ReadWriteCloser, opts ...Option) *Session {
	s := &Session{
		conn:        conn,
		logger:      logging.NewNop(),
		stack:       debug.NewCallStack(),
		breakpoints: debug.NewBreakpointSet(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.logger = s.logger.With("session_id", s.id)
	s.cond = sync.NewCond(&s.mu)
	s.controller = debug.NewController(s.controllerOpts...)
	s.reader = NewCommandReader(conn, s.logger)
	s.writer = NewResponseWriter(conn)
	s.status = *domain.NewSessionStatus(s.id, "")
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start launches the command reader. Cancelling ctx shuts the session down.
// Calling Start more than once has no effect.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		stop := context.AfterFunc(ctx, func() {
			s.Shutdown(ctx.Err())
		})
		go func() {
			defer stop()
			s.readLoop()
		}()
		s.logger.Debug("debug session started")
	})
}

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the shutdown cause, or nil while the session is alive or after a clean finish.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Status returns the current status snapshot.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Breakpoints returns the breakpoints currently set.
func (s *Session) Breakpoints() []domain.Breakpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakpoints.List()
}

// OnBuildStart records the build and snapshots the property baseline.
func (s *Session) OnBuildStart(ctx context.Context, info domain.BuildInfo) error {
	return s.decide(ctx, func() (domain.DecisionPoint, error) {
		s.status.Build = info.Name
		s.stack.SetSequence(info.Sequence)
		if s.properties != nil {
			s.baseline = s.properties.Properties()
		}
		return domain.DecisionPoint{Kind: domain.PointBuildStart}, nil
	})
}

func (s *Session) OnTargetStart(ctx context.Context, target domain.Target) error {
	return s.decide(ctx, func() (domain.DecisionPoint, error) {
		s.stack.EnterTarget(target)
		s.position = target.Location
		return domain.DecisionPoint{Kind: domain.PointTargetStart, Target: &target}, nil
	})
}

func (s *Session) OnTargetFinish(ctx context.Context, target domain.Target) error {
	return s.decide(ctx, func() (domain.DecisionPoint, error) {
		s.stack.LeaveTarget()
		s.position = target.Location
		return domain.DecisionPoint{Kind: domain.PointTargetFinish, Target: &target}, nil
	})
}

func (s *Session) OnTaskStart(ctx context.Context, task domain.Task) error {
	return s.decide(ctx, func() (domain.DecisionPoint, error) {
		frame := s.stack.Enter(task.Location, task.Kind, s.stack.TargetName())
		s.position = frame.Location
		return domain.DecisionPoint{Kind: domain.PointTaskStart, Frame: &frame}, nil
	})
}

// OnTaskFinish pops the task's frame. Finishing a task that was never started is a
// session fault: the session shuts down and the returned error wraps domain.ErrStackUnderflow.
func (s *Session) OnTaskFinish(ctx context.Context, task domain.Task) error {
	return s.decide(ctx, func() (domain.DecisionPoint, error) {
		frame, err := s.stack.Leave()
		if err != nil {
			return domain.DecisionPoint{}, fmt.Errorf("finish %s task at %s: %w", task.Kind, task.Location, err)
		}
		s.position = frame.Location
		return domain.DecisionPoint{Kind: domain.PointTaskFinish, Frame: &frame}, nil
	})
}

// OnBuildFinish ends the session. The client observes end of stream.
func (s *Session) OnBuildFinish(ctx context.Context, buildErr error) {
	if buildErr != nil && !errors.Is(buildErr, domain.ErrSessionTerminated) {
		s.logger.Info("build finished with error", "error", buildErr)
		s.Shutdown(buildErr)
		return
	}
	s.logger.Info("build finished")
	s.Shutdown(nil)
}

// decide applies update to the session state and runs the controller, all under the lock.
// When the decision is to suspend, it notifies the client and blocks.
func (s *Session) decide(ctx context.Context, update func() (domain.DecisionPoint, error)) error {
	s.mu.Lock()
	if s.terminated {
		err := s.terminatedErrLocked()
		s.mu.Unlock()
		return err
	}

	point, err := update()
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("session fault", "error", err)
		s.Shutdown(err)
		return err
	}

	announce := !s.announced
	s.announced = true
	s.metrics.DecisionPoint(point.Kind)

	suspension, suspend := s.controller.Decide(point, s.breakpoints, s.stack)
	gen := s.resumeGen
	if suspend {
		s.controller.MarkSuspended()
		s.reason = suspension.Reason
	}
	status := s.statusLocked()
	s.mu.Unlock()

	if announce {
		s.logger.Info("build started", "build", status.Build)
		if err := s.writer.BuildStarted(); err != nil {
			return s.connectionLost(err)
		}
		if !suspend {
			s.publish(ctx, status)
		}
	}
	if !suspend {
		return nil
	}
	return s.suspend(ctx, suspension, gen, status)
}

func (s *Session) suspend(ctx context.Context, suspension domain.Suspension, gen uint64, status domain.SessionStatus) error {
	s.logger.Info("build suspended",
		"reason", suspension.Reason,
		"location", status.Location.String(),
		"depth", status.Depth,
	)
	s.metrics.Suspended(suspension.Reason)
	s.publish(ctx, status)

	// Build-start suspension is silent: the client learns about it from BUILD_STARTED.
	if suspension.Reason != domain.ReasonBuildStart {
		if err := s.writer.Suspended(suspension); err != nil {
			return s.connectionLost(err)
		}
	}

	started := time.Now()
	err := s.wait(ctx, gen)
	s.metrics.Resumed(time.Since(started))
	if err != nil {
		return err
	}

	s.logger.Debug("build resumed", "suspended_for", time.Since(started))
	s.publish(ctx, s.Status())
	return nil
}

// wait blocks until the resume generation moves past gen, the session terminates,
// or ctx is cancelled.
func (s *Session) wait(ctx context.Context, gen uint64) error {
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cond.Broadcast()
	})
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.resumeGen == gen && !s.terminated && ctx.Err() == nil {
		s.cond.Wait()
	}

	if s.terminated {
		return s.terminatedErrLocked()
	}
	s.controller.MarkRunning()
	s.reason = ""
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// resumeLocked wakes a suspended build goroutine. Callers hold mu.
func (s *Session) resumeLocked() {
	s.resumeGen++
	s.cond.Broadcast()
}

func (s *Session) readLoop() {
	for {
		cmd, err := s.reader.Next()
		if err != nil {
			if s.isTerminated() {
				return
			}
			cause := domain.ErrConnectionLost
			if !errors.Is(err, io.EOF) {
				cause = fmt.Errorf("%w: %w", domain.ErrConnectionLost, err)
			}
			s.logger.Warn("control stream closed", "error", err)
			s.Shutdown(cause)
			return
		}
		if stop := s.handle(cmd); stop {
			return
		}
	}
}

// handle applies one command. It reports whether the reader must stop.
func (s *Session) handle(cmd protocol.Command) bool {
	s.metrics.Command(string(cmd.Keyword))
	s.logger.Debug("command received", "command", cmd.String())

	switch cmd.Keyword {
	case protocol.CmdStepInto:
		s.locked(func() {
			s.controller.StepInto()
			s.resumeLocked()
		})
	case protocol.CmdStepOver:
		s.locked(func() {
			s.controller.StepOver(s.stack)
			s.resumeLocked()
		})
	case protocol.CmdStepReturn:
		s.locked(func() {
			s.controller.StepReturn(s.stack)
			s.resumeLocked()
		})
	case protocol.CmdSuspend:
		s.locked(s.controller.Suspend)
	case protocol.CmdResume:
		s.locked(func() {
			s.controller.Resume()
			s.resumeLocked()
		})
	case protocol.CmdTerminate:
		if err := s.writer.Terminated(); err != nil {
			s.logger.Warn("failed to acknowledge terminate", "error", err)
		}
		s.Shutdown(domain.ErrClientTerminated)
		return true
	case protocol.CmdStack:
		var payload protocol.StackPayload
		s.locked(func() { payload = s.stackPayloadLocked() })
		return s.reply(s.writer.Stack(payload))
	case protocol.CmdProperties:
		return s.reply(s.writer.Properties(s.propertiesPayload()))
	case protocol.CmdAddBreakpoint, protocol.CmdRemoveBreakpoint:
		var changed bool
		var n int
		s.locked(func() {
			if cmd.Keyword == protocol.CmdAddBreakpoint {
				changed = s.breakpoints.Add(cmd.Breakpoint)
			} else {
				changed = s.breakpoints.Remove(cmd.Breakpoint)
			}
			n = s.breakpoints.Len()
		})
		s.metrics.Breakpoints(n)
		s.logger.Debug("breakpoints updated", "command", cmd.Keyword, "breakpoint", cmd.Breakpoint.String(), "changed", changed)
	}
	return false
}

func (s *Session) reply(err error) bool {
	if err == nil {
		return false
	}
	if !s.isTerminated() {
		s.connectionLost(err)
	}
	return true
}

func (s *Session) locked(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *Session) stackPayloadLocked() protocol.StackPayload {
	payload := protocol.StackPayload{
		Frames:    s.stack.Frames(),
		Remaining: s.stack.Remaining(),
	}
	if target, ok := s.stack.Target(); ok {
		payload.Target = &target
	}
	if next, ok := s.stack.NextTarget(); ok {
		payload.Next = next
	}
	return payload
}

func (s *Session) propertiesPayload() protocol.PropertiesPayload {
	if s.properties == nil {
		return protocol.PropertiesPayload{}
	}
	current := s.properties.Properties()
	var baseline map[string]string
	s.locked(func() { baseline = s.baseline })
	return protocol.ClassifyProperties(baseline, current)
}

// Shutdown tears the session down: it marks it terminated, releases every waiter and
// closes the stream. Safe to call from any goroutine, any number of times; only the
// first cause is kept.
func (s *Session) Shutdown(cause error) {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.terminated = true
		s.cause = cause
		s.controller.MarkTerminated()
		s.cond.Broadcast()
		status := s.statusLocked()
		s.mu.Unlock()

		if err := s.conn.Close(); err != nil {
			s.logger.Debug("failed to close control stream", "error", err)
		}
		close(s.done)

		if cause != nil {
			status.Error = cause.Error()
			s.logger.Info("debug session terminated", "cause", cause)
		} else {
			s.logger.Info("debug session closed")
		}
		s.publish(context.Background(), status)
	})
}

func (s *Session) connectionLost(err error) error {
	s.logger.Warn("control stream write failed", "error", err)
	s.Shutdown(fmt.Errorf("%w: %w", domain.ErrConnectionLost, err))
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminatedErrLocked()
}

func (s *Session) isTerminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *Session) terminatedErrLocked() error {
	if s.cause != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionTerminated, s.cause)
	}
	return domain.ErrSessionTerminated
}

func (s *Session) statusLocked() domain.SessionStatus {
	status := s.status
	status.State = s.controller.State()
	status.Reason = s.reason
	status.Target = s.stack.TargetName()
	status.Location = s.position
	status.Depth = s.stack.Depth()
	status.UpdatedAt = time.Now()
	return status
}

// publish saves a status snapshot. Failures are logged, never returned.
func (s *Session) publish(ctx context.Context, status domain.SessionStatus) {
	if s.store == nil {
		return
	}
	if status.State != domain.StateTerminated && s.isTerminated() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.id, &status); err != nil {
		s.logger.Warn("failed to publish session status", "error", err)
	}
}
