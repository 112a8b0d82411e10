package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Executor runs a plan, reporting every step to a listener.
type Executor struct {
	plan     *Plan
	listener ports.BuildListener
	props    *PropertyTable
	logger   *slog.Logger
	out      io.Writer
}

// Option configures an Executor.
type Option func(*Executor)

// WithListener sets the hooks called at every decision point. Defaults to ports.NopListener.
func WithListener(l ports.BuildListener) Option {
	return func(e *Executor) {
		e.listener = l
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithOutput sets where echo tasks print. Defaults to Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		e.out = w
	}
}

// WithPropertyTable makes the executor write into an existing table, so a listener
// created before the executor can observe it. Apply it before WithProperties.
func WithPropertyTable(t *PropertyTable) Option {
	return func(e *Executor) {
		e.props = t
	}
}

// WithProperties predefines properties. They take precedence over the plan's.
func WithProperties(props map[string]string) Option {
	return func(e *Executor) {
		for k, v := range props {
			e.props.Set(k, v)
		}
	}
}

// NewExecutor creates an executor for plan.
func NewExecutor(plan *Plan, opts ...Option) *Executor {
	e := &Executor{
		plan:     plan,
		listener: ports.NopListener{},
		props:    NewPropertyTable(nil),
		logger:   logging.NewNop(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	for k, v := range plan.Properties {
		e.props.Set(k, v)
	}
	return e
}

// Properties exposes the live property table.
func (e *Executor) Properties() *PropertyTable {
	return e.props
}

// Run executes the requested targets (or the default) and their dependencies.
// The listener's OnBuildFinish is always called once the build has started.
func (e *Executor) Run(ctx context.Context, targets ...string) (err error) {
	order, err := e.plan.Order(targets...)
	if err != nil {
		return err
	}

	defer func() {
		e.listener.OnBuildFinish(ctx, err)
	}()

	e.logger.Info("build started", "project", e.plan.Project, "targets", order)
	info := domain.BuildInfo{Name: e.plan.Project, Sequence: order}
	if err = e.listener.OnBuildStart(ctx, info); err != nil {
		return fmt.Errorf("build aborted: %w", err)
	}

	for _, name := range order {
		if err = ctx.Err(); err != nil {
			return err
		}
		target, _ := e.plan.Target(name)
		if err = e.runTarget(ctx, target); err != nil {
			return err
		}
	}
	e.logger.Info("build finished", "project", e.plan.Project)
	return nil
}

func (e *Executor) location(line int) domain.Location {
	return domain.Location{File: e.plan.File, Line: line}
}

func (e *Executor) runTarget(ctx context.Context, spec TargetSpec) error {
	target := domain.Target{Name: spec.Name, Location: e.location(spec.Line)}
	e.logger.Debug("target started", "target", spec.Name)

	if err := e.listener.OnTargetStart(ctx, target); err != nil {
		return fmt.Errorf("build aborted at target %s: %w", spec.Name, err)
	}
	for _, task := range spec.Tasks {
		if err := e.runTask(ctx, task); err != nil {
			return err
		}
	}
	if err := e.listener.OnTargetFinish(ctx, target); err != nil {
		return fmt.Errorf("build aborted at target %s: %w", spec.Name, err)
	}
	return nil
}

// runTask reports the finish hook even when the task fails, so the listener's
// stack stays balanced.
func (e *Executor) runTask(ctx context.Context, spec TaskSpec) error {
	task := domain.Task{Kind: spec.Kind, Location: e.location(spec.Line)}

	if err := e.listener.OnTaskStart(ctx, task); err != nil {
		return fmt.Errorf("build aborted at %s: %w", task.Location, err)
	}

	runErr := e.perform(ctx, spec)
	if err := e.listener.OnTaskFinish(ctx, task); err != nil {
		if runErr != nil && errors.Is(err, domain.ErrSessionTerminated) {
			return runErr
		}
		return fmt.Errorf("build aborted at %s: %w", task.Location, err)
	}
	return runErr
}
