package debug

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Controller is the suspend state machine of a session.
//
// It owns the pending step mode, the client suspend flag and the build-start flag.
// Decide is evaluated by the build goroutine at every decision point; the command
// methods are called by the command reader. Both happen under the session lock.
type Controller struct {
	state             domain.SuspendState
	step              domain.StepMode
	clientSuspend     bool
	suspendAtStart    bool
	firstPoint        bool
	targetBreakpoints bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSuspendAtStart controls whether the build blocks at its first decision point
// until the client resumes or steps. Enabled by default.
func WithSuspendAtStart(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.suspendAtStart = enabled
	}
}

// WithTargetBreakpoints makes breakpoints on a target's location suspend at target start.
// Disabled by default: breakpoints only match task locations.
func WithTargetBreakpoints(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.targetBreakpoints = enabled
	}
}

// NewController creates a controller in the running state.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		state:          domain.StateRunning,
		suspendAtStart: true,
		firstPoint:     true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decide evaluates one decision point and reports whether the build must block, and why.
//
// Rules, in order:
//  1. A breakpoint on the point's location wins. It interrupts a pending step over/return
//     and consumes a pending step into.
//  2. At task-level points: step into fires on the next task start; step over/return fire
//     once their pending frame has finished; then the client suspend flag is honoured.
//  3. Outside any task, the very first decision point blocks when suspend-at-start is on.
func (c *Controller) Decide(p domain.DecisionPoint, bps *BreakpointSet, stack *CallStack) (domain.Suspension, bool) {
	first := c.firstPoint
	c.firstPoint = false

	if loc, ok := c.breakpointLocation(p); ok {
		if bp, hit := bps.At(loc); hit {
			switch c.step.Kind {
			case domain.StepOver, domain.StepReturn:
				c.step.Interrupted = true
			case domain.StepInto:
				c.step = domain.NoStep
			}
			return domain.Suspension{Reason: domain.ReasonBreakpoint, Breakpoint: &bp}, true
		}
	}

	if p.TaskLevel() {
		if p.Kind == domain.PointTaskStart && c.step.Kind == domain.StepInto {
			c.step = domain.NoStep
			return domain.Suspension{Reason: domain.ReasonStep}, true
		}
		if last, ok := stack.LastFinished(); ok && c.step.WaitsForFrame(last.ID) {
			c.step = domain.NoStep
			return domain.Suspension{Reason: domain.ReasonStep}, true
		}
		if c.clientSuspend {
			c.clientSuspend = false
			return domain.Suspension{Reason: domain.ReasonClientRequest}, true
		}
		return domain.Suspension{}, false
	}

	if first && c.suspendAtStart {
		return domain.Suspension{Reason: domain.ReasonBuildStart}, true
	}
	return domain.Suspension{}, false
}

func (c *Controller) breakpointLocation(p domain.DecisionPoint) (domain.Location, bool) {
	switch p.Kind {
	case domain.PointTaskStart:
		if p.Frame != nil {
			return p.Frame.Location, true
		}
	case domain.PointTargetStart:
		if c.targetBreakpoints && p.Target != nil {
			return p.Target.Location, true
		}
	}
	return domain.Location{}, false
}

// StepInto arms a step that blocks at the next task start.
func (c *Controller) StepInto() {
	c.clientSuspend = false
	c.step = domain.StepMode{Kind: domain.StepInto}
}

// StepOver arms a step that blocks when the current frame finishes.
// Without a current frame it degrades to StepInto.
func (c *Controller) StepOver(stack *CallStack) {
	current, ok := stack.Current()
	if !ok {
		c.StepInto()
		return
	}
	c.clientSuspend = false
	c.step = domain.StepMode{Kind: domain.StepOver, Pending: current.ID}
}

// StepReturn arms a step that blocks when the enclosing frame finishes.
// Without an enclosing frame it degrades to StepInto.
func (c *Controller) StepReturn(stack *CallStack) {
	enclosing, ok := stack.Enclosing()
	if !ok {
		c.StepInto()
		return
	}
	c.clientSuspend = false
	c.step = domain.StepMode{Kind: domain.StepReturn, Pending: enclosing.ID}
}

// Suspend requests a block at the next task-level decision point.
// It supersedes any pending step.
func (c *Controller) Suspend() {
	c.clientSuspend = true
	c.step = domain.NoStep
}

// Resume drops the client suspend flag and any armed step. A step interrupted by a
// breakpoint survives and still fires when its frame completes.
func (c *Controller) Resume() {
	c.clientSuspend = false
	if !c.step.Interrupted {
		c.step = domain.NoStep
	}
}

// MarkSuspended records that the build goroutine is blocked.
func (c *Controller) MarkSuspended() {
	if c.state != domain.StateTerminated {
		c.state = domain.StateSuspended
	}
}

// MarkRunning records that the build goroutine was released.
func (c *Controller) MarkRunning() {
	if c.state != domain.StateTerminated {
		c.state = domain.StateRunning
	}
}

// MarkTerminated is final.
func (c *Controller) MarkTerminated() {
	c.state = domain.StateTerminated
}

// State returns the current suspend state.
func (c *Controller) State() domain.SuspendState {
	return c.state
}

// Step returns the pending step mode.
func (c *Controller) Step() domain.StepMode {
	return c.step
}

// SuspendRequested reports whether a client SUSPEND is pending.
func (c *Controller) SuspendRequested() bool {
	return c.clientSuspend
}
