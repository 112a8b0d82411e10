package domain

// SuspendState is whether the build goroutine is currently blocked by the debugger.
type SuspendState string

const (
	StateRunning    SuspendState = "running"
	StateSuspended  SuspendState = "suspended"
	StateTerminated SuspendState = "terminated"
)

// SuspendReason explains why a decision point blocked the build.
type SuspendReason string

const (
	ReasonBreakpoint    SuspendReason = "BREAKPOINT"
	ReasonStep          SuspendReason = "STEP"
	ReasonClientRequest SuspendReason = "CLIENT_REQUEST"
	ReasonBuildStart    SuspendReason = "BUILD_START"
)

// Suspension is the outcome of a decision that blocks the build.
// Breakpoint is only set when Reason is ReasonBreakpoint.
type Suspension struct {
	Reason     SuspendReason `json:"reason"`
	Breakpoint *Breakpoint   `json:"breakpoint,omitempty"`
}

// StepKind selects the stepping behaviour requested by the client.
type StepKind int

const (
	StepNone StepKind = iota
	StepInto
	StepOver
	StepReturn
)

func (k StepKind) String() string {
	switch k {
	case StepInto:
		return "step_into"
	case StepOver:
		return "step_over"
	case StepReturn:
		return "step_return"
	default:
		return "none"
	}
}

// StepMode is the single active stepping request.
//
// For StepOver and StepReturn, Pending is the ID of the frame whose completion ends the step.
// Interrupted is set when a breakpoint suspended the build before the step completed; the
// step still fires once its pending frame finishes.
type StepMode struct {
	Kind        StepKind
	Pending     int
	Interrupted bool
}

// NoStep is the zero step mode.
var NoStep = StepMode{}

// Active reports whether any step request is armed.
func (m StepMode) Active() bool {
	return m.Kind != StepNone
}

// WaitsForFrame reports whether the step completes when the given frame finishes.
func (m StepMode) WaitsForFrame(id int) bool {
	return (m.Kind == StepOver || m.Kind == StepReturn) && m.Pending == id
}
