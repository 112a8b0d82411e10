package domain

// PointKind identifies a decision point: a hook call at which the controller
// re-evaluates whether the build must block.
type PointKind string

const (
	PointBuildStart   PointKind = "build_start"
	PointTargetStart  PointKind = "target_start"
	PointTargetFinish PointKind = "target_finish"
	PointTaskStart    PointKind = "task_start"
	PointTaskFinish   PointKind = "task_finish"
)

// DecisionPoint is the context handed to the controller for one decision.
//
// Frame is the entered frame on task start and the finished frame on task finish.
// Target is set for target decision points.
type DecisionPoint struct {
	Kind   PointKind
	Frame  *Frame
	Target *Target
}

// TaskLevel reports whether a task is active at this decision point.
func (p DecisionPoint) TaskLevel() bool {
	return p.Kind == PointTaskStart || p.Kind == PointTaskFinish
}
