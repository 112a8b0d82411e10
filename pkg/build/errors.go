package build

import "errors"

var (
	// ErrUnknownTarget is returned when a requested or depended-on target is not in the plan.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrDependencyCycle is returned when target dependencies form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrNoTarget is returned when no target was requested and the plan has no default.
	ErrNoTarget = errors.New("no target to run")

	// ErrBuildFailed is returned by the fail task.
	ErrBuildFailed = errors.New("build failed")
)
