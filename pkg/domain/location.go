package domain

import (
	"fmt"
	"strconv"
)

// Location is a position inside a build script.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	return l.File + ":" + strconv.Itoa(l.Line)
}

// Frame is one active task on the call stack.
// Frames are created when the build goroutine enters a task and destroyed when it finishes.
type Frame struct {
	ID       int      `json:"id"`
	Location Location `json:"location"`
	Kind     string   `json:"kind"`
	TargetID string   `json:"target"`
}

func (f Frame) String() string {
	return fmt.Sprintf("#%d %s (%s)", f.ID, f.Kind, f.Location)
}

// Target identifies a build target as reported by the host engine.
type Target struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Task identifies a task as reported by the host engine on start and finish.
type Task struct {
	Kind     string   `json:"kind"`
	Location Location `json:"location"`
}

// BuildInfo describes a build when it starts.
type BuildInfo struct {
	// Name is the project name.
	Name string `json:"name"`

	// Sequence is the ordered list of targets the host will execute, if known.
	Sequence []string `json:"sequence,omitempty"`
}
