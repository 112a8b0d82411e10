package domain

// Breakpoint is a line breakpoint. Two breakpoints are equal when file and line match,
// so the struct is usable as a map key.
type Breakpoint struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// NewBreakpoint creates a breakpoint at the given location.
func NewBreakpoint(loc Location) Breakpoint {
	return Breakpoint{File: loc.File, Line: loc.Line}
}

// Location returns the position the breakpoint is set on.
func (b Breakpoint) Location() Location {
	return Location{File: b.File, Line: b.Line}
}

func (b Breakpoint) String() string {
	return b.Location().String()
}
