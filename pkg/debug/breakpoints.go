package debug

import (
	"sort"

	"github.com/aretw0/waypoint/pkg/domain"
)

// BreakpointSet holds line breakpoints keyed by (file, line).
// Add and Remove are idempotent.
type BreakpointSet struct {
	breakpoints map[domain.Breakpoint]struct{}
}

// NewBreakpointSet creates an empty set.
func NewBreakpointSet() *BreakpointSet {
	return &BreakpointSet{
		breakpoints: make(map[domain.Breakpoint]struct{}),
	}
}

// Add inserts the breakpoint. Returns false if it was already present.
func (b *BreakpointSet) Add(bp domain.Breakpoint) bool {
	if _, ok := b.breakpoints[bp]; ok {
		return false
	}
	b.breakpoints[bp] = struct{}{}
	return true
}

// Remove deletes the breakpoint. Returns false if it was not present.
func (b *BreakpointSet) Remove(bp domain.Breakpoint) bool {
	if _, ok := b.breakpoints[bp]; !ok {
		return false
	}
	delete(b.breakpoints, bp)
	return true
}

// At returns the breakpoint set on the given location.
func (b *BreakpointSet) At(loc domain.Location) (domain.Breakpoint, bool) {
	if loc.IsZero() {
		return domain.Breakpoint{}, false
	}
	bp := domain.NewBreakpoint(loc)
	_, ok := b.breakpoints[bp]
	return bp, ok
}

// Len is the number of breakpoints.
func (b *BreakpointSet) Len() int {
	return len(b.breakpoints)
}

// List returns the breakpoints ordered by file, then line.
func (b *BreakpointSet) List() []domain.Breakpoint {
	out := make([]domain.Breakpoint, 0, len(b.breakpoints))
	for bp := range b.breakpoints {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}
