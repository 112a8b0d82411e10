package debug

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestBreakpointSet(t *testing.T) {
	set := NewBreakpointSet()
	bp := domain.Breakpoint{File: "build.yaml", Line: 12}

	assert.True(t, set.Add(bp))
	assert.False(t, set.Add(bp), "adding twice is a no-op")
	assert.Equal(t, 1, set.Len())

	got, ok := set.At(domain.Location{File: "build.yaml", Line: 12})
	assert.True(t, ok)
	assert.Equal(t, bp, got)

	_, ok = set.At(domain.Location{File: "build.yaml", Line: 13})
	assert.False(t, ok)
	_, ok = set.At(domain.Location{})
	assert.False(t, ok)

	assert.True(t, set.Remove(bp))
	assert.False(t, set.Remove(bp), "removing an absent breakpoint is a no-op")
	assert.Equal(t, 0, set.Len())
}

func TestBreakpointSet_ListOrdered(t *testing.T) {
	set := NewBreakpointSet()
	set.Add(domain.Breakpoint{File: "b.yaml", Line: 1})
	set.Add(domain.Breakpoint{File: "a.yaml", Line: 9})
	set.Add(domain.Breakpoint{File: "a.yaml", Line: 2})

	assert.Equal(t, []domain.Breakpoint{
		{File: "a.yaml", Line: 2},
		{File: "a.yaml", Line: 9},
		{File: "b.yaml", Line: 1},
	}, set.List())
}
