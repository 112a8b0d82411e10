package debug

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallStack_EnterLeave(t *testing.T) {
	s := NewCallStack()
	assert.Equal(t, 0, s.Depth())
	_, ok := s.Current()
	assert.False(t, ok)

	outer := s.Enter(domain.Location{File: "build.yaml", Line: 3}, "sequential", "compile")
	inner := s.Enter(domain.Location{File: "build.yaml", Line: 5}, "echo", "compile")
	assert.NotEqual(t, outer.ID, inner.ID)
	assert.Equal(t, 2, s.Depth())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, inner, cur)
	enc, ok := s.Enclosing()
	require.True(t, ok)
	assert.Equal(t, outer, enc)

	left, err := s.Leave()
	require.NoError(t, err)
	assert.Equal(t, inner, left)
	last, ok := s.LastFinished()
	require.True(t, ok)
	assert.Equal(t, inner.ID, last.ID)

	_, ok = s.Enclosing()
	assert.False(t, ok)

	_, err = s.Leave()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Depth())
}

func TestCallStack_LeaveEmpty(t *testing.T) {
	s := NewCallStack()
	_, err := s.Leave()
	assert.ErrorIs(t, err, domain.ErrStackUnderflow)
}

func TestCallStack_FramesIsACopy(t *testing.T) {
	s := NewCallStack()
	s.Enter(domain.Location{File: "a", Line: 1}, "echo", "")
	frames := s.Frames()
	frames[0].Kind = "mutated"

	cur, _ := s.Current()
	assert.Equal(t, "echo", cur.Kind)
}

func TestCallStack_Sequence(t *testing.T) {
	s := NewCallStack()
	s.SetSequence([]string{"init", "compile", "test"})

	next, ok := s.NextTarget()
	require.True(t, ok)
	assert.Equal(t, "init", next)

	s.EnterTarget(domain.Target{Name: "init"})
	assert.Equal(t, "init", s.TargetName())
	next, _ = s.NextTarget()
	assert.Equal(t, "compile", next)
	assert.Equal(t, []string{"compile", "test"}, s.Remaining())

	s.LeaveTarget()
	_, ok = s.Target()
	assert.False(t, ok)

	// Skipping a target still moves the position forward.
	s.EnterTarget(domain.Target{Name: "test"})
	_, ok = s.NextTarget()
	assert.False(t, ok)
	assert.Empty(t, s.Remaining())
}

func TestCallStack_UnknownTargetKeepsPosition(t *testing.T) {
	s := NewCallStack()
	s.SetSequence([]string{"a", "b"})
	s.EnterTarget(domain.Target{Name: "a"})
	s.EnterTarget(domain.Target{Name: "adhoc"})

	assert.Equal(t, "adhoc", s.TargetName())
	next, _ := s.NextTarget()
	assert.Equal(t, "b", next)
}
