package debug

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// CallStack tracks where the build currently is: the frames of the tasks being executed,
// the active target, and the position inside the build sequence.
type CallStack struct {
	frames       []domain.Frame
	nextID       int
	lastFinished *domain.Frame

	target   *domain.Target
	sequence []string
	position int
}

// NewCallStack creates an empty call stack.
func NewCallStack() *CallStack {
	return &CallStack{position: -1}
}

// Enter pushes a frame for a task that just started and returns it.
func (s *CallStack) Enter(loc domain.Location, kind, targetID string) domain.Frame {
	s.nextID++
	frame := domain.Frame{
		ID:       s.nextID,
		Location: loc,
		Kind:     kind,
		TargetID: targetID,
	}
	s.frames = append(s.frames, frame)
	return frame
}

// Leave pops the innermost frame and records it as the last finished frame.
// Leaving an empty stack is an invariant violation of the host engine.
func (s *CallStack) Leave() (domain.Frame, error) {
	if len(s.frames) == 0 {
		return domain.Frame{}, domain.ErrStackUnderflow
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.lastFinished = &top
	return top, nil
}

// Current returns the innermost active frame.
func (s *CallStack) Current() (domain.Frame, bool) {
	if len(s.frames) == 0 {
		return domain.Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Enclosing returns the frame directly below the innermost one.
func (s *CallStack) Enclosing() (domain.Frame, bool) {
	if len(s.frames) < 2 {
		return domain.Frame{}, false
	}
	return s.frames[len(s.frames)-2], true
}

// LastFinished returns the most recently left frame.
func (s *CallStack) LastFinished() (domain.Frame, bool) {
	if s.lastFinished == nil {
		return domain.Frame{}, false
	}
	return *s.lastFinished, true
}

// Depth is the number of active frames.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Frames returns a copy of the active frames, outermost first.
func (s *CallStack) Frames() []domain.Frame {
	out := make([]domain.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// SetSequence records the ordered targets the host plans to execute.
func (s *CallStack) SetSequence(targets []string) {
	s.sequence = append([]string(nil), targets...)
	s.position = -1
}

// EnterTarget marks the target as active and advances the sequence position to it.
func (s *CallStack) EnterTarget(t domain.Target) {
	s.target = &t
	for i := s.position + 1; i < len(s.sequence); i++ {
		if s.sequence[i] == t.Name {
			s.position = i
			break
		}
	}
}

// LeaveTarget clears the active target. The task stack is not touched.
func (s *CallStack) LeaveTarget() {
	s.target = nil
}

// Target returns the active target.
func (s *CallStack) Target() (domain.Target, bool) {
	if s.target == nil {
		return domain.Target{}, false
	}
	return *s.target, true
}

// TargetName returns the active target name, or "" between targets.
func (s *CallStack) TargetName() string {
	if s.target == nil {
		return ""
	}
	return s.target.Name
}

// NextTarget returns the target scheduled after the current position.
func (s *CallStack) NextTarget() (string, bool) {
	next := s.position + 1
	if next >= len(s.sequence) {
		return "", false
	}
	return s.sequence[next], true
}

// Remaining returns the targets still scheduled after the current position.
func (s *CallStack) Remaining() []string {
	next := s.position + 1
	if next >= len(s.sequence) {
		return nil
	}
	return append([]string(nil), s.sequence[next:]...)
}
