package field

// StepScheduler is a Scheduler driven by hand. Callbacks queue up until Step
// runs them, which lets headless runs and tests advance the field one frame
// at a time.
type StepScheduler struct {
	next    FrameHandle
	pending []scheduled

	Requests int // Total RequestFrame calls
	Cancels  int // CancelFrame calls that removed a pending callback
}

type scheduled struct {
	handle FrameHandle
	cb     func()
}

// NewStepScheduler creates an empty scheduler.
func NewStepScheduler() *StepScheduler {
	return &StepScheduler{}
}

// RequestFrame queues cb for the next Step.
func (s *StepScheduler) RequestFrame(cb func()) FrameHandle {
	s.next++
	s.Requests++
	s.pending = append(s.pending, scheduled{handle: s.next, cb: cb})
	return s.next
}

// CancelFrame drops a queued callback. Unknown handles are ignored.
func (s *StepScheduler) CancelFrame(h FrameHandle) {
	for i, p := range s.pending {
		if p.handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			s.Cancels++
			return
		}
	}
}

// Step runs every callback queued before the call. Callbacks requested while
// stepping wait for the next Step. Returns the number of callbacks run.
func (s *StepScheduler) Step() int {
	batch := s.pending
	s.pending = nil
	for _, p := range batch {
		p.cb()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *StepScheduler) Pending() int {
	return len(s.pending)
}
