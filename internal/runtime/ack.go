package runtime

import (
	"context"
	"sync"
)

// ackSignal is a single-slot completion signal for visual transitions.
// It is armed before the state change so an acknowledgment that arrives
// early is never lost. At most one waiter is outstanding: arming while the
// slot is taken waits for it to be released.
type ackSignal struct {
	mu   sync.Mutex
	ch   chan struct{}
	free chan struct{}
}

// arm installs a new waiter once the previous one was acknowledged or
// abandoned. It returns nil if ctx is done first.
func (s *ackSignal) arm(ctx context.Context) chan struct{} {
	for {
		s.mu.Lock()
		if s.ch == nil {
			s.ch = make(chan struct{})
			s.free = make(chan struct{})
			ch := s.ch
			s.mu.Unlock()
			return ch
		}
		free := s.free
		s.mu.Unlock()

		select {
		case <-free:
		case <-ctx.Done():
			return nil
		}
	}
}

// releaseLocked empties the slot.
func (s *ackSignal) releaseLocked() {
	s.ch = nil
	close(s.free)
}

// fire releases the current waiter, if any. Extra calls are no-ops.
func (s *ackSignal) fire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return false
	}
	close(s.ch)
	s.releaseLocked()
	return true
}

// disarm drops ch if it is still the current waiter.
func (s *ackSignal) disarm(ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch != nil && s.ch == ch {
		s.releaseLocked()
	}
}

// wait blocks until ch is released or ctx is done.
func (s *ackSignal) wait(ctx context.Context, ch chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		s.disarm(ch)
		return ctx.Err()
	}
}
