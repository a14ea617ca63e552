package runtime

import (
	"slices"
	"sync"
	"weak"
)

// CoordinatorStack tracks the coordinators of all visible navigation stacks
// without keeping them alive. The first entry is the root of the selected tab,
// the last one the top-most presented stack.
type CoordinatorStack struct {
	mu      sync.Mutex
	entries []weak.Pointer[Coordinator]
}

// NewCoordinatorStack creates an empty stack.
func NewCoordinatorStack() *CoordinatorStack {
	return &CoordinatorStack{}
}

// First returns the root of the visible stacks, or nil.
func (s *CoordinatorStack) First() *Coordinator {
	all := s.All()
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Last returns the top-most visible coordinator, or nil.
func (s *CoordinatorStack) Last() *Coordinator {
	all := s.All()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// All returns the live coordinators in order and drops collected entries.
func (s *CoordinatorStack) All() []*Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.entries[:0]
	out := make([]*Coordinator, 0, len(s.entries))
	for _, p := range s.entries {
		if c := p.Value(); c != nil {
			live = append(live, p)
			out = append(out, c)
		}
	}
	clear(s.entries[len(live):])
	s.entries = live
	return out
}

// Len counts the live coordinators.
func (s *CoordinatorStack) Len() int {
	return len(s.All())
}

// Contains reports whether c is currently visible.
func (s *CoordinatorStack) Contains(c *Coordinator) bool {
	p := weak.Make(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e == p {
			return true
		}
	}
	return false
}

// Append adds c on top. Adding a coordinator twice is a no-op.
func (s *CoordinatorStack) Append(c *Coordinator) {
	if c == nil || s.Contains(c) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, weak.Make(c))
}

// Remove drops c from the stack.
func (s *CoordinatorStack) Remove(c *Coordinator) {
	p := weak.Make(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.DeleteFunc(s.entries, func(e weak.Pointer[Coordinator]) bool { return e == p })
}

// Reset replaces the content of the stack.
func (s *CoordinatorStack) Reset(cs ...*Coordinator) {
	entries := make([]weak.Pointer[Coordinator], 0, len(cs))
	for _, c := range cs {
		if c != nil {
			entries = append(entries, weak.Make(c))
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}
