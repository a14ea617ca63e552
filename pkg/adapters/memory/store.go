package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	data     map[domain.RequirementIdentifier]bool
	watchers map[domain.RequirementIdentifier]map[chan struct{}]struct{}
}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data:     make(map[domain.RequirementIdentifier]bool),
		watchers: make(map[domain.RequirementIdentifier]map[chan struct{}]struct{}),
	}
}

// IsSatisfied returns the recorded state.
func (s *Store) IsSatisfied(ctx context.Context, id domain.RequirementIdentifier) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	satisfied, ok := s.data[id]
	if !ok {
		return false, ports.ErrStateNotFound
	}
	return satisfied, nil
}

// SetSatisfied records the state and notifies watchers when it changed.
func (s *Store) SetSatisfied(ctx context.Context, id domain.RequirementIdentifier, satisfied bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[id]
	s.data[id] = satisfied
	if !existed || prev != satisfied {
		s.notifyLocked(id)
	}
	return nil
}

// Delete forgets the state.
func (s *Store) Delete(ctx context.Context, id domain.RequirementIdentifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; ok {
		delete(s.data, id)
		s.notifyLocked(id)
	}
	return nil
}

// List returns a copy of every recorded state.
func (s *Store) List(ctx context.Context) (map[domain.RequirementIdentifier]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data), nil
}

// Watch emits once per change of id. Changes coalesce while the receiver is busy.
func (s *Store) Watch(ctx context.Context, id domain.RequirementIdentifier) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	if s.watchers[id] == nil {
		s.watchers[id] = make(map[chan struct{}]struct{})
	}
	s.watchers[id][ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers[id], ch)
		if len(s.watchers[id]) == 0 {
			delete(s.watchers, id)
		}
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *Store) notifyLocked(id domain.RequirementIdentifier) {
	for ch := range s.watchers[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
