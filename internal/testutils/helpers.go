package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Screen is a configurable view destination for tests.
type Screen struct {
	Name   string
	Refs   []domain.Reference
	Reqs   []domain.RequirementIdentifier
	Action *domain.NavigationAction
}

// NewScreen returns a pushing screen without references or requirements.
func NewScreen(name string) Screen {
	return Screen{Name: name}
}

// Requiring returns a copy of s gated by ids.
func (s Screen) Requiring(ids ...domain.RequirementIdentifier) Screen {
	s.Reqs = append([]domain.RequirementIdentifier(nil), ids...)
	return s
}

// Referenced returns a copy of s carrying refs.
func (s Screen) Referenced(refs ...domain.Reference) Screen {
	s.Refs = append([]domain.Reference(nil), refs...)
	return s
}

// Presented returns a copy of s that prefers being presented as p.
func (s Screen) Presented(p domain.Presentation) Screen {
	a := domain.PresentingWith(p, false, nil)
	s.Action = &a
	return s
}

func (s Screen) PreferredAction() domain.NavigationAction {
	if s.Action != nil {
		return *s.Action
	}
	return domain.Pushing()
}

func (s Screen) References() []domain.Reference { return s.Refs }

func (s Screen) Requirements() []domain.RequirementIdentifier { return s.Reqs }

func (s Screen) DestinationName() string { return s.Name }

// Recorder captures lifecycle events. Safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	Navigation   []domain.NavigationEvent
	Requirements []domain.RequirementEvent
}

// Hooks returns hooks feeding the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigation: func(_ context.Context, e *domain.NavigationEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Navigation = append(r.Navigation, *e)
		},
		OnRequirement: func(_ context.Context, e *domain.RequirementEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Requirements = append(r.Requirements, *e)
		},
	}
}

// Types returns the types of all recorded events in order of arrival per kind.
func (r *Recorder) Types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, 0, len(r.Navigation)+len(r.Requirements))
	for _, e := range r.Navigation {
		out = append(out, e.Type)
	}
	for _, e := range r.Requirements {
		out = append(out, e.Type)
	}
	return out
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t domain.EventType) int {
	n := 0
	for _, got := range r.Types() {
		if got == t {
			n++
		}
	}
	return n
}
