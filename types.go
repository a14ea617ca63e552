package wayfinder

import (
	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// Runtime types re-exported for hosts.
type (
	Coordinator      = runtime.Coordinator
	CoordinatorStack = runtime.CoordinatorStack
	NavigationItem   = runtime.NavigationItem
	PresentationItem = runtime.PresentationItem
)

// NewItem creates a navigation item for destination.
func NewItem(destination domain.ViewDestination, refs ...domain.Reference) NavigationItem {
	return runtime.NewItem(destination, refs...)
}

// TabSnapshot is the tree of one tab.
type TabSnapshot struct {
	ID          domain.TabID               `json:"id" yaml:"id"`
	Title       string                     `json:"title,omitempty" yaml:"title,omitempty"`
	Coordinator domain.CoordinatorSnapshot `json:"coordinator" yaml:"coordinator"`
}

// Snapshot is the navigation tree of an App.
type Snapshot struct {
	Selected domain.TabID  `json:"selected" yaml:"selected"`
	Tabs     []TabSnapshot `json:"tabs" yaml:"tabs"`
}

// Visible returns the selected tab's snapshot.
func (s Snapshot) Visible() (TabSnapshot, bool) {
	for _, t := range s.Tabs {
		if t.ID == s.Selected {
			return t, true
		}
	}
	return TabSnapshot{}, false
}
