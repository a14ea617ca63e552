package domain

// ItemSnapshot is the serializable view of a navigation item.
type ItemSnapshot struct {
	ID          string    `json:"id" yaml:"id"`
	Destination string    `json:"destination" yaml:"destination"`
	Reference   Reference `json:"reference,omitempty" yaml:"reference,omitempty"`
	// BlockedBy is the requirement currently replacing this item, if any.
	BlockedBy RequirementIdentifier `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
}

// PresentationSnapshot is the serializable view of a presented coordinator.
type PresentationSnapshot struct {
	Presentation Presentation        `json:"presentation" yaml:"presentation"`
	IsModal      bool                `json:"is_modal,omitempty" yaml:"is_modal,omitempty"`
	Coordinator  CoordinatorSnapshot `json:"coordinator" yaml:"coordinator"`
}

// CoordinatorSnapshot is a point-in-time copy of a coordinator tree.
type CoordinatorSnapshot struct {
	ID           string                `json:"id" yaml:"id"`
	Root         ItemSnapshot          `json:"root" yaml:"root"`
	Path         []ItemSnapshot        `json:"path,omitempty" yaml:"path,omitempty"`
	Presentation *PresentationSnapshot `json:"presentation,omitempty" yaml:"presentation,omitempty"`
	Alert        string                `json:"alert,omitempty" yaml:"alert,omitempty"`
	Finishing    bool                  `json:"finishing,omitempty" yaml:"finishing,omitempty"`
}

// Top returns the snapshot of the deepest presented coordinator.
func (s CoordinatorSnapshot) Top() CoordinatorSnapshot {
	for s.Presentation != nil {
		s = s.Presentation.Coordinator
	}
	return s
}

// Visible returns the destination names of the visible stack of s, root first.
func (s CoordinatorSnapshot) Visible() []string {
	names := make([]string, 0, len(s.Path)+1)
	names = append(names, s.Root.Destination)
	for _, item := range s.Path {
		names = append(names, item.Destination)
	}
	return names
}

// Depth counts the presentation levels below s.
func (s CoordinatorSnapshot) Depth() int {
	depth := 0
	for p := s.Presentation; p != nil; p = p.Coordinator.Presentation {
		depth++
	}
	return depth
}
