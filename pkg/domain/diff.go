package domain

// SnapshotDiff represents the changes between two coordinator snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type SnapshotDiff struct {
	// CoordinatorID is always present to identify the target.
	CoordinatorID string `json:"coordinator_id"`

	// Root is set when the root item changed (blocked, unblocked or replaced).
	Root *ItemSnapshot `json:"root,omitempty"`

	// Path describes how the navigation path changed.
	Path *PathDelta `json:"path,omitempty"`

	// Presented is set when a presentation appeared or its coordinator changed.
	Presented *SnapshotDiff `json:"presented,omitempty"`

	// Dismissed is true when the presentation went away.
	Dismissed bool `json:"dismissed,omitempty"`

	// Alert changed? An empty string means dismissed.
	Alert *string `json:"alert,omitempty"`
}

// PathDelta describes a path change as a common prefix followed by new items.
type PathDelta struct {
	// Kept is the number of leading items shared with the old path.
	Kept     int            `json:"kept"`
	Appended []ItemSnapshot `json:"appended,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
func Diff(oldSnap, newSnap *CoordinatorSnapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		CoordinatorID: newSnap.ID,
	}

	if oldSnap == nil || oldSnap.ID != newSnap.ID || oldSnap.Root != newSnap.Root {
		root := newSnap.Root
		diff.Root = &root
	}

	if oldSnap != nil && oldSnap.ID != newSnap.ID {
		oldSnap = nil
	}

	diff.Path = diffPath(oldSnap, newSnap)

	if oldSnap == nil || oldSnap.Alert != newSnap.Alert {
		if oldSnap != nil || newSnap.Alert != "" {
			alert := newSnap.Alert
			diff.Alert = &alert
		}
	}

	switch {
	case newSnap.Presentation == nil:
		diff.Dismissed = oldSnap != nil && oldSnap.Presentation != nil
	case oldSnap == nil || oldSnap.Presentation == nil:
		diff.Presented = Diff(nil, &newSnap.Presentation.Coordinator)
	default:
		diff.Presented = Diff(&oldSnap.Presentation.Coordinator, &newSnap.Presentation.Coordinator)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffPath(old *CoordinatorSnapshot, new *CoordinatorSnapshot) *PathDelta {
	if old == nil {
		if len(new.Path) == 0 {
			return nil
		}
		return &PathDelta{Appended: new.Path}
	}

	kept := 0
	for kept < len(old.Path) && kept < len(new.Path) && old.Path[kept] == new.Path[kept] {
		kept++
	}

	if kept == len(old.Path) && kept == len(new.Path) {
		return nil
	}

	delta := &PathDelta{Kept: kept}
	if kept < len(new.Path) {
		delta.Appended = new.Path[kept:]
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Root == nil &&
		d.Path == nil &&
		d.Presented == nil &&
		!d.Dismissed &&
		d.Alert == nil
}
