package runtime

import (
	"slices"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/google/uuid"
)

// NavigationItem is one entry of a navigation stack.
// It is a value: copies share the same identity.
type NavigationItem struct {
	id         domain.Reference
	viewID     string
	references []domain.Reference
	transition domain.Transition
	original   domain.ViewDestination
	blocking   domain.ViewDestination
}

// NewItem creates an item with a fresh id for destination.
// The destination's own references are added to refs.
func NewItem(destination domain.ViewDestination, refs ...domain.Reference) NavigationItem {
	id := domain.NewReference()
	references := make([]domain.Reference, 0, len(refs))
	for _, ref := range append(refs, destination.References()...) {
		if ref != "" {
			references = append(references, ref)
		}
	}
	return NavigationItem{
		id:         id,
		viewID:     string(id),
		references: references,
		transition: domain.TransitionAutomatic,
		original:   destination,
	}
}

// WithTransition returns a copy using the given push transition.
func (i NavigationItem) WithTransition(t domain.Transition) NavigationItem {
	i.transition = t
	return i
}

func (i NavigationItem) ID() domain.Reference { return i.id }

// ViewID changes whenever the item is blocked or unblocked.
func (i NavigationItem) ViewID() string { return i.viewID }

func (i NavigationItem) Transition() domain.Transition { return i.transition }

func (i NavigationItem) References() []domain.Reference { return slices.Clone(i.references) }

func (i NavigationItem) OriginalDestination() domain.ViewDestination { return i.original }

// VisibleDestination is the blocking destination if any, else the original one.
func (i NavigationItem) VisibleDestination() domain.ViewDestination {
	if i.blocking != nil {
		return i.blocking
	}
	return i.original
}

func (i NavigationItem) IsBlocked() bool { return i.blocking != nil }

// Requirements always belong to the original destination.
func (i NavigationItem) Requirements() []domain.RequirementIdentifier {
	return i.original.Requirements()
}

// Block shows destination instead of the original one.
func (i *NavigationItem) Block(destination domain.ViewDestination) {
	i.blocking = destination
	i.viewID = uuid.NewString()
}

// Unblock shows the original destination again.
func (i *NavigationItem) Unblock() {
	i.blocking = nil
	i.viewID = string(i.id)
}

// Equal compares identities.
func (i NavigationItem) Equal(other NavigationItem) bool {
	return i.id == other.id
}

// Matches reports whether ref is the id or one of the references of the item.
func (i NavigationItem) Matches(ref domain.Reference) bool {
	return i.id == ref || slices.Contains(i.references, ref)
}

func (i NavigationItem) snapshot() domain.ItemSnapshot {
	s := domain.ItemSnapshot{
		ID:          string(i.id),
		Destination: domain.NameOf(i.original),
	}
	if len(i.references) > 0 {
		s.Reference = i.references[0]
	}
	if i.blocking != nil {
		s.BlockedBy = blockingRequirement(i.blocking)
	}
	return s
}

// blockingRequirement names what blocks an item in snapshots.
func blockingRequirement(d domain.ViewDestination) domain.RequirementIdentifier {
	if b, ok := d.(interface {
		BlockedBy() domain.RequirementIdentifier
	}); ok {
		return b.BlockedBy()
	}
	return domain.RequirementIdentifier(domain.NameOf(d))
}

func findIndex(path []NavigationItem, occurrence domain.Occurrence, ref domain.Reference) int {
	match := func(i NavigationItem) bool { return i.Matches(ref) }
	if occurrence == domain.OccurrenceFirst {
		return slices.IndexFunc(path, match)
	}
	for i := len(path) - 1; i >= 0; i-- {
		if match(path[i]) {
			return i
		}
	}
	return -1
}
