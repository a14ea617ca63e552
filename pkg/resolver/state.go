package resolver

import (
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// StateViewKind tells a StateViewFactory where a view is placed.
type StateViewKind int

const (
	// StateViewContent is the content of a navigation stack entry.
	StateViewContent StateViewKind = iota
	// StateViewBottomSheet is the content of a bottom sheet.
	StateViewBottomSheet
	// StateViewNavigationStack is a complete navigation stack.
	StateViewNavigationStack
)

// StateView is a rendered view together with its placement.
type StateView struct {
	Kind            StateViewKind
	Content         ports.View
	IsRoot          bool
	ShowCloseButton bool
	IsPresenting    bool
}

// StateViewFactory renders the destinations of the navigation core itself and
// decorates every view produced by the resolver.
type StateViewFactory interface {
	View(destination domain.StateDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View
	Decorate(view StateView, nav ports.Navigator, vc domain.ViewContext) ports.View
}

// TextStateFactory renders state destinations as short strings and leaves
// decoration to the host by returning the StateView itself.
type TextStateFactory struct{}

func (TextStateFactory) View(destination domain.StateDestination, _ ports.Navigator, _ *domain.ViewContext) ports.View {
	switch destination.Kind {
	case domain.StateNotResolvable:
		return fmt.Sprintf("[not resolvable: %s]", domain.NameOf(destination.Source))
	case domain.StateMissingViewFactory:
		return fmt.Sprintf("[missing view factory: %s]", domain.NameOf(destination.Source))
	default:
		return "[" + destination.Kind.String() + "]"
	}
}

func (TextStateFactory) Decorate(view StateView, _ ports.Navigator, _ domain.ViewContext) ports.View {
	return view
}
