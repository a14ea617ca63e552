package domain

import (
	"net/url"
	"reflect"

	"github.com/google/uuid"
)

// Destination is anything a navigator can be asked to navigate to.
// Destinations that are not a ViewDestination are mapped by the resolver.
type Destination any

// ViewDestination is a destination that results in a renderable screen.
type ViewDestination interface {
	// PreferredAction is used when the caller does not pass an explicit action.
	PreferredAction() NavigationAction
	// References are extra back-navigation targets for items showing this destination.
	References() []Reference
	// Requirements must be resolved, in order, before the destination is shown.
	Requirements() []RequirementIdentifier
}

// ViewDefaults can be embedded to get the default ViewDestination behaviour:
// pushing, no references and no requirements.
type ViewDefaults struct{}

func (ViewDefaults) PreferredAction() NavigationAction     { return Pushing() }
func (ViewDefaults) References() []Reference               { return nil }
func (ViewDefaults) Requirements() []RequirementIdentifier { return nil }

// Reference identifies a navigation item for back navigation.
type Reference string

// TabRoot is carried by the root item of every tab coordinator.
const TabRoot Reference = "tabRoot"

// NewReference returns a fresh, unique reference.
func NewReference() Reference {
	return Reference(uuid.NewString())
}

// URLDestination navigates to a url, either a deep link or an external link.
type URLDestination struct {
	URL *url.URL
}

// TabID identifies a tab of the application.
type TabID string

// TabDestination selects a tab.
type TabDestination struct {
	Tab       TabID
	PopToRoot bool
}

// Tab returns a destination that selects the tab and pops it to its root.
func Tab(id TabID) TabDestination {
	return TabDestination{Tab: id, PopToRoot: true}
}

// AlertDestination shows an alert instead of a screen.
type AlertDestination struct {
	Alert Alert
}

// ActionableDestination carries an action that is delivered once the
// destination has been navigated to.
type ActionableDestination struct {
	Destination Destination
	Action      DestinationAction
}

// WithAction attaches an action to a destination.
func WithAction(destination Destination, action DestinationAction) ActionableDestination {
	return ActionableDestination{Destination: destination, Action: action}
}

// StateKind describes why a StateDestination is shown.
type StateKind int

const (
	// StateNotResolvable is shown when no mapper exists for a destination.
	StateNotResolvable StateKind = iota + 1
	// StateMissingViewFactory is shown when no view factory exists for a view destination.
	StateMissingViewFactory
	// StatePlaceholder is shown on a tab root until its requirements were evaluated.
	StatePlaceholder
)

func (k StateKind) String() string {
	switch k {
	case StateNotResolvable:
		return "not_resolvable"
	case StateMissingViewFactory:
		return "missing_view_factory"
	case StatePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// StateDestination is used by the navigation core itself.
type StateDestination struct {
	ViewDefaults
	Kind   StateKind
	Source Destination
}

// Placeholder returns the destination shown on an unvalidated tab root.
func Placeholder() StateDestination {
	return StateDestination{Kind: StatePlaceholder}
}

// IsPlaceholder reports whether d is the placeholder state destination.
func IsPlaceholder(d ViewDestination) bool {
	s, ok := d.(StateDestination)
	return ok && s.Kind == StatePlaceholder
}

// Named can be implemented by destinations to control how they are displayed
// in snapshots, logs and diagrams.
type Named interface {
	DestinationName() string
}

// NameOf returns a human readable name for d.
func NameOf(d Destination) string {
	switch v := d.(type) {
	case nil:
		return "<nil>"
	case Named:
		return v.DestinationName()
	case StateDestination:
		return "state:" + v.Kind.String()
	}
	t := reflect.TypeOf(d)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
