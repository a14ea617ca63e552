package ports

import (
	"context"
	"net/url"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// View is whatever a view factory renders a destination to.
type View any

// Resolution is the result of resolving a destination.
type Resolution struct {
	Destination domain.ViewDestination
	// Action is delivered to the destination after it appeared.
	Action domain.DestinationAction
}

// Requirement is a precondition for showing a destination, e.g. a logged in user.
type Requirement interface {
	Identifier() domain.RequirementIdentifier

	// IsResolved reports whether the requirement is currently fulfilled.
	IsResolved(ctx context.Context) bool

	// Resolve tries to fulfil the requirement, presenting destinations on nav if needed.
	Resolve(ctx context.Context, nav Navigator) bool

	// BlockingDestination is shown instead of a destination needing this requirement.
	// onResolve may be called by the blocking view to start resolving.
	BlockingDestination(reason domain.BlockingReason, onResolve func()) domain.ViewDestination

	// Updates signals whenever the requirement needs to be evaluated again.
	// The channel is closed when ctx is done.
	Updates(ctx context.Context) <-chan struct{}
}

// DeeplinkProvider maps urls to destinations.
type DeeplinkProvider interface {
	DestinationForDeeplink(u *url.URL, config domain.DeeplinkConfig) domain.Destination
}

// Resolver is everything a coordinator needs from its surroundings.
type Resolver interface {
	// ResolveDestination maps destination to a view destination.
	// ok is false when the destination was handled without a view.
	ResolveDestination(destination domain.Destination) (res Resolution, ok bool)

	// NextUnresolvedRequirement returns the first requirement of ids that is not resolved.
	NextUnresolvedRequirement(ctx context.Context, ids []domain.RequirementIdentifier) (Requirement, error)

	// ResolveRequirements resolves ids in order and fails on the first refusal.
	ResolveRequirements(ctx context.Context, ids []domain.RequirementIdentifier, nav Navigator) error

	// RequirementUpdates subscribes to the updates of a requirement.
	RequirementUpdates(ctx context.Context, id domain.RequirementIdentifier) (<-chan struct{}, error)

	View(destination domain.ViewDestination, nav Navigator, vc *domain.ViewContext) View
	DecorateNavigationStack(stack View, destination domain.ViewDestination, isPresenting bool, nav Navigator, vc domain.ViewContext) View

	// SendAction publishes action to the subscribers of target.
	SendAction(action domain.DestinationAction, target domain.Reference)

	DestinationForDeeplink(u *url.URL) domain.Destination
}
