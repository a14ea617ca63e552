package ports

import (
	"context"
	"net/url"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// FinishCondition is consulted before a navigation stack may be dismissed.
type FinishCondition func(ctx context.Context) bool

// Navigator is implemented by coordinators.
// Calls that change the visible stack block until the host acknowledges the transition.
type Navigator interface {
	ID() string

	// Navigate shows destination and returns the navigator that now holds it.
	// A nil navigator with a nil error means the destination was handled without a view.
	Navigate(ctx context.Context, destination domain.Destination, opts ...domain.NavigateOption) (Navigator, error)

	// NavigateBackTo searches for a reference and removes everything on top of it.
	// Returns nil when the reference was not found or a finish condition refused.
	NavigateBackTo(ctx context.Context, search domain.DestinationSearch, path domain.SearchPath) Navigator

	// NavigateBack pops the top item, or finishes when only the root is left.
	NavigateBack(ctx context.Context) Navigator

	// Dismiss removes the presented navigation stack, if any.
	Dismiss(ctx context.Context, force bool) bool

	// CanFinish reports whether this stack and everything presented on it may go away.
	CanFinish(ctx context.Context) bool

	// Finish asks the parent to dismiss this stack.
	Finish(ctx context.Context) bool

	SetFinishCondition(cond FinishCondition)
	RemoveFinishCondition()

	ShowAlert(alert domain.Alert)
	// DismissAlert dismisses the alert with the given id, or any alert when id is empty.
	DismissAlert(id string)

	// SendAction delivers action to the focused destination.
	SendAction(action domain.DestinationAction)

	// HandleDeeplink navigates to the destination u maps to.
	// Returns false when no provider recognised u.
	HandleDeeplink(ctx context.Context, u *url.URL) (bool, error)
}
