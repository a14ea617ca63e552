package ports

import (
	"context"
	"errors"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ErrStateNotFound is returned when a requirement has no recorded state.
var ErrStateNotFound = errors.New("requirement state not found")

// StateStore persists whether requirements are satisfied and broadcasts changes.
type StateStore interface {
	// IsSatisfied returns the recorded state of id.
	// Returns ErrStateNotFound if nothing was recorded.
	IsSatisfied(ctx context.Context, id domain.RequirementIdentifier) (bool, error)

	// SetSatisfied records the state of id and notifies watchers.
	SetSatisfied(ctx context.Context, id domain.RequirementIdentifier, satisfied bool) error

	// Delete forgets the state of id and notifies watchers.
	Delete(ctx context.Context, id domain.RequirementIdentifier) error

	// List returns every recorded requirement.
	List(ctx context.Context) (map[domain.RequirementIdentifier]bool, error)

	// Watch emits once per change of id until ctx is done.
	Watch(ctx context.Context, id domain.RequirementIdentifier) (<-chan struct{}, error)
}
