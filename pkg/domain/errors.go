package domain

import (
	"errors"
	"fmt"
)

// ErrRequirementMissing is returned when a requirement was referenced but never registered.
var ErrRequirementMissing = errors.New("requirement not registered")

// ErrRequirementFailed is returned when resolving a requirement was declined.
var ErrRequirementFailed = errors.New("requirement not resolved")

// ErrUnknownTab is returned when a tab destination names a tab that does not exist.
var ErrUnknownTab = errors.New("unknown tab")

// ErrNoActiveCoordinator is returned when no coordinator is currently visible.
var ErrNoActiveCoordinator = errors.New("no active coordinator")

// ErrDismissRefused is returned when a presented stack declined to finish, so
// the navigation that needed it gone did not happen.
var ErrDismissRefused = errors.New("dismissal refused")

// RequirementError reports which requirement stopped a navigation.
type RequirementError struct {
	Identifier RequirementIdentifier
	Err        error
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("requirement '%s': %v", e.Identifier, e.Err)
}

func (e *RequirementError) Unwrap() error {
	return e.Err
}

// MissingRequirement builds the error for an unregistered requirement.
func MissingRequirement(id RequirementIdentifier) error {
	return &RequirementError{Identifier: id, Err: ErrRequirementMissing}
}

// FailedRequirement builds the error for a declined requirement.
func FailedRequirement(id RequirementIdentifier) error {
	return &RequirementError{Identifier: id, Err: ErrRequirementFailed}
}
