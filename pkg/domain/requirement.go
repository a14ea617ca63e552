package domain

// RequirementIdentifier names a precondition, e.g. "login".
type RequirementIdentifier string

// BlockingReason tells a requirement why its blocking destination is requested.
type BlockingReason int

const (
	// BlockingNavigation is used for a tab root that was never validated.
	BlockingNavigation BlockingReason = iota
	// BlockingInvalidation is used when a satisfied requirement became unsatisfied.
	BlockingInvalidation
)

func (r BlockingReason) String() string {
	if r == BlockingNavigation {
		return "navigation"
	}
	return "invalidation"
}
