package domain

// SearchTarget selects the item relative to a matched reference.
type SearchTarget int

const (
	// TargetExactly keeps the matched item on top.
	TargetExactly SearchTarget = iota
	// TargetBefore removes the matched item as well.
	TargetBefore
)

// Occurrence selects which match is used when a reference appears more than once.
type Occurrence int

const (
	OccurrenceLast Occurrence = iota
	OccurrenceFirst
)

// SearchPath limits where back navigation looks for a reference.
type SearchPath int

const (
	// AnyPath searches this coordinator and its ancestors.
	AnyPath SearchPath = iota
	// PreviousPath searches ancestors but never truncates the current stack.
	PreviousPath
	// CurrentPath searches only the current coordinator.
	CurrentPath
)

// DestinationSearch is the query of a back navigation.
type DestinationSearch struct {
	Target     SearchTarget
	Occurrence Occurrence
	Reference  Reference
	// Force dismisses presentations without asking their finish conditions.
	Force bool
}

// First matches the outermost occurrence of ref.
func First(ref Reference) DestinationSearch {
	return DestinationSearch{Target: TargetExactly, Occurrence: OccurrenceFirst, Reference: ref}
}

// Last matches the innermost occurrence of ref.
func Last(ref Reference) DestinationSearch {
	return DestinationSearch{Target: TargetExactly, Occurrence: OccurrenceLast, Reference: ref}
}

// Forced returns a copy that ignores finish conditions.
func (s DestinationSearch) Forced() DestinationSearch {
	s.Force = true
	return s
}

// Before returns a copy that also removes the matched item.
func (s DestinationSearch) Before() DestinationSearch {
	s.Target = TargetBefore
	return s
}
