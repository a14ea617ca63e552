package domain

// DestinationAction is a message delivered to the screen of a navigation item.
type DestinationAction any

// SizeClass is the horizontal size class of the host window.
type SizeClass int

const (
	SizeClassUnspecified SizeClass = iota // treated as compact
	SizeClassCompact
	SizeClassRegular
)

// ActionKind distinguishes pushing from presenting.
type ActionKind int

const (
	ActionPush ActionKind = iota
	ActionPresent
)

// Action is a concrete way of showing a destination.
type Action struct {
	Kind         ActionKind
	Transition   Transition
	Presentation Presentation
	// IsModal disables interactive dismissal of a presented stack.
	IsModal bool
	// OnDismiss runs once the presented stack was dismissed.
	OnDismiss func()
}

// PushAction pushes onto the navigation stack with the given transition.
func PushAction(transition Transition) Action {
	return Action{Kind: ActionPush, Transition: transition}
}

// PresentAction presents a new navigation stack.
func PresentAction(presentation Presentation, isModal bool, onDismiss func()) Action {
	return Action{
		Kind:         ActionPresent,
		Transition:   TransitionAutomatic,
		Presentation: presentation,
		IsModal:      isModal,
		OnDismiss:    onDismiss,
	}
}

// IsPresenting reports whether the action presents a new stack.
func (a Action) IsPresenting() bool {
	return a.Kind == ActionPresent
}

// NavigationAction defines how a destination is navigated to, per size class.
type NavigationAction struct {
	compact Action
	regular *Action
}

// Pushing pushes the destination onto the current stack.
func Pushing() NavigationAction {
	return NavigationAction{compact: PushAction(TransitionAutomatic)}
}

// PushingWith pushes using a custom transition.
func PushingWith(transition Transition) NavigationAction {
	return NavigationAction{compact: PushAction(transition)}
}

// Presenting presents the destination non-modally as a sheet.
func Presenting() NavigationAction {
	return NavigationAction{compact: PresentAction(PresentationSheet, false, nil)}
}

// PresentingWith presents the destination with a custom configuration.
func PresentingWith(presentation Presentation, isModal bool, onDismiss func()) NavigationAction {
	return NavigationAction{compact: PresentAction(presentation, isModal, onDismiss)}
}

// Adaptive uses a different action for the regular size class.
func Adaptive(compact, regular Action) NavigationAction {
	return NavigationAction{compact: compact, regular: &regular}
}

// For returns the action for the given size class.
// The regular size class falls back to the compact action.
func (n NavigationAction) For(sizeClass SizeClass) Action {
	if sizeClass == SizeClassRegular && n.regular != nil {
		return *n.regular
	}
	return n.compact
}

// NavigateOptions are the optional parameters of a navigation request.
type NavigateOptions struct {
	Action    *NavigationAction
	Reference Reference
}

// NavigateOption configures a navigation request.
type NavigateOption func(*NavigateOptions)

// ByAction overrides the destination's preferred action.
func ByAction(action NavigationAction) NavigateOption {
	return func(o *NavigateOptions) {
		o.Action = &action
	}
}

// WithReference adds a back-navigation reference to the new item.
func WithReference(ref Reference) NavigateOption {
	return func(o *NavigateOptions) {
		o.Reference = ref
	}
}

// ApplyNavigateOptions folds the options into a NavigateOptions value.
func ApplyNavigateOptions(opts ...NavigateOption) NavigateOptions {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
