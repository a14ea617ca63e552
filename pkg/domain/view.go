package domain

import "reflect"

// ViewContext is handed to view factories when a navigation item is rendered.
type ViewContext struct {
	IsRoot       bool
	Reference    Reference
	SizeClass    SizeClass
	Presentation *Presentation
	// ShowCloseButton is set for the root of a dismissible presented stack.
	ShowCloseButton bool
	// UserInfo carries data from a view factory to its decorator.
	UserInfo any
	// Cache holds objects that live as long as the rendered view.
	Cache map[reflect.Type]any
}

// Cached returns the object of type T cached for this view, building it once.
func Cached[T any](ctx *ViewContext, build func() T) T {
	key := reflect.TypeFor[T]()
	if v, ok := ctx.Cache[key].(T); ok {
		return v
	}
	if ctx.Cache == nil {
		ctx.Cache = make(map[reflect.Type]any)
	}
	v := build()
	ctx.Cache[key] = v
	return v
}

// DeeplinkConfig configures which urls are treated as deep links.
type DeeplinkConfig struct {
	// AppScheme without "://", e.g. "myapp".
	AppScheme string `json:"app_scheme,omitempty" yaml:"app_scheme,omitempty"`
	// UniversalLinkPrefix is a regex matching the scheme and host of universal links,
	// e.g. `https?://(.*\.)?example\.com/`.
	UniversalLinkPrefix string `json:"universal_link_prefix,omitempty" yaml:"universal_link_prefix,omitempty"`
}
