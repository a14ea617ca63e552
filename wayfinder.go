package wayfinder

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/resolver"
)

// Tab describes one root navigation stack of an App.
type Tab struct {
	ID    domain.TabID
	Title string
	Root  domain.ViewDestination
}

type tab struct {
	Tab
	coordinator *Coordinator
}

// URLOpener opens urls that are not deep links, e.g. in a browser.
type URLOpener func(ctx context.Context, u *url.URL) bool

// App is the high-level entry point: it owns the tab coordinators, the
// resolver and the stack of visible coordinators.
type App struct {
	resolver  *resolver.Resolver
	stack     *CoordinatorStack
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	deeplink  domain.DeeplinkConfig
	opener    URLOpener
	autoAck   bool
	sizeClass domain.SizeClass

	requirements []ports.Requirement
	providers    []ports.DeeplinkProvider

	mu        sync.Mutex
	tabs      []tab
	selected  int
	tabAppear chan struct{}
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets a custom structured logger for the App and its coordinators.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on every coordinator.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithAutoAcknowledge makes transitions complete without waiting for the host.
// Use it for headless hosts and tests.
func WithAutoAcknowledge() Option {
	return func(a *App) {
		a.autoAck = true
	}
}

// WithDeeplinkConfig configures which urls are deep links.
func WithDeeplinkConfig(cfg domain.DeeplinkConfig) Option {
	return func(a *App) {
		a.deeplink = cfg
	}
}

// WithURLOpener handles outgoing urls that no deep-link provider recognises.
func WithURLOpener(opener URLOpener) Option {
	return func(a *App) {
		a.opener = opener
	}
}

// WithResolver injects a preconfigured resolver. The App registers its tab,
// alert and url mappers on it.
func WithResolver(r *resolver.Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithRequirements registers requirements before the tab coordinators start,
// so tab roots that depend on them are evaluated right away.
func WithRequirements(reqs ...ports.Requirement) Option {
	return func(a *App) {
		a.requirements = append(a.requirements, reqs...)
	}
}

// WithDeeplinkProviders registers deep link providers in order.
func WithDeeplinkProviders(providers ...ports.DeeplinkProvider) Option {
	return func(a *App) {
		a.providers = append(a.providers, providers...)
	}
}

// WithSizeClass sets the initial horizontal size class.
func WithSizeClass(sizeClass domain.SizeClass) Option {
	return func(a *App) {
		a.sizeClass = sizeClass
	}
}

// New creates an App with one coordinator per tab. The first tab is selected.
func New(tabs []Tab, opts ...Option) (*App, error) {
	if len(tabs) == 0 {
		return nil, fmt.Errorf("at least one tab is required")
	}

	a := &App{stack: runtime.NewCoordinatorStack()}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.resolver == nil {
		a.resolver = resolver.New(resolver.WithLogger(a.logger), resolver.WithDeeplinkConfig(a.deeplink))
	}
	for _, req := range a.requirements {
		a.resolver.RegisterRequirement(req)
	}
	for _, p := range a.providers {
		a.resolver.RegisterDeeplinkProvider(p)
	}
	a.registerMappers()

	coordOpts := []runtime.Option{
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
		runtime.WithStack(a.stack),
		runtime.WithSizeClass(a.sizeClass),
	}
	if a.autoAck {
		coordOpts = append(coordOpts, runtime.WithAutoAcknowledge())
	}

	for _, t := range tabs {
		if t.Root == nil {
			a.Close()
			return nil, fmt.Errorf("tab %q has no root destination", t.ID)
		}
		if slices.ContainsFunc(a.tabs, func(existing tab) bool { return existing.ID == t.ID }) {
			a.Close()
			return nil, fmt.Errorf("duplicate tab %q", t.ID)
		}
		c := runtime.NewTabCoordinator(t.Root, a.resolver, coordOpts...)
		c.SetUp()
		a.tabs = append(a.tabs, tab{Tab: t, coordinator: c})
	}
	a.stack.Reset(a.tabs[0].coordinator.Chain()...)

	a.logger.Debug("app created", "tabs", len(a.tabs))
	return a, nil
}

// Close stops every coordinator.
func (a *App) Close() {
	a.mu.Lock()
	tabs := slices.Clone(a.tabs)
	a.mu.Unlock()
	for _, t := range tabs {
		t.coordinator.Close()
	}
}

func (a *App) Resolver() *resolver.Resolver { return a.resolver }

// Stack returns the coordinators of the selected tab, root first.
func (a *App) Stack() *CoordinatorStack { return a.stack }

// Tabs returns the tab descriptions in order.
func (a *App) Tabs() []Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Tab, 0, len(a.tabs))
	for _, t := range a.tabs {
		out = append(out, t.Tab)
	}
	return out
}

func (a *App) SelectedTab() domain.TabID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tabs[a.selected].ID
}

// Tab returns the root coordinator of the tab id.
func (a *App) Tab(id domain.TabID) (*Coordinator, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTab, id)
	}
	return a.tabs[i].coordinator, nil
}

func (a *App) indexLocked(id domain.TabID) int {
	return slices.IndexFunc(a.tabs, func(t tab) bool { return t.ID == id })
}

// Active returns the top-most visible coordinator.
func (a *App) Active() (*Coordinator, error) {
	if c := a.stack.Last(); c != nil {
		return c, nil
	}
	return nil, domain.ErrNoActiveCoordinator
}

// Navigate navigates from the top-most visible coordinator.
func (a *App) Navigate(ctx context.Context, destination domain.Destination, opts ...domain.NavigateOption) (ports.Navigator, error) {
	c, err := a.Active()
	if err != nil {
		return nil, err
	}
	return c.Navigate(ctx, destination, opts...)
}

// Back navigates back from the top-most visible coordinator.
func (a *App) Back(ctx context.Context) (ports.Navigator, error) {
	c, err := a.Active()
	if err != nil {
		return nil, err
	}
	return c.NavigateBack(ctx), nil
}

// SetHorizontalSizeClass forwards a size class change to every coordinator.
func (a *App) SetHorizontalSizeClass(sizeClass domain.SizeClass) {
	a.mu.Lock()
	tabs := slices.Clone(a.tabs)
	a.mu.Unlock()
	for _, t := range tabs {
		for _, c := range t.coordinator.Chain() {
			c.SetHorizontalSizeClass(sizeClass)
		}
	}
}

// Snapshot captures the navigation tree of every tab.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	tabs := slices.Clone(a.tabs)
	selected := a.tabs[a.selected].ID
	a.mu.Unlock()

	s := Snapshot{Selected: selected}
	for _, t := range tabs {
		s.Tabs = append(s.Tabs, TabSnapshot{
			ID:          t.ID,
			Title:       t.Title,
			Coordinator: t.coordinator.Snapshot(),
		})
	}
	return s
}
