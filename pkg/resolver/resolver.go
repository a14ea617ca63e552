package resolver

import (
	"context"
	"log/slog"
	"net/url"
	"reflect"
	"sync"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// maxMapperDepth bounds mapper chains so a mapping cycle cannot recurse forever.
const maxMapperDepth = 32

// Mapper turns a destination into another one. Returning nil means the
// destination was handled without a view.
type Mapper func(domain.Destination) domain.Destination

// ViewFactory renders view destinations of one Go type.
type ViewFactory interface {
	View(destination domain.ViewDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View
	DecorateNavigationStack(stack ports.View, destination domain.ViewDestination, nav ports.Navigator, vc domain.ViewContext) ports.View
}

// ViewFactoryFunc is a ViewFactory without navigation stack decoration.
type ViewFactoryFunc func(destination domain.ViewDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View

func (f ViewFactoryFunc) View(destination domain.ViewDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View {
	return f(destination, nav, vc)
}

func (f ViewFactoryFunc) DecorateNavigationStack(stack ports.View, _ domain.ViewDestination, _ ports.Navigator, _ domain.ViewContext) ports.View {
	return stack
}

// Resolver is the default ports.Resolver.
// Safe for concurrent use.
type Resolver struct {
	logger   *slog.Logger
	state    StateViewFactory
	deeplink domain.DeeplinkConfig

	mu           sync.RWMutex
	mappers      map[reflect.Type]Mapper
	factories    map[reflect.Type]ViewFactory
	requirements map[domain.RequirementIdentifier]ports.Requirement
	providers    []ports.DeeplinkProvider

	bus *actionBus
}

var _ ports.Resolver = (*Resolver)(nil)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithStateViewFactory replaces the TextStateFactory.
func WithStateViewFactory(f StateViewFactory) Option {
	return func(r *Resolver) {
		r.state = f
	}
}

// WithDeeplinkConfig sets the configuration handed to deep-link providers.
func WithDeeplinkConfig(cfg domain.DeeplinkConfig) Option {
	return func(r *Resolver) {
		r.deeplink = cfg
	}
}

// New creates an empty resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		mappers:      make(map[reflect.Type]Mapper),
		factories:    make(map[reflect.Type]ViewFactory),
		requirements: make(map[domain.RequirementIdentifier]ports.Requirement),
		bus:          newActionBus(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.state == nil {
		r.state = TextStateFactory{}
	}
	return r
}

// DeeplinkConfig returns the configuration handed to deep-link providers.
func (r *Resolver) DeeplinkConfig() domain.DeeplinkConfig {
	return r.deeplink
}

// RegisterMapper maps destinations of type D. Registering twice overwrites.
func RegisterMapper[D any](r *Resolver, mapper func(D) domain.Destination) {
	r.RegisterMapperFor(reflect.TypeFor[D](), func(d domain.Destination) domain.Destination {
		return mapper(d.(D))
	})
}

// RegisterMapperFor maps destinations whose dynamic type is t.
func (r *Resolver) RegisterMapperFor(t reflect.Type, mapper Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[t] = mapper
}

// RegisterView renders view destinations of type D with fn.
func RegisterView[D domain.ViewDestination](r *Resolver, fn func(D, ports.Navigator, *domain.ViewContext) ports.View) {
	r.RegisterViewFactory(reflect.TypeFor[D](), ViewFactoryFunc(func(d domain.ViewDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View {
		return fn(d.(D), nav, vc)
	}))
}

// RegisterViewFactory renders view destinations whose dynamic type is t.
func (r *Resolver) RegisterViewFactory(t reflect.Type, f ViewFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[t] = f
}

// ResolveDestination follows registered mappers until a view destination is
// reached. Unmapped destinations resolve to a not-resolvable state destination.
func (r *Resolver) ResolveDestination(destination domain.Destination) (ports.Resolution, bool) {
	return r.resolve(destination, 0)
}

func (r *Resolver) resolve(destination domain.Destination, depth int) (ports.Resolution, bool) {
	switch d := destination.(type) {
	case domain.ViewDestination:
		return ports.Resolution{Destination: d}, true
	case domain.ActionableDestination:
		res, ok := r.resolve(d.Destination, depth+1)
		if !ok {
			return res, false
		}
		res.Action = d.Action
		return res, true
	}

	r.mu.RLock()
	mapper, ok := r.mappers[reflect.TypeOf(destination)]
	r.mu.RUnlock()

	if !ok || depth >= maxMapperDepth {
		r.logger.Error("unhandled destination", "destination", domain.NameOf(destination), "depth", depth)
		return ports.Resolution{Destination: domain.StateDestination{Kind: domain.StateNotResolvable, Source: destination}}, true
	}

	next := mapper(destination)
	if next == nil {
		return ports.Resolution{}, false
	}
	return r.resolve(next, depth+1)
}

// View renders destination and lets the state view factory decorate it.
func (r *Resolver) View(destination domain.ViewDestination, nav ports.Navigator, vc *domain.ViewContext) ports.View {
	r.mu.RLock()
	f, ok := r.factories[reflect.TypeOf(destination)]
	r.mu.RUnlock()

	var content ports.View
	switch {
	case ok:
		content = f.View(destination, nav, vc)
	default:
		state, isState := destination.(domain.StateDestination)
		if !isState {
			r.logger.Warn("missing view factory", "destination", domain.NameOf(destination))
			state = domain.StateDestination{Kind: domain.StateMissingViewFactory, Source: destination}
		}
		content = r.state.View(state, nav, vc)
	}

	view := StateView{Kind: StateViewContent, Content: content, IsRoot: vc.IsRoot, ShowCloseButton: vc.ShowCloseButton}
	if vc.Presentation != nil && *vc.Presentation == domain.PresentationBottomSheet {
		view.Kind = StateViewBottomSheet
	}
	return r.state.Decorate(view, nav, *vc)
}

// DecorateNavigationStack lets the factory of the root destination wrap the stack.
func (r *Resolver) DecorateNavigationStack(stack ports.View, destination domain.ViewDestination, isPresenting bool, nav ports.Navigator, vc domain.ViewContext) ports.View {
	r.mu.RLock()
	f, ok := r.factories[reflect.TypeOf(destination)]
	r.mu.RUnlock()

	if ok {
		stack = f.DecorateNavigationStack(stack, destination, nav, vc)
	}
	return r.state.Decorate(StateView{Kind: StateViewNavigationStack, Content: stack, IsPresenting: isPresenting}, nav, vc)
}

// RegisterDeeplinkProvider appends a provider. Providers are asked in registration order.
func (r *Resolver) RegisterDeeplinkProvider(p ports.DeeplinkProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// DestinationForDeeplink returns the destination of the first provider recognising u.
func (r *Resolver) DestinationForDeeplink(u *url.URL) domain.Destination {
	r.mu.RLock()
	providers := r.providers
	r.mu.RUnlock()

	for _, p := range providers {
		if d := p.DestinationForDeeplink(u, r.deeplink); d != nil {
			return d
		}
	}
	return nil
}

// SendAction publishes action to the subscribers of target.
func (r *Resolver) SendAction(action domain.DestinationAction, target domain.Reference) {
	r.bus.send(action, target)
}

// Subscribe registers handler for actions sent to target and returns the subscription id.
func (r *Resolver) Subscribe(target domain.Reference, handler func(domain.DestinationAction)) string {
	return r.bus.subscribe(target, handler)
}

// SubscribeTo registers handler for actions of type T sent to target.
func SubscribeTo[T any](r *Resolver, target domain.Reference, handler func(T)) string {
	return r.Subscribe(target, func(a domain.DestinationAction) {
		if v, ok := a.(T); ok {
			handler(v)
		}
	})
}

// Unsubscribe removes a subscription.
func (r *Resolver) Unsubscribe(id string) {
	r.bus.unsubscribe(id)
}

// RegisterRequirement adds req, replacing any requirement with the same identifier.
func (r *Resolver) RegisterRequirement(req ports.Requirement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requirements[req.Identifier()] = req
}

func (r *Resolver) requirement(id domain.RequirementIdentifier) (ports.Requirement, error) {
	r.mu.RLock()
	req, ok := r.requirements[id]
	r.mu.RUnlock()
	if !ok {
		r.logger.Error("requirement has not been registered", "requirement", id)
		return nil, domain.MissingRequirement(id)
	}
	return req, nil
}

// NextUnresolvedRequirement checks ids in order and returns the first unresolved one.
func (r *Resolver) NextUnresolvedRequirement(ctx context.Context, ids []domain.RequirementIdentifier) (ports.Requirement, error) {
	for _, id := range ids {
		req, err := r.requirement(id)
		if err != nil {
			return nil, err
		}
		if !req.IsResolved(ctx) {
			return req, nil
		}
	}
	return nil, nil
}

// ResolveRequirements resolves ids one after another and stops at the first refusal.
func (r *Resolver) ResolveRequirements(ctx context.Context, ids []domain.RequirementIdentifier, nav ports.Navigator) error {
	for {
		req, err := r.NextUnresolvedRequirement(ctx, ids)
		if err != nil {
			return err
		}
		if req == nil {
			return nil
		}
		if !req.Resolve(ctx, nav) {
			return domain.FailedRequirement(req.Identifier())
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// RequirementUpdates subscribes to the update stream of a requirement.
func (r *Resolver) RequirementUpdates(ctx context.Context, id domain.RequirementIdentifier) (<-chan struct{}, error) {
	req, err := r.requirement(id)
	if err != nil {
		return nil, err
	}
	return req.Updates(ctx), nil
}
