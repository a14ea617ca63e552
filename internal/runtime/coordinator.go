package runtime

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/google/uuid"
)

// pendingRequirement blocks requirement updates while an evaluation runs.
const pendingRequirement domain.RequirementIdentifier = "\x00pending"

// Coordinator owns one navigation stack and at most one presented stack.
// It is safe for concurrent use; the lock is never held while waiting.
type Coordinator struct {
	id       string
	resolver ports.Resolver
	parent   *Coordinator
	cfg      *settings
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	appear    ackSignal
	disappear ackSignal

	mu              sync.Mutex
	root            NavigationItem
	path            []NavigationItem
	presentation    *PresentationItem
	alert           *domain.Alert
	finishCondition ports.FinishCondition
	sizeClass       domain.SizeClass
	unresolved      domain.RequirementIdentifier
	unresolvedOwner domain.Reference
	observed        map[domain.RequirementIdentifier]domain.Reference
	subscriptions   map[domain.Reference]context.CancelFunc
	cache           map[string]map[reflect.Type]any
}

var _ ports.Navigator = (*Coordinator)(nil)

// NewCoordinator creates the coordinator of a root navigation stack.
// A root with requirements shows a placeholder until SetUp evaluated them.
// The coordinator becomes the first entry of an empty stack; presented
// coordinators are only tracked while their parent is.
func NewCoordinator(root NavigationItem, resolver ports.Resolver, opts ...Option) *Coordinator {
	cfg := newSettings(opts)
	c := newCoordinator(root, nil, resolver, cfg)
	c.sizeClass = cfg.sizeClass
	if len(root.Requirements()) > 0 {
		c.root.Block(domain.Placeholder())
	}
	if cfg.stack != nil && cfg.stack.Len() == 0 {
		cfg.stack.Append(c)
	}
	return c
}

// NewTabCoordinator creates a root coordinator whose root carries domain.TabRoot.
func NewTabCoordinator(destination domain.ViewDestination, resolver ports.Resolver, opts ...Option) *Coordinator {
	return NewCoordinator(NewItem(destination, domain.TabRoot), resolver, opts...)
}

func newCoordinator(root NavigationItem, parent *Coordinator, resolver ports.Resolver, cfg *settings) *Coordinator {
	base := cfg.ctx
	if parent != nil {
		base = parent.ctx
	}
	ctx, cancel := context.WithCancel(base)
	id := uuid.NewString()
	return &Coordinator{
		id:            id,
		resolver:      resolver,
		parent:        parent,
		cfg:           cfg,
		logger:        cfg.logger.With("coordinator", id),
		ctx:           ctx,
		cancel:        cancel,
		root:          root,
		observed:      make(map[domain.RequirementIdentifier]domain.Reference),
		subscriptions: make(map[domain.Reference]context.CancelFunc),
		cache:         make(map[string]map[reflect.Type]any),
	}
}

// SetUp starts observing the requirements of the root.
func (c *Coordinator) SetUp() {
	c.mu.Lock()
	root := c.root
	c.mu.Unlock()
	if c.observeRequirements(root) {
		c.scheduleEvaluation(root)
	}
}

// Close stops requirement observation of this coordinator and everything presented on it.
func (c *Coordinator) Close() {
	c.mu.Lock()
	p := c.presentation
	c.subscriptions = make(map[domain.Reference]context.CancelFunc)
	c.observed = make(map[domain.RequirementIdentifier]domain.Reference)
	c.cache = make(map[string]map[reflect.Type]any)
	c.mu.Unlock()
	if p != nil {
		p.Coordinator.Close()
	}
	c.cancel()
}

func (c *Coordinator) ID() string { return c.id }

// Parent returns the coordinator this one is presented on, or nil.
func (c *Coordinator) Parent() *Coordinator { return c.parent }

func (c *Coordinator) Root() NavigationItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// Path returns a copy of the navigation path beneath the root.
func (c *Coordinator) Path() []NavigationItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.path)
}

func (c *Coordinator) Presentation() *PresentationItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presentation
}

func (c *Coordinator) Alert() *domain.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.alert == nil {
		return nil
	}
	a := *c.alert
	return &a
}

// Top returns the deepest presented coordinator.
func (c *Coordinator) Top() *Coordinator {
	top := c
	for {
		p := top.Presentation()
		if p == nil {
			return top
		}
		top = p.Coordinator
	}
}

// Chain returns c followed by every coordinator presented on top of it.
func (c *Coordinator) Chain() []*Coordinator {
	chain := []*Coordinator{c}
	for p := c.Presentation(); p != nil; p = p.Coordinator.Presentation() {
		chain = append(chain, p.Coordinator)
	}
	return chain
}

func (c *Coordinator) SizeClass() domain.SizeClass {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sizeClass
}

// SetHorizontalSizeClass is called by the host when the window size class changes.
func (c *Coordinator) SetHorizontalSizeClass(sizeClass domain.SizeClass) {
	c.mu.Lock()
	c.sizeClass = sizeClass
	c.mu.Unlock()
}

// ItemDidAppear must be called by the host once a push or presentation finished animating.
func (c *Coordinator) ItemDidAppear() {
	c.appear.fire()
}

// ItemDidDisappear must be called by the host once a pop or dismissal finished animating.
func (c *Coordinator) ItemDidDisappear() {
	c.disappear.fire()
}

// arm reserves the acknowledgment slot s. Overlapping transitions, such as
// a requirement evaluation racing a pop, queue here until the previous one
// was acknowledged.
func (c *Coordinator) arm(ctx context.Context, s *ackSignal) chan struct{} {
	if c.cfg.autoAck {
		return nil
	}
	ch := s.arm(ctx)
	if ch == nil {
		c.logger.Warn("transition started without acknowledgment", "error", ctx.Err())
	}
	return ch
}

func (c *Coordinator) await(ctx context.Context, s *ackSignal, ch chan struct{}) {
	if ch == nil {
		return
	}
	if err := s.wait(ctx, ch); err != nil {
		c.logger.Warn("transition not acknowledged", "error", err)
	}
}

// SetFinishCondition installs a condition consulted by CanFinish.
func (c *Coordinator) SetFinishCondition(cond ports.FinishCondition) {
	c.mu.Lock()
	c.finishCondition = cond
	c.mu.Unlock()
}

func (c *Coordinator) RemoveFinishCondition() {
	c.SetFinishCondition(nil)
}

// ShowAlert shows alert on the top-most coordinator.
func (c *Coordinator) ShowAlert(alert domain.Alert) {
	c.mu.Lock()
	if p := c.presentation; p != nil {
		c.mu.Unlock()
		p.Coordinator.ShowAlert(alert)
		return
	}
	c.alert = &alert
	c.mu.Unlock()
	c.emitNavigation(c.ctx, domain.EventAlertShown, NavigationItem{}, 0)
	c.logger.Debug("alert shown", "alert", alert.ID)
}

// DismissAlert removes the alert with the given id, or any alert if id is empty.
func (c *Coordinator) DismissAlert(id string) {
	c.mu.Lock()
	p := c.presentation
	if c.alert != nil && (id == "" || c.alert.ID == id) {
		c.alert = nil
	}
	c.mu.Unlock()
	if p != nil {
		p.Coordinator.DismissAlert(id)
	}
}

// SendAction delivers action to the focused item of the top-most coordinator.
func (c *Coordinator) SendAction(action domain.DestinationAction) {
	c.mu.Lock()
	p := c.presentation
	target := c.root.ID()
	if n := len(c.path); n > 0 {
		target = c.path[n-1].ID()
	}
	c.mu.Unlock()

	if p != nil {
		p.Coordinator.SendAction(action)
		return
	}
	c.resolver.SendAction(action, target)
}

// IsFocused reports whether item is the visible top of the tree.
func (c *Coordinator) IsFocused(item NavigationItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.presentation != nil {
		return false
	}
	if n := len(c.path); n > 0 {
		return item.Equal(c.path[n-1])
	}
	return item.Equal(c.root)
}

// ObservesRequirement reports whether this coordinator or an ancestor observes id.
func (c *Coordinator) ObservesRequirement(id domain.RequirementIdentifier) bool {
	c.mu.Lock()
	_, ok := c.observed[id]
	c.mu.Unlock()
	if ok {
		return true
	}
	return c.parent != nil && c.parent.ObservesRequirement(id)
}

// View renders item through the resolver. Objects cached by the view factory
// live as long as the item keeps its view id.
func (c *Coordinator) View(item NavigationItem, vc *domain.ViewContext) ports.View {
	c.mu.Lock()
	vc.Cache = maps.Clone(c.cache[item.ViewID()])
	c.mu.Unlock()

	view := c.resolver.View(item.VisibleDestination(), c, vc)

	if len(vc.Cache) > 0 {
		c.mu.Lock()
		if c.hasViewID(item.ViewID()) {
			c.cache[item.ViewID()] = maps.Clone(vc.Cache)
		}
		c.mu.Unlock()
	}
	return view
}

// DecorateNavigationStack lets the root destination wrap the whole stack.
func (c *Coordinator) DecorateNavigationStack(stack ports.View, isPresenting bool, vc domain.ViewContext) ports.View {
	root := c.Root()
	return c.resolver.DecorateNavigationStack(stack, root.VisibleDestination(), isPresenting, c, vc)
}

func (c *Coordinator) hasViewID(viewID string) bool {
	if c.root.ViewID() == viewID {
		return true
	}
	return slices.ContainsFunc(c.path, func(i NavigationItem) bool { return i.ViewID() == viewID })
}

// pruneLocked evicts caches and subscriptions of items that left the tree.
func (c *Coordinator) pruneLocked() {
	for viewID := range c.cache {
		if !c.hasViewID(viewID) {
			delete(c.cache, viewID)
		}
	}
	for id, cancel := range c.subscriptions {
		if c.root.ID() == id || slices.ContainsFunc(c.path, func(i NavigationItem) bool { return i.ID() == id }) {
			continue
		}
		cancel()
		delete(c.subscriptions, id)
		if c.unresolvedOwner == id {
			c.unresolved, c.unresolvedOwner = "", ""
		}
		for req, owner := range c.observed {
			if owner == id {
				delete(c.observed, req)
			}
		}
	}
}

// Snapshot returns a serialisable copy of the tree below c.
func (c *Coordinator) Snapshot() domain.CoordinatorSnapshot {
	c.mu.Lock()
	s := domain.CoordinatorSnapshot{
		ID:   c.id,
		Root: c.root.snapshot(),
	}
	for _, item := range c.path {
		s.Path = append(s.Path, item.snapshot())
	}
	if c.alert != nil {
		s.Alert = c.alert.Title
	}
	p := c.presentation
	c.mu.Unlock()

	if p != nil {
		s.Presentation = &domain.PresentationSnapshot{
			Presentation: p.Presentation,
			IsModal:      p.IsModal,
			Coordinator:  p.Coordinator.Snapshot(),
		}
	}
	return s
}

func (c *Coordinator) emitNavigation(ctx context.Context, t domain.EventType, item NavigationItem, depth int) {
	if c.cfg.hooks.OnNavigation == nil {
		return
	}
	e := &domain.NavigationEvent{
		EventBase: domain.EventBase{
			Timestamp:     time.Now(),
			Type:          t,
			CoordinatorID: c.id,
		},
		Depth: depth,
	}
	if item.original != nil {
		e.ItemID = string(item.ID())
		e.Destination = domain.NameOf(item.VisibleDestination())
		if refs := item.References(); len(refs) > 0 {
			e.Reference = refs[0]
		}
	}
	c.cfg.hooks.OnNavigation(ctx, e)
}

func (c *Coordinator) emitRequirement(ctx context.Context, t domain.EventType, item NavigationItem, id domain.RequirementIdentifier, reason string) {
	if c.cfg.hooks.OnRequirement == nil {
		return
	}
	c.cfg.hooks.OnRequirement(ctx, &domain.RequirementEvent{
		EventBase: domain.EventBase{
			Timestamp:     time.Now(),
			Type:          t,
			CoordinatorID: c.id,
		},
		ItemID:      string(item.ID()),
		Requirement: id,
		Reason:      reason,
	})
}

// asNavigator avoids typed nil interfaces.
func asNavigator(c *Coordinator) ports.Navigator {
	if c == nil {
		return nil
	}
	return c
}
