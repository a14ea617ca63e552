// Package requirement provides ports.Requirement implementations backed by a
// ports.StateStore, so that the state of a requirement can live in memory or
// be shared through redis.
package requirement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Blocked is the default blocking destination of a Flag.
type Blocked struct {
	domain.ViewDefaults
	Requirement domain.RequirementIdentifier
	Reason      domain.BlockingReason
	// OnResolve starts resolving the requirement.
	OnResolve func()
}

func (b Blocked) BlockedBy() domain.RequirementIdentifier { return b.Requirement }

func (b Blocked) DestinationName() string { return "blocked:" + string(b.Requirement) }

// ResolveFunc tries to satisfy a requirement, e.g. by presenting a login screen on nav.
type ResolveFunc func(ctx context.Context, nav ports.Navigator) bool

// BlockingFunc builds the destination shown while a requirement is unresolved.
type BlockingFunc func(reason domain.BlockingReason, onResolve func()) domain.ViewDestination

// Flag is satisfied while its store records it as satisfied.
type Flag struct {
	id       domain.RequirementIdentifier
	store    ports.StateStore
	resolve  ResolveFunc
	blocking BlockingFunc
	logger   *slog.Logger
}

var _ ports.Requirement = (*Flag)(nil)

// Option configures a Flag.
type Option func(*Flag)

// WithResolve sets how the flag is resolved. Without it Resolve only rechecks the store.
func WithResolve(fn ResolveFunc) Option {
	return func(f *Flag) {
		f.resolve = fn
	}
}

// WithBlocking replaces the Blocked destination.
func WithBlocking(fn BlockingFunc) Option {
	return func(f *Flag) {
		f.blocking = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flag) {
		f.logger = logger
	}
}

// NewFlag creates a requirement named id stored in store.
func NewFlag(id domain.RequirementIdentifier, store ports.StateStore, opts ...Option) *Flag {
	f := &Flag{id: id, store: store}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	f.logger = f.logger.With("requirement", id)
	return f
}

func (f *Flag) Identifier() domain.RequirementIdentifier { return f.id }

// IsResolved treats a missing or unreadable state as unresolved.
func (f *Flag) IsResolved(ctx context.Context) bool {
	ok, err := f.store.IsSatisfied(ctx, f.id)
	if err != nil && !errors.Is(err, ports.ErrStateNotFound) {
		f.logger.Warn("cannot read requirement state", "error", err)
	}
	return err == nil && ok
}

// Resolve runs the resolve function and reports whether the flag is satisfied afterwards.
func (f *Flag) Resolve(ctx context.Context, nav ports.Navigator) bool {
	if f.resolve != nil && !f.resolve(ctx, nav) {
		return false
	}
	return f.IsResolved(ctx)
}

func (f *Flag) BlockingDestination(reason domain.BlockingReason, onResolve func()) domain.ViewDestination {
	if f.blocking != nil {
		return f.blocking(reason, onResolve)
	}
	return Blocked{Requirement: f.id, Reason: reason, OnResolve: onResolve}
}

// Updates emits whenever the stored state changes.
func (f *Flag) Updates(ctx context.Context) <-chan struct{} {
	updates, err := f.store.Watch(ctx, f.id)
	if err != nil {
		f.logger.Error("cannot watch requirement state", "error", err)
		ch := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch
	}
	return updates
}

// Set records the state of the flag.
func (f *Flag) Set(ctx context.Context, satisfied bool) error {
	return f.store.SetSatisfied(ctx, f.id, satisfied)
}
