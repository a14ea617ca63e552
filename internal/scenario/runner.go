package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/deeplink"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/requirement"
)

// DefaultSettle is how long a runner waits after each step for asynchronous
// requirement evaluation.
const DefaultSettle = 20 * time.Millisecond

// Result is reported after every step.
type Result struct {
	Index int
	Step  Step
	Tree  wayfinder.Snapshot
	Err   error
}

// Runner executes a scenario against a headless App.
type Runner struct {
	scenario *Scenario
	app      *wayfinder.App
	store    ports.StateStore
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	settle   time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithStateStore keeps requirement states in store instead of memory.
func WithStateStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers hooks on the App's coordinators.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(r *Runner) {
		r.settle = d
	}
}

// NewRunner builds the App described by s and records the initial requirement states.
func NewRunner(ctx context.Context, s *Scenario, opts ...Option) (*Runner, error) {
	r := &Runner{scenario: s, settle: DefaultSettle}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.store == nil {
		r.store = memory.NewStore()
	}

	tabs := make([]wayfinder.Tab, 0, len(s.Tabs))
	for _, t := range s.Tabs {
		tabs = append(tabs, wayfinder.Tab{
			ID:    domain.TabID(t.ID),
			Title: t.Title,
			Root:  s.screen(t.Root).screen(),
		})
	}

	for _, spec := range s.Requirements {
		if err := r.store.SetSatisfied(ctx, domain.RequirementIdentifier(spec.ID), spec.Satisfied); err != nil {
			return nil, fmt.Errorf("failed to record requirement %q: %w", spec.ID, err)
		}
	}

	reqs := make([]ports.Requirement, 0, len(s.Requirements))
	for _, spec := range s.Requirements {
		reqs = append(reqs, r.requirement(spec))
	}

	app, err := wayfinder.New(tabs,
		wayfinder.WithAutoAcknowledge(),
		wayfinder.WithLogger(r.logger),
		wayfinder.WithLifecycleHooks(r.hooks),
		wayfinder.WithDeeplinkConfig(s.Deeplinks),
		wayfinder.WithRequirements(reqs...),
		wayfinder.WithDeeplinkProviders(r.provider()),
	)
	if err != nil {
		return nil, err
	}
	r.app = app
	return r, nil
}

func (r *Runner) requirement(spec RequirementSpec) *requirement.Flag {
	id := domain.RequirementIdentifier(spec.ID)
	opts := []requirement.Option{requirement.WithLogger(r.logger)}
	if spec.ResolveOnDemand {
		opts = append(opts, requirement.WithResolve(func(ctx context.Context, _ ports.Navigator) bool {
			return r.store.SetSatisfied(ctx, id, true) == nil
		}))
	}
	return requirement.NewFlag(id, r.store, opts...)
}

func (r *Runner) provider() *deeplink.Provider {
	p := deeplink.NewProvider(deeplink.WithLogger(r.logger))
	for _, route := range r.scenario.Routes {
		screen := r.scenario.screen(route.Screen).screen()
		build := func(params deeplink.Parameters) domain.Destination {
			return screen.withParams(params)
		}
		if route.Universal {
			p.Universal(route.Pattern, build)
		} else {
			p.AppScheme(route.Pattern, build)
		}
	}
	return p
}

// App returns the App driven by r.
func (r *Runner) App() *wayfinder.App { return r.app }

// Store returns the requirement state store.
func (r *Runner) Store() ports.StateStore { return r.store }

// Close stops the App.
func (r *Runner) Close() {
	r.app.Close()
}

// Run executes every step and calls report after each one. It stops at the
// first step that fails unexpectedly.
func (r *Runner) Run(ctx context.Context, report func(Result)) error {
	for i, step := range r.scenario.Steps {
		err := r.Step(ctx, step)
		if r.settle > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.settle):
			}
		}
		if err == nil {
			err = r.check(step)
		}
		err = expected(step, err)

		if report != nil {
			report(Result{Index: i, Step: step, Tree: r.app.Snapshot(), Err: err})
		}
		if err != nil {
			r.logger.Warn("scenario step failed", "step", i+1, "action", step.String(), "error", err)
			return &StepError{Index: i, Step: step.String(), Err: err}
		}
		r.logger.Debug("scenario step done", "step", i+1, "action", step.String())
	}
	return nil
}

// expected turns the outcome of a step with ExpectError into success or failure.
func expected(step Step, err error) error {
	if step.ExpectError == "" {
		return err
	}
	if err == nil {
		return fmt.Errorf("%w: expected error containing %q", ErrExpectationFailed, step.ExpectError)
	}
	if !strings.Contains(err.Error(), step.ExpectError) {
		return fmt.Errorf("%w: expected error containing %q, got %v", ErrExpectationFailed, step.ExpectError, err)
	}
	return nil
}

func (r *Runner) check(step Step) error {
	if step.Expect == nil && step.ExpectBlocked == "" {
		return nil
	}
	tab, ok := r.app.Snapshot().Visible()
	if !ok {
		return fmt.Errorf("%w: no visible tab", ErrExpectationFailed)
	}
	top := tab.Coordinator.Top()
	if got := top.Visible(); step.Expect != nil && !slices.Equal(got, step.Expect) {
		return fmt.Errorf("%w: visible stack is %v, want %v", ErrExpectationFailed, got, step.Expect)
	}
	if step.ExpectBlocked != "" {
		item := top.Root
		if len(top.Path) > 0 {
			item = top.Path[len(top.Path)-1]
		}
		if string(item.BlockedBy) != step.ExpectBlocked {
			return fmt.Errorf("%w: %s is blocked by %q, want %q", ErrExpectationFailed, item.Destination, item.BlockedBy, step.ExpectBlocked)
		}
	}
	return nil
}

// Step executes a single step.
func (r *Runner) Step(ctx context.Context, step Step) error {
	switch {
	case step.Push != "":
		opts := []domain.NavigateOption{domain.ByAction(domain.Pushing())}
		if step.Reference != "" {
			opts = append(opts, domain.WithReference(domain.Reference(step.Reference)))
		}
		_, err := r.app.Navigate(ctx, r.scenario.screen(step.Push).screen(), opts...)
		return err

	case step.Present != "":
		screen := r.scenario.screen(step.Present).screen()
		var opts []domain.NavigateOption
		if step.As != "" {
			p, err := domain.ParsePresentation(step.As)
			if err != nil {
				return err
			}
			opts = append(opts, domain.ByAction(domain.PresentingWith(p, step.Modal, nil)))
		} else if !screen.PreferredAction().For(domain.SizeClassCompact).IsPresenting() {
			opts = append(opts, domain.ByAction(domain.PresentingWith(domain.PresentationSheet, step.Modal, nil)))
		}
		if step.Reference != "" {
			opts = append(opts, domain.WithReference(domain.Reference(step.Reference)))
		}
		_, err := r.app.Navigate(ctx, screen, opts...)
		return err

	case step.Deeplink != "":
		u, err := url.Parse(step.Deeplink)
		if err != nil {
			return fmt.Errorf("invalid deep link: %w", err)
		}
		handled, err := r.app.HandleIncomingURL(ctx, u)
		if err != nil {
			return err
		}
		if !handled {
			return fmt.Errorf("%w: %s", ErrUnhandledDeeplink, step.Deeplink)
		}
		return nil

	case step.Back:
		_, err := r.app.Back(ctx)
		return err

	case step.BackTo != "":
		active, err := r.app.Active()
		if err != nil {
			return err
		}
		search := domain.First(domain.Reference(step.BackTo))
		if step.Last {
			search = domain.Last(domain.Reference(step.BackTo))
		}
		if active.NavigateBackTo(ctx, search, domain.AnyPath) == nil {
			return fmt.Errorf("reference %q not found or dismissal refused", step.BackTo)
		}
		return nil

	case step.Tab != "":
		_, err := r.app.SelectTab(ctx, domain.TabID(step.Tab), step.PopToRoot)
		return err

	case step.Dismiss:
		active, err := r.app.Active()
		if err != nil {
			return err
		}
		if active.Parent() == nil {
			return errors.New("nothing is presented")
		}
		if !active.Parent().Dismiss(ctx, false) {
			return domain.ErrDismissRefused
		}
		return nil

	case step.Alert != "":
		r.app.ShowAlert(domain.NewAlert(step.Alert, "", domain.Cancel("OK")))
		return nil

	case step.Satisfy != "":
		return r.store.SetSatisfied(ctx, domain.RequirementIdentifier(step.Satisfy), true)

	case step.Revoke != "":
		return r.store.SetSatisfied(ctx, domain.RequirementIdentifier(step.Revoke), false)

	case step.PopToRoot:
		active, err := r.app.Active()
		if err != nil {
			return err
		}
		active.PopToRoot(ctx)
		return nil
	}
	return errors.New("step has no action")
}
