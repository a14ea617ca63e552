package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// settings are shared by every coordinator of a tree.
type settings struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	autoAck   bool
	stack     *CoordinatorStack
	ctx       context.Context
	sizeClass domain.SizeClass
}

// Option configures a coordinator tree.
type Option func(*settings)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithAutoAcknowledge completes transitions without waiting for
// ItemDidAppear / ItemDidDisappear. Used by headless hosts and tests.
func WithAutoAcknowledge() Option {
	return func(s *settings) {
		s.autoAck = true
	}
}

// WithStack registers presented coordinators in stack while they are visible.
func WithStack(stack *CoordinatorStack) Option {
	return func(s *settings) {
		s.stack = stack
	}
}

// WithContext bounds the lifetime of requirement observation.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		s.ctx = ctx
	}
}

// WithSizeClass sets the initial horizontal size class.
func WithSizeClass(sizeClass domain.SizeClass) Option {
	return func(s *settings) {
		s.sizeClass = sizeClass
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	return s
}
