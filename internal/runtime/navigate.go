package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Navigate resolves destination and pushes or presents it.
// Requirements are resolved first; if that fails the coordinator is left untouched
// and the requirement error is returned.
func (c *Coordinator) Navigate(ctx context.Context, destination domain.Destination, opts ...domain.NavigateOption) (ports.Navigator, error) {
	res, ok := c.resolver.ResolveDestination(destination)
	if !ok {
		c.logger.Debug("destination handled without view", "destination", domain.NameOf(destination))
		return nil, nil
	}

	nav, err := c.navigate(ctx, res.Destination, domain.ApplyNavigateOptions(opts...))
	if err != nil {
		return nil, err
	}

	if res.Action != nil && nav != nil {
		nav.SendAction(res.Action)
	}
	return nav, nil
}

func (c *Coordinator) navigate(ctx context.Context, destination domain.ViewDestination, opts domain.NavigateOptions) (ports.Navigator, error) {
	if handled, ok := destination.(ports.HandledDestination); ok {
		return handled.Execute(ctx)
	}

	if err := c.resolver.ResolveRequirements(ctx, destination.Requirements(), c); err != nil {
		var reqErr *domain.RequirementError
		if errors.As(err, &reqErr) {
			if errors.Is(err, domain.ErrRequirementMissing) {
				c.logger.Error("requirement not registered", "requirement", reqErr.Identifier)
			}
			c.emitRequirement(ctx, domain.EventRequirementFailed, NavigationItem{}, reqErr.Identifier, err.Error())
		}
		c.logger.Debug("navigation aborted", "destination", domain.NameOf(destination), "error", err)
		return nil, err
	}

	preferred := destination.PreferredAction()
	if opts.Action != nil {
		preferred = *opts.Action
	}
	action := preferred.For(c.SizeClass())
	item := NewItem(destination, opts.Reference).WithTransition(action.Transition)

	if action.IsPresenting() {
		return c.present(ctx, item, action), nil
	}
	return c.push(ctx, item)
}

func (c *Coordinator) push(ctx context.Context, item NavigationItem) (ports.Navigator, error) {
	if !c.Dismiss(ctx, false) {
		c.logger.Debug("push aborted", "destination", domain.NameOf(item.OriginalDestination()))
		return nil, fmt.Errorf("cannot push %s: %w", domain.NameOf(item.OriginalDestination()), domain.ErrDismissRefused)
	}

	wait := c.arm(ctx, &c.appear)
	c.mu.Lock()
	c.path = append(c.path, item)
	depth := len(c.path)
	c.mu.Unlock()
	c.observeRequirements(item)

	c.logger.Debug("item pushed", "destination", domain.NameOf(item.OriginalDestination()), "depth", depth)
	c.emitNavigation(ctx, domain.EventItemPushed, item, depth)
	c.await(ctx, &c.appear, wait)
	return c, nil
}

func (c *Coordinator) present(ctx context.Context, item NavigationItem, action domain.Action) ports.Navigator {
	child := newCoordinator(item, c, c.resolver, c.cfg)
	child.sizeClass = c.SizeClass()
	p := newPresentationItem(child, action)

	wait := c.arm(ctx, &c.appear)
	c.mu.Lock()
	replaced := c.presentation
	c.presentation = p
	c.mu.Unlock()

	if replaced != nil {
		c.release(replaced)
		if replaced.OnDismiss != nil {
			replaced.OnDismiss()
		}
	}

	child.SetUp()
	if c.cfg.stack != nil && c.cfg.stack.Contains(c) {
		c.cfg.stack.Append(child)
	}

	c.logger.Debug("presented", "destination", domain.NameOf(item.OriginalDestination()), "presentation", p.Presentation)
	c.emitNavigation(ctx, domain.EventPresented, item, 0)
	c.await(ctx, &c.appear, wait)
	return child
}

// release tears down a presentation that is no longer shown.
func (c *Coordinator) release(p *PresentationItem) {
	if c.cfg.stack != nil {
		for _, cc := range p.Coordinator.Chain() {
			c.cfg.stack.Remove(cc)
		}
	}
	p.Coordinator.Close()
}

// Dismiss removes the presented stack. Unless forced, the presented
// coordinators are asked whether they can finish first.
func (c *Coordinator) Dismiss(ctx context.Context, force bool) bool {
	c.mu.Lock()
	p := c.presentation
	c.mu.Unlock()
	if p == nil {
		return true
	}

	if !force && !p.Coordinator.CanFinish(ctx) {
		c.logger.Debug("dismiss refused by finish condition")
		return false
	}

	wait := c.arm(ctx, &c.disappear)
	c.mu.Lock()
	if c.presentation != p {
		c.mu.Unlock()
		if wait != nil {
			c.disappear.disarm(wait)
		}
		return true
	}
	c.presentation = nil
	c.mu.Unlock()

	c.release(p)
	c.logger.Debug("dismissed", "forced", force)
	c.emitNavigation(ctx, domain.EventDismissed, p.Coordinator.Root(), 0)
	c.await(ctx, &c.disappear, wait)

	if p.OnDismiss != nil {
		p.OnDismiss()
	}
	return true
}

// CanFinish asks everything presented on c and then the local finish condition.
// It never changes state.
func (c *Coordinator) CanFinish(ctx context.Context) bool {
	c.mu.Lock()
	p, cond := c.presentation, c.finishCondition
	c.mu.Unlock()

	if p != nil && !p.Coordinator.CanFinish(ctx) {
		return false
	}
	if cond != nil {
		return cond(ctx)
	}
	return true
}

// Finish asks the parent to dismiss c. The finish condition is checked by that dismissal.
func (c *Coordinator) Finish(ctx context.Context) bool {
	return c.finish(ctx) != nil
}

func (c *Coordinator) finish(ctx context.Context) *Coordinator {
	if c.parent == nil || !c.parent.Dismiss(ctx, false) {
		return nil
	}
	return c.parent
}

// FinishAt removes the first item matching ref and everything above it, in any path.
func (c *Coordinator) FinishAt(ctx context.Context, ref domain.Reference) ports.Navigator {
	return c.NavigateBackTo(ctx, domain.First(ref).Before(), domain.AnyPath)
}
