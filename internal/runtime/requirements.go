package runtime

import (
	"context"
	"errors"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// observeRequirements subscribes to every requirement of item that is not
// observed yet by this coordinator or an ancestor. It reports whether item
// needs an evaluation: a subscription was made or a requirement could not be
// observed.
func (c *Coordinator) observeRequirements(item NavigationItem) bool {
	var ids []domain.RequirementIdentifier
	for _, id := range item.Requirements() {
		if !c.ObservesRequirement(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return false
	}

	ctx, cancel := context.WithCancel(c.ctx)
	merged := make(chan domain.RequirementIdentifier)
	var subscribed []domain.RequirementIdentifier
	failed := false
	for _, id := range ids {
		updates, err := c.resolver.RequirementUpdates(ctx, id)
		if err != nil {
			c.logger.Error("cannot observe requirement", "requirement", id, "error", err)
			failed = true
			continue
		}
		subscribed = append(subscribed, id)
		go forward(ctx, id, updates, merged)
	}
	if len(subscribed) == 0 {
		cancel()
		return failed
	}

	c.mu.Lock()
	if prev, ok := c.subscriptions[item.ID()]; ok {
		prev()
	}
	c.subscriptions[item.ID()] = cancel
	for _, id := range subscribed {
		c.observed[id] = item.ID()
	}
	c.mu.Unlock()

	go c.watchRequirements(ctx, item, merged)
	return true
}

func forward(ctx context.Context, id domain.RequirementIdentifier, updates <-chan struct{}, out chan<- domain.RequirementIdentifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			select {
			case out <- id:
			case <-ctx.Done():
				return
			}
		}
	}
}

// watchRequirements evaluates item whenever one of its requirements changes.
func (c *Coordinator) watchRequirements(ctx context.Context, item NavigationItem, updates <-chan domain.RequirementIdentifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-updates:
			if c.acceptUpdate(id) {
				c.evaluateRequirements(ctx, item)
			}
		}
	}
}

// acceptUpdate lets an update through when no evaluation is pending and the
// update is not about a different unresolved requirement.
func (c *Coordinator) acceptUpdate(id domain.RequirementIdentifier) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unresolved != "" && c.unresolved != id {
		return false
	}
	c.unresolved = pendingRequirement
	return true
}

func (c *Coordinator) scheduleEvaluation(item NavigationItem) {
	c.mu.Lock()
	if c.unresolved != "" {
		c.mu.Unlock()
		return
	}
	c.unresolved = pendingRequirement
	c.mu.Unlock()
	go c.evaluateRequirements(c.ctx, item)
}

// setUnresolved records the requirement currently blocking owner.
func (c *Coordinator) setUnresolved(id domain.RequirementIdentifier, owner domain.Reference) {
	c.mu.Lock()
	c.unresolved = id
	c.unresolvedOwner = owner
	c.mu.Unlock()
}

// lookup returns the current version of item from the root or the path.
func (c *Coordinator) lookup(item NavigationItem) (NavigationItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root.Equal(item) {
		return c.root, true
	}
	for _, i := range c.path {
		if i.Equal(item) {
			return i, true
		}
	}
	return NavigationItem{}, false
}

// update applies fn to the stored version of item.
func (c *Coordinator) update(item NavigationItem, fn func(*NavigationItem)) (NavigationItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var updated NavigationItem
	found := false
	if c.root.Equal(item) {
		fn(&c.root)
		updated, found = c.root, true
	} else {
		for i := range c.path {
			if c.path[i].Equal(item) {
				fn(&c.path[i])
				updated, found = c.path[i], true
				break
			}
		}
	}
	if found {
		c.pruneLocked()
	}
	return updated, found
}

// evaluateRequirements blocks item behind its first unresolved requirement,
// or unblocks it when everything is resolved.
func (c *Coordinator) evaluateRequirements(ctx context.Context, item NavigationItem) {
	current, ok := c.lookup(item)
	if !ok {
		c.setUnresolved("", "")
		return
	}
	isPlaceholder := domain.IsPlaceholder(current.VisibleDestination())

	req, err := c.resolver.NextUnresolvedRequirement(ctx, item.Requirements())
	if err != nil {
		// The item keeps what it shows: a placeholder root stays gated.
		c.logger.Error("cannot evaluate requirements", "item", item.ID(), "error", err)
		var reqErr *domain.RequirementError
		if errors.As(err, &reqErr) {
			c.emitRequirement(ctx, domain.EventRequirementFailed, current, reqErr.Identifier, err.Error())
		}
		c.setUnresolved("", "")
		return
	}
	if req == nil {
		if current.IsBlocked() {
			unblocked, _ := c.update(item, (*NavigationItem).Unblock)
			c.logger.Debug("item unblocked", "item", item.ID())
			c.emitRequirement(ctx, domain.EventItemUnblocked, unblocked, "", "")
			if isPlaceholder {
				c.truncate(ctx, 0)
			} else {
				c.navigateBackTo(ctx, domain.Last(item.ID()), domain.AnyPath)
			}
		}
		c.setUnresolved("", "")
		return
	}

	id := req.Identifier()
	c.setUnresolved(id, item.ID())

	reason := domain.BlockingInvalidation
	if isPlaceholder {
		reason = domain.BlockingNavigation
	}

	if c.navigateBackTo(ctx, domain.Last(item.ID()).Forced(), domain.AnyPath) == nil {
		return
	}

	blocking := req.BlockingDestination(reason, func() {
		go req.Resolve(c.ctx, c)
	})
	blocked, found := c.update(item, func(i *NavigationItem) { i.Block(blocking) })
	if !found {
		return
	}
	c.logger.Debug("item blocked", "item", item.ID(), "requirement", id, "reason", reason)
	c.emitRequirement(ctx, domain.EventItemBlocked, blocked, id, reason.String())
}
