package runtime

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// NavigateBackTo searches for search.Reference and removes everything on top of it.
//
// The root matches before any path item. Without a local match the search
// continues in the parent unless path is CurrentPath. A first occurrence search
// asks the ancestors before using a local match, so the outermost match wins.
// PreviousPath never truncates the local stack. The presented stack is dismissed
// last; if that is refused nil is returned and the truncation is kept.
func (c *Coordinator) NavigateBackTo(ctx context.Context, search domain.DestinationSearch, path domain.SearchPath) ports.Navigator {
	return asNavigator(c.navigateBackTo(ctx, search, path))
}

func (c *Coordinator) navigateBackTo(ctx context.Context, search domain.DestinationSearch, path domain.SearchPath) *Coordinator {
	c.mu.Lock()
	rootMatch := c.root.Matches(search.Reference)
	found := rootMatch || findIndex(c.path, search.Occurrence, search.Reference) >= 0
	c.mu.Unlock()

	if !found {
		if path == domain.CurrentPath || c.parent == nil {
			return nil
		}
		return c.parent.navigateBackTo(ctx, search, domain.AnyPath)
	}

	if search.Occurrence == domain.OccurrenceFirst && path != domain.CurrentPath && c.parent != nil {
		if handled := c.parent.navigateBackTo(ctx, search, domain.AnyPath); handled != nil {
			return handled
		}
	}

	if path != domain.PreviousPath {
		if rootMatch {
			c.truncate(ctx, 0)
			if search.Target == domain.TargetBefore {
				return c.finish(ctx)
			}
		} else {
			c.mu.Lock()
			index := findIndex(c.path, search.Occurrence, search.Reference)
			c.mu.Unlock()
			if index < 0 {
				return nil
			}
			if search.Target == domain.TargetBefore {
				c.truncate(ctx, index)
			} else {
				c.truncate(ctx, index+1)
			}
		}
	}

	if !c.Dismiss(ctx, search.Force) {
		return nil
	}
	return c
}

// truncate keeps the first n path items.
func (c *Coordinator) truncate(ctx context.Context, n int) {
	c.mu.Lock()
	if n >= len(c.path) {
		c.mu.Unlock()
		return
	}
	removed := c.path[n:]
	c.path = append([]NavigationItem(nil), c.path[:n]...)
	c.pruneLocked()
	c.mu.Unlock()

	for i := len(removed) - 1; i >= 0; i-- {
		c.emitNavigation(ctx, domain.EventItemPopped, removed[i], n+i)
	}
	c.logger.Debug("path truncated", "depth", n, "removed", len(removed))
}

// NavigateBack pops the top item. With an empty path the coordinator finishes
// and the parent is returned.
func (c *Coordinator) NavigateBack(ctx context.Context) ports.Navigator {
	if len(c.Path()) == 0 {
		c.finish(ctx)
		return asNavigator(c.parent)
	}
	c.pop(ctx, 1)
	return c
}

// Pop removes the top item of the path.
func (c *Coordinator) Pop(ctx context.Context) bool {
	return c.pop(ctx, 1)
}

// PopToRoot removes every item of the path.
func (c *Coordinator) PopToRoot(ctx context.Context) bool {
	return c.pop(ctx, -1)
}

// pop removes count items from the top, or all of them when count is negative,
// and waits for the disappear acknowledgment.
func (c *Coordinator) pop(ctx context.Context, count int) bool {
	wait := c.arm(ctx, &c.disappear)
	c.mu.Lock()
	n := len(c.path)
	if n == 0 {
		c.mu.Unlock()
		if wait != nil {
			c.disappear.disarm(wait)
		}
		return false
	}
	keep := 0
	if count >= 0 && count < n {
		keep = n - count
	}
	removed := c.path[keep:]
	c.path = append([]NavigationItem(nil), c.path[:keep]...)
	c.pruneLocked()
	c.mu.Unlock()

	for i := len(removed) - 1; i >= 0; i-- {
		c.emitNavigation(ctx, domain.EventItemPopped, removed[i], keep+i)
	}
	c.await(ctx, &c.disappear, wait)
	return true
}
