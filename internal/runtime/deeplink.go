package runtime

import (
	"context"
	"net/url"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// HandleDeeplink navigates to the destination a registered provider maps u to.
// Deep links present their destination: the preferred action is kept when it
// already presents for the current size class, otherwise a sheet is used.
func (c *Coordinator) HandleDeeplink(ctx context.Context, u *url.URL) (bool, error) {
	destination := c.resolver.DestinationForDeeplink(u)
	if destination == nil {
		c.logger.Debug("deep link not recognised", "url", u.String())
		return false, nil
	}

	res, ok := c.resolver.ResolveDestination(destination)
	if !ok {
		return true, nil
	}

	action := domain.Presenting()
	if preferred := res.Destination.PreferredAction(); preferred.For(c.SizeClass()).IsPresenting() {
		action = preferred
	}

	var target domain.Destination = res.Destination
	if res.Action != nil {
		target = domain.WithAction(res.Destination, res.Action)
	}
	if _, err := c.Navigate(ctx, target, domain.ByAction(action)); err != nil {
		return true, err
	}
	return true, nil
}
