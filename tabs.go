package wayfinder

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/resolver"
)

func (a *App) registerMappers() {
	resolver.RegisterMapper(a.resolver, func(d domain.TabDestination) domain.Destination {
		return ports.HandledDestination{
			Name: "tab:" + string(d.Tab),
			Execute: func(ctx context.Context) (ports.Navigator, error) {
				c, err := a.SelectTab(ctx, d.Tab, d.PopToRoot)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
		}
	})

	resolver.RegisterMapper(a.resolver, func(d domain.AlertDestination) domain.Destination {
		a.ShowAlert(d.Alert)
		return nil
	})

	resolver.RegisterMapper(a.resolver, func(d domain.URLDestination) domain.Destination {
		if dest := a.resolver.DestinationForDeeplink(d.URL); dest != nil {
			return dest
		}
		if a.opener != nil {
			a.opener(context.Background(), d.URL)
		}
		return nil
	})
}

// SelectTab dismisses what is presented on the selected tab, selects id and
// waits for TabDidAppear. With popToRoot the tab's path is cleared as well.
func (a *App) SelectTab(ctx context.Context, id domain.TabID, popToRoot bool) (*Coordinator, error) {
	target, err := a.Tab(id)
	if err != nil {
		return nil, err
	}

	if first := a.stack.First(); first != nil && !first.Dismiss(ctx, false) {
		a.logger.Debug("tab switch refused by finish condition", "tab", id)
		return nil, fmt.Errorf("cannot select tab %q: %w", id, domain.ErrDismissRefused)
	}

	a.mu.Lock()
	i := a.indexLocked(id)
	changed := i != a.selected
	a.selected = i
	var wait chan struct{}
	if changed && !a.autoAck {
		if a.tabAppear != nil {
			close(a.tabAppear)
		}
		wait = make(chan struct{})
		a.tabAppear = wait
	}
	a.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			a.logger.Warn("tab switch not acknowledged", "tab", id, "error", ctx.Err())
		}
	}

	if popToRoot {
		target.PopToRoot(ctx)
	}
	a.stack.Reset(target.Chain()...)
	a.logger.Debug("tab selected", "tab", id, "pop_to_root", popToRoot)
	return target, nil
}

// TabDidAppear must be called by the host once a tab switch finished.
func (a *App) TabDidAppear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tabAppear != nil {
		close(a.tabAppear)
		a.tabAppear = nil
	}
}

// ShowAlert shows alert on the top-most visible coordinator.
func (a *App) ShowAlert(alert domain.Alert) {
	c, err := a.Active()
	if err != nil {
		a.logger.Warn("alert dropped", "alert", alert.ID, "error", err)
		return
	}
	c.ShowAlert(alert)
}

// HandleIncomingURL opens a deep link received from the platform.
func (a *App) HandleIncomingURL(ctx context.Context, u *url.URL) (bool, error) {
	c, err := a.Active()
	if err != nil {
		return false, err
	}
	return c.HandleDeeplink(ctx, u)
}

// HandleOutgoingURL opens a url tapped inside the app. Deep links are handled
// in app, anything else goes to the URLOpener.
func (a *App) HandleOutgoingURL(ctx context.Context, u *url.URL) bool {
	handled, err := a.HandleIncomingURL(ctx, u)
	if err != nil {
		a.logger.Warn("deep link failed", "url", u.String(), "error", err)
	}
	if handled {
		return true
	}
	if a.opener != nil {
		return a.opener(ctx, u)
	}
	return false
}
