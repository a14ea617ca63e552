package runtime_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerFunc func(u *url.URL, cfg domain.DeeplinkConfig) domain.Destination

func (f providerFunc) DestinationForDeeplink(u *url.URL, cfg domain.DeeplinkConfig) domain.Destination {
	return f(u, cfg)
}

func routes(screens map[string]domain.Destination) providerFunc {
	return func(u *url.URL, _ domain.DeeplinkConfig) domain.Destination {
		return screens[u.Host+u.Path]
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestHandleDeeplink_PresentsDestination(t *testing.T) {
	f := newFixture()
	f.resolver.RegisterDeeplinkProvider(routes(map[string]domain.Destination{
		"settings": testutils.NewScreen("settings"),
	}))
	c := f.coordinator(t, testutils.NewScreen("home"))

	handled, err := c.HandleDeeplink(context.Background(), mustParse(t, "app://settings"))

	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, c.Presentation())
	assert.Equal(t, domain.PresentationSheet, c.Presentation().Presentation)
	assert.Equal(t, "settings", domain.NameOf(c.Presentation().Coordinator.Root().OriginalDestination()))
	assert.Empty(t, c.Path())
}

func TestHandleDeeplink_KeepsPresentingPreference(t *testing.T) {
	f := newFixture()
	f.resolver.RegisterDeeplinkProvider(routes(map[string]domain.Destination{
		"player": testutils.NewScreen("player").Presented(domain.PresentationFullScreen),
	}))
	c := f.coordinator(t, testutils.NewScreen("home"))

	handled, err := c.HandleDeeplink(context.Background(), mustParse(t, "app://player"))

	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, c.Presentation())
	assert.Equal(t, domain.PresentationFullScreen, c.Presentation().Presentation)
}

func TestHandleDeeplink_Unrecognised(t *testing.T) {
	f := newFixture()
	c := f.coordinator(t, testutils.NewScreen("home"))

	handled, err := c.HandleDeeplink(context.Background(), mustParse(t, "app://nowhere"))

	require.NoError(t, err)
	assert.False(t, handled)
	assert.Nil(t, c.Presentation())
}

func TestHandleDeeplink_FailedRequirement(t *testing.T) {
	f := newFixture()
	f.flag(t, "login", false)
	f.resolver.RegisterDeeplinkProvider(routes(map[string]domain.Destination{
		"orders": testutils.NewScreen("orders").Requiring("login"),
	}))
	c := f.coordinator(t, testutils.NewScreen("home"))

	handled, err := c.HandleDeeplink(context.Background(), mustParse(t, "app://orders"))

	assert.True(t, handled)
	assert.ErrorIs(t, err, domain.ErrRequirementFailed)
	assert.Nil(t, c.Presentation())
}

func TestHandleDeeplink_DeliversAttachedAction(t *testing.T) {
	f := newFixture()
	f.resolver.RegisterDeeplinkProvider(routes(map[string]domain.Destination{
		"inbox": domain.WithAction(testutils.NewScreen("inbox"), "refresh"),
	}))
	c := f.coordinator(t, testutils.NewScreen("home"))

	_, err := c.HandleDeeplink(context.Background(), mustParse(t, "app://inbox"))
	require.NoError(t, err)

	sent := f.resolver.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "refresh", sent[0].action)
	assert.Equal(t, c.Presentation().Coordinator.Root().ID(), sent[0].target)
}
