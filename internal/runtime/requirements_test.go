package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/requirement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func blockedBy(item runtime.NavigationItem) (requirement.Blocked, bool) {
	b, ok := item.VisibleDestination().(requirement.Blocked)
	return b, ok
}

func TestRequirements_InvalidationBlocksAndUnblocks(t *testing.T) {
	f := newFixture()
	login := f.flag(t, "login", true)
	c := f.coordinator(t, testutils.NewScreen("home"))
	ctx := context.Background()

	_, err := c.Navigate(ctx, testutils.NewScreen("account").Requiring("login"))
	require.NoError(t, err)
	push(t, c, "edit", "")
	assert.True(t, c.ObservesRequirement("login"))

	require.NoError(t, login.Set(ctx, false))

	require.Eventually(t, func() bool {
		path := c.Path()
		return len(path) == 1 && path[0].IsBlocked()
	}, waitFor, tick, "items above the invalidated one are removed")

	b, ok := blockedBy(c.Path()[0])
	require.True(t, ok)
	assert.Equal(t, domain.RequirementIdentifier("login"), b.Requirement)
	assert.Equal(t, domain.BlockingInvalidation, b.Reason)
	assert.Equal(t, "account", domain.NameOf(c.Path()[0].OriginalDestination()), "the original destination is kept")
	assert.Equal(t, domain.RequirementIdentifier("login"), c.Snapshot().Path[0].BlockedBy)

	require.NoError(t, login.Set(ctx, true))

	require.Eventually(t, func() bool {
		path := c.Path()
		return len(path) == 1 && !path[0].IsBlocked()
	}, waitFor, tick)
	assert.Equal(t, "account", domain.NameOf(c.Path()[0].VisibleDestination()))
	assert.Equal(t, 1, f.recorder.Count(domain.EventItemBlocked))
	assert.Equal(t, 1, f.recorder.Count(domain.EventItemUnblocked))
}

func TestRequirements_BlockingChangesViewID(t *testing.T) {
	f := newFixture()
	login := f.flag(t, "login", true)
	c := f.coordinator(t, testutils.NewScreen("home"))
	ctx := context.Background()

	_, err := c.Navigate(ctx, testutils.NewScreen("account").Requiring("login"))
	require.NoError(t, err)
	item := c.Path()[0]
	require.Equal(t, string(item.ID()), item.ViewID())

	require.NoError(t, login.Set(ctx, false))
	require.Eventually(t, func() bool { return c.Path()[0].IsBlocked() }, waitFor, tick)

	blocked := c.Path()[0]
	assert.True(t, item.Equal(blocked), "identity survives blocking")
	assert.NotEqual(t, item.ViewID(), blocked.ViewID())
}

func TestRequirements_PlaceholderRoot(t *testing.T) {
	f := newFixture()
	onboarding := f.flag(t, "onboarding", false)
	c := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("home").Requiring("onboarding")), f.resolver,
		runtime.WithAutoAcknowledge(), runtime.WithLifecycleHooks(f.recorder.Hooks()))
	t.Cleanup(c.Close)

	assert.True(t, domain.IsPlaceholder(c.Root().VisibleDestination()), "roots with requirements start as placeholder")

	c.SetUp()

	require.Eventually(t, func() bool {
		_, ok := blockedBy(c.Root())
		return ok
	}, waitFor, tick)
	b, _ := blockedBy(c.Root())
	assert.Equal(t, domain.BlockingNavigation, b.Reason)

	require.NoError(t, onboarding.Set(context.Background(), true))

	require.Eventually(t, func() bool { return !c.Root().IsBlocked() }, waitFor, tick)
	assert.Equal(t, "home", domain.NameOf(c.Root().VisibleDestination()))
}

func TestRequirements_PlaceholderRootAlreadySatisfied(t *testing.T) {
	f := newFixture()
	f.flag(t, "onboarding", true)
	c := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("home").Requiring("onboarding")), f.resolver, runtime.WithAutoAcknowledge())
	t.Cleanup(c.Close)

	c.SetUp()

	require.Eventually(t, func() bool { return !c.Root().IsBlocked() }, waitFor, tick)
	assert.Equal(t, "home", domain.NameOf(c.Root().VisibleDestination()))
}

func TestRequirements_PlaceholderRootWithUnregisteredRequirement(t *testing.T) {
	f := newFixture()
	c := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("home").Requiring("onboarding")), f.resolver,
		runtime.WithAutoAcknowledge(), runtime.WithLifecycleHooks(f.recorder.Hooks()))
	t.Cleanup(c.Close)

	c.SetUp()

	require.Eventually(t, func() bool {
		return f.recorder.Count(domain.EventRequirementFailed) == 1
	}, waitFor, tick)
	assert.True(t, domain.IsPlaceholder(c.Root().VisibleDestination()), "an unverifiable root stays gated")
	assert.Zero(t, f.recorder.Count(domain.EventItemUnblocked))
}

func TestRequirements_ResolveFromBlockingDestination(t *testing.T) {
	f := newFixture()
	login := requirement.NewFlag("login", f.store, requirement.WithResolve(func(ctx context.Context, nav ports.Navigator) bool {
		return f.store.SetSatisfied(ctx, "login", true) == nil
	}))
	require.NoError(t, login.Set(context.Background(), true))
	f.resolver.RegisterRequirement(login)
	c := f.coordinator(t, testutils.NewScreen("home"))

	_, err := c.Navigate(context.Background(), testutils.NewScreen("account").Requiring("login"))
	require.NoError(t, err)
	require.NoError(t, login.Set(context.Background(), false))

	require.Eventually(t, func() bool { return c.Path()[0].IsBlocked() }, waitFor, tick)
	b, ok := blockedBy(c.Path()[0])
	require.True(t, ok)
	b.OnResolve()

	require.Eventually(t, func() bool { return !c.Path()[0].IsBlocked() }, waitFor, tick)
}

func TestRequirements_ObservationEndsWithItem(t *testing.T) {
	f := newFixture()
	login := f.flag(t, "login", true)
	c := f.coordinator(t, testutils.NewScreen("home"))
	ctx := context.Background()

	_, err := c.Navigate(ctx, testutils.NewScreen("account").Requiring("login"))
	require.NoError(t, err)
	require.True(t, c.ObservesRequirement("login"))

	require.True(t, c.Pop(ctx))
	assert.False(t, c.ObservesRequirement("login"))

	require.NoError(t, login.Set(ctx, false))
	assert.Never(t, func() bool { return f.recorder.Count(domain.EventItemBlocked) > 0 }, 50*time.Millisecond, tick)
}

func TestRequirements_ObservedByAncestor(t *testing.T) {
	f := newFixture()
	f.flag(t, "login", true)
	c := f.coordinator(t, testutils.NewScreen("home"))
	ctx := context.Background()

	_, err := c.Navigate(ctx, testutils.NewScreen("account").Requiring("login"))
	require.NoError(t, err)
	child := present(t, c, "sheet", "")

	assert.True(t, child.ObservesRequirement("login"), "children see requirements observed by ancestors")
	assert.False(t, child.ObservesRequirement("other"))
}
