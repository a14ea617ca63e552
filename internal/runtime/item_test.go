package runtime_test

import (
	"testing"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNavigationItem_References(t *testing.T) {
	screen := testutils.NewScreen("detail").Referenced("detail")
	item := runtime.NewItem(screen, "extra", "")

	assert.Equal(t, []domain.Reference{"extra", "detail"}, item.References())
	assert.True(t, item.Matches(item.ID()))
	assert.True(t, item.Matches("detail"))
	assert.True(t, item.Matches("extra"))
	assert.False(t, item.Matches("other"))
	assert.Equal(t, string(item.ID()), item.ViewID())
}

func TestNavigationItem_Identity(t *testing.T) {
	screen := testutils.NewScreen("detail")
	a := runtime.NewItem(screen)
	b := runtime.NewItem(screen)

	assert.NotEqual(t, a.ID(), b.ID(), "every item gets a fresh id")
	assert.False(t, a.Equal(b))

	copied := a
	copied.Block(domain.Placeholder())
	assert.True(t, a.Equal(copied), "blocking keeps the identity")
}

func TestNavigationItem_BlockUnblock(t *testing.T) {
	screen := testutils.NewScreen("detail").Requiring("login")
	item := runtime.NewItem(screen)
	viewID := item.ViewID()

	blocking := testutils.NewScreen("login")
	item.Block(blocking)

	assert.True(t, item.IsBlocked())
	assert.Equal(t, blocking, item.VisibleDestination())
	assert.Equal(t, screen, item.OriginalDestination())
	assert.NotEqual(t, viewID, item.ViewID(), "blocking changes the view identity")
	assert.Equal(t, []domain.RequirementIdentifier{"login"}, item.Requirements(), "requirements come from the original")

	item.Unblock()
	assert.False(t, item.IsBlocked())
	assert.Equal(t, screen, item.VisibleDestination())
	assert.Equal(t, viewID, item.ViewID(), "unblocking restores the view identity")
}

func TestNavigationItem_Transition(t *testing.T) {
	item := runtime.NewItem(testutils.NewScreen("a"))
	assert.Equal(t, domain.TransitionAutomatic, item.Transition())
	assert.Equal(t, domain.TransitionZoom, item.WithTransition(domain.TransitionZoom).Transition())
}
