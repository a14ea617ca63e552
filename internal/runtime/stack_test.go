package runtime_test

import (
	"context"
	goruntime "runtime"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/internal/runtime"
	"github.com/aretw0/wayfinder/internal/testutils"
	"github.com/aretw0/wayfinder/pkg/resolver"
	"github.com/stretchr/testify/assert"
)

func TestCoordinatorStack_Order(t *testing.T) {
	r := resolver.New()
	stack := runtime.NewCoordinatorStack()
	a := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("a")), r)
	b := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("b")), r)

	assert.Nil(t, stack.First())
	assert.Nil(t, stack.Last())

	stack.Append(a)
	stack.Append(b)
	stack.Append(a)

	assert.Equal(t, 2, stack.Len())
	assert.Same(t, a, stack.First())
	assert.Same(t, b, stack.Last())
	assert.True(t, stack.Contains(b))

	stack.Remove(b)
	assert.False(t, stack.Contains(b))
	assert.Same(t, a, stack.Last())

	stack.Reset(b)
	assert.Equal(t, []*runtime.Coordinator{b}, stack.All())
}

func TestCoordinatorStack_DoesNotRetain(t *testing.T) {
	stack := runtime.NewCoordinatorStack()
	func() {
		c := runtime.NewCoordinator(runtime.NewItem(testutils.NewScreen("gone")), resolver.New())
		stack.Append(c)
		assert.Equal(t, 1, stack.Len())
	}()

	assert.Eventually(t, func() bool {
		goruntime.GC()
		return stack.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCoordinatorStack_TracksVisibleChain(t *testing.T) {
	f := newFixture()
	stack := runtime.NewCoordinatorStack()
	c := f.coordinator(t, testutils.NewScreen("home"), runtime.WithStack(stack))
	background := f.coordinator(t, testutils.NewScreen("other"), runtime.WithStack(stack))

	child := present(t, c, "sheet", "")
	present(t, background, "hidden", "")

	assert.Equal(t, []*runtime.Coordinator{c, child}, stack.All())

	c.Dismiss(context.Background(), true)
	assert.Equal(t, []*runtime.Coordinator{c}, stack.All())
}
