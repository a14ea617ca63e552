package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckSignal_FireReleasesWaiter(t *testing.T) {
	var s ackSignal
	ch := s.arm(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.wait(context.Background(), ch) }()

	assert.True(t, s.fire())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}

func TestAckSignal_DoubleFireIsNoop(t *testing.T) {
	var s ackSignal
	assert.False(t, s.fire(), "nothing armed")

	s.arm(context.Background())
	assert.True(t, s.fire())
	assert.False(t, s.fire(), "second acknowledgment must be ignored")
}

func TestAckSignal_EarlyAcknowledgment(t *testing.T) {
	var s ackSignal
	ch := s.arm(context.Background())
	s.fire()

	assert.NoError(t, s.wait(context.Background(), ch), "an acknowledgment after arming is never lost")
}

func TestAckSignal_RearmWaitsForPrevious(t *testing.T) {
	var s ackSignal
	first := s.arm(context.Background())

	armed := make(chan chan struct{}, 1)
	go func() { armed <- s.arm(context.Background()) }()

	select {
	case <-armed:
		t.Fatal("a second waiter must not be armed while the first is outstanding")
	case <-time.After(20 * time.Millisecond):
	}

	assert.True(t, s.fire())
	assert.NoError(t, s.wait(context.Background(), first))

	var second chan struct{}
	select {
	case second = <-armed:
	case <-time.After(time.Second):
		t.Fatal("second waiter was not armed after the first was acknowledged")
	}
	require.NotNil(t, second)

	select {
	case <-second:
		t.Fatal("the first acknowledgment must not release the second waiter")
	default:
	}
	assert.True(t, s.fire())
	assert.NoError(t, s.wait(context.Background(), second))
}

func TestAckSignal_ArmGivesUpWithContext(t *testing.T) {
	var s ackSignal
	s.arm(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Nil(t, s.arm(ctx))
	assert.True(t, s.fire(), "the outstanding waiter is untouched")
}

func TestAckSignal_AbandonedWaiterFreesSlot(t *testing.T) {
	var s ackSignal
	first := s.arm(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.wait(ctx, first), context.Canceled)

	assert.NotNil(t, s.arm(context.Background()), "a cancelled waiter releases the slot")
}

func TestAckSignal_ContextCancel(t *testing.T) {
	var s ackSignal
	ch := s.arm(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.wait(ctx, ch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.fire(), "cancelled waiter is disarmed")
}
