package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	id := domain.RequirementIdentifier("contract-test-" + time.Now().Format("20060102150405"))

	t.Run("Set and Get", func(t *testing.T) {
		err := store.SetSatisfied(ctx, id, true)
		require.NoError(t, err, "SetSatisfied should not return error")

		ok, err := store.IsSatisfied(ctx, id)
		require.NoError(t, err, "IsSatisfied should not return error")
		assert.True(t, ok)

		require.NoError(t, store.SetSatisfied(ctx, id, false))
		ok, err = store.IsSatisfied(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.IsSatisfied(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SetSatisfied(ctx, id, true))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.IsSatisfied(ctx, id)
		assert.ErrorIs(t, err, ErrStateNotFound, "IsSatisfied after Delete should return ErrStateNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.SetSatisfied(ctx, id1, true)
		_ = store.SetSatisfied(ctx, id2, false)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		states, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, true, states[id1])
		assert.Contains(t, states, id2)
		assert.False(t, states[id2])
	})

	t.Run("Watch", func(t *testing.T) {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		watched := id + "-watched"
		updates, err := store.Watch(watchCtx, watched)
		require.NoError(t, err)

		// Subscriptions may become active asynchronously, keep writing until one is seen.
		assert.Eventually(t, func() bool {
			_ = store.SetSatisfied(ctx, watched, true)
			select {
			case <-updates:
				return true
			case <-time.After(20 * time.Millisecond):
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, open := <-updates:
				return !open
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond, "channel should close after ctx is done")

		_ = store.Delete(ctx, watched)
	})
}
