// File: internal/browser/context_utils_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineContext(t *testing.T) {
	type ctxKey string
	const key ctxKey = "testKey"
	const value = "testValue"

	t.Run("InheritsValuesFromSession", func(t *testing.T) {
		sessionCtx := context.WithValue(context.Background(), key, value)

		combined, cancel := CombineContext(sessionCtx, context.Background())
		defer cancel()

		assert.Equal(t, value, combined.Value(key))
		assert.NoError(t, combined.Err())
	})

	t.Run("CancelledBySession", func(t *testing.T) {
		sessionCtx, cancelSession := context.WithCancel(context.Background())
		combined, cancel := CombineContext(sessionCtx, context.Background())
		defer cancel()

		cancelSession()
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})

	t.Run("CancelledByOperation", func(t *testing.T) {
		opCtx, cancelOp := context.WithCancel(context.Background())
		combined, cancel := CombineContext(context.Background(), opCtx)
		defer cancel()

		cancelOp()
		assert.Eventually(t, func() bool {
			return combined.Err() != nil
		}, 100*time.Millisecond, 5*time.Millisecond)
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})

	t.Run("DeadlineFromOperation", func(t *testing.T) {
		deadline := time.Now().Add(50 * time.Millisecond)
		opCtx, cancelOp := context.WithDeadline(context.Background(), deadline)
		defer cancelOp()

		combined, cancel := CombineContext(context.Background(), opCtx)
		defer cancel()

		got, ok := combined.Deadline()
		require.True(t, ok, "the operation deadline should be visible on the combined context")
		assert.WithinDuration(t, deadline, got, time.Millisecond)

		<-combined.Done()
		assert.Error(t, combined.Err())
	})

	t.Run("ExplicitCancellation", func(t *testing.T) {
		combined, cancel := CombineContext(context.Background(), context.Background())
		cancel()
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})
}

func TestDetach(t *testing.T) {
	type ctxKey string
	const key ctxKey = "testKey"

	parent, cancel := context.WithCancel(context.WithValue(context.Background(), key, "v"))
	detached := Detach(parent)
	cancel()

	assert.Equal(t, "v", detached.Value(key))
	assert.NoError(t, detached.Err())
	assert.Nil(t, detached.Done())
}

func TestContextErr(t *testing.T) {
	live := context.Background()
	assert.NoError(t, contextErr(live, live))

	done, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, contextErr(done, live), context.Canceled)
	assert.ErrorIs(t, contextErr(live, done), context.Canceled)
}
