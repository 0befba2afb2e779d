package session

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

	t.Run("InheritsValuesFromPrimary", func(t *testing.T) {
		ctx1 := context.WithValue(context.Background(), key, value)
		ctx2 := context.Background()

		combinedCtx, cancel := CombineContext(ctx1, ctx2)
		defer cancel()

		assert.Equal(t, value, combinedCtx.Value(key), "values come from the page context")
		assert.Nil(t, combinedCtx.Err(), "Context should not be done yet")
	})

	t.Run("CancelledByPrimary", func(t *testing.T) {
		ctx1, cancel1 := context.WithCancel(context.Background())
		ctx2 := context.Background()

		combinedCtx, cancelCombined := CombineContext(ctx1, ctx2)
		defer cancelCombined()

		cancel1()

		assert.Eventually(t, func() bool {
			return combinedCtx.Err() != nil
		}, 100*time.Millisecond, 10*time.Millisecond, "Combined context should be cancelled when ctx1 is cancelled")
		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled)
	})

	t.Run("CancelledBySecondary", func(t *testing.T) {
		ctx1 := context.Background()
		ctx2, cancel2 := context.WithCancel(context.Background())

		combinedCtx, cancelCombined := CombineContext(ctx1, ctx2)
		defer cancelCombined()

		cancel2()

		assert.Eventually(t, func() bool {
			return combinedCtx.Err() != nil
		}, 100*time.Millisecond, 10*time.Millisecond, "Combined context should be cancelled when ctx2 is cancelled")
		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled)
	})

	t.Run("DeadlineFromPrimary", func(t *testing.T) {
		deadline := time.Now().Add(50 * time.Millisecond)
		ctx1, cancel1 := context.WithDeadline(context.Background(), deadline)
		defer cancel1()
		ctx2 := context.Background()

		combinedCtx, cancelCombined := CombineContext(ctx1, ctx2)
		defer cancelCombined()

		combinedDeadline, ok := combinedCtx.Deadline()
		require.True(t, ok, "Combined context should have a deadline")
		assert.InDelta(t, deadline.UnixNano(), combinedDeadline.UnixNano(), float64(10*time.Millisecond.Nanoseconds()), "Deadline should match ctx1")

		<-combinedCtx.Done()
		assert.ErrorIs(t, combinedCtx.Err(), context.DeadlineExceeded)
	})

	t.Run("DeadlineFromSecondary", func(t *testing.T) {
		ctx1, cancel1 := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel1()

		deadline2 := time.Now().Add(50 * time.Millisecond)
		ctx2, cancel2 := context.WithDeadline(context.Background(), deadline2)
		defer cancel2()

		combinedCtx, cancelCombined := CombineContext(ctx1, ctx2)
		defer cancelCombined()

		<-combinedCtx.Done()

		assert.ErrorIs(t, ctx2.Err(), context.DeadlineExceeded, "ctx2 should have exceeded deadline")
		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled, "Combined context should be Canceled when the secondary context finishes")
	})

	t.Run("ExplicitCancellation", func(t *testing.T) {
		ctx1 := context.Background()
		ctx2 := context.Background()

		combinedCtx, cancelCombined := CombineContext(ctx1, ctx2)
		cancelCombined()

		assert.ErrorIs(t, combinedCtx.Err(), context.Canceled)
	})
}

func TestDetach(t *testing.T) {
	type ctxKey string
	const key ctxKey = "testKey"
	const value = "testValue"

	t.Run("InheritsValues", func(t *testing.T) {
		parentCtx := context.WithValue(context.Background(), key, value)
		detachedCtx := Detach(parentCtx)

		assert.Equal(t, value, detachedCtx.Value(key), "Detached context should inherit values")
	})

	t.Run("IgnoresParentCancellation", func(t *testing.T) {
		parentCtx, cancelParent := context.WithCancel(context.Background())
		detachedCtx := Detach(parentCtx)

		cancelParent()

		assert.ErrorIs(t, parentCtx.Err(), context.Canceled)

		assert.Nil(t, detachedCtx.Err(), "Detached context should have nil Err")
		assert.Nil(t, detachedCtx.Done(), "Detached context should have nil Done channel")
	})

	t.Run("IgnoresParentDeadline", func(t *testing.T) {
		parentCtx, cancelParent := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancelParent()

		detachedCtx := Detach(parentCtx)

		<-parentCtx.Done()
		assert.ErrorIs(t, parentCtx.Err(), context.DeadlineExceeded)

		deadline, ok := detachedCtx.Deadline()
		assert.False(t, ok, "Detached context should not have a deadline")
		assert.True(t, deadline.IsZero(), "Deadline should be zero time")
		assert.Nil(t, detachedCtx.Err(), "Detached context should not be done")
	})

	t.Run("DerivedFromDetached", func(t *testing.T) {
		parentCtx, cancelParent := context.WithCancel(context.Background())
		detachedCtx := Detach(parentCtx)

		derivedCtx, cancelDerived := context.WithTimeout(detachedCtx, 50*time.Millisecond)
		defer cancelDerived()

		cancelParent()

		<-derivedCtx.Done()

		assert.Nil(t, detachedCtx.Err(), "Detached context remains unaffected")
		assert.ErrorIs(t, derivedCtx.Err(), context.DeadlineExceeded, "Derived context respects its own timeout")
	})
}
