package humanoid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	ctx := context.Background()
	field := &Box{X: 100, Y: 100, Width: 300, Height: 32}

	t.Run("clicks the field then types each character", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["#email"] = field
		h := NewTestHumanoid(mock, 5)

		_, out := h.Type(ctx, PointerState{}, "#email", "ab@c")
		require.Equal(t, StatusSuccess, out.Status, out.Reason)

		assert.Equal(t, []string{"type a", "type b", "type @", "type c"}, mock.eventsWithPrefix("type"))
		n := len(mock.events)
		assert.Equal(t, []string{"down", "up", "type a", "type b", "type @", "type c"}, mock.events[n-6:])

		// Every character is followed by a key delay.
		keyDelays := mock.sleepDurations[len(mock.sleepDurations)-4:]
		for _, d := range keyDelays {
			assert.GreaterOrEqual(t, d, ms(100))
			assert.LessOrEqual(t, d, ms(200))
		}
	})

	t.Run("missing field is a no-op", func(t *testing.T) {
		mock := newMockExecutor(t)
		h := NewTestHumanoid(mock, 5)

		_, out := h.Type(ctx, PointerState{}, "#email", "x")
		assert.Equal(t, StatusDegraded, out.Status)
		assert.Empty(t, mock.events)
	})

	t.Run("falls back to fill on keyboard errors", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["#password"] = field
		mock.typeErr = errors.New("key dispatch failed")
		h := NewTestHumanoid(mock, 5)

		_, out := h.Type(ctx, PointerState{}, "#password", "s3cr3t")
		assert.Equal(t, StatusDegraded, out.Status)
		assert.Equal(t, []string{"fill #password s3cr3t"}, mock.eventsWithPrefix("fill"))
	})

	t.Run("failed fill is reported as failed", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["#password"] = field
		mock.typeErr = errors.New("key dispatch failed")
		mock.fillErr = errors.New("not editable")
		h := NewTestHumanoid(mock, 5)

		_, out := h.Type(ctx, PointerState{}, "#password", "s3cr3t")
		assert.Equal(t, StatusFailed, out.Status)
		assert.Contains(t, out.Reason, "not editable")
	})
}
