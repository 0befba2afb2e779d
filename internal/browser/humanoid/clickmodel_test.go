package humanoid

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClick(t *testing.T) {
	ctx := context.Background()
	button := &Box{X: 400, Y: 300, Width: 120, Height: 40}

	t.Run("moves then presses and releases", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["button[type='submit']"] = button
		h := NewTestHumanoid(mock, 7)

		ptr, out := h.Click(ctx, PointerState{}, "button[type='submit']")
		require.Equal(t, StatusSuccess, out.Status, out.Reason)
		assert.InDelta(t, 460, ptr.X, 10)
		assert.InDelta(t, 320, ptr.Y, 10)

		n := len(mock.events)
		require.GreaterOrEqual(t, n, 3)
		assert.Equal(t, []string{"down", "up"}, mock.events[n-2:])
		assert.Empty(t, mock.eventsWithPrefix("click"), "no direct click on the happy path")

		// The final two sleeps are the reaction delay and the button hold.
		s := mock.sleepDurations
		require.GreaterOrEqual(t, len(s), 2)
		reaction, hold := s[len(s)-2], s[len(s)-1]
		assert.GreaterOrEqual(t, reaction, ms(100))
		assert.LessOrEqual(t, reaction, ms(200))
		assert.GreaterOrEqual(t, hold, ms(50))
		assert.LessOrEqual(t, hold, ms(150))
	})

	t.Run("missing element is a no-op", func(t *testing.T) {
		mock := newMockExecutor(t)
		h := NewTestHumanoid(mock, 7)

		ptr, out := h.Click(ctx, PointerState{X: 3, Y: 4}, "#nope")
		assert.Equal(t, StatusDegraded, out.Status)
		assert.Equal(t, PointerState{X: 3, Y: 4}, ptr)
		assert.Empty(t, mock.events)
		assert.Empty(t, mock.sleepDurations)
	})

	t.Run("falls back to a direct click", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["#go"] = button
		mock.downErr = errors.New("input dispatch failed")
		h := NewTestHumanoid(mock, 7)

		_, out := h.Click(ctx, PointerState{}, "#go")
		assert.Equal(t, StatusDegraded, out.Status)
		assert.Contains(t, out.Reason, "input dispatch failed")
		assert.Equal(t, []string{"click #go"}, mock.eventsWithPrefix("click"))
	})

	t.Run("bounding box error also falls back", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxErr = errors.New("node detached")
		h := NewTestHumanoid(mock, 7)

		_, out := h.Click(ctx, PointerState{}, "#go")
		assert.Equal(t, StatusDegraded, out.Status)
		assert.Equal(t, []string{"click #go"}, mock.events)
	})

	t.Run("failed fallback is reported as failed", func(t *testing.T) {
		mock := newMockExecutor(t)
		mock.boxes["#go"] = button
		mock.downErr = errors.New("input dispatch failed")
		mock.clickErr = errors.New("element detached")
		h := NewTestHumanoid(mock, 7)

		_, out := h.Click(ctx, PointerState{}, "#go")
		assert.Equal(t, StatusFailed, out.Status)
		assert.False(t, out.OK())
		require.Error(t, out.Err())
		assert.Contains(t, out.Err().Error(), "element detached")
	})
}

func TestObserverReceivesOutcomes(t *testing.T) {
	mock := newMockExecutor(t)
	mock.boxes["#a"] = &Box{Width: 10, Height: 10}
	obs := &recordingObserver{}
	h := New(DefaultConfig(), zaptest.NewLogger(t), mock, gofakeit.New(11), WithObserver(obs))

	ctx := context.Background()
	ptr, _ := h.Click(ctx, PointerState{}, "#a")
	h.Click(ctx, ptr, "#missing")
	h.Scroll(ctx, 100)

	assert.Equal(t, []string{"click:success", "click:degraded", "scroll:success"}, obs.events)
}

func TestOutcome(t *testing.T) {
	assert.True(t, Succeeded().OK())
	assert.NoError(t, Succeeded().Err())
	assert.True(t, Degraded("x").OK())
	assert.NoError(t, Degraded("x").Err())
	assert.False(t, Failed("boom").OK())
	assert.EqualError(t, Failed("boom").Err(), "boom")
	assert.Equal(t, "unknown", Status(99).String())
}
