package humanoid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPauseBands(t *testing.T) {
	cases := []struct {
		band     Band
		min, max time.Duration
	}{
		{Micro, 100 * time.Millisecond, 300 * time.Millisecond},
		{Short, 300 * time.Millisecond, 800 * time.Millisecond},
		{Medium, time.Second, 2 * time.Second},
		{Long, 2 * time.Second, 4 * time.Second},
		{VeryLong, 4 * time.Second, 8 * time.Second},
		{Band("GLACIAL"), 300 * time.Millisecond, 800 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(string(tc.band), func(t *testing.T) {
			mock := newMockExecutor(t)
			h := NewTestHumanoid(mock, 13)
			for i := 0; i < 50; i++ {
				require.NoError(t, h.Pause(context.Background(), tc.band))
			}
			require.Len(t, mock.sleepDurations, 50)
			for _, d := range mock.sleepDurations {
				assert.GreaterOrEqual(t, d, tc.min)
				assert.LessOrEqual(t, d, tc.max)
			}
		})
	}
}

func TestPauseOverrides(t *testing.T) {
	mock := newMockExecutor(t)
	h := NewTestHumanoid(mock, 17)
	ctx := context.Background()

	require.NoError(t, h.Pause(ctx, Long, WithMax(2500*time.Millisecond)))
	require.NoError(t, h.Pause(ctx, Short, WithMin(700*time.Millisecond)))
	require.NoError(t, h.Pause(ctx, Medium, WithMin(0), WithMax(0)))

	require.Len(t, mock.sleepDurations, 3)
	assert.GreaterOrEqual(t, mock.sleepDurations[0], 2*time.Second)
	assert.LessOrEqual(t, mock.sleepDurations[0], 2500*time.Millisecond)
	assert.GreaterOrEqual(t, mock.sleepDurations[1], 700*time.Millisecond)
	assert.LessOrEqual(t, mock.sleepDurations[1], 800*time.Millisecond)
	assert.GreaterOrEqual(t, mock.sleepDurations[2], time.Second)
	assert.LessOrEqual(t, mock.sleepDurations[2], 2*time.Second)
}

func TestPauseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewTestHumanoid(newMockExecutor(t), 1)
	assert.ErrorIs(t, h.Pause(ctx, Micro), context.Canceled)
}

func TestBandRangeUnknownIsShort(t *testing.T) {
	assert.Equal(t, Range{100, 300}, BandRange(Micro))
	assert.Equal(t, BandRange(Short), BandRange(""))
}
