package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsUntilWindowCloses(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{})
	w := gputest.NewWindow(640, 480, 3)

	var frames []uint64
	err := Loop(context.Background(), c, w, func(frame uint64, elapsed time.Duration) ([]Draw, error) {
		frames = append(frames, frame)
		return []Draw{{VertexCount: 3}}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2}, frames)
	assert.Equal(t, 3, w.Polls)
	assert.Equal(t, 3, inst.Log.Count("Queue.Submit"))
	assert.Equal(t, uint64(3), c.Stats().Frames)
}

func TestLoopStopsOnMissingImage(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{NilImageAt: 3})
	w := gputest.NewWindow(640, 480, 10)

	calls := 0
	err := Loop(context.Background(), c, w, func(uint64, time.Duration) ([]Draw, error) {
		calls++
		return nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, inst.Log.Count("Queue.Submit"))
	assert.Equal(t, 2, inst.Log.Count("Surface.Present"))
	assert.Equal(t, uint64(2), c.Stats().Frames)
}

func TestLoopReturnsFrameError(t *testing.T) {
	_, c := newTestContext(t, gputest.Config{})
	w := gputest.NewWindow(640, 480, 10)
	boom := errors.New("boom")

	err := Loop(context.Background(), c, w, func(frame uint64, _ time.Duration) ([]Draw, error) {
		if frame == 1 {
			return nil, boom
		}
		return nil, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), c.Stats().Frames)
}

func TestLoopHonorsContext(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{})
	w := gputest.NewWindow(640, 480, 0)

	ctx, cancel := context.WithCancel(context.Background())
	err := Loop(ctx, c, w, func(frame uint64, _ time.Duration) ([]Draw, error) {
		if frame == 4 {
			cancel()
		}
		return nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, inst.Log.Count("Queue.Submit"))
}
