package renderer

import (
	"context"
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

// Window is the part of a platform window the frame loop drives.
type Window interface {
	ShouldClose() bool
	PollEvents()
}

// FrameFunc prepares one frame: it may write uniforms and returns the draws to record.
//
// Parameters:
//   - frame: the zero-based index of the frame about to be rendered
//   - elapsed: time since the loop started
//
// Returns:
//   - []Draw: the draws for this frame
//   - error: a non-nil error stops the loop and is returned from Loop
type FrameFunc func(frame uint64, elapsed time.Duration) ([]Draw, error)

// Loop runs frames until the window asks to close, no swapchain image can be acquired or ctx is
// done. A missing swapchain image ends the loop without error.
//
// Parameters:
//   - ctx: cancels the loop between frames
//   - c: the context to render with
//   - w: the window whose events are pumped every frame
//   - fn: prepares each frame
//
// Returns:
//   - error: the first frame preparation or render error, or the context error
func Loop(ctx context.Context, c Context, w Window, fn FrameFunc) error {
	logger := loggerOf(c)
	start := time.Now()

	var frame uint64
	for !w.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.PollEvents()

		draws, err := fn(frame, time.Since(start))
		if err != nil {
			return err
		}

		if err := c.RenderFrame(draws); err != nil {
			if errors.Is(err, common.ErrSwapchainImageUnavailable) {
				logger.WithError(err).Warn("Cannot acquire next swapchain texture, leaving frame loop")
				return nil
			}
			return err
		}
		frame++
	}

	logger.WithField("frames", frame).Info("Window closed, leaving frame loop")
	return nil
}
