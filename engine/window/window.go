package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	log "github.com/sirupsen/logrus"
)

// Window is a platform window the renderer draws into.
// Every method must be called from the goroutine that created the window.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	// Resizes to a zero size (minimized windows) are not reported.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns the platform surface descriptor (*wgpu.SurfaceDescriptor) for the
	// window, or nil if the window has been closed.
	SurfaceDescriptor() any

	// ShouldClose reports whether the user or the application asked the window to close.
	ShouldClose() bool

	// RequestClose flags the window for closing; the frame loop exits on its next check.
	RequestClose()

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened or is already closed
	Close() error

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title     string
	width     int
	height    int
	resizable bool

	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int

	logger *log.Entry

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow opens a window. The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Window: the opened window
//   - error: an error wrapping common.ErrInit if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w, err := newEngineWindow(options...)
	if err != nil {
		return nil, err
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInit, err)
	}

	w.logger.WithFields(log.Fields{"width": w.width, "height": w.height}).Info("Window opened")
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) (*engineWindow, error) {
	w := &engineWindow{
		title:     "oxy-gpu",
		width:     640,
		height:    480,
		minWidth:  200,
		minHeight: 150,
		logger:    log.WithField("component", "window"),
	}
	for _, opt := range options {
		opt(w)
	}

	if w.width <= 0 || w.height <= 0 {
		return nil, fmt.Errorf("%w: invalid window size %dx%d", common.ErrInit, w.width, w.height)
	}
	return w, nil
}

// handleResize records a framebuffer size change and forwards it to the resize callback.
func (w *engineWindow) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		w.logger.Debug("Window minimized, skipping resize")
		return
	}
	if width == w.width && height == w.height {
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) handleKeyDown(keyCode uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SurfaceDescriptor() any {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) ShouldClose() bool {
	return !platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) PollEvents() {
	platformProcessMessages(w)
}

func (w *engineWindow) Close() error {
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.internalWindow = nil
	w.logger.Info("Window closed")
	return nil
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
