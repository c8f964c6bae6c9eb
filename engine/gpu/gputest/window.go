package gputest

import "errors"

// Window is a fake window that satisfies gpu.SurfaceSource and the engine's window contract. It
// closes itself after a fixed number of event polls.
type Window struct {
	W, H       int
	CloseAfter int

	Polls    int
	Closed   bool
	Released bool

	// OnPoll, if set, runs at the end of every PollEvents call with the 1-based poll count.
	OnPoll func(poll int)

	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
}

// NewWindow creates a fake window of the given size that requests closing after closeAfter polls.
// A closeAfter of zero never closes on its own.
func NewWindow(width, height, closeAfter int) *Window {
	return &Window{W: width, H: height, CloseAfter: closeAfter}
}

func (w *Window) SurfaceDescriptor() any {
	return w
}

func (w *Window) ShouldClose() bool {
	return w.Closed || (w.CloseAfter > 0 && w.Polls >= w.CloseAfter)
}

func (w *Window) RequestClose() {
	w.Closed = true
}

func (w *Window) PollEvents() {
	w.Polls++
	if w.OnPoll != nil {
		w.OnPoll(w.Polls)
	}
}

func (w *Window) Close() error {
	if w.Released {
		return errors.New("window already closed")
	}
	w.Released = true
	return nil
}

func (w *Window) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *Window) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

// Resize changes the window size and reports it like a framebuffer resize event.
func (w *Window) Resize(width, height int) {
	w.W, w.H = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// KeyDown reports a key press.
func (w *Window) KeyDown(keyCode uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
}

func (w *Window) Width() int {
	return w.W
}

func (w *Window) Height() int {
	return w.H
}
