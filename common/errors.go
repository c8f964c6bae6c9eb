package common

import "errors"

// Error taxonomy shared by every engine package. Callers wrap these with fmt.Errorf("...: %w")
// and test them with errors.Is.
var (
	// ErrInit reports that platform or backend bring-up failed.
	ErrInit = errors.New("initialization failed")

	// ErrAdapterUnavailable reports that the adapter request returned no adapter.
	ErrAdapterUnavailable = errors.New("adapter unavailable")

	// ErrDeviceUnavailable reports that the device request failed or the required limits
	// could not be satisfied by the adapter.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrSwapchainImageUnavailable reports that no presentable image could be acquired.
	// The frame loop treats it as a graceful exit condition.
	ErrSwapchainImageUnavailable = errors.New("cannot acquire next swapchain texture")

	// ErrResourceLoad reports a missing or malformed model, shader or config file.
	ErrResourceLoad = errors.New("resource load failed")

	// ErrRequestPending reports that an asynchronous request had not resolved and no poll
	// function was available to drive it.
	ErrRequestPending = errors.New("request still pending")
)
