package gpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

// RequestError carries the diagnostic a backend reported when rejecting a request.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// pollInterval is the pause between two polls of an unresolved request.
const pollInterval = time.Millisecond

// Future is a one-shot result slot filled by a backend callback.
// The first Resolve or Reject wins; later calls are ignored.
type Future[T any] struct {
	mu      sync.Mutex
	done    bool
	ok      bool
	value   T
	message string

	// discard receives a value resolved after the waiter gave up.
	discard func(T)
}

// NewFuture creates an unresolved Future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{}
}

// Resolve fills the future with a successful result.
func (f *Future[T]) Resolve(value T) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	discard := f.discard
	if discard == nil {
		f.ok = true
		f.value = value
	}
	f.mu.Unlock()

	if discard != nil {
		discard(value)
	}
}

// Abandon marks the future as no longer awaited. A value that has already arrived unclaimed, or
// that arrives later, is passed to discard instead of being kept.
//
// Parameters:
//   - discard: releases the orphaned value
func (f *Future[T]) Abandon(discard func(T)) {
	f.mu.Lock()
	if !f.done {
		f.discard = discard
		f.mu.Unlock()
		return
	}
	orphan, ok := f.value, f.ok
	var zero T
	f.value, f.ok = zero, false
	f.mu.Unlock()

	if ok {
		discard(orphan)
	}
}

// Reject fills the future with a failure diagnostic.
func (f *Future[T]) Reject(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return
	}
	f.done = true
	f.message = message
}

// Done reports whether a callback has filled the future.
func (f *Future[T]) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *Future[T]) result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.ok {
		var zero T
		return zero, &RequestError{Message: f.message}
	}
	return f.value, nil
}

// Await blocks until the future is filled.
//
// Native backends resolve adapter and device requests synchronously, so the callback has
// normally fired before Await is reached and the result is returned immediately. For a backend
// that resolves later, poll is called repeatedly to drive its event processing until the
// future is filled or ctx is done, pausing pollInterval between polls. Without a poll function
// an unresolved future fails with common.ErrRequestPending. A caller that gets an error should
// Abandon the future so a late result is released.
//
// Parameters:
//   - ctx: bounds how long polling may continue
//   - f: the future to wait on
//   - poll: drives pending callbacks, may be nil
//
// Returns:
//   - T: the resolved value
//   - error: a *RequestError if the request was rejected, ErrRequestPending or the context error otherwise
func Await[T any](ctx context.Context, f *Future[T], poll func()) (T, error) {
	for !f.Done() {
		if poll == nil {
			var zero T
			return zero, common.ErrRequestPending
		}
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %w", common.ErrRequestPending, err)
		}
		poll()
		if f.Done() {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(pollInterval):
		}
	}
	return f.result()
}

// RequestAdapter requests an adapter from instance and waits for the callback.
//
// Parameters:
//   - ctx: bounds how long polling may continue
//   - instance: the backend instance
//   - options: adapter selection options, may be nil
//
// Returns:
//   - Adapter: the adapter
//   - error: wraps common.ErrAdapterUnavailable with the backend diagnostic
func RequestAdapter(ctx context.Context, instance Instance, options *RequestAdapterOptions) (Adapter, error) {
	fut := NewFuture[Adapter]()
	instance.RequestAdapter(options, func(status RequestStatus, adapter Adapter, message string) {
		if status == RequestStatusSuccess && adapter != nil {
			fut.Resolve(adapter)
			return
		}
		fut.Reject(fmt.Sprintf("status %s: %s", status, message))
	})

	adapter, err := Await(ctx, fut, instance.ProcessEvents)
	if err != nil {
		fut.Abandon(Adapter.Release)
		return nil, fmt.Errorf("%w: %w", common.ErrAdapterUnavailable, err)
	}
	return adapter, nil
}

// RequestDevice requests a device from adapter and waits for the callback.
// Pending callbacks are driven through instance.
//
// Parameters:
//   - ctx: bounds how long polling may continue
//   - instance: the instance the adapter came from
//   - adapter: the adapter to request the device from
//   - descriptor: label and required limits, may be nil
//
// Returns:
//   - Device: the device
//   - error: wraps common.ErrDeviceUnavailable with the backend diagnostic
func RequestDevice(ctx context.Context, instance Instance, adapter Adapter, descriptor *DeviceDescriptor) (Device, error) {
	fut := NewFuture[Device]()
	adapter.RequestDevice(descriptor, func(status RequestStatus, device Device, message string) {
		if status == RequestStatusSuccess && device != nil {
			fut.Resolve(device)
			return
		}
		fut.Reject(fmt.Sprintf("status %s: %s", status, message))
	})

	var poll func()
	if instance != nil {
		poll = instance.ProcessEvents
	}
	device, err := Await(ctx, fut, poll)
	if err != nil {
		fut.Abandon(Device.Release)
		return nil, fmt.Errorf("%w: %w", common.ErrDeviceUnavailable, err)
	}
	return device, nil
}
