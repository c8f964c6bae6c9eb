package handle

import "reflect"

// Releaser is implemented by every native resource that holds a reference which must be dropped.
type Releaser interface {
	Release()
}

// Destroyer is implemented by content-owning resources (buffers, textures) whose contents must be
// destroyed before the reference is released.
type Destroyer interface {
	Releaser
	Destroy()
}

// noCopy lets `go vet -copylocks` flag handles and scopes that are copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle is the exclusive owner of exactly one native resource.
// Handles are used through pointers; copying one by value is reported by go vet.
type Handle[T Releaser] struct {
	_ noCopy

	value  T
	valid  bool
	owning bool
}

// New wraps a reference-only resource such as a view, encoder, command buffer or pipeline.
// Releasing the handle calls Release on the value exactly once.
//
// Parameters:
//   - v: the resource to take ownership of
//
// Returns:
//   - *Handle[T]: the owning handle, invalid if v is nil
func New[T Releaser](v T) *Handle[T] {
	return &Handle[T]{
		value: v,
		valid: !isNil(v),
	}
}

// NewOwning wraps a content-owning resource such as a buffer or texture.
// Releasing the handle calls Destroy and then Release on the value, each exactly once.
//
// Parameters:
//   - v: the resource to take ownership of
//
// Returns:
//   - *Handle[T]: the owning handle, invalid if v is nil
func NewOwning[T Destroyer](v T) *Handle[T] {
	return &Handle[T]{
		value:  v,
		valid:  !isNil(v),
		owning: true,
	}
}

// Get returns a borrowed reference to the wrapped resource.
// The zero value is returned once the handle has been released or moved.
func (h *Handle[T]) Get() T {
	if h == nil || !h.valid {
		var zero T
		return zero
	}
	return h.value
}

// Valid reports whether the handle still owns a resource.
func (h *Handle[T]) Valid() bool {
	return h != nil && h.valid
}

// Owning reports whether the wrapped resource is destroyed before it is released.
func (h *Handle[T]) Owning() bool {
	return h != nil && h.owning
}

// Release tears the resource down: Destroy first when the handle is content-owning, then Release.
// Subsequent calls are no-ops.
func (h *Handle[T]) Release() {
	if h == nil || !h.valid {
		return
	}
	value := h.value
	owning := h.owning
	h.reset()

	if owning {
		if d, ok := any(value).(Destroyer); ok {
			d.Destroy()
		}
	}
	value.Release()
}

// Take moves ownership into a new handle. The receiver is left empty and releasing it is a no-op.
//
// Returns:
//   - *Handle[T]: a handle owning the resource previously owned by h
func (h *Handle[T]) Take() *Handle[T] {
	if h == nil || !h.valid {
		return &Handle[T]{}
	}
	moved := &Handle[T]{
		value:  h.value,
		valid:  true,
		owning: h.owning,
	}
	h.reset()
	return moved
}

func (h *Handle[T]) reset() {
	var zero T
	h.value = zero
	h.valid = false
	h.owning = false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
