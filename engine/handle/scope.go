package handle

// Scope releases a group of handles in reverse acquisition order.
// It plays the role of a lexical scope: everything tracked by it is torn down exactly once
// when Close is called.
type Scope struct {
	_ noCopy

	closers []func()
}

// NewScope creates an empty Scope.
func NewScope() *Scope {
	return &Scope{}
}

// Track registers h with the scope and returns it, so acquisition and registration read as one
// expression.
//
// Parameters:
//   - s: the scope that will release the handle
//   - h: the handle to track
//
// Returns:
//   - *Handle[T]: h
func Track[T Releaser](s *Scope, h *Handle[T]) *Handle[T] {
	s.Defer(h.Release)
	return h
}

// Defer registers an arbitrary teardown function. It runs in LIFO order with the tracked handles.
func (s *Scope) Defer(fn func()) {
	if fn == nil {
		return
	}
	s.closers = append(s.closers, fn)
}

// Len returns the number of pending teardown functions.
func (s *Scope) Len() int {
	return len(s.closers)
}

// Adopt moves every pending teardown function of other into s. Other is left empty.
// Adopted entries are released before the entries s already held, matching reverse acquisition
// order when other was filled after s.
func (s *Scope) Adopt(other *Scope) {
	if other == nil || other == s {
		return
	}
	s.closers = append(s.closers, other.closers...)
	other.closers = nil
}

// Close runs every pending teardown function in reverse registration order.
// Closing an empty or already closed scope is a no-op.
func (s *Scope) Close() {
	if s == nil {
		return
	}
	closers := s.closers
	s.closers = nil
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
