package common

// Coalesce picks the first value that is not T's zero value. It is used to fall back from an
// optional setting to a default, e.g. Coalesce(cfg.Title, "oxy").
//
// Returns the zero value when every argument is zero.
func Coalesce[T comparable](candidates ...T) T {
	var zero T
	for _, c := range candidates {
		if c != zero {
			return c
		}
	}
	return zero
}
