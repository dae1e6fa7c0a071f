package assumption

// Evidence wraps a value that may not have been computed. An absent value
// means "not known yet", never "failed"; consumers must branch on Known.
type Evidence[T any] struct {
	value T
	known bool
}

// Known wraps a computed value
func Known[T any](v T) Evidence[T] {
	return Evidence[T]{value: v, known: true}
}

// Unknown returns the absent state
func Unknown[T any]() Evidence[T] {
	return Evidence[T]{}
}

// Known reports whether the value was computed
func (e Evidence[T]) Known() bool {
	return e.known
}

// Get returns the value and whether it was computed
func (e Evidence[T]) Get() (T, bool) {
	return e.value, e.known
}

// OrElse returns the value, or fallback when absent
func (e Evidence[T]) OrElse(fallback T) T {
	if !e.known {
		return fallback
	}
	return e.value
}
