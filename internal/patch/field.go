package patch

type fieldState uint8

const (
	stateUnchanged fieldState = iota
	stateSet
	stateCleared
)

// Field is an optional input value with three states: Unchanged (not sent),
// Set to a value, or Cleared. The zero value is Unchanged.
type Field[T any] struct {
	state fieldState
	value T
}

// Unchanged returns a field that was not submitted.
func Unchanged[T any]() Field[T] {
	return Field[T]{}
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: stateSet, value: v}
}

// Cleared returns a field that was explicitly cleared.
func Cleared[T any]() Field[T] {
	return Field[T]{state: stateCleared}
}

func (f Field[T]) IsUnchanged() bool { return f.state == stateUnchanged }
func (f Field[T]) IsSet() bool       { return f.state == stateSet }
func (f Field[T]) IsCleared() bool   { return f.state == stateCleared }

// Get returns the value and whether the field is Set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == stateSet
}

// Or returns the value if Set, otherwise def.
func (f Field[T]) Or(def T) T {
	if f.state == stateSet {
		return f.value
	}
	return def
}

func (f Field[T]) String() string {
	switch f.state {
	case stateSet:
		return "set"
	case stateCleared:
		return "cleared"
	default:
		return "unchanged"
	}
}
