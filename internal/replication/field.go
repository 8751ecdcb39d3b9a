// Package replication models values written by the authoritative side and
// mirrored by observers.
package replication

// Field is a replicated value with an on-change hook.
//
// The hook runs after the new value is stored, on both sides: after Set on the
// authority and after Observe on an observer. Hooks must not write other
// replicated fields.
type Field[T comparable] struct {
	value    T
	dirty    bool
	onChange func(prev, next T)
}

func NewField[T comparable](initial T, onChange func(prev, next T)) *Field[T] {
	return &Field[T]{value: initial, onChange: onChange}
}

func (f *Field[T]) Get() T {
	return f.value
}

// Set is the authoritative write. The field becomes dirty when the value
// changes. Returns whether it changed.
func (f *Field[T]) Set(v T) bool {
	if !f.apply(v) {
		return false
	}
	f.dirty = true
	return true
}

// Observe applies a value received from the authority.
func (f *Field[T]) Observe(v T) bool {
	return f.apply(v)
}

// Dirty reports whether a Set is waiting to be sent.
func (f *Field[T]) Dirty() bool {
	return f.dirty
}

// Flush clears the dirty flag and returns the current value.
func (f *Field[T]) Flush() T {
	f.dirty = false
	return f.value
}

func (f *Field[T]) apply(v T) bool {
	if v == f.value {
		return false
	}
	prev := f.value
	f.value = v
	if f.onChange != nil {
		f.onChange(prev, v)
	}
	return true
}
