// Package optional provides a three-state JSON field for partial
// updates: a field can be absent (leave the stored value untouched),
// explicitly null (clear the stored value), or carry a value (set it).
package optional

import "encoding/json"

// Value is a field in a partial-update payload. The zero Value is
// "absent". A Value decoded from JSON null is "null". Anything else is
// a concrete value.
type Value[T any] struct {
	value   T
	present bool
	null    bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, present: true}
}

// Null returns a present Value carrying an explicit null.
func Null[T any]() Value[T] {
	return Value[T]{present: true, null: true}
}

// Present reports whether the field appeared in the payload at all.
func (v Value[T]) Present() bool { return v.present }

// IsNull reports whether the field was an explicit null.
func (v Value[T]) IsNull() bool { return v.present && v.null }

// Get returns the carried value and whether one is actually set
// (present and not null).
func (v Value[T]) Get() (T, bool) {
	if !v.present || v.null {
		var zero T
		return zero, false
	}
	return v.value, true
}

// UnmarshalJSON is only invoked for fields present in the payload, so
// decoding marks the Value as present.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.present = true
	if string(data) == "null" {
		v.null = true
		return nil
	}
	return json.Unmarshal(data, &v.value)
}

// MarshalJSON round-trips the three states; absent encodes as null
// since encoding/json cannot omit struct fields dynamically.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.present || v.null {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
