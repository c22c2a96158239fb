package dict

import "math"

// valueKind tags which member of Value was last set. The engine never
// inspects this tag on its own — it is determined externally by the
// caller's own convention — it exists only to back the typed accessors
// below and to make [ErrTypeMismatch] possible.
type valueKind uint8

const (
	valueKindPointer valueKind = iota
	valueKindInt64
	valueKindUint64
	valueKindFloat64
)

// Value is the tagged union carried by entry variants that have a value
// slot (every variant except the inline-key one).
type Value struct {
	kind valueKind
	ptr  any
	num  uint64 // bit pattern for int64/uint64/float64
}

// Pointer wraps an opaque pointer-typed value.
func Pointer(v any) Value { return Value{kind: valueKindPointer, ptr: v} }

// Int64 wraps a signed 64-bit value.
func Int64(v int64) Value { return Value{kind: valueKindInt64, num: uint64(v)} }

// Uint64 wraps an unsigned 64-bit value.
func Uint64(v uint64) Value { return Value{kind: valueKindUint64, num: v} }

// Float64 wraps an IEEE-754 double value.
func Float64(v float64) Value { return Value{kind: valueKindFloat64, num: math.Float64bits(v)} }

// AsPointer returns the wrapped pointer value and whether the tag matches.
func (v Value) AsPointer() (any, bool) { return v.ptr, v.kind == valueKindPointer }

// AsInt64 returns the wrapped signed value and whether the tag matches.
func (v Value) AsInt64() (int64, bool) { return int64(v.num), v.kind == valueKindInt64 }

// AsUint64 returns the wrapped unsigned value and whether the tag matches.
func (v Value) AsUint64() (uint64, bool) { return v.num, v.kind == valueKindUint64 }

// AsFloat64 returns the wrapped double value and whether the tag matches.
func (v Value) AsFloat64() (float64, bool) {
	return math.Float64frombits(v.num), v.kind == valueKindFloat64
}

// IncrInt64 adds delta to a value previously set with [Int64] and
// returns the new value. Panics with [ErrTypeMismatch] if the tag
// doesn't match.
func (v *Value) IncrInt64(delta int64) int64 {
	if v.kind != valueKindInt64 {
		panic(ErrTypeMismatch)
	}
	n := int64(v.num) + delta
	v.num = uint64(n)
	return n
}

// IncrUint64 adds delta to a value previously set with [Uint64].
func (v *Value) IncrUint64(delta uint64) uint64 {
	if v.kind != valueKindUint64 {
		panic(ErrTypeMismatch)
	}
	v.num += delta
	return v.num
}

// IncrFloat64 adds delta to a value previously set with [Float64].
func (v *Value) IncrFloat64(delta float64) float64 {
	if v.kind != valueKindFloat64 {
		panic(ErrTypeMismatch)
	}
	f := math.Float64frombits(v.num) + delta
	v.num = math.Float64bits(f)
	return f
}
