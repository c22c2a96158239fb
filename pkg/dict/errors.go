package dict

import "errors"

// Sentinel errors returned by dict operations.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrInvalidDescriptor indicates a [TypeDescriptor] violates the
	// consistency rules checked at [New]: EmbeddedEntry requires EmbedKey
	// and forbids KeyDup/DestroyKey, and EmbedKey is only legal when
	// EmbeddedEntry is set.
	//
	// Recovery: fix the descriptor; this is a programming error.
	ErrInvalidDescriptor = errors.New("dict: invalid type descriptor")

	// ErrTypeMismatch is the panic value of a [Value] Incr* method called
	// on a value whose last-set union member is a different one. The As*
	// accessors report a mismatch through their bool result instead.
	//
	// Recovery: this is a programming error in the caller's value
	// convention; the tag is not tracked by the engine.
	ErrTypeMismatch = errors.New("dict: value type mismatch")

	// ErrIterationOrderViolated indicates an unsafe iterator (see
	// [Dict.NewIterator]) observed a structural mutation of the table
	// between its first call to [Iterator.Next] and [Iterator.Release].
	//
	// Recovery: this is a programming error — use [Dict.NewSafeIterator]
	// instead if the table must be mutated mid-iteration.
	ErrIterationOrderViolated = errors.New("dict: iterator fingerprint mismatch")

	// ErrNotRehashing describes the state in which no resize is in
	// progress. No function of this package returns it; [Dict.Rehash] and
	// [Dict.RehashMicroseconds] report that state by returning false.
	ErrNotRehashing = errors.New("dict: no rehash in progress")

	// ErrResizeRejected is not a failure: [Dict.Expand], [Dict.TryExpand],
	// and [Dict.Shrink] return it alongside a false result to report a
	// no-op (already at the requested size, a resize already in
	// progress, or the descriptor's ResizeAllowed callback vetoed it).
	ErrResizeRejected = errors.New("dict: resize rejected")
)
