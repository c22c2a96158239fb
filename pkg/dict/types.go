package dict

// TypeDescriptor declares the callbacks and layout flags that bind a
// Dict to a particular key/value domain.
//
// The consistency rules below are checked once, in [New]:
//   - EmbeddedEntry implies EmbedKey and DecodeEmbeddedKey are both set,
//     and both KeyDup and DestroyKey are nil.
//   - EmbedKey / DecodeEmbeddedKey are only legal when EmbeddedEntry is set.
type TypeDescriptor struct {
	// HashKey computes the 64-bit hash of a key. Required.
	HashKey func(key any) uint64

	// KeysEqual reports whether two keys are equal. Required. The engine
	// always checks pointer/interface equality first and only calls
	// KeysEqual when that fast path misses.
	KeysEqual func(a, b any) bool

	// KeyDup, if set, is called to clone a key on insertion instead of
	// storing the caller's key value directly. Forbidden when
	// EmbeddedEntry is set.
	KeyDup func(key any) any

	// DestroyKey, if set, is called when an entry holding this key is
	// freed (delete or teardown). Forbidden when EmbeddedEntry is set.
	DestroyKey func(key any)

	// DestroyVal, if set, is called when an entry's value is discarded:
	// on delete, on teardown, and on Replace's overwrite of an old value.
	DestroyVal func(val Value)

	// ResizeAllowed, if set, may veto a grow or shrink given the
	// requested new byte size and the current load factor (used/capacity).
	ResizeAllowed func(newSizeBytes uint64, load float64) bool

	// RehashingStarted, if set, is invoked once when a resize begins.
	RehashingStarted func(d *Dict)

	// RehashingCompleted, if set, is invoked once when a resize finishes.
	RehashingCompleted func(d *Dict)

	// DictMetadataBytes, if set, declares the size in bytes of a trailing
	// metadata region the caller can use via [Dict.Metadata].
	DictMetadataBytes func() int

	// EmbedKey serializes key into dst (capacity cap) for the embedded
	// entry variant, returning the number of bytes needed (which may
	// exceed cap; the engine grows dst and calls again) and the header
	// length preceding the raw key bytes.
	EmbedKey func(dst []byte, cap int, key any) (neededLen int, hdrLen uint8)

	// DecodeEmbeddedKey recovers the logical key from a buffer previously
	// produced by EmbedKey, given the header length EmbedKey returned.
	DecodeEmbeddedKey func(buf []byte, hdrLen uint8) any

	// NoIncrementalRehash forces a newly scheduled resize to migrate the
	// whole table before the triggering call returns.
	NoIncrementalRehash bool

	// KeysAreOdd asserts that every key's pointer-shaped representation
	// has its least-significant bit set, enabling the zero-allocation
	// inline-key variant. Only meaningful alongside NoValue.
	KeysAreOdd bool

	// EmbeddedEntry selects the embedded physical layout.
	EmbeddedEntry bool

	// NoValue selects the no-value physical layout (and, combined with
	// KeysAreOdd, the inline-key fast path).
	NoValue bool
}

func (td *TypeDescriptor) validate() error {
	if td.HashKey == nil || td.KeysEqual == nil {
		return ErrInvalidDescriptor
	}
	if td.EmbeddedEntry {
		if td.EmbedKey == nil || td.DecodeEmbeddedKey == nil {
			return ErrInvalidDescriptor
		}
		if td.KeyDup != nil || td.DestroyKey != nil {
			return ErrInvalidDescriptor
		}
	} else if td.EmbedKey != nil || td.DecodeEmbeddedKey != nil {
		return ErrInvalidDescriptor
	}
	return nil
}

// ResizeMode selects the global {enable, avoid, forbid} resize policy.
// It is process-wide: a background fork/snapshot driver might flip it
// to ResizeAvoid to limit copy-on-write page dirtying, independent of
// any one Dict.
type ResizeMode uint8

const (
	ResizeEnable ResizeMode = iota
	ResizeAvoid
	ResizeForbid
)

var resizeMode = ResizeEnable

// SetResizeEnabled sets the process-wide resize policy.
func SetResizeEnabled(mode ResizeMode) { resizeMode = mode }

// GetResizeEnabled returns the process-wide resize policy.
func GetResizeEnabled() ResizeMode { return resizeMode }
