// Package dict implements the in-memory hash-table engine used as the
// primary associative-container primitive in this module: lookup,
// insertion, replacement, deletion, unordered iteration, stateless
// cursor-based scanning, random sampling, and online incremental resizing.
//
// # Basic usage
//
//	td := &dict.TypeDescriptor{
//	    HashKey:   func(k any) uint64 { return dict.HashBytes([]byte(k.(string))) },
//	    KeysEqual: func(a, b any) bool { return a.(string) == b.(string) },
//	}
//	d, err := dict.New(td)
//
//	d.Add("alice", dict.Pointer("engineer"))
//	v, ok := d.Find("alice")
//	d.Delete("alice")
//
// # Concurrency
//
// A Dict is single-threaded cooperative: it is driven from one mutator
// goroutine, with background callers optionally invoking [Dict.Rehash] or
// [Dict.RehashMicroseconds] directly to advance an in-progress resize.
// There is no internal locking and no support for concurrent mutators.
// The only structural
// rule is that destructor callbacks supplied on [TypeDescriptor] must not
// re-enter the same Dict.
//
// # Error handling
//
// Lookup/insert/delete results that are part of normal operation (key not
// found, key already present, resize not performed) are communicated with
// booleans, not errors. [ErrInvalidDescriptor] and [ErrTypeMismatch] report
// programming errors in descriptor construction or value-union usage.
// [ErrIterationOrderViolated] reports an unsafe iterator observing a
// structural mutation between its first call to [Iterator.Next] and
// [Iterator.Release].
package dict
