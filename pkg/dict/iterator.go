package dict

import "unsafe"

// Iterator walks every entry of a Dict. There are two flavors, both
// created against a particular Dict:
//
//   - An unsafe iterator (NewIterator) does not pause rehashing; Release
//     panics if the table was structurally modified during iteration
//     (anything beyond Find/FetchValue) other than updating the value
//     already returned by the current entry. While a resize is in
//     progress, Find/FetchValue themselves take a lazy rehash step, which
//     counts as a structural modification.
//   - A safe iterator (NewSafeIterator) pauses rehashing for its
//     lifetime, so any mutation is allowed, at the cost of blocking
//     progress on an in-flight resize until Release.
//
// Neither flavor is safe for concurrent use with mutation from another
// goroutine; see the package doc's Concurrency section.
type Iterator struct {
	d    *Dict
	safe bool

	tableIdx int
	index    int64

	entry     *handle
	nextEntry *handle

	fingerprint uint64
}

func (d *Dict) newIterator(safe bool) *Iterator {
	return &Iterator{d: d, safe: safe, index: -1, tableIdx: 0}
}

// NewIterator returns an unsafe iterator over d.
func (d *Dict) NewIterator() *Iterator { return d.newIterator(false) }

// NewSafeIterator returns a safe (rehash-pausing) iterator over d.
func (d *Dict) NewSafeIterator() *Iterator { return d.newIterator(true) }

// Next advances the iterator and reports whether an entry is available.
// It must be called before the first Key/Value access.
func (it *Iterator) Next() bool {
	for {
		if it.entry == nil {
			t := &it.d.half[it.tableIdx]

			if it.index == -1 && it.tableIdx == 0 {
				if it.safe {
					it.d.PauseRehashing()
				} else {
					it.fingerprint = it.d.fingerprint()
				}
			}

			it.index++
			if uint64(it.index) >= t.bucketCount() {
				if it.d.IsRehashing() && it.tableIdx == 0 {
					it.tableIdx = 1
					it.index = 0
					t = &it.d.half[1]
				} else {
					break
				}
			}

			if uint64(it.index) < t.bucketCount() {
				it.entry = t.buckets[it.index]
			} else {
				it.entry = nil
			}
		} else {
			it.entry = it.nextEntry
		}

		if it.entry != nil {
			it.nextEntry = it.entry.next()
			return true
		}
	}
	return false
}

// Key returns the current entry's key. Valid only after Next returns true.
func (it *Iterator) Key() any { return it.entry.getKey(it.d) }

// Value returns the current entry's value. Valid only after Next returns true.
func (it *Iterator) Value() Value { return it.entry.getVal() }

// Release ends the iteration: a safe iterator resumes rehashing; an
// unsafe iterator panics if the table's structure changed since Next was
// first called. Always call Release, including on early break.
func (it *Iterator) Release() {
	if it.index == -1 {
		return
	}
	if it.safe {
		it.d.ResumeRehashing()
	} else if it.fingerprint != it.d.fingerprint() {
		panic(ErrIterationOrderViolated)
	}
}

// fingerprint checksums both halves' shape (bucket counts, used counts,
// and every bucket-head reference) so an unsafe iterator can detect that
// the table was rehashed or resized out from under it. The bucket-head
// pointers are mixed in only for their identity, never dereferenced here,
// so this holds no unsafe.Pointer beyond the scope of this call.
func (d *Dict) fingerprint() uint64 {
	var fp uint64 = 14695981039346656037
	mix := func(v uint64) {
		fp ^= v
		fp *= 1099511628211
	}
	for i := range d.half {
		t := &d.half[i]
		mix(t.bucketCount())
		mix(t.used)
		for _, b := range t.buckets {
			mix(uint64(uintptr(unsafe.Pointer(b))))
		}
	}
	return fp
}
