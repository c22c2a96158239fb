package dict

import "time"

// startResize installs T1 with the new exponent and begins an
// incremental resize.
func (d *Dict) startResize(newExp int8) {
	d.half[1].alloc(newExp)
	d.rehashIdx = 0

	if d.desc.RehashingStarted != nil {
		d.desc.RehashingStarted(d)
	}

	if d.half[0].used == 0 {
		d.finishRehash()
		return
	}

	if d.desc.NoIncrementalRehash {
		for d.Rehash(1 << 20) {
			// migrate the whole table before returning
		}
	}
}

// finishRehash adopts T1 as T0 once every entry has migrated.
func (d *Dict) finishRehash() {
	d.half[0] = d.half[1]
	d.half[1].reset()
	d.rehashIdx = emptyExp

	if d.desc.RehashingCompleted != nil {
		d.desc.RehashingCompleted(d)
	}
}

// Rehash advances at most n populated T0 buckets into T1, but never
// scans more than 10*n empty buckets before yielding. It returns
// whether rehashing remains in progress.
func (d *Dict) Rehash(n int) bool {
	if !d.IsRehashing() {
		return false
	}

	emptyVisits := n * rehashEmptyScanFactor
	t0 := &d.half[0]

	for n > 0 && t0.used != 0 {
		for t0.buckets[uint64(d.rehashIdx)] == nil {
			d.rehashIdx++
			emptyVisits--
			if emptyVisits == 0 {
				return true
			}
		}

		d.rehashBucketAt(uint64(d.rehashIdx))
		d.rehashIdx++
		n--
	}

	if t0.used == 0 {
		d.finishRehash()
		return false
	}

	return true
}

// RehashMicroseconds repeatedly rehashes in chunks of rehashStepChunk
// buckets until the given microsecond budget elapses, and returns whether
// rehashing remains in progress.
func (d *Dict) RehashMicroseconds(us int64) bool {
	if !d.IsRehashing() {
		return false
	}

	deadline := time.Now().Add(time.Duration(us) * time.Microsecond)
	rehashing := true
	for rehashing && time.Now().Before(deadline) {
		rehashing = d.Rehash(rehashStepChunk)
	}
	return rehashing
}

// RehashingInfo returns the bucket counts of T0 and T1 while a resize is
// in progress, or (0, 0) otherwise.
func (d *Dict) RehashingInfo() (fromSize, toSize uint64) {
	if !d.IsRehashing() {
		return 0, 0
	}
	return d.half[0].bucketCount(), d.half[1].bucketCount()
}

// rehashBucketAt migrates every entry in T0[i] into T1, per the
// growing/shrinking destination rule.
func (d *Dict) rehashBucketAt(i uint64) {
	t0 := &d.half[0]
	t1 := &d.half[1]
	growing := t1.bucketCount() > t0.bucketCount()

	e := t0.buckets[i]
	var moved uint64
	for e != nil {
		next := e.next()

		var destIdx uint64
		if growing {
			destIdx = d.hashOf(e) & t1.mask()
		} else {
			destIdx = i & t1.mask()
		}

		d.relinkForRehash(e, t1, destIdx)
		moved++
		e = next
	}

	t0.buckets[i] = nil
	t0.used -= moved
	t1.used += moved
}

// relinkForRehash places e into t1's bucket destIdx, preserving the
// "inline key when possible" invariant for no-value/keys-are-odd tables.
func (d *Dict) relinkForRehash(e *handle, t1 *tableHalf, destIdx uint64) {
	if d.desc.NoValue && d.desc.KeysAreOdd {
		head := t1.buckets[destIdx]
		if head == nil {
			switch e.kind {
			case kindInlineKey:
				t1.buckets[destIdx] = e
				return
			case kindNoValue:
				t1.buckets[destIdx] = newInlineKeyHandle(e.getKey(d))
				return
			}
		}

		if e.kind == kindInlineKey {
			t1.buckets[destIdx] = newNoValueHandle(e.getKey(d), head)
			return
		}

		e.setNext(head)
		t1.buckets[destIdx] = e
		return
	}

	e.setNext(t1.buckets[destIdx])
	t1.buckets[destIdx] = e
}

// hashOf computes the hash of e's logical key.
func (d *Dict) hashOf(e *handle) uint64 {
	return d.desc.HashKey(e.getKey(d))
}

// PauseRehashing increments the rehash-pause counter; while positive, no
// lazy rehash step (the one taken by lookups, inserts, deletes and random
// sampling) runs. Direct calls to Rehash and RehashMicroseconds are not
// blocked by the counter. Safe iterators and scans call this on entry and
// ResumeRehashing on exit.
func (d *Dict) PauseRehashing() { d.pauseRehash++ }

// ResumeRehashing decrements the rehash-pause counter. It panics if the
// counter would go negative — a mismatched Pause/Resume pair.
func (d *Dict) ResumeRehashing() {
	d.pauseRehash--
	if d.pauseRehash < 0 {
		panic("dict: pauserehash decremented below zero")
	}
}

// rehashOnTouch is the lazy-rehash-on-touch policy: if idx0 (T0's
// bucket for the key about to be touched) is beyond the progress index
// and non-empty, rehash that bucket directly; otherwise advance the
// normal progress index by one bucket.
func (d *Dict) rehashOnTouch(idx0 uint64) {
	if !d.IsRehashing() || d.pauseRehash > 0 {
		return
	}

	if idx0 >= uint64(d.rehashIdx) && d.half[0].buckets[idx0] != nil {
		d.rehashBucketAt(idx0)
		if d.half[0].used == 0 {
			d.finishRehash()
		}
		return
	}

	d.Rehash(1)
}
