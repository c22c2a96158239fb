package dict

// unlinkEntry locates key, detaches it from whichever table and bucket
// chain it lives in, and returns the bare entry without invoking any
// destroy callback. It is the shared core of Delete and the two-phase
// unlink operations.
func (d *Dict) unlinkEntry(key any) (removed *handle, half *tableHalf, ok bool) {
	if d.Size() == 0 {
		return nil, nil, false
	}

	h := d.desc.HashKey(key)
	idx0 := h & d.half[0].mask()
	d.rehashOnTouch(idx0)

	for ti := 0; ti < 2; ti++ {
		if ti == 0 && int64(idx0) < int64(d.rehashIdx) {
			continue
		}

		t := &d.half[ti]
		if t.bucketCount() > 0 {
			idx := h & t.mask()
			var prev *handle
			for e := t.buckets[idx]; e != nil; e = e.next() {
				ek := e.getKey(d)
				if sameRef(ek, key) || d.desc.KeysEqual(ek, key) {
					if prev == nil {
						t.buckets[idx] = e.next()
					} else {
						prev.setNext(e.next())
					}
					t.used--
					return e, t, true
				}
				prev = e
			}
		}

		if !d.IsRehashing() {
			break
		}
	}

	return nil, nil, false
}

// Delete removes key and destroys its entry, invoking the descriptor's
// DestroyKey/DestroyVal (dictDelete). It reports whether key was present.
func (d *Dict) Delete(key any) bool {
	e, _, ok := d.unlinkEntry(key)
	if !ok {
		return false
	}
	d.destroyEntry(e)
	d.maybeShrink()
	return true
}

// UnlinkedEntry is an entry detached from its table by Unlink, or located
// (but not yet detached) by TwoPhaseUnlinkFind. Its Key and Value remain
// valid until it is passed to FreeUnlinkedEntry or TwoPhaseUnlinkFree.
type UnlinkedEntry struct {
	d *Dict
	e *handle

	// half, bucketIdx, and prev locate e's backlink for a two-phase
	// unlink that hasn't spliced yet: prev == nil means e is its
	// bucket's head (half.buckets[bucketIdx] holds it directly),
	// otherwise prev.next() == e. Unused (half == nil) once Unlink has
	// already spliced e out immediately.
	half      *tableHalf
	bucketIdx uint64
	prev      *handle
}

// Key returns the unlinked entry's logical key.
func (u *UnlinkedEntry) Key() any { return u.e.getKey(u.d) }

// Value returns the unlinked entry's value.
func (u *UnlinkedEntry) Value() Value { return u.e.getVal() }

// Unlink removes key from the table without invoking DestroyKey/DestroyVal,
// handing the detached entry back so the caller can inspect it (or do
// something with its value outside of whatever lock guards the table)
// before destroying it with FreeUnlinkedEntry (dictUnlink).
func (d *Dict) Unlink(key any) (*UnlinkedEntry, bool) {
	e, _, ok := d.unlinkEntry(key)
	if !ok {
		return nil, false
	}
	return &UnlinkedEntry{d: d, e: e}, true
}

// FreeUnlinkedEntry destroys an entry previously detached by Unlink
// (dictFreeUnlinkedEntry).
func (d *Dict) FreeUnlinkedEntry(u *UnlinkedEntry) {
	d.destroyEntry(u.e)
	d.maybeShrink()
}

// TwoPhaseUnlinkFind locates key and returns its entry without splicing
// it out of the bucket chain, pausing rehashing until the matching
// TwoPhaseUnlinkFree call (dictTwoPhaseUnlinkFind). This lets the caller
// inspect the entry — and do other work that must not observe a bucket
// layout rehashing could otherwise change underneath it — before
// committing the deletion with TwoPhaseUnlinkFree, without a second
// lookup. The entry remains part of the table (Size is unchanged) until
// TwoPhaseUnlinkFree runs.
func (d *Dict) TwoPhaseUnlinkFind(key any) (*UnlinkedEntry, bool) {
	if d.Size() == 0 {
		return nil, false
	}

	h := d.desc.HashKey(key)
	idx0 := h & d.half[0].mask()
	d.rehashOnTouch(idx0)

	for ti := 0; ti < 2; ti++ {
		if ti == 0 && int64(idx0) < int64(d.rehashIdx) {
			continue
		}

		t := &d.half[ti]
		if t.bucketCount() > 0 {
			idx := h & t.mask()
			var prev *handle
			for e := t.buckets[idx]; e != nil; e = e.next() {
				ek := e.getKey(d)
				if sameRef(ek, key) || d.desc.KeysEqual(ek, key) {
					d.PauseRehashing()
					return &UnlinkedEntry{d: d, e: e, half: t, bucketIdx: idx, prev: prev}, true
				}
				prev = e
			}
		}

		if !d.IsRehashing() {
			break
		}
	}

	return nil, false
}

// TwoPhaseUnlinkFree splices the entry found by TwoPhaseUnlinkFind out of
// its bucket via the back-pointer slot TwoPhaseUnlinkFind recorded, runs
// destructors, decrements the table's count, evaluates the shrink
// trigger, and resumes rehashing (dictTwoPhaseUnlinkFree).
func (d *Dict) TwoPhaseUnlinkFree(u *UnlinkedEntry) {
	if u.prev == nil {
		u.half.buckets[u.bucketIdx] = u.e.next()
	} else {
		u.prev.setNext(u.e.next())
	}
	u.half.used--

	d.destroyEntry(u.e)
	d.ResumeRehashing()
	d.maybeShrink()
}
