package dict

// locate triggers the lazy rehash-on-touch step for key's T0 bucket,
// then searches both tables for key. It returns the matching entry (nil
// if absent), the T0 bucket index, and the computed hash — all three
// are reused by callers that need to insert or delete at the same spot.
func (d *Dict) locate(key any) (found *handle, idx0, h uint64) {
	h = d.desc.HashKey(key)
	idx0 = h & d.half[0].mask()
	d.rehashOnTouch(idx0)

	for ti := 0; ti < 2; ti++ {
		if ti == 0 && int64(idx0) < int64(d.rehashIdx) {
			continue
		}

		t := &d.half[ti]
		if t.bucketCount() > 0 {
			idx := h & t.mask()
			for e := t.buckets[idx]; e != nil; e = e.next() {
				ek := e.getKey(d)
				if sameRef(ek, key) || d.desc.KeysEqual(ek, key) {
					return e, idx0, h
				}
			}
		}

		if !d.IsRehashing() {
			break
		}
	}

	return nil, idx0, h
}

// sameRef is the pointer/interface-identity fast path the chain walk
// tries before falling back to the descriptor's KeysEqual.
func sameRef(a, b any) bool {
	defer func() { recover() }() //nolint:errcheck // a, b may be uncomparable dynamic types
	return a == b
}

// Find looks up key and returns its value. For no-value tables the
// returned Value is the zero value; ok still reports presence.
func (d *Dict) Find(key any) (Value, bool) {
	if d.Size() == 0 {
		return Value{}, false
	}

	e, _, _ := d.locate(key)
	if e == nil {
		return Value{}, false
	}

	return e.getVal(), true
}

// FetchValue is a convenience over Find for pointer-typed values: it
// returns the wrapped pointer, or nil if absent or not pointer-tagged.
func (d *Dict) FetchValue(key any) (any, bool) {
	v, ok := d.Find(key)
	if !ok {
		return nil, false
	}
	p, _ := v.AsPointer()
	return p, true
}

// GetHash exposes the hash the engine would compute for key, without
// performing a lookup.
func (d *Dict) GetHash(key any) uint64 {
	return d.desc.HashKey(key)
}

// insertPosition names a bucket-head slot in whichever half insertions
// currently target, returned by findPositionForInsert for use by
// insertAtPosition.
type insertPosition struct {
	half *tableHalf
	idx  uint64
}

// findPositionForInsert locates the bucket a new key should be linked
// into, or reports that the key already exists via existing.
func (d *Dict) findPositionForInsert(key any) (pos insertPosition, existing *handle) {
	e, _, h := d.locate(key)
	if e != nil {
		return insertPosition{}, e
	}

	d.maybeGrow()

	target := &d.half[0]
	if d.IsRehashing() {
		target = &d.half[1]
	}

	return insertPosition{half: target, idx: h & target.mask()}, nil
}
