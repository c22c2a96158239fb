package dict

// embedKeyBuf serializes key via the descriptor's EmbedKey callback,
// growing the scratch buffer and retrying if the first call reports a
// larger size is needed.
func (d *Dict) embedKeyBuf(key any) ([]byte, uint8) {
	buf := make([]byte, 64)
	for {
		needed, hdrLen := d.desc.EmbedKey(buf, len(buf), key)
		if needed <= len(buf) {
			return buf[:needed], hdrLen
		}
		buf = make([]byte, needed)
	}
}

// linkNoValueOdd links newKey into bucket idx of t under the
// no-value/keys-are-odd policy: a bucket's first entry is stored inline
// (the handle IS the key); any entry added after that converts the
// existing head out of its inline form so the chain can grow.
func (d *Dict) linkNoValueOdd(t *tableHalf, idx uint64, newKey any) *handle {
	head := t.buckets[idx]
	if head == nil {
		e := newInlineKeyHandle(newKey)
		t.buckets[idx] = e
		return e
	}

	if head.kind == kindInlineKey {
		head = newNoValueHandle(head.getKey(d), nil)
	}

	e := newNoValueHandle(newKey, head)
	t.buckets[idx] = e
	return e
}

// insertAtPosition allocates the entry variant the descriptor calls for
// and links it as the new head of pos's bucket.
func (d *Dict) insertAtPosition(pos insertPosition, key any, val Value) *handle {
	t := pos.half
	idx := pos.idx

	if d.desc.KeyDup != nil {
		key = d.desc.KeyDup(key)
	}

	var e *handle
	switch {
	case d.desc.EmbeddedEntry:
		buf, hdrLen := d.embedKeyBuf(key)
		e = newEmbeddedHandle(buf, hdrLen, val, t.buckets[idx])
		t.buckets[idx] = e
	case d.desc.NoValue && d.desc.KeysAreOdd:
		e = d.linkNoValueOdd(t, idx, key)
	case d.desc.NoValue:
		e = newNoValueHandle(key, t.buckets[idx])
		t.buckets[idx] = e
	default:
		e = newNormalHandle(key, val, t.buckets[idx])
		t.buckets[idx] = e
	}

	t.used++
	return e
}

// Add inserts key with val if key is not already present. It reports
// whether the insert happened; the table is unchanged when key already
// existed.
func (d *Dict) Add(key any, val Value) bool {
	pos, existing := d.findPositionForInsert(key)
	if existing != nil {
		return false
	}
	d.insertAtPosition(pos, key, val)
	return true
}

// Replace inserts key with val, overwriting any existing value in
// place. It reports whether an existing entry was overwritten; false
// means a fresh entry was created.
func (d *Dict) Replace(key any, val Value) bool {
	pos, existing := d.findPositionForInsert(key)
	if existing != nil {
		old := existing.getVal()
		existing.setVal(val)
		if d.desc.DestroyVal != nil {
			d.desc.DestroyVal(old)
		}
		return true
	}
	d.insertAtPosition(pos, key, val)
	return false
}

// AddOrFind inserts key with the zero Value if it is absent, and returns
// the entry's value either way along with whether it already existed.
func (d *Dict) AddOrFind(key any) (val Value, existed bool) {
	pos, existing := d.findPositionForInsert(key)
	if existing != nil {
		return existing.getVal(), true
	}
	e := d.insertAtPosition(pos, key, Value{})
	return e.getVal(), false
}
