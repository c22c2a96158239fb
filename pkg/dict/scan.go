package dict

// ScanFunc is invoked once per visited entry during a Scan.
type ScanFunc func(privdata any, key any, val Value)

// ScanBucketFunc is invoked once per visited bucket, before its chain is
// walked, so a caller with its own auxiliary index into the table can
// note the bucket's position as ScanDefrag passes over it. This is a
// deliberately reduced stand-in for the original's bucket-entry
// relocation hooks (defragAlloc/defragKey/defragVal, which return new
// allocator addresses and rewrite bucket linkage) — Go's moving-less,
// non-relocating allocator gives entries a stable address for their
// whole lifetime, so there is nothing for a callback to relocate; see
// DESIGN.md.
type ScanBucketFunc func(d *Dict, half int, bucketIdx uint64)

// Scan visits a bounded slice of the table per call using a reverse
// binary iteration cursor, and returns the cursor to pass on the next
// call; 0 both starts and ends a full scan. Entries present for the
// whole scan are visited at least once; entries added or removed
// mid-scan may be visited zero, one, or more times. Rehashing is paused
// for the duration of the call.
func (d *Dict) Scan(cursor uint64, fn ScanFunc, privdata any) uint64 {
	return d.scan(cursor, fn, nil, privdata)
}

// ScanDefrag is Scan with an additional per-bucket hook, called with each
// visited bucket's position before that bucket's entries are reported.
func (d *Dict) ScanDefrag(cursor uint64, fn ScanFunc, bucketFn ScanBucketFunc, privdata any) uint64 {
	return d.scan(cursor, fn, bucketFn, privdata)
}

func (d *Dict) scan(cursor uint64, fn ScanFunc, bucketFn ScanBucketFunc, privdata any) uint64 {
	if d.Size() == 0 {
		return 0
	}

	d.PauseRehashing()
	defer d.ResumeRehashing()

	visit := func(t *tableHalf, idx uint64, half int) {
		if bucketFn != nil {
			bucketFn(d, half, idx)
		}
		for e := t.buckets[idx]; e != nil; {
			next := e.next()
			fn(privdata, e.getKey(d), e.getVal())
			e = next
		}
	}

	v := cursor

	if !d.IsRehashing() {
		t0 := &d.half[0]
		m0 := t0.mask()
		visit(t0, v&m0, 0)
		v |= ^m0
		v = revBits64(v)
		v++
		v = revBits64(v)
		return v
	}

	smallIdx, bigIdx := 0, 1
	if d.half[0].bucketCount() > d.half[1].bucketCount() {
		smallIdx, bigIdx = 1, 0
	}
	small := &d.half[smallIdx]
	big := &d.half[bigIdx]
	mSmall := small.mask()
	mBig := big.mask()

	visit(small, v&mSmall, smallIdx)
	for {
		visit(big, v&mBig, bigIdx)
		v |= ^mBig
		v = revBits64(v)
		v++
		v = revBits64(v)
		if v&(mSmall^mBig) == 0 {
			break
		}
	}

	return v
}

// revBits64 reverses the bits of v, used to carry the scan cursor's
// increment into its high bits first.
func revBits64(v uint64) uint64 {
	var r uint64
	for i := 0; i < 64; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}
