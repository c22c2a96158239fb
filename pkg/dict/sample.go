package dict

import "math/rand/v2"

// Sample pairs a key and value returned by SomeKeys or FairRandomKey.
type Sample struct {
	Key any
	Val Value
}

// RandomKey returns a random entry. Because it samples a bucket and
// then a position within that bucket's chain,
// entries in longer chains are no more likely to be returned than
// entries in short ones — but buckets themselves are not chosen in
// proportion to their chain length, so this is biased toward entries in
// sparsely populated buckets; see FairRandomKey for an unbiased
// alternative. One lazy rehash step is taken first if rehashing.
func (d *Dict) RandomKey() (any, Value, bool) {
	if d.Size() == 0 {
		return nil, Value{}, false
	}
	if d.IsRehashing() && d.pauseRehash == 0 {
		d.Rehash(1)
	}

	var e *handle
	if d.IsRehashing() {
		t0 := &d.half[0]
		t1 := &d.half[1]
		span := t0.bucketCount() + t1.bucketCount() - uint64(d.rehashIdx)
		for e == nil {
			h := uint64(d.rehashIdx) + rand.Uint64N(span)
			if h >= t0.bucketCount() {
				e = t1.buckets[h-t0.bucketCount()]
			} else {
				e = t0.buckets[h]
			}
		}
	} else {
		t0 := &d.half[0]
		m := t0.mask()
		for e == nil {
			h := rand.Uint64() & m
			e = t0.buckets[h]
		}
	}

	listLen := 0
	for o := e; o != nil; o = o.next() {
		listLen++
	}
	skip := rand.IntN(listLen)
	for ; skip > 0; skip-- {
		e = e.next()
	}
	return e.getKey(d), e.getVal(), true
}

// SomeKeys fills up to count samples using a single scan over the
// table's physical layout rather than repeated independent RandomKey
// calls, bounded to count*someKeysWorkFactor probe steps so a sparse
// table cannot make the caller spin. The returned count may be less
// than requested.
func (d *Dict) SomeKeys(count int) []Sample {
	size := int(d.Size())
	if count > size {
		count = size
	}
	if count == 0 {
		return nil
	}

	for j := 0; j < count && d.pauseRehash == 0; j++ {
		d.Rehash(1)
	}

	tables := 1
	if d.IsRehashing() {
		tables = 2
	}

	maxsizemask := d.half[0].mask()
	if tables > 1 && d.half[1].mask() > maxsizemask {
		maxsizemask = d.half[1].mask()
	}

	i := rand.Uint64() & maxsizemask
	var emptylen uint64
	maxsteps := count * someKeysWorkFactor
	out := make([]Sample, count)
	var stored int

	for stored < count && maxsteps > 0 {
		maxsteps--
		for j := 0; j < tables; j++ {
			if tables == 2 && j == 0 && i < uint64(d.rehashIdx) {
				if i >= d.half[1].bucketCount() {
					i = uint64(d.rehashIdx)
				} else {
					continue
				}
			}
			if i >= d.half[j].bucketCount() {
				continue
			}

			e := d.half[j].buckets[i]
			if e == nil {
				emptylen++
				if emptylen >= 5 && emptylen > uint64(count) {
					i = rand.Uint64() & maxsizemask
					emptylen = 0
				}
			} else {
				emptylen = 0
				// Reservoir-sample within the chain so the tail of a long
				// chain is never unreachable once count has been reached;
				// every entry in the chain is still walked.
				for e != nil {
					sample := Sample{Key: e.getKey(d), Val: e.getVal()}
					if stored < count {
						out[stored] = sample
					} else if r := rand.IntN(stored + 1); r < count {
						out[r] = sample
					}
					e = e.next()
					stored++
				}
				if stored >= count {
					return out
				}
			}
		}
		i = (i + 1) & maxsizemask
	}
	if stored < count {
		return out[:stored]
	}
	return out
}

// FairRandomKey returns a random entry sampled without RandomKey's bias
// toward sparsely populated buckets: it draws fairSampleSize candidates
// via SomeKeys and picks uniformly among them.
func (d *Dict) FairRandomKey() (any, Value, bool) {
	samples := d.SomeKeys(fairSampleSize)
	if len(samples) == 0 {
		return nil, Value{}, false
	}
	s := samples[rand.IntN(len(samples))]
	return s.Key, s.Val, true
}
