package dict

// tableHalf is one of the two bucket arrays a Dict owns.
type tableHalf struct {
	buckets []*handle
	exp     int8 // emptyExp when unallocated
	used    uint64
}

func (t *tableHalf) bucketCount() uint64 {
	if t.exp < 0 {
		return 0
	}
	return uint64(1) << uint(t.exp)
}

func (t *tableHalf) mask() uint64 {
	bc := t.bucketCount()
	if bc == 0 {
		return 0
	}
	return bc - 1
}

func (t *tableHalf) alloc(exp int8) {
	t.exp = exp
	t.buckets = make([]*handle, uint64(1)<<uint(exp))
	t.used = 0
}

func (t *tableHalf) reset() {
	t.buckets = nil
	t.exp = emptyExp
	t.used = 0
}

// Dict is a single-mutator, cooperatively-rehashed hash table.
//
// The zero value is not usable; construct with [New]. There is no internal
// locking: see the package doc's Concurrency section.
type Dict struct {
	desc *TypeDescriptor

	half [2]tableHalf

	// rehashIdx is the next T0 bucket awaiting migration, or -1 when no
	// rehash is in progress.
	rehashIdx int

	pauseRehash     int
	pauseAutoResize int

	initialExp       int8
	forceResizeRatio float64
	minFillDivisor   float64

	metadata []byte
}

// New creates a Dict bound to the given descriptor. Both table halves
// start unallocated (exp = emptyExp); the first insertion allocates T0 at
// [initialExp].
func New(td *TypeDescriptor) (*Dict, error) {
	if err := td.validate(); err != nil {
		return nil, err
	}

	d := &Dict{
		desc:             td,
		rehashIdx:        emptyExp,
		initialExp:       initialExp,
		forceResizeRatio: defaultForceResizeRatio,
		minFillDivisor:   defaultMinFillDivisor,
	}
	d.half[0].reset()
	d.half[1].reset()

	if td.DictMetadataBytes != nil {
		if n := td.DictMetadataBytes(); n > 0 {
			d.metadata = make([]byte, n)
		}
	}

	return d, nil
}

// SetInitialExp overrides the bucket-count exponent a table half starts
// at once it first allocates. The same exponent is also the lower bound
// for every later grow and shrink; see [pkg/dictconfig] for loading this
// from a tuning file.
func (d *Dict) SetInitialExp(exp int8) { d.initialExp = exp }

// SetForceResizeRatio overrides R, the used/capacity ratio that forces a
// grow even under the process-wide [ResizeAvoid] mode.
func (d *Dict) SetForceResizeRatio(r float64) { d.forceResizeRatio = r }

// SetMinFillDivisor overrides M, the divisor such that used*M <= capacity
// triggers a shrink.
func (d *Dict) SetMinFillDivisor(m float64) { d.minFillDivisor = m }

// Metadata returns the trailing metadata region declared by the
// descriptor's DictMetadataBytes callback, or nil if none was declared.
func (d *Dict) Metadata() []byte { return d.metadata }

// Size returns the logical number of entries across both table halves.
func (d *Dict) Size() uint64 { return d.half[0].used + d.half[1].used }

// IsRehashing reports whether an incremental resize is in progress.
func (d *Dict) IsRehashing() bool { return d.rehashIdx >= 0 }

// Buckets returns the bucket count of each half: (T0, T1). T1 is 0 when
// not rehashing.
func (d *Dict) Buckets() (t0, t1 uint64) {
	return d.half[0].bucketCount(), d.half[1].bucketCount()
}

// Empty clears the table back to its unallocated state. If cb is
// non-nil, it is invoked once per half before that half's buckets are
// dropped, receiving the half index (0 or 1).
func (d *Dict) Empty(cb func(half int)) {
	for i := range d.half {
		if cb != nil {
			cb(i)
		}
		d.destroyHalfEntries(i)
		d.half[i].reset()
	}
	d.rehashIdx = emptyExp
}

func (d *Dict) destroyHalfEntries(i int) {
	h := &d.half[i]
	for b := range h.buckets {
		for e := h.buckets[b]; e != nil; {
			next := e.next()
			d.destroyEntry(e)
			e = next
		}
		h.buckets[b] = nil
	}
}

func (d *Dict) destroyEntry(e *handle) {
	if e.kind != kindInlineKey && d.desc.DestroyKey != nil {
		d.desc.DestroyKey(e.getKey(d))
	}
	if e.hasValue() && d.desc.DestroyVal != nil {
		d.desc.DestroyVal(e.getVal())
	}
}
