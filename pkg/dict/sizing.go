package dict

// expForSize returns the smallest exponent e such that 2^e >= requested,
// clamped to [d.initialExp, maxExp].
func (d *Dict) expForSize(requested uint64) int8 {
	e := d.initialExp
	cap := uint64(1) << uint(e)
	for cap < requested && e < maxExp {
		e++
		cap <<= 1
	}
	return e
}

// shouldGrow evaluates the grow trigger: not already rehashing, and
// either (enable) used >= capacity, or (not forbid) used >= R*capacity.
func (d *Dict) shouldGrow() bool {
	if d.IsRehashing() || d.pauseAutoResize > 0 {
		return false
	}
	t0 := &d.half[0]
	cap := t0.bucketCount()
	if cap == 0 {
		return true
	}
	switch resizeMode {
	case ResizeEnable:
		return t0.used >= cap
	case ResizeForbid:
		return false
	default: // ResizeAvoid
		return float64(t0.used) >= d.forceResizeRatio*float64(cap)
	}
}

// shouldShrink evaluates the shrink trigger.
func (d *Dict) shouldShrink() bool {
	if d.IsRehashing() || d.pauseAutoResize > 0 {
		return false
	}
	t0 := &d.half[0]
	cap := t0.bucketCount()
	if cap == 0 || cap <= uint64(1)<<uint(d.initialExp) {
		return false
	}
	switch resizeMode {
	case ResizeEnable:
		return float64(t0.used)*d.minFillDivisor <= float64(cap)
	case ResizeForbid:
		return false
	default: // ResizeAvoid
		return float64(t0.used)*d.minFillDivisor*d.forceResizeRatio <= float64(cap)
	}
}

// resizeAllowed consults the descriptor's optional veto.
func (d *Dict) resizeAllowed(newBucketCount uint64) bool {
	if d.desc.ResizeAllowed == nil {
		return true
	}
	newBytes := newBucketCount * 8 // one pointer-sized bucket slot each
	used := d.Size()
	var load float64
	if cur := d.half[0].bucketCount(); cur > 0 {
		load = float64(used) / float64(cur)
	}
	return d.desc.ResizeAllowed(newBytes, load)
}

// maybeGrow triggers a resize to fit used+1 if the grow trigger fires
// and the descriptor doesn't veto it. Called from findPositionForInsert,
// before the new key is linked in.
func (d *Dict) maybeGrow() {
	if !d.shouldGrow() {
		return
	}
	target := d.half[0].used + 1
	newExp := d.expForSize(target)
	if !d.resizeAllowed(uint64(1) << uint(newExp)) {
		return
	}
	d.startResize(newExp)
}

// maybeShrink triggers a resize to fit used if the shrink trigger fires.
// Called after destructive operations.
func (d *Dict) maybeShrink() {
	if !d.shouldShrink() {
		return
	}
	target := d.half[0].used
	if target == 0 {
		target = 1
	}
	newExp := d.expForSize(target)
	if newExp >= d.half[0].exp {
		return
	}
	if !d.resizeAllowed(uint64(1) << uint(newExp)) {
		return
	}
	d.startResize(newExp)
}

// Expand requests a resize to hold at least n entries. It reports false
// with [ErrResizeRejected] as a no-op (not a failure) while rehashing, if
// n is smaller than the current size, or if n would not change capacity.
func (d *Dict) Expand(n uint64) (bool, error) {
	return d.expand(n, false)
}

// TryExpand is like Expand. Allocation failure aborts the process the
// same as anywhere else in Go, so TryExpand differs from Expand only in
// name — it exists to mirror callers that distinguish "must succeed"
// from "best effort" expansion requests.
func (d *Dict) TryExpand(n uint64) (bool, error) {
	return d.expand(n, false)
}

func (d *Dict) expand(n uint64, shrinking bool) (bool, error) {
	if d.IsRehashing() {
		return false, ErrResizeRejected
	}
	if !shrinking && n < d.half[0].used {
		return false, ErrResizeRejected
	}
	newExp := d.expForSize(n)
	if uint64(1)<<uint(newExp) == d.half[0].bucketCount() {
		return false, ErrResizeRejected
	}
	if !shrinking && uint64(1)<<uint(newExp) < d.half[0].bucketCount() {
		return false, ErrResizeRejected
	}
	if shrinking && uint64(1)<<uint(newExp) > d.half[0].bucketCount() {
		return false, ErrResizeRejected
	}
	if !d.resizeAllowed(uint64(1) << uint(newExp)) {
		return false, ErrResizeRejected
	}
	d.startResize(newExp)
	return true, nil
}

// Shrink requests a resize down to n entries worth of capacity. Reports
// false with [ErrResizeRejected] while rehashing, if n is smaller than
// the current size, or if n would not shrink the table.
func (d *Dict) Shrink(n uint64) (bool, error) {
	if n < d.half[0].used {
		return false, ErrResizeRejected
	}
	return d.expand(n, true)
}
