package dict

// Hardcoded implementation limits and tunables.

const (
	// initialExp is the bucket-count exponent a freshly created or emptied
	// half starts at once it first allocates (bucket count 2^initialExp).
	initialExp = 2 // 2^2 = 4 buckets.

	// maxExp bounds the bucket-count exponent to the machine word size.
	maxExp = 63

	// emptyExp marks a half with no backing array ("empty/uninitialized").
	emptyExp = -1

	// defaultForceResizeRatio is R: used/capacity ratio that forces a grow
	// even when ResizeAvoid is in effect.
	defaultForceResizeRatio = 4.0

	// defaultMinFillDivisor is M: used*M <= capacity triggers a shrink.
	defaultMinFillDivisor = 8.0

	// fairSampleSize is the number of candidates FairRandomKey draws from.
	fairSampleSize = 15

	// someKeysWorkFactor bounds SomeKeys' total work at count*someKeysWorkFactor.
	someKeysWorkFactor = 10

	// rehashEmptyScanFactor bounds how many empty buckets a single Rehash(n)
	// call scans before yielding: up to 10*n.
	rehashEmptyScanFactor = 10

	// rehashStepChunk is the N passed to a single Rehash call by
	// RehashMicroseconds while it has budget remaining.
	rehashStepChunk = 100
)
