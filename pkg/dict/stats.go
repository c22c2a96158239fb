package dict

import (
	"fmt"
	"strings"
	"unsafe"
)

// statsVectorLen is the width of HalfStats.ChainLenHistogram; the last
// slot accumulates every chain length at or beyond it.
const statsVectorLen = 50

// HalfStats is a snapshot of one table half's bucket occupancy, used for
// diagnostics and capacity planning.
type HalfStats struct {
	BucketCount       uint64
	Used              uint64
	MaxChainLen       uint64
	TotalChainLen     uint64
	ChainLenHistogram [statsVectorLen]uint64
}

// GetStatsHt snapshots a single half (0 or 1).
func (d *Dict) GetStatsHt(half int) HalfStats {
	t := &d.half[half]

	var s HalfStats
	s.BucketCount = t.bucketCount()
	s.Used = t.used

	for _, b := range t.buckets {
		var chainLen uint64
		for e := b; e != nil; e = e.next() {
			chainLen++
		}
		if chainLen > s.MaxChainLen {
			s.MaxChainLen = chainLen
		}
		bucket := chainLen
		if bucket >= statsVectorLen {
			bucket = statsVectorLen - 1
		}
		s.ChainLenHistogram[bucket]++
		s.TotalChainLen += chainLen
	}

	return s
}

// GetStats snapshots both halves; the second is the zero value when the
// table is not rehashing.
func (d *Dict) GetStats() (t0, t1 HalfStats) {
	return d.GetStatsHt(0), d.GetStatsHt(1)
}

// CombineStats folds src into dst, for aggregating stats across several
// tables sharing one logical keyspace.
func CombineStats(dst *HalfStats, src *HalfStats) {
	dst.BucketCount += src.BucketCount
	dst.Used += src.Used
	dst.TotalChainLen += src.TotalChainLen
	if src.MaxChainLen > dst.MaxChainLen {
		dst.MaxChainLen = src.MaxChainLen
	}
	for i := range dst.ChainLenHistogram {
		dst.ChainLenHistogram[i] += src.ChainLenHistogram[i]
	}
}

// String renders a human-readable diagnostic report.
func (s HalfStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hash table stats:\n")
	fmt.Fprintf(&b, " table size: %d\n", s.BucketCount)
	fmt.Fprintf(&b, " number of elements: %d\n", s.Used)
	if s.BucketCount == 0 {
		return b.String()
	}

	occupied := s.BucketCount - s.ChainLenHistogram[0]
	fmt.Fprintf(&b, " different slots: %d\n", occupied)
	fmt.Fprintf(&b, " max chain length: %d\n", s.MaxChainLen)
	if occupied > 0 {
		fmt.Fprintf(&b, " avg chain length (counted): %.2f\n", float64(s.TotalChainLen)/float64(occupied))
	}
	fmt.Fprintf(&b, " avg chain length (computed): %.2f\n", float64(s.Used)/float64(s.BucketCount))

	for i, c := range s.ChainLenHistogram {
		if c == 0 {
			continue
		}
		fmt.Fprintf(&b, " Chain length %d: %d (%.2f%% of buckets)\n", i, c, 100*float64(c)/float64(s.BucketCount))
	}
	return b.String()
}

// MemUsage approximates the total bytes occupied by both bucket arrays
// and every live entry.
func (d *Dict) MemUsage() uint64 {
	var total uint64
	for i := range d.half {
		t := &d.half[i]
		total += t.bucketCount() * uint64(unsafe.Sizeof((*handle)(nil)))
		for _, b := range t.buckets {
			for e := b; e != nil; e = e.next() {
				total += uint64(unsafe.Sizeof(handle{})) + e.entryMemUsage()
			}
		}
	}
	return total
}

// EntryMemUsage returns the approximate allocator cost of key's entry,
// or 0 if key is absent.
func (d *Dict) EntryMemUsage(key any) uint64 {
	e, _, _ := d.locate(key)
	if e == nil {
		return 0
	}
	return uint64(unsafe.Sizeof(handle{})) + e.entryMemUsage()
}
