package dict_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kvfabric/dict/pkg/dict"
)

func Test_Scan_Visits_Every_Stable_Entry_Exactly_Once(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	const n = 300
	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		k := keyFor(i)
		d.Add(k, dict.Int64(int64(i)))
		want = append(want, k)
	}
	sort.Strings(want)

	var got []string
	var cursor uint64
	first := true
	for first || cursor != 0 {
		first = false
		cursor = d.Scan(cursor, func(_ any, key any, _ dict.Value) {
			got = append(got, key.(string))
		}, nil)
	}
	sort.Strings(got)

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("scan did not visit exactly the stable key set (-want +got):\n%s", diff)
	}
}

func Test_Scan_Continues_Across_A_Rehash_In_Progress(t *testing.T) {
	t.Parallel()

	// Mirrors scenario S3: start scanning, then insert between cursor
	// calls so growth triggers resizes mid-scan, instead of relying on
	// (and skipping without) a rehash already being in progress once the
	// initial population finishes. Inserting stops after growSteps calls:
	// a scan covers one small-table bucket per call, so a table that kept
	// growing by 10 keys a call would never let the cursor return to 0.
	d := newStringDict(t)
	d.SetInitialExp(2)
	const initial = 1000
	keySet := make(map[string]bool, initial)
	for i := 0; i < initial; i++ {
		k := keyFor(i)
		d.Add(k, dict.Int64(int64(i)))
		keySet[k] = true
	}

	seen := make(map[string]bool, initial)
	var cursor uint64
	sawRehashing := false
	next := initial
	const growSteps = 200
	for first, steps := true, 0; (first || cursor != 0) && steps < 10000; steps++ {
		first = false
		cursor = d.Scan(cursor, func(_ any, key any, _ dict.Value) {
			seen[key.(string)] = true
		}, nil)
		if d.IsRehashing() {
			sawRehashing = true
		}
		for j := 0; j < 10 && steps < growSteps; j++ {
			d.Add(keyFor(next), dict.Int64(int64(next)))
			next++
		}
	}

	if !sawRehashing {
		t.Fatalf("expected the scan to observe a rehash in progress at least once")
	}
	for k := range keySet {
		if !seen[k] {
			t.Fatalf("key %q present for the entire scan was never visited", k)
		}
	}
}

func Test_Scan_On_Empty_Table_Returns_Zero_Immediately(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	var visited int
	cursor := d.Scan(0, func(_ any, _ any, _ dict.Value) { visited++ }, nil)
	if cursor != 0 {
		t.Fatalf("expected cursor 0 on an empty table, got %d", cursor)
	}
	if visited != 0 {
		t.Fatalf("expected no entries visited on an empty table, got %d", visited)
	}
}

func Test_ScanDefrag_Invokes_BucketFn_For_Every_Visited_Bucket(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	for i := 0; i < 50; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}

	var bucketVisits, entryVisits int
	var cursor uint64
	first := true
	for first || cursor != 0 {
		first = false
		cursor = d.ScanDefrag(cursor, func(_ any, _ any, _ dict.Value) {
			entryVisits++
		}, func(_ *dict.Dict, _ int, _ uint64) {
			bucketVisits++
		}, nil)
	}

	if bucketVisits == 0 {
		t.Fatalf("expected ScanDefrag's bucket hook to fire at least once")
	}
	if entryVisits != 50 {
		t.Fatalf("expected 50 entry visits, got %d", entryVisits)
	}
}
