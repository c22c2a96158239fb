package dict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvfabric/dict/pkg/dict"
)

func newTunedStringDict(t *testing.T, initialExp int8) *dict.Dict {
	t.Helper()
	d := newStringDict(t)
	d.SetInitialExp(initialExp)
	return d
}

func Test_Dict_Rehashes_Incrementally_When_Grow_Trigger_Fires(t *testing.T) {
	t.Parallel()

	d := newTunedStringDict(t, 2)
	const n = 500

	for i := 0; i < n; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}

	if d.IsRehashing() {
		t0, t1 := d.Buckets()
		require.NotZero(t, t1, "expected a second table half once a resize starts, t0=%d t1=%d", t0, t1)
	}

	for d.IsRehashing() {
		d.Rehash(16)
	}

	t0, t1 := d.Buckets()
	require.Zero(t, t1, "expected rehashing to finish and drop T1")
	require.Equal(t, uint64(n), d.Size())

	for i := 0; i < n; i++ {
		v, ok := d.Find(keyFor(i))
		require.True(t, ok, "key %q missing after rehash completed, t0 buckets=%d", keyFor(i), t0)
		got, _ := v.AsInt64()
		require.Equal(t, int64(i), got)
	}
}

func Test_Dict_Rehash_Reports_False_When_Not_Rehashing(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	if d.Rehash(10) {
		t.Fatalf("expected Rehash to report false on a table with no resize in progress")
	}
}

func Test_Dict_RehashMicroseconds_Drains_A_Pending_Resize(t *testing.T) {
	t.Parallel()

	d := newTunedStringDict(t, 2)
	const n = 2000
	for i := 0; i < n; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}

	for i := 0; i < 100 && d.IsRehashing(); i++ {
		d.RehashMicroseconds(2000)
	}

	require.False(t, d.IsRehashing(), "expected RehashMicroseconds to eventually drain the resize")
	require.Equal(t, uint64(n), d.Size())
}

func Test_PauseRehashing_Blocks_Lazy_Rehash_On_Touch(t *testing.T) {
	t.Parallel()

	// 513 inserts: the 513th finds T0 full at 512 buckets and starts a
	// resize to 1024, so a rehash is in progress when the inserts end.
	d := newTunedStringDict(t, 2)
	const n = 513
	for i := 0; i < n; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}
	if !d.IsRehashing() {
		t.Skip("no resize in progress at this table size; nothing to pause")
	}

	d.PauseRehashing()
	t0Before, t1Before := d.Buckets()
	for i := 0; i < n; i++ {
		d.Find(keyFor(i))
	}
	t0After, t1After := d.Buckets()
	require.Equal(t, t0Before, t0After, "bucket counts should be stable while rehashing is paused")
	require.Equal(t, t1Before, t1After, "bucket counts should be stable while rehashing is paused")
	d.ResumeRehashing()
}

func Test_ResumeRehashing_Panics_When_Not_Paused(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected ResumeRehashing to panic on an unmatched call")
		}
	}()
	d.ResumeRehashing()
}

func Test_Dict_Shrinks_After_Many_Deletions(t *testing.T) {
	t.Parallel()

	d := newTunedStringDict(t, 2)
	const n = 2000
	for i := 0; i < n; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}
	for d.IsRehashing() {
		d.Rehash(64)
	}
	t0Before, _ := d.Buckets()

	for i := 0; i < n-10; i++ {
		d.Delete(keyFor(i))
	}
	for d.IsRehashing() {
		d.Rehash(64)
	}

	t0After, _ := d.Buckets()
	require.Less(t, t0After, t0Before, "expected bucket count to shrink after most entries were deleted")
	require.Equal(t, uint64(10), d.Size())
}
