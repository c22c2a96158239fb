package dict_test

import (
	"testing"

	"github.com/kvfabric/dict/pkg/dict"
)

func newStringDict(t *testing.T) *dict.Dict {
	t.Helper()
	td := &dict.TypeDescriptor{
		HashKey:   func(k any) uint64 { return dict.HashBytes([]byte(k.(string))) },
		KeysEqual: func(a, b any) bool { return a.(string) == b.(string) },
	}
	d, err := dict.New(td)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d
}

func Test_Add_When_Key_Absent_Inserts_And_Reports_True(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	if !d.Add("alice", dict.Pointer("engineer")) {
		t.Fatalf("expected Add to report true for a fresh key")
	}
	if d.Size() != 1 {
		t.Fatalf("expected size 1, got %d", d.Size())
	}
}

func Test_Add_When_Key_Present_Reports_False_And_Leaves_Value(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	d.Add("alice", dict.Pointer("engineer"))
	if d.Add("alice", dict.Pointer("manager")) {
		t.Fatalf("expected Add to report false when key already exists")
	}

	v, ok := d.Find("alice")
	if !ok {
		t.Fatalf("expected alice to be found")
	}
	p, _ := v.AsPointer()
	if p != "engineer" {
		t.Fatalf("expected original value to survive a rejected Add, got %v", p)
	}
}

func Test_Find_When_Key_Absent_Reports_False(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	if _, ok := d.Find("nobody"); ok {
		t.Fatalf("expected Find to report false on an empty table")
	}

	d.Add("alice", dict.Pointer("engineer"))
	if _, ok := d.Find("bob"); ok {
		t.Fatalf("expected Find to report false for an absent key in a non-empty table")
	}
}

func Test_Replace_When_Key_Present_Overwrites_And_Reports_True(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	d.Add("alice", dict.Pointer("engineer"))

	if !d.Replace("alice", dict.Pointer("manager")) {
		t.Fatalf("expected Replace to report true for an existing key")
	}

	v, _ := d.Find("alice")
	p, _ := v.AsPointer()
	if p != "manager" {
		t.Fatalf("expected replaced value, got %v", p)
	}
}

func Test_Replace_When_Key_Absent_Inserts_And_Reports_False(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	if d.Replace("alice", dict.Pointer("engineer")) {
		t.Fatalf("expected Replace to report false for a fresh key")
	}
	if v, ok := d.Find("alice"); !ok {
		t.Fatalf("expected alice to exist after Replace")
	} else if p, _ := v.AsPointer(); p != "engineer" {
		t.Fatalf("expected inserted value, got %v", p)
	}
}

func Test_AddOrFind_When_Key_Present_Returns_Existing_Value(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	d.Add("alice", dict.Pointer("engineer"))

	v, existed := d.AddOrFind("alice")
	if !existed {
		t.Fatalf("expected AddOrFind to report existed=true")
	}
	p, _ := v.AsPointer()
	if p != "engineer" {
		t.Fatalf("expected existing value, got %v", p)
	}
}

func Test_AddOrFind_When_Key_Absent_Inserts_Zero_Value(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	v, existed := d.AddOrFind("alice")
	if existed {
		t.Fatalf("expected AddOrFind to report existed=false for a fresh key")
	}
	if _, ok := v.AsPointer(); !ok {
		t.Fatalf("expected zero Value to still report its pointer tag")
	}
	if d.Size() != 1 {
		t.Fatalf("expected size 1 after AddOrFind insert, got %d", d.Size())
	}
}

func Test_Delete_When_Key_Present_Removes_Entry_And_Reports_True(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	d.Add("alice", dict.Pointer("engineer"))

	if !d.Delete("alice") {
		t.Fatalf("expected Delete to report true for an existing key")
	}
	if d.Size() != 0 {
		t.Fatalf("expected size 0 after delete, got %d", d.Size())
	}
	if _, ok := d.Find("alice"); ok {
		t.Fatalf("expected alice to be gone after Delete")
	}
}

func Test_Delete_When_Key_Absent_Reports_False(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	if d.Delete("nobody") {
		t.Fatalf("expected Delete to report false on an empty table")
	}
}

func Test_TwoPhaseUnlink_Defers_Splice_Until_Free(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	d.Add("k", dict.Int64(42))
	d.Add("other", dict.Int64(1))

	u, ok := d.TwoPhaseUnlinkFind("k")
	if !ok {
		t.Fatalf("expected to find %q", "k")
	}

	// The entry is still logically part of the table until Free commits
	// the splice: Size is unchanged and Find still reports it present.
	if d.Size() != 2 {
		t.Fatalf("expected size to be unchanged before Free, got %d", d.Size())
	}
	if _, ok := d.Find("k"); !ok {
		t.Fatalf("expected %q to still be found before TwoPhaseUnlinkFree", "k")
	}

	got, _ := u.Value().AsInt64()
	if got != 42 {
		t.Fatalf("expected unlinked value 42, got %d", got)
	}

	d.TwoPhaseUnlinkFree(u)

	if d.Size() != 1 {
		t.Fatalf("expected size 1 after TwoPhaseUnlinkFree, got %d", d.Size())
	}
	if _, ok := d.Find("k"); ok {
		t.Fatalf("expected %q to be gone after TwoPhaseUnlinkFree", "k")
	}
	if _, ok := d.Find("other"); !ok {
		t.Fatalf("expected %q to survive unrelated unlink", "other")
	}
}

func Test_Dict_Survives_Many_Insertions_And_Deletions(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	const n = 2000

	for i := 0; i < n; i++ {
		k := keyFor(i)
		if !d.Add(k, dict.Int64(int64(i))) {
			t.Fatalf("unexpected duplicate key %q at insert %d", k, i)
		}
	}
	if d.Size() != n {
		t.Fatalf("expected size %d, got %d", n, d.Size())
	}

	for i := 0; i < n; i += 2 {
		if !d.Delete(keyFor(i)) {
			t.Fatalf("expected to delete %q", keyFor(i))
		}
	}
	if d.Size() != n/2 {
		t.Fatalf("expected size %d after deleting evens, got %d", n/2, d.Size())
	}

	for i := 0; i < n; i++ {
		v, ok := d.Find(keyFor(i))
		wantOK := i%2 == 1
		if ok != wantOK {
			t.Fatalf("key %q: expected present=%v, got %v", keyFor(i), wantOK, ok)
		}
		if ok {
			n64, _ := v.AsInt64()
			if n64 != int64(i) {
				t.Fatalf("key %q: expected value %d, got %d", keyFor(i), i, n64)
			}
		}
	}
}

func keyFor(i int) string {
	return "key-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
