package dict_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvfabric/dict/pkg/dict"
)

func Test_RandomKey_On_Empty_Table_Reports_False(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	_, _, ok := d.RandomKey()
	require.False(t, ok)
}

func Test_RandomKey_Returns_A_Member_Of_The_Table(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	want := map[string]int64{}
	for i := 0; i < 100; i++ {
		k := keyFor(i)
		d.Add(k, dict.Int64(int64(i)))
		want[k] = int64(i)
	}

	for i := 0; i < 50; i++ {
		k, v, ok := d.RandomKey()
		require.True(t, ok)
		wantVal, present := want[k.(string)]
		require.True(t, present, "RandomKey returned a key not in the table: %v", k)
		got, _ := v.AsInt64()
		require.Equal(t, wantVal, got)
	}
}

func Test_SomeKeys_Returns_At_Most_Count_Distinct_Entries(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	want := map[string]bool{}
	for i := 0; i < 200; i++ {
		k := keyFor(i)
		d.Add(k, dict.Int64(int64(i)))
		want[k] = true
	}

	samples := d.SomeKeys(20)
	require.LessOrEqual(t, len(samples), 20)

	seen := map[string]bool{}
	for _, s := range samples {
		k := s.Key.(string)
		require.True(t, want[k], "SomeKeys returned a key not in the table: %v", k)
		require.False(t, seen[k], "SomeKeys returned duplicate key: %v", k)
		seen[k] = true
	}
}

func Test_SomeKeys_Caps_Count_At_Table_Size(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	for i := 0; i < 5; i++ {
		d.Add(keyFor(i), dict.Int64(int64(i)))
	}

	samples := d.SomeKeys(1000)
	require.Len(t, samples, 5)
}

func Test_SomeKeys_On_Empty_Table_Returns_Nothing(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	samples := d.SomeKeys(10)
	require.Empty(t, samples)
}

func Test_FairRandomKey_On_Empty_Table_Reports_False(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	_, _, ok := d.FairRandomKey()
	require.False(t, ok)
}

func Test_FairRandomKey_Returns_A_Member_Of_The_Table(t *testing.T) {
	t.Parallel()

	d := newStringDict(t)
	want := map[string]bool{}
	for i := 0; i < 100; i++ {
		k := keyFor(i)
		d.Add(k, dict.Int64(int64(i)))
		want[k] = true
	}

	for i := 0; i < 30; i++ {
		k, _, ok := d.FairRandomKey()
		require.True(t, ok)
		require.True(t, want[k.(string)], "FairRandomKey returned a key not in the table: %v", k)
	}
}
