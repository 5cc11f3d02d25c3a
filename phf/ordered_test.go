// ordered_test.go - tests for the OrderedMap/OrderedSet runtime containers
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package phf

import (
	"testing"

	"github.com/opencoff/go-ptrhash"
)

func buildOrderedMap(t *testing.T, keys []ptrhash.StringKey, values []int) *OrderedMap[ptrhash.StringKey, int] {
	t.Helper()
	hs := ptrhash.GenerateHash(keys)

	entries := make([]Entry[ptrhash.StringKey, int], len(keys))
	for i, k := range keys {
		entries[i] = Entry[ptrhash.StringKey, int]{K: k, V: values[i]}
	}

	return &OrderedMap[ptrhash.StringKey, int]{
		Key:     hs.Key,
		Buckets: hs.Buckets,
		Slots:   hs.Slots,
		Pilots:  hs.Pilots,
		Remap:   hs.Remap,
		Idxs:    hs.Map,
		Entries: entries,
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	order := []string{"z", "a", "m", "b"}
	keys := make([]ptrhash.StringKey, len(order))
	values := make([]int, len(order))
	for i, w := range order {
		keys[i] = ptrhash.StringKey(w)
		values[i] = i
	}

	m := buildOrderedMap(t, keys, values)

	var got []string
	m.Range(func(k ptrhash.StringKey, v int) bool {
		got = append(got, string(k))
		return true
	})

	if len(got) != len(order) {
		t.Fatalf("Range produced %d entries, want %d", len(got), len(order))
	}
	for i, w := range order {
		if got[i] != w {
			t.Fatalf("Range order[%d] = %q, want %q (insertion order not preserved)", i, got[i], w)
		}
	}
}

func TestOrderedMapGet(t *testing.T) {
	order := []string{"z", "a", "m"}
	keys := make([]ptrhash.StringKey, len(order))
	values := make([]int, len(order))
	for i, w := range order {
		keys[i] = ptrhash.StringKey(w)
		values[i] = i * 100
	}
	m := buildOrderedMap(t, keys, values)

	for i, w := range order {
		v, ok := m.Get(ptrhash.StringKey(w))
		if !ok || v != i*100 {
			t.Fatalf("Get(%q) = (%d, %v), want (%d, true)", w, v, ok, i*100)
		}
	}
	if _, ok := m.Get(ptrhash.StringKey("q")); ok {
		t.Fatalf("Get(%q) unexpectedly found", "q")
	}
}

func TestOrderedSetPreservesInsertionOrder(t *testing.T) {
	order := []string{"z", "a", "m"}
	keys := make([]ptrhash.StringKey, len(order))
	for i, w := range order {
		keys[i] = ptrhash.StringKey(w)
	}
	hs := ptrhash.GenerateHash(keys)

	entries := make([]Entry[ptrhash.StringKey, struct{}], len(keys))
	for i, k := range keys {
		entries[i] = Entry[ptrhash.StringKey, struct{}]{K: k, V: struct{}{}}
	}

	s := &OrderedSet[ptrhash.StringKey]{OrderedMap: OrderedMap[ptrhash.StringKey, struct{}]{
		Key:     hs.Key,
		Buckets: hs.Buckets,
		Slots:   hs.Slots,
		Pilots:  hs.Pilots,
		Remap:   hs.Remap,
		Idxs:    hs.Map,
		Entries: entries,
	}}

	var got []string
	s.Range(func(k ptrhash.StringKey) bool {
		got = append(got, string(k))
		return true
	})
	for i, w := range order {
		if got[i] != w {
			t.Fatalf("OrderedSet.Range order[%d] = %q, want %q", i, got[i], w)
		}
	}
	for _, w := range order {
		if !s.Contains(ptrhash.StringKey(w)) {
			t.Fatalf("OrderedSet.Contains(%q) = false", w)
		}
	}
}
