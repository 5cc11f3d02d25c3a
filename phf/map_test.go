// map_test.go - tests for the Map/Set runtime containers
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

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo",
	"foxtrot", "golf", "hotel", "india", "juliet",
}

// buildMap constructs a Map the way generated code would: solve with the
// default hasher, then lay Entries out in dense-slot order via hs.Map.
func buildMap(t *testing.T, keys []ptrhash.StringKey, values []int) *Map[ptrhash.StringKey, int] {
	t.Helper()
	hs := ptrhash.GenerateHash(keys)

	entries := make([]Entry[ptrhash.StringKey, int], len(keys))
	for dense, orig := range hs.Map {
		entries[dense] = Entry[ptrhash.StringKey, int]{K: keys[orig], V: values[orig]}
	}

	return &Map[ptrhash.StringKey, int]{
		Key:     hs.Key,
		Buckets: hs.Buckets,
		Slots:   hs.Slots,
		Pilots:  hs.Pilots,
		Remap:   hs.Remap,
		Entries: entries,
	}
}

func TestMapGetAndContains(t *testing.T) {
	keys := make([]ptrhash.StringKey, len(words))
	values := make([]int, len(words))
	for i, w := range words {
		keys[i] = ptrhash.StringKey(w)
		values[i] = i * 10
	}

	m := buildMap(t, keys, values)

	if m.Len() != len(words) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(words))
	}

	for i, w := range words {
		v, ok := m.Get(ptrhash.StringKey(w))
		if !ok {
			t.Fatalf("Get(%q): not found", w)
		}
		if v != i*10 {
			t.Fatalf("Get(%q) = %d, want %d", w, v, i*10)
		}
		if !m.Contains(ptrhash.StringKey(w)) {
			t.Fatalf("Contains(%q) = false", w)
		}
	}

	if _, ok := m.Get(ptrhash.StringKey("not-present")); ok {
		t.Fatalf("Get(%q) unexpectedly found", "not-present")
	}
	if m.Contains(ptrhash.StringKey("not-present")) {
		t.Fatalf("Contains(%q) unexpectedly true", "not-present")
	}
}

func TestMapRangeVisitsEveryEntry(t *testing.T) {
	keys := make([]ptrhash.StringKey, len(words))
	values := make([]int, len(words))
	for i, w := range words {
		keys[i] = ptrhash.StringKey(w)
		values[i] = i
	}
	m := buildMap(t, keys, values)

	seen := make(map[string]bool, len(words))
	m.Range(func(k ptrhash.StringKey, v int) bool {
		seen[string(k)] = true
		return true
	})
	if len(seen) != len(words) {
		t.Fatalf("Range visited %d entries, want %d", len(seen), len(words))
	}

	var count int
	m.Range(func(k ptrhash.StringKey, v int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Range did not stop early on false: visited %d", count)
	}
}

func TestMapEmpty(t *testing.T) {
	m := &Map[ptrhash.StringKey, int]{}
	if m.Len() != 0 {
		t.Fatalf("empty Map.Len() != 0")
	}
	if _, ok := m.Get(ptrhash.StringKey("x")); ok {
		t.Fatalf("empty Map.Get found something")
	}
}

func TestSetContainsAndRange(t *testing.T) {
	keys := make([]ptrhash.StringKey, len(words))
	for i, w := range words {
		keys[i] = ptrhash.StringKey(w)
	}
	hs := ptrhash.GenerateHash(keys)

	entries := make([]Entry[ptrhash.StringKey, struct{}], len(keys))
	for dense, orig := range hs.Map {
		entries[dense] = Entry[ptrhash.StringKey, struct{}]{K: keys[orig], V: struct{}{}}
	}

	s := &Set[ptrhash.StringKey]{Map: Map[ptrhash.StringKey, struct{}]{
		Key:     hs.Key,
		Buckets: hs.Buckets,
		Slots:   hs.Slots,
		Pilots:  hs.Pilots,
		Remap:   hs.Remap,
		Entries: entries,
	}}

	for _, w := range words {
		if !s.Contains(ptrhash.StringKey(w)) {
			t.Fatalf("Set.Contains(%q) = false", w)
		}
	}
	if s.Contains(ptrhash.StringKey("zulu")) {
		t.Fatalf("Set.Contains(%q) unexpectedly true", "zulu")
	}

	seen := make(map[string]bool, len(words))
	s.Range(func(k ptrhash.StringKey) bool {
		seen[string(k)] = true
		return true
	})
	if len(seen) != len(words) {
		t.Fatalf("Set.Range visited %d, want %d", len(seen), len(words))
	}
}
