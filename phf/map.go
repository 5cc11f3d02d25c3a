// map.go - the Map and Set runtime containers
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

import "github.com/opencoff/go-ptrhash"

// Key is the constraint generated containers require of their key
// type: comparable (so a stored key can be re-checked against a query
// key) and ptrhash.Hashable (so the same hasher used at build time can
// be reapplied at lookup time).
type Key interface {
	comparable
	ptrhash.Hashable
}

// Entry pairs a key with its value in a Map's Entries table.
type Entry[K Key, V any] struct {
	K K
	V V
}

// Map is an immutable, perfect-hash-backed map from K to V. Generated
// code populates every field directly; callers only ever read through
// Get/Len/Range.
type Map[K Key, V any] struct {
	Key     ptrhash.HashKey
	Buckets uint32
	Slots   uint32
	Pilots  []uint16
	Remap   []uint32

	// Entries is indexed by dense slot: Entries[i] holds the key/value
	// pair GetIndex resolves to slot i.
	Entries []Entry[K, V]
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return len(m.Entries)
}

// Get returns the value associated with k, and whether k is actually a
// member -- GetIndex alone cannot tell a hit from a false-positive slot
// for a key outside the original set, so Get always re-checks the
// stored key.
func (m *Map[K, V]) Get(k K) (V, bool) {
	var zero V
	if m.Buckets == 0 {
		return zero, false
	}

	h := ptrhash.DefaultHashFunc[K](k, m.Key)
	idx := ptrhash.GetIndex(h, m.Key, m.Buckets, m.Slots, m.Pilots, m.Remap, len(m.Entries))
	e := m.Entries[idx]
	if e.K != k {
		return zero, false
	}
	return e.V, true
}

// Contains reports whether k is a member of the map.
func (m *Map[K, V]) Contains(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Range calls fn for every entry in dense-slot order (not insertion
// order -- see OrderedMap for that). Iteration stops early if fn
// returns false.
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for _, e := range m.Entries {
		if !fn(e.K, e.V) {
			return
		}
	}
}

// Set is an immutable, perfect-hash-backed set of K. It embeds a
// Map[K, struct{}] so generated code can build it as a single composite
// literal; Get/Len are promoted, Range is overridden below for the
// set-shaped signature.
type Set[K Key] struct {
	Map[K, struct{}]
}

// Contains reports whether k is a member of the set.
func (s *Set[K]) Contains(k K) bool {
	return s.Map.Contains(k)
}

// Range calls fn for every element in dense-slot order. Iteration
// stops early if fn returns false.
func (s *Set[K]) Range(fn func(k K) bool) {
	s.Map.Range(func(k K, _ struct{}) bool { return fn(k) })
}
