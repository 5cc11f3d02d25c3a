// ordered.go - the OrderedMap and OrderedSet runtime containers
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

// OrderedMap is a Map that additionally remembers insertion order.
// Entries is kept in insertion order; Idxs maps a dense slot back to
// its position in Entries, mirroring the solver's own Map field.
type OrderedMap[K Key, V any] struct {
	Key     ptrhash.HashKey
	Buckets uint32
	Slots   uint32
	Pilots  []uint16
	Remap   []uint32

	// Idxs[denseSlot] is the index into Entries for that slot.
	Idxs []int

	// Entries is kept in original insertion order.
	Entries []Entry[K, V]
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.Entries)
}

// Get returns the value for k and whether k is a member.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	var zero V
	if m.Buckets == 0 {
		return zero, false
	}

	h := ptrhash.DefaultHashFunc[K](k, m.Key)
	dense := ptrhash.GetIndex(h, m.Key, m.Buckets, m.Slots, m.Pilots, m.Remap, len(m.Entries))
	e := m.Entries[m.Idxs[dense]]
	if e.K != k {
		return zero, false
	}
	return e.V, true
}

// Contains reports whether k is a member of the map.
func (m *OrderedMap[K, V]) Contains(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Range calls fn for every entry in original insertion order. Iteration
// stops early if fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(k K, v V) bool) {
	for _, e := range m.Entries {
		if !fn(e.K, e.V) {
			return
		}
	}
}

// OrderedSet is an OrderedMap[K, struct{}] that also remembers
// insertion order.
type OrderedSet[K Key] struct {
	OrderedMap[K, struct{}]
}

// Contains reports whether k is a member of the set.
func (s *OrderedSet[K]) Contains(k K) bool {
	return s.OrderedMap.Contains(k)
}

// Range calls fn for every element in insertion order. Iteration stops
// early if fn returns false.
func (s *OrderedSet[K]) Range(fn func(k K) bool) {
	s.OrderedMap.Range(func(k K, _ struct{}) bool { return fn(k) })
}
