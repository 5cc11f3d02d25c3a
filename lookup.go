// lookup.go - the runtime query side of a solved HashState
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

package ptrhash

// GetIndex returns the slot a query key occupies in [0, n), given the
// PtrHashes computed against the same seed used to build the HashState.
// It is total: for a key not in the original set it still returns some
// index in [0, n); callers must re-check the stored key at that index to
// tell membership from a false positive.
//
// GetIndex is pure and safe to call from any number of goroutines
// concurrently against the same HashState.
func GetIndex(h PtrHashes, key HashKey, buckets, slots uint32, pilots []uint16, remap []uint32, n int) uint32 {
	if buckets == 0 {
		return 0
	}

	bucket := fastReduce(h.H1, buckets)
	pilot := pilots[bucket]
	slot := reducePow2(h.H2^mixPilot(pilot, key), slots)
	if slot < uint32(n) {
		return slot
	}
	return remap[slot-uint32(n)]
}

// Lookup is a convenience wrapper around GetIndex that reads its
// parameters directly from a HashState.
func Lookup(hs *HashState, h PtrHashes) uint32 {
	return GetIndex(h, hs.Key, hs.Buckets, hs.Slots, hs.Pilots, hs.Remap, len(hs.Map))
}
