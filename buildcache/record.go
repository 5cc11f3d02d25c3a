// record.go -- on-disk encoding of a single cached ptrhash.HashState
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

package buildcache

import (
	"encoding/binary"
	"fmt"

	"github.com/opencoff/go-ptrhash"
)

// encodeHashState serializes a HashState to its wire form:
//
//	key      uint64 BE
//	buckets  uint32 BE
//	slots    uint32 BE
//	n        uint32 BE  (len(Map))
//	pilots   [buckets]uint16 BE
//	remap    [slots-n]uint32 BE (only present when slots > n)
//	mapping  [n]uint32 BE
func encodeHashState(hs ptrhash.HashState) []byte {
	n := hs.Len()
	remapLen := len(hs.Remap)

	sz := 8 + 4 + 4 + 4 + 2*int(hs.Buckets) + 4*remapLen + 4*n
	buf := make([]byte, sz)
	be := binary.BigEndian

	i := 0
	be.PutUint64(buf[i:i+8], hs.Key)
	i += 8
	be.PutUint32(buf[i:i+4], hs.Buckets)
	i += 4
	be.PutUint32(buf[i:i+4], hs.Slots)
	i += 4
	be.PutUint32(buf[i:i+4], uint32(n))
	i += 4

	for _, p := range hs.Pilots {
		be.PutUint16(buf[i:i+2], p)
		i += 2
	}
	for _, r := range hs.Remap {
		be.PutUint32(buf[i:i+4], r)
		i += 4
	}
	for _, m := range hs.Map {
		be.PutUint32(buf[i:i+4], uint32(m))
		i += 4
	}

	return buf
}

// decodeHashState is the inverse of encodeHashState.
func decodeHashState(buf []byte) (ptrhash.HashState, error) {
	var hs ptrhash.HashState

	if len(buf) < 20 {
		return hs, fmt.Errorf("%w: record too small", ErrCorrupt)
	}

	be := binary.BigEndian
	i := 0
	hs.Key = be.Uint64(buf[i : i+8])
	i += 8
	hs.Buckets = be.Uint32(buf[i : i+4])
	i += 4
	hs.Slots = be.Uint32(buf[i : i+4])
	i += 4
	n := int(be.Uint32(buf[i : i+4]))
	i += 4

	remapLen := 0
	if hs.Slots > uint32(n) {
		remapLen = int(hs.Slots) - n
	}

	want := i + 2*int(hs.Buckets) + 4*remapLen + 4*n
	if want != len(buf) {
		return hs, fmt.Errorf("%w: record length mismatch, exp %d saw %d", ErrCorrupt, want, len(buf))
	}

	hs.Pilots = make([]uint16, hs.Buckets)
	for k := range hs.Pilots {
		hs.Pilots[k] = be.Uint16(buf[i : i+2])
		i += 2
	}

	hs.Remap = make([]uint32, remapLen)
	for k := range hs.Remap {
		hs.Remap[k] = be.Uint32(buf[i : i+4])
		i += 4
	}

	hs.Map = make([]int, n)
	for k := range hs.Map {
		hs.Map[k] = int(be.Uint32(buf[i : i+4]))
		i += 4
	}

	return hs, nil
}
