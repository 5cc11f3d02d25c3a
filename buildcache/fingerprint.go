// fingerprint.go -- content-addressing for cached HashStates
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

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a content digest of an ordered list of key byte
// slices, suitable as a Store lookup key. Order is significant: a
// HashState's Map field encodes input position, so two key lists that
// differ only in order must not collide.
func Fingerprint(keys [][]byte) uint64 {
	h := xxhash.New()

	var lenbuf [8]byte
	for _, k := range keys {
		binary.BigEndian.PutUint64(lenbuf[:], uint64(len(k)))
		h.Write(lenbuf[:])
		h.Write(k)
	}

	return h.Sum64()
}
