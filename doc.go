// doc.go - top level documentation
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

// Package ptrhash builds minimal perfect hash functions for a known, fixed
// set of keys at build time, using the "PtrHash" bucket-and-pilot
// algorithm: http://cmph.sourceforge.net/papers/esa09.pdf-adjacent family
// of constructions, but pilot-based rather than displacement-based.
//
// Given N distinct keys, GenerateHash produces a HashState: a seed, a
// bucket count, a slot count, a per-bucket pilot table and a small remap
// table. Combined with GetIndex, these parameters map every key to a
// unique slot in [0, N) with no runtime probing and no collisions.
//
// GenerateHash and GetIndex must agree bit-for-bit; everything downstream
// (the codegen package that formats a HashState as Go source, and the phf
// package that wraps the result in read-only Map/Set containers) is a
// thin consumer of the two.
//
// Construction is single-threaded, synchronous and deterministic: the
// same keys always produce the same HashState on any machine. Lookup is
// pure and safe for concurrent use from any number of goroutines.
package ptrhash
