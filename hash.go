// hash.go - the shared hasher contract for the solver and the lookup
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

import (
	"encoding/binary"
	"math/bits"

	"github.com/dchest/siphash"
	"github.com/gtank/blake2/blake2b"
)

// HashKey is the 64-bit seed chosen by the solver and threaded through
// every hash computed against a given HashState.
type HashKey = uint64

// PtrHashes is the only per-key data retained while solving: two 64-bit
// lanes, treated as uniform and independent by the rest of the system.
type PtrHashes struct {
	H1 uint64
	H2 uint64
}

// HashFunc computes PtrHashes for a single entry under a given seed. It
// must be pure (same entry+seed always yields the same result) and
// collision-equivalent to the default hasher for the solver's guarantees
// to hold: GenerateHashWithHashFn trusts the caller on this.
type HashFunc[T any] func(entry T, seed HashKey) PtrHashes

// Hashable is the trait/hash plumbing contract: any key type that can
// supply a deterministic byte-oriented hashing operation can be fed to
// the default hasher. The solver does no duplicate rejection; keys whose
// KeyBytes are identical hash identically and cannot be told apart.
type Hashable interface {
	KeyBytes() []byte
}

// DefaultHashFunc is the hasher used by GenerateHash: a keyed siphash-2-4
// construction (github.com/dchest/siphash) computing two independent
// lanes per key. Both lanes are derived from the same key bytes, with the
// 128-bit siphash key set to (0, seed) for h1 and (seed, 0) for h2, so
// h1 and h2 behave as
// decorrelated 64-bit hashes even though they share one underlying
// primitive.
func DefaultHashFunc[T Hashable](entry T, seed HashKey) PtrHashes {
	return hashKeyBytes(entry.KeyBytes(), seed)
}

func hashKeyBytes(b []byte, seed uint64) PtrHashes {
	return PtrHashes{
		H1: siphash.Hash(0, seed, b),
		H2: siphash.Hash(seed, 0, b),
	}
}

// Blake2HashFunc is an alternate hasher built on github.com/gtank/blake2's
// blake2b implementation. It demonstrates the alternate hash function
// hook: downstream containers may pre-digest keys with a different
// primitive as long as the result is fed through GenerateHashWithHashFn
// and the matching call to GetIndex consistently. The 16-byte blake2b
// digest (keyed with the seed) is split into two 64-bit halves.
func Blake2HashFunc[T Hashable](entry T, seed HashKey) PtrHashes {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], seed)

	d, err := blake2b.NewDigest(key[:], nil, nil, 16)
	if err != nil {
		// NewDigest only fails for out-of-range parameters; our
		// arguments are fixed and always in range.
		panic("ptrhash: blake2 hook misconfigured: " + err.Error())
	}

	d.Write(entry.KeyBytes())
	sum := d.Sum(nil)

	return PtrHashes{
		H1: binary.BigEndian.Uint64(sum[0:8]),
		H2: binary.BigEndian.Uint64(sum[8:16]),
	}
}

// splitmix64 is the integer mixer used both to perturb a bucket's pilot
// trial (mixPilot) and to drive the solver's deterministic seed
// generator (see seedGen in utils.go). It must match bit-for-bit between every
// caller.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// mixPilot perturbs h2 with a per-bucket pilot value so successive pilot
// trials land the bucket's keys on different candidate slots.
func mixPilot(pilot uint16, seed uint64) uint64 {
	return splitmix64(seed ^ uint64(pilot))
}

// fastReduce maps a 64-bit hash into [0, n) without bias, using 128-bit
// widening multiplication. Used to place a key into one of B buckets.
func fastReduce(hash uint64, n uint32) uint32 {
	hi, _ := bits.Mul64(hash, uint64(n))
	return uint32(hi)
}

// reducePow2 maps a 64-bit hash into [0, n) by masking the low bits. n
// must be a power of two; used to place a key into one of S slots.
func reducePow2(hash uint64, n uint32) uint32 {
	return uint32(hash) & (n - 1)
}
