// solver.go - the PtrHash-style bucket-and-pilot construction
//
// Ported from the bucket/seed-search shape of chd.go's Compress Hash
// Displace builder (http://cmph.sourceforge.net/papers/esa09.pdf),
// replacing the hash-displacement core with the pilot-xor construction
// from the upstream PtrHash reference (see original_source/phf_generator
// in this repo's design notes).
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
	"math"
	"sort"
)

const (
	// defaultBucketSize is the target average number of keys per
	// bucket. Sub-linear bucket counts (avg 3 keys/bucket) give large
	// buckets the fewest valid pilots, so placing them first (see
	// trySolve below) prunes the search early.
	defaultBucketSize = 3

	// defaultAlpha bounds the load factor (keys / slots) so the
	// power-of-two slot table always has headroom for the pilot
	// search to succeed quickly.
	defaultAlpha = 0.85

	// maxPilotTries bounds a single bucket's pilot search within one
	// seed attempt. Exhausting it fails that seed, never the whole
	// construction -- see errSolveExhausted.
	maxPilotTries = 8191
)

// HashState is the solver's output and the lookup's input: a seed, a
// bucket count, a slot count, a per-bucket pilot table, a remap table and
// an index permutation (Map) from dense slot back to original input
// position. All fields are zero-valued/empty for N == 0.
type HashState struct {
	Key     HashKey
	Buckets uint32
	Slots   uint32
	Pilots  []uint16
	Remap   []uint32
	Map     []int
}

// Len returns the number of keys this HashState was built for.
func (hs *HashState) Len() int {
	return len(hs.Map)
}

// GenerateHash builds a HashState for entries using the default
// siphash-based hasher. Callers are responsible for entries being
// pairwise distinct by KeyBytes(); duplicate rejection is the emitter's
// job (see the codegen package), not the solver's.
func GenerateHash[T Hashable](entries []T) HashState {
	return GenerateHashWithHashFn(entries, DefaultHashFunc[T])
}

// GenerateHashWithHashFn builds a HashState using a caller-supplied
// hasher. hashFn must be pure and collision-equivalent to the default
// hasher for the resulting HashState's guarantees to hold: in
// particular, the same hashFn (or an equally pure, equally distributed
// one) must be used again at lookup time.
func GenerateHashWithHashFn[T any](entries []T, hashFn HashFunc[T]) HashState {
	n := len(entries)
	if n == 0 {
		return HashState{}
	}

	buckets := bucketCount(n)
	slots := slotCount(n)

	gen := newSeedGen()
	for {
		seed := gen.next()
		state, err := trySolve(entries, hashFn, seed, buckets, slots)
		if err == nil {
			return state
		}
		// err is always errSolveExhausted here: this seed failed on
		// some bucket. The seed loop is unbounded by design -- a
		// true failure across every seed indicates pathological
		// input or a hasher bug, not something to recover from here.
	}
}

// bucketCount returns B = max(1, ceil(n/3)).
func bucketCount(n int) uint32 {
	if n == 0 {
		return 0
	}
	b := (n + defaultBucketSize - 1) / defaultBucketSize
	if b < 1 {
		b = 1
	}
	return uint32(b)
}

// slotCount returns S = next_pow2(max(n, ceil(n/alpha))).
func slotCount(n int) uint32 {
	if n == 0 {
		return 0
	}
	target := int(math.Ceil(float64(n) / defaultAlpha))
	if target < n {
		target = n
	}
	return uint32(nextPow2(uint64(target)))
}

// trySolve attempts one full construction under a fixed seed. It returns
// errSolveExhausted if some bucket exhausted maxPilotTries, in which case
// the caller should retry with a new seed.
func trySolve[T any](entries []T, hashFn HashFunc[T], seed uint64, buckets, slots uint32) (HashState, error) {
	n := len(entries)

	hashes := make([]PtrHashes, n)
	bucketsVec := make([][]int, buckets)
	for i, e := range entries {
		h := hashFn(e, seed)
		hashes[i] = h
		b := fastReduce(h.H1, buckets)
		bucketsVec[b] = append(bucketsVec[b], i)
	}

	// Order buckets by descending population. Ties are broken
	// deterministically (stable ascending sort by population, then a
	// full reversal), matching the upstream PtrHash reference.
	order := make([]int, buckets)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(bucketsVec[order[i]]) < len(bucketsVec[order[j]])
	})
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	pilots := make([]uint16, buckets)

	slotsMap := make([]int, slots)
	for i := range slotsMap {
		slotsMap[i] = -1
	}

	// try_map is tagged with a monotone generation counter rather than
	// re-zeroed on every pilot trial: a stale tag is implicitly
	// invalid, halving the inner loop's memory traffic for large
	// tables.
	tryMap := make([]uint64, slots)
	var generation uint64

	pending := make([][2]int, 0, 8)

bucketLoop:
	for _, b := range order {
		keys := bucketsVec[b]
		if len(keys) == 0 {
			continue
		}

		for pilot := uint32(0); pilot <= maxPilotTries; pilot++ {
			generation++
			pending = pending[:0]
			failed := false

			for _, keyIdx := range keys {
				slot := reducePow2(hashes[keyIdx].H2^mixPilot(uint16(pilot), seed), slots)
				if slotsMap[slot] != -1 || tryMap[slot] == generation {
					failed = true
					break
				}
				tryMap[slot] = generation
				pending = append(pending, [2]int{int(slot), keyIdx})
			}

			if failed {
				continue
			}

			pilots[b] = uint16(pilot)
			for _, p := range pending {
				slotsMap[p[0]] = p[1]
			}
			continue bucketLoop
		}

		// every pilot in [0, maxPilotTries] collided for this
		// bucket: this seed is a dead end.
		return HashState{}, errSolveExhausted
	}

	remap, mp := buildRemapAndMap(slotsMap, n)

	return HashState{
		Key:     seed,
		Buckets: buckets,
		Slots:   slots,
		Pilots:  pilots,
		Remap:   remap,
		Map:     mp,
	}, nil
}

// buildRemapAndMap turns the scattered slotsMap (N assignments across S
// slots) into the dense [0,N) contract the lookup function and
// containers need.
//
// remap[i] is only ever written for overflow slots (>= N) that are
// actually assigned; unassigned overflow slots keep the zero value. Zero
// is itself a valid dense index, so a query that happens to land on an
// unassigned overflow slot resolves to dense slot 0 -- harmless, since
// callers must always re-check the stored key at the returned index.
func buildRemapAndMap(slotsMap []int, n int) ([]uint32, []int) {
	slots := len(slotsMap)

	used := make([]bool, n)
	for s := 0; s < n && s < slots; s++ {
		if slotsMap[s] != -1 {
			used[s] = true
		}
	}

	free := make([]int, 0, n)
	for i, u := range used {
		if !u {
			free = append(free, i)
		}
	}

	remapLen := 0
	if slots > n {
		remapLen = slots - n
	}
	remap := make([]uint32, remapLen)

	freeIdx := 0
	for s := n; s < slots; s++ {
		if slotsMap[s] == -1 {
			continue
		}
		if freeIdx < len(free) {
			remap[s-n] = uint32(free[freeIdx])
			freeIdx++
		}
	}

	mp := make([]int, n)
	filled := make([]bool, n)
	for s := 0; s < slots; s++ {
		entryIdx := slotsMap[s]
		if entryIdx == -1 {
			continue
		}

		dense := uint32(s)
		if s >= n {
			dense = remap[s-n]
		}
		mp[dense] = entryIdx
		filled[dense] = true
	}

	for _, f := range filled {
		if !f {
			panic(errMapNotDense)
		}
	}

	return remap, mp
}
