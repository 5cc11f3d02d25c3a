// check.go -- 'check' command implementation
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

package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/opencoff/go-ptrhash"
	flag "github.com/opencoff/pflag"
)

type checkCommand struct{}

func init() {
	registerCommand("check", &checkCommand{})
}

func (c *checkCommand) run(args []string, opt *Option) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.SetOutput(os.Stdout)
	fs.Usage = func() {
		fmt.Printf(`Usage: check [options] INPUT

Re-solves INPUT (same format as 'gen') and verifies that the resulting
HashState satisfies every invariant the solver promises: a perfect,
injective, dense mapping with the documented parameter bounds.

options:
`)
		fs.PrintDefaults()
		os.Exit(0)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("check: need INPUT")
	}

	recs, err := readInput(rest[0])
	if err != nil {
		return fmt.Errorf("check: can't read %s: %w", rest[0], err)
	}

	keys := make([]ptrhash.StringKey, len(recs))
	for i, r := range recs {
		keys[i] = ptrhash.StringKey(r.key)
	}

	start := time.Now()
	hs := ptrhash.GenerateHash(keys)
	delta := time.Since(start)

	n := len(keys)
	if err := verify(hs, keys); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	fmt.Printf("OK: %d keys, %d buckets, %d slots, %d remap entries (%s)\n",
		n, hs.Buckets, hs.Slots, len(hs.Remap), delta.Truncate(time.Microsecond))
	return nil
}

// verify checks the documented parameter bounds, that Map is an
// injective, dense permutation of [0, N), that every key resolves
// through GetIndex back to its own position (perfect mapping), and the
// N==0 edge case.
func verify(hs ptrhash.HashState, keys []ptrhash.StringKey) error {
	n := len(keys)
	if n == 0 {
		if hs.Buckets != 0 || hs.Slots != 0 || len(hs.Pilots) != 0 || len(hs.Remap) != 0 || len(hs.Map) != 0 {
			return fmt.Errorf("empty input did not yield all-zero HashState")
		}
		return nil
	}

	wantBuckets := uint32(n+2) / 3
	if wantBuckets < 1 {
		wantBuckets = 1
	}
	if hs.Buckets != wantBuckets {
		return fmt.Errorf("bucket count %d != expected %d", hs.Buckets, wantBuckets)
	}

	target := int(math.Ceil(float64(n) / 0.85))
	if target < n {
		target = n
	}
	wantSlots := nextPow2(uint64(target))
	if uint64(hs.Slots) != wantSlots {
		return fmt.Errorf("slot count %d != expected %d", hs.Slots, wantSlots)
	}

	if len(hs.Pilots) != int(hs.Buckets) {
		return fmt.Errorf("pilot table length %d != bucket count %d", len(hs.Pilots), hs.Buckets)
	}

	wantRemap := 0
	if hs.Slots > uint32(n) {
		wantRemap = int(hs.Slots) - n
	}
	if len(hs.Remap) != wantRemap {
		return fmt.Errorf("remap table length %d != expected %d", len(hs.Remap), wantRemap)
	}

	if len(hs.Map) != n {
		return fmt.Errorf("map length %d != N %d", len(hs.Map), n)
	}

	seen := make([]bool, n)
	for i, entryIdx := range hs.Map {
		if entryIdx < 0 || entryIdx >= n {
			return fmt.Errorf("map[%d] = %d out of range [0, %d)", i, entryIdx, n)
		}
		if seen[entryIdx] {
			return fmt.Errorf("map is not injective: entry %d appears twice", entryIdx)
		}
		seen[entryIdx] = true
	}

	for i, k := range keys {
		h := ptrhash.DefaultHashFunc[ptrhash.StringKey](k, hs.Key)
		if idx := ptrhash.Lookup(&hs, h); hs.Map[idx] != i {
			return fmt.Errorf("key %d (%q) resolves to entry %d, not itself", i, string(k), hs.Map[idx])
		}
	}

	return nil
}

func nextPow2(n uint64) uint64 {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
