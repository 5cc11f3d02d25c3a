// bench.go -- 'bench' command implementation
//
// Construction is timed single-threaded (the solver has no parallel
// construction mode by design). Lookup throughput is measured with a
// sharded concurrent driver -- the same shard-and-sync.WaitGroup shape
// used elsewhere in this codebase for parallel work over a key slice,
// here repurposed to drive GetIndex from many goroutines at once and
// confirm it is in fact safe to do so.
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
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opencoff/go-ptrhash"
	flag "github.com/opencoff/pflag"
)

type benchCommand struct{}

func init() {
	registerCommand("bench", &benchCommand{})
}

func (c *benchCommand) run(args []string, opt *Option) error {
	var rounds int

	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	fs.SetOutput(os.Stdout)
	fs.IntVarP(&rounds, "rounds", "r", 4, "Number of full lookup passes per goroutine shard")
	fs.Usage = func() {
		fmt.Printf(`Usage: bench [options] INPUT

Times construction once, then drives concurrent GetIndex lookups over
INPUT's keys from runtime.NumCPU() goroutines, -r rounds each.

options:
`)
		fs.PrintDefaults()
		os.Exit(0)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("bench: need INPUT")
	}

	recs, err := readInput(rest[0])
	if err != nil {
		return fmt.Errorf("bench: can't read %s: %w", rest[0], err)
	}

	keys := make([]ptrhash.StringKey, len(recs))
	for i, r := range recs {
		keys[i] = ptrhash.StringKey(r.key)
	}
	n := len(keys)
	if n == 0 {
		return fmt.Errorf("bench: no keys in %s", rest[0])
	}

	start := time.Now()
	hs := ptrhash.GenerateHash(keys)
	buildTime := time.Since(start)

	hashes := make([]ptrhash.PtrHashes, n)
	for i, k := range keys {
		hashes[i] = ptrhash.DefaultHashFunc[ptrhash.StringKey](k, hs.Key)
	}

	var ok int64
	ncpu := runtime.NumCPU()

	lookupStart := time.Now()
	var wg sync.WaitGroup
	z := n / ncpu
	r := n % ncpu
	wg.Add(ncpu)
	for i := 0; i < ncpu; i++ {
		x := z * i
		y := x + z
		if i == ncpu-1 {
			y += r
		}
		go func(x, y int) {
			defer wg.Done()
			var hit int64
			for round := 0; round < rounds; round++ {
				for j := x; j < y; j++ {
					idx := ptrhash.GetIndex(hashes[j], hs.Key, hs.Buckets, hs.Slots, hs.Pilots, hs.Remap, n)
					if hs.Map[idx] == j {
						hit++
					}
				}
			}
			atomic.AddInt64(&ok, hit)
		}(x, y)
	}
	wg.Wait()
	lookupTime := time.Since(lookupStart)

	total := int64(n) * int64(rounds)
	qps := float64(total) / lookupTime.Seconds()

	fmt.Printf("build:  %d keys in %s\n", n, buildTime.Truncate(time.Microsecond))
	fmt.Printf("lookup: %d queries (%d cpus x %d rounds) in %s (%.0f lookups/sec), %d/%d correct\n",
		total, ncpu, rounds, lookupTime.Truncate(time.Microsecond), qps, ok, total)

	if ok != total {
		return fmt.Errorf("bench: %d/%d lookups mismatched expected index", total-ok, total)
	}
	return nil
}
