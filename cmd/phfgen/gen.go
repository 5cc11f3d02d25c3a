// gen.go -- 'gen' command implementation
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
	"strconv"
	"time"

	"github.com/opencoff/go-ptrhash"
	flag "github.com/opencoff/pflag"

	"github.com/opencoff/go-ptrhash/buildcache"
	"github.com/opencoff/go-ptrhash/codegen"
)

type genCommand struct{}

func init() {
	registerCommand("gen", &genCommand{})
}

func (c *genCommand) run(args []string, opt *Option) (err error) {
	var ordered, asSet, quoteValues bool
	var keyType, valueType, varName, cache string

	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	fs.SetOutput(os.Stdout)
	fs.BoolVarP(&ordered, "ordered", "o", false, "Emit an OrderedMap/OrderedSet instead of a Map/Set")
	fs.BoolVarP(&asSet, "set", "s", false, "Emit a Set/OrderedSet (keys only, ignore values)")
	fs.BoolVarP(&quoteValues, "quote-values", "q", true, "Quote each value as a Go string literal")
	fs.StringVarP(&keyType, "key-type", "k", "ptrhash.StringKey", "Go type `name` for keys")
	fs.StringVarP(&valueType, "value-type", "t", "string", "Go type `name` for values")
	fs.StringVarP(&varName, "var", "n", "Table", "Go variable `name` to declare")
	fs.StringVarP(&cache, "cache", "c", "", "`path` to a buildcache store (Map/OrderedMap only, not -s)")
	fs.Usage = func() {
		fmt.Printf(`Usage: gen [options] INPUT OUTPUT

INPUT is a whitespace/tab-delimited text file or .csv file of key,value
pairs (or one key per line, for -s/--set). OUTPUT receives the generated
Go source.

options:
`)
		fs.PrintDefaults()
		os.Exit(0)
	}

	if err = fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("gen: need INPUT and OUTPUT")
	}

	recs, err := readInput(rest[0])
	if err != nil {
		return fmt.Errorf("gen: can't read %s: %w", rest[0], err)
	}

	keys := make([]ptrhash.StringKey, len(recs))
	rawKeys := make([][]byte, len(recs))
	for i, r := range recs {
		keys[i] = ptrhash.StringKey(r.key)
		rawKeys[i] = []byte(r.key)
	}

	valueOf := func(v string) string {
		if quoteValues {
			return strconv.Quote(v)
		}
		return v
	}
	values := make([]string, len(recs))
	for i, r := range recs {
		values[i] = valueOf(r.val)
	}

	start := time.Now()

	var out fmt.Stringer
	switch {
	case asSet && ordered:
		b := codegen.NewOrderedSet[ptrhash.StringKey](keyType)
		for _, k := range keys {
			b.Entry(k)
		}
		out, err = b.Build()

	case asSet:
		b := codegen.NewSet[ptrhash.StringKey](keyType)
		for _, k := range keys {
			b.Entry(k)
		}
		out, err = b.Build()

	case ordered:
		out, err = c.buildOrderedMap(cache, keyType, valueType, keys, rawKeys, values, opt)

	default:
		out, err = c.buildMap(cache, keyType, valueType, keys, rawKeys, values, opt)
	}

	if err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	delta := time.Since(start)
	opt.Printf("gen: %d entries in %s\n", len(keys), delta.Truncate(time.Microsecond))

	w, err := os.Create(rest[1])
	if err != nil {
		return fmt.Errorf("gen: %w", err)
	}
	defer w.Close()

	fmt.Fprintf(w, "// Code generated by phfgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(w, "var %s = %s\n", varName, out.String())
	return nil
}

// buildMap solves (or replays from cache) an unordered Map, updating
// the buildcache on a miss.
func (c *genCommand) buildMap(cache, keyType, valueType string, keys []ptrhash.StringKey, rawKeys [][]byte, values []string, opt *Option) (*codegen.DisplayMap[ptrhash.StringKey], error) {
	fp := buildcache.Fingerprint(rawKeys)

	if hs, hit := lookupCache(cache, fp, opt); hit {
		return codegen.NewDisplayMapFromState("phf", keyType, valueType, hs, keys, values), nil
	}

	b := codegen.NewMap[ptrhash.StringKey](keyType, valueType)
	for i, k := range keys {
		b.Entry(k, values[i])
	}
	out, err := b.Build()
	if err != nil {
		return nil, err
	}

	updateCache(cache, fp, out.State(), opt)
	return out, nil
}

// buildOrderedMap is buildMap's OrderedMap counterpart.
func (c *genCommand) buildOrderedMap(cache, keyType, valueType string, keys []ptrhash.StringKey, rawKeys [][]byte, values []string, opt *Option) (*codegen.DisplayOrderedMap[ptrhash.StringKey], error) {
	fp := buildcache.Fingerprint(rawKeys)

	if hs, hit := lookupCache(cache, fp, opt); hit {
		return codegen.NewDisplayOrderedMapFromState("phf", keyType, valueType, hs, keys, values), nil
	}

	b := codegen.NewOrderedMap[ptrhash.StringKey](keyType, valueType)
	for i, k := range keys {
		b.Entry(k, values[i])
	}
	out, err := b.Build()
	if err != nil {
		return nil, err
	}

	updateCache(cache, fp, out.State(), opt)
	return out, nil
}

// lookupCache opens cache (if non-empty) read-only and reports a hit
// for fingerprint fp. Any error opening the store (including "doesn't
// exist yet") is treated as a miss, not a failure.
func lookupCache(cache string, fp uint64, opt *Option) (ptrhash.HashState, bool) {
	if cache == "" {
		return ptrhash.HashState{}, false
	}

	st, err := buildcache.Open(cache, 0)
	if err != nil {
		return ptrhash.HashState{}, false
	}
	defer st.Close()

	hs, ok, err := st.Get(fp)
	if err != nil || !ok {
		return ptrhash.HashState{}, false
	}

	opt.Printf("gen: buildcache hit (%d keys)\n", hs.Len())
	return hs, true
}

// updateCache rebuilds cache with its previous entries plus (fp, hs).
// buildcache Writers are one-shot, so updating means replaying every
// prior entry via IterFunc and appending the new one.
func updateCache(cache string, fp uint64, hs ptrhash.HashState, opt *Option) {
	if cache == "" {
		return
	}

	prior := map[uint64]ptrhash.HashState{}
	if st, err := buildcache.Open(cache, 0); err == nil {
		st.IterFunc(func(pfp uint64, phs ptrhash.HashState) error {
			prior[pfp] = phs
			return nil
		})
		st.Close()
	}
	prior[fp] = hs

	w, err := buildcache.NewWriter(cache)
	if err != nil {
		opt.Printf("gen: buildcache: %s\n", err)
		return
	}
	for pfp, phs := range prior {
		if err := w.Put(pfp, phs); err != nil {
			opt.Printf("gen: buildcache: %s\n", err)
			w.Abort()
			return
		}
	}
	if err := w.Freeze(); err != nil {
		opt.Printf("gen: buildcache: %s\n", err)
	}
}
