// builder.go - the Key constraint and duplicate-detection shared by
// every builder in this package
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

package codegen

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/opencoff/go-ptrhash"
)

// Key is the constraint every builder's key type must satisfy: it must
// be comparable (for exact-equality duplicate rejection), a
// ptrhash.Hashable (to feed the solver), and able to render itself as
// Go source (GoLiteral) for the emitted entries table.
type Key interface {
	comparable
	ptrhash.Hashable
	GoLiteral() string
}

// dedupe tracks keys seen so far by a fast xxhash pre-check, falling
// back to real equality only among keys that collide on the digest --
// the common case (large, non-adversarial key sets) never pays the
// equality cost at all.
type dedupe[K Key] struct {
	seen map[uint64][]int
}

func newDedupe[K Key]() *dedupe[K] {
	return &dedupe[K]{seen: make(map[uint64][]int)}
}

// add records keys[i] (i is its index into the caller's keys slice) and
// reports an error naming the duplicate if an equal key was already
// added.
func (d *dedupe[K]) add(keys []K, i int) error {
	k := keys[i]
	digest := xxhash.Sum64(k.KeyBytes())

	for _, j := range d.seen[digest] {
		if keys[j] == k {
			return fmt.Errorf("%w: %s", ptrhash.ErrDuplicateKey, k.GoLiteral())
		}
	}
	d.seen[digest] = append(d.seen[digest], i)
	return nil
}
