// builder_test.go - tests for the shared Key constraint and dedupe helper
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
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/opencoff/go-ptrhash"
)

func TestDedupeAcceptsDistinctKeys(t *testing.T) {
	keys := []ptrhash.StringKey{"a", "b", "c"}
	dd := newDedupe[ptrhash.StringKey]()
	for i := range keys {
		if err := dd.add(keys, i); err != nil {
			t.Fatalf("add(%d): unexpected error: %v", i, err)
		}
	}
}

func TestDedupeRejectsRepeat(t *testing.T) {
	keys := []ptrhash.StringKey{"a", "b", "a"}
	dd := newDedupe[ptrhash.StringKey]()
	for i := 0; i < 2; i++ {
		if err := dd.add(keys, i); err != nil {
			t.Fatalf("add(%d): unexpected error: %v", i, err)
		}
	}
	err := dd.add(keys, 2)
	if err == nil {
		t.Fatalf("add(2): expected duplicate error")
	}
	if !errors.Is(err, ptrhash.ErrDuplicateKey) {
		t.Fatalf("error %v does not wrap ErrDuplicateKey", err)
	}
}

func TestDedupeDistinctKeysSameDigestBucketStillCompareEqual(t *testing.T) {
	// Even if two distinct keys happened to collide on their xxhash
	// digest, dedupe must fall back to real equality and not reject them.
	// Force such a collision by filing "one" under the digest of "two".
	keys := []ptrhash.StringKey{"one", "two", "three", "four", "five"}
	dd := newDedupe[ptrhash.StringKey]()
	dd.seen[xxhash.Sum64(keys[1].KeyBytes())] = []int{0}
	for i := range keys {
		if err := dd.add(keys, i); err != nil {
			t.Fatalf("add(%d) = %q: unexpected error: %v", i, keys[i], err)
		}
	}
}
