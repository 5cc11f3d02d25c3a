// record_test.go - tests for the HashState wire encoding
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
	"testing"

	"github.com/opencoff/go-ptrhash"
)

func TestEncodeDecodeHashStateRoundTrip(t *testing.T) {
	keys := []ptrhash.StringKey{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	hs := ptrhash.GenerateHash(keys)

	buf := encodeHashState(hs)
	got, err := decodeHashState(buf)
	if err != nil {
		t.Fatalf("decodeHashState: %v", err)
	}

	if got.Key != hs.Key || got.Buckets != hs.Buckets || got.Slots != hs.Slots {
		t.Fatalf("scalar fields mismatch: got %+v, want key=%d buckets=%d slots=%d", got, hs.Key, hs.Buckets, hs.Slots)
	}
	if len(got.Pilots) != len(hs.Pilots) {
		t.Fatalf("pilots length mismatch: %d != %d", len(got.Pilots), len(hs.Pilots))
	}
	for i := range hs.Pilots {
		if got.Pilots[i] != hs.Pilots[i] {
			t.Fatalf("pilots[%d] mismatch: %d != %d", i, got.Pilots[i], hs.Pilots[i])
		}
	}
	if len(got.Remap) != len(hs.Remap) {
		t.Fatalf("remap length mismatch: %d != %d", len(got.Remap), len(hs.Remap))
	}
	for i := range hs.Remap {
		if got.Remap[i] != hs.Remap[i] {
			t.Fatalf("remap[%d] mismatch", i)
		}
	}
	if len(got.Map) != len(hs.Map) {
		t.Fatalf("map length mismatch: %d != %d", len(got.Map), len(hs.Map))
	}
	for i := range hs.Map {
		if got.Map[i] != hs.Map[i] {
			t.Fatalf("map[%d] mismatch: %d != %d", i, got.Map[i], hs.Map[i])
		}
	}
}

func TestEncodeDecodeEmptyHashState(t *testing.T) {
	var hs ptrhash.HashState
	buf := encodeHashState(hs)
	got, err := decodeHashState(buf)
	if err != nil {
		t.Fatalf("decodeHashState: %v", err)
	}
	if got.Buckets != 0 || got.Slots != 0 || len(got.Pilots) != 0 || len(got.Remap) != 0 || len(got.Map) != 0 {
		t.Fatalf("empty HashState did not round-trip as empty: %+v", got)
	}
}

func TestDecodeHashStateRejectsShortBuffer(t *testing.T) {
	if _, err := decodeHashState([]byte{1, 2, 3}); err == nil {
		t.Fatalf("decodeHashState: expected error on short buffer")
	}
}

func TestDecodeHashStateRejectsLengthMismatch(t *testing.T) {
	keys := []ptrhash.StringKey{"a", "b", "c"}
	hs := ptrhash.GenerateHash(keys)
	buf := encodeHashState(hs)

	if _, err := decodeHashState(buf[:len(buf)-1]); err == nil {
		t.Fatalf("decodeHashState: expected length-mismatch error on truncated buffer")
	}
}
