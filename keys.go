// keys.go - Hashable implementations for common key shapes
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
	"fmt"
	"strconv"
)

// StringKey adapts a string to Hashable.
type StringKey string

// KeyBytes implements Hashable.
func (s StringKey) KeyBytes() []byte { return []byte(s) }

// GoLiteral renders s as a quoted Go string literal, for the codegen
// package's emitted source.
func (s StringKey) GoLiteral() string { return strconv.Quote(string(s)) }

// BytesKey adapts a byte sequence to Hashable. Unlike StringKey it is
// not comparable, so it cannot be used with the codegen builders or the
// phf containers (both require comparable keys); GenerateHash accepts
// it but does no duplicate detection.
type BytesKey []byte

// KeyBytes implements Hashable.
func (b BytesKey) KeyBytes() []byte { return b }

// GoLiteral renders b as a []byte composite literal.
func (b BytesKey) GoLiteral() string { return fmt.Sprintf("%#v", []byte(b)) }

// Uint64Key adapts a uint64 to Hashable via its big-endian encoding.
type Uint64Key uint64

// KeyBytes implements Hashable.
func (u Uint64Key) KeyBytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(u))
	return b[:]
}

// GoLiteral renders u as a decimal Go integer literal.
func (u Uint64Key) GoLiteral() string { return strconv.FormatUint(uint64(u), 10) }

// Uint32Key adapts a uint32 to Hashable via its big-endian encoding.
type Uint32Key uint32

// KeyBytes implements Hashable.
func (u Uint32Key) KeyBytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(u))
	return b[:]
}

// GoLiteral renders u as a decimal Go integer literal.
func (u Uint32Key) GoLiteral() string { return strconv.FormatUint(uint64(u), 10) }

// Int64Key adapts an int64 to Hashable. Negative values are mapped to
// their unsigned bit pattern before encoding, so the byte representation
// (and therefore the hash) is stable across Go versions and platforms.
type Int64Key int64

// KeyBytes implements Hashable.
func (i Int64Key) KeyBytes() []byte {
	return Uint64Key(uint64(i)).KeyBytes()
}

// GoLiteral renders i as a decimal Go integer literal.
func (i Int64Key) GoLiteral() string { return strconv.FormatInt(int64(i), 10) }

// Strings wraps a slice of strings as Hashable entries, in the order
// given.
func Strings(ss []string) []StringKey {
	out := make([]StringKey, len(ss))
	for i, s := range ss {
		out[i] = StringKey(s)
	}
	return out
}

// Uint64s wraps a slice of uint64s as Hashable entries, in the order
// given.
func Uint64s(vs []uint64) []Uint64Key {
	out := make([]Uint64Key, len(vs))
	for i, v := range vs {
		out[i] = Uint64Key(v)
	}
	return out
}
