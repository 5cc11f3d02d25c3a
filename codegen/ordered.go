// ordered.go - the OrderedMap and OrderedSet builders
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
	"io"
	"strings"

	"github.com/opencoff/go-ptrhash"
)

// OrderedMap builds a phf.OrderedMap[K, V] literal: like Map, but the
// emitted Entries table keeps insertion order and a separate Idxs table
// carries the dense-slot permutation.
type OrderedMap[K Key] struct {
	keyType   string
	valueType string
	pkgPath   string
	keys      []K
	values    []string
}

// NewOrderedMap creates an OrderedMap builder for the given key/value
// Go type names.
func NewOrderedMap[K Key](keyType, valueType string) *OrderedMap[K] {
	return &OrderedMap[K]{keyType: keyType, valueType: valueType, pkgPath: "phf"}
}

// PHFPath overrides the import alias used to qualify emitted type names.
func (m *OrderedMap[K]) PHFPath(path string) *OrderedMap[K] {
	m.pkgPath = path
	return m
}

// Entry adds a key/value pair in insertion order.
func (m *OrderedMap[K]) Entry(key K, value string) *OrderedMap[K] {
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return m
}

// Build solves the accumulated entries and returns a printer for the
// resulting phf.OrderedMap literal.
func (m *OrderedMap[K]) Build() (*DisplayOrderedMap[K], error) {
	dd := newDedupe[K]()
	for i := range m.keys {
		if err := dd.add(m.keys, i); err != nil {
			return nil, err
		}
	}

	state := ptrhash.GenerateHash(m.keys)

	return &DisplayOrderedMap[K]{
		pkgPath:   m.pkgPath,
		keyType:   m.keyType,
		valueType: m.valueType,
		state:     state,
		keys:      m.keys,
		values:    m.values,
	}, nil
}

// DisplayOrderedMap prints a solved OrderedMap as a Go
// phf.OrderedMap[K, V] composite literal.
type DisplayOrderedMap[K Key] struct {
	pkgPath, keyType, valueType string
	state                       ptrhash.HashState
	keys                        []K
	values                      []string
}

// State returns the solved HashState backing this printer.
func (d *DisplayOrderedMap[K]) State() ptrhash.HashState {
	return d.state
}

// NewDisplayOrderedMapFromState builds a printer directly from a
// previously solved HashState; see NewDisplayMapFromState for the same
// caveat about caller-guaranteed consistency.
func NewDisplayOrderedMapFromState[K Key](pkgPath, keyType, valueType string, state ptrhash.HashState, keys []K, values []string) *DisplayOrderedMap[K] {
	return &DisplayOrderedMap[K]{
		pkgPath:   pkgPath,
		keyType:   keyType,
		valueType: valueType,
		state:     state,
		keys:      keys,
		values:    values,
	}
}

func (d *DisplayOrderedMap[K]) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func (d *DisplayOrderedMap[K]) WriteTo(w io.Writer) (int64, error) {
	ew := newErrWriter(w)
	d.writeOrderedMapBody(ew)
	return ew.N(), ew.Error()
}

func (d *DisplayOrderedMap[K]) writeOrderedMapBody(ew *errWriter) {
	fmt.Fprintf(ew, "%s.OrderedMap[%s, %s]{\n", d.pkgPath, d.keyType, d.valueType)
	fmt.Fprintf(ew, "\tKey: %#x,\n", d.state.Key)
	fmt.Fprintf(ew, "\tBuckets: %d,\n", d.state.Buckets)
	fmt.Fprintf(ew, "\tSlots: %d,\n", d.state.Slots)

	fmt.Fprintf(ew, "\tPilots: []uint16{")
	for _, p := range d.state.Pilots {
		fmt.Fprintf(ew, "%d, ", p)
	}
	fmt.Fprintf(ew, "},\n")

	fmt.Fprintf(ew, "\tRemap: []uint32{")
	for _, r := range d.state.Remap {
		fmt.Fprintf(ew, "%d, ", r)
	}
	fmt.Fprintf(ew, "},\n")

	fmt.Fprintf(ew, "\tIdxs: []int{")
	for _, idx := range d.state.Map {
		fmt.Fprintf(ew, "%d, ", idx)
	}
	fmt.Fprintf(ew, "},\n")

	fmt.Fprintf(ew, "\tEntries: []%s.Entry[%s, %s]{\n", d.pkgPath, d.keyType, d.valueType)
	for i := range d.keys {
		fmt.Fprintf(ew, "\t\t{%s, %s},\n", d.keys[i].GoLiteral(), d.values[i])
	}
	fmt.Fprintf(ew, "\t},\n}")
}

// OrderedSet builds a phf.OrderedSet[K] literal.
type OrderedSet[K Key] struct {
	m *OrderedMap[K]
}

// NewOrderedSet creates an OrderedSet builder for the given key Go type
// name.
func NewOrderedSet[K Key](keyType string) *OrderedSet[K] {
	return &OrderedSet[K]{m: NewOrderedMap[K](keyType, "struct{}")}
}

// PHFPath overrides the import alias used to qualify emitted type names.
func (s *OrderedSet[K]) PHFPath(path string) *OrderedSet[K] {
	s.m.PHFPath(path)
	return s
}

// Entry adds a member in insertion order.
func (s *OrderedSet[K]) Entry(key K) *OrderedSet[K] {
	s.m.Entry(key, "struct{}{}")
	return s
}

// Build solves the accumulated entries and returns a printer for the
// resulting phf.OrderedSet literal.
func (s *OrderedSet[K]) Build() (*DisplayOrderedSet[K], error) {
	inner, err := s.m.Build()
	if err != nil {
		return nil, err
	}
	return &DisplayOrderedSet[K]{inner: inner}, nil
}

// DisplayOrderedSet prints a solved OrderedSet as a Go
// phf.OrderedSet[K] composite literal.
type DisplayOrderedSet[K Key] struct {
	inner *DisplayOrderedMap[K]
}

func (d *DisplayOrderedSet[K]) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func (d *DisplayOrderedSet[K]) WriteTo(w io.Writer) (int64, error) {
	ew := newErrWriter(w)
	fmt.Fprintf(ew, "%s.OrderedSet[%s]{OrderedMap: ", d.inner.pkgPath, d.inner.keyType)
	d.inner.writeOrderedMapBody(ew)
	fmt.Fprintf(ew, "}")
	return ew.N(), ew.Error()
}
