// map.go - the Map and Set builders
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

// Map builds a phf.Map[K, V] literal. keyType and valueType are the Go
// type names to substitute into the emitted generic instantiation
// (e.g. "ptrhash.StringKey", "Keyword") -- codegen only ever sees value text, not
// real Go types, so it cannot infer these on its own.
type Map[K Key] struct {
	keyType   string
	valueType string
	pkgPath   string
	keys      []K
	values    []string
}

// NewMap creates a Map builder for the given key/value Go type names.
func NewMap[K Key](keyType, valueType string) *Map[K] {
	return &Map[K]{keyType: keyType, valueType: valueType, pkgPath: "phf"}
}

// PHFPath overrides the import alias ("phf" by default) used to qualify
// the emitted type names.
func (m *Map[K]) PHFPath(path string) *Map[K] {
	m.pkgPath = path
	return m
}

// Entry adds a key/value pair. value is emitted into the generated
// source exactly as given -- it is Go source text, not a Go value.
func (m *Map[K]) Entry(key K, value string) *Map[K] {
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return m
}

// Build solves the accumulated entries and returns a printer for the
// resulting phf.Map literal. It fails if any two entries share a key.
func (m *Map[K]) Build() (*DisplayMap[K], error) {
	dd := newDedupe[K]()
	for i := range m.keys {
		if err := dd.add(m.keys, i); err != nil {
			return nil, err
		}
	}

	state := ptrhash.GenerateHash(m.keys)

	return &DisplayMap[K]{
		pkgPath:   m.pkgPath,
		keyType:   m.keyType,
		valueType: m.valueType,
		state:     state,
		keys:      m.keys,
		values:    m.values,
	}, nil
}

// DisplayMap prints a solved Map as a Go phf.Map[K, V] composite
// literal.
type DisplayMap[K Key] struct {
	pkgPath, keyType, valueType string
	state                       ptrhash.HashState
	keys                        []K
	values                      []string
}

// State returns the solved HashState backing this printer, e.g. for a
// caller that wants to memoize it in a buildcache.Store.
func (d *DisplayMap[K]) State() ptrhash.HashState {
	return d.state
}

// NewDisplayMapFromState builds a printer directly from a previously
// solved HashState, skipping both the duplicate check and the solve
// itself. Callers must guarantee keys/values/state are mutually
// consistent -- this is meant for a buildcache hit replaying an
// identical prior input, not for arbitrary reuse.
func NewDisplayMapFromState[K Key](pkgPath, keyType, valueType string, state ptrhash.HashState, keys []K, values []string) *DisplayMap[K] {
	return &DisplayMap[K]{
		pkgPath:   pkgPath,
		keyType:   keyType,
		valueType: valueType,
		state:     state,
		keys:      keys,
		values:    values,
	}
}

// String renders the literal. Writes to a strings.Builder never fail,
// so the error WriteTo can return is always nil here.
func (d *DisplayMap[K]) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

// WriteTo writes the literal to w, stopping at the first write error.
func (d *DisplayMap[K]) WriteTo(w io.Writer) (int64, error) {
	ew := newErrWriter(w)
	d.writeMapBody(ew)
	return ew.N(), ew.Error()
}

// writeMapBody is shared with DisplaySet, which needs a plain Map-shaped
// body when printing an unordered phf.Set.
func (d *DisplayMap[K]) writeMapBody(ew *errWriter) {
	fmt.Fprintf(ew, "%s.Map[%s, %s]{\n", d.pkgPath, d.keyType, d.valueType)
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

	fmt.Fprintf(ew, "\tEntries: []%s.Entry[%s, %s]{\n", d.pkgPath, d.keyType, d.valueType)
	for _, idx := range d.state.Map {
		fmt.Fprintf(ew, "\t\t{%s, %s},\n", d.keys[idx].GoLiteral(), d.values[idx])
	}
	fmt.Fprintf(ew, "\t},\n}")
}

// Set builds a phf.Set[K] literal: a Map builder whose values are
// always the empty struct literal.
type Set[K Key] struct {
	m *Map[K]
}

// NewSet creates a Set builder for the given key Go type name.
func NewSet[K Key](keyType string) *Set[K] {
	return &Set[K]{m: NewMap[K](keyType, "struct{}")}
}

// PHFPath overrides the import alias used to qualify emitted type names.
func (s *Set[K]) PHFPath(path string) *Set[K] {
	s.m.PHFPath(path)
	return s
}

// Entry adds a member.
func (s *Set[K]) Entry(key K) *Set[K] {
	s.m.Entry(key, "struct{}{}")
	return s
}

// Build solves the accumulated entries and returns a printer for the
// resulting phf.Set literal.
func (s *Set[K]) Build() (*DisplaySet[K], error) {
	inner, err := s.m.Build()
	if err != nil {
		return nil, err
	}
	return &DisplaySet[K]{inner: inner}, nil
}

// DisplaySet prints a solved Set as a Go phf.Set[K] composite literal.
type DisplaySet[K Key] struct {
	inner *DisplayMap[K]
}

func (d *DisplaySet[K]) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func (d *DisplaySet[K]) WriteTo(w io.Writer) (int64, error) {
	ew := newErrWriter(w)
	fmt.Fprintf(ew, "%s.Set[%s]{Map: ", d.inner.pkgPath, d.inner.keyType)
	d.inner.writeMapBody(ew)
	fmt.Fprintf(ew, "}")
	return ew.N(), ew.Error()
}
