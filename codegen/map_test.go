// map_test.go - tests for the Map/Set builders
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
	"strconv"
	"strings"
	"testing"

	"github.com/opencoff/go-ptrhash"
)

func TestMapBuildProducesParseableLiteral(t *testing.T) {
	b := NewMap[ptrhash.StringKey]("string", "int")
	words := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for i, w := range words {
		b.Entry(ptrhash.StringKey(w), strconv.Itoa(i))
	}

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "phf.Map[string, int]{") {
		t.Fatalf("unexpected literal prefix: %.40s", s)
	}
	if !strings.HasSuffix(s, "}") {
		t.Fatalf("literal does not end with closing brace")
	}
	for _, w := range words {
		if !strings.Contains(s, strconv.Quote(w)) {
			t.Fatalf("literal missing entry for %q:\n%s", w, s)
		}
	}
}

func TestMapBuildRejectsDuplicateKeys(t *testing.T) {
	b := NewMap[ptrhash.StringKey]("string", "string")
	b.Entry(ptrhash.StringKey("dup"), `"1"`)
	b.Entry(ptrhash.StringKey("other"), `"2"`)
	b.Entry(ptrhash.StringKey("dup"), `"3"`)

	_, err := b.Build()
	if err == nil {
		t.Fatalf("Build: expected duplicate-key error, got nil")
	}
	if !errors.Is(err, ptrhash.ErrDuplicateKey) {
		t.Fatalf("Build error %v does not wrap ErrDuplicateKey", err)
	}
}

func TestMapPHFPathOverride(t *testing.T) {
	b := NewMap[ptrhash.StringKey]("string", "string").PHFPath("mypkg")
	b.Entry(ptrhash.StringKey("k"), `"v"`)
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(out.String(), "mypkg.Map[") {
		t.Fatalf("PHFPath override not honored: %.30s", out.String())
	}
}

func TestMapWriteToMatchesString(t *testing.T) {
	b := NewMap[ptrhash.StringKey]("string", "string")
	for _, w := range []string{"x", "y", "z"} {
		b.Entry(ptrhash.StringKey(w), strconv.Quote(w))
	}
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var sb strings.Builder
	n, err := out.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(sb.String())) {
		t.Fatalf("WriteTo byte count %d != len(output) %d", n, len(sb.String()))
	}
	if sb.String() != out.String() {
		t.Fatalf("WriteTo output differs from String() output")
	}
}

func TestSetBuildProducesSetLiteral(t *testing.T) {
	b := NewSet[ptrhash.StringKey]("string")
	for _, w := range []string{"one", "two", "three"} {
		b.Entry(ptrhash.StringKey(w))
	}
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "phf.Set[string]{Map: phf.Map[string, struct{}]{") {
		t.Fatalf("unexpected set literal: %.60s", s)
	}
}

func TestDisplayMapFromStateBypassesSolve(t *testing.T) {
	b := NewMap[ptrhash.StringKey]("string", "string")
	for _, w := range []string{"a", "b", "c"} {
		b.Entry(ptrhash.StringKey(w), strconv.Quote(w))
	}
	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	keys := []ptrhash.StringKey{"a", "b", "c"}
	values := []string{`"a"`, `"b"`, `"c"`}
	replay := NewDisplayMapFromState("phf", "string", "string", out.State(), keys, values)

	if replay.String() != out.String() {
		t.Fatalf("replay from state produced different output:\nwant:\n%s\ngot:\n%s", out.String(), replay.String())
	}
}
