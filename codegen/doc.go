// Package codegen builds Map, Set, OrderedMap and OrderedSet data sets
// at Go-generate time and prints the solved result as Go source text
// ready to be embedded in a package-level var declaration.
//
// A typical //go:generate-driven tool does:
//
//	b := codegen.NewMap[ptrhash.StringKey]("ptrhash.StringKey", "Keyword")
//	b.Entry("loop", "KeywordLoop")
//	b.Entry("break", "KeywordBreak")
//	out, err := b.Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Fprintf(w, "var Keywords = %s\n", out)
//
// Build is deterministic: the same entries in the same order always
// produce byte-identical source, since the solver's seed loop is itself
// deterministic and every traversal below iterates an explicit slice,
// never a map.
package codegen
