// Package phf provides the generic, read-only runtime containers that
// the codegen package's generated Go source instantiates: Map, Set,
// OrderedMap and OrderedSet. Each wraps a solved ptrhash.HashState and
// turns a ptrhash.GetIndex lookup into a typed Get/Contains that also
// re-checks the stored key, since GetIndex alone cannot distinguish a
// hit from a false-positive slot collision for an unknown key.
//
// Values of these types are meant to be constructed once, by generated
// code, as package-level data -- never built by hand at runtime. All
// methods are safe for concurrent use by any number of goroutines, same
// as ptrhash.GetIndex itself.
package phf
