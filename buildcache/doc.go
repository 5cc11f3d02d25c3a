// Package buildcache caches solved ptrhash.HashState values across
// codegen runs, keyed by a content fingerprint of the input key set.
//
// Re-running a code generator over an unchanged key list should not pay
// the solver's seed-search cost again. A Store is a small single-file,
// mmap-backed database -- modeled on the constant-DB format used
// elsewhere in this module for key/value lookups, but holding solver
// output instead of user records. A Store is built once (Put for every
// fingerprint, then Freeze), after which it is opened read-only and
// queried concurrently from any number of goroutines.
package buildcache
