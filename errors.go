// errors.go - public errors exposed by ptrhash
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
	"errors"
)

var (
	// ErrDuplicateKey is returned by codegen.Map/Set builders when two
	// entries hash-and-compare equal. The solver is never invoked when
	// this is returned.
	ErrDuplicateKey = errors.New("ptrhash: duplicate key")

	// errSolveExhausted is internal: a single seed attempt hit
	// maxPilotTries on some bucket. The outer seed loop recovers by
	// trying the next seed; this error never escapes GenerateHash.
	errSolveExhausted = errors.New("ptrhash: pilot search exhausted for this seed")

	// errMapNotDense signals a solver bug: after remap construction,
	// some dense slot in [0,N) was never populated. This should be
	// unreachable for any correct trySolve implementation.
	errMapNotDense = errors.New("ptrhash: internal error: map is not dense after remap")
)
