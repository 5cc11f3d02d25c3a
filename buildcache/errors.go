// errors.go - public errors exposed by buildcache
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
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned when attempting to Put into an already
	// frozen store, or to Freeze a store twice.
	ErrFrozen = errors.New("buildcache: store already frozen")

	// ErrExists is returned when Put is called twice for the same
	// fingerprint.
	ErrExists = errors.New("buildcache: fingerprint already cached")

	// ErrNotFound is returned by Get when the fingerprint isn't cached.
	ErrNotFound = errors.New("buildcache: no such fingerprint")

	// ErrCorrupt is returned when a record or the store's metadata
	// fails its checksum.
	ErrCorrupt = errors.New("buildcache: corrupt store")
)

func errShortWrite(who string, n, exp int) error {
	return fmt.Errorf("buildcache: %s: short write; exp %d, saw %d", who, exp, n)
}
