// reader.go -- opens and queries a frozen buildcache Store
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
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dchest/siphash"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/opencoff/go-mmap"
	"github.com/opencoff/go-ptrhash"
)

const defaultCacheSize = 128

// Store is a read-only, mmap-backed cache of solved HashStates, opened
// from a file previously built with Writer. It is safe for concurrent
// use by multiple goroutines.
type Store struct {
	cache *lru.Cache[uint64, ptrhash.HashState]

	salt   []byte
	nrecs  uint64
	offtbl uint64

	fpArr  []uint64
	offArr []uint64
	lenArr []uint32

	mm *mmap.Mapping
	fd *os.File
	fn string
}

// Open reads a buildcache Store previously written by Writer. cacheSize
// bounds the number of decoded HashStates kept hot in memory; <= 0
// selects a default.
func Open(fn string, cacheSize int) (st *Store, err error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	st = &Store{
		salt: make([]byte, 16),
		fd:   fd,
		fn:   fn,
	}

	defer func() {
		if err != nil {
			fd.Close()
		}
	}()

	fi, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: can't stat: %w", fn, err)
	}
	if fi.Size() < 64+32 {
		return nil, fmt.Errorf("%s: %w: file too small", fn, ErrCorrupt)
	}

	var hdrb [64]byte
	if _, err = io.ReadFull(fd, hdrb[:]); err != nil {
		return nil, fmt.Errorf("%s: can't read header: %w", fn, err)
	}

	offtbl, err := st.decodeHeader(hdrb[:], fi.Size())
	if err != nil {
		return nil, err
	}

	if err = st.verifyChecksum(hdrb[:], offtbl, fi.Size()); err != nil {
		return nil, err
	}

	st.cache, err = lru.New[uint64, ptrhash.HashState](cacheSize)
	if err != nil {
		return nil, err
	}

	tblsz := st.nrecs * (8 + 8 + 4)
	if offtbl+tblsz+32 > uint64(fi.Size()) {
		return nil, fmt.Errorf("%s: %w: corrupt offset table bounds", fn, ErrCorrupt)
	}

	mm := mmap.New(fd)
	mapsz := int64(tblsz)
	mapping, err := mm.Map(mapsz, int64(offtbl), mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		return nil, fmt.Errorf("%s: can't mmap %d bytes at off %d: %w", fn, mapsz, offtbl, err)
	}
	st.mm = mapping
	st.offtbl = offtbl

	bs := mapping.Bytes()
	n := int(st.nrecs)
	st.fpArr = bsToUint64Slice(bs[:8*n])
	st.offArr = bsToUint64Slice(bs[8*n : 16*n])
	st.lenArr = bsToUint32Slice(bs[16*n : 16*n+4*n])

	return st, nil
}

// Len returns the number of cached fingerprints.
func (st *Store) Len() int {
	return int(st.nrecs)
}

// Close releases the mmap and underlying file descriptor.
func (st *Store) Close() error {
	if st.mm != nil {
		st.mm.Unmap()
	}
	st.cache.Purge()
	return st.fd.Close()
}

// IterFunc calls fn for every cached (fingerprint, HashState) pair. It
// stops and returns fn's error if fn returns non-nil. Used to carry
// forward previously cached entries when rebuilding a Store (buildcache
// Writers are one-shot, same as the teacher's DBWriter).
func (st *Store) IterFunc(fn func(fingerprint uint64, hs ptrhash.HashState) error) error {
	for i := range st.fpArr {
		fp := toLEUint64(st.fpArr[i])
		off := toLEUint64(st.offArr[i])
		vlen := toLEUint32(st.lenArr[i])

		hs, err := st.decodeRecord(off, vlen)
		if err != nil {
			return err
		}
		if err := fn(fp, hs); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached HashState for fingerprint, if present.
func (st *Store) Get(fingerprint uint64) (ptrhash.HashState, bool, error) {
	if hs, ok := st.cache.Get(fingerprint); ok {
		return hs, true, nil
	}

	i, ok := st.search(fingerprint)
	if !ok {
		return ptrhash.HashState{}, false, nil
	}

	off := toLEUint64(st.offArr[i])
	vlen := toLEUint32(st.lenArr[i])

	hs, err := st.decodeRecord(off, vlen)
	if err != nil {
		return ptrhash.HashState{}, false, err
	}

	st.cache.Add(fingerprint, hs)
	return hs, true, nil
}

// search binary-searches the sorted fingerprint array.
func (st *Store) search(fingerprint uint64) (int, bool) {
	n := len(st.fpArr)
	i := sort.Search(n, func(i int) bool {
		return toLEUint64(st.fpArr[i]) >= fingerprint
	})
	if i < n && toLEUint64(st.fpArr[i]) == fingerprint {
		return i, true
	}
	return 0, false
}

func (st *Store) decodeRecord(off uint64, vlen uint32) (ptrhash.HashState, error) {
	// ReadAt leaves the shared file offset alone, so concurrent Gets do
	// not race on it.
	data := make([]byte, uint64(vlen)+8)
	if _, err := st.fd.ReadAt(data, int64(off)); err != nil {
		return ptrhash.HashState{}, err
	}

	be := binary.BigEndian
	csum := be.Uint64(data[:8])

	var o [8]byte
	be.PutUint64(o[:], off)

	h := siphash.New(st.salt)
	h.Write(o[:])
	h.Write(data[8:])
	if exp := h.Sum64(); exp != csum {
		return ptrhash.HashState{}, fmt.Errorf("%s: %w: record at off %d (exp %#x, saw %#x)", st.fn, ErrCorrupt, off, exp, csum)
	}

	return decodeHashState(data[8:])
}

func (st *Store) verifyChecksum(hdrb []byte, offtbl uint64, sz int64) error {
	h := sha512.New512_256()
	h.Write(hdrb)

	remsz := sz - int64(offtbl) - 32
	if _, err := st.fd.Seek(int64(offtbl), 0); err != nil {
		return err
	}

	nw, err := io.CopyN(h, st.fd, remsz)
	if err != nil {
		return fmt.Errorf("%s: metadata i/o error: %w", st.fn, err)
	}
	if nw != remsz {
		return fmt.Errorf("%s: partial metadata read, exp %d saw %d", st.fn, remsz, nw)
	}

	var expsum [32]byte
	if _, err := st.fd.Seek(sz-32, 0); err != nil {
		return err
	}
	if _, err := io.ReadFull(st.fd, expsum[:]); err != nil {
		return fmt.Errorf("%s: checksum i/o error: %w", st.fn, err)
	}

	csum := h.Sum(nil)
	if subtle.ConstantTimeCompare(csum, expsum[:]) != 1 {
		return fmt.Errorf("%s: %w: checksum mismatch", st.fn, ErrCorrupt)
	}

	_, err = st.fd.Seek(int64(offtbl), 0)
	return err
}

func (st *Store) decodeHeader(b []byte, sz int64) (uint64, error) {
	if string(b[:4]) != magic {
		return 0, fmt.Errorf("%s: %w: bad magic %q", st.fn, ErrCorrupt, b[:4])
	}

	be := binary.BigEndian
	i := 4
	i += 4 // flags, reserved

	copy(st.salt, b[i:i+16])
	i += 16
	st.nrecs = be.Uint64(b[i : i+8])
	i += 8
	offtbl := be.Uint64(b[i : i+8])

	if offtbl < 64 || offtbl >= uint64(sz-32) {
		return 0, fmt.Errorf("%s: %w: bad offset-table pointer", st.fn, ErrCorrupt)
	}

	return offtbl, nil
}
