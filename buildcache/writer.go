// writer.go -- builds a buildcache Store
//
// The on-disk layout:
//
//	64 byte file header (big-endian multi-byte ints):
//	   magic     [4]byte "PHCC"
//	   flags     uint32  (reserved, always 0 today)
//	   salt      [16]byte random salt for siphash record integrity
//	   nrecords  uint64
//	   offtbl    uint64  file offset of the offset table (page-aligned)
//
//	Contiguous series of records, one per cached HashState:
//	   cksum  uint64  siphash of (offset || payload), big-endian
//	   payload  encodeHashState() bytes
//
//	Possibly a gap until the next page boundary.
//
//	Offset table, memory mapped, little-endian encoded, sorted by
//	fingerprint to allow binary search:
//	   fingerprint []uint64
//	   offset      []uint64
//	   reclen      []uint32
//
//	32 bytes of strong checksum (SHA512-256) over the header and the
//	offset table. Records are covered only by their own siphash cksum.
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
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dchest/siphash"
	"github.com/opencoff/go-ptrhash"
)

const (
	magic = "PHCC"
)

type wstate int

const (
	stateOpen wstate = iota
	stateFrozen
	stateAborted
)

type record struct {
	off  uint64
	vlen uint32
}

// Writer builds a buildcache Store file. It is not safe for concurrent
// use: callers build the cache single-threaded at the end of a solve
// run, then Freeze it for read-only, concurrent-safe use via Open.
type Writer struct {
	fd   *os.File
	salt []byte

	records map[uint64]*record
	off     uint64

	fn, fntmp string
	state     wstate
}

// NewWriter creates a new buildcache Store at fn (truncating any prior
// file only once Freeze succeeds -- Put and Freeze work against a
// temporary file that is renamed into place).
func NewWriter(fn string) (*Writer, error) {
	var rb [4]byte
	if _, err := io.ReadFull(rand.Reader, rb[:]); err != nil {
		return nil, fmt.Errorf("buildcache: can't read random bytes: %w", err)
	}
	tmp := fmt.Sprintf("%s.tmp.%x", fn, rb)

	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		fd.Close()
		return nil, fmt.Errorf("buildcache: can't read random salt: %w", err)
	}

	w := &Writer{
		fd:      fd,
		salt:    salt,
		records: make(map[uint64]*record),
		off:     64,
		fn:      fn,
		fntmp:   tmp,
	}

	var z [64]byte
	if _, err := writeAll(fd, z[:]); err != nil {
		w.abort()
		return nil, err
	}

	return w, nil
}

// Len returns the number of distinct fingerprints cached so far.
func (w *Writer) Len() int {
	return len(w.records)
}

// Put appends a solved HashState under the given fingerprint. Putting
// the same fingerprint twice is an error -- callers should Get first.
func (w *Writer) Put(fingerprint uint64, hs ptrhash.HashState) error {
	if w.state != stateOpen {
		return ErrFrozen
	}
	if _, ok := w.records[fingerprint]; ok {
		return ErrExists
	}

	payload := encodeHashState(hs)

	var o, c [8]byte
	be := binary.BigEndian
	be.PutUint64(o[:], w.off)

	h := siphash.New(w.salt)
	h.Write(o[:])
	h.Write(payload)
	be.PutUint64(c[:], h.Sum64())

	if _, err := writeAll(w.fd, c[:]); err != nil {
		return err
	}
	if _, err := writeAll(w.fd, payload); err != nil {
		return err
	}

	w.records[fingerprint] = &record{off: w.off, vlen: uint32(len(payload))}
	w.off += uint64(8 + len(payload))
	return nil
}

// Abort discards the in-progress store and removes its temp file.
func (w *Writer) Abort() error {
	if w.state != stateOpen {
		return ErrFrozen
	}
	return w.abort()
}

func (w *Writer) abort() error {
	name := w.fd.Name()
	w.fd.Close()
	os.Remove(name)
	w.state = stateAborted
	return nil
}

// Freeze writes the offset table and trailer checksum, then publishes
// the store at its final path. The Writer must not be used afterwards.
func (w *Writer) Freeze() (err error) {
	defer func() {
		if err != nil {
			w.abort()
		}
	}()

	if w.state != stateOpen {
		return ErrFrozen
	}

	h := sha512.New512_256()
	tee := io.MultiWriter(w.fd, h)

	pgsz := uint64(os.Getpagesize())
	pgsz1 := pgsz - 1
	offtbl := (w.off + pgsz1) &^ pgsz1
	if offtbl > w.off {
		if _, err = writeAll(w.fd, make([]byte, offtbl-w.off)); err != nil {
			return err
		}
		w.off = offtbl
	}

	var ehdr [64]byte
	be := binary.BigEndian
	copy(ehdr[:4], magic)
	i := 4
	i += 4 // flags, reserved
	i += copy(ehdr[i:], w.salt)
	be.PutUint64(ehdr[i:i+8], uint64(len(w.records)))
	i += 8
	be.PutUint64(ehdr[i:i+8], offtbl)
	h.Write(ehdr[:])

	if err = w.marshalOffsets(tee); err != nil {
		return err
	}

	cksum := h.Sum(nil)
	if _, err = writeAll(w.fd, cksum); err != nil {
		return err
	}

	if _, err = w.fd.Seek(0, 0); err != nil {
		return err
	}
	if _, err = writeAll(w.fd, ehdr[:]); err != nil {
		return err
	}
	if err = w.fd.Sync(); err != nil {
		return err
	}
	if err = w.fd.Close(); err != nil {
		return err
	}
	if err = os.Rename(w.fntmp, w.fn); err != nil {
		return err
	}

	w.state = stateFrozen
	return nil
}

// marshalOffsets writes the sorted fingerprint/offset/length table.
func (w *Writer) marshalOffsets(tee io.Writer) error {
	n := len(w.records)
	fps := make([]uint64, 0, n)
	for fp := range w.records {
		fps = append(fps, fp)
	}
	sort.Slice(fps, func(i, j int) bool { return fps[i] < fps[j] })

	fpArr := make([]uint64, n)
	offArr := make([]uint64, n)
	lenArr := make([]uint32, n)
	for i, fp := range fps {
		r := w.records[fp]
		fpArr[i] = toLEUint64(fp)
		offArr[i] = toLEUint64(r.off)
		lenArr[i] = toLEUint32(r.vlen)
	}

	if _, err := writeAll(tee, u64sToByteSlice(fpArr)); err != nil {
		return err
	}
	if _, err := writeAll(tee, u64sToByteSlice(offArr)); err != nil {
		return err
	}
	if _, err := writeAll(tee, u32sToByteSlice(lenArr)); err != nil {
		return err
	}

	w.off += uint64(n * (8 + 8 + 4))
	return nil
}
