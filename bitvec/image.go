package bitvec

import (
	"encoding/binary"
	"io"
	"sync/atomic"

	cerrors "github.com/cockroachdb/errors"
)

// ImageSize returns the size in bytes of the vector's raw storage image as
// written by WriteTo. Whole backing words are stored, so the size is a multiple
// of eight.
func (v *Vector) ImageSize() int {
	return len(v.words) * 8
}

// WriteTo writes the vector's raw image to w: every backing word in order,
// little-endian. It implements io.WriterTo.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, v.ImageSize())
	for i := range v.words {
		binary.LittleEndian.PutUint64(buf[i*8:], atomic.LoadUint64(&v.words[i]))
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), cerrors.Wrapf(err, "writing %d-byte bit image", len(buf))
	}

	return int64(n), nil
}

// ReadFrom replaces the vector's contents with a raw image previously produced
// by WriteTo for a vector of the same length. Whatever the image holds beyond
// the vector length is cleared after the load, so the tail invariant survives
// images written by other tools. A short read is an error and leaves the
// vector unchanged. It implements io.ReaderFrom.
func (v *Vector) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, v.ImageSize())
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), cerrors.Wrapf(err, "reading %d-byte bit image", len(buf))
	}

	for i := range v.words {
		atomic.StoreUint64(&v.words[i], binary.LittleEndian.Uint64(buf[i*8:]))
	}
	v.maskTail()

	return int64(n), nil
}

// maskTail clears any bits at or beyond the vector length in the final backing
// word.
func (v *Vector) maskTail() {
	if v.length%wordBits == 0 || len(v.words) == 0 {
		return
	}
	atomic.AndUint64(&v.words[len(v.words)-1], lastWordMask(v.length))
}
