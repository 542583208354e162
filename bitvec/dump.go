package bitvec

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"sync/atomic"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/memkit/bitpool"
)

// WriteHexDump writes a canonical hex dump of the vector's raw image to w, one
// sixteen-byte row per line.
func (v *Vector) WriteHexDump(w io.Writer) error {
	d := hex.Dumper(w)

	var buf [8]byte
	for i := range v.words {
		binary.LittleEndian.PutUint64(buf[:], atomic.LoadUint64(&v.words[i]))
		if _, err := d.Write(buf[:]); err != nil {
			return cerrors.Wrap(err, "hex dump")
		}
	}

	return cerrors.Wrap(d.Close(), "hex dump")
}

// WriteBinaryDump writes the vector to w as binary digits, one backing word per
// line starting at the word's lowest bit, stopping at the vector length.
func (v *Vector) WriteBinaryDump(w io.Writer) error {
	line := make([]byte, 0, wordBits+1)
	for i := 0; i < v.length; i += wordBits {
		word := atomic.LoadUint64(&v.words[wordIndex(i)])

		line = line[:0]
		for j := 0; j < wordBits && i+j < v.length; j++ {
			if word&(uint64(1)<<j) != 0 {
				line = append(line, '1')
			} else {
				line = append(line, '0')
			}
		}
		line = append(line, '\n')

		if _, err := w.Write(line); err != nil {
			return cerrors.Wrap(err, "binary dump")
		}
	}

	return nil
}

// JsonData populates a json object with summary information about the vector
func (v *Vector) JsonData(json jwriter.ObjectState) {
	set := v.CountRange(0, v.length, true)

	json.Name("Bits").Int(v.length)
	json.Name("Words").Int(len(v.words))
	json.Name("SetBits").Int(set)
	json.Name("ClearBits").Int(v.length - set)
}

// AddDetailedStatistics accumulates run-level accounting for the vector into
// stats. Every maximal run of set bits counts as one allocation and every
// maximal run of clear bits as one free run.
func (v *Vector) AddDetailedStatistics(stats *bitpool.DetailedStatistics) {
	stats.VectorCount++
	stats.UnitCount += v.length

	for start := 0; start < v.length; {
		value := v.Test(start)
		end := start + 1
		for end < v.length && v.Test(end) == value {
			end++
		}

		if value {
			stats.AddAllocation(end - start)
		} else {
			stats.AddFreeRun(end - start)
		}
		start = end
	}
}
