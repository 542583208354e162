// Package bitvec provides a fixed-length vector of bits backed by 64-bit words,
// with atomic single-bit mutation and word-masked bulk operations. It is the
// storage layer the region scanners and pools are built on.
package bitvec

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/pkg/errors"
)

const wordBits = 64

// Vector is a fixed-length sequence of bits. The length is set at creation and
// never changes. Single-bit mutations are atomic with respect to other bits in
// the same backing word; range operations apply one atomic update per touched
// word. Bits at index Len() or beyond in the final word are always zero.
type Vector struct {
	length int
	words  []uint64
}

// New returns a vector of length bits, all false. It panics if length is
// negative.
func New(length int) *Vector {
	if length < 0 {
		panic(fmt.Sprintf("bitvec: negative vector length %d", length))
	}

	return &Vector{
		length: length,
		words:  make([]uint64, WordsFor(length)),
	}
}

// NewInWords returns a vector of length bits that uses words as its backing
// storage, for callers that preallocate that storage themselves. The slice must
// hold at least WordsFor(length) words and is cleared before use. The vector
// owns the slice afterwards.
func NewInWords(length int, words []uint64) *Vector {
	if length < 0 {
		panic(fmt.Sprintf("bitvec: negative vector length %d", length))
	}

	need := WordsFor(length)
	if len(words) < need {
		panic(fmt.Sprintf("bitvec: %d-bit vector needs %d backing words, got %d", length, need, len(words)))
	}

	words = words[:need]
	for i := range words {
		words[i] = 0
	}

	return &Vector{
		length: length,
		words:  words,
	}
}

// WordsFor returns the number of backing words required for a vector of length
// bits.
func WordsFor(length int) int {
	return (length + wordBits - 1) / wordBits
}

// BufSize returns the number of bytes required to back a vector of length bits.
// It equals the size of the vector's raw storage image.
func BufSize(length int) int {
	return WordsFor(length) * 8
}

// Len returns the vector's length in bits.
func (v *Vector) Len() int {
	return v.length
}

// Test reports the value of the bit at index bit.
func (v *Vector) Test(bit int) bool {
	v.checkIndex(bit)
	return atomic.LoadUint64(&v.words[wordIndex(bit)])&bitMask(bit) != 0
}

// Mark atomically sets the bit at index bit to true.
func (v *Vector) Mark(bit int) {
	v.checkIndex(bit)
	atomic.OrUint64(&v.words[wordIndex(bit)], bitMask(bit))
}

// Reset atomically sets the bit at index bit to false.
func (v *Vector) Reset(bit int) {
	v.checkIndex(bit)
	atomic.AndUint64(&v.words[wordIndex(bit)], ^bitMask(bit))
}

// Flip atomically inverts the bit at index bit.
func (v *Vector) Flip(bit int) {
	v.checkIndex(bit)

	word := &v.words[wordIndex(bit)]
	mask := bitMask(bit)
	for {
		old := atomic.LoadUint64(word)
		if atomic.CompareAndSwapUint64(word, old, old^mask) {
			return
		}
	}
}

// Set sets the bit at index bit to value.
func (v *Vector) Set(bit int, value bool) {
	if value {
		v.Mark(bit)
	} else {
		v.Reset(bit)
	}
}

// SetRange sets the count bits at start to value. Bits outside the range are
// unaffected, including bits sharing a backing word with the range.
func (v *Vector) SetRange(start, count int, value bool) {
	v.checkRange(start, count)
	if count == 0 {
		return
	}

	v.visitWords(start, count, func(word int, mask uint64) bool {
		if value {
			atomic.OrUint64(&v.words[word], mask)
		} else {
			atomic.AndUint64(&v.words[word], ^mask)
		}
		return true
	})
}

// SetAll sets every bit in the vector to value.
func (v *Vector) SetAll(value bool) {
	v.SetRange(0, v.length, value)
}

// CountRange returns how many of the count bits at start equal value.
func (v *Vector) CountRange(start, count int, value bool) int {
	v.checkRange(start, count)
	if count == 0 {
		return 0
	}

	set := 0
	v.visitWords(start, count, func(word int, mask uint64) bool {
		set += bits.OnesCount64(atomic.LoadUint64(&v.words[word]) & mask)
		return true
	})

	if value {
		return set
	}
	return count - set
}

// Contains reports whether any of the count bits at start equals value.
func (v *Vector) Contains(start, count int, value bool) bool {
	v.checkRange(start, count)
	if count == 0 {
		return false
	}

	found := false
	v.visitWords(start, count, func(word int, mask uint64) bool {
		w := atomic.LoadUint64(&v.words[word])
		if !value {
			w = ^w
		}
		if w&mask != 0 {
			found = true
			return false
		}
		return true
	})

	return found
}

// Any reports whether any of the count bits at start is true.
func (v *Vector) Any(start, count int) bool {
	return v.Contains(start, count, true)
}

// None reports whether none of the count bits at start is true.
func (v *Vector) None(start, count int) bool {
	return !v.Contains(start, count, true)
}

// All reports whether every one of the count bits at start is true.
func (v *Vector) All(start, count int) bool {
	return !v.Contains(start, count, false)
}

// Validate checks the vector's internal invariants: the backing slice matches
// the bit length and no bit at or beyond the length is set in the final word.
// When the implementation is functioning correctly, it should not be possible
// for this method to return an error.
func (v *Vector) Validate() error {
	if len(v.words) != WordsFor(v.length) {
		return errors.Errorf("%d-bit vector backed by %d words, expected %d", v.length, len(v.words), WordsFor(v.length))
	}

	if v.length%wordBits != 0 && len(v.words) > 0 {
		tail := atomic.LoadUint64(&v.words[len(v.words)-1]) &^ lastWordMask(v.length)
		if tail != 0 {
			return errors.Errorf("bits beyond the %d-bit vector length are set: %#x", v.length, tail)
		}
	}

	return nil
}

// visitWords invokes fn once per backing word overlapping the count bits at
// start, passing the word index and a mask of the bits of that word that lie
// inside the range. It stops early if fn returns false. count must be positive.
func (v *Vector) visitWords(start, count int, fn func(word int, mask uint64) bool) {
	first := wordIndex(start)
	last := wordIndex(start + count - 1)

	if first == last {
		fn(first, rangeMask(start%wordBits, (start+count-1)%wordBits))
		return
	}

	if !fn(first, ^uint64(0)<<(start%wordBits)) {
		return
	}
	for word := first + 1; word < last; word++ {
		if !fn(word, ^uint64(0)) {
			return
		}
	}
	fn(last, rangeMask(0, (start+count-1)%wordBits))
}

func (v *Vector) checkIndex(bit int) {
	if bit < 0 || bit >= v.length {
		panic(fmt.Sprintf("bitvec: bit index %d out of range for %d-bit vector", bit, v.length))
	}
}

func (v *Vector) checkRange(start, count int) {
	if start < 0 || count < 0 || start > v.length || start+count > v.length {
		panic(fmt.Sprintf("bitvec: range [%d, %d) out of range for %d-bit vector", start, start+count, v.length))
	}
}

func wordIndex(bit int) int {
	return bit / wordBits
}

func bitMask(bit int) uint64 {
	return uint64(1) << (bit % wordBits)
}

// rangeMask returns a mask covering bits lo through hi inclusive within a
// single word.
func rangeMask(lo, hi int) uint64 {
	return (^uint64(0) << lo) & (^uint64(0) >> (wordBits - 1 - hi))
}

// lastWordMask returns the mask of in-range bits in the final backing word of a
// vector of length bits.
func lastWordMask(length int) uint64 {
	if length%wordBits == 0 {
		return ^uint64(0)
	}
	return (uint64(1) << (length % wordBits)) - 1
}
