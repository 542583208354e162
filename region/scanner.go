// Package region finds runs of equal-valued bits in a bitvec.Vector on behalf
// of allocators. A Scanner owns the mutable search state its strategies need,
// so two scanners over the same vector never interfere with each other.
package region

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/memkit/bitpool"
	"github.com/memkit/bitpool/bitvec"
)

// NotFound is returned from Scan and ScanAndFlip when no region satisfies the
// request. It is larger than any valid bit index.
const NotFound = math.MaxInt

// DefaultMaxBlock is the largest BuddySystem request size in units, unless
// SetMaxBlock changes it. The buddy walk also spans at most this many units
// beyond its starting offset before giving up.
const DefaultMaxBlock = 512

// warmupScans is the number of leading BuddySystem scans that walk from the
// bottom of the vector while the resume offset accumulates.
const warmupScans = 3

// Scanner locates free regions in a bit vector using a configurable strategy.
// It is not safe for concurrent use: the NextFit cursor and the BuddySystem
// bookkeeping are plain fields, and no locking covers a Scan against a
// concurrent mutation of the vector. Callers that share a scanner or its
// vector across goroutines must serialize externally.
type Scanner struct {
	vec      *bitvec.Vector
	strategy Strategy

	maxBlock int

	// cursor holds the index of the previous successful NextFit scan and is
	// where the next one resumes.
	cursor int

	// buddyScans counts BuddySystem scans, saturating at warmupScans.
	// buddyResume accumulates the request sizes of those scans and becomes the
	// walk origin for every scan after the warm-up.
	buddyScans  int
	buddyResume int
}

// NewScanner returns a scanner over vec using the given strategy.
func NewScanner(vec *bitvec.Vector, strategy Strategy) *Scanner {
	if vec == nil {
		panic("region: scanner created with a nil vector")
	}
	if _, ok := strategyMapping[strategy]; !ok {
		panic(fmt.Sprintf("region: unknown scan strategy %d", strategy))
	}

	return &Scanner{
		vec:      vec,
		strategy: strategy,
		maxBlock: DefaultMaxBlock,
	}
}

// Strategy returns the scanner's active strategy.
func (s *Scanner) Strategy() Strategy {
	return s.strategy
}

// SetStrategy switches the scanner to a different strategy. Search state is
// retained across the switch: the NextFit cursor and the BuddySystem
// bookkeeping stay wherever earlier scans left them.
func (s *Scanner) SetStrategy(strategy Strategy) {
	if _, ok := strategyMapping[strategy]; !ok {
		panic(fmt.Sprintf("region: unknown scan strategy %d", strategy))
	}
	s.strategy = strategy
}

// MaxBlock returns the largest request size the BuddySystem strategy will
// consider.
func (s *Scanner) MaxBlock() int {
	return s.maxBlock
}

// SetMaxBlock changes the largest BuddySystem request size. maxBlock must be a
// power of two no smaller than two.
func (s *Scanner) SetMaxBlock(maxBlock int) error {
	if maxBlock < 2 {
		return errors.Errorf("buddy max block %d is too small", maxBlock)
	}
	if err := bitpool.CheckPow2(maxBlock, "buddy max block"); err != nil {
		return err
	}

	s.maxBlock = maxBlock
	return nil
}

// Scan searches for count consecutive bits equal to value at or after start
// and returns the index of the first bit of the selected region, or NotFound
// when no qualifying region exists. Which region is selected, and how much of
// the vector gets examined, depends on the strategy; BuddySystem ignores start
// entirely and walks from its own origin.
//
// A count of zero succeeds at index 0 unconditionally, without examining the
// vector or touching any search state. A count larger than the vector is
// NotFound, again without touching search state. start must lie in [0, Len]
// and neither argument may be negative; violations panic.
func (s *Scanner) Scan(start, count int, value bool) int {
	if start < 0 || start > s.vec.Len() {
		panic(fmt.Sprintf("region: scan start %d out of range for %d-bit vector", start, s.vec.Len()))
	}
	if count < 0 {
		panic(fmt.Sprintf("region: negative scan count %d", count))
	}

	if count == 0 {
		return 0
	}
	if count > s.vec.Len() {
		return NotFound
	}

	last := s.vec.Len() - count

	switch s.strategy {
	case FirstFit:
		return s.firstFit(start, last, count, value)
	case NextFit:
		return s.nextFit(start, last, count, value)
	case BestFit:
		return s.bestFit(start, count, value)
	case BuddySystem:
		return s.buddyFit(count, value)
	default:
		panic(fmt.Sprintf("region: unknown scan strategy %d", s.strategy))
	}
}

// ScanAndFlip scans like Scan and, on success, sets the count bits at the
// returned index to the complement of value, converting the found region in a
// single call. The scan and the write are not one indivisible step: a
// concurrent caller can observe or claim the region between them, so callers
// needing exclusivity must hold a lock across the whole call. On NotFound the
// vector is untouched, and a count of zero returns 0 without mutating
// anything.
func (s *Scanner) ScanAndFlip(start, count int, value bool) int {
	idx := s.Scan(start, count, value)
	if idx != NotFound && count > 0 {
		s.vec.SetRange(idx, count, !value)
	}

	return idx
}

// Validate checks the scanner's bookkeeping invariants. When the
// implementation is functioning correctly, it should not be possible for this
// method to return an error.
func (s *Scanner) Validate() error {
	if _, ok := strategyMapping[s.strategy]; !ok {
		return errors.Errorf("unknown scan strategy %d", s.strategy)
	}

	if s.cursor < 0 || (s.cursor > 0 && s.cursor >= s.vec.Len()) {
		return errors.Errorf("cursor %d out of range for %d-bit vector", s.cursor, s.vec.Len())
	}

	if s.buddyScans < 0 || s.buddyScans > warmupScans {
		return errors.Errorf("buddy warm-up scan count %d out of range", s.buddyScans)
	}
	if s.buddyResume < 0 {
		return errors.Errorf("buddy resume offset %d is negative", s.buddyResume)
	}

	return bitpool.CheckPow2(s.maxBlock, "buddy max block")
}
