package region

import "github.com/memkit/bitpool"

// buddyFit hunts for a power-of-two block holding count bits of value.
//
// The requested start is not honored. The first warmupScans scans walk from
// index 0 while buddyResume accumulates their request sizes; every later scan
// walks from the accumulated offset instead, so free space below the resume
// offset goes unseen once the warm-up ends. There is no free-list bookkeeping
// either: block sizes are inferred from the raw bit pattern alone.
//
// The walk spans at most maxBlock units past its origin, clamped to the end of
// the vector. Occupied stretches are hopped in one stride of the stretch
// length rounded up to a power of two; a stretch longer than half of maxBlock
// is treated as an unrecoverable gap.
func (s *Scanner) buddyFit(count int, value bool) int {
	if count > s.maxBlock {
		return NotFound
	}

	origin := 0
	if s.buddyScans < warmupScans {
		s.buddyScans++
		s.buddyResume += count
	} else {
		origin = s.buddyResume
	}

	// The block size for the request: the smallest power of two holding count
	// bits. A single-unit request degenerates to a plain bit walk.
	step := bitpool.NextPow2(count)
	bound := step / 2
	bitpool.DebugCheckPow2(step, "buddy step")

	limit := origin + s.maxBlock
	if limit > s.vec.Len() {
		limit = s.vec.Len()
	}
	runCap := s.maxBlock / 2

	i := origin
	for i < limit {
		if s.vec.Test(i) != value {
			run, ok := s.occupiedRun(i, limit, value)
			if !ok || run > runCap {
				return NotFound
			}

			stride := bitpool.NextPow2(run)
			if stride < step {
				stride = step
			}
			i += stride
			continue
		}

		if bound == 0 {
			// Single-unit request and the bit itself is known free.
			return i
		}

		if i+step > s.vec.Len() {
			return NotFound
		}
		if !s.vec.Contains(i, step, !value) {
			return i
		}
		i += step
	}

	return NotFound
}

// occupiedRun measures the stretch of non-value bits beginning at from. It
// reports failure when the stretch reaches limit before ending.
func (s *Scanner) occupiedRun(from, limit int, value bool) (int, bool) {
	for j := from; ; j++ {
		if j >= limit {
			return 0, false
		}
		if s.vec.Test(j) == value {
			return j - from, true
		}
	}
}
