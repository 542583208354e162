package region

import "math"

// bestFit measures every maximal run of value bits beginning at or after start
// and selects the one that holds count bits with the least space left over. A
// candidate only displaces the current best when its waste is strictly
// smaller, so ties go to the lowest index. Runs already underway at start are
// measured from start onward.
func (s *Scanner) bestFit(start, count int, value bool) int {
	best := NotFound
	bestWaste := math.MaxInt

	for i := start; i < s.vec.Len(); {
		if s.vec.Test(i) != value {
			i++
			continue
		}

		runStart := i
		for i < s.vec.Len() && s.vec.Test(i) == value {
			i++
		}
		runLen := i - runStart

		if runLen < count {
			continue
		}

		waste := runLen - count
		if waste < bestWaste {
			best = runStart
			bestWaste = waste
		}
	}

	return best
}
